// Package ownership enforces the single write rule of the platform: only
// the owner of a resource may mutate or delete it.
package ownership

import "errors"

// ErrForbidden indicates the actor is not the resource owner.
var ErrForbidden = errors.New("not the resource owner")

// Assert returns ErrForbidden unless actorID owns the resource. An empty
// actor is never an owner.
func Assert(ownerID, actorID string) error {
	if actorID == "" || actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
