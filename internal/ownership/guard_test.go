package ownership

import (
	"errors"
	"testing"
)

func TestAssert(t *testing.T) {
	cases := []struct {
		name    string
		owner   string
		actor   string
		wantErr bool
	}{
		{name: "owner", owner: "u1", actor: "u1"},
		{name: "other user", owner: "u1", actor: "u2", wantErr: true},
		{name: "anonymous", owner: "u1", actor: "", wantErr: true},
		{name: "both empty", owner: "", actor: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Assert(tc.owner, tc.actor)
			if tc.wantErr && !errors.Is(err, ErrForbidden) {
				t.Fatalf("err = %v, want ErrForbidden", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("err = %v, want nil", err)
			}
		})
	}
}
