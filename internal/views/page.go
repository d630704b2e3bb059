package views

// maxPageLimit bounds the page size a caller can request.
const maxPageLimit = 100

// PageRequest carries caller-supplied pagination parameters. Out-of-range
// values are clamped rather than rejected.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) clamp() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// PageMeta describes one page of a larger result set.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func metaFor(req PageRequest, total int) PageMeta {
	pages := total / req.Limit
	if total%req.Limit != 0 {
		pages++
	}
	return PageMeta{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalItems: total,
		TotalPages: pages,
	}
}

// Page is a bounded slice of a view plus its pagination metadata.
type Page[T any] struct {
	Items []T `json:"items"`
	PageMeta
}

func pageFrom[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, PageMeta: metaFor(req, total)}
}
