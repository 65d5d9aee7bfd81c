package models

// PageRequest is a zero-based page selector.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the row offset of the page.
func (p PageRequest) Offset() int {
	if p.Page < 0 || p.Size <= 0 {
		return 0
	}
	return p.Page * p.Size
}

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// NewPage wraps items with paging metadata. Content is never nil so it
// serializes as [].
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return Page[T]{
		Content:       items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Normalize applies the default size when none was given and caps it at max.
// Negative pages are treated as the first page.
func (p PageRequest) Normalize(def, max int) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = def
	}
	if max > 0 && p.Size > max {
		p.Size = max
	}
	return p
}
