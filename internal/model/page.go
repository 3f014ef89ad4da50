package model

const MaxPageSize = 500

// PageRequest selects one slice of a listing by page number and size.
// No total count is computed for a page.
type PageRequest struct {
	Page int
	Size int
}

// PageOf returns the request for the given zero-based page.
func PageOf(page, size int) PageRequest {
	return PageRequest{Page: page, Size: size}
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
