package models

import (
	"math"

	"hrcatalog/pkg/platform/validation"
)

// MaxPage is the largest page whose offset fits in an int at the largest
// page size.
const MaxPage = math.MaxInt / validation.MaxPageSize

// Order is one sort key.
type Order struct {
	Field string
	Desc  bool
}

// Pageable selects a zero-based page of a listing.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// NewPageable clamps page and size into range: negative pages become 0,
// pages past MaxPage become MaxPage, a size below 1 becomes the default and
// sizes above the cap are cut down.
func NewPageable(page, size int, sort ...Order) Pageable {
	page = min(max(page, 0), MaxPage)
	if size < 1 {
		size = validation.DefaultPageSize
	}
	if size > validation.MaxPageSize {
		size = validation.MaxPageSize
	}
	return Pageable{Page: page, Size: size, Sort: sort}
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of a listing or a search.
type Page[E any] struct {
	Content []E
	Total   int64
	Number  int
	Size    int
}

// NewPage builds a page for p, never returning a nil Content slice.
func NewPage[E any](content []E, total int64, p Pageable) Page[E] {
	if content == nil {
		content = []E{}
	}
	return Page[E]{Content: content, Total: total, Number: p.Page, Size: p.Size}
}

// TotalPages returns the number of pages of Size needed to hold Total items.
func (p Page[E]) TotalPages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
