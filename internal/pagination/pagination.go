// Package pagination slices ordered listings into fixed-size pages.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPerPage is the listing page size used when none is configured.
const DefaultPerPage = 10

// Page is one slice of an ordered listing along with navigation metadata.
type Page[T any] struct {
	Items      []T
	Number     int
	PerPage    int
	TotalCount int64
	NumPages   int
}

// Params is an unresolved page request as it arrives from a listing URL.
type Params struct {
	Raw     string
	PerPage int
}

// Request is a resolved page request: the page number, limit and offset to query.
type Request struct {
	Number   int
	PerPage  int
	Offset   int
	NumPages int
}

// NumPages returns the page count for total items; an empty listing still has one page.
func NumPages(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// Resolve turns a raw page query value into a concrete page. Unparseable values
// yield the first page; numbers outside the valid range yield the last page.
func Resolve(raw string, total int64, perPage int) Request {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	pages := NumPages(total, perPage)

	number, ok := parseNumber(raw)
	switch {
	case !ok:
		number = 1
	case number < 1 || number > pages:
		number = pages
	}

	return Request{
		Number:   number,
		PerPage:  perPage,
		Offset:   (number - 1) * perPage,
		NumPages: pages,
	}
}

func parseNumber(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// NewPage assembles a Page from a resolved request and the items fetched for it.
func NewPage[T any](req Request, items []T, total int64) *Page[T] {
	return &Page[T]{
		Items:      items,
		Number:     req.Number,
		PerPage:    req.PerPage,
		TotalCount: total,
		NumPages:   req.NumPages,
	}
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page[T]) NextPageNumber() int {
	return p.Number + 1
}

func (p *Page[T]) PreviousPageNumber() int {
	return p.Number - 1
}

// PageRange lists every page number, for rendering navigation links.
func (p *Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
