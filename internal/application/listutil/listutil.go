// Package listutil pages and filters the in-memory lists behind the
// history and submissions pages.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// All is the filter value that disables a filter.
const All = "alle"

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseFilters reads the named filters. Missing, empty and "alle" values
// all become All.
func ParseFilters(q url.Values, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v := strings.TrimSpace(q.Get(k))
		if v == "" || strings.EqualFold(v, All) {
			v = All
		}
		out[k] = v
	}
	return out
}

// Active returns v, or "" when v is All. Stores treat "" as no filter.
func Active(v string) string {
	if v == All {
		return ""
	}
	return v
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: Page clamped to 1..TotalPages; TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Paginate returns the slice of items on the requested page.
func Paginate[T any](items []T, p PageParams) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(items))
	start := info.Offset()
	if start >= len(items) {
		return []T{}, info
	}
	end := start + info.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], info
}

// Offset is the index of the first item on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number, 0 for an empty list.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// PageNumbers returns at most 5 page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - maxButtons + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// ShowPagination reports whether the list spans more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
