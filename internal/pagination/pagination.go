// Package pagination computes over-fetching list windows. A window fetches one
// record more than it displays so "is there a next page" is answered without a
// count query.
package pagination

import (
	"strconv"
	"strings"
)

const (
	// DefaultPerPage is used when a caller passes a non-positive page size.
	DefaultPerPage = 10
	// DashboardPerPage is the page size of dashboard listings.
	DashboardPerPage = 5
)

// Window is an immutable paging window.
type Window struct {
	perPage int
	page    int
}

// Info links the neighbouring pages. A nil field means there is no such page.
type Info struct {
	Next *int `json:"next"`
	Prev *int `json:"prev"`
}

// New returns a window for the 1-based page. Degenerate inputs are clamped:
// page < 1 becomes 1 and perPage <= 0 becomes DefaultPerPage.
func New(perPage, page int) Window {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	return Window{perPage: perPage, page: page}
}

// PerPage is the number of records shown per page.
func (w Window) PerPage() int { return w.perPage }

// Page is the clamped 1-based page number.
func (w Window) Page() int { return w.page }

// Skip is the number of records before this page.
func (w Window) Skip() int { return w.perPage * (w.page - 1) }

// Limit is the number of records to fetch, always PerPage()+1.
func (w Window) Limit() int { return w.perPage + 1 }

// Info derives next/prev links from the number of records actually fetched
// with Limit().
func (w Window) Info(fetched int) Info {
	var info Info
	if fetched > w.perPage {
		next := w.page + 1
		info.Next = &next
	}
	if w.page > 1 {
		prev := w.page - 1
		info.Prev = &prev
	}
	return info
}

// Trim drops the look-ahead record, returning at most PerPage() items.
func Trim[T any](w Window, items []T) []T {
	if len(items) > w.perPage {
		return items[:w.perPage]
	}
	return items
}

// Apply trims items and computes Info in one step.
func Apply[T any](w Window, items []T) ([]T, Info) {
	return Trim(w, items), w.Info(len(items))
}

// ParsePage parses a page query value. Anything that isn't a positive integer
// yields 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
