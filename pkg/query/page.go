// Package query holds the pagination and ordering rules shared by every store
// implementation.
package query

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidPage = errors.New("itemsPerPage and itemOffset must be non-negative integers")

// Page selects a window of a sorted result. ItemsPerPage <= 0 means the whole result.
type Page struct {
	ItemsPerPage int64
	ItemOffset   int64
}

// ParsePage reads the raw itemsPerPage/itemOffset query values. Empty values are zero.
func ParsePage(itemsPerPage, itemOffset string) (Page, error) {
	limit, err := parseNonNegative(itemsPerPage)
	if err != nil {
		return Page{}, err
	}
	offset, err := parseNonNegative(itemOffset)
	if err != nil {
		return Page{}, err
	}
	return Page{ItemsPerPage: limit, ItemOffset: offset}, nil
}

func parseNonNegative(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

func (p Page) Paginated() bool {
	return p.ItemsPerPage > 0
}

// TotalPages is ceil(total / ItemsPerPage). An unpaginated result is one page,
// or none when empty.
func (p Page) TotalPages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	if !p.Paginated() {
		return 1
	}
	pages := total / p.ItemsPerPage
	if total%p.ItemsPerPage != 0 {
		pages++
	}
	return pages
}

// Apply returns the window of items selected by p. items must already be sorted.
func Apply[T any](items []T, p Page) []T {
	if !p.Paginated() {
		return items
	}
	n := int64(len(items))
	start := p.ItemOffset
	if start > n {
		start = n
	}
	end := n
	if p.ItemsPerPage < n-start {
		end = start + p.ItemsPerPage
	}
	return items[start:end]
}
