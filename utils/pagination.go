// utils/pagination.go - Shared list pagination helpers
package utils

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageMeta describes one page of a list response.
type PageMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
}

// ParsePositive parses a positive integer query value, falling back to def.
func ParsePositive(q string, def int) int {
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ClampPageSize keeps the requested page size within sane bounds.
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// NewPageMeta computes totals for a page of `total` rows.
func NewPageMeta(page, size int, total int64) PageMeta {
	if page <= 0 {
		page = 1
	}
	size = ClampPageSize(size)
	pages := int((total + int64(size) - 1) / int64(size))
	return PageMeta{Page: page, PageSize: size, Total: total, Pages: pages}
}

// Offset returns the row offset for the page.
func (m PageMeta) Offset() int {
	return (m.Page - 1) * m.PageSize
}
