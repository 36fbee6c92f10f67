package service

import (
	"math"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Page is a validated page request.
type Page struct {
	Number int64
	Limit  int64
}

// Skip is the number of records before this page. It saturates at
// math.MaxInt64 instead of overflowing, which yields an empty page.
func (p Page) Skip() int64 {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return p.Limit * (p.Number - 1)
}

// Pagination describes a page of a listing in responses.
type Pagination struct {
	CurrentPage int64 `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
}

// ParsePage reads the raw page and limit query values. Empty values fall
// back to page 1 and limit 10; anything non-numeric or below 1 is rejected.
func ParsePage(rawPage, rawLimit string) (Page, error) {
	page, err := parsePositive("page", rawPage, defaultPage)
	if err != nil {
		return Page{}, err
	}
	limit, err := parsePositive("limit", rawLimit, defaultLimit)
	if err != nil {
		return Page{}, err
	}
	return Page{Number: page, Limit: limit}, nil
}

func parsePositive(name, raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, validationError("%s must be a positive integer", name)
	}
	return n, nil
}

// NewPagination computes the pagination block for total matching records.
func NewPagination(p Page, total int64) Pagination {
	pages := total / p.Limit
	if total%p.Limit != 0 {
		pages++
	}
	return Pagination{
		CurrentPage: p.Number,
		TotalPages:  pages,
		TotalUsers:  total,
	}
}
