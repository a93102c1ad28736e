package models

import (
	"math"
	"strconv"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
	MaxPageNumber    = 100000
)

// Page is a normalized offset pagination request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page to [1, MaxPageNumber] and limit to [1, MaxPageLimit].
// A missing limit falls back to defaultLimit.
func NewPage(page, limit, defaultLimit int) Page {
	switch {
	case page < 1:
		page = 1
	case page > MaxPageNumber:
		page = MaxPageNumber
	}
	switch {
	case limit < 1:
		limit = defaultLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return Page{Number: page, Limit: limit}
}

func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Limit) }

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(p Page, total int64) Pagination {
	return Pagination{
		Page:  p.Number,
		Limit: p.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

func (p Pagination) HasNext() bool { return p.Page < p.Pages }

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
