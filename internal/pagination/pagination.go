// Package pagination is the offset-based pagination contract shared by
// the category and question listings.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params are 1-based page coordinates. Zero or negative inputs fall
// back to the defaults.
type Params struct {
	Page  int
	Limit int
}

func FromQuery(q url.Values) Params {
	return Params{
		Page:  positiveIntParam(q, "page", DefaultPage),
		Limit: positiveIntParam(q, "limit", DefaultLimit),
	}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Result is the paginated response shape. NextPage and PrevPage are
// booleans, not page numbers.
type Result[T any] struct {
	Docs       []T  `json:"docs"`
	TotalDocs  int  `json:"totalDocs"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	Page       int  `json:"page"`
	NextPage   bool `json:"nextPage"`
	PrevPage   bool `json:"prevPage"`
}

// Compose assembles the result for one page of docs out of totalDocs
// matching records.
func Compose[T any](docs []T, totalDocs int, p Params) Result[T] {
	if docs == nil {
		docs = []T{}
	}
	totalPages := (totalDocs + p.Limit - 1) / p.Limit
	return Result[T]{
		Docs:       docs,
		TotalDocs:  totalDocs,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Page:       p.Page,
		NextPage:   p.Page < totalPages,
		PrevPage:   p.Page > 1,
	}
}

func positiveIntParam(q url.Values, key string, fallback int) int {
	s := q.Get(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
