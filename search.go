package doxindex

import (
	"context"
	"strings"
)

// Match is a record returned by a search.
type Match struct {
	Record *Record `json:"record"`
	Score  float64 `json:"score"`
}

// SearchOptions controls a search.
type SearchOptions struct {
	// Limit caps the number of matches. Zero means no limit.
	Limit int
}

// Searcher finds records for a query typed by a user.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]*Match, error)
}

// QueryKey turns a user query into the key prefix a search box matches
// against. Surrounding whitespace is ignored.
func QueryKey(query string) string {
	return EncodeKey(strings.TrimSpace(query))
}
