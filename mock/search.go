package mock

import (
	"context"

	"github.com/fwojciec/doxindex"
)

var _ doxindex.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of doxindex.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, opts doxindex.SearchOptions) ([]*doxindex.Match, error)
}

func (s *Searcher) Search(ctx context.Context, query string, opts doxindex.SearchOptions) ([]*doxindex.Match, error) {
	return s.SearchFn(ctx, query, opts)
}
