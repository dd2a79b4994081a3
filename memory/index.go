// Package memory answers searches against a table held in memory, matching
// query keys by prefix the way the generated documentation's search box
// does.
package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/bloom"
)

// Ensure Index implements doxindex.Searcher at compile time.
var _ doxindex.Searcher = (*Index)(nil)

// Index is an immutable, key-sorted view of a table.
type Index struct {
	records []*doxindex.Record
	keys    []string
	filter  *bloom.Filter
}

// NewIndex builds an index over t. When t holds duplicate keys the first
// record wins.
func NewIndex(t *doxindex.Table) *Index {
	idx := &Index{}
	seen := make(map[string]bool)
	if t != nil {
		for _, rec := range t.Records {
			if seen[rec.Key] {
				continue
			}
			seen[rec.Key] = true
			idx.records = append(idx.records, rec)
		}
	}
	slices.SortStableFunc(idx.records, func(a, b *doxindex.Record) int {
		return strings.Compare(a.Key, b.Key)
	})
	idx.keys = make([]string, len(idx.records))
	for i, rec := range idx.records {
		idx.keys[i] = rec.Key
	}
	idx.filter = bloom.NewKeyFilter(idx.keys)
	return idx
}

// Len returns the number of records in the index.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Lookup returns the record stored under key.
func (idx *Index) Lookup(key string) (*doxindex.Record, bool) {
	if !idx.filter.Test(key) {
		return nil, false
	}
	i, ok := slices.BinarySearch(idx.keys, key)
	if !ok {
		return nil, false
	}
	return idx.records[i], true
}

// Search returns records whose key starts with the encoded query, in key
// order. An exact match scores 1; prefix matches score by how much of the
// key the query covers.
func (idx *Index) Search(ctx context.Context, query string, opts doxindex.SearchOptions) ([]*doxindex.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := doxindex.QueryKey(query)
	if prefix == "" {
		return nil, nil
	}

	start, _ := slices.BinarySearch(idx.keys, prefix)
	var matches []*doxindex.Match
	for i := start; i < len(idx.keys) && strings.HasPrefix(idx.keys[i], prefix); i++ {
		matches = append(matches, &doxindex.Match{
			Record: idx.records[i],
			Score:  float64(len(prefix)) / float64(len(idx.keys[i])),
		})
		if opts.Limit > 0 && len(matches) == opts.Limit {
			break
		}
	}
	return matches, nil
}
