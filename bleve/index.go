// Package bleve provides tolerant symbol search backed by an in-memory
// bleve index. Unlike the prefix search of the documentation site it also
// finds misspelled names and words inside descriptors.
package bleve

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/fwojciec/doxindex"
)

// Ensure Index implements doxindex.Searcher at compile time.
var _ doxindex.Searcher = (*Index)(nil)

// DefaultFuzziness is the edit distance tolerated on names.
const DefaultFuzziness = 1

// Index is a full-text index of the records of one table. Documents are
// keyed by record key.
type Index struct {
	index   bleve.Index
	records map[string]*doxindex.Record

	// Fuzziness is the edit distance tolerated on names; zero disables
	// fuzzy matching.
	Fuzziness int
}

// NewIndex indexes every record of t.
func NewIndex(t *doxindex.Table) (*Index, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	idx := &Index{
		index:     index,
		records:   make(map[string]*doxindex.Record),
		Fuzziness: DefaultFuzziness,
	}
	if t == nil {
		return idx, nil
	}

	batch := index.NewBatch()
	for _, rec := range t.Records {
		if _, ok := idx.records[rec.Key]; ok {
			continue
		}
		idx.records[rec.Key] = rec
		if err := batch.Index(rec.Key, document(rec)); err != nil {
			index.Close()
			return nil, fmt.Errorf("indexing %q: %w", rec.Key, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("indexing table: %w", err)
	}
	return idx, nil
}

func newMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = false

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	exact.Store = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("scope", text)
	doc.AddFieldMappingsAt("key", exact)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

func document(rec *doxindex.Record) map[string]any {
	scopes := make([]string, 0, len(rec.Refs))
	for _, ref := range rec.Refs {
		if ref.Scope != "" {
			scopes = append(scopes, doxindex.ParseScope(ref.Scope).Text)
		}
	}
	return map[string]any{
		"name":  rec.Name,
		"key":   rec.Key,
		"scope": strings.Join(scopes, "\n"),
	}
}

// Search returns records ranked by relevance. Name matches, name prefixes,
// key prefixes and near-misses of the name all contribute to the score.
func (idx *Index) Search(ctx context.Context, q string, opts doxindex.SearchOptions) ([]*doxindex.Match, error) {
	q = strings.TrimSpace(q)
	if q == "" || len(idx.records) == 0 {
		return nil, ctx.Err()
	}
	lower := strings.ToLower(q)

	match := bleve.NewMatchQuery(q)
	match.SetField("name")

	prefix := bleve.NewPrefixQuery(lower)
	prefix.SetField("name")

	keyPrefix := bleve.NewPrefixQuery(doxindex.QueryKey(q))
	keyPrefix.SetField("key")

	scope := bleve.NewMatchQuery(q)
	scope.SetField("scope")
	scope.SetBoost(0.5)

	queries := []query.Query{match, prefix, keyPrefix, scope}
	if idx.Fuzziness > 0 {
		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetField("name")
		fuzzy.SetFuzziness(idx.Fuzziness)
		queries = append(queries, fuzzy)
	}

	size := opts.Limit
	if size <= 0 {
		size = len(idx.records)
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), size, 0, false)

	res, err := idx.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := make([]*doxindex.Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		rec, ok := idx.records[hit.ID]
		if !ok {
			continue
		}
		matches = append(matches, &doxindex.Match{Record: rec, Score: hit.Score})
	}
	return matches, nil
}

// DocCount returns the number of indexed records.
func (idx *Index) DocCount() (uint64, error) {
	return idx.index.DocCount()
}

// Close releases the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}
