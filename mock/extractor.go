package mock

import "github.com/fwojciec/doxindex"

var _ doxindex.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of doxindex.Extractor.
type Extractor struct {
	ExtractFn func(html string, anchor string) (*doxindex.ExtractResult, error)
}

func (e *Extractor) Extract(html string, anchor string) (*doxindex.ExtractResult, error) {
	return e.ExtractFn(html, anchor)
}
