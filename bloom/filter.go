// Package bloom provides a probabilistic set of search keys, used to answer
// "definitely not indexed" without touching the table.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate is used by NewKeyFilter.
const DefaultFalsePositiveRate = 0.01

// Filter wraps a Bloom filter holding search keys.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewKeyFilter creates a filter sized for and populated with keys.
func NewKeyFilter(keys []string) *Filter {
	f := NewFilter(uint(len(keys)), DefaultFalsePositiveRate)
	for _, k := range keys {
		f.Add(k)
	}
	return f
}

// Add adds a key to the filter.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of keys in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
