package doxindex

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Table is an ordered search index. Order is significant: it controls how
// results are grouped when displayed, and it is preserved on decode and
// encode.
type Table struct {
	Records []*Record `json:"records"`
}

// Record maps one search key to the references of every symbol sharing it.
type Record struct {
	// Key is the normalized search key (see EncodeKey).
	Key string `json:"key"`

	// Name is the display name shown in search results.
	Name string `json:"name"`

	// Refs lists the documentation locations, one per overload or location.
	Refs []Ref `json:"refs"`
}

// Ref is a single documentation location for a symbol.
type Ref struct {
	// Href is relative to the search directory, e.g.
	// ../interaction_8cpp.html#af3536032a069492cf617a36ffecc9013.
	Href string `json:"href"`

	// Parent is the target flag stored next to each href. A non-zero value
	// opens the link in the parent frame.
	Parent int `json:"parent"`

	// Scope is the HTML descriptor displayed next to the result, e.g.
	// "fene(Atom *a1, ...):&#160;interaction.cpp" or an owning class name.
	Scope string `json:"scope"`
}

// Page returns the HTML file part of the href.
func (r Ref) Page() string {
	page, _, _ := strings.Cut(r.Href, "#")
	return page
}

// Anchor returns the fragment part of the href, if any.
func (r Ref) Anchor() string {
	_, anchor, _ := strings.Cut(r.Href, "#")
	return anchor
}

var hrefPattern = regexp.MustCompile(`^[^#\s]+\.html(#[^#\s]+)?$`)

// ValidHref reports whether href points at an HTML page with an optional
// anchor fragment.
func ValidHref(href string) bool {
	return hrefPattern.MatchString(href)
}

// Validate returns an EINVALID error describing every malformed record.
func (t *Table) Validate() error {
	var errs []error
	seen := make(map[string]int, len(t.Records))
	for i, rec := range t.Records {
		if rec == nil {
			errs = append(errs, fmt.Errorf("record %d: missing", i))
			continue
		}
		if !ValidKey(rec.Key) {
			errs = append(errs, fmt.Errorf("record %d: invalid key %q", i, rec.Key))
		}
		if prev, ok := seen[rec.Key]; ok {
			errs = append(errs, fmt.Errorf("record %d: duplicate key %q (first at record %d)", i, rec.Key, prev))
		} else {
			seen[rec.Key] = i
		}
		if rec.Name == "" {
			errs = append(errs, fmt.Errorf("record %d (%s): name required", i, rec.Key))
		}
		if len(rec.Refs) == 0 {
			errs = append(errs, fmt.Errorf("record %d (%s): at least one reference required", i, rec.Key))
		}
		for j, ref := range rec.Refs {
			if !ValidHref(ref.Href) {
				errs = append(errs, fmt.Errorf("record %d (%s) ref %d: invalid href %q", i, rec.Key, j, ref.Href))
			}
		}
	}
	if len(errs) > 0 {
		return Errorf(EINVALID, "%s", errors.Join(errs...).Error())
	}
	return nil
}

// Lookup returns the record with the given key.
func (t *Table) Lookup(key string) (*Record, bool) {
	for _, rec := range t.Records {
		if rec.Key == key {
			return rec, true
		}
	}
	return nil, false
}

// Sort orders records by key.
func (t *Table) Sort() {
	slices.SortStableFunc(t.Records, func(a, b *Record) int {
		return strings.Compare(a.Key, b.Key)
	})
}

// Merge adds the records of other to t. Records with a key already present
// get the new refs appended, skipping exact duplicates. New keys are
// appended in the order they appear in other.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	index := make(map[string]*Record, len(t.Records))
	for _, rec := range t.Records {
		index[rec.Key] = rec
	}
	for _, rec := range other.Records {
		existing, ok := index[rec.Key]
		if !ok {
			cp := &Record{Key: rec.Key, Name: rec.Name, Refs: slices.Clone(rec.Refs)}
			t.Records = append(t.Records, cp)
			index[rec.Key] = cp
			continue
		}
		for _, ref := range rec.Refs {
			if !slices.Contains(existing.Refs, ref) {
				existing.Refs = append(existing.Refs, ref)
			}
		}
	}
}

// Split partitions the table by the first character of each key, keyed by
// the split file name for category (see LetterFile). Record order within
// each part is preserved.
func (t *Table) Split(category string) map[string]*Table {
	parts := make(map[string]*Table)
	for _, rec := range t.Records {
		name := LetterFile(category, rec.Key)
		if name == "" {
			continue
		}
		part, ok := parts[name]
		if !ok {
			part = &Table{}
			parts[name] = part
		}
		part.Records = append(part.Records, rec)
	}
	return parts
}

// Filter returns a new table holding the records for which keep returns
// true. Refs are shared with t.
func (t *Table) Filter(keep func(*Record) bool) *Table {
	out := &Table{}
	for _, rec := range t.Records {
		if keep(rec) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}
