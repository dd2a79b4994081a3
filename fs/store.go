package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/js"
	"github.com/klauspost/compress/gzip"
)

// Ensure TableStore implements doxindex.TableStore at compile time.
var _ doxindex.TableStore = (*TableStore)(nil)

// TableStore implements doxindex.TableStore. Files are saved to a temporary
// directory and renamed into the output directory on Commit.
type TableStore struct {
	baseDir string
	name    string
	gzip    bool
}

// Option configures a TableStore.
type Option func(*TableStore)

// WithGzip writes a gzip-compressed copy next to every search file
// (all_66.js.gz beside all_66.js).
func WithGzip() Option {
	return func(s *TableStore) {
		s.gzip = true
	}
}

// NewTableStore creates a new TableStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewTableStore(baseDir, name string, opts ...Option) *TableStore {
	s := &TableStore{
		baseDir: baseDir,
		name:    name,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TableStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *TableStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes table as the search file name, e.g. all_66.js.
func (s *TableStore) Save(ctx context.Context, name string, table *doxindex.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return doxindex.Errorf(doxindex.EINVALID, "invalid file name %q: path traversal", name)
	}
	if !strings.HasSuffix(name, ".js") {
		return doxindex.Errorf(doxindex.EINVALID, "search file name must end in .js: %q", name)
	}
	if err := table.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), name)
	if err := writeTable(fullPath, table); err != nil {
		return err
	}
	if s.gzip {
		return writeGzip(fullPath+".gz", table)
	}
	return nil
}

func writeTable(path string, table *doxindex.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := js.Encode(f, table); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeGzip(path string, table *doxindex.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		return err
	}
	if err := js.Encode(zw, table); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Commit moves every saved file into the output directory, replacing files
// of the same name, and removes search files left over from an earlier run.
// Other files in the output directory, such as search.js, are kept.
func (s *TableStore) Commit() error {
	// Nothing saved still produces an empty directory.
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(s.finalDir(), 0755); err != nil {
		return err
	}

	saved, err := os.ReadDir(s.tempDir())
	if err != nil {
		return err
	}
	fresh := make(map[string]bool, len(saved))
	for _, e := range saved {
		fresh[e.Name()] = true
	}

	existing, err := os.ReadDir(s.finalDir())
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.IsDir() || fresh[e.Name()] || !isSearchFile(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.finalDir(), e.Name())); err != nil {
			return err
		}
	}

	for _, e := range saved {
		if err := os.Rename(filepath.Join(s.tempDir(), e.Name()), filepath.Join(s.finalDir(), e.Name())); err != nil {
			return err
		}
	}

	return os.RemoveAll(s.tempDir())
}

// Abort discards every file saved since the last Commit.
func (s *TableStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// searchPrefixes are the name prefixes of split search data files.
var searchPrefixes = []string{"all_", "classes_", "files_", "functions_", "variables_", "pages_"}

// isSearchFile reports whether name is a split search data file such as
// all_66.js or functions_66.js.gz.
func isSearchFile(name string) bool {
	base, ok := strings.CutSuffix(name, ".gz")
	if !ok {
		base = name
	}
	if !strings.HasSuffix(base, ".js") {
		return false
	}
	for _, prefix := range searchPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
