package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/js"
	"github.com/klauspost/compress/gzip"
)

// ReadTableFile decodes a single search file. Files ending in .gz are
// decompressed first.
func ReadTableFile(path string) (*doxindex.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, doxindex.Errorf(doxindex.EINVALID, "%s: %v", path, err)
		}
		defer zr.Close()
		r = zr
	}

	table, err := js.Decode(r)
	if err != nil {
		if doxindex.ErrorCode(err) == doxindex.EINVALID {
			return nil, doxindex.Errorf(doxindex.EINVALID, "%s: %s", filepath.Base(path), doxindex.ErrorMessage(err))
		}
		return nil, err
	}
	return table, nil
}

// ReadSearchDir loads the search files of a generated documentation site
// and merges them into one table. dir may be the search directory itself or
// the HTML output directory containing it. When the "all" category is
// present only its files are read, since every other category is a subset.
func ReadSearchDir(dir string) (*doxindex.Table, error) {
	files, err := searchFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		sub := filepath.Join(dir, "search")
		if info, err := os.Stat(sub); err == nil && info.IsDir() {
			if files, err = searchFiles(sub); err != nil {
				return nil, err
			}
		}
	}
	if len(files) == 0 {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "no search files in %s", dir)
	}

	var all []string
	for _, f := range files {
		if strings.HasPrefix(filepath.Base(f), doxindex.CategoryAll+"_") {
			all = append(all, f)
		}
	}
	if len(all) > 0 {
		files = all
	}

	table := &doxindex.Table{}
	for _, f := range files {
		part, err := ReadTableFile(f)
		if err != nil {
			return nil, err
		}
		table.Merge(part)
	}
	table.Sort()
	return table, nil
}

// searchFiles lists the search data files in dir, skipping the widget's
// own scripts.
func searchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "directory not found: %s", dir)
	} else if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".js") {
			continue
		}
		switch name {
		case "search.js", "searchdata.js", "nomatches.js":
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}
