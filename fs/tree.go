// Package fs reads project source trees and reads and writes search files
// on the local filesystem.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/doxindex"
)

// DefaultMaxFileSize is the largest source file read by a SourceTree.
// Bigger files are almost always generated and are skipped.
const DefaultMaxFileSize = 4 << 20

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"build":        true,
	"_build":       true,
	"node_modules": true,
	"vendor":       true,
	"CMakeFiles":   true,
}

// Ensure SourceTree implements doxindex.SourceTree at compile time.
var _ doxindex.SourceTree = (*SourceTree)(nil)

// SourceTree lists the files of a project directory on disk.
type SourceTree struct {
	// Include reports whether a file is returned. Nil includes every file.
	Include func(path string) bool

	// MaxFileSize limits the size of returned files. Zero means
	// DefaultMaxFileSize.
	MaxFileSize int64
}

// NewSourceTree creates a SourceTree returning files accepted by include.
func NewSourceTree(include func(path string) bool) *SourceTree {
	return &SourceTree{Include: include}
}

// Walk returns the files under root in lexical order with slash-separated
// paths relative to root. Hidden entries and build directories are skipped.
func (t *SourceTree) Walk(ctx context.Context, root string) ([]*doxindex.SourceEntry, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "source directory not found: %s", root)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, doxindex.Errorf(doxindex.EINVALID, "not a directory: %s", root)
	}

	maxSize := t.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var entries []*doxindex.SourceEntry
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || skipDirs[name] || strings.HasPrefix(name, "cmake-build-") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if t.Include != nil && !t.Include(rel) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.Size() > maxSize {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		entries = append(entries, &doxindex.SourceEntry{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b *doxindex.SourceEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries, nil
}
