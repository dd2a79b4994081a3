package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/cpp"
	"github.com/fwojciec/doxindex/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func paths(entries []*doxindex.SourceEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// Story: Source Tree Walking
// The tree lists what the scanner can read, in a stable order

func TestSourceTree_WalkListsSupportedFilesInOrder(t *testing.T) {
	t.Parallel()

	// Given a project directory
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/interaction.cpp":   "void fene();",
		"src/interaction.h":     "void fene();",
		"README.md":             "# Project",
		"a.h":                   "int a;",
		"a/b.h":                 "int b;",
		"notes.txt":             "ignored",
		".git/config":           "hidden",
		".hidden.h":             "hidden",
		"build/generated.cpp":   "skipped",
		"cmake-build-debug/x.c": "skipped",
	})

	// When I walk it with the scanner's filter
	tree := fs.NewSourceTree(cpp.Supports)
	entries, err := tree.Walk(context.Background(), root)

	// Then supported files are returned sorted by path
	require.NoError(t, err)
	assert.Equal(t, []string{
		"README.md",
		"a.h",
		"a/b.h",
		"src/interaction.cpp",
		"src/interaction.h",
	}, paths(entries))

	// And their content is loaded
	assert.Equal(t, "int b;", string(entries[2].Content))
}

func TestSourceTree_WalkWithoutFilterReturnsEveryFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"notes.txt": "x",
		"main.c":    "int main() { return 0; }",
	})

	entries, err := (&fs.SourceTree{}).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.c", "notes.txt"}, paths(entries))
}

func TestSourceTree_WalkSkipsLargeFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"big.h":   strings.Repeat("x", 100),
		"small.h": "int x;",
	})

	tree := &fs.SourceTree{MaxFileSize: 50}
	entries, err := tree.Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"small.h"}, paths(entries))
}

func TestSourceTree_WalkErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory is not found", func(t *testing.T) {
		t.Parallel()
		_, err := fs.NewSourceTree(nil).Walk(context.Background(), filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, doxindex.ENOTFOUND, doxindex.ErrorCode(err))
	})

	t.Run("file root is invalid", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"main.c": "int x;"})
		_, err := fs.NewSourceTree(nil).Walk(context.Background(), filepath.Join(root, "main.c"))
		assert.Equal(t, doxindex.EINVALID, doxindex.ErrorCode(err))
	})

	t.Run("canceled context stops the walk", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"main.c": "int x;"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fs.NewSourceTree(nil).Walk(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
