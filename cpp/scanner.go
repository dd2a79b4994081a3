// Package cpp extracts documented symbols from C and C++ sources by static
// analysis. It recognises files, classes, structs, namespaces, free
// functions and variables, and class members, which is what a search index
// needs; it does not attempt to understand expressions or templates beyond
// skipping over them.
package cpp

import (
	"context"
	"path"
	"strings"

	"github.com/fwojciec/doxindex"
)

// Ensure Scanner implements doxindex.Scanner at compile time.
var _ doxindex.Scanner = (*Scanner)(nil)

// SourceExtensions lists the file extensions treated as C/C++ sources.
var SourceExtensions = []string{".h", ".hh", ".hpp", ".hxx", ".c", ".cc", ".cpp", ".cxx"}

// Scanner extracts symbols from C/C++ sources and Markdown pages.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Supports reports whether the scanner understands files at path.
func Supports(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == ".md" || ext == ".markdown" {
		return true
	}
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan returns the symbols declared or defined in content.
func (s *Scanner) Scan(ctx context.Context, p string, content []byte) ([]*doxindex.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !Supports(p) {
		return nil, nil
	}

	ext := strings.ToLower(path.Ext(p))
	if ext == ".md" || ext == ".markdown" {
		return []*doxindex.Symbol{{
			Name: PageTitle(p, string(content)),
			Kind: doxindex.KindPage,
			File: p,
			Line: 1,
		}}, nil
	}

	symbols := []*doxindex.Symbol{{
		Name: path.Base(p),
		Kind: doxindex.KindFile,
		File: p,
	}}
	w := &walker{file: p, toks: tokenize(string(content))}
	w.run()
	return append(symbols, w.symbols...), nil
}

// PageTitle returns the first Markdown heading of content, falling back to
// the file name without extension.
func PageTitle(p, content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			title = strings.TrimSpace(strings.TrimRight(title, "#"))
			if title != "" {
				return title
			}
		}
		if trimmed != "" && i+1 < len(lines) {
			under := strings.TrimSpace(lines[i+1])
			if len(under) >= 2 && (strings.Trim(under, "=") == "" || strings.Trim(under, "-") == "") {
				return trimmed
			}
		}
	}
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
