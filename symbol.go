package doxindex

import "context"

// SymbolKind classifies a documented program entity.
type SymbolKind string

// SymbolKind constants.
const (
	KindFile      SymbolKind = "file"
	KindClass     SymbolKind = "class"
	KindStruct    SymbolKind = "struct"
	KindNamespace SymbolKind = "namespace"
	KindFunction  SymbolKind = "function"
	KindVariable  SymbolKind = "variable"
	KindPage      SymbolKind = "page"
)

// IsCompound reports whether symbols of this kind get their own page.
func (k SymbolKind) IsCompound() bool {
	switch k {
	case KindClass, KindStruct, KindNamespace:
		return true
	}
	return false
}

// Category returns the split-file category symbols of this kind belong to,
// in addition to CategoryAll.
func (k SymbolKind) Category() string {
	switch k {
	case KindFile:
		return CategoryFiles
	case KindClass, KindStruct, KindNamespace:
		return CategoryClasses
	case KindFunction:
		return CategoryFunctions
	case KindVariable:
		return CategoryVariables
	case KindPage:
		return CategoryPages
	}
	return ""
}

// Symbol is a program entity discovered by static analysis.
type Symbol struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"projectId"`
	SourceFileID string     `json:"sourceFileId"`
	Name         string     `json:"name"`
	Kind         SymbolKind `json:"kind"`

	// Parent is the owning compound for members, e.g. "System".
	Parent     string     `json:"parent"`
	ParentKind SymbolKind `json:"parentKind"`

	// Args is the normalized argument list of a function, including the
	// parentheses and any trailing qualifiers, e.g. "(System *sys)".
	Args string `json:"args"`

	// File is the path of the file the symbol appears in, relative to the
	// project source root.
	File string `json:"file"`
	Line int    `json:"line"`

	// Definition is true when the symbol carries a body (as opposed to a
	// declaration).
	Definition bool `json:"definition"`

	// Href overrides the computed documentation location. It is set for
	// symbols imported from generated documentation whose anchors are known.
	Href string `json:"href"`
}

// Signature returns the display signature: the name followed by the
// argument list for functions.
func (s *Symbol) Signature() string {
	return s.Name + s.Args
}

// QualifiedName returns Parent::Name for members and Name otherwise.
func (s *Symbol) QualifiedName() string {
	if s.Parent == "" {
		return s.Name
	}
	return s.Parent + "::" + s.Name
}

// Validate returns an error if the symbol contains invalid fields.
func (s *Symbol) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "symbol name required")
	}
	if s.Kind == "" {
		return Errorf(EINVALID, "symbol kind required")
	}
	if s.File == "" && s.Href == "" {
		return Errorf(EINVALID, "symbol %q: file or href required", s.Name)
	}
	return nil
}

// SymbolService represents a service for managing discovered symbols.
type SymbolService interface {
	// CreateSymbols stores symbols, assigning IDs.
	CreateSymbols(ctx context.Context, symbols []*Symbol) error

	// FindSymbols retrieves symbols matching the filter.
	FindSymbols(ctx context.Context, filter SymbolFilter) ([]*Symbol, error)

	// DeleteSymbolsBySourceFile removes all symbols found in a source file.
	DeleteSymbolsBySourceFile(ctx context.Context, sourceFileID string) error

	// DeleteSymbolsByProject removes all symbols of a project.
	DeleteSymbolsByProject(ctx context.Context, projectID string) error
}

// SymbolFilter represents a filter for FindSymbols.
type SymbolFilter struct {
	ProjectID    *string     `json:"projectId"`
	SourceFileID *string     `json:"sourceFileId"`
	Name         *string     `json:"name"`
	Kind         *SymbolKind `json:"kind"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Scanner extracts symbols from the content of a single source file.
type Scanner interface {
	// Scan analyses content found at path (relative to the project root).
	// Files the scanner does not understand yield no symbols and no error.
	Scan(ctx context.Context, path string, content []byte) ([]*Symbol, error)
}
