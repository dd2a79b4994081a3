package doxindex

import (
	"cmp"
	"crypto/md5"
	"encoding/hex"
	"path"
	"slices"
	"strings"
)

// BuildTable groups symbols into a search table sorted by key.
//
// Every symbol contributes one ref. Functions declared in one file and
// defined in another produce a ref on each file's page, both naming the
// defining file in their descriptor. Out-of-line member definitions are
// folded into the in-class declaration.
func BuildTable(symbols []*Symbol) *Table {
	defs := definitionFiles(symbols)
	declared := declaredMembers(symbols)

	type group struct {
		names []string
		refs  []Ref
	}
	groups := make(map[string]*group)

	for _, sym := range symbols {
		if sym == nil || sym.Name == "" {
			continue
		}
		if sym.Parent != "" && sym.Definition && sym.Href == "" && declared[memberKey(sym)] {
			continue
		}
		key := EncodeKey(sym.Name)
		if !ValidKey(key) {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.names = append(g.names, sym.Name)
		ref := symbolRef(sym, defs)
		if !slices.Contains(g.refs, ref) {
			g.refs = append(g.refs, ref)
		}
	}

	t := &Table{Records: make([]*Record, 0, len(groups))}
	for key, g := range groups {
		slices.Sort(g.names)
		slices.SortFunc(g.refs, func(a, b Ref) int {
			return cmp.Or(strings.Compare(a.Href, b.Href), strings.Compare(a.Scope, b.Scope))
		})
		t.Records = append(t.Records, &Record{Key: key, Name: g.names[0], Refs: g.refs})
	}
	t.Sort()
	return t
}

// BuildCategoryTable is like BuildTable but keeps only symbols belonging to
// category. CategoryAll keeps everything.
func BuildCategoryTable(symbols []*Symbol, category string) *Table {
	if category == CategoryAll {
		return BuildTable(symbols)
	}
	var kept []*Symbol
	for _, sym := range symbols {
		if sym.Kind.Category() == category {
			kept = append(kept, sym)
		}
	}
	return BuildTable(kept)
}

// SymbolAnchor returns the anchor id for a member: "a" followed by the md5
// of its qualified signature, the same shape Doxygen generates.
func SymbolAnchor(sym *Symbol) string {
	sum := md5.Sum([]byte(sym.QualifiedName() + sym.Args))
	return "a" + hex.EncodeToString(sum[:])
}

// CompoundPage returns the page name of a class, struct or namespace.
func CompoundPage(kind SymbolKind, name string) string {
	return string(kind) + EscapeFileName(name) + ".html"
}

// FilePage returns the page name of a source file.
func FilePage(file string) string {
	return EscapeFileName(path.Base(file)) + ".html"
}

// MarkdownPage returns the page name of a Markdown document.
func MarkdownPage(file string) string {
	base := path.Base(file)
	base = strings.TrimSuffix(base, path.Ext(base))
	return "md_" + EscapeFileName(base) + ".html"
}

func symbolRef(sym *Symbol, defs map[string]string) Ref {
	if sym.Href != "" {
		scope := ""
		switch {
		case sym.Parent != "":
			scope = EscapeHTML(sym.Parent)
		case sym.Kind == KindFunction || sym.Kind == KindVariable:
			scope = FormatScope(sym.Signature(), path.Base(sym.File))
		}
		return Ref{Href: "../" + sym.Href, Parent: 1, Scope: scope}
	}

	switch {
	case sym.Kind == KindFile:
		return Ref{Href: "../" + FilePage(sym.File), Parent: 1}
	case sym.Kind == KindPage:
		return Ref{Href: "../" + MarkdownPage(sym.File), Parent: 1}
	case sym.Kind.IsCompound():
		return Ref{Href: "../" + CompoundPage(sym.Kind, sym.QualifiedName()), Parent: 1}
	case sym.Parent != "":
		parentKind := sym.ParentKind
		if parentKind == "" {
			parentKind = KindClass
		}
		href := "../" + CompoundPage(parentKind, sym.Parent) + "#" + SymbolAnchor(sym)
		return Ref{Href: href, Parent: 1, Scope: EscapeHTML(sym.Parent)}
	}

	file := path.Base(sym.File)
	defFile := file
	if f, ok := defs[freeKey(sym)]; ok {
		defFile = f
	}
	href := "../" + FilePage(sym.File) + "#" + SymbolAnchor(sym)
	return Ref{Href: href, Parent: 1, Scope: FormatScope(sym.Signature(), defFile)}
}

// definitionFiles maps each free function or variable to the base name of
// the file that defines it.
func definitionFiles(symbols []*Symbol) map[string]string {
	defs := make(map[string]string)
	for _, sym := range symbols {
		if sym == nil || sym.Parent != "" || !sym.Definition {
			continue
		}
		if sym.Kind != KindFunction && sym.Kind != KindVariable {
			continue
		}
		k := freeKey(sym)
		if _, ok := defs[k]; !ok {
			defs[k] = path.Base(sym.File)
		}
	}
	return defs
}

func declaredMembers(symbols []*Symbol) map[string]bool {
	declared := make(map[string]bool)
	for _, sym := range symbols {
		if sym != nil && sym.Parent != "" && !sym.Definition {
			declared[memberKey(sym)] = true
		}
	}
	return declared
}

func freeKey(sym *Symbol) string {
	return string(sym.Kind) + "\x00" + sym.Name + "\x00" + sym.Args
}

func memberKey(sym *Symbol) string {
	return sym.Parent + "\x00" + sym.Name
}
