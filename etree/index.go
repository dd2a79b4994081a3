// Package etree imports symbols from the XML index Doxygen writes alongside
// its HTML output (xml/index.xml).
package etree

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/doxindex"
)

// compoundKinds maps Doxygen compound kinds onto symbol kinds. Kinds not
// listed (dir, union, group, example) are skipped.
var compoundKinds = map[string]doxindex.SymbolKind{
	"class":     doxindex.KindClass,
	"struct":    doxindex.KindStruct,
	"namespace": doxindex.KindNamespace,
	"file":      doxindex.KindFile,
	"page":      doxindex.KindPage,
}

var memberKinds = map[string]doxindex.SymbolKind{
	"function": doxindex.KindFunction,
	"slot":     doxindex.KindFunction,
	"signal":   doxindex.KindFunction,
	"variable": doxindex.KindVariable,
	"property": doxindex.KindVariable,
}

// Reader reads Doxygen XML indexes.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadIndex parses an index.xml document into symbols whose Href points at
// the page and anchor Doxygen generated for them.
func (r *Reader) ReadIndex(src io.Reader) ([]*doxindex.Symbol, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(src); err != nil {
		return nil, doxindex.Errorf(doxindex.EINVALID, "parsing index XML: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "doxygenindex" {
		return nil, doxindex.Errorf(doxindex.EINVALID, "not a Doxygen index: missing <doxygenindex> root")
	}

	var symbols []*doxindex.Symbol
	for _, compound := range root.SelectElements("compound") {
		kind, ok := compoundKinds[compound.SelectAttrValue("kind", "")]
		if !ok {
			continue
		}
		refid := compound.SelectAttrValue("refid", "")
		name := elementName(compound)
		if refid == "" || name == "" {
			continue
		}

		sym := &doxindex.Symbol{Name: name, Kind: kind, Href: refid + ".html"}
		if kind == doxindex.KindFile {
			sym.File = name
		}
		symbols = append(symbols, sym)

		members, err := readMembers(compound, kind, name)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, members...)
	}
	return symbols, nil
}

func readMembers(compound *etree.Element, kind doxindex.SymbolKind, name string) ([]*doxindex.Symbol, error) {
	var symbols []*doxindex.Symbol
	for _, member := range compound.SelectElements("member") {
		memberKind, ok := memberKinds[member.SelectAttrValue("kind", "")]
		if !ok {
			continue
		}
		href, err := MemberHref(member.SelectAttrValue("refid", ""))
		if err != nil {
			return nil, err
		}
		sym := &doxindex.Symbol{Name: elementName(member), Kind: memberKind, Href: href}
		if sym.Name == "" {
			continue
		}
		switch kind {
		case doxindex.KindFile:
			sym.File = name
		case doxindex.KindClass, doxindex.KindStruct, doxindex.KindNamespace:
			sym.Parent = name
			sym.ParentKind = kind
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// MemberHref converts a member refid such as "interaction_8cpp_1af35e" into
// "interaction_8cpp.html#af35e".
func MemberHref(refid string) (string, error) {
	i := strings.LastIndex(refid, "_1")
	if i <= 0 || i+2 >= len(refid) {
		return "", doxindex.Errorf(doxindex.EINVALID, "invalid member refid %q", refid)
	}
	return fmt.Sprintf("%s.html#%s", refid[:i], refid[i+2:]), nil
}

func elementName(e *etree.Element) string {
	n := e.SelectElement("name")
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text())
}
