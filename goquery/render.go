package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doxindex"
)

// RenderResults returns the result list a search box shows for matches,
// using the markup and classes of the generated search page: a div.SRResult
// per record holding an a.SRSymbol link, with span.SRScope for a single
// reference or a div.SRChildren list of a.SRScope links otherwise.
func RenderResults(matches []*doxindex.Match) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="SRResults"></div>`))
	if err != nil {
		return "", err
	}
	root := doc.Find("#SRResults")

	if len(matches) == 0 {
		root.SetHtml(`<div class="SRStatus" id="NoMatches">No Matches</div>`)
		return goquery.OuterHtml(root)
	}

	for i, m := range matches {
		rec := m.Record
		id := "SR_" + rec.Key

		root.AppendHtml(`<div class="SRResult"><div class="SREntry"><a class="SRSymbol"></a></div></div>`)
		result := root.Children().Last()
		result.SetAttr("id", id)
		entry := result.Find("div.SREntry")

		sym := entry.Find("a.SRSymbol")
		sym.SetAttr("id", fmt.Sprintf("Item%d", i))
		sym.SetText(rec.Name)

		if len(rec.Refs) == 1 {
			ref := rec.Refs[0]
			sym.SetAttr("href", ref.Href)
			sym.SetAttr("target", target(ref))
			if ref.Scope != "" {
				entry.AppendHtml(`<span class="SRScope"></span>`)
				entry.Find("span.SRScope").SetHtml(ref.Scope)
			}
			continue
		}

		sym.SetAttr("href", fmt.Sprintf("javascript:searchResults.Toggle('%s')", id))
		entry.AppendHtml(`<div class="SRChildren"></div>`)
		children := entry.Find("div.SRChildren")
		for j, ref := range rec.Refs {
			children.AppendHtml(`<a class="SRScope"></a>`)
			child := children.Children().Last()
			child.SetAttr("id", fmt.Sprintf("Item%d_c%d", i, j))
			child.SetAttr("href", ref.Href)
			child.SetAttr("target", target(ref))
			if ref.Scope != "" {
				child.SetHtml(ref.Scope)
			} else {
				child.SetText(rec.Name)
			}
		}
	}

	return goquery.OuterHtml(root)
}

// target is where the search page opens a reference: pages of the
// documentation replace the parent frame, anything else opens a new one.
func target(ref doxindex.Ref) string {
	if ref.Parent == 1 {
		return "_parent"
	}
	return "_blank"
}
