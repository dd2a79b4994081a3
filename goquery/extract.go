// Package goquery reads and writes the HTML of generated documentation
// sites using github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doxindex"
)

// Ensure Extractor implements doxindex.Extractor at compile time.
var _ doxindex.Extractor = (*Extractor)(nil)

// Extractor pulls documentation blocks out of generated pages.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the documentation for anchor on the page. Member anchors
// select the .memitem block that follows them. Section anchors select the
// elements up to the next anchor. An empty anchor selects the page's
// .contents block.
func (e *Extractor) Extract(html string, anchor string) (*doxindex.ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, doxindex.Errorf(doxindex.EINVALID, "empty page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, doxindex.Errorf(doxindex.EINVALID, "failed to parse HTML: %v", err)
	}

	if anchor == "" {
		return extractPage(doc)
	}
	return extractAnchor(doc, anchor)
}

func extractPage(doc *goquery.Document) (*doxindex.ExtractResult, error) {
	contents := doc.Find("div.contents").First()
	if contents.Length() == 0 {
		contents = doc.Find("body").First()
	}

	content, err := contents.Html()
	if err != nil {
		return nil, err
	}

	title := cleanText(doc.Find("div.headertitle .title").First())
	if title == "" {
		title = cleanText(doc.Find("title").First())
	}

	return &doxindex.ExtractResult{
		Title:       title,
		ContentHTML: strings.TrimSpace(content),
	}, nil
}

func extractAnchor(doc *goquery.Document, anchor string) (*doxindex.ExtractResult, error) {
	target := doc.Find("[id], a[name]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == anchor || s.AttrOr("name", "") == anchor
	}).First()
	if target.Length() == 0 {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "anchor %q not found", anchor)
	}

	if target.HasClass("memitem") {
		return memberResult(target, "", anchor)
	}

	var title string
	var section []*goquery.Selection
	for s := target.Next(); s.Length() > 0; s = s.Next() {
		if s.HasClass("memitem") {
			return memberResult(s, title, anchor)
		}
		if isAnchor(s) || (len(section) > 0 && s.Is("h2.groupheader")) {
			break
		}
		if s.Is("h2, h3") && title == "" {
			title = headingText(s)
		}
		section = append(section, s)
	}

	if len(section) == 0 {
		return nil, doxindex.Errorf(doxindex.ENOTFOUND, "no documentation for anchor %q", anchor)
	}

	var b strings.Builder
	for _, s := range section {
		h, err := goquery.OuterHtml(s)
		if err != nil {
			return nil, err
		}
		b.WriteString(h)
		b.WriteByte('\n')
	}
	if title == "" {
		title = anchor
	}
	return &doxindex.ExtractResult{
		Title:       title,
		ContentHTML: strings.TrimSpace(b.String()),
	}, nil
}

func memberResult(item *goquery.Selection, title, anchor string) (*doxindex.ExtractResult, error) {
	content, err := goquery.OuterHtml(item)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = cleanText(item.Find("td.memname").First())
	}
	if title == "" {
		title = anchor
	}
	return &doxindex.ExtractResult{
		Title:       title,
		ContentHTML: content,
	}, nil
}

// isAnchor reports whether s starts the next documented entity.
func isAnchor(s *goquery.Selection) bool {
	return s.Is("a[id], a[name]")
}

// headingText returns the text of a heading without its permalink.
func headingText(s *goquery.Selection) string {
	c := s.Clone()
	c.Find(".permalink").Remove()
	return cleanText(c)
}

// cleanText returns the text of s with whitespace runs collapsed.
func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
