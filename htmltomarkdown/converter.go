// Package htmltomarkdown renders generated documentation blocks as Markdown
// for terminal display.
package htmltomarkdown

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doxindex"
)

// Ensure Converter implements doxindex.Converter at compile time.
var _ doxindex.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Member prototypes and code
// fragments become C++ code blocks; permalinks are dropped.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", doxindex.Errorf(doxindex.EINVALID, "empty HTML input")
	}

	prepared, err := prepare(html)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(prepared)
	if err != nil {
		return "", err
	}

	return result, nil
}

// prepare rewrites documentation markup that has no Markdown equivalent.
func prepare(src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", doxindex.Errorf(doxindex.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, .permalink, .memSeparator").Remove()

	doc.Find("table.memname").Each(func(_ int, s *goquery.Selection) {
		sig := strings.Join(strings.Fields(s.Text()), " ")
		sig = strings.ReplaceAll(sig, "( ", "(")
		sig = strings.ReplaceAll(sig, " )", ")")
		s.ReplaceWithHtml(codeBlock(sig))
	})

	doc.Find("div.fragment").Each(func(_ int, s *goquery.Selection) {
		lines := s.Find("div.line")
		if lines.Length() == 0 {
			s.ReplaceWithHtml(codeBlock(strings.TrimRight(s.Text(), "\n")))
			return
		}
		text := make([]string, 0, lines.Length())
		lines.Each(func(_ int, l *goquery.Selection) {
			text = append(text, strings.ReplaceAll(l.Text(), "\u00a0", " "))
		})
		s.ReplaceWithHtml(codeBlock(strings.Join(text, "\n")))
	})

	return doc.Find("body").Html()
}

func codeBlock(code string) string {
	return `<pre><code class="language-cpp">` + html.EscapeString(code) + "</code></pre>"
}
