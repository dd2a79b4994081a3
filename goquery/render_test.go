package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderResults(t *testing.T) {
	t.Parallel()

	t.Run("renders single reference with scope", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RenderResults([]*doxindex.Match{{Record: &doxindex.Record{
			Key:  "factorize",
			Name: "factorize",
			Refs: []doxindex.Ref{{
				Href:   "../domain__decomp_8cpp.html#af08c020490d351043482fe498e7b6f1c",
				Parent: 1,
				Scope:  "factorize(const vector&lt; int &gt; n):&#160;domain_decomp.cpp",
			}},
		}}})
		require.NoError(t, err)

		doc := parse(t, out)
		result := doc.Find("div.SRResult#SR_factorize")
		require.Equal(t, 1, result.Length())

		sym := result.Find("a.SRSymbol")
		assert.Equal(t, "factorize", sym.Text())
		assert.Equal(t, "../domain__decomp_8cpp.html#af08c020490d351043482fe498e7b6f1c", sym.AttrOr("href", ""))
		assert.Equal(t, "_parent", sym.AttrOr("target", ""))
		assert.Equal(t, "Item0", sym.AttrOr("id", ""))

		assert.Equal(t, "factorize(const vector< int > n):\u00a0domain_decomp.cpp", result.Find("span.SRScope").Text())
		assert.Equal(t, 0, result.Find("div.SRChildren").Length())
	})

	t.Run("renders children for multiple references", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RenderResults([]*doxindex.Match{
			{Record: &doxindex.Record{Key: "force", Name: "Force", Refs: []doxindex.Ref{
				{Href: "../classForce.html", Parent: 1},
			}}},
			{Record: &doxindex.Record{Key: "fene", Name: "fene", Refs: []doxindex.Ref{
				{Href: "../interaction_8cpp.html#af35", Parent: 1, Scope: "fene():&#160;interaction.cpp"},
				{Href: "../interaction_8h.html#af35", Parent: 0, Scope: "fene():&#160;interaction.h"},
			}}},
		})
		require.NoError(t, err)

		doc := parse(t, out)
		assert.Equal(t, 2, doc.Find("div.SRResult").Length())

		force := doc.Find("#SR_force")
		assert.Equal(t, 0, force.Find("span.SRScope").Length())

		fene := doc.Find("#SR_fene")
		sym := fene.Find("a.SRSymbol")
		assert.Equal(t, "Item1", sym.AttrOr("id", ""))
		assert.Equal(t, "javascript:searchResults.Toggle('SR_fene')", sym.AttrOr("href", ""))

		children := fene.Find("div.SRChildren a.SRScope")
		require.Equal(t, 2, children.Length())
		assert.Equal(t, "../interaction_8cpp.html#af35", children.Eq(0).AttrOr("href", ""))
		assert.Equal(t, "_parent", children.Eq(0).AttrOr("target", ""))
		assert.Equal(t, "_blank", children.Eq(1).AttrOr("target", ""))
		assert.Equal(t, "Item1_c1", children.Eq(1).AttrOr("id", ""))
		assert.Equal(t, "fene():\u00a0interaction.h", children.Eq(1).Text())
	})

	t.Run("escapes record names", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RenderResults([]*doxindex.Match{{Record: &doxindex.Record{
			Key: "operator_3c", Name: "operator<", Refs: []doxindex.Ref{{Href: "../classA.html#a1", Parent: 1}},
		}}})
		require.NoError(t, err)

		assert.Contains(t, out, "operator&lt;")
		assert.Equal(t, "operator<", parse(t, out).Find("a.SRSymbol").Text())
	})

	t.Run("renders no matches status", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RenderResults(nil)
		require.NoError(t, err)
		assert.Equal(t, "No Matches", parse(t, out).Find("#NoMatches.SRStatus").Text())
	})
}
