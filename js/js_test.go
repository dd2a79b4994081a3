package js_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/all_66.js")
	require.NoError(t, err)
	return data
}

func TestDecode_Fixture(t *testing.T) {
	t.Parallel()

	t.Run("decodes every record in order", func(t *testing.T) {
		t.Parallel()

		table, err := js.Decode(bytes.NewReader(readFixture(t)))
		require.NoError(t, err)

		require.Len(t, table.Records, 12)
		assert.Equal(t, "factorize", table.Records[0].Key)
		assert.Equal(t, "force_5fcalc_2ecpp", table.Records[8].Key)
		assert.Equal(t, "force_5fcalc_2eh", table.Records[9].Key)
		assert.Equal(t, "fpapc5242012", table.Records[11].Key)
		require.NoError(t, table.Validate())
	})

	t.Run("fene maps to the cpp and header definitions", func(t *testing.T) {
		t.Parallel()

		table, err := js.Decode(bytes.NewReader(readFixture(t)))
		require.NoError(t, err)

		rec, ok := table.Lookup("fene")
		require.True(t, ok)
		require.Len(t, rec.Refs, 2)
		assert.True(t, strings.HasPrefix(rec.Refs[0].Href, "../interaction_8cpp.html#"))
		assert.True(t, strings.HasPrefix(rec.Refs[1].Href, "../interaction_8h.html#"))
		for _, ref := range rec.Refs {
			info := doxindex.ParseScope(ref.Scope)
			assert.Equal(t, "fene(Atom *a1, Atom *a2, const vector< double > *box, const vector< double > *args)", info.Signature)
			assert.Equal(t, "interaction.cpp", info.File)
			assert.Equal(t, 1, ref.Parent)
		}
	})

	t.Run("every key and href has the documented shape", func(t *testing.T) {
		t.Parallel()

		table, err := js.Decode(bytes.NewReader(readFixture(t)))
		require.NoError(t, err)

		for _, rec := range table.Records {
			assert.True(t, doxindex.ValidKey(rec.Key), rec.Key)
			assert.NotEmpty(t, rec.Refs, rec.Key)
			for _, ref := range rec.Refs {
				assert.True(t, doxindex.ValidHref(ref.Href), ref.Href)
			}
		}
	})
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	src := readFixture(t)

	table, err := js.Decode(bytes.NewReader(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, js.Encode(&buf, table))

	assert.Equal(t, string(src), buf.String())
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("writes empty table", func(t *testing.T) {
		t.Parallel()

		got := js.Marshal(&doxindex.Table{})

		assert.Equal(t, "var searchData=\n[\n];\n", string(got))
	})

	t.Run("escapes quotes and backslashes", func(t *testing.T) {
		t.Parallel()

		table := &doxindex.Table{Records: []*doxindex.Record{
			{Key: "operator_27", Name: "operator'", Refs: []doxindex.Ref{{Href: "../a.html", Parent: 0, Scope: `a\b`}}},
		}}

		got := js.Marshal(table)

		assert.Equal(t, "var searchData=\n[\n  ['operator_27',['operator\\'',['../a.html',0,'a\\\\b']]]\n];\n", string(got))

		back, err := js.Decode(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, table, back)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("accepts loose formatting", func(t *testing.T) {
		t.Parallel()

		src := `// generated
var searchData = [
  ["force", ["force", ["../structAtom.html#afcf", 1, "Atom"],],],
  ['fpapc', ['FPAPC', ['../md_README.html', '']]]
]`

		table, err := js.DecodeString(src)
		require.NoError(t, err)

		require.Len(t, table.Records, 2)
		assert.Equal(t, doxindex.Ref{Href: "../structAtom.html#afcf", Parent: 1, Scope: "Atom"}, table.Records[0].Refs[0])
		assert.Equal(t, doxindex.Ref{Href: "../md_README.html", Parent: 1, Scope: ""}, table.Records[1].Refs[0])
	})

	t.Run("decodes escapes", func(t *testing.T) {
		t.Parallel()

		table, err := js.DecodeString(`var searchData=[['a',['aA\x42\'',['../a.html',1,'']]]];`)
		require.NoError(t, err)

		assert.Equal(t, "aAB'", table.Records[0].Name)
	})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing header", `[['a',['a',['../a.html',1,'']]]];`, `expected "var"`},
		{"unterminated string", "var searchData=[['a", "unterminated string"},
		{"unterminated array", "var searchData=[['a',['a'", "unterminated array"},
		{"trailing garbage", "var searchData=[]; x", "after table"},
		{"record shape", "var searchData=[['a']];", "record 0"},
		{"ref shape", "var searchData=[['a',['a',['../a.html']]]];", "expected 2 or 3 fields"},
		{"flag type", "var searchData=[['a',['a',['../a.html','1','']]]];", "expected [href, flag, scope]"},
		{"not an array", "var searchData='x';", "must be an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := js.DecodeString(tt.src)

			require.Error(t, err)
			assert.Equal(t, doxindex.EINVALID, doxindex.ErrorCode(err))
			assert.Contains(t, doxindex.ErrorMessage(err), tt.want)
		})
	}

	t.Run("reports position", func(t *testing.T) {
		t.Parallel()

		_, err := js.DecodeString("var searchData=\n[\n  ['a' 'b']\n];\n")

		require.Error(t, err)
		assert.Contains(t, doxindex.ErrorMessage(err), "line 3, column 8")
	})

	t.Run("rejects deep nesting", func(t *testing.T) {
		t.Parallel()

		_, err := js.DecodeString("var searchData=" + strings.Repeat("[", 9))

		require.Error(t, err)
		assert.Equal(t, doxindex.EINVALID, doxindex.ErrorCode(err))
		assert.Equal(t, "line 1, column 24: arrays nested deeper than 8 levels", doxindex.ErrorMessage(err))
	})

	t.Run("rejects huge nesting without exhausting the stack", func(t *testing.T) {
		t.Parallel()

		_, err := js.DecodeString("var searchData=" + strings.Repeat("[", 1<<20))

		require.Error(t, err)
		assert.Equal(t, doxindex.EINVALID, doxindex.ErrorCode(err))
		assert.Contains(t, doxindex.ErrorMessage(err), "nested deeper")
	})

	t.Run("accepts nesting at the limit", func(t *testing.T) {
		t.Parallel()

		src := "var searchData=" + strings.Repeat("[", 8) + strings.Repeat("]", 8) + ";"
		_, err := js.DecodeString(src)

		require.Error(t, err)
		assert.NotContains(t, doxindex.ErrorMessage(err), "nested deeper")
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	got, err := js.Format([]byte(`var searchData = [ ['fene', ['fene', ['../a.html', 1, '']]] ];`))

	require.NoError(t, err)
	assert.Equal(t, "var searchData=\n[\n  ['fene',['fene',['../a.html',1,'']]]\n];\n", string(got))
}
