// Package js reads and writes search tables in the JavaScript form loaded by
// a generated documentation site:
//
//	var searchData=
//	[
//	  ['fene',['fene',['../interaction_8cpp.html#af35…',1,'fene(…):&#160;interaction.cpp']]],
//	  …
//	];
//
// Encoding a decoded canonical file reproduces it byte for byte.
package js

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/doxindex"
)

// Header is the statement that opens every search data file.
const Header = "var searchData=\n"

// Encode writes t in canonical layout.
func Encode(w io.Writer, t *doxindex.Table) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(Header)
	bw.WriteString("[\n")
	for i, rec := range t.Records {
		if i > 0 {
			bw.WriteString(",\n")
		}
		bw.WriteString("  [")
		writeString(bw, rec.Key)
		bw.WriteString(",[")
		writeString(bw, rec.Name)
		for _, ref := range rec.Refs {
			bw.WriteString(",[")
			writeString(bw, ref.Href)
			bw.WriteByte(',')
			bw.WriteString(strconv.Itoa(ref.Parent))
			bw.WriteByte(',')
			writeString(bw, ref.Scope)
			bw.WriteByte(']')
		}
		bw.WriteString("]]")
	}
	if len(t.Records) > 0 {
		bw.WriteByte('\n')
	}
	bw.WriteString("];\n")
	return bw.Flush()
}

// Marshal returns the canonical encoding of t.
func Marshal(t *doxindex.Table) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, t)
	return buf.Bytes()
}

// Format decodes src and re-encodes it canonically.
func Format(src []byte) ([]byte, error) {
	t, err := Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	return Marshal(t), nil
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

func writeString(w *bufio.Writer, s string) {
	w.WriteByte('\'')
	w.WriteString(stringEscaper.Replace(s))
	w.WriteByte('\'')
}
