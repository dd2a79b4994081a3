package cpp

import "strings"

// render joins tokens the way declarations are printed in documentation:
// "const vector <double>* box" becomes "const vector< double > *box".
func render(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && spaceBetween(toks[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func isWord(t token) bool {
	return t.kind != tokPunct
}

func spaceBetween(prev, cur token) bool {
	switch {
	case cur.is(",") || cur.is(")") || cur.is("]") || cur.is("(") || cur.is("["):
		return false
	case prev.is("(") || prev.is("[") || prev.is("~"):
		return false
	case prev.is("::") || cur.is("::"):
		return false
	case cur.is("<"):
		return false
	case prev.is(",") || prev.is("<") || cur.is(">") || prev.is("=") || cur.is("="):
		return true
	case cur.is("*") || cur.is("&"):
		return isWord(prev) || prev.is(">") || prev.is(")")
	case prev.is("*") || prev.is("&"):
		return false
	case isWord(cur):
		return isWord(prev) || prev.is(">") || prev.is(")") || prev.is("]")
	}
	return false
}
