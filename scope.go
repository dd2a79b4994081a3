package doxindex

import (
	"html"
	"strings"
)

// scopeSeparator joins a member signature and its defining file in a Ref
// scope.
const scopeSeparator = ":&#160;"

// ScopeInfo is the parsed form of a Ref scope.
type ScopeInfo struct {
	// Signature is the unescaped member signature, empty for class members
	// and compound pages.
	Signature string

	// File is the file the descriptor names, empty when absent.
	File string

	// Text is the whole descriptor as plain text, with non-breaking spaces
	// turned into plain spaces.
	Text string
}

// ParseScope splits an HTML scope descriptor into signature and file.
// Descriptors without the separator (class members, pages) are returned as
// Text only.
func ParseScope(scope string) ScopeInfo {
	info := ScopeInfo{Text: strings.ReplaceAll(html.UnescapeString(scope), "\u00a0", " ")}
	i := strings.LastIndex(scope, scopeSeparator)
	if i < 0 {
		return info
	}
	info.Signature = html.UnescapeString(scope[:i])
	info.File = html.UnescapeString(scope[i+len(scopeSeparator):])
	return info
}

// FormatScope builds the HTML descriptor for a file-level member.
func FormatScope(signature, file string) string {
	return EscapeHTML(signature) + scopeSeparator + EscapeHTML(file)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the characters Doxygen escapes in descriptors. Quotes
// are left alone.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
