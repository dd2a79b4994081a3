package doxindex

import (
	"fmt"
	"strings"
)

// FormatMatches formats matches for terminal display: the display name on
// one line followed by one indented line per reference.
func FormatMatches(matches []*Match) string {
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		var b strings.Builder
		b.WriteString(m.Record.Name)
		for _, ref := range m.Record.Refs {
			b.WriteString("\n  ")
			b.WriteString(ref.Href)
			if text := ParseScope(ref.Scope).Text; text != "" {
				fmt.Fprintf(&b, "  (%s)", text)
			}
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n")
}
