package doxindex

import (
	"fmt"
	"strings"
)

const hexDigits = "0123456789abcdef"

// EncodeKey normalizes a symbol name into a search key.
// ASCII letters are lowercased, ASCII digits pass through and every other
// byte becomes '_' followed by its two-digit lowercase hex value.
// Example: force_calc.cpp → force_5fcalc_2ecpp
func EncodeKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		default:
			b.WriteByte('_')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}
	return b.String()
}

// DecodeKey reverses EncodeKey. Letter case is not recoverable, so the
// result is always lowercase.
func DecodeKey(key string) (string, error) {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c != '_' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(key) {
			return "", Errorf(EINVALID, "truncated escape at offset %d in key %q", i, key)
		}
		hi, lo := unhex(key[i+1]), unhex(key[i+2])
		if hi < 0 || lo < 0 {
			return "", Errorf(EINVALID, "invalid escape %q at offset %d in key %q", key[i:i+3], i, key)
		}
		b.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	return b.String(), nil
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

// ValidKey reports whether key is a well-formed search key: non-empty,
// lowercase, with only _xx hex escapes in place of other characters.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '_':
			if i+2 >= len(key) || unhex(key[i+1]) < 0 || unhex(key[i+2]) < 0 {
				return false
			}
			i += 2
		default:
			return false
		}
	}
	return true
}

// fileNameEscapes mirrors the escaping Doxygen applies when turning a
// symbol or file name into an HTML file name.
var fileNameEscapes = map[byte]string{
	'_':  "__",
	'.':  "_8",
	':':  "_1",
	'/':  "_2",
	'<':  "_3",
	'>':  "_4",
	'*':  "_5",
	'&':  "_6",
	'|':  "_7",
	'!':  "_9",
	',':  "_00",
	' ':  "_01",
	'{':  "_02",
	'}':  "_03",
	'?':  "_04",
	'^':  "_05",
	'%':  "_06",
	'(':  "_07",
	')':  "_08",
	'+':  "_09",
	'=':  "_0a",
	'$':  "_0b",
	'\\': "_0c",
	'@':  "_0d",
	']':  "_0e",
	'[':  "_0f",
	'#':  "_0g",
}

// EscapeFileName converts a name into the file-name form used for generated
// pages. Example: force_calc.cpp → force__calc_8cpp
func EscapeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if esc, ok := fileNameEscapes[c]; ok {
			b.WriteString(esc)
			continue
		}
		if c >= 0x80 {
			fmt.Fprintf(&b, "_x%02x", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Categories of split search files.
const (
	CategoryAll       = "all"
	CategoryClasses   = "classes"
	CategoryFiles     = "files"
	CategoryFunctions = "functions"
	CategoryVariables = "variables"
	CategoryPages     = "pages"
)

// LetterFile returns the name of the split search file that holds key,
// e.g. all_66.js for keys starting with "f".
func LetterFile(category, key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s_%02x.js", category, key[0])
}

// KeyInitials lists the first characters a key can start with: digits,
// lowercase letters and the escape marker.
const KeyInitials = "0123456789abcdefghijklmnopqrstuvwxyz_"
