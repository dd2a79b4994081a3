package js

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/doxindex"
)

// Decode parses a search data file. Whitespace and comments between tokens
// are ignored, strings may use either quote style, and a reference may omit
// its target flag ([href, scope]), in which case it defaults to 1.
func Decode(r io.Reader) (*doxindex.Table, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{src: string(src), line: 1, col: 1}
	if err := p.expectWord("var"); err != nil {
		return nil, err
	}
	if err := p.expectWord("searchData"); err != nil {
		return nil, err
	}
	if err := p.expectByte('='); err != nil {
		return nil, err
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skip()
	if p.peek() == ';' {
		p.next()
	}
	p.skip()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after table", p.peek())
	}

	return toTable(v)
}

// DecodeString is a convenience wrapper around Decode.
func DecodeString(s string) (*doxindex.Table, error) {
	return Decode(strings.NewReader(s))
}

// maxDepth bounds array nesting. A well-formed table nests four levels.
const maxDepth = 8

type parser struct {
	src   string
	pos   int
	line  int
	col   int
	depth int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *parser) errorf(format string, args ...any) error {
	return doxindex.Errorf(doxindex.EINVALID, "line %d, column %d: %s", p.line, p.col, fmt.Sprintf(format, args...))
}

// skip advances past whitespace and comments.
func (p *parser) skip() {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.next()
		case c == '/' && strings.HasPrefix(p.src[p.pos:], "//"):
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		case c == '/' && strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			stop := len(p.src)
			if end >= 0 {
				stop = p.pos + 2 + end + 2
			}
			for p.pos < stop {
				p.next()
			}
		default:
			return
		}
	}
}

func (p *parser) expectWord(word string) error {
	p.skip()
	if !strings.HasPrefix(p.src[p.pos:], word) {
		return p.errorf("expected %q", word)
	}
	for range len(word) {
		p.next()
	}
	return nil
}

func (p *parser) expectByte(c byte) error {
	p.skip()
	if p.peek() != c || p.eof() {
		return p.errorf("expected %q", c)
	}
	p.next()
	return nil
}

// value parses a string, an integer or an array.
func (p *parser) value() (any, error) {
	p.skip()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '[':
		return p.array()
	case c == '\'' || c == '"':
		return p.str()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.integer()
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *parser) array() ([]any, error) {
	if p.depth >= maxDepth {
		return nil, p.errorf("arrays nested deeper than %d levels", maxDepth)
	}
	p.depth++
	defer func() { p.depth-- }()

	p.next() // [
	var items []any
	for {
		p.skip()
		if p.eof() {
			return nil, p.errorf("unterminated array")
		}
		if p.peek() == ']' {
			p.next()
			return items, nil
		}
		if len(items) > 0 {
			if p.peek() != ',' {
				return nil, p.errorf("expected ',' or ']', found %q", p.peek())
			}
			p.next()
			p.skip()
			// Trailing comma.
			if p.peek() == ']' {
				p.next()
				return items, nil
			}
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *parser) str() (string, error) {
	quote := p.next()
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.next()
		switch c {
		case quote:
			return b.String(), nil
		case '\n':
			return "", p.errorf("newline in string")
		case '\\':
			if p.eof() {
				return "", p.errorf("unterminated string")
			}
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	c := p.next()
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		if p.pos+4 > len(p.src) {
			return p.errorf("truncated unicode escape")
		}
		n, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 16)
		if err != nil {
			return p.errorf("invalid unicode escape %q", p.src[p.pos:p.pos+4])
		}
		for range 4 {
			p.next()
		}
		b.WriteString(string(rune(n)))
	case 'x':
		if p.pos+2 > len(p.src) {
			return p.errorf("truncated hex escape")
		}
		n, err := strconv.ParseUint(p.src[p.pos:p.pos+2], 16, 8)
		if err != nil {
			return p.errorf("invalid hex escape %q", p.src[p.pos:p.pos+2])
		}
		p.next()
		p.next()
		if n < utf8.RuneSelf {
			b.WriteByte(byte(n))
		} else {
			b.WriteRune(rune(n))
		}
	default:
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) integer() (int, error) {
	start := p.pos
	if p.peek() == '-' {
		p.next()
	}
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.next()
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.errorf("invalid number %q", p.src[start:p.pos])
	}
	return n, nil
}

// toTable maps the generic parse tree onto records.
func toTable(v any) (*doxindex.Table, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, doxindex.Errorf(doxindex.EINVALID, "searchData must be an array")
	}
	t := &doxindex.Table{Records: make([]*doxindex.Record, 0, len(items))}
	for i, item := range items {
		rec, err := toRecord(item)
		if err != nil {
			return nil, doxindex.Errorf(doxindex.EINVALID, "record %d: %s", i, doxindex.ErrorMessage(err))
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func toRecord(v any) (*doxindex.Record, error) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return nil, doxindex.Errorf(doxindex.EINVALID, "expected [key, [name, refs...]]")
	}
	key, ok := pair[0].(string)
	if !ok {
		return nil, doxindex.Errorf(doxindex.EINVALID, "key must be a string")
	}
	body, ok := pair[1].([]any)
	if !ok || len(body) == 0 {
		return nil, doxindex.Errorf(doxindex.EINVALID, "%s: expected [name, refs...]", key)
	}
	name, ok := body[0].(string)
	if !ok {
		return nil, doxindex.Errorf(doxindex.EINVALID, "%s: name must be a string", key)
	}

	rec := &doxindex.Record{Key: key, Name: name, Refs: make([]doxindex.Ref, 0, len(body)-1)}
	for j, rv := range body[1:] {
		ref, err := toRef(rv)
		if err != nil {
			return nil, doxindex.Errorf(doxindex.EINVALID, "%s ref %d: %s", key, j, doxindex.ErrorMessage(err))
		}
		rec.Refs = append(rec.Refs, ref)
	}
	return rec, nil
}

func toRef(v any) (doxindex.Ref, error) {
	fields, ok := v.([]any)
	if !ok {
		return doxindex.Ref{}, doxindex.Errorf(doxindex.EINVALID, "expected [href, flag, scope]")
	}
	switch len(fields) {
	case 2:
		href, ok1 := fields[0].(string)
		scope, ok2 := fields[1].(string)
		if !ok1 || !ok2 {
			return doxindex.Ref{}, doxindex.Errorf(doxindex.EINVALID, "expected [href, scope] strings")
		}
		return doxindex.Ref{Href: href, Parent: 1, Scope: scope}, nil
	case 3:
		href, ok1 := fields[0].(string)
		flag, ok2 := fields[1].(int)
		scope, ok3 := fields[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return doxindex.Ref{}, doxindex.Errorf(doxindex.EINVALID, "expected [href, flag, scope]")
		}
		return doxindex.Ref{Href: href, Parent: flag, Scope: scope}, nil
	}
	return doxindex.Ref{}, doxindex.Errorf(doxindex.EINVALID, "expected 2 or 3 fields, found %d", len(fields))
}
