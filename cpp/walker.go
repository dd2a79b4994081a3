package cpp

import (
	"strings"

	"github.com/fwojciec/doxindex"
)

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeNamespace
	scopeClass
	scopeSkip
)

// scope is one level of braces. A typedef scope holds the body of
// "typedef struct [tag] { ... } Name;" and is renamed once Name is seen.
type scope struct {
	kind      scopeKind
	name      string
	classKind doxindex.SymbolKind
	typedef   bool
	start     int
	line      int
	outer     *scope
}

// keywords can never name a function or variable.
var keywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true,
	"sizeof": true, "catch": true, "decltype": true, "alignof": true,
	"static_assert": true, "throw": true, "new": true, "delete": true,
	"void": true, "int": true, "char": true, "double": true, "float": true,
	"long": true, "short": true, "unsigned": true, "signed": true, "bool": true,
	"auto": true, "const": true, "volatile": true, "static": true, "inline": true,
	"virtual": true, "explicit": true, "extern": true, "typename": true,
	"template": true, "class": true, "struct": true, "union": true, "enum": true,
	"namespace": true, "using": true, "typedef": true, "public": true,
	"private": true, "protected": true, "friend": true, "operator": true,
	"case": true, "default": true, "goto": true, "do": true, "else": true,
	"this": true, "true": true, "false": true, "nullptr": true, "mutable": true,
}

// skipLeading marks statements that declare nothing worth indexing.
var skipLeading = map[string]bool{
	"typedef": true, "using": true, "friend": true, "class": true, "struct": true,
	"union": true, "enum": true, "namespace": true, "return": true, "goto": true,
	"break": true, "continue": true, "static_assert": true, "delete": true,
	"case": true, "default": true, "template": true,
}

var accessSpecifiers = map[string]bool{"public": true, "private": true, "protected": true}

// walker tracks brace scopes and turns each top-level statement into
// symbols.
type walker struct {
	file       string
	toks       []token
	stack      []scope
	stmt       []token
	classKinds map[string]doxindex.SymbolKind
	symbols    []*doxindex.Symbol
	pending    *scope // closed typedef body waiting for its name
}

func (w *walker) top() scope {
	return w.stack[len(w.stack)-1]
}

func (w *walker) push(s scope) {
	w.stack = append(w.stack, s)
}

func (w *walker) pop() {
	if len(w.stack) > 1 {
		w.stack = w.stack[:len(w.stack)-1]
	}
}

func (w *walker) run() {
	w.stack = []scope{{kind: scopeGlobal}}
	w.classKinds = make(map[string]doxindex.SymbolKind)

	for _, t := range w.toks {
		if w.top().kind == scopeSkip {
			switch {
			case t.is("{"):
				w.push(scope{kind: scopeSkip})
			case t.is("}"):
				w.pop()
			}
			continue
		}

		switch {
		case t.is("{"):
			w.open()
			w.stmt = nil
		case t.is("}"):
			w.close()
			w.stmt = nil
		case t.is(";"):
			w.declare()
			w.stmt = nil
		case t.is(":") && len(w.stmt) >= 1 && accessSpecifiers[w.stmt[0].text]:
			w.stmt = nil
		default:
			w.stmt = append(w.stmt, t)
		}
	}
	if w.pending != nil {
		w.symbols = w.symbols[:w.pending.start]
	}
}

// close handles '}'.
func (w *walker) close() {
	s := w.top()
	w.pop()
	if s.typedef {
		w.pending = &s
	}
}

// open handles a statement terminated by '{'.
func (w *walker) open() {
	w.pending = nil
	stmt := stripTemplate(w.stmt)
	top := w.top()

	switch {
	case len(stmt) == 0:
		w.push(scope{kind: scopeSkip})
	case stmt[0].is("namespace"):
		name := render(stmt[1:])
		if name != "" && top.kind != scopeClass {
			w.emit(&doxindex.Symbol{Name: name, Kind: doxindex.KindNamespace, Line: stmt[0].line})
		}
		w.push(scope{kind: scopeNamespace, name: top.name, classKind: top.classKind})
	case stmt[0].is("extern") && len(stmt) <= 2:
		w.push(top)
	case hasToken(stmt, "enum"):
		w.push(scope{kind: scopeSkip})
	case stmt[0].is("typedef") && len(stmt) >= 2 && (stmt[1].is("struct") || stmt[1].is("class")):
		kind := doxindex.KindStruct
		if stmt[1].is("class") {
			kind = doxindex.KindClass
		}
		name := anonymous
		if top.kind == scopeClass {
			name = top.name + "::" + anonymous
		}
		outer := top
		w.push(scope{
			kind:      scopeClass,
			name:      name,
			classKind: kind,
			typedef:   true,
			start:     len(w.symbols),
			line:      stmt[0].line,
			outer:     &outer,
		})
	default:
		if kind, name, ok := classHead(stmt); ok {
			sym := &doxindex.Symbol{Name: name, Kind: kind, Line: stmt[0].line}
			qualified := name
			if top.kind == scopeClass {
				sym.Parent = top.name
				sym.ParentKind = top.classKind
				qualified = top.name + "::" + name
			}
			w.emit(sym)
			w.classKinds[qualified] = kind
			w.push(scope{kind: scopeClass, name: qualified, classKind: kind})
			return
		}
		if callFirst(stmt) {
			if sym := w.function(stmt, true); sym != nil {
				w.emit(sym)
			}
		} else {
			w.variables(stmt)
		}
		w.push(scope{kind: scopeSkip})
	}
}

// declare handles a statement terminated by ';'.
func (w *walker) declare() {
	if w.pending != nil {
		w.nameTypedef(w.pending, w.stmt)
		w.pending = nil
		return
	}
	stmt := stripTemplate(w.stmt)
	if len(stmt) == 0 || skipLeading[stmt[0].text] {
		return
	}
	if callFirst(stmt) {
		if sym := w.function(stmt, false); sym != nil {
			w.emit(sym)
		}
		return
	}
	w.variables(stmt)
}

// anonymous stands in for a typedef'd compound until its name is known.
const anonymous = "(anonymous)"

// nameTypedef emits the compound of a closed typedef body under the first
// name declared after its '}' and reparents the members found inside it.
// A body that never gets a name is dropped along with its members.
func (w *walker) nameTypedef(s *scope, stmt []token) {
	name := ""
	for _, t := range splitDeclarators(stmt)[0] {
		if t.kind == tokIdent && !keywords[t.text] {
			name = t.text
		}
	}
	if name == "" {
		w.symbols = w.symbols[:s.start]
		return
	}

	sym := &doxindex.Symbol{Name: name, Kind: s.classKind, Line: s.line, File: w.file}
	qualified := name
	if s.outer.kind == scopeClass {
		sym.Parent = s.outer.name
		sym.ParentKind = s.outer.classKind
		qualified = s.outer.name + "::" + name
	}
	w.classKinds[qualified] = s.classKind

	members := w.symbols[s.start:]
	for _, m := range members {
		switch {
		case m.Parent == s.name:
			m.Parent = qualified
		case strings.HasPrefix(m.Parent, s.name+"::"):
			m.Parent = qualified + strings.TrimPrefix(m.Parent, s.name)
		}
	}
	w.symbols = append(w.symbols[:s.start], append([]*doxindex.Symbol{sym}, members...)...)
}

func (w *walker) emit(sym *doxindex.Symbol) {
	sym.File = w.file
	w.symbols = append(w.symbols, sym)
}

// function interprets stmt as a function declaration or definition.
func (w *walker) function(stmt []token, body bool) *doxindex.Symbol {
	if skipLeading[stmt[0].text] {
		return nil
	}

	var name string
	var open, nameStart int
	if k := indexOf(stmt, "operator"); k >= 0 {
		j := k + 1
		if j+1 < len(stmt) && stmt[j].is("(") && stmt[j+1].is(")") {
			j += 2
		}
		for j < len(stmt) && !stmt[j].is("(") {
			j++
		}
		if j >= len(stmt) {
			return nil
		}
		name = operatorName(stmt[k+1 : j])
		open, nameStart = j, k
	} else {
		open = indexOf(stmt, "(")
		if open <= 0 {
			return nil
		}
		nt := stmt[open-1]
		if nt.kind != tokIdent || keywords[nt.text] {
			return nil
		}
		name, nameStart = nt.text, open-1
		if nameStart > 0 && stmt[nameStart-1].is("~") {
			name = "~" + name
			nameStart--
		}
	}
	if indexOf(stmt[:nameStart], "=") >= 0 {
		return nil
	}

	parent, q := qualifier(stmt, nameStart)

	closing := matchParen(stmt, open)
	if closing < 0 {
		return nil
	}
	end := closing + 1
	for end < len(stmt) && !stmt[end].is("=") && !stmt[end].is(":") && !stmt[end].is("->") {
		end++
	}

	sym := &doxindex.Symbol{
		Name: name,
		Kind: doxindex.KindFunction,
		Args: render(stmt[open:end]),
		Line: stmt[nameStart].line,
	}
	top := w.top()
	switch {
	case parent != "":
		sym.Parent = parent
		sym.ParentKind = w.kindOf(parent)
		sym.Definition = body
	case top.kind == scopeClass:
		sym.Parent = top.name
		sym.ParentKind = top.classKind
	default:
		// Free functions need a return type; a bare NAME(...) is a macro.
		if q == 0 {
			return nil
		}
		sym.Definition = body
	}
	return sym
}

// variables interprets stmt as one or more variable declarations.
func (w *walker) variables(stmt []token) {
	top := w.top()
	external := hasToken(stmt, "extern")
	for i, decl := range splitDeclarators(stmt) {
		prefix := decl
		for j, t := range decl {
			if t.is("=") || t.is("[") || t.is(":") || t.is("{") || t.is("(") {
				prefix = decl[:j]
				break
			}
		}
		idx := -1
		for j := len(prefix) - 1; j >= 0; j-- {
			if prefix[j].kind == tokIdent {
				idx = j
				break
			}
		}
		if idx < 0 || keywords[prefix[idx].text] {
			continue
		}
		parent, q := qualifier(prefix, idx)
		if i == 0 && !hasTypeName(prefix[:q]) {
			return
		}

		sym := &doxindex.Symbol{
			Name: prefix[idx].text,
			Kind: doxindex.KindVariable,
			Line: prefix[idx].line,
		}
		switch {
		case parent != "":
			sym.Parent = parent
			sym.ParentKind = w.kindOf(parent)
			sym.Definition = true
		case top.kind == scopeClass:
			sym.Parent = top.name
			sym.ParentKind = top.classKind
		default:
			sym.Definition = !external
		}
		w.emit(sym)
	}
}

func (w *walker) kindOf(class string) doxindex.SymbolKind {
	if kind, ok := w.classKinds[class]; ok {
		return kind
	}
	return doxindex.KindClass
}

// classHead recognises "class Name [: bases]" and "struct Name".
func classHead(stmt []token) (doxindex.SymbolKind, string, bool) {
	for k, t := range stmt {
		if t.is("(") || t.is("=") {
			return "", "", false
		}
		var kind doxindex.SymbolKind
		switch {
		case t.is("class"):
			kind = doxindex.KindClass
		case t.is("struct"):
			kind = doxindex.KindStruct
		default:
			continue
		}
		name := ""
		for _, n := range stmt[k+1:] {
			if n.is(":") {
				break
			}
			if n.kind == tokIdent && !keywords[n.text] && n.text != "final" {
				name = n.text
			}
		}
		return kind, name, name != ""
	}
	return "", "", false
}

// callFirst reports whether a '(' appears before any top-level '='.
func callFirst(stmt []token) bool {
	for _, t := range stmt {
		switch {
		case t.is("="):
			return false
		case t.is("("):
			return true
		}
	}
	return false
}

// qualifier collects an A::B:: prefix ending just before stmt[i]. It
// returns the qualifier without the trailing "::" and the index where the
// qualified name starts.
func qualifier(stmt []token, i int) (string, int) {
	var parts []string
	q := i
	for q >= 2 && stmt[q-1].is("::") && stmt[q-2].kind == tokIdent {
		parts = append([]string{stmt[q-2].text}, parts...)
		q -= 2
	}
	return strings.Join(parts, "::"), q
}

func operatorName(toks []token) string {
	if len(toks) > 0 && toks[0].kind == tokIdent {
		return "operator " + render(toks)
	}
	var b strings.Builder
	b.WriteString("operator")
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return b.String()
}

func hasTypeName(toks []token) bool {
	for _, t := range toks {
		if t.kind == tokIdent {
			return true
		}
	}
	return false
}

func hasToken(stmt []token, text string) bool {
	return indexOf(stmt, text) >= 0
}

func indexOf(stmt []token, text string) int {
	for i, t := range stmt {
		if t.is(text) {
			return i
		}
	}
	return -1
}

func matchParen(stmt []token, open int) int {
	depth := 0
	for i := open; i < len(stmt); i++ {
		switch {
		case stmt[i].is("("):
			depth++
		case stmt[i].is(")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripTemplate removes leading template<...> clauses.
func stripTemplate(stmt []token) []token {
	for len(stmt) > 1 && stmt[0].is("template") && stmt[1].is("<") {
		depth := 0
		i := 1
		for ; i < len(stmt); i++ {
			if stmt[i].is("<") {
				depth++
			} else if stmt[i].is(">") {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if i >= len(stmt) {
			return nil
		}
		stmt = stmt[i+1:]
	}
	return stmt
}

// splitDeclarators splits "int a, *b = 2, c[3]" into one slice per
// declarator.
func splitDeclarators(stmt []token) [][]token {
	var out [][]token
	depth, angle := 0, 0
	seenEq := false
	start := 0
	for i, t := range stmt {
		switch {
		case t.is("(") || t.is("[") || t.is("{"):
			depth++
		case t.is(")") || t.is("]") || t.is("}"):
			depth--
		case t.is("<") && !seenEq:
			angle++
		case t.is(">") && !seenEq && angle > 0:
			angle--
		case t.is("=") && depth == 0 && angle == 0:
			seenEq = true
		case t.is(",") && depth == 0 && angle == 0:
			out = append(out, stmt[start:i])
			start = i + 1
			seenEq = false
		}
	}
	return append(out, stmt[start:])
}
