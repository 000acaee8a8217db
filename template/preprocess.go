package template

import (
	"fmt"
	"path"
	"strings"

	"github.com/gogpu/shadergen"
)

// maxIncludeDepth bounds #include nesting.
const maxIncludeDepth = 32

// Error is a preprocessing failure at a template line.
type Error struct {
	File string
	Line int
	Msg  string

	// Err is the underlying failure, such as a missing include.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

type macro struct {
	body   string
	params []string
	fn     bool
}

type preprocessor struct {
	inc    shadergen.IncludeResolver
	macros map[string]*macro
	once   map[string]bool
	depth  int
	out    strings.Builder
}

// Preprocess expands the template called name, resolved through inc, with
// macros predefined as object-like macros. Directives are removed from the
// output; lines in inactive conditional blocks are dropped.
func Preprocess(inc shadergen.IncludeResolver, name string, macros shadergen.MacroSet) (string, error) {
	p := &preprocessor{
		inc:    inc,
		macros: make(map[string]*macro, len(macros)),
		once:   make(map[string]bool),
	}
	for _, m := range macros {
		p.macros[m.Name] = &macro{body: m.Definition}
	}
	if err := p.file(name, ""); err != nil {
		return "", err
	}
	return p.out.String(), nil
}

type line struct {
	text string
	num  int
}

// logicalLines splits text into lines, joining backslash continuations.
func logicalLines(text string) []line {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]line, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		l := line{text: raw[i], num: i + 1}
		for strings.HasSuffix(l.text, `\`) && i+1 < len(raw) {
			i++
			l.text = strings.TrimSuffix(l.text, `\`) + raw[i]
		}
		lines = append(lines, l)
	}
	return lines
}

type cond struct {
	parent  bool
	active  bool
	taken   bool
	sawElse bool
}

func (p *preprocessor) file(name, dir string) error {
	if p.depth >= maxIncludeDepth {
		return fmt.Errorf("template: %s: #include nested deeper than %d", name, maxIncludeDepth)
	}
	text, resolved, err := p.inc.Resolve(name, dir)
	if err != nil {
		return err
	}
	key := path.Join(resolved, path.Base(strings.ReplaceAll(name, `\`, "/")))
	if p.once[key] {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()

	var stack []cond
	active := func() bool { return len(stack) == 0 || stack[len(stack)-1].active }
	fail := func(n int, format string, args ...any) error {
		return &Error{File: key, Line: n, Msg: fmt.Sprintf(format, args...)}
	}

	for _, ln := range logicalLines(text) {
		t := strings.TrimSpace(ln.text)
		if !strings.HasPrefix(t, "#") {
			if !active() {
				continue
			}
			s, err := p.expandLine(ln.text)
			if err != nil {
				return fail(ln.num, "%v", err)
			}
			p.out.WriteString(s)
			p.out.WriteByte('\n')
			continue
		}

		directive, rest := splitDirective(t[1:])
		rest = stripComment(rest)
		switch directive {
		case "if", "ifdef", "ifndef":
			c := cond{parent: active()}
			if c.parent {
				ok, err := p.condition(directive, rest)
				if err != nil {
					return fail(ln.num, "#%s: %v", directive, err)
				}
				c.active, c.taken = ok, ok
			}
			stack = append(stack, c)
		case "elif":
			if len(stack) == 0 {
				return fail(ln.num, "#elif without #if")
			}
			c := &stack[len(stack)-1]
			if c.sawElse {
				return fail(ln.num, "#elif after #else")
			}
			c.active = false
			if c.parent && !c.taken {
				ok, err := p.condition("if", rest)
				if err != nil {
					return fail(ln.num, "#elif: %v", err)
				}
				c.active, c.taken = ok, ok
			}
		case "else":
			if len(stack) == 0 {
				return fail(ln.num, "#else without #if")
			}
			c := &stack[len(stack)-1]
			if c.sawElse {
				return fail(ln.num, "duplicate #else")
			}
			c.sawElse = true
			c.active = c.parent && !c.taken
			c.taken = true
		case "endif":
			if len(stack) == 0 {
				return fail(ln.num, "#endif without #if")
			}
			stack = stack[:len(stack)-1]
		default:
			if !active() {
				continue
			}
			if err := p.directive(directive, rest, key, resolved); err != nil {
				if _, ok := err.(*Error); ok {
					return err
				}
				return &Error{File: key, Line: ln.num, Msg: err.Error(), Err: err}
			}
		}
	}
	if len(stack) > 0 {
		return &Error{File: key, Msg: "unterminated #if"}
	}
	return nil
}

func (p *preprocessor) directive(name, rest, key, dir string) error {
	switch name {
	case "include":
		target, err := includeTarget(rest)
		if err != nil {
			return err
		}
		return p.file(target, dir)
	case "define":
		return p.define(rest)
	case "undef":
		delete(p.macros, strings.TrimSpace(rest))
		return nil
	case "pragma":
		if strings.TrimSpace(rest) == "once" {
			p.once[key] = true
		}
		return nil
	case "error":
		return fmt.Errorf("#error %s", strings.TrimSpace(rest))
	case "", "line":
		return nil
	default:
		return fmt.Errorf("unknown directive #%s", name)
	}
}

func splitDirective(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && isIdent(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func stripComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func includeTarget(rest string) (string, error) {
	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 {
		switch {
		case rest[0] == '"' && rest[len(rest)-1] == '"',
			rest[0] == '<' && rest[len(rest)-1] == '>':
			return rest[1 : len(rest)-1], nil
		}
	}
	return "", fmt.Errorf("malformed #include %s", rest)
}

func (p *preprocessor) define(rest string) error {
	i := 0
	for i < len(rest) && isIdent(rest[i]) {
		i++
	}
	name := rest[:i]
	if name == "" || isDigit(name[0]) {
		return fmt.Errorf("#define: invalid macro name %q", rest)
	}
	m := &macro{}
	if i < len(rest) && rest[i] == '(' {
		end := strings.IndexByte(rest[i:], ')')
		if end < 0 {
			return fmt.Errorf("#define %s: missing ')' in parameter list", name)
		}
		m.fn = true
		if list := strings.TrimSpace(rest[i+1 : i+end]); list != "" {
			for _, param := range strings.Split(list, ",") {
				m.params = append(m.params, strings.TrimSpace(param))
			}
		}
		i += end + 1
	}
	m.body = strings.TrimSpace(rest[i:])
	p.macros[name] = m
	return nil
}

func (p *preprocessor) condition(directive, rest string) (bool, error) {
	switch directive {
	case "ifdef", "ifndef":
		name := strings.TrimSpace(rest)
		if name == "" {
			return false, fmt.Errorf("missing macro name")
		}
		_, ok := p.macros[name]
		return ok == (directive == "ifdef"), nil
	}
	s, err := p.expand(replaceDefined(rest, p.macros), nil)
	if err != nil {
		return false, err
	}
	v, err := evalExpr(s)
	return v != 0, err
}

// replaceDefined substitutes 1 or 0 for every defined(NAME) and
// defined NAME in s.
func replaceDefined(s string, macros map[string]*macro) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if !isIdentStart(s[i]) || (i > 0 && isIdent(s[i-1])) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isIdent(s[j]) {
			j++
		}
		if s[i:j] != "defined" {
			b.WriteString(s[i:j])
			i = j
			continue
		}
		k := skipSpace(s, j)
		paren := k < len(s) && s[k] == '('
		if paren {
			k = skipSpace(s, k+1)
		}
		n := k
		for n < len(s) && isIdent(s[n]) {
			n++
		}
		name := s[k:n]
		if paren {
			n = skipSpace(s, n)
			if n < len(s) && s[n] == ')' {
				n++
			}
		}
		if _, ok := macros[name]; ok {
			b.WriteString(" 1 ")
		} else {
			b.WriteString(" 0 ")
		}
		i = n
	}
	return b.String()
}

// expandLine expands macros in the code part of a line, leaving a
// trailing // comment untouched.
func (p *preprocessor) expandLine(s string) (string, error) {
	code, comment := s, ""
	if i := strings.Index(s, "//"); i >= 0 {
		code, comment = s[:i], s[i:]
	}
	out, err := p.expand(code, nil)
	if err != nil {
		return "", err
	}
	return out + comment, nil
}

// expand replaces every macro invocation in s. Macros in hide are not
// expanded again, so self-referencing macros terminate.
func (p *preprocessor) expand(s string, hide map[string]bool) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case isDigit(c):
			j := i
			for j < len(s) && (isIdent(s[j]) || s[j] == '.') {
				j++
			}
			b.WriteString(s[i:j])
			i = j
			continue
		case !isIdentStart(c):
			b.WriteByte(c)
			i++
			continue
		}

		j := i
		for j < len(s) && isIdent(s[j]) {
			j++
		}
		name := s[i:j]
		m, ok := p.macros[name]
		if !ok || hide[name] {
			b.WriteString(name)
			i = j
			continue
		}

		body := m.body
		if m.fn {
			k := skipSpace(s, j)
			if k >= len(s) || s[k] != '(' {
				b.WriteString(name)
				i = j
				continue
			}
			args, end, err := splitArgs(s, k)
			if err != nil {
				return "", fmt.Errorf("macro %s: %w", name, err)
			}
			if len(m.params) == 0 && len(args) == 1 && strings.TrimSpace(args[0]) == "" {
				args = nil
			}
			if len(args) != len(m.params) {
				return "", fmt.Errorf("macro %s expects %d arguments, got %d", name, len(m.params), len(args))
			}
			body = substitute(m.body, m.params, args)
			j = end
		}

		inner := make(map[string]bool, len(hide)+1)
		for k := range hide {
			inner[k] = true
		}
		inner[name] = true
		out, err := p.expand(body, inner)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		i = j
	}
	return b.String(), nil
}

// splitArgs parses the parenthesized argument list starting at s[open] and
// returns the arguments and the index just past the closing parenthesis.
func splitArgs(s string, open int) ([]string, int, error) {
	var args []string
	depth := 0
	start := open + 1
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return append(args, s[start:i]), i + 1, nil
			}
		case ',':
			if depth == 1 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return nil, 0, fmt.Errorf("unterminated argument list")
}

// substitute replaces parameters in body with their arguments and applies
// ## token pasting.
func substitute(body string, params, args []string) string {
	var b strings.Builder
	for i := 0; i < len(body); {
		if !isIdentStart(body[i]) {
			b.WriteByte(body[i])
			i++
			continue
		}
		j := i
		for j < len(body) && isIdent(body[j]) {
			j++
		}
		word := body[i:j]
		for k, param := range params {
			if param == word {
				word = strings.TrimSpace(args[k])
				break
			}
		}
		b.WriteString(word)
		i = j
	}
	out := b.String()
	for {
		i := strings.Index(out, "##")
		if i < 0 {
			return out
		}
		out = strings.TrimRight(out[:i], " \t") + strings.TrimLeft(out[i+2:], " \t")
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool { return isIdentStart(c) || isDigit(c) }
