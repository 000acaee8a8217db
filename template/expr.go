package template

import (
	"fmt"
	"strconv"
	"strings"
)

// evalExpr evaluates a fully macro-expanded #if expression. Identifiers
// that survive expansion evaluate to 0, true to 1.
func evalExpr(s string) (int64, error) {
	toks, err := tokenize(s)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 {
		return 0, fmt.Errorf("empty expression")
	}
	e := &exprParser{toks: toks}
	v := e.ternary()
	if e.err == nil && e.pos < len(e.toks) {
		e.err = fmt.Errorf("unexpected %q", e.toks[e.pos])
	}
	return v, e.err
}

var operators = []string{
	"||", "&&", "==", "!=", "<=", ">=", "<<", ">>",
	"|", "^", "&", "<", ">", "+", "-", "*", "/", "%", "!", "~", "(", ")", "?", ":",
}

func tokenize(s string) ([]string, error) {
	var toks []string
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isIdent(c):
			j := i
			for j < len(s) && isIdent(s[j]) {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		default:
			op := ""
			for _, o := range operators {
				if strings.HasPrefix(s[i:], o) {
					op = o
					break
				}
			}
			if op == "" {
				return nil, fmt.Errorf("unexpected character %q", c)
			}
			toks = append(toks, op)
			i += len(op)
		}
	}
	return toks, nil
}

type exprParser struct {
	toks []string
	pos  int
	err  error
}

func (e *exprParser) peek() string {
	if e.pos < len(e.toks) {
		return e.toks[e.pos]
	}
	return ""
}

func (e *exprParser) accept(tok string) bool {
	if e.peek() == tok {
		e.pos++
		return true
	}
	return false
}

func (e *exprParser) fail(format string, args ...any) int64 {
	if e.err == nil {
		e.err = fmt.Errorf(format, args...)
	}
	return 0
}

func (e *exprParser) ternary() int64 {
	c := e.binary(0)
	if !e.accept("?") {
		return c
	}
	a := e.ternary()
	if !e.accept(":") {
		return e.fail("missing ':'")
	}
	b := e.ternary()
	if c != 0 {
		return a
	}
	return b
}

// precedence lists binary operators from loosest to tightest.
var precedence = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (e *exprParser) binary(level int) int64 {
	if level == len(precedence) {
		return e.unary()
	}
	v := e.binary(level + 1)
	for {
		op := e.peek()
		if !contains(precedence[level], op) {
			return v
		}
		e.pos++
		r := e.binary(level + 1)
		v = e.apply(op, v, r)
	}
}

func (e *exprParser) apply(op string, a, b int64) int64 {
	switch op {
	case "||":
		return truth(a != 0 || b != 0)
	case "&&":
		return truth(a != 0 && b != 0)
	case "|":
		return a | b
	case "^":
		return a ^ b
	case "&":
		return a & b
	case "==":
		return truth(a == b)
	case "!=":
		return truth(a != b)
	case "<":
		return truth(a < b)
	case ">":
		return truth(a > b)
	case "<=":
		return truth(a <= b)
	case ">=":
		return truth(a >= b)
	case "<<":
		return a << uint64(b&63)
	case ">>":
		return a >> uint64(b&63)
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/", "%":
		if b == 0 {
			return e.fail("division by zero")
		}
		if op == "/" {
			return a / b
		}
		return a % b
	}
	return e.fail("unknown operator %q", op)
}

func (e *exprParser) unary() int64 {
	switch {
	case e.accept("!"):
		return truth(e.unary() == 0)
	case e.accept("-"):
		return -e.unary()
	case e.accept("+"):
		return e.unary()
	case e.accept("~"):
		return ^e.unary()
	case e.accept("("):
		v := e.ternary()
		if !e.accept(")") {
			return e.fail("missing ')'")
		}
		return v
	}
	tok := e.peek()
	if tok == "" {
		return e.fail("unexpected end of expression")
	}
	e.pos++
	if isDigit(tok[0]) {
		return e.number(tok)
	}
	if !isIdentStart(tok[0]) {
		return e.fail("unexpected %q", tok)
	}
	if tok == "true" {
		return 1
	}
	return 0
}

func (e *exprParser) number(tok string) int64 {
	tok = strings.TrimRight(tok, "uUlL")
	v, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return e.fail("invalid number %q", tok)
	}
	return v
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func contains(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
