package plugin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yaklabco/goxmlint/pkg/lint"
)

// CompileCondition compiles a manifest condition expression into the typed
// condition tree the evaluator runs. The language covers attribute tests
// (exists, missing, ==, !=, matches, in), structural tests (count(child),
// parent not in [...]), text tests for embedded regions, the always
// literal, and the combinators && || ! with parentheses.
//
// Regex operands are validated here so a bad pattern is a load error, not
// a rule that silently never fires.
func CompileCondition(expr string) (lint.Condition, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return lint.Condition{}, err
	}
	p := &condParser{tokens: tokens}
	cond, err := p.parseOr()
	if err != nil {
		return lint.Condition{}, err
	}
	if !p.atEnd() {
		return lint.Condition{}, fmt.Errorf("unexpected %q after condition", p.peek().text)
	}
	return cond, nil
}

// matchSymbol returns the longest operator symbol prefixing s, or "".
func matchSymbol(s string) string {
	for _, sym := range []string{"&&", "||", "==", "!=", ">=", "<=", ">", "<", "!", "(", ")", "[", "]", ","} {
		if strings.HasPrefix(s, sym) {
			return sym
		}
	}
	return ""
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '"' || r == '\'':
			quote := r
			j := i + 1
			var sb strings.Builder
			for j < len(runes) && runes[j] != quote {
				if runes[j] == '\\' && j+1 < len(runes) {
					j++
				}
				sb.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string in condition %q", expr)
			}
			tokens = append(tokens, token{tokString, sb.String()})
			i = j + 1
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, token{tokNumber, string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) ||
				runes[j] == '_' || runes[j] == '-' || runes[j] == '.' || runes[j] == ':') {
				j++
			}
			tokens = append(tokens, token{tokIdent, string(runes[i:j])})
			i = j
		default:
			sym := matchSymbol(string(runes[i:]))
			if sym == "" {
				return nil, fmt.Errorf("unexpected character %q in condition %q", r, expr)
			}
			tokens = append(tokens, token{tokSymbol, sym})
			i += len(sym)
		}
	}
	return tokens, nil
}

type condParser struct {
	tokens []token
	pos    int
}

func (p *condParser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *condParser) peek() token {
	if p.atEnd() {
		return token{tokSymbol, ""}
	}
	return p.tokens[p.pos]
}

func (p *condParser) advance() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *condParser) acceptSymbol(sym string) bool {
	if !p.atEnd() && p.tokens[p.pos].kind == tokSymbol && p.tokens[p.pos].text == sym {
		p.pos++
		return true
	}
	return false
}

func (p *condParser) acceptIdent(word string) bool {
	if !p.atEnd() && p.tokens[p.pos].kind == tokIdent && p.tokens[p.pos].text == word {
		p.pos++
		return true
	}
	return false
}

func (p *condParser) expectSymbol(sym string) error {
	if !p.acceptSymbol(sym) {
		return fmt.Errorf("expected %q, found %q", sym, p.peek().text)
	}
	return nil
}

func (p *condParser) parseOr() (lint.Condition, error) {
	left, err := p.parseAnd()
	if err != nil {
		return lint.Condition{}, err
	}
	parts := []lint.Condition{left}
	for p.acceptSymbol("||") {
		right, err := p.parseAnd()
		if err != nil {
			return lint.Condition{}, err
		}
		parts = append(parts, right)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return lint.Any(parts...), nil
}

func (p *condParser) parseAnd() (lint.Condition, error) {
	left, err := p.parseUnary()
	if err != nil {
		return lint.Condition{}, err
	}
	parts := []lint.Condition{left}
	for p.acceptSymbol("&&") {
		right, err := p.parseUnary()
		if err != nil {
			return lint.Condition{}, err
		}
		parts = append(parts, right)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return lint.All(parts...), nil
}

func (p *condParser) parseUnary() (lint.Condition, error) {
	if p.acceptSymbol("!") {
		inner, err := p.parseUnary()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.Not(inner), nil
	}
	if p.acceptSymbol("(") {
		inner, err := p.parseOr()
		if err != nil {
			return lint.Condition{}, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return lint.Condition{}, err
		}
		return inner, nil
	}
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() (lint.Condition, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return lint.Condition{}, fmt.Errorf("expected a condition, found %q", t.text)
	}

	switch t.text {
	case "always":
		p.advance()
		return lint.Always(), nil
	case "exists":
		p.advance()
		attr, err := p.expectIdentValue()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.AttributeExists(attr), nil
	case "missing":
		p.advance()
		attr, err := p.expectIdentValue()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.AttributeMissing(attr), nil
	case "parent":
		p.advance()
		if !p.acceptIdent("not") {
			return lint.Condition{}, fmt.Errorf("expected \"not in\" after parent, found %q", p.peek().text)
		}
		if !p.acceptIdent("in") {
			return lint.Condition{}, fmt.Errorf("expected \"in\" after parent not, found %q", p.peek().text)
		}
		values, err := p.parseList()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.ParentNotIn(values...), nil
	case "count":
		return p.parseCount()
	case "text":
		p.advance()
		negate := p.acceptIdent("not")
		if !p.acceptIdent("matches") {
			return lint.Condition{}, fmt.Errorf("expected \"matches\" after text, found %q", p.peek().text)
		}
		pattern, err := p.expectPattern()
		if err != nil {
			return lint.Condition{}, err
		}
		if negate {
			return lint.TextNotMatches(pattern), nil
		}
		return lint.TextMatches(pattern), nil
	}

	// Anything else is an attribute name followed by an operator.
	attr := p.advance().text
	return p.parseAttributeOp(attr)
}

func (p *condParser) parseCount() (lint.Condition, error) {
	p.advance() // count
	if err := p.expectSymbol("("); err != nil {
		return lint.Condition{}, err
	}
	element, err := p.expectIdentValue()
	if err != nil {
		return lint.Condition{}, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return lint.Condition{}, err
	}

	op, err := p.parseCompareOp()
	if err != nil {
		return lint.Condition{}, err
	}

	t := p.advance()
	if t.kind != tokNumber {
		return lint.Condition{}, fmt.Errorf("expected a number after count comparison, found %q", t.text)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return lint.Condition{}, fmt.Errorf("invalid count %q", t.text)
	}
	return lint.ChildCount(element, op, n), nil
}

func (p *condParser) parseCompareOp() (lint.CompareOp, error) {
	for _, candidate := range []struct {
		sym string
		op  lint.CompareOp
	}{
		{"==", lint.OpEq},
		{"!=", lint.OpNe},
		{">=", lint.OpGe},
		{"<=", lint.OpLe},
		{">", lint.OpGt},
		{"<", lint.OpLt},
	} {
		if p.acceptSymbol(candidate.sym) {
			return candidate.op, nil
		}
	}
	return "", fmt.Errorf("expected a comparison operator, found %q", p.peek().text)
}

func (p *condParser) parseAttributeOp(attr string) (lint.Condition, error) {
	switch {
	case p.acceptSymbol("=="):
		value, err := p.expectString()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.AttributeEquals(attr, value), nil
	case p.acceptSymbol("!="):
		value, err := p.expectString()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.AttributeNotEquals(attr, value), nil
	case p.acceptIdent("matches"):
		pattern, err := p.expectPattern()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.AttributeMatches(attr, pattern), nil
	case p.acceptIdent("in"):
		values, err := p.parseList()
		if err != nil {
			return lint.Condition{}, err
		}
		return lint.AttributeIn(attr, values...), nil
	case p.acceptIdent("not"):
		switch {
		case p.acceptIdent("matches"):
			pattern, err := p.expectPattern()
			if err != nil {
				return lint.Condition{}, err
			}
			return lint.AttributeNotMatches(attr, pattern), nil
		case p.acceptIdent("in"):
			values, err := p.parseList()
			if err != nil {
				return lint.Condition{}, err
			}
			return lint.AttributeNotIn(attr, values...), nil
		default:
			return lint.Condition{}, fmt.Errorf("expected \"matches\" or \"in\" after %q not, found %q", attr, p.peek().text)
		}
	default:
		return lint.Condition{}, fmt.Errorf("expected an operator after %q, found %q", attr, p.peek().text)
	}
}

// expectIdentValue accepts a bare identifier or a quoted string, for
// attribute and element names.
func (p *condParser) expectIdentValue() (string, error) {
	t := p.advance()
	if t.kind != tokIdent && t.kind != tokString {
		return "", fmt.Errorf("expected a name, found %q", t.text)
	}
	return t.text, nil
}

func (p *condParser) expectString() (string, error) {
	t := p.advance()
	if t.kind != tokString {
		return "", fmt.Errorf("expected a quoted string, found %q", t.text)
	}
	return t.text, nil
}

func (p *condParser) expectPattern() (string, error) {
	pattern, err := p.expectString()
	if err != nil {
		return "", err
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return "", fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return pattern, nil
}

func (p *condParser) parseList() ([]string, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	var values []string
	if p.acceptSymbol("]") {
		return values, nil
	}
	for {
		v, err := p.expectIdentValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.acceptSymbol("]") {
			return values, nil
		}
		if err := p.expectSymbol(","); err != nil {
			return nil, err
		}
	}
}
