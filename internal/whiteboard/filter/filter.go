// Package filter evaluates LDAP-style (RFC 4515) filter expressions against
// attribute maps. Declarations use it to select contexts and to address a
// specific runtime.
//
// Supported syntax:
//
//	(&(a=1)(b=2))    conjunction
//	(|(a=1)(b=2))    disjunction
//	(!(a=1))         negation
//	(a=value)        equality, numeric when both sides are numbers
//	(a=*)            presence
//	(a=pre*mid*suf)  substring
//	(a>=v) (a<=v)    ordering
//	(a~=v)           approximate: case and whitespace insensitive
//
// Attribute names are case-insensitive. Slice values match when any element
// matches.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned (wrapped) for any syntax error.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter is a compiled expression. It is immutable and safe for concurrent use.
type Filter struct {
	expr string
	root node
}

// Compile parses expr.
func Compile(expr string) (*Filter, error) {
	p := &parser{src: expr}
	p.skipSpace()
	root, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing input")
	}
	return &Filter{expr: expr, root: root}, nil
}

// MustCompile is like Compile but panics on error. Use it for constants.
func MustCompile(expr string) *Filter {
	f, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return f
}

// Match evaluates the filter against attrs.
func (f *Filter) Match(attrs map[string]any) bool {
	return f.root.match(attrs)
}

func (f *Filter) String() string {
	return f.expr
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrInvalidFilter, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) parseFilter() (node, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	p.skipSpace()

	var (
		n   node
		err error
	)
	switch p.peek() {
	case '&':
		p.pos++
		var list []node
		list, err = p.parseList()
		n = andNode(list)
	case '|':
		p.pos++
		var list []node
		list, err = p.parseList()
		n = orNode(list)
	case '!':
		p.pos++
		p.skipSpace()
		var inner node
		inner, err = p.parseFilter()
		n = notNode{inner: inner}
	default:
		n, err = p.parseItem()
	}
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseList() ([]node, error) {
	var list []node
	p.skipSpace()
	for p.peek() == '(' {
		n, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		list = append(list, n)
		p.skipSpace()
	}
	if len(list) == 0 {
		return nil, p.errorf("empty filter list")
	}
	return list, nil
}

func (p *parser) parseItem() (node, error) {
	start := p.pos
	for !p.eof() && !strings.ContainsRune("=<>~()", rune(p.peek())) {
		p.pos++
	}
	key := strings.TrimSpace(p.src[start:p.pos])
	if key == "" {
		return nil, p.errorf("missing attribute name")
	}

	var op operator
	switch p.peek() {
	case '=':
		op = opEqual
		p.pos++
	case '~', '>', '<':
		c := p.peek()
		p.pos++
		if err := p.expect('='); err != nil {
			return nil, err
		}
		op = map[byte]operator{'~': opApprox, '>': opGreaterEqual, '<': opLessEqual}[c]
	default:
		return nil, p.errorf("expected operator after %q", key)
	}

	parts, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	if op == opEqual && len(parts) > 1 {
		if len(parts) == 2 && parts[0] == "" && parts[1] == "" {
			return presentNode{key: key}, nil
		}
		return substringNode{key: key, parts: parts}, nil
	}
	if len(parts) > 1 {
		return nil, p.errorf("wildcard not allowed with this operator")
	}
	return compareNode{key: key, op: op, value: parts[0]}, nil
}

// parseValue reads up to the closing parenthesis, splitting on unescaped '*'.
func (p *parser) parseValue() ([]string, error) {
	var (
		parts []string
		cur   strings.Builder
	)
	for {
		if p.eof() {
			return nil, p.errorf("unterminated value")
		}
		c := p.peek()
		switch c {
		case ')':
			parts = append(parts, cur.String())
			return parts, nil
		case '(':
			return nil, p.errorf("unescaped '(' in value")
		case '*':
			parts = append(parts, cur.String())
			cur.Reset()
			p.pos++
		case '\\':
			p.pos++
			if p.eof() {
				return nil, p.errorf("dangling escape")
			}
			cur.WriteByte(p.peek())
			p.pos++
		default:
			cur.WriteByte(c)
			p.pos++
		}
	}
}
