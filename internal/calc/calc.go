// Package calc evaluates the arithmetic expressions typed into the calculator.
// Only numbers, + - * / and parentheses are understood.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrSyntax         = errors.New("invalid expression")
	ErrDivisionByZero = errors.New("division by zero")
)

// Evaluate computes expr
//
//	expression = term { ("+" | "-") term }
//	term       = factor { ("*" | "/") factor }
//	factor     = ("+" | "-") factor | number | "(" expression ")"
func Evaluate(expr string) (float64, error) {
	p := &parser{input: expr}
	p.skipSpaces()
	if p.done() {
		return 0, fmt.Errorf("%w: empty", ErrSyntax)
	}

	value, err := p.expression()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if !p.done() {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.input[p.pos], p.pos+1)
	}
	return value, nil
}

// Format renders a result without a trailing ".0"
func Format(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

type parser struct {
	input string
	pos   int
}

func (p *parser) done() bool {
	return p.pos >= len(p.input)
}

func (p *parser) skipSpaces() {
	for !p.done() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// accept consumes c when it is the next character
func (p *parser) accept(c byte) bool {
	p.skipSpaces()
	if !p.done() && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expression() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept('+'):
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case p.accept('-'):
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept('*'):
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.accept('/'):
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) factor() (float64, error) {
	switch {
	case p.accept('+'):
		return p.factor()
	case p.accept('-'):
		value, err := p.factor()
		return -value, err
	case p.accept('('):
		value, err := p.expression()
		if err != nil {
			return 0, err
		}
		if !p.accept(')') {
			return 0, fmt.Errorf("%w: missing )", ErrSyntax)
		}
		return value, nil
	}
	return p.number()
}

func (p *parser) number() (float64, error) {
	p.skipSpaces()
	start := p.pos
	dots := 0
	for !p.done() {
		c := p.input[p.pos]
		if c == '.' {
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}

	literal := p.input[start:p.pos]
	switch {
	case literal == "" && p.done():
		return 0, fmt.Errorf("%w: unexpected end", ErrSyntax)
	case literal == "":
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.input[p.pos], p.pos+1)
	case literal == "." || dots > 1:
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, literal)
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(literal, "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, literal)
	}
	return value, nil
}
