package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cerealdex/cerealdex/cerealdex/filter"
)

// Parse reads a conjunction of filter triples. Each term is either
// "column<op>value" with a symbolic operator or "column:name:value" with a
// named one; terms are joined by AND, "&" or ",". Values containing spaces
// or operator characters must be double-quoted.
func Parse(input string) ([]filter.Triple, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseList()
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseList() ([]filter.Triple, error) {
	var out []filter.Triple
	if p.peek().Kind == TokEOF {
		return out, nil
	}
	for {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		out = append(out, t)

		switch tok := p.next(); tok.Kind {
		case TokEOF:
			return out, nil
		case TokAnd:
			if p.peek().Kind == TokEOF {
				return nil, fmt.Errorf("dangling AND at end of input")
			}
		default:
			return nil, fmt.Errorf("expected AND between filters, got %s %q", tok.Kind, tok.Value)
		}
	}
}

func (p *parser) parseTerm() (filter.Triple, error) {
	col := p.next()
	if col.Kind != TokWord {
		return filter.Triple{}, fmt.Errorf("expected column name, got %s", col.Kind)
	}

	var op string
	switch tok := p.next(); tok.Kind {
	case TokOp:
		if tok.Value == "==" {
			return filter.Triple{}, fmt.Errorf("column %s: use '=' instead of '=='", col.Value)
		}
		op = tok.Value
	case TokColon:
		name := p.next()
		if name.Kind != TokWord {
			return filter.Triple{}, fmt.Errorf("column %s: expected operator name after ':'", col.Value)
		}
		if sep := p.next(); sep.Kind != TokColon {
			return filter.Triple{}, fmt.Errorf("column %s: expected ':' after operator name", col.Value)
		}
		op = name.Value
	default:
		return filter.Triple{}, fmt.Errorf("column %s: expected operator", col.Value)
	}

	val := p.next()
	if val.Kind != TokWord && val.Kind != TokString {
		return filter.Triple{}, fmt.Errorf("column %s: expected value", col.Value)
	}
	return filter.Triple{Column: col.Value, Op: op, Raw: val.Value}, nil
}

// paramRe matches the value side of an HTTP filter parameter: an operator
// prefix followed by the value, e.g. "<=140" or "!=K".
var paramRe = regexp.MustCompile(`^([<>!=]=?)(.+)$`)

// ParseParam turns one HTTP query parameter (calories, ">110") into a triple
func ParseParam(column, raw string) (filter.Triple, error) {
	m := paramRe.FindStringSubmatch(raw)
	if m == nil {
		return filter.Triple{}, fmt.Errorf("parameter %s: expected <op><value>, got %q", column, raw)
	}
	if m[1] == "==" || m[1] == "!" {
		return filter.Triple{}, fmt.Errorf("parameter %s: unsupported operator %q", column, m[1])
	}
	return filter.Triple{Column: column, Op: m[1], Raw: m[2]}, nil
}

// ParseRawQuery parses an encoded URL query into triples, keeping the order
// in which parameters were submitted. Parameters named in skip are ignored.
func ParseRawQuery(rawQuery string, skip ...string) ([]filter.Triple, error) {
	var out []filter.Triple
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q has no value", part)
		}
		col, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		if contains(skip, col) {
			continue
		}
		raw, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", col, err)
		}
		t, err := ParseParam(col, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
