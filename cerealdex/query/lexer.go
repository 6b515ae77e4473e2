package query

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a lexical token
type Token struct {
	Kind  TokenKind
	Value string
}

// TokenKind is the type of token
type TokenKind int

const (
	TokWord TokenKind = iota
	TokString
	TokOp
	TokColon
	TokAnd
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokWord:
		return "Word"
	case TokString:
		return "String"
	case TokOp:
		return "Op"
	case TokColon:
		return "Colon"
	case TokAnd:
		return "And"
	case TokEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Lexer tokenizes a filter expression such as
//
//	calories>=100 AND mfr:eq:K, name="Corn Flakes"
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a new lexer for the input string
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Lex tokenizes the entire input
func Lex(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token
	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	return tokens, nil
}

// Next returns the next token
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF}, nil
	}

	ch := l.input[l.pos]
	switch ch {
	case ':':
		l.pos++
		return Token{Kind: TokColon}, nil
	case ',', '&':
		l.pos++
		return Token{Kind: TokAnd}, nil
	case '"':
		return l.scanString()
	case '<', '>', '=', '!':
		return l.scanOp()
	}

	return l.scanWord()
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos < len(l.input) {
		return l.input[pos]
	}
	return 0
}

// scanOp reads one of < <= > >= = != and also "==", which the parser rejects
func (l *Lexer) scanOp() (Token, error) {
	ch := l.input[l.pos]
	if l.peek(1) == '=' {
		l.pos += 2
		return Token{Kind: TokOp, Value: string(ch) + "="}, nil
	}
	if ch == '!' {
		return Token{}, fmt.Errorf("expected '=' after '!' at position %d", l.pos)
	}
	l.pos++
	return Token{Kind: TokOp, Value: string(ch)}, nil
}

func (l *Lexer) scanString() (Token, error) {
	l.pos++ // consume opening quote
	var sb strings.Builder

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			l.pos++
			return Token{Kind: TokString, Value: sb.String()}, nil
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			sb.WriteRune(l.input[l.pos])
			l.pos++
			continue
		}
		sb.WriteRune(ch)
		l.pos++
	}

	return Token{}, fmt.Errorf("unterminated string")
}

func (l *Lexer) scanWord() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	value := string(l.input[start:l.pos])
	if strings.EqualFold(value, "AND") {
		return Token{Kind: TokAnd}, nil
	}
	return Token{Kind: TokWord, Value: value}, nil
}

func isWordChar(ch rune) bool {
	if unicode.IsSpace(ch) {
		return false
	}
	switch ch {
	case ':', ',', '&', '"', '<', '>', '=', '!':
		return false
	}
	return true
}
