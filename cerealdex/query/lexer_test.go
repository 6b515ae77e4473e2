package query

import (
	"testing"
)

func TestLexSimple(t *testing.T) {
	tokens, err := Lex("calories>=100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Tokens: Word(calories), Op(>=), Word(100), EOF
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens (including EOF), got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Kind != TokWord || tokens[0].Value != "calories" {
		t.Errorf("expected Word(calories), got %v", tokens[0])
	}
	if tokens[1].Kind != TokOp || tokens[1].Value != ">=" {
		t.Errorf("expected Op(>=), got %v", tokens[1])
	}
	if tokens[2].Kind != TokWord || tokens[2].Value != "100" {
		t.Errorf("expected Word(100), got %v", tokens[2])
	}
	if tokens[3].Kind != TokEOF {
		t.Errorf("expected EOF, got %v", tokens[3])
	}
}

func TestLexNamedOperator(t *testing.T) {
	tokens, err := Lex("mfr:noteq:K")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kinds := []TokenKind{TokWord, TokColon, TokWord, TokColon, TokWord, TokEOF}
	if len(tokens) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d: %v", len(kinds), len(tokens), tokens)
	}
	for i, k := range kinds {
		if tokens[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, tokens[i].Kind)
		}
	}
}

func TestLexSeparators(t *testing.T) {
	tokens, err := Lex("a<1 AND b>2, c=3 & d!=4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ands := 0
	for _, tok := range tokens {
		if tok.Kind == TokAnd {
			ands++
		}
	}
	if ands != 3 {
		t.Errorf("expected 3 And tokens, got %d", ands)
	}
}

func TestLexString(t *testing.T) {
	tokens, err := Lex(`name="Corn \"Flakes\""`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[2].Kind != TokString || tokens[2].Value != `Corn "Flakes"` {
		t.Errorf("expected String(Corn \"Flakes\"), got %v", tokens[2])
	}
}

func TestLexNegativeNumber(t *testing.T) {
	tokens, err := Lex("sugars>=-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[2].Kind != TokWord || tokens[2].Value != "-1" {
		t.Errorf("expected Word(-1), got %v", tokens[2])
	}
}

func TestLexErrors(t *testing.T) {
	for _, input := range []string{`name="open`, "mfr!K"} {
		if _, err := Lex(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
