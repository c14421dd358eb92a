package lexer

import (
	"testing"

	"tsforge/pkg/errors"
	"tsforge/pkg/source"
)

func tokenize(t *testing.T, input string) ([]Token, *errors.Sink) {
	t.Helper()
	src := source.NewSourceFile("test.ts", "test.ts", input)
	sink := errors.NewSink()
	return Tokenize(src, sink), sink
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexSimpleDeclaration(t *testing.T) {
	tokens, sink := tokenize(t, "let x: number = 42;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := []TokenKind{LET, IDENTIFIER, COLON, NUMBER, ASSIGN, NUMBER_LITERAL, SEMICOLON, EOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	tokens, sink := tokenize(t, "class classic extends extendsy")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := []TokenKind{CLASS, IDENTIFIER, EXTENDS, IDENTIFIER, EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (keyword must not match as a prefix)", i, got[i], want[i])
		}
	}
}

func TestLexOperatorMaximalMunch(t *testing.T) {
	tokens, sink := tokenize(t, "a >>> b >= c === d !== e")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := []TokenKind{IDENTIFIER, USHR, IDENTIFIER, GE, IDENTIFIER, STRICT_EQ, IDENTIFIER, STRICT_NOT_EQ, IDENTIFIER, EOF}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexSpreadVsDot(t *testing.T) {
	tokens, _ := tokenize(t, "a.b ...c")
	got := kinds(tokens)
	want := []TokenKind{IDENTIFIER, DOT, IDENTIFIER, SPREAD, IDENTIFIER, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexOptionalChainVsQuestion(t *testing.T) {
	tokens, _ := tokenize(t, "a?.b x ? y : z")
	got := kinds(tokens)
	want := []TokenKind{IDENTIFIER, OPTIONAL_CHAIN, IDENTIFIER, IDENTIFIER, QUESTION, IDENTIFIER, COLON, IDENTIFIER, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexStringEscapes(t *testing.T) {
	tokens, sink := tokenize(t, `"hello\nworld" '\q'`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	if tokens[0].Lexeme != "hello\nworld" {
		t.Fatalf("expected escaped newline, got %q", tokens[0].Lexeme)
	}
	if tokens[1].Lexeme != `\q` {
		t.Fatalf("unrecognized escape should pass through literally, got %q", tokens[1].Lexeme)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, sink := tokenize(t, `"never closes`)
	if !sink.HasErrors() {
		t.Fatalf("expected an unterminated string diagnostic")
	}
}

func TestLexNumberLiteralWithExponent(t *testing.T) {
	tokens, sink := tokenize(t, "1.5e10 2E-3 7")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := []string{"1.5e10", "2E-3", "7"}
	for i, w := range want {
		if tokens[i].Lexeme != w {
			t.Fatalf("token %d: got %q want %q", i, tokens[i].Lexeme, w)
		}
	}
}

func TestLexUnexpectedCharacterReportsAndSkips(t *testing.T) {
	tokens, sink := tokenize(t, "a @ b")
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for '@'")
	}
	want := []TokenKind{IDENTIFIER, IDENTIFIER, EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (lexer should skip the bad char and keep scanning)", i, got[i], want[i])
		}
	}
}

func TestLexLineAndBlockComments(t *testing.T) {
	tokens, sink := tokenize(t, "a // trailing comment\n/* block\nspans lines */ b")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	want := []TokenKind{IDENTIFIER, IDENTIFIER, EOF}
	got := kinds(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, sink := tokenize(t, "a /* never closes")
	if !sink.HasErrors() {
		t.Fatalf("expected an unterminated block comment diagnostic")
	}
}

func TestLexTrackLineAndColumn(t *testing.T) {
	tokens, _ := tokenize(t, "let\n  x")
	// "let" at line 1 col 1, "x" at line 2 col 3
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Fatalf("let: got line %d col %d", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 2 || tokens[1].Column != 3 {
		t.Fatalf("x: got line %d col %d", tokens[1].Line, tokens[1].Column)
	}
}
