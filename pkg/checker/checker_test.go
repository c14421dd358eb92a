package checker

import (
	"testing"

	"tsforge/pkg/errors"
	"tsforge/pkg/lexer"
	"tsforge/pkg/parser"
	"tsforge/pkg/source"
)

func check(t *testing.T, input string, isTypeScript bool) *errors.Sink {
	t.Helper()
	src := source.NewSourceFile("test.ts", "test.ts", input)
	sink := errors.NewSink()
	tokens := lexer.Tokenize(src, sink)
	p := parser.New(tokens, sink, src)
	prog := p.Parse()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics())
	}
	c := New(sink, src, isTypeScript)
	c.Check(prog)
	return sink
}

func TestCheckValidAnnotatedDeclaration(t *testing.T) {
	sink := check(t, "let x: number = 42;", true)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
}

func TestCheckTypeMismatchOnInitializer(t *testing.T) {
	sink := check(t, `let x: number = "hello";`, true)
	if !sink.HasErrors() {
		t.Fatalf("expected a type mismatch diagnostic")
	}
}

func TestCheckMissingAnnotationInTypeScriptMode(t *testing.T) {
	sink := check(t, "let x;", true)
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for missing annotation and initializer in TypeScript mode")
	}
}

func TestCheckMissingAnnotationToleratedInJavaScriptMode(t *testing.T) {
	sink := check(t, "let x;", false)
	if sink.HasErrors() {
		t.Fatalf("JavaScript mode should tolerate a missing annotation, got: %v", sink.Diagnostics())
	}
}

func TestCheckArityMismatch(t *testing.T) {
	sink := check(t, "function add(a: number, b: number): number { return a + b; } add(1);", true)
	if !sink.HasErrors() {
		t.Fatalf("expected an arity-mismatch diagnostic")
	}
}

func TestCheckClassImplementingInterface(t *testing.T) {
	sink := check(t, `interface Shape { area(): number; }
class Circle implements Shape { area(): number { return 3.14; } }`, true)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
}

func TestCheckUnknownSuperclass(t *testing.T) {
	sink := check(t, "class C extends Ghost {}", true)
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for an unresolved superclass")
	}
}

func TestCheckReturnOutsideFunction(t *testing.T) {
	sink := check(t, "return 1;", true)
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for return outside any function")
	}
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	sink := check(t, `function f(): number { return "x"; }`, true)
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for a mismatched return type")
	}
}

func TestCheckUnknownIdentifierTypesAsAny(t *testing.T) {
	sink := check(t, "let x = y + 1;", false)
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for the unknown identifier 'y'")
	}
	if len(sink.Diagnostics()) != 1 {
		t.Fatalf("expected 'y' to be typed as any so '+' reports no further operand error, got: %v", sink.Diagnostics())
	}
}

func TestCheckScopeDepthRestoredAfterBlock(t *testing.T) {
	src := source.NewSourceFile("t.ts", "t.ts", "{ let x: number = 1; }")
	sink := errors.NewSink()
	tokens := lexer.Tokenize(src, sink)
	p := parser.New(tokens, sink, src)
	prog := p.Parse()

	c := New(sink, src, true)
	before := c.env.Depth()
	c.Check(prog)
	after := c.env.Depth()
	if before != after {
		t.Fatalf("scope depth changed across Check: before=%d after=%d", before, after)
	}
}

func TestCheckBinaryPlusWithString(t *testing.T) {
	src := source.NewSourceFile("t.ts", "t.ts", `let x = "a" + 1;`)
	sink := errors.NewSink()
	tokens := lexer.Tokenize(src, sink)
	p := parser.New(tokens, sink, src)
	prog := p.Parse()
	c := New(sink, src, true)
	c.Check(prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*parser.VarDeclStmt)
	if decl.Initializer.ExprType().String() != "string" {
		t.Fatalf("expected binary '+' with a string operand to infer string, got %s", decl.Initializer.ExprType())
	}
}
