package parser

import (
	"testing"

	"tsforge/pkg/errors"
	"tsforge/pkg/lexer"
	"tsforge/pkg/source"
)

func parse(t *testing.T, input string) (*Program, *errors.Sink) {
	t.Helper()
	src := source.NewSourceFile("test.ts", "test.ts", input)
	sink := errors.NewSink()
	tokens := lexer.Tokenize(src, sink)
	p := New(tokens, sink, src)
	return p.Parse(), sink
}

func TestParseVarDecl(t *testing.T) {
	prog, sink := parse(t, "let x: number = 42;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*VarDeclStmt)
	if !ok {
		t.Fatalf("expected *VarDeclStmt, got %T", prog.Statements[0])
	}
	if decl.Name != "x" || decl.Kind != "let" {
		t.Fatalf("unexpected decl: %+v", decl)
	}
	if _, ok := decl.Type.(*IdentifierType); !ok {
		t.Fatalf("expected identifier type annotation, got %T", decl.Type)
	}
}

func TestParseFunctionWithArity(t *testing.T) {
	prog, sink := parse(t, "function add(a: number, b: number): number { return a + b; }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	fn, ok := prog.Statements[0].(*FunctionDeclStmt)
	if !ok {
		t.Fatalf("expected *FunctionDeclStmt, got %T", prog.Statements[0])
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseClassWithConstructorAndMethod(t *testing.T) {
	src := `class C {
		private n: number;
		constructor(n: number) { this.n = n; }
		greet(): string { return "hi"; }
	}`
	prog, sink := parse(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	cls, ok := prog.Statements[0].(*ClassDeclStmt)
	if !ok {
		t.Fatalf("expected *ClassDeclStmt, got %T", prog.Statements[0])
	}
	if len(cls.Properties) != 1 || cls.Properties[0].Access != Private {
		t.Fatalf("expected one private property, got %+v", cls.Properties)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected constructor + greet, got %d methods", len(cls.Methods))
	}
}

func TestParseInterfaceRequiresReturnType(t *testing.T) {
	prog, sink := parse(t, "interface Shape { area(): number; }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	iface, ok := prog.Statements[0].(*InterfaceDeclStmt)
	if !ok {
		t.Fatalf("expected *InterfaceDeclStmt, got %T", prog.Statements[0])
	}
	if len(iface.Methods) != 1 || iface.Methods[0].ReturnType == nil {
		t.Fatalf("expected one method signature with return type, got %+v", iface.Methods)
	}
}

func TestParseUnionType(t *testing.T) {
	prog, sink := parse(t, "let x: number | string;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*VarDeclStmt)
	union, ok := decl.Type.(*UnionType)
	if !ok {
		t.Fatalf("expected *UnionType, got %T — union-type parsing must not be unreachable", decl.Type)
	}
	if len(union.Members) != 2 {
		t.Fatalf("expected 2 union members, got %d", len(union.Members))
	}
}

func TestParseFunctionType(t *testing.T) {
	prog, sink := parse(t, "let f: (a: number) => string;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*VarDeclStmt)
	if _, ok := decl.Type.(*FunctionType); !ok {
		t.Fatalf("expected *FunctionType, got %T", decl.Type)
	}
}

func TestParseObjectType(t *testing.T) {
	prog, sink := parse(t, "let o: { a: number; b?: string };")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*VarDeclStmt)
	obj, ok := decl.Type.(*ObjectType)
	if !ok {
		t.Fatalf("expected *ObjectType, got %T", decl.Type)
	}
	if len(obj.Properties) != 2 || !obj.Properties[1].Optional {
		t.Fatalf("expected 2 properties with second optional, got %+v", obj.Properties)
	}
}

func TestParseForStatement(t *testing.T) {
	prog, sink := parse(t, "for (let i = 0; i < 5; i++) { console.log(i); }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	forStmt, ok := prog.Statements[0].(*ForStmt)
	if !ok {
		t.Fatalf("expected *ForStmt, got %T", prog.Statements[0])
	}
	if _, ok := forStmt.Init.(*VarDeclStmt); !ok {
		t.Fatalf("expected for-init to be a VarDeclStmt, got %T", forStmt.Init)
	}
}

func TestParseAssignmentTargetDiagnostic(t *testing.T) {
	_, sink := parse(t, "1 + 1 = 2;")
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for an invalid assignment target")
	}
}

func TestParseInvalidAssignmentTargetRecovers(t *testing.T) {
	prog, sink := parse(t, "1 = 2; let y = 3;")
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for the invalid target")
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected parser to recover and parse the following statement, got %d statements", len(prog.Statements))
	}
}

func TestParseModuleFlag(t *testing.T) {
	prog, _ := parse(t, `import { a } from "m"; let x = 1;`)
	if !prog.IsModule {
		t.Fatalf("expected IsModule to be true when an import keyword appears")
	}
}

func TestParseConditionalRightAssociative(t *testing.T) {
	prog, sink := parse(t, "let x = a ? b : c ? d : e;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*VarDeclStmt)
	cond, ok := decl.Initializer.(*ConditionalExpr)
	if !ok {
		t.Fatalf("expected *ConditionalExpr, got %T", decl.Initializer)
	}
	if _, ok := cond.Else.(*ConditionalExpr); !ok {
		t.Fatalf("expected nested conditional in else branch (right-associative), got %T", cond.Else)
	}
}

func TestParseArrowFunctionExpression(t *testing.T) {
	prog, sink := parse(t, "let f = (a: number): number => a;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*VarDeclStmt)
	if _, ok := decl.Initializer.(*FunctionExpr); !ok {
		t.Fatalf("expected *FunctionExpr, got %T", decl.Initializer)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog, sink := parse(t, "let x = 1 + 2 * 3;")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics())
	}
	decl := prog.Statements[0].(*VarDeclStmt)
	add, ok := decl.Initializer.(*BinaryExpr)
	if !ok || add.Operator != "+" {
		t.Fatalf("expected top-level '+' binary expr, got %+v", decl.Initializer)
	}
	if _, ok := add.Right.(*BinaryExpr); !ok {
		t.Fatalf("expected '*' to bind tighter and nest on the right, got %T", add.Right)
	}
}

func TestParseSynchronizeRecoversAfterSemicolon(t *testing.T) {
	prog, sink := parse(t, "let ; let y = 1;")
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for the malformed declaration")
	}
	foundY := false
	for _, stmt := range prog.Statements {
		if decl, ok := stmt.(*VarDeclStmt); ok && decl.Name == "y" {
			foundY = true
		}
	}
	if !foundY {
		t.Fatalf("expected parser to recover and parse 'let y = 1;', statements: %+v", prog.Statements)
	}
}
