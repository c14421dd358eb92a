// Package checker implements the third pipeline stage: a scoped semantic
// analyzer performing symbol resolution, type inference, and
// assignability checks over the AST produced by pkg/parser.
package checker

import (
	"tsforge/pkg/errors"
	"tsforge/pkg/parser"
	"tsforge/pkg/source"
	"tsforge/pkg/types"
)

// Checker traverses a Program, maintaining a scoped Environment and
// reporting diagnostics to a shared Sink. It never aborts its own
// traversal: every check that fails reports a diagnostic and continues,
// typing the offending expression as any to avoid cascading errors.
type Checker struct {
	sink         *errors.Sink
	src          *source.SourceFile
	isTypeScript bool
	env          *Environment

	// returnTypeStack tracks the declared return type of each function
	// currently being checked, for return-statement validation. A function
	// with no declared return type contributes any (what resolveType
	// returns for a nil annotation).
	returnTypeStack []types.Type

	classes     map[string]*parser.ClassDeclStmt
	interfaces  map[string]*parser.InterfaceDeclStmt
}

// New creates a Checker. isTypeScript selects the stricter annotation
// requirements of TypeScript mode versus JavaScript mode's any-defaulting.
func New(sink *errors.Sink, src *source.SourceFile, isTypeScript bool) *Checker {
	return &Checker{
		sink:         sink,
		src:          src,
		isTypeScript: isTypeScript,
		env:          NewEnvironment(),
		classes:      map[string]*parser.ClassDeclStmt{},
		interfaces:   map[string]*parser.InterfaceDeclStmt{},
	}
}

// Check runs the full semantic pass over prog: installs built-ins, hoists
// top-level declarations, then walks every statement.
func (c *Checker) Check(prog *parser.Program) {
	c.installBuiltins()
	c.hoist(prog.Statements)

	for _, stmt := range prog.Statements {
		c.checkStmt(stmt)
	}
}

// installBuiltins installs the fixed set of global type and value
// bindings available to every program before any user code runs.
func (c *Checker) installBuiltins() {
	for _, name := range []string{"any", "void", "number", "string", "boolean", "undefined", "null"} {
		c.env.Define(name, &Symbol{Name: name, Kind: BuiltinTypeSymbol, Type: builtinTypeFor(name)})
	}

	consoleType := types.Object{Props: []types.ObjectProp{
		{Name: "log", Type: types.Function{Params: nil, Return: types.Void}},
		{Name: "error", Type: types.Function{Params: nil, Return: types.Void}},
		{Name: "warn", Type: types.Function{Params: nil, Return: types.Void}},
	}}
	for _, name := range []string{"console", "Math", "Date", "Array", "Object", "String", "Number", "Boolean"} {
		t := types.Type(types.Any)
		if name == "console" {
			t = consoleType
		}
		c.env.Define(name, &Symbol{Name: name, Kind: BuiltinValueSymbol, Type: t})
	}
}

func builtinTypeFor(name string) types.Type {
	switch name {
	case "any":
		return types.Any
	case "void":
		return types.Void
	case "number":
		return types.Number
	case "string":
		return types.String
	case "boolean":
		return types.Boolean
	case "undefined":
		return types.Undefined
	case "null":
		return types.Null
	}
	return types.Any
}

// hoist is the first pass: pre-register top-level function, class,
// interface, and variable declarations into the global scope by name, the
// only forward-declaration mechanism the analyzer provides.
func (c *Checker) hoist(stmts []parser.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *parser.FunctionDeclStmt:
			fnType := types.Function{Params: c.resolveParams(s.Params), Return: c.resolveType(s.ReturnType)}
			c.env.DefineGlobal(s.Name, &Symbol{Name: s.Name, Kind: FunctionSymbol, Type: fnType})
		case *parser.ClassDeclStmt:
			c.classes[s.Name] = s
			shape := c.classShape(s)
			named := types.Named{Name: s.Name, Kind: types.ClassKind, Shape: shape}
			c.env.DefineGlobal(s.Name, &Symbol{Name: s.Name, Kind: ClassSymbol, Type: named})
		case *parser.InterfaceDeclStmt:
			c.interfaces[s.Name] = s
			shape := c.interfaceShape(s)
			named := types.Named{Name: s.Name, Kind: types.InterfaceKind, Shape: shape}
			c.env.DefineGlobal(s.Name, &Symbol{Name: s.Name, Kind: InterfaceSymbol, Type: named})
		case *parser.VarDeclStmt:
			varType := c.declaredOrInferredVarType(s)
			c.env.DefineGlobal(s.Name, &Symbol{Name: s.Name, Kind: VariableSymbol, Type: varType, Const: s.Kind == "const"})
		}
	}
}

// declaredOrInferredVarType computes a variable's type for hoisting
// purposes without evaluating initializer side effects twice: if
// annotated, use the annotation; otherwise any (refined in checkStmt when
// the body is actually walked for `var`-with-initializer inference).
func (c *Checker) declaredOrInferredVarType(s *parser.VarDeclStmt) types.Type {
	if s.Type != nil {
		return c.resolveType(s.Type)
	}
	return types.Any
}

func (c *Checker) reportPos(pos parser.Pos, format string, args ...interface{}) {
	errPos := errors.Position{Line: pos.Line, Column: pos.Column, Source: c.src}
	c.sink.Report(errPos, errors.Semantic, format, args...)
}

// currentReturnType reports the declared return type of the innermost
// function being checked, or (nil, false) outside any function.
func (c *Checker) currentReturnType() (types.Type, bool) {
	if len(c.returnTypeStack) == 0 {
		return nil, false
	}
	return c.returnTypeStack[len(c.returnTypeStack)-1], true
}
