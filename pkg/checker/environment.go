package checker

import "tsforge/pkg/types"

// SymbolKind distinguishes what a name is bound to, per the scope-stack
// design: each symbol value is a tagged variant.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	ParameterSymbol
	FunctionSymbol
	ClassSymbol
	InterfaceSymbol
	BuiltinTypeSymbol
	BuiltinValueSymbol
)

// Symbol is one binding recorded in the scope stack.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Type  types.Type
	Const bool // true for `const` bindings; see inferAssign in expressions.go on const reassignment
}

// Environment is a stack of scopes, each mapping name to bound symbol.
// Scopes are pushed/popped at: program start, each block, each
// function/method body, each for header, and each class body.
type Environment struct {
	scopes []map[string]*Symbol
}

// NewEnvironment creates an Environment with a single (global) scope.
func NewEnvironment() *Environment {
	return &Environment{scopes: []map[string]*Symbol{{}}}
}

// Push opens a new innermost scope.
func (e *Environment) Push() {
	e.scopes = append(e.scopes, map[string]*Symbol{})
}

// Pop closes the innermost scope.
func (e *Environment) Pop() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Depth reports the current scope-stack depth, for the invariant that it
// returns to its pre-traversal value after every closed scope.
func (e *Environment) Depth() int {
	return len(e.scopes)
}

// Define writes a binding into the innermost scope, shadowing any outer
// binding of the same name silently.
func (e *Environment) Define(name string, sym *Symbol) {
	e.scopes[len(e.scopes)-1][name] = sym
}

// Resolve searches innermost-outermost for name.
func (e *Environment) Resolve(name string) (*Symbol, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if sym, ok := e.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// DefineGlobal writes directly into the outermost (global) scope,
// regardless of current nesting — used by the hoisting first pass.
func (e *Environment) DefineGlobal(name string, sym *Symbol) {
	e.scopes[0][name] = sym
}
