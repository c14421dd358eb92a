package checker

import (
	"tsforge/pkg/parser"
	"tsforge/pkg/types"
)

func (c *Checker) checkStmt(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		c.env.Push()
		c.checkBlockBody(s)
		c.env.Pop()
	case *parser.VarDeclStmt:
		c.checkVarDecl(s)
	case *parser.FunctionDeclStmt:
		c.checkFunctionDecl(s)
	case *parser.ClassDeclStmt:
		c.checkClassDecl(s)
	case *parser.InterfaceDeclStmt:
		c.checkInterfaceDecl(s)
	case *parser.ExpressionStmt:
		c.inferExpr(s.Expr)
	case *parser.ReturnStmt:
		c.checkReturn(s)
	case *parser.IfStmt:
		c.checkIf(s)
	case *parser.WhileStmt:
		c.checkWhile(s)
	case *parser.ForStmt:
		c.checkFor(s)
	case *parser.ImportStmt, *parser.ExportStmt, *parser.EmptyStmt:
		// No symbols to resolve: module linking is out of scope, and the
		// generator emits these as comments.
	}
}

// checkBlockBody walks a block's statements in the caller's already-pushed
// scope; it does not push its own, so callers that need a fresh scope for
// the block itself (e.g. a bare BlockStmt) push/pop around the call, while
// callers that already pushed a scope for a larger construct (a function
// body, a for-loop body) can reuse it directly.
func (c *Checker) checkBlockBody(blk *parser.BlockStmt) {
	for _, stmt := range blk.Statements {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkVarDecl(s *parser.VarDeclStmt) {
	var declaredType types.Type
	if s.Type != nil {
		declaredType = c.resolveType(s.Type)
	}

	if c.isTypeScript && s.Type == nil && s.Initializer == nil {
		c.reportPos(s.Position(), "Variable '%s' has no type annotation and is not initialized", s.Name)
	}

	var finalType types.Type
	switch {
	case s.Initializer != nil:
		initType := c.inferExpr(s.Initializer)
		if declaredType != nil {
			if !types.IsAssignable(initType, declaredType, c.isTypeScript) {
				c.reportPos(s.Initializer.Position(), "Type '%s' is not assignable to type '%s'", initType, declaredType)
			}
			finalType = declaredType
		} else if s.Kind == "var" {
			finalType = initType
		} else {
			finalType = initType
		}
	case declaredType != nil:
		finalType = declaredType
	default:
		finalType = types.Any
	}

	sym := &Symbol{Name: s.Name, Kind: VariableSymbol, Type: finalType, Const: s.Kind == "const"}
	// Top-level declarations were already hoisted into the global scope;
	// redefining here (at whatever depth we're actually at) keeps nested
	// declarations working and refreshes the hoisted entry with the now
	// fully-inferred type.
	c.env.Define(s.Name, sym)
}

func (c *Checker) checkFunctionDecl(s *parser.FunctionDeclStmt) {
	c.env.Push()
	defer c.env.Pop()

	for _, p := range s.Params {
		if c.isTypeScript && p.Type == nil {
			c.reportPos(p.Pos, "Parameter '%s' has no type annotation", p.Name)
		}
		c.env.Define(p.Name, &Symbol{Name: p.Name, Kind: ParameterSymbol, Type: c.resolveType(p.Type)})
	}

	retType := c.resolveType(s.ReturnType)
	c.returnTypeStack = append(c.returnTypeStack, retType)
	c.checkBlockBody(s.Body)
	c.returnTypeStack = c.returnTypeStack[:len(c.returnTypeStack)-1]
}

func (c *Checker) checkReturn(s *parser.ReturnStmt) {
	retType, inFunction := c.currentReturnType()
	if !inFunction {
		c.reportPos(s.Position(), "Return statement outside of any function")
		if s.Value != nil {
			c.inferExpr(s.Value)
		}
		return
	}

	if s.Value == nil {
		if retType != nil && !isVoidOrAny(retType) {
			c.reportPos(s.Position(), "A function whose declared type is not 'void' must return a value")
		}
		return
	}

	valueType := c.inferExpr(s.Value)
	if retType == nil {
		return
	}
	if p, ok := retType.(types.Primitive); ok && p.Name == types.Void.Name {
		c.reportPos(s.Value.Position(), "Type '%s' is not assignable to type 'void'", valueType)
		return
	}
	if !types.IsAssignable(valueType, retType, c.isTypeScript) {
		c.reportPos(s.Value.Position(), "Type '%s' is not assignable to type '%s'", valueType, retType)
	}
}

func isVoidOrAny(t types.Type) bool {
	if types.IsAny(t) {
		return true
	}
	p, ok := t.(types.Primitive)
	return ok && p.Name == types.Void.Name
}

func (c *Checker) checkIf(s *parser.IfStmt) {
	condType := c.inferExpr(s.Condition)
	if !types.IsBooleanish(condType) {
		c.reportPos(s.Condition.Position(), "Condition must be of type 'boolean', got '%s'", condType)
	}
	c.checkStmt(s.Then)
	if s.Else != nil {
		c.checkStmt(s.Else)
	}
}

func (c *Checker) checkWhile(s *parser.WhileStmt) {
	condType := c.inferExpr(s.Condition)
	if !types.IsBooleanish(condType) {
		c.reportPos(s.Condition.Position(), "Condition must be of type 'boolean', got '%s'", condType)
	}
	c.checkStmt(s.Body)
}

func (c *Checker) checkFor(s *parser.ForStmt) {
	c.env.Push()
	defer c.env.Pop()

	if s.Init != nil {
		c.checkStmt(s.Init)
	}
	if s.Condition != nil {
		condType := c.inferExpr(s.Condition)
		if !types.IsBooleanish(condType) {
			c.reportPos(s.Condition.Position(), "Condition must be of type 'boolean', got '%s'", condType)
		}
	}
	if s.Update != nil {
		c.inferExpr(s.Update)
	}
	c.checkStmt(s.Body)
}
