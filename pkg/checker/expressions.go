package checker

import (
	"tsforge/pkg/parser"
	"tsforge/pkg/types"
)

// inferExpr infers (or validates against) a type for expr, stores the
// result on the node via SetExprType, and returns it. Every failure path
// reports a diagnostic and falls back to any so the caller keeps making
// forward progress.
func (c *Checker) inferExpr(expr parser.Expression) types.Type {
	t := c.inferExprUncached(expr)
	expr.SetExprType(t)
	return t
}

func (c *Checker) inferExprUncached(expr parser.Expression) types.Type {
	switch e := expr.(type) {
	case *parser.Literal:
		return c.inferLiteral(e)
	case *parser.Identifier:
		return c.inferIdentifier(e)
	case *parser.ThisExpr:
		if sym, ok := c.env.Resolve("this"); ok {
			return sym.Type
		}
		return types.Any
	case *parser.BinaryExpr:
		return c.inferBinary(e)
	case *parser.UnaryExpr:
		return c.inferUnary(e)
	case *parser.AssignExpr:
		return c.inferAssign(e)
	case *parser.CallExpr:
		return c.inferCall(e)
	case *parser.MemberExpr:
		return c.inferMember(e)
	case *parser.IndexExpr:
		return c.inferIndex(e)
	case *parser.ConditionalExpr:
		return c.inferConditional(e)
	case *parser.ObjectLiteral:
		return c.inferObjectLiteral(e)
	case *parser.ArrayLiteral:
		return c.inferArrayLiteral(e)
	case *parser.NewExpr:
		return c.inferNew(e)
	case *parser.FunctionExpr:
		return c.inferFunctionExpr(e)
	}
	return types.Any
}

func (c *Checker) inferLiteral(lit *parser.Literal) types.Type {
	switch lit.Kind {
	case parser.NumberLiteral:
		return types.Number
	case parser.StringLiteral:
		return types.String
	case parser.BooleanLiteral:
		return types.Boolean
	case parser.NullLiteral:
		return types.Null
	case parser.UndefinedLiteral:
		return types.Undefined
	}
	return types.Any
}

func (c *Checker) inferIdentifier(id *parser.Identifier) types.Type {
	sym, ok := c.env.Resolve(id.Name)
	if !ok {
		c.reportPos(id.Position(), "Unknown identifier '%s'", id.Name)
		return types.Any
	}
	return sym.Type
}

func (c *Checker) inferBinary(e *parser.BinaryExpr) types.Type {
	left := c.inferExpr(e.Left)
	right := c.inferExpr(e.Right)

	switch e.Operator {
	case "+":
		if isStringish(left) || isStringish(right) {
			return types.String
		}
		c.checkNumericOperand(e.Left, left)
		c.checkNumericOperand(e.Right, right)
		return types.Number
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		c.checkNumericOperand(e.Left, left)
		c.checkNumericOperand(e.Right, right)
		return types.Number
	case "==", "!=", "===", "!==", ">", "<", ">=", "<=":
		return types.Boolean
	case "&&", "||":
		if !types.IsBooleanish(left) {
			c.reportPos(e.Left.Position(), "Operand of '%s' must be of type 'boolean', got '%s'", e.Operator, left)
		}
		if !types.IsBooleanish(right) {
			c.reportPos(e.Right.Position(), "Operand of '%s' must be of type 'boolean', got '%s'", e.Operator, right)
		}
		return types.Boolean
	}
	return types.Any
}

func isStringish(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p.Name == types.String.Name
}

func (c *Checker) checkNumericOperand(expr parser.Expression, t types.Type) {
	if !types.IsNumeric(t) {
		c.reportPos(expr.Position(), "Operand must be of type 'number', got '%s'", t)
	}
}

func (c *Checker) inferUnary(e *parser.UnaryExpr) types.Type {
	operandType := c.inferExpr(e.Operand)
	switch e.Operator {
	case "!":
		return types.Boolean
	case "typeof":
		return types.String
	case "-", "+", "++", "--":
		c.checkNumericOperand(e.Operand, operandType)
		return types.Number
	case "~":
		c.checkNumericOperand(e.Operand, operandType)
		return types.Number
	}
	return types.Any
}

func (c *Checker) inferAssign(e *parser.AssignExpr) types.Type {
	targetType := c.inferExpr(e.Target)
	valueType := c.inferExpr(e.Value)

	if id, ok := e.Target.(*parser.Identifier); ok {
		if sym, ok := c.env.Resolve(id.Name); ok && sym.Const {
			// const reassignment: intentionally not diagnosed, matching
			// the documented source behavior (see the design ledger).
			_ = sym
		}
	}

	if e.Operator == "=" {
		if !types.IsAssignable(valueType, targetType, c.isTypeScript) {
			c.reportPos(e.Value.Position(), "Type '%s' is not assignable to type '%s'", valueType, targetType)
		}
		return targetType
	}

	// Compound assignment: same operand rules as the corresponding binary
	// operator, excluding string concatenation for anything but '+='.
	if e.Operator == "+=" && (isStringish(targetType) || isStringish(valueType)) {
		return types.String
	}
	c.checkNumericOperand(e.Target, targetType)
	c.checkNumericOperand(e.Value, valueType)
	return types.Number
}

func (c *Checker) inferCall(e *parser.CallExpr) types.Type {
	calleeType := c.inferExpr(e.Callee)
	argTypes := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.inferExpr(a)
	}

	if types.IsAny(calleeType) {
		return types.Any
	}

	fn, ok := calleeType.(types.Function)
	if !ok {
		c.reportPos(e.Callee.Position(), "Type '%s' is not callable", calleeType)
		return types.Any
	}

	if len(e.Args) != len(fn.Params) {
		c.reportPos(e.Position(), "Expected %d arguments, but got %d", len(fn.Params), len(e.Args))
	} else {
		for i, param := range fn.Params {
			if !types.IsAssignable(argTypes[i], param.Type, c.isTypeScript) {
				c.reportPos(e.Args[i].Position(), "Argument of type '%s' is not assignable to parameter of type '%s'", argTypes[i], param.Type)
			}
		}
	}

	return fn.Return
}

func (c *Checker) inferMember(e *parser.MemberExpr) types.Type {
	objType := c.inferExpr(e.Object)
	if types.IsAny(objType) {
		return types.Any
	}

	shape, ok := shapeOfPublic(objType)
	if !ok {
		c.reportPos(e.Position(), "Type '%s' has no accessible properties", objType)
		return types.Any
	}
	prop, found := shape.Lookup(e.Property)
	if !found {
		c.reportPos(e.Position(), "Property '%s' does not exist on type '%s'", e.Property, objType)
		return types.Any
	}
	return prop.Type
}

func shapeOfPublic(t types.Type) (types.Object, bool) {
	switch v := t.(type) {
	case types.Object:
		return v, true
	case types.Named:
		return v.Shape, true
	}
	return types.Object{}, false
}

func (c *Checker) inferIndex(e *parser.IndexExpr) types.Type {
	objType := c.inferExpr(e.Object)
	c.inferExpr(e.Index)

	if types.IsAny(objType) {
		return types.Any
	}
	if arr, ok := objType.(types.Array); ok {
		return arr.Element
	}
	return types.Any
}

func (c *Checker) inferConditional(e *parser.ConditionalExpr) types.Type {
	condType := c.inferExpr(e.Condition)
	if !types.IsBooleanish(condType) {
		c.reportPos(e.Condition.Position(), "Condition must be of type 'boolean', got '%s'", condType)
	}

	thenType := c.inferExpr(e.Then)
	elseType := c.inferExpr(e.Else)

	if types.IsAssignable(thenType, elseType, c.isTypeScript) {
		return elseType
	}
	if types.IsAssignable(elseType, thenType, c.isTypeScript) {
		return thenType
	}
	if c.isTypeScript {
		return types.Union{Members: []types.Type{thenType, elseType}}
	}
	return types.Any
}

func (c *Checker) inferObjectLiteral(e *parser.ObjectLiteral) types.Type {
	props := make([]types.ObjectProp, 0, len(e.Properties))
	for _, p := range e.Properties {
		props = append(props, types.ObjectProp{Name: p.Key, Type: c.inferExpr(p.Value)})
	}
	return types.Object{Props: props}
}

func (c *Checker) inferArrayLiteral(e *parser.ArrayLiteral) types.Type {
	if len(e.Elements) == 0 {
		return types.Array{Element: types.Any}
	}
	elemType := c.inferExpr(e.Elements[0])
	for _, el := range e.Elements[1:] {
		t := c.inferExpr(el)
		if !types.IsAssignable(t, elemType, c.isTypeScript) && !types.IsAssignable(elemType, t, c.isTypeScript) {
			elemType = types.Any
		}
	}
	return types.Array{Element: elemType}
}

func (c *Checker) inferNew(e *parser.NewExpr) types.Type {
	for _, a := range e.Args {
		c.inferExpr(a)
	}
	if id, ok := e.Callee.(*parser.Identifier); ok {
		if sym, ok := c.env.Resolve(id.Name); ok {
			return sym.Type
		}
		c.reportPos(e.Position(), "Unknown identifier '%s'", id.Name)
		return types.Any
	}
	return c.inferExpr(e.Callee)
}

func (c *Checker) inferFunctionExpr(e *parser.FunctionExpr) types.Type {
	c.env.Push()
	defer c.env.Pop()

	for _, p := range e.Params {
		if c.isTypeScript && p.Type == nil {
			c.reportPos(p.Pos, "Parameter '%s' has no type annotation", p.Name)
		}
		c.env.Define(p.Name, &Symbol{Name: p.Name, Kind: ParameterSymbol, Type: c.resolveType(p.Type)})
	}

	retType := c.resolveType(e.ReturnType)
	c.returnTypeStack = append(c.returnTypeStack, retType)
	c.checkBlockBody(e.Body)
	c.returnTypeStack = c.returnTypeStack[:len(c.returnTypeStack)-1]

	return types.Function{Params: c.resolveParams(e.Params), Return: retType}
}
