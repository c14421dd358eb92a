package checker

import (
	"tsforge/pkg/parser"
	"tsforge/pkg/types"
)

// classShape computes the structural Object shape backing a class
// declaration's Named type, from its own properties and methods (not
// including inherited members — structural assignability is checked
// against each declared shape independently).
func (c *Checker) classShape(decl *parser.ClassDeclStmt) types.Object {
	var props []types.ObjectProp
	for _, p := range decl.Properties {
		if p.Static {
			continue
		}
		props = append(props, types.ObjectProp{Name: p.Name, Type: c.resolveType(p.Type)})
	}
	for _, m := range decl.Methods {
		if m.Static {
			continue
		}
		props = append(props, types.ObjectProp{
			Name: m.Name,
			Type: types.Function{Params: c.resolveParams(m.Params), Return: c.resolveType(m.ReturnType)},
		})
	}
	return types.Object{Props: props}
}

func (c *Checker) interfaceShape(decl *parser.InterfaceDeclStmt) types.Object {
	var props []types.ObjectProp
	for _, p := range decl.Properties {
		props = append(props, types.ObjectProp{Name: p.Name, Type: c.resolveType(p.Type), Optional: p.Optional})
	}
	for _, m := range decl.Methods {
		props = append(props, types.ObjectProp{
			Name: m.Name,
			Type: types.Function{Params: c.resolveParams(m.Params), Return: c.resolveType(m.ReturnType)},
		})
	}
	return types.Object{Props: props}
}

// checkClassDecl resolves the superclass and implemented interfaces,
// type-checks property initializers against their annotations, and
// checks each method body in a new scope with `this` and parameters
// bound.
func (c *Checker) checkClassDecl(decl *parser.ClassDeclStmt) {
	c.env.Push()
	defer c.env.Pop()

	if decl.Superclass != "" {
		sym, ok := c.env.Resolve(decl.Superclass)
		if !ok {
			c.reportPos(decl.Position(), "Unknown superclass '%s'", decl.Superclass)
		} else if sym.Kind != ClassSymbol {
			c.reportPos(decl.Position(), "'%s' is not a class and cannot be extended", decl.Superclass)
		}
	}
	for _, ifaceName := range decl.Interfaces {
		sym, ok := c.env.Resolve(ifaceName)
		if !ok {
			c.reportPos(decl.Position(), "Unknown interface '%s'", ifaceName)
		} else if sym.Kind != InterfaceSymbol {
			c.reportPos(decl.Position(), "'%s' is not an interface and cannot be implemented", ifaceName)
		}
	}

	selfType := types.Named{Name: decl.Name, Kind: types.ClassKind, Shape: c.classShape(decl)}

	for _, p := range decl.Properties {
		if p.Initializer == nil {
			continue
		}
		initType := c.inferExpr(p.Initializer)
		if p.Type != nil {
			declared := c.resolveType(p.Type)
			if !types.IsAssignable(initType, declared, c.isTypeScript) {
				c.reportPos(p.Initializer.Position(), "Type '%s' is not assignable to type '%s'", initType, declared)
			}
		}
	}

	for _, m := range decl.Methods {
		c.checkMethodBody(m, selfType)
	}
}

func (c *Checker) checkMethodBody(m *parser.Method, selfType types.Type) {
	c.env.Push()
	defer c.env.Pop()

	c.env.Define("this", &Symbol{Name: "this", Kind: VariableSymbol, Type: selfType})

	for _, p := range m.Params {
		if c.isTypeScript && p.Type == nil {
			c.reportPos(p.Pos, "Parameter '%s' has no type annotation", p.Name)
		}
		c.env.Define(p.Name, &Symbol{Name: p.Name, Kind: ParameterSymbol, Type: c.resolveType(p.Type)})
	}

	retType := c.resolveType(m.ReturnType)
	c.returnTypeStack = append(c.returnTypeStack, retType)
	if m.Body != nil {
		c.checkBlockBody(m.Body)
	}
	c.returnTypeStack = c.returnTypeStack[:len(c.returnTypeStack)-1]
}

// checkInterfaceDecl resolves the extends list and checks that every
// member's annotation is well-formed (resolvable).
func (c *Checker) checkInterfaceDecl(decl *parser.InterfaceDeclStmt) {
	for _, name := range decl.Extends {
		sym, ok := c.env.Resolve(name)
		if !ok {
			c.reportPos(decl.Position(), "Unknown extended interface '%s'", name)
		} else if sym.Kind != InterfaceSymbol {
			c.reportPos(decl.Position(), "'%s' is not an interface", name)
		}
	}
	for _, p := range decl.Properties {
		c.resolveType(p.Type)
	}
	for _, m := range decl.Methods {
		c.resolveParams(m.Params)
		c.resolveType(m.ReturnType)
	}
}
