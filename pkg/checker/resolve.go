package checker

import (
	"tsforge/pkg/parser"
	"tsforge/pkg/types"
)

// resolveType turns a parsed TypeAnnotation into a semantic types.Type.
// An unresolved identifier (unknown type name) yields any and a
// diagnostic, matching the "unknown identifiers type as any" failure
// model used throughout the analyzer.
func (c *Checker) resolveType(ann parser.TypeAnnotation) types.Type {
	if ann == nil {
		return types.Any
	}

	switch t := ann.(type) {
	case *parser.IdentifierType:
		return c.resolveIdentifierType(t)
	case *parser.ArrayType:
		return types.Array{Element: c.resolveType(t.Element)}
	case *parser.FunctionType:
		return types.Function{Params: c.resolveParams(t.Params), Return: c.resolveType(t.ReturnType)}
	case *parser.ObjectType:
		props := make([]types.ObjectProp, len(t.Properties))
		for i, p := range t.Properties {
			props[i] = types.ObjectProp{Name: p.Name, Type: c.resolveType(p.Type), Optional: p.Optional}
		}
		return types.Object{Props: props}
	case *parser.UnionType:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveType(m)
		}
		return types.Union{Members: members}
	case *parser.IntersectionType:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveType(m)
		}
		return types.Intersection{Members: members}
	}

	return types.Any
}

func (c *Checker) resolveIdentifierType(t *parser.IdentifierType) types.Type {
	switch t.Name {
	case "number":
		return types.Number
	case "string":
		return types.String
	case "boolean":
		return types.Boolean
	case "any":
		return types.Any
	case "void":
		return types.Void
	case "undefined":
		return types.Undefined
	case "null":
		return types.Null
	case "Array":
		if len(t.TypeArgs) == 1 {
			return types.Array{Element: c.resolveType(t.TypeArgs[0])}
		}
		return types.Array{Element: types.Any}
	}

	if sym, ok := c.env.Resolve(t.Name); ok {
		switch sym.Kind {
		case ClassSymbol, InterfaceSymbol, BuiltinTypeSymbol:
			return sym.Type
		}
	}

	c.reportPos(t.Position(), "Unknown type name '%s'", t.Name)
	return types.Any
}

func (c *Checker) resolveParams(params []parser.Parameter) []types.Param {
	out := make([]types.Param, len(params))
	for i, p := range params {
		out[i] = types.Param{Name: p.Name, Type: c.resolveType(p.Type)}
	}
	return out
}
