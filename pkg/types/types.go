// Package types implements the semantic type lattice used by the checker:
// primitives, arrays, object shapes, function signatures, unions,
// intersections, and named class/interface types, plus the assignability
// relation between them.
package types

import "strings"

// Type is implemented by every semantic type. Types are immutable once
// constructed and safe to share by pointer or value across the AST's
// side-channel attribute (Expression.SetExprType).
type Type interface {
	String() string
	typeNode()
}

// Primitive covers the built-in scalar and sentinel kinds.
type Primitive struct {
	Name string // "number", "string", "boolean", "any", "void", "null", "undefined"
}

func (p Primitive) String() string { return p.Name }
func (Primitive) typeNode()        {}

var (
	Any       = Primitive{Name: "any"}
	Void      = Primitive{Name: "void"}
	Number    = Primitive{Name: "number"}
	String    = Primitive{Name: "string"}
	Boolean   = Primitive{Name: "boolean"}
	Null      = Primitive{Name: "null"}
	Undefined = Primitive{Name: "undefined"}
)

// IsAny reports whether t is the any type.
func IsAny(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.Name == Any.Name
}

// IsNumeric reports whether t is number or any — the operand class accepted
// by arithmetic, bitwise, and shift operators.
func IsNumeric(t Type) bool {
	if IsAny(t) {
		return true
	}
	p, ok := t.(Primitive)
	return ok && p.Name == Number.Name
}

// IsBooleanish reports whether t is boolean or any.
func IsBooleanish(t Type) bool {
	if IsAny(t) {
		return true
	}
	p, ok := t.(Primitive)
	return ok && p.Name == Boolean.Name
}

// Array is the type of a homogeneous array literal or annotation.
type Array struct {
	Element Type
}

func (a Array) String() string { return a.Element.String() + "[]" }
func (Array) typeNode()        {}

// Param is one parameter slot of a Function type.
type Param struct {
	Name string
	Type Type
}

// Function is a callable signature: params in order, plus return type.
// Two Function types compare by arity, contravariant parameters, and
// covariant return (see IsAssignable).
type Function struct {
	Params []Param
	Return Type
}

func (f Function) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	b.WriteString(") => ")
	b.WriteString(f.Return.String())
	return b.String()
}
func (Function) typeNode() {}

// ObjectProp is one property of an Object type.
type ObjectProp struct {
	Name     string
	Type     Type
	Optional bool
}

// Object is a structural object type: an unordered bag of named,
// optionally-optional properties compared by structure, not identity.
type Object struct {
	Props []ObjectProp
}

func (o Object) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range o.Props {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.Name)
		if p.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}
func (Object) typeNode() {}

// Lookup returns the named property and true, or the zero value and false.
func (o Object) Lookup(name string) (ObjectProp, bool) {
	for _, p := range o.Props {
		if p.Name == name {
			return p, true
		}
	}
	return ObjectProp{}, false
}

// Union is a type formed from `|`; assignable to iff assignable to any
// member; a value is a member of it iff assignable to it.
type Union struct {
	Members []Type
}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (Union) typeNode() {}

// Intersection is a type formed from `&`; a source intersection is
// assignable to a target iff every member is assignable to the target.
type Intersection struct {
	Members []Type
}

func (i Intersection) String() string {
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		parts[idx] = m.String()
	}
	return strings.Join(parts, " & ")
}
func (Intersection) typeNode() {}

// Named identifies a class or interface by declaration name. Two Named
// values with the same Name and Kind refer to the same declaration.
type Named struct {
	Name string
	Kind NamedKind
	// Shape is the structural shape backing this class/interface, used
	// for structural assignability checks against object/other Named
	// types.
	Shape Object
}

type NamedKind int

const (
	ClassKind NamedKind = iota
	InterfaceKind
)

func (n Named) String() string { return n.Name }
func (Named) typeNode()        {}
