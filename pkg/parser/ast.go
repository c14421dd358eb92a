package parser

import "tsforge/pkg/types"

// Pos is the (line, column) of a node's first token, 1-based. It flows
// into diagnostics verbatim.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// base embeds into every node to satisfy Node without repeating the field.
type base struct {
	Pos Pos
}

func (b base) Position() Pos { return b.Pos }

// Program is the AST root. IsModule is set when any import/export keyword
// token appeared anywhere in the token stream.
type Program struct {
	base
	Statements []Statement
	IsModule   bool
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Statement is implemented by every statement node.
type Statement interface {
	Node
	stmtNode()
}

type BlockStmt struct {
	base
	Statements []Statement
}

func (*BlockStmt) stmtNode() {}

type VarDeclStmt struct {
	base
	Name        string
	Kind        string // "let", "const", "var"
	Type        TypeAnnotation
	Initializer Expression
}

func (*VarDeclStmt) stmtNode() {}

type FunctionDeclStmt struct {
	base
	Name       string
	Params     []Parameter
	ReturnType TypeAnnotation
	Body       *BlockStmt
}

func (*FunctionDeclStmt) stmtNode() {}

type ClassDeclStmt struct {
	base
	Name       string
	Superclass string // "" if none
	Interfaces []string
	Properties []*Property
	Methods    []*Method
}

func (*ClassDeclStmt) stmtNode() {}

type InterfaceDeclStmt struct {
	base
	Name       string
	Extends    []string
	Properties []*Property
	Methods    []*Method
}

func (*InterfaceDeclStmt) stmtNode() {}

type ExpressionStmt struct {
	base
	Expr Expression
}

func (*ExpressionStmt) stmtNode() {}

type ReturnStmt struct {
	base
	Value Expression // nil if bare "return;"
}

func (*ReturnStmt) stmtNode() {}

type IfStmt struct {
	base
	Condition Expression
	Then      Statement
	Else      Statement // nil if no else
}

func (*IfStmt) stmtNode() {}

type WhileStmt struct {
	base
	Condition Expression
	Body      Statement
}

func (*WhileStmt) stmtNode() {}

type ForStmt struct {
	base
	Init      Statement // *VarDeclStmt or *ExpressionStmt or nil
	Condition Expression
	Update    Expression
	Body      Statement
}

func (*ForStmt) stmtNode() {}

// ImportSpecifier is one named binding of an import clause: "a" or "a as b".
type ImportSpecifier struct {
	Name  string
	Alias string // "" if no "as"
}

type ImportStmt struct {
	base
	Default    string // "" if no default binding
	Namespace  string // "" if no "* as ns" binding
	Named      []ImportSpecifier
	ModulePath string
}

func (*ImportStmt) stmtNode() {}

// ExportSpecifier is one named binding of an export clause: "a" or "a as b".
type ExportSpecifier struct {
	Name  string
	Alias string
}

type ExportStmt struct {
	base
	Default    Expression // non-nil for "export default <expr>;"
	Named      []ExportSpecifier
	Decl       Statement // non-nil for "export <declaration>"
	ModulePath string    // "" unless a re-export "from" clause is present
}

func (*ExportStmt) stmtNode() {}

type EmptyStmt struct {
	base
}

func (*EmptyStmt) stmtNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expression is implemented by every expression node. Every expression
// carries an optional inferred/annotated type, filled in by the semantic
// analyzer and left nil until then.
type Expression interface {
	Node
	exprNode()
	ExprType() types.Type
	SetExprType(types.Type)
}

type exprBase struct {
	base
	inferred types.Type
}

func (e *exprBase) ExprType() types.Type       { return e.inferred }
func (e *exprBase) SetExprType(t types.Type)   { e.inferred = t }

type BinaryExpr struct {
	exprBase
	Left     Expression
	Operator string
	Right    Expression
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr covers both prefix (!x, -x, ++x) and postfix (x++, x--) forms.
type UnaryExpr struct {
	exprBase
	Operator string
	Operand  Expression
	Postfix  bool
}

func (*UnaryExpr) exprNode() {}

type CallExpr struct {
	exprBase
	Callee Expression
	Args   []Expression
}

func (*CallExpr) exprNode() {}

type MemberExpr struct {
	exprBase
	Object   Expression
	Property string
	Optional bool // true for ?.
}

func (*MemberExpr) exprNode() {}

type IndexExpr struct {
	exprBase
	Object Expression
	Index  Expression
}

func (*IndexExpr) exprNode() {}

// AssignExpr's Target must be an Identifier, MemberExpr, or IndexExpr;
// the parser enforces this at construction time and reports a diagnostic
// otherwise. Compound-assignment operators (+=, -=, ...) are stored here,
// never as a BinaryExpr operator.
type AssignExpr struct {
	exprBase
	Target   Expression
	Operator string // "=", "+=", "-=", "*=", "/=", "%="
	Value    Expression
}

func (*AssignExpr) exprNode() {}

// LiteralKind classifies a Literal expression's underlying value shape.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
	NullLiteral
	UndefinedLiteral
)

type Literal struct {
	exprBase
	Kind  LiteralKind
	Value string // raw text; caller interprets per Kind
}

func (*Literal) exprNode() {}

type Identifier struct {
	exprBase
	Name string
}

func (*Identifier) exprNode() {}

type ObjectProperty struct {
	Key   string
	Value Expression
}

type ObjectLiteral struct {
	exprBase
	Properties []ObjectProperty
}

func (*ObjectLiteral) exprNode() {}

type ArrayLiteral struct {
	exprBase
	Elements []Expression
}

func (*ArrayLiteral) exprNode() {}

type NewExpr struct {
	exprBase
	Callee Expression // the call-level expression naming the constructor
	Args   []Expression
}

func (*NewExpr) exprNode() {}

type FunctionExpr struct {
	exprBase
	Name       string // "" for anonymous
	Params     []Parameter
	ReturnType TypeAnnotation
	Body       *BlockStmt
}

func (*FunctionExpr) exprNode() {}

type ConditionalExpr struct {
	exprBase
	Condition Expression
	Then      Expression
	Else      Expression
}

func (*ConditionalExpr) exprNode() {}

type ThisExpr struct {
	exprBase
}

func (*ThisExpr) exprNode() {}

// ---------------------------------------------------------------------
// TypeAnnotation
// ---------------------------------------------------------------------

// TypeAnnotation is implemented by every parsed type-annotation node.
// These are syntax, not the semantic Type lattice in pkg/types — the
// checker resolves a TypeAnnotation into a types.Type.
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

type IdentifierType struct {
	base
	Name string
	// TypeArgs holds generic arguments for Array<T>-style and other
	// generic-identifier annotations; empty for a plain identifier.
	TypeArgs []TypeAnnotation
}

func (*IdentifierType) typeAnnotationNode() {}

type ArrayType struct {
	base
	Element TypeAnnotation
}

func (*ArrayType) typeAnnotationNode() {}

type FunctionType struct {
	base
	Params     []Parameter
	ReturnType TypeAnnotation
}

func (*FunctionType) typeAnnotationNode() {}

type ObjectTypeProperty struct {
	Name     string
	Type     TypeAnnotation
	Optional bool
}

type ObjectType struct {
	base
	Properties []ObjectTypeProperty
}

func (*ObjectType) typeAnnotationNode() {}

type UnionType struct {
	base
	Members []TypeAnnotation
}

func (*UnionType) typeAnnotationNode() {}

type IntersectionType struct {
	base
	Members []TypeAnnotation
}

func (*IntersectionType) typeAnnotationNode() {}

// ---------------------------------------------------------------------
// Member / Parameter structures
// ---------------------------------------------------------------------

type Parameter struct {
	Pos  Pos
	Name string
	Type TypeAnnotation // nil if unannotated
}

// AccessModifier is a class/interface member's visibility.
type AccessModifier int

const (
	Public AccessModifier = iota
	Private
	Protected
)

type Property struct {
	Pos         Pos
	Name        string
	Type        TypeAnnotation // nil if unannotated
	Initializer Expression     // nil if absent
	Access      AccessModifier
	Static      bool
	Readonly    bool
	Optional    bool // interface property signature: "name?: T"
}

type Method struct {
	Pos        Pos
	Name       string
	Params     []Parameter
	ReturnType TypeAnnotation // nil if unannotated; required in interfaces
	Body       *BlockStmt     // nil for interface method signatures
	Access     AccessModifier
	Static     bool
}
