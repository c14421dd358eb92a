package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Emitter walks a Program and renders it as JavaScript text: all type
// annotations are erased, interfaces become comments, and a default
// constructor is synthesized for classes that declare none.
type Emitter struct {
	b     strings.Builder
	depth int
}

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit renders prog to a JavaScript string. Blank lines are inserted
// between every non-block top-level statement, per output-ordering rules.
func (em *Emitter) Emit(prog *Program) string {
	for i, stmt := range prog.Statements {
		em.writeIndent()
		em.emitStatement(stmt)
		if _, isBlock := stmt.(*BlockStmt); !isBlock && i < len(prog.Statements)-1 {
			em.b.WriteByte('\n')
		}
	}
	return em.b.String()
}

func (em *Emitter) writeIndent() {
	em.b.WriteString(strings.Repeat("  ", em.depth))
}

func (em *Emitter) emitStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *BlockStmt:
		em.emitBlock(s)
		em.b.WriteByte('\n')
	case *VarDeclStmt:
		em.b.WriteString(s.Kind)
		em.b.WriteByte(' ')
		em.b.WriteString(s.Name)
		if s.Initializer != nil {
			em.b.WriteString(" = ")
			em.emitExpression(s.Initializer)
		}
		em.b.WriteString(";\n")
	case *FunctionDeclStmt:
		em.emitFunctionDecl(s)
	case *ClassDeclStmt:
		em.emitClass(s)
	case *InterfaceDeclStmt:
		fmt.Fprintf(&em.b, "// Interface %s (not emitted in JavaScript)\n", s.Name)
	case *ExpressionStmt:
		em.emitExpression(s.Expr)
		em.b.WriteString(";\n")
	case *ReturnStmt:
		em.b.WriteString("return")
		if s.Value != nil {
			em.b.WriteByte(' ')
			em.emitExpression(s.Value)
		}
		em.b.WriteString(";\n")
	case *IfStmt:
		em.emitIf(s)
	case *WhileStmt:
		em.b.WriteString("while (")
		em.emitExpression(s.Condition)
		em.b.WriteString(") ")
		em.emitBodyStatement(s.Body)
	case *ForStmt:
		em.emitFor(s)
	case *ImportStmt:
		em.emitImportComment(s)
	case *ExportStmt:
		em.emitExportComment(s)
	case *EmptyStmt:
		em.b.WriteString(";\n")
	}
}

// emitBodyStatement emits a statement that is the body of a control-flow
// construct, taking care not to double-emit the trailing newline a block
// already produces.
func (em *Emitter) emitBodyStatement(stmt Statement) {
	if blk, ok := stmt.(*BlockStmt); ok {
		em.emitBlock(blk)
		em.b.WriteByte('\n')
		return
	}
	em.depth++
	em.b.WriteByte('\n')
	em.writeIndent()
	em.emitStatement(stmt)
	em.depth--
}

func (em *Emitter) emitBlock(blk *BlockStmt) {
	em.b.WriteString("{\n")
	em.depth++
	for _, s := range blk.Statements {
		em.writeIndent()
		em.emitStatement(s)
	}
	em.depth--
	em.writeIndent()
	em.b.WriteByte('}')
}

func (em *Emitter) emitFunctionDecl(s *FunctionDeclStmt) {
	em.b.WriteString("function ")
	em.b.WriteString(s.Name)
	em.emitParamList(s.Params)
	em.b.WriteString(" ")
	em.emitBlock(s.Body)
	em.b.WriteByte('\n')
}

func (em *Emitter) emitParamList(params []Parameter) {
	em.b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			em.b.WriteString(", ")
		}
		em.b.WriteString(p.Name)
	}
	em.b.WriteByte(')')
}

func (em *Emitter) emitIf(s *IfStmt) {
	em.b.WriteString("if (")
	em.emitExpression(s.Condition)
	em.b.WriteString(") ")
	if s.Else == nil {
		em.emitBodyStatement(s.Then)
		return
	}
	if blk, ok := s.Then.(*BlockStmt); ok {
		em.emitBlock(blk)
		em.b.WriteString(" else ")
	} else {
		em.depth++
		em.b.WriteByte('\n')
		em.writeIndent()
		em.emitStatement(s.Then)
		em.depth--
		em.writeIndent()
		em.b.WriteString("else ")
	}
	em.emitBodyStatement(s.Else)
}

func (em *Emitter) emitFor(s *ForStmt) {
	em.b.WriteString("for (")
	if s.Init != nil {
		em.emitForInit(s.Init)
	}
	em.b.WriteString("; ")
	if s.Condition != nil {
		em.emitExpression(s.Condition)
	}
	em.b.WriteString("; ")
	if s.Update != nil {
		em.emitExpression(s.Update)
	}
	em.b.WriteString(") ")
	em.emitBodyStatement(s.Body)
}

// emitForInit emits a for-header initializer inline: a variable
// declaration with no trailing ';' inside the header, or a bare
// expression.
func (em *Emitter) emitForInit(stmt Statement) {
	switch s := stmt.(type) {
	case *VarDeclStmt:
		em.b.WriteString(s.Kind)
		em.b.WriteByte(' ')
		em.b.WriteString(s.Name)
		if s.Initializer != nil {
			em.b.WriteString(" = ")
			em.emitExpression(s.Initializer)
		}
	case *ExpressionStmt:
		em.emitExpression(s.Expr)
	}
}

func (em *Emitter) emitImportComment(s *ImportStmt) {
	em.b.WriteString("// import ")
	var parts []string
	if s.Default != "" {
		parts = append(parts, s.Default)
	}
	if s.Namespace != "" {
		parts = append(parts, "* as "+s.Namespace)
	}
	if len(s.Named) > 0 {
		var named []string
		for _, spec := range s.Named {
			if spec.Alias != "" {
				named = append(named, spec.Name+" as "+spec.Alias+", ")
			} else {
				named = append(named, spec.Name+", ")
			}
		}
		parts = append(parts, "{ "+strings.Join(named, "")+"}")
	}
	em.b.WriteString(strings.Join(parts, ", "))
	fmt.Fprintf(&em.b, " from \"%s\"\n", s.ModulePath)
}

func (em *Emitter) emitExportComment(s *ExportStmt) {
	switch {
	case s.Default != nil:
		em.b.WriteString("// export default ")
		em.emitExpression(s.Default)
		em.b.WriteByte('\n')
	case s.Decl != nil:
		em.b.WriteString("// export\n")
		em.emitStatement(s.Decl)
	default:
		em.b.WriteString("// export { ")
		for _, spec := range s.Named {
			if spec.Alias != "" {
				fmt.Fprintf(&em.b, "%s as %s, ", spec.Name, spec.Alias)
			} else {
				fmt.Fprintf(&em.b, "%s, ", spec.Name)
			}
		}
		em.b.WriteString("}\n")
	}
}

// ---------------------------------------------------------------------
// Classes
// ---------------------------------------------------------------------

func (em *Emitter) emitClass(decl *ClassDeclStmt) {
	em.b.WriteString("class ")
	em.b.WriteString(decl.Name)
	if decl.Superclass != "" {
		em.b.WriteString(" extends ")
		em.b.WriteString(decl.Superclass)
	}
	em.b.WriteString(" {\n")
	em.depth++

	for _, prop := range decl.Properties {
		if !prop.Static {
			continue
		}
		em.writeIndent()
		em.b.WriteString("static ")
		em.b.WriteString(prop.Name)
		if prop.Initializer != nil {
			em.b.WriteString(" = ")
			em.emitExpression(prop.Initializer)
		}
		em.b.WriteString(";\n")
	}

	hasConstructor := false
	for _, m := range decl.Methods {
		if m.Name == "constructor" {
			hasConstructor = true
			break
		}
	}
	if !hasConstructor {
		em.emitSynthesizedConstructor(decl)
	}

	for _, m := range decl.Methods {
		em.writeIndent()
		if m.Static {
			em.b.WriteString("static ")
		}
		em.b.WriteString(m.Name)
		em.emitParamList(m.Params)
		em.b.WriteString(" ")
		em.emitBlock(m.Body)
		em.b.WriteByte('\n')
	}

	em.depth--
	em.b.WriteString("}\n")
}

// emitSynthesizedConstructor is only invoked when the class declares no
// method named "constructor". Instance property initializers are only
// injected here; a user-written constructor's body is left untouched (no
// initializer prepending), matching the source emitter's behavior.
func (em *Emitter) emitSynthesizedConstructor(decl *ClassDeclStmt) {
	var instanceInits []*Property
	for _, p := range decl.Properties {
		if !p.Static && p.Initializer != nil {
			instanceInits = append(instanceInits, p)
		}
	}

	em.writeIndent()
	em.b.WriteString("constructor() {\n")
	em.depth++
	if decl.Superclass != "" {
		em.writeIndent()
		em.b.WriteString("super();\n")
	}
	for _, p := range instanceInits {
		em.writeIndent()
		fmt.Fprintf(&em.b, "this.%s = ", p.Name)
		em.emitExpression(p.Initializer)
		em.b.WriteString(";\n")
	}
	em.depth--
	em.writeIndent()
	em.b.WriteString("}\n")
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

func (em *Emitter) emitExpression(expr Expression) {
	switch e := expr.(type) {
	case *Literal:
		em.emitLiteral(e)
	case *Identifier:
		em.b.WriteString(e.Name)
	case *ThisExpr:
		em.b.WriteString("this")
	case *BinaryExpr:
		em.b.WriteByte('(')
		em.emitExpression(e.Left)
		em.b.WriteByte(' ')
		em.b.WriteString(e.Operator)
		em.b.WriteByte(' ')
		em.emitExpression(e.Right)
		em.b.WriteByte(')')
	case *UnaryExpr:
		if e.Postfix {
			em.emitExpression(e.Operand)
			em.b.WriteString(e.Operator)
		} else {
			em.b.WriteString(e.Operator)
			em.emitExpression(e.Operand)
		}
	case *AssignExpr:
		em.emitExpression(e.Target)
		em.b.WriteByte(' ')
		em.b.WriteString(e.Operator)
		em.b.WriteByte(' ')
		em.emitExpression(e.Value)
	case *CallExpr:
		em.emitExpression(e.Callee)
		em.emitArgList(e.Args)
	case *MemberExpr:
		em.emitExpression(e.Object)
		if e.Optional {
			em.b.WriteString("?.")
		} else {
			em.b.WriteByte('.')
		}
		em.b.WriteString(e.Property)
	case *IndexExpr:
		em.emitExpression(e.Object)
		em.b.WriteByte('[')
		em.emitExpression(e.Index)
		em.b.WriteByte(']')
	case *ConditionalExpr:
		em.b.WriteByte('(')
		em.emitExpression(e.Condition)
		em.b.WriteString(" ? ")
		em.emitExpression(e.Then)
		em.b.WriteString(" : ")
		em.emitExpression(e.Else)
		em.b.WriteByte(')')
	case *ObjectLiteral:
		em.emitObjectLiteral(e)
	case *ArrayLiteral:
		em.emitArrayLiteral(e)
	case *NewExpr:
		em.b.WriteString("new ")
		em.emitExpression(e.Callee)
		em.emitArgList(e.Args)
	case *FunctionExpr:
		em.emitFunctionExpr(e)
	}
}

func (em *Emitter) emitArgList(args []Expression) {
	em.b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			em.b.WriteString(", ")
		}
		em.emitExpression(a)
	}
	em.b.WriteByte(')')
}

func (em *Emitter) emitFunctionExpr(e *FunctionExpr) {
	em.b.WriteString("function ")
	em.b.WriteString(e.Name)
	em.emitParamList(e.Params)
	em.b.WriteString(" ")
	em.emitBlock(e.Body)
}

func (em *Emitter) emitObjectLiteral(e *ObjectLiteral) {
	em.b.WriteString("{ ")
	for i, p := range e.Properties {
		if i > 0 {
			em.b.WriteString(", ")
		}
		em.b.WriteString(p.Key)
		em.b.WriteString(": ")
		em.emitExpression(p.Value)
	}
	em.b.WriteString(" }")
}

func (em *Emitter) emitArrayLiteral(e *ArrayLiteral) {
	em.b.WriteByte('[')
	for i, el := range e.Elements {
		if i > 0 {
			em.b.WriteString(", ")
		}
		em.emitExpression(el)
	}
	em.b.WriteByte(']')
}

func (em *Emitter) emitLiteral(lit *Literal) {
	switch lit.Kind {
	case StringLiteral:
		em.b.WriteByte('"')
		em.b.WriteString(escapeString(lit.Value))
		em.b.WriteByte('"')
	case NumberLiteral:
		em.b.WriteString(formatNumber(lit.Value))
	case BooleanLiteral, NullLiteral, UndefinedLiteral:
		em.b.WriteString(lit.Value)
	}
}

func escapeString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

func formatNumber(lexeme string) string {
	v := parseNumberLiteral(lexeme)
	return strconv.FormatFloat(v, 'g', -1, 64)
}
