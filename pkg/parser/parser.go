// Package parser implements the second pipeline stage: recursive-descent
// parsing of a token stream into an AST, with panic-mode recovery at
// statement and class/interface member boundaries.
package parser

import (
	"strconv"

	"tsforge/pkg/errors"
	"tsforge/pkg/lexer"
	"tsforge/pkg/source"
)

// Parser consumes a finite token stream (ending in EOF) and produces a
// Program. It never propagates a parse failure to its caller; every
// raised diagnostic is captured by the nearest recovery point.
type Parser struct {
	tokens []lexer.Token
	pos    int
	sink   *errors.Sink
	src    *source.SourceFile

	isModule bool
}

// New creates a Parser over tokens, reporting diagnostics to sink.
func New(tokens []lexer.Token, sink *errors.Sink, src *source.SourceFile) *Parser {
	return &Parser{tokens: tokens, sink: sink, src: src}
}

// Parse runs the parser to completion and returns the resulting Program.
// A fatal unexpected failure produces an empty Program with a single
// diagnostic rather than panicking out to the caller.
func (p *Parser) Parse() (prog *Program) {
	defer func() {
		if r := recover(); r != nil {
			pos := Pos{Line: 1, Column: 1}
			if !p.isAtEnd() {
				pos = p.tokenPos(p.current())
			}
			p.report(pos, "Internal parser failure: %v", r)
			prog = &Program{base: base{Pos: pos}}
		}
	}()

	prog = &Program{base: base{Pos: Pos{Line: 1, Column: 1}}}
	for _, tok := range p.tokens {
		if tok.Kind == lexer.IMPORT || tok.Kind == lexer.EXPORT {
			prog.IsModule = true
			break
		}
	}

	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

// ---------------------------------------------------------------------
// Token stream primitives
// ---------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) isAtEnd() bool {
	return p.current().Kind == lexer.EOF
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.current().Kind == kind
}

func (p *Parser) match(kinds ...lexer.TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has the given kind, else reports
// a diagnostic at the current token's position and panics to unwind to the
// nearest recovery point.
func (p *Parser) expect(kind lexer.TokenKind, message string) lexer.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.current(), message)
	panic(parseError{})
}

type parseError struct{}

func (p *Parser) tokenPos(tok lexer.Token) Pos {
	return Pos{Line: tok.Line, Column: tok.Column}
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) {
	p.report(p.tokenPos(tok), format, args...)
}

func (p *Parser) report(pos Pos, format string, args ...interface{}) {
	errPos := errors.Position{Line: pos.Line, Column: pos.Column, Source: p.src}
	p.sink.Report(errPos, errors.Syntax, format, args...)
}

// synchronize discards tokens until the previous token was ';' or the
// current token begins a statement, so the enclosing loop can resume
// parsing after a syntax error. Never consumes EOF.
func (p *Parser) synchronize() {
	if !p.isAtEnd() {
		p.advance()
	}
	for !p.isAtEnd() {
		if p.previous().Kind == lexer.SEMICOLON {
			return
		}
		switch p.current().Kind {
		case lexer.CLASS, lexer.FUNCTION, lexer.LET, lexer.CONST, lexer.VAR,
			lexer.FOR, lexer.IF, lexer.WHILE, lexer.RETURN, lexer.IMPORT, lexer.EXPORT:
			return
		}
		p.advance()
	}
}

// withRecovery runs fn, catching a parseError panic and running
// synchronize() before returning nil.
func (p *Parser) withRecovery(fn func() Statement) (result Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			result = nil
		}
	}()
	return fn()
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) declaration() Statement {
	return p.withRecovery(p.statement)
}

func (p *Parser) statement() Statement {
	switch p.current().Kind {
	case lexer.LET, lexer.CONST, lexer.VAR:
		return p.varDeclStatement()
	case lexer.FUNCTION:
		return p.functionDeclStatement()
	case lexer.CLASS:
		return p.classDeclStatement()
	case lexer.INTERFACE:
		return p.interfaceDeclStatement()
	case lexer.IF:
		return p.ifStatement()
	case lexer.FOR:
		return p.forStatement()
	case lexer.WHILE:
		return p.whileStatement()
	case lexer.RETURN:
		return p.returnStatement()
	case lexer.IMPORT:
		return p.importStatement()
	case lexer.EXPORT:
		return p.exportStatement()
	case lexer.LBRACE:
		return p.blockStatement()
	case lexer.SEMICOLON:
		tok := p.advance()
		return &EmptyStmt{base: base{Pos: p.tokenPos(tok)}}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) blockStatement() *BlockStmt {
	openTok := p.expect(lexer.LBRACE, "Expected '{'")
	blk := &BlockStmt{base: base{Pos: p.tokenPos(openTok)}}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			blk.Statements = append(blk.Statements, stmt)
		}
	}
	p.expect(lexer.RBRACE, "Expected '}' to close block")
	return blk
}

func (p *Parser) varDeclStatement() Statement {
	kindTok := p.advance()
	kind := string(kindTok.Kind)
	nameTok := p.expect(lexer.IDENTIFIER, "Expected variable name")

	var typeAnn TypeAnnotation
	if p.match(lexer.COLON) {
		typeAnn = p.parseType()
	}

	var init Expression
	if p.match(lexer.ASSIGN) {
		init = p.expression()
	}

	p.expect(lexer.SEMICOLON, "Expected ';' after variable declaration")

	return &VarDeclStmt{
		base:        base{Pos: p.tokenPos(kindTok)},
		Name:        nameTok.Lexeme,
		Kind:        kind,
		Type:        typeAnn,
		Initializer: init,
	}
}

func (p *Parser) functionDeclStatement() Statement {
	fnTok := p.expect(lexer.FUNCTION, "Expected 'function'")
	nameTok := p.expect(lexer.IDENTIFIER, "Expected function name")
	params := p.parseParamList()

	var retType TypeAnnotation
	if p.match(lexer.COLON) {
		retType = p.parseType()
	}

	body := p.blockStatement()

	return &FunctionDeclStmt{
		base:       base{Pos: p.tokenPos(fnTok)},
		Name:       nameTok.Lexeme,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
}

func (p *Parser) parseParamList() []Parameter {
	p.expect(lexer.LPAREN, "Expected '(' before parameter list")
	var params []Parameter
	for !p.check(lexer.RPAREN) && !p.isAtEnd() {
		nameTok := p.expect(lexer.IDENTIFIER, "Expected parameter name")
		param := Parameter{Pos: p.tokenPos(nameTok), Name: nameTok.Lexeme}
		if p.match(lexer.COLON) {
			param.Type = p.parseType()
		}
		params = append(params, param)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "Expected ')' after parameter list")
	return params
}

func (p *Parser) ifStatement() Statement {
	ifTok := p.expect(lexer.IF, "Expected 'if'")
	p.expect(lexer.LPAREN, "Expected '(' after 'if'")
	cond := p.expression()
	p.expect(lexer.RPAREN, "Expected ')' after if condition")
	then := p.statement()

	var elseBranch Statement
	if p.match(lexer.ELSE) {
		elseBranch = p.statement()
	}

	return &IfStmt{base: base{Pos: p.tokenPos(ifTok)}, Condition: cond, Then: then, Else: elseBranch}
}

func (p *Parser) whileStatement() Statement {
	whileTok := p.expect(lexer.WHILE, "Expected 'while'")
	p.expect(lexer.LPAREN, "Expected '(' after 'while'")
	cond := p.expression()
	p.expect(lexer.RPAREN, "Expected ')' after while condition")
	body := p.statement()
	return &WhileStmt{base: base{Pos: p.tokenPos(whileTok)}, Condition: cond, Body: body}
}

func (p *Parser) forStatement() Statement {
	forTok := p.expect(lexer.FOR, "Expected 'for'")
	p.expect(lexer.LPAREN, "Expected '(' after 'for'")

	var init Statement
	switch {
	case p.check(lexer.SEMICOLON):
		p.advance()
	case p.check(lexer.LET) || p.check(lexer.CONST) || p.check(lexer.VAR):
		init = p.varDeclStatement()
	default:
		init = p.expressionStatement()
	}

	var cond Expression
	if !p.check(lexer.SEMICOLON) {
		cond = p.expression()
	}
	p.expect(lexer.SEMICOLON, "Expected ';' after for condition")

	var update Expression
	if !p.check(lexer.RPAREN) {
		update = p.expression()
	}
	p.expect(lexer.RPAREN, "Expected ')' after for clauses")

	body := p.statement()

	return &ForStmt{base: base{Pos: p.tokenPos(forTok)}, Init: init, Condition: cond, Update: update, Body: body}
}

func (p *Parser) returnStatement() Statement {
	retTok := p.expect(lexer.RETURN, "Expected 'return'")
	var value Expression
	if !p.check(lexer.SEMICOLON) {
		value = p.expression()
	}
	p.expect(lexer.SEMICOLON, "Expected ';' after return statement")
	return &ReturnStmt{base: base{Pos: p.tokenPos(retTok)}, Value: value}
}

func (p *Parser) expressionStatement() Statement {
	startTok := p.current()
	expr := p.expression()
	p.expect(lexer.SEMICOLON, "Expected ';' after expression")
	return &ExpressionStmt{base: base{Pos: p.tokenPos(startTok)}, Expr: expr}
}

func (p *Parser) importStatement() Statement {
	importTok := p.expect(lexer.IMPORT, "Expected 'import'")
	stmt := &ImportStmt{base: base{Pos: p.tokenPos(importTok)}}

	if p.check(lexer.LBRACE) {
		p.parseNamedImportClause(stmt)
	} else if p.match(lexer.STAR) {
		p.expect(lexer.AS, "Expected 'as' after '*' in import")
		nsTok := p.expect(lexer.IDENTIFIER, "Expected namespace identifier")
		stmt.Namespace = nsTok.Lexeme
	} else {
		defTok := p.expect(lexer.IDENTIFIER, "Expected default import binding")
		stmt.Default = defTok.Lexeme
		if p.match(lexer.COMMA) {
			p.parseNamedImportClause(stmt)
		}
	}

	p.expect(lexer.FROM, "Expected 'from' in import statement")
	pathTok := p.expect(lexer.STRING_LITERAL, "Expected module path string")
	stmt.ModulePath = pathTok.Lexeme
	p.expect(lexer.SEMICOLON, "Expected ';' after import statement")

	return stmt
}

func (p *Parser) parseNamedImportClause(stmt *ImportStmt) {
	p.expect(lexer.LBRACE, "Expected '{' in import clause")
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		nameTok := p.expect(lexer.IDENTIFIER, "Expected import name")
		spec := ImportSpecifier{Name: nameTok.Lexeme}
		if p.match(lexer.AS) {
			aliasTok := p.expect(lexer.IDENTIFIER, "Expected alias identifier")
			spec.Alias = aliasTok.Lexeme
		}
		stmt.Named = append(stmt.Named, spec)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "Expected '}' to close import clause")
}

func (p *Parser) exportStatement() Statement {
	exportTok := p.expect(lexer.EXPORT, "Expected 'export'")
	stmt := &ExportStmt{base: base{Pos: p.tokenPos(exportTok)}}

	if p.check(lexer.IDENTIFIER) && p.current().Lexeme == "default" {
		p.advance()
		stmt.Default = p.expression()
		p.expect(lexer.SEMICOLON, "Expected ';' after export default expression")
		return stmt
	}

	if p.check(lexer.LBRACE) {
		p.advance()
		for !p.check(lexer.RBRACE) && !p.isAtEnd() {
			nameTok := p.expect(lexer.IDENTIFIER, "Expected export name")
			spec := ExportSpecifier{Name: nameTok.Lexeme}
			if p.match(lexer.AS) {
				aliasTok := p.expect(lexer.IDENTIFIER, "Expected alias identifier")
				spec.Alias = aliasTok.Lexeme
			}
			stmt.Named = append(stmt.Named, spec)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACE, "Expected '}' to close export clause")
		if p.match(lexer.FROM) {
			pathTok := p.expect(lexer.STRING_LITERAL, "Expected module path string")
			stmt.ModulePath = pathTok.Lexeme
		}
		p.expect(lexer.SEMICOLON, "Expected ';' after export statement")
		return stmt
	}

	stmt.Decl = p.declaration()
	return stmt
}

// ---------------------------------------------------------------------
// Numeric / string literal helpers shared with jsemitter.go
// ---------------------------------------------------------------------

// parseNumberLiteral parses a lexer-scanned number lexeme to float64,
// tolerating the malformed tail a diagnosed-but-recovered exponent may
// have left behind.
func parseNumberLiteral(lexeme string) float64 {
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return 0
	}
	return v
}
