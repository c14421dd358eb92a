package parser

import "tsforge/pkg/lexer"

// classDeclStatement parses a class declaration. Member modifiers
// (public/private/protected/static/readonly) are accepted in any order
// before each member; a member is a method iff the next non-modifier
// token is 'function', or an identifier immediately followed by '(';
// otherwise it is a property. Constructors are ordinary methods named
// "constructor".
func (p *Parser) classDeclStatement() Statement {
	classTok := p.expect(lexer.CLASS, "Expected 'class'")
	nameTok := p.expect(lexer.IDENTIFIER, "Expected class name")

	decl := &ClassDeclStmt{base: base{Pos: p.tokenPos(classTok)}, Name: nameTok.Lexeme}

	if p.match(lexer.EXTENDS) {
		superTok := p.expect(lexer.IDENTIFIER, "Expected superclass name")
		decl.Superclass = superTok.Lexeme
	}
	if p.match(lexer.IMPLEMENTS) {
		for {
			ifaceTok := p.expect(lexer.IDENTIFIER, "Expected interface name")
			decl.Interfaces = append(decl.Interfaces, ifaceTok.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	p.expect(lexer.LBRACE, "Expected '{' to start class body")
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		p.classMember(decl)
	}
	p.expect(lexer.RBRACE, "Expected '}' to close class body")

	return decl
}

// classMember parses one member into decl, recovering via
// synchronizeMember (limited to the class-body loop's boundaries: ';',
// '}', or a modifier/name start) if it raises a diagnostic.
func (p *Parser) classMember(decl *ClassDeclStmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronizeMember()
		}
	}()

	access, static, readonly := p.parseModifiers()

	if p.check(lexer.FUNCTION) {
		p.advance()
	}

	nameTok := p.expect(lexer.IDENTIFIER, "Expected member name")

	if p.check(lexer.LPAREN) {
		method := &Method{
			Pos:    p.tokenPos(nameTok),
			Name:   nameTok.Lexeme,
			Access: access,
			Static: static,
		}
		method.Params = p.parseParamList()
		if p.match(lexer.COLON) {
			method.ReturnType = p.parseType()
		}
		method.Body = p.blockStatement()
		decl.Methods = append(decl.Methods, method)
		return
	}

	prop := &Property{
		Pos:      p.tokenPos(nameTok),
		Name:     nameTok.Lexeme,
		Access:   access,
		Static:   static,
		Readonly: readonly,
	}
	if p.match(lexer.COLON) {
		prop.Type = p.parseType()
	}
	if p.match(lexer.ASSIGN) {
		prop.Initializer = p.expression()
	}
	p.expect(lexer.SEMICOLON, "Expected ';' after property declaration")
	decl.Properties = append(decl.Properties, prop)
}

// parseModifiers consumes any order of public/private/protected/static/
// readonly before a member. Access defaults to Public.
func (p *Parser) parseModifiers() (access AccessModifier, static, readonly bool) {
	access = Public
	for {
		switch p.current().Kind {
		case lexer.PUBLIC:
			access = Public
			p.advance()
		case lexer.PRIVATE:
			access = Private
			p.advance()
		case lexer.PROTECTED:
			access = Protected
			p.advance()
		case lexer.STATIC:
			static = true
			p.advance()
		case lexer.READONLY:
			readonly = true
			p.advance()
		default:
			return
		}
	}
}

// synchronizeMember discards tokens until the previous token was ';' or
// '}', or the current token starts a new member (a modifier, 'function',
// or an identifier), scoped to the class body loop.
func (p *Parser) synchronizeMember() {
	if !p.isAtEnd() {
		p.advance()
	}
	for !p.isAtEnd() {
		if p.previous().Kind == lexer.SEMICOLON || p.previous().Kind == lexer.RBRACE {
			return
		}
		switch p.current().Kind {
		case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.STATIC, lexer.READONLY,
			lexer.FUNCTION, lexer.IDENTIFIER, lexer.RBRACE:
			return
		}
		p.advance()
	}
}

// interfaceDeclStatement parses an interface declaration. Members accept
// optional 'readonly'; a member followed by '(' is a method signature
// requiring a ':' return type, otherwise a property signature with a
// mandatory ': type'. Every signature ends in ';'.
func (p *Parser) interfaceDeclStatement() Statement {
	ifaceTok := p.expect(lexer.INTERFACE, "Expected 'interface'")
	nameTok := p.expect(lexer.IDENTIFIER, "Expected interface name")

	decl := &InterfaceDeclStmt{base: base{Pos: p.tokenPos(ifaceTok)}, Name: nameTok.Lexeme}

	if p.match(lexer.EXTENDS) {
		for {
			extTok := p.expect(lexer.IDENTIFIER, "Expected extended interface name")
			decl.Extends = append(decl.Extends, extTok.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	p.expect(lexer.LBRACE, "Expected '{' to start interface body")
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		p.interfaceMember(decl)
	}
	p.expect(lexer.RBRACE, "Expected '}' to close interface body")

	return decl
}

func (p *Parser) interfaceMember(decl *InterfaceDeclStmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronizeMember()
		}
	}()

	readonly := p.match(lexer.READONLY)
	nameTok := p.expect(lexer.IDENTIFIER, "Expected member name")

	if p.check(lexer.LPAREN) {
		method := &Method{Pos: p.tokenPos(nameTok), Name: nameTok.Lexeme}
		method.Params = p.parseParamList()
		p.expect(lexer.COLON, "Expected ':' return type in interface method signature")
		method.ReturnType = p.parseType()
		p.expect(lexer.SEMICOLON, "Expected ';' after interface method signature")
		decl.Methods = append(decl.Methods, method)
		return
	}

	prop := &Property{Pos: p.tokenPos(nameTok), Name: nameTok.Lexeme, Readonly: readonly}
	if p.match(lexer.QUESTION) {
		prop.Optional = true
	}
	p.expect(lexer.COLON, "Expected ':' type in interface property signature")
	prop.Type = p.parseType()
	p.expect(lexer.SEMICOLON, "Expected ';' after interface property signature")
	decl.Properties = append(decl.Properties, prop)
}
