package parser

import "tsforge/pkg/lexer"

// parseType parses a type annotation. A union is recognized as a
// left-recursive "| T" loop after a base type is parsed, so that
// "A | B | C" and parenthesized function/union forms both resolve
// correctly — the redesigned behavior recommended in place of the
// original's unreachable union branch.
func (p *Parser) parseType() TypeAnnotation {
	first := p.parseIntersectionType()

	if p.check(lexer.PIPE) {
		members := []TypeAnnotation{first}
		for p.match(lexer.PIPE) {
			members = append(members, p.parseIntersectionType())
		}
		return &UnionType{base: baseOf(first), Members: members}
	}

	return first
}

func (p *Parser) parseIntersectionType() TypeAnnotation {
	first := p.parsePostfixType()

	if p.check(lexer.AMP) {
		members := []TypeAnnotation{first}
		for p.match(lexer.AMP) {
			members = append(members, p.parsePostfixType())
		}
		return &IntersectionType{base: baseOf(first), Members: members}
	}

	return first
}

func baseOf(t TypeAnnotation) base {
	return base{Pos: t.Position()}
}

// parsePostfixType parses a base type followed by any number of "[]"
// array suffixes.
func (p *Parser) parsePostfixType() TypeAnnotation {
	t := p.parseBaseType()
	for p.check(lexer.LBRACKET) && p.peekAt(1).Kind == lexer.RBRACKET {
		p.advance()
		p.advance()
		t = &ArrayType{base: baseOf(t), Element: t}
	}
	return t
}

func (p *Parser) parseBaseType() TypeAnnotation {
	tok := p.current()

	switch tok.Kind {
	case lexer.LPAREN:
		return p.parseFunctionOrParenthesizedType()
	case lexer.LBRACE:
		return p.parseObjectType()
	case lexer.IDENTIFIER, lexer.NUMBER, lexer.STRING, lexer.BOOLEAN, lexer.ANY, lexer.VOID:
		p.advance()
		ident := &IdentifierType{base: base{Pos: p.tokenPos(tok)}, Name: tok.Lexeme}
		if p.match(lexer.LT) {
			for {
				ident.TypeArgs = append(ident.TypeArgs, p.parseType())
				if !p.match(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.GT, "Expected '>' to close type argument list")
		}
		return ident
	default:
		p.errorAt(tok, "Expected a type annotation")
		p.advance()
		return &IdentifierType{base: base{Pos: p.tokenPos(tok)}, Name: "any"}
	}
}

// parseFunctionOrParenthesizedType disambiguates "(params) => T" from a
// parenthesized type "(T)" by scanning ahead for a following "=>".
func (p *Parser) parseFunctionOrParenthesizedType() TypeAnnotation {
	openTok := p.current()

	if p.looksLikeFunctionType() {
		params := p.parseParamList()
		p.expect(lexer.ARROW, "Expected '=>' in function type")
		ret := p.parseType()
		return &FunctionType{base: base{Pos: p.tokenPos(openTok)}, Params: params, ReturnType: ret}
	}

	p.expect(lexer.LPAREN, "Expected '('")
	inner := p.parseType()
	p.expect(lexer.RPAREN, "Expected ')' to close parenthesized type")
	return inner
}

func (p *Parser) looksLikeFunctionType() bool {
	depth := 0
	i := 0
	for {
		tok := p.peekAt(i)
		if tok.Kind == lexer.EOF {
			return false
		}
		switch tok.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return p.peekAt(i+1).Kind == lexer.ARROW
			}
		}
		i++
		if i > 4096 {
			return false
		}
	}
}

// parseObjectType parses "{ name[?]: T; ... }".
func (p *Parser) parseObjectType() TypeAnnotation {
	openTok := p.expect(lexer.LBRACE, "Expected '{'")
	obj := &ObjectType{base: base{Pos: p.tokenPos(openTok)}}

	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		nameTok := p.expect(lexer.IDENTIFIER, "Expected property name in object type")
		prop := ObjectTypeProperty{Name: nameTok.Lexeme}
		if p.match(lexer.QUESTION) {
			prop.Optional = true
		}
		p.expect(lexer.COLON, "Expected ':' in object type property")
		prop.Type = p.parseType()
		obj.Properties = append(obj.Properties, prop)

		if !p.match(lexer.SEMICOLON) && !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "Expected '}' to close object type")
	return obj
}
