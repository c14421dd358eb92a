package parser

import "tsforge/pkg/lexer"

// expression parses the full precedence cascade starting at assignment,
// the lowest-precedence, right-associative level.
func (p *Parser) expression() Expression {
	return p.assignment()
}

var compoundAssignOps = map[lexer.TokenKind]string{
	lexer.ASSIGN:         "=",
	lexer.PLUS_ASSIGN:    "+=",
	lexer.MINUS_ASSIGN:   "-=",
	lexer.STAR_ASSIGN:    "*=",
	lexer.SLASH_ASSIGN:   "/=",
	lexer.PERCENT_ASSIGN: "%=",
}

func (p *Parser) assignment() Expression {
	left := p.conditional()

	if op, ok := compoundAssignOps[p.current().Kind]; ok {
		opTok := p.advance()
		value := p.assignment() // right-associative

		switch left.(type) {
		case *Identifier, *MemberExpr, *IndexExpr:
		default:
			p.errorAt(opTok, "Invalid assignment target")
			return left
		}

		return &AssignExpr{
			exprBase: exprBase{base: base{Pos: p.tokenPos(opTok)}},
			Target:   left,
			Operator: op,
			Value:    value,
		}
	}

	return left
}

func (p *Parser) conditional() Expression {
	cond := p.logicalOr()
	if p.match(lexer.QUESTION) {
		questionTok := p.previous()
		thenExpr := p.expression()
		p.expect(lexer.COLON, "Expected ':' in conditional expression")
		elseExpr := p.conditional() // right-associative
		return &ConditionalExpr{
			exprBase:  exprBase{base: base{Pos: p.tokenPos(questionTok)}},
			Condition: cond,
			Then:      thenExpr,
			Else:      elseExpr,
		}
	}
	return cond
}

func (p *Parser) leftAssocBinary(next func() Expression, kinds ...lexer.TokenKind) Expression {
	left := next()
	for {
		matched := false
		for _, k := range kinds {
			if p.check(k) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		opTok := p.advance()
		right := next()
		left = &BinaryExpr{
			exprBase: exprBase{base: base{Pos: p.tokenPos(opTok)}},
			Left:     left,
			Operator: string(opTok.Kind),
			Right:    right,
		}
	}
}

func (p *Parser) logicalOr() Expression {
	return p.leftAssocBinary(p.logicalAnd, lexer.LOGICAL_OR)
}

func (p *Parser) logicalAnd() Expression {
	return p.leftAssocBinary(p.equality, lexer.LOGICAL_AND)
}

func (p *Parser) equality() Expression {
	return p.leftAssocBinary(p.comparison, lexer.EQ, lexer.NOT_EQ, lexer.STRICT_EQ, lexer.STRICT_NOT_EQ)
}

func (p *Parser) comparison() Expression {
	return p.leftAssocBinary(p.bitwiseOr, lexer.GT, lexer.LT, lexer.GE, lexer.LE)
}

func (p *Parser) bitwiseOr() Expression {
	return p.leftAssocBinary(p.bitwiseXor, lexer.PIPE)
}

func (p *Parser) bitwiseXor() Expression {
	return p.leftAssocBinary(p.bitwiseAnd, lexer.CARET)
}

func (p *Parser) bitwiseAnd() Expression {
	return p.leftAssocBinary(p.shift, lexer.AMP)
}

func (p *Parser) shift() Expression {
	return p.leftAssocBinary(p.additive, lexer.SHL, lexer.SHR, lexer.USHR)
}

func (p *Parser) additive() Expression {
	return p.leftAssocBinary(p.multiplicative, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) multiplicative() Expression {
	return p.leftAssocBinary(p.unary, lexer.STAR, lexer.SLASH, lexer.PERCENT, lexer.STAR_STAR)
}

func (p *Parser) unary() Expression {
	switch p.current().Kind {
	case lexer.BANG, lexer.MINUS, lexer.PLUS, lexer.TILDE, lexer.TYPEOF, lexer.INC, lexer.DEC:
		opTok := p.advance()
		operand := p.unary()
		return &UnaryExpr{
			exprBase: exprBase{base: base{Pos: p.tokenPos(opTok)}},
			Operator: string(opTok.Kind),
			Operand:  operand,
			Postfix:  false,
		}
	}
	return p.postfix()
}

func (p *Parser) postfix() Expression {
	expr := p.call()
	if p.check(lexer.INC) || p.check(lexer.DEC) {
		opTok := p.advance()
		return &UnaryExpr{
			exprBase: exprBase{base: base{Pos: expr.Position()}},
			Operator: string(opTok.Kind),
			Operand:  expr,
			Postfix:  true,
		}
	}
	return expr
}

func (p *Parser) call() Expression {
	expr := p.primary()

	for {
		switch {
		case p.check(lexer.LPAREN):
			openTok := p.advance()
			args := p.parseArgList()
			expr = &CallExpr{
				exprBase: exprBase{base: base{Pos: p.tokenPos(openTok)}},
				Callee:   expr,
				Args:     args,
			}
		case p.check(lexer.DOT):
			dotTok := p.advance()
			nameTok := p.expect(lexer.IDENTIFIER, "Expected property name after '.'")
			expr = &MemberExpr{
				exprBase: exprBase{base: base{Pos: p.tokenPos(dotTok)}},
				Object:   expr,
				Property: nameTok.Lexeme,
			}
		case p.check(lexer.OPTIONAL_CHAIN):
			dotTok := p.advance()
			nameTok := p.expect(lexer.IDENTIFIER, "Expected property name after '?.'")
			expr = &MemberExpr{
				exprBase: exprBase{base: base{Pos: p.tokenPos(dotTok)}},
				Object:   expr,
				Property: nameTok.Lexeme,
				Optional: true,
			}
		case p.check(lexer.LBRACKET):
			openTok := p.advance()
			index := p.expression()
			p.expect(lexer.RBRACKET, "Expected ']' after index expression")
			expr = &IndexExpr{
				exprBase: exprBase{base: base{Pos: p.tokenPos(openTok)}},
				Object:   expr,
				Index:    index,
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []Expression {
	var args []Expression
	for !p.check(lexer.RPAREN) && !p.isAtEnd() {
		args = append(args, p.expression())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "Expected ')' after argument list")
	return args
}

func (p *Parser) primary() Expression {
	tok := p.current()

	switch tok.Kind {
	case lexer.NUMBER_LITERAL:
		p.advance()
		return &Literal{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Kind: NumberLiteral, Value: tok.Lexeme}
	case lexer.STRING_LITERAL:
		p.advance()
		return &Literal{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Kind: StringLiteral, Value: tok.Lexeme}
	case lexer.BOOLEAN_LITERAL:
		p.advance()
		return &Literal{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Kind: BooleanLiteral, Value: tok.Lexeme}
	case lexer.NULL_LITERAL:
		p.advance()
		return &Literal{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Kind: NullLiteral, Value: tok.Lexeme}
	case lexer.UNDEFINED_LITERAL:
		p.advance()
		return &Literal{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Kind: UndefinedLiteral, Value: tok.Lexeme}
	case lexer.THIS:
		p.advance()
		return &ThisExpr{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}}
	case lexer.IDENTIFIER, lexer.SUPER:
		p.advance()
		if p.check(lexer.ARROW) {
			return p.arrowFromSingleParam(tok)
		}
		return &Identifier{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Name: tok.Lexeme}
	case lexer.NEW:
		return p.newExpression()
	case lexer.FUNCTION:
		return p.functionExpression()
	case lexer.LPAREN:
		return p.parenOrArrow()
	case lexer.LBRACE:
		return p.objectLiteral()
	case lexer.LBRACKET:
		return p.arrayLiteral()
	default:
		p.errorAt(tok, "Unexpected token %q", tok.Lexeme)
		p.advance()
		return &Literal{exprBase: exprBase{base: base{Pos: p.tokenPos(tok)}}, Kind: UndefinedLiteral, Value: "undefined"}
	}
}

// arrowFromSingleParam handles the "x => expr" / "x => { ... }" shorthand,
// where a bare identifier stands in for a single-parameter list.
func (p *Parser) arrowFromSingleParam(nameTok lexer.Token) Expression {
	arrowTok := p.expect(lexer.ARROW, "Expected '=>'")
	params := []Parameter{{Pos: p.tokenPos(nameTok), Name: nameTok.Lexeme}}
	return p.finishArrowBody(arrowTok, params, nil)
}

func (p *Parser) finishArrowBody(arrowTok lexer.Token, params []Parameter, retType TypeAnnotation) Expression {
	if p.check(lexer.LBRACE) {
		body := p.blockStatement()
		return &FunctionExpr{
			exprBase:   exprBase{base: base{Pos: p.tokenPos(arrowTok)}},
			Params:     params,
			ReturnType: retType,
			Body:       body,
		}
	}
	// Concise-body arrow: wrap the expression in an implicit return so
	// downstream stages only ever see block-bodied functions.
	exprTok := p.current()
	value := p.assignment()
	body := &BlockStmt{
		base: base{Pos: p.tokenPos(exprTok)},
		Statements: []Statement{
			&ReturnStmt{base: base{Pos: p.tokenPos(exprTok)}, Value: value},
		},
	}
	return &FunctionExpr{
		exprBase:   exprBase{base: base{Pos: p.tokenPos(arrowTok)}},
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
}

// parenOrArrow disambiguates a parenthesized expression from an
// arrow-function parameter list by scanning ahead for a following '=>'.
func (p *Parser) parenOrArrow() Expression {
	if p.looksLikeArrowParams() {
		params := p.parseParamList()
		var retType TypeAnnotation
		if p.match(lexer.COLON) {
			retType = p.parseType()
		}
		arrowTok := p.expect(lexer.ARROW, "Expected '=>' after arrow function parameters")
		return p.finishArrowBody(arrowTok, params, retType)
	}

	p.expect(lexer.LPAREN, "Expected '('")
	inner := p.expression()
	p.expect(lexer.RPAREN, "Expected ')' after parenthesized expression")
	return inner
}

// looksLikeArrowParams performs a bounded lookahead scan for the pattern
// "( ... ) [: Type] =>" without consuming any tokens.
func (p *Parser) looksLikeArrowParams() bool {
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
				next := p.peekAt(i + 1)
				if next.Kind == lexer.ARROW {
					return true
				}
				if next.Kind == lexer.COLON {
					return p.scanColonThenArrow(i + 1)
				}
				return false
			}
		}
		i++
		if i > 4096 {
			return false
		}
	}
}

func (p *Parser) scanColonThenArrow(from int) bool {
	i := from + 1 // skip the ':'
	for {
		tok := p.peekAt(i)
		if tok.Kind == lexer.EOF || tok.Kind == lexer.SEMICOLON {
			return false
		}
		if tok.Kind == lexer.ARROW {
			return true
		}
		i++
		if i > 4096 {
			return false
		}
	}
}

func (p *Parser) newExpression() Expression {
	newTok := p.expect(lexer.NEW, "Expected 'new'")
	callee := p.call()

	// call() already consumed a trailing "(args)" as part of callee when
	// present; unwrap it so the constructor argument list belongs to the
	// NewExpr, matching "new X.Y(args)" chains.
	if callExpr, ok := callee.(*CallExpr); ok {
		return &NewExpr{
			exprBase: exprBase{base: base{Pos: p.tokenPos(newTok)}},
			Callee:   callExpr.Callee,
			Args:     callExpr.Args,
		}
	}

	args := p.parseArgList()
	return &NewExpr{exprBase: exprBase{base: base{Pos: p.tokenPos(newTok)}}, Callee: callee, Args: args}
}

func (p *Parser) functionExpression() Expression {
	fnTok := p.expect(lexer.FUNCTION, "Expected 'function'")
	name := ""
	if p.check(lexer.IDENTIFIER) {
		name = p.advance().Lexeme
	}
	params := p.parseParamList()
	var retType TypeAnnotation
	if p.match(lexer.COLON) {
		retType = p.parseType()
	}
	body := p.blockStatement()
	return &FunctionExpr{
		exprBase:   exprBase{base: base{Pos: p.tokenPos(fnTok)}},
		Name:       name,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
}

func (p *Parser) objectLiteral() Expression {
	openTok := p.expect(lexer.LBRACE, "Expected '{'")
	lit := &ObjectLiteral{exprBase: exprBase{base: base{Pos: p.tokenPos(openTok)}}}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		keyTok := p.advance() // identifier or string literal used as a key
		p.expect(lexer.COLON, "Expected ':' after object property key")
		value := p.assignment()
		lit.Properties = append(lit.Properties, ObjectProperty{Key: keyTok.Lexeme, Value: value})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "Expected '}' to close object literal")
	return lit
}

func (p *Parser) arrayLiteral() Expression {
	openTok := p.expect(lexer.LBRACKET, "Expected '['")
	lit := &ArrayLiteral{exprBase: exprBase{base: base{Pos: p.tokenPos(openTok)}}}
	for !p.check(lexer.RBRACKET) && !p.isAtEnd() {
		lit.Elements = append(lit.Elements, p.assignment())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET, "Expected ']' to close array literal")
	return lit
}
