package parser

// Binary operator precedence, lowest first: OR/XOR, AND, equality,
// relational/IN, additive, multiplicative.
func binaryPrecedence(k TokenKind) int {
	switch k {
	case TokenOr, TokenXor:
		return 1
	case TokenAnd:
		return 2
	case TokenEquals, TokenNotEqual:
		return 3
	case TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual, TokenIn:
		return 4
	case TokenPlus, TokenMinus:
		return 5
	case TokenStar, TokenSlash, TokenDiv, TokenMod:
		return 6
	}
	return 0
}

func (p *Parser) parseExpression() (Expression, *ParseError) {
	return p.parseBinaryExpression(1)
}

// parseBinaryExpression is standard precedence climbing over the ladder
// above; all operators associate left.
func (p *Parser) parseBinaryExpression(minPrec int) (Expression, *ParseError) {
	left, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		prec := binaryPrecedence(p.peek().Kind)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		op := p.advance()
		right, err := p.parseBinaryExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		expr := &BinaryExpression{Op: op, Left: left, Right: right}
		expr.setSpan(*left.StartToken(), *right.EndToken())
		left = expr
	}
}

func (p *Parser) parseUnaryExpression() (Expression, *ParseError) {
	switch p.peek().Kind {
	case TokenNot, TokenMinus, TokenPlus:
		op := p.advance()
		operand, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		expr := &UnaryExpression{Op: op, Operand: operand}
		expr.setSpan(op, *operand.EndToken())
		return expr, nil
	}
	return p.parsePostfixExpression()
}

// parsePostfixExpression parses a primary expression and then chains member
// access, scope access, calls, and indexing in a fixed-point loop until no
// postfix operator matches.
func (p *Parser) parsePostfixExpression() (Expression, *ParseError) {
	expr, err := p.parsePrimaryExpression()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Kind {
		case TokenDot:
			p.advance()
			if !p.isIdentLike() {
				return expr, expectedError(p.peek(), "member name")
			}
			member := p.advance()
			access := &MemberAccess{Target: expr, Member: member.Literal, MemberToken: member}
			access.setSpan(*expr.StartToken(), member)
			expr = access

		case TokenColonColon:
			p.advance()
			if !p.isIdentLike() && !p.check(TokenInteger) {
				return expr, expectedError(p.peek(), "scope member")
			}
			member := p.advance()
			access := &ScopeAccess{Target: expr, Member: member.Literal, MemberToken: member}
			access.setSpan(*expr.StartToken(), member)
			expr = access

		case TokenLParen:
			p.advance()
			call := &CallExpression{Callee: expr}
			for !p.check(TokenRParen) && !p.check(TokenEOF) {
				progress := p.mustProgress()
				arg, err := p.parseExpression()
				if err != nil {
					return expr, err
				}
				call.Args = append(call.Args, arg)
				if p.check(TokenComma) {
					p.advance()
				}
				if !progress() {
					break
				}
			}
			closeTok, err := p.expect(TokenRParen)
			if err != nil {
				return expr, unclosedError(*expr.StartToken(), "argument list")
			}
			call.setSpan(*expr.StartToken(), closeTok)
			expr = call

		case TokenLBracket:
			p.advance()
			index := &IndexExpression{Target: expr}
			for !p.check(TokenRBracket) && !p.check(TokenEOF) {
				progress := p.mustProgress()
				idx, err := p.parseExpression()
				if err != nil {
					return expr, err
				}
				index.Indexes = append(index.Indexes, idx)
				if p.check(TokenComma) {
					p.advance()
				}
				if !progress() {
					break
				}
			}
			closeTok, err := p.expect(TokenRBracket)
			if err != nil {
				return expr, unclosedError(*expr.StartToken(), "index expression")
			}
			index.setSpan(*expr.StartToken(), closeTok)
			expr = index

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimaryExpression() (Expression, *ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent, TokenQuotedIdent:
		p.advance()
		ident := &Identifier{Name: tok.Literal, Quoted: tok.Kind == TokenQuotedIdent}
		ident.setSpan(tok, tok)
		return ident, nil

	case TokenInteger, TokenDecimal, TokenString, TokenDate, TokenTime,
		TokenDateTime, TokenTrue, TokenFalse:
		p.advance()
		lit := &Literal{Token: tok, Value: tok.Literal}
		lit.setSpan(tok, tok)
		return lit, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(TokenRParen)
		if err != nil {
			return nil, err
		}
		paren := &ParenExpression{Inner: inner}
		paren.setSpan(tok, closeTok)
		return paren, nil

	case TokenLBracket:
		return p.parseSetExpression()
	}

	return nil, expectedError(tok, "expression")
}

// parseSetExpression parses a bracketed value set such as [1;2;3] or
// ['a'..'z'], the usual right-hand side of IN. Elements may be separated by
// comma or semicolon and may be ranges.
func (p *Parser) parseSetExpression() (Expression, *ParseError) {
	open := p.advance() // [
	set := &SetExpression{}

	for !p.check(TokenRBracket) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		element, err := p.parseCaseValue()
		if err != nil {
			return nil, err
		}
		set.Elements = append(set.Elements, element)
		if p.check(TokenComma) || p.check(TokenSemicolon) {
			p.advance()
		}
		if !progress() {
			break
		}
	}

	closeTok, err := p.expect(TokenRBracket)
	if err != nil {
		return nil, unclosedError(open, "set expression")
	}
	set.setSpan(open, closeTok)
	return set, nil
}

// parseCaseValue parses one case label or set element, which may be a range
// (low..high).
func (p *Parser) parseCaseValue() (Expression, *ParseError) {
	low, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenDotDot) {
		return low, nil
	}
	p.advance()
	high, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	rng := &RangeExpression{Low: low, High: high}
	rng.setSpan(*low.StartToken(), *high.EndToken())
	return rng, nil
}
