package parser

// Dedicated sub-grammars for the CalcFormula and TableRelation property
// values. They are decorations on top of a successfully parsed property:
// their diagnostics merge into the parser's error list, but a failure here
// never derails the enclosing section.

// CalcFormula is a parsed flow-field formula, e.g.
// Sum("Detailed Entry".Amount WHERE (Customer No.=FIELD(No.))).
type CalcFormula struct {
	baseNode
	Reversed    bool
	Method      string
	Table       string
	FieldName   string
	WhereTokens []Token
}

func (*CalcFormula) Kind() NodeKind { return KindCalcFormula }

// TableRelation is a parsed relation value, e.g.
// Customer.No. or IF (Type=CONST(Item)) Item. Conditional forms keep their
// full token run; Table/FieldName hold the first unconditional target.
type TableRelation struct {
	baseNode
	Table     string
	FieldName string
	Tokens    []Token
}

func (*TableRelation) Kind() NodeKind { return KindTableRelation }

func (p *Parser) parseCalcFormula() (*CalcFormula, *ParseError) {
	formula := &CalcFormula{}
	start := p.peek()

	if p.check(TokenMinus) {
		formula.Reversed = true
		p.advance()
	}

	if !p.isIdentLike() {
		return nil, expectedError(p.peek(), "calculation method")
	}
	formula.Method = p.advance().Literal

	if p.check(TokenLParen) {
		p.advance()

		if p.isIdentLike() {
			formula.Table = p.parseDottedName()
			// A trailing dotted segment is the summed field.
			if i := lastDotSplit(formula.Table); i >= 0 {
				formula.FieldName = formula.Table[i+1:]
				formula.Table = formula.Table[:i]
			}
		}

		if p.isIdentLike() && equalFold(p.peek().Literal, "WHERE") {
			p.advance()
			if _, err := p.expect(TokenLParen); err != nil {
				return nil, err
			}
			depth := 1
			for depth > 0 && !p.check(TokenEOF) {
				switch p.peek().Kind {
				case TokenLParen:
					depth++
				case TokenRParen:
					depth--
					if depth == 0 {
						p.advance()
						continue
					}
				}
				if depth > 0 {
					formula.WhereTokens = append(formula.WhereTokens, p.advance())
				}
			}
			if depth > 0 {
				return nil, unclosedError(start, "WHERE clause")
			}
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, unclosedError(start, "CalcFormula")
		}
	}

	formula.setSpan(start, p.prev())
	return formula, nil
}

// lastDotSplit finds the dot separating table from field in a dotted name,
// ignoring a trailing dot that is part of the name itself ("No.").
func lastDotSplit(name string) int {
	for i := len(name) - 2; i > 0; i-- {
		if name[i] == '.' {
			return i
		}
	}
	return -1
}

func (p *Parser) parseTableRelation() (*TableRelation, *ParseError) {
	relation := &TableRelation{}
	start := p.peek()

	relation.Tokens = p.collectPropertyValue()
	if len(relation.Tokens) == 0 {
		return nil, expectedError(start, "table relation")
	}

	// Extract the first unconditional target for navigation: skip over a
	// leading IF (...) condition chain.
	i := 0
	for i < len(relation.Tokens) && relation.Tokens[i].Kind == TokenIf {
		depth := 0
		i++
		for i < len(relation.Tokens) {
			switch relation.Tokens[i].Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
			i++
			if depth == 0 {
				break
			}
		}
	}
	if i < len(relation.Tokens) {
		tok := relation.Tokens[i]
		if tok.Kind == TokenIdent || tok.Kind == TokenQuotedIdent {
			relation.Table = tok.Literal
			if i+2 < len(relation.Tokens) && relation.Tokens[i+1].Kind == TokenDot {
				next := relation.Tokens[i+2]
				if next.Kind == TokenIdent || next.Kind == TokenQuotedIdent {
					relation.FieldName = next.Literal
				}
			}
		}
	}

	relation.setSpan(relation.Tokens[0], relation.Tokens[len(relation.Tokens)-1])
	return relation, nil
}
