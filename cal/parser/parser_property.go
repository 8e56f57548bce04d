package parser

import "strconv"

func (p *Parser) parsePropertySection() *PropertySection {
	section := &PropertySection{}
	start := p.advance() // PROPERTIES
	if _, err := p.expect(TokenLBrace); err != nil {
		p.record(err)
		section.setSpan(start, p.prev())
		return section
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		prop, err := p.parseProperty()
		if err != nil {
			p.record(err)
			p.resyncProperty()
		} else {
			section.Properties = append(section.Properties, prop)
		}
		if !progress() {
			break
		}
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		p.record(unclosedError(p.prev(), "PROPERTIES section"))
	}
	section.setSpan(start, p.prev())
	return section
}

// resyncProperty skips to the next property separator or the brace closing
// the enclosing block, tracking nested braces so a value containing blocks
// is skipped whole.
func (p *Parser) resyncProperty() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// parseProperty parses one Name=Value pair. Values beginning with BEGIN or
// VAR are trigger bodies; CalcFormula and TableRelation values go through
// their dedicated sub-grammars; every other value keeps its raw token run,
// accumulated with brace and bracket depth tracking so nested blocks and
// array literals are never truncated at an inner delimiter.
func (p *Parser) parseProperty() (*Property, *ParseError) {
	// Property names are identifiers, but keyword collisions happen (a
	// property may be spelled like a section keyword), so any word token is
	// accepted.
	nameTok := p.peek()
	if !isWordKind(nameTok.Kind) {
		return nil, expectedError(nameTok, "property name")
	}
	p.advance()

	prop := &Property{Name: nameTok.Literal, NameToken: nameTok}

	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	switch {
	case p.check(TokenBegin) || p.check(TokenVar):
		trig, err := p.parseTriggerValue(prop.Name)
		if err != nil {
			return nil, err
		}
		prop.Trigger = trig
	case equalFold(prop.Name, "CalcFormula"):
		formula, err := p.parseCalcFormula()
		if err != nil {
			return nil, err
		}
		prop.CalcFormula = formula
	case equalFold(prop.Name, "TableRelation"):
		relation, err := p.parseTableRelation()
		if err != nil {
			return nil, err
		}
		prop.Relation = relation
	default:
		prop.ValueTokens = p.collectPropertyValue()
	}

	prop.setSpan(nameTok, p.prev())
	return prop, nil
}

// collectPropertyValue accumulates raw value tokens while tracking brace and
// bracket depth; the value ends at a `;` or `}` at depth zero.
func (p *Parser) collectPropertyValue() []Token {
	var tokens []Token
	braces := 0
	brackets := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLBrace:
			braces++
		case TokenRBrace:
			if braces == 0 {
				return tokens
			}
			braces--
		case TokenLBracket:
			brackets++
		case TokenRBracket:
			if brackets > 0 {
				brackets--
			}
		case TokenSemicolon:
			if braces == 0 && brackets == 0 {
				return tokens
			}
		}
		tokens = append(tokens, p.advance())
	}
	return tokens
}

// parseTriggerValue parses a trigger body property value: an optional VAR
// block of locals followed by a BEGIN..END statement block.
func (p *Parser) parseTriggerValue(name string) (*Trigger, *ParseError) {
	trig := &Trigger{Name: name}
	start := p.peek()

	if p.check(TokenVar) {
		p.advance()
		locals, err := p.parseVariableDecls()
		if err != nil {
			return nil, err
		}
		trig.Locals = locals
	}

	body, err := p.parseCompoundStatement()
	if err != nil {
		return nil, err
	}
	trig.Body = body

	trig.setSpan(start, p.prev())
	return trig, nil
}

// parseVariableDecls parses `Name@id : Type;` declarations until something
// that cannot start another declaration.
func (p *Parser) parseVariableDecls() ([]*Variable, *ParseError) {
	var vars []*Variable
	for p.isIdentLike() {
		progress := p.mustProgress()
		v, err := p.parseVariableDecl()
		if err != nil {
			return vars, err
		}
		vars = append(vars, v)
		if !progress() {
			break
		}
	}
	return vars, nil
}

func (p *Parser) parseVariableDecl() (*Variable, *ParseError) {
	nameTok := p.advance()
	v := &Variable{Name: nameTok.Literal, NameToken: nameTok}

	if p.check(TokenAt) {
		p.advance()
		if p.check(TokenInteger) {
			v.ID, _ = strconv.Atoi(p.advance().Literal)
		}
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	dt, err := p.parseTypeReference(TokenSemicolon, TokenRBrace, TokenBegin)
	if err != nil {
		return nil, err
	}
	v.DataType = dt

	if p.check(TokenSemicolon) {
		p.advance()
	}
	v.setSpan(nameTok, p.prev())
	return v, nil
}

// parseAttributes captures `[Name]` / `[Name(args)]` annotations preceding a
// procedure declaration. Arguments are kept as a raw token span so
// arbitrarily complex arguments survive unevaluated.
func (p *Parser) parseAttributes() ([]*Attribute, *ParseError) {
	var attrs []*Attribute
	for p.check(TokenLBracket) {
		progress := p.mustProgress()
		attr, err := p.parseAttribute()
		if err != nil {
			return attrs, err
		}
		attrs = append(attrs, attr)
		if !progress() {
			break
		}
	}
	return attrs, nil
}

func (p *Parser) parseAttribute() (*Attribute, *ParseError) {
	open := p.advance() // [
	attr := &Attribute{}

	if !p.isIdentLike() {
		return nil, expectedError(p.peek(), "attribute name")
	}
	attr.Name = p.advance().Literal

	if p.check(TokenLParen) {
		p.advance()
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
				attr.ArgTokens = append(attr.ArgTokens, p.advance())
			}
		}
		if depth > 0 {
			return nil, unclosedError(open, "attribute argument list")
		}
	}

	closeTok, err := p.expect(TokenRBracket)
	if err != nil {
		return nil, err
	}
	attr.setSpan(open, closeTok)
	return attr, nil
}

func equalFold(a, b string) bool {
	return upper(a) == upper(b)
}
