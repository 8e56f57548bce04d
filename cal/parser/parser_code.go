package parser

import (
	"fmt"
	"strconv"
)

// parseCodeSection parses CODE { VAR ... PROCEDURE ... BEGIN ... END. }.
// Per-procedure errors are logged and recovery resumes at the next procedure
// boundary so one broken procedure never swallows the next one.
func (p *Parser) parseCodeSection() *CodeSection {
	section := &CodeSection{}
	start := p.advance() // CODE
	if _, err := p.expect(TokenLBrace); err != nil {
		p.record(err)
		section.setSpan(start, p.prev())
		return section
	}

	if p.check(TokenVar) {
		p.advance()
		globals, err := p.parseVariableDecls()
		if err != nil {
			p.record(err)
			p.resyncToProcedure()
		}
		section.Variables = globals
	}

	for {
		progress := p.mustProgress()
		switch {
		case p.check(TokenRBrace) || p.check(TokenEOF):
			// handled below
		case p.check(TokenBegin):
			// Trailing documentation block of the object.
			doc, err := p.parseCompoundStatement()
			if err != nil {
				p.record(err)
			}
			section.Documentation = doc
			if p.check(TokenDot) {
				p.advance()
			}
		case IsProcedureBoundary(p.peek().Kind) || p.check(TokenLBracket):
			proc, err := p.parseProcedure()
			if proc != nil {
				section.Procedures = append(section.Procedures, proc)
			}
			if err != nil {
				p.record(err)
				p.resyncToProcedure()
			}
		default:
			p.record(expectedError(p.peek(), "procedure declaration"))
			p.resyncToProcedure()
		}
		if p.check(TokenRBrace) || p.check(TokenEOF) {
			break
		}
		if !progress() {
			break
		}
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		p.record(unclosedError(p.prev(), "CODE section"))
	}
	section.setSpan(start, p.prev())
	return section
}

// resyncToProcedure skips to the next procedure-level declaration or the
// brace closing the CODE section. Procedure boundaries are never consumed.
func (p *Parser) resyncToProcedure() {
	skipped := 0
	first := p.peek()
	for !p.check(TokenEOF) {
		k := p.peek().Kind
		if IsProcedureBoundary(k) || k == TokenLBracket || k == TokenRBrace {
			break
		}
		p.advance()
		skipped++
	}
	if skipped > 0 {
		p.record(recoveryError(first, skipped))
	}
}

// parseProcedure parses attributes plus one PROCEDURE/FUNCTION/TRIGGER/EVENT
// declaration. It returns the partial node alongside an error when the body
// failed, so callers keep what was parsed.
func (p *Parser) parseProcedure() (*Procedure, *ParseError) {
	start := p.peek()
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}

	proc := &Procedure{Attributes: attrs}

	if p.check(TokenLocal) {
		proc.Local = true
		p.advance()
	}

	switch p.peek().Kind {
	case TokenProcedure:
		proc.ProcedureKind = ProcedureKindProcedure
	case TokenFunction:
		proc.ProcedureKind = ProcedureKindFunction
	case TokenTrigger:
		proc.ProcedureKind = ProcedureKindTrigger
	case TokenEvent:
		proc.ProcedureKind = ProcedureKindEvent
	default:
		return nil, expectedError(p.peek(), "PROCEDURE")
	}

	// Attributes before TRIGGER or EVENT are not part of the language; they
	// are reported once and discarded.
	if len(attrs) > 0 && (proc.ProcedureKind == ProcedureKindTrigger || proc.ProcedureKind == ProcedureKindEvent) {
		p.record(&ParseError{
			Message: fmt.Sprintf("%d attribute(s) ignored before %s declaration", len(attrs), proc.ProcedureKind),
			Token:   attrs[0].Start,
			Code:    CodeALOnlySyntax,
		})
		proc.Attributes = nil
	}
	p.advance()

	if !p.isIdentLike() {
		return proc, expectedError(p.peek(), "procedure name")
	}
	proc.NameToken = p.advance()
	proc.Name = proc.NameToken.Literal

	if p.check(TokenAt) {
		p.advance()
		if p.check(TokenInteger) {
			proc.ID, _ = strconv.Atoi(p.advance().Literal)
		}
	}

	if p.check(TokenLParen) {
		p.advance()
		params, err := p.parseParameters()
		if err != nil {
			return proc, err
		}
		proc.Parameters = params
		if _, err := p.expect(TokenRParen); err != nil {
			return proc, err
		}
	}

	// Optional named return value and/or return type.
	if p.isIdentLike() {
		proc.ReturnName = p.advance().Literal
	}
	if p.check(TokenColon) {
		p.advance()
		ret, err := p.parseTypeReference(TokenSemicolon, TokenVar, TokenBegin, TokenRBrace)
		if err != nil {
			return proc, err
		}
		proc.ReturnType = ret
	}
	if p.check(TokenSemicolon) {
		p.advance()
	}

	if p.check(TokenVar) {
		p.advance()
		locals, err := p.parseVariableDecls()
		if err != nil {
			return proc, err
		}
		proc.Locals = locals
	}

	if p.check(TokenBegin) {
		body, err := p.parseCompoundStatement()
		proc.Body = body
		if err != nil {
			proc.setSpan(start, p.prev())
			return proc, err
		}
		if p.check(TokenSemicolon) {
			p.advance()
		}
	} else if proc.ProcedureKind != ProcedureKindEvent {
		proc.setSpan(start, p.prev())
		return proc, expectedError(p.peek(), "BEGIN")
	}

	proc.setSpan(start, p.prev())
	return proc, nil
}

func (p *Parser) parseParameters() ([]*Parameter, *ParseError) {
	var params []*Parameter
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		param, err := p.parseParameter()
		if err != nil {
			return params, err
		}
		params = append(params, param)
		if p.check(TokenSemicolon) {
			p.advance()
		}
		if !progress() {
			break
		}
	}
	return params, nil
}

func (p *Parser) parseParameter() (*Parameter, *ParseError) {
	param := &Parameter{}
	start := p.peek()

	if p.check(TokenVar) {
		param.ByRef = true
		p.advance()
	}

	if !p.isIdentLike() {
		return nil, expectedError(p.peek(), "parameter name")
	}
	param.NameToken = p.advance()
	param.Name = param.NameToken.Literal

	if p.check(TokenAt) {
		p.advance()
		if p.check(TokenInteger) {
			param.ID, _ = strconv.Atoi(p.advance().Literal)
		}
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	dt, err := p.parseTypeReference(TokenSemicolon, TokenRParen)
	if err != nil {
		return nil, err
	}
	param.DataType = dt

	param.setSpan(start, p.prev())
	return param, nil
}

// Statements

// parseCompoundStatement parses BEGIN ... END. Statement errors inside the
// block are recorded and resynchronized locally; only a missing END escapes
// as an unclosed-block error.
func (p *Parser) parseCompoundStatement() (*CompoundStatement, *ParseError) {
	block := &CompoundStatement{}
	open, err := p.expect(TokenBegin)
	if err != nil {
		return nil, err
	}

	block.Statements = p.parseStatementList()

	closeTok, err := p.expect(TokenEnd)
	if err != nil {
		block.setSpan(open, p.prev())
		return block, unclosedError(open, "BEGIN block")
	}
	block.setSpan(open, closeTok)
	return block, nil
}

// statementListStop reports whether the token ends a statement sequence.
func statementListStop(k TokenKind) bool {
	switch k {
	case TokenEnd, TokenUntil, TokenElse, TokenEOF, TokenRBrace:
		return true
	}
	return IsProcedureBoundary(k)
}

func (p *Parser) parseStatementList() []Statement {
	var stmts []Statement
	for {
		progress := p.mustProgress()
		for p.check(TokenSemicolon) {
			p.advance()
		}
		if statementListStop(p.peek().Kind) {
			return stmts
		}
		stmt, err := p.parseStatement()
		if err != nil {
			p.record(err)
			p.resyncStatement()
		} else if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !progress() {
			return stmts
		}
	}
}

// resyncStatement skips to the next semicolon or END at the current nesting
// depth. BEGIN and CASE each open a body closed by END, so both raise the
// depth; an END at depth zero is left for the enclosing block, and recovery
// never advances past a procedure boundary or a closing brace.
func (p *Parser) resyncStatement() {
	depth := 0
	skipped := 0
	first := p.peek()
	for !p.check(TokenEOF) {
		k := p.peek().Kind
		if IsProcedureBoundary(k) || k == TokenRBrace {
			break
		}
		if k == TokenSemicolon && depth == 0 {
			p.advance()
			skipped++
			break
		}
		if k == TokenBegin || k == TokenCase {
			depth++
		}
		if k == TokenEnd {
			if depth == 0 {
				break
			}
			depth--
		}
		p.advance()
		skipped++
	}
	if skipped > 0 {
		p.record(recoveryError(first, skipped))
	}
}

func (p *Parser) parseStatement() (Statement, *ParseError) {
	switch p.peek().Kind {
	case TokenBegin:
		block, err := p.parseCompoundStatement()
		if err != nil {
			p.record(err)
		}
		return block, nil
	case TokenIf:
		return p.parseIfStatement()
	case TokenWhile:
		return p.parseWhileStatement()
	case TokenRepeat:
		return p.parseRepeatStatement()
	case TokenFor:
		return p.parseForStatement()
	case TokenCase:
		return p.parseCaseStatement()
	case TokenWith:
		return p.parseWithStatement()
	case TokenExit:
		return p.parseExitStatement()
	case TokenBreak:
		tok := p.advance()
		stmt := &BreakStatement{}
		stmt.setSpan(tok, tok)
		return stmt, nil
	}
	return p.parseSimpleStatement()
}

func (p *Parser) parseIfStatement() (Statement, *ParseError) {
	stmt := &IfStatement{}
	start := p.advance() // IF

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond

	if _, err := p.expect(TokenThen); err != nil {
		return nil, err
	}

	if !p.check(TokenElse) && !statementListStop(p.peek().Kind) && !p.check(TokenSemicolon) {
		then, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Then = then
	}

	if p.check(TokenElse) {
		p.advance()
		if !statementListStop(p.peek().Kind) && !p.check(TokenSemicolon) {
			alt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = alt
		}
	}

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (Statement, *ParseError) {
	stmt := &WhileStatement{}
	start := p.advance() // WHILE

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond

	if _, err := p.expect(TokenDo); err != nil {
		return nil, err
	}

	if !p.check(TokenSemicolon) && !statementListStop(p.peek().Kind) {
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
	}

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

func (p *Parser) parseRepeatStatement() (Statement, *ParseError) {
	stmt := &RepeatStatement{}
	start := p.advance() // REPEAT

	stmt.Body = p.parseStatementList()

	if _, err := p.expect(TokenUntil); err != nil {
		stmt.setSpan(start, p.prev())
		return stmt, unclosedError(start, "REPEAT block")
	}

	cond, err := p.parseExpression()
	if err != nil {
		return stmt, err
	}
	stmt.Condition = cond

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

func (p *Parser) parseForStatement() (Statement, *ParseError) {
	stmt := &ForStatement{}
	start := p.advance() // FOR

	v, err := p.parsePostfixExpression()
	if err != nil {
		return nil, err
	}
	stmt.Variable = v

	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}

	from, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.From = from

	switch p.peek().Kind {
	case TokenTo:
		p.advance()
	case TokenDownTo:
		stmt.Down = true
		p.advance()
	default:
		return nil, expectedError(p.peek(), "TO or DOWNTO")
	}

	to, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.To = to

	if _, err := p.expect(TokenDo); err != nil {
		return nil, err
	}

	if !p.check(TokenSemicolon) && !statementListStop(p.peek().Kind) {
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
	}

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

func (p *Parser) parseWithStatement() (Statement, *ParseError) {
	stmt := &WithStatement{}
	start := p.advance() // WITH

	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Target = target

	if _, err := p.expect(TokenDo); err != nil {
		return nil, err
	}

	if !p.check(TokenSemicolon) && !statementListStop(p.peek().Kind) {
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
	}

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

func (p *Parser) parseExitStatement() (Statement, *ParseError) {
	stmt := &ExitStatement{}
	start := p.advance() // EXIT

	if p.check(TokenLParen) {
		p.advance()
		if !p.check(TokenRParen) {
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Value = value
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	}

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

// parseSimpleStatement parses an expression statement, upgrading it to an
// assignment when := follows.
func (p *Parser) parseSimpleStatement() (Statement, *ParseError) {
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.check(TokenAssign) {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt := &AssignmentStatement{Target: expr, Value: value}
		stmt.setSpan(start, p.prev())
		return stmt, nil
	}

	stmt := &ExpressionStatement{Expr: expr}
	stmt.setSpan(start, p.prev())
	return stmt, nil
}

// parseCaseStatement parses CASE expr OF branches [ELSE stmts] END. Branch
// errors keep already-parsed case values in a partial branch, and an END
// that an outer construct owns is left unconsumed when the CASE itself is
// known to be broken.
func (p *Parser) parseCaseStatement() (Statement, *ParseError) {
	stmt := &CaseStatement{}
	start := p.advance() // CASE
	errored := false

	expr, err := p.parseExpression()
	if err != nil {
		p.record(err)
		errored = true
		p.resyncToCaseOf()
	} else {
		stmt.Expr = expr
	}

	if _, err := p.expect(TokenOf); err != nil {
		p.record(err)
		errored = true
	}

	for {
		progress := p.mustProgress()
		for p.check(TokenSemicolon) {
			p.advance()
		}
		k := p.peek().Kind
		if k == TokenEnd || k == TokenElse || k == TokenEOF || k == TokenRBrace || IsProcedureBoundary(k) {
			break
		}
		branch, branchErrored := p.parseCaseBranch()
		if branch != nil {
			stmt.Branches = append(stmt.Branches, branch)
		}
		if branchErrored {
			errored = true
		}
		if !progress() {
			break
		}
	}

	if p.check(TokenElse) {
		p.advance()
		stmt.Else = p.parseStatementList()
	}

	if p.check(TokenEnd) {
		// A malformed CASE may be missing its own END; when the next END is
		// directly followed by a procedure boundary or a closing brace it
		// belongs to the enclosing block and stays put.
		if errored && endBelongsToOuter(p.peekN(1).Kind) {
			p.record(unclosedError(start, "CASE statement"))
			stmt.setSpan(start, p.prev())
			return stmt, nil
		}
		p.advance()
	} else {
		p.record(unclosedError(start, "CASE statement"))
	}

	stmt.setSpan(start, p.prev())
	return stmt, nil
}

func endBelongsToOuter(next TokenKind) bool {
	return IsProcedureBoundary(next) || next == TokenRBrace || next == TokenEOF
}

func (p *Parser) resyncToCaseOf() {
	for !p.check(TokenEOF) {
		k := p.peek().Kind
		if k == TokenOf || k == TokenEnd || k == TokenRBrace || IsProcedureBoundary(k) {
			return
		}
		p.advance()
	}
}

// parseCaseBranch parses `value[,value|..value]: statement`. On error the
// partial branch with its parsed values is kept and marked incomplete.
func (p *Parser) parseCaseBranch() (*CaseBranch, bool) {
	branch := &CaseBranch{}
	start := p.peek()
	errored := false

	for {
		progress := p.mustProgress()
		value, err := p.parseCaseValue()
		if err != nil {
			p.record(&ParseError{
				Message: "case branch: " + err.Message,
				Token:   err.Token,
				Code:    err.Code,
			})
			errored = true
			branch.Incomplete = true
			p.resyncCaseBranch()
			break
		}
		branch.Values = append(branch.Values, value)
		if p.check(TokenComma) {
			p.advance()
			if !progress() {
				break
			}
			continue
		}
		break
	}

	if p.check(TokenColon) {
		p.advance()
		k := p.peek().Kind
		if k != TokenSemicolon && k != TokenEnd && k != TokenElse && !IsProcedureBoundary(k) && k != TokenRBrace && k != TokenEOF {
			body, err := p.parseStatement()
			if err != nil {
				p.record(err)
				errored = true
				branch.Incomplete = true
				p.resyncStatement()
			} else {
				branch.Body = body
			}
		}
	} else if !branch.Incomplete {
		err := expectedError(p.peek(), "':'")
		err.Message = "case branch: " + err.Message
		p.record(err)
		errored = true
		branch.Incomplete = true
		p.resyncCaseBranch()
		if p.check(TokenColon) {
			p.advance()
			if body, err := p.parseStatement(); err == nil {
				branch.Body = body
			} else {
				p.record(err)
				p.resyncStatement()
			}
		}
	}

	branch.setSpan(start, p.prev())
	return branch, errored
}

// resyncCaseBranch skips inside a broken branch up to the branch colon, the
// next separator, or the CASE's END, depth-aware like statement recovery.
func (p *Parser) resyncCaseBranch() {
	depth := 0
	for !p.check(TokenEOF) {
		k := p.peek().Kind
		if IsProcedureBoundary(k) || k == TokenRBrace {
			return
		}
		if depth == 0 && (k == TokenColon || k == TokenSemicolon || k == TokenElse) {
			return
		}
		if k == TokenBegin || k == TokenCase {
			depth++
		}
		if k == TokenEnd {
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}
