package parser

// Lexer converts C/SIDE export text into a flat token stream. It is total:
// unrecognized bytes become Unknown tokens and scanning always reaches the
// synthetic EOF token. All state is local to one instance and discarded
// after Tokenize.
type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
	ctx    *lexContext
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
		ctx:    newLexContext(),
	}
}

// Tokenize scans the whole input. The returned slice is strictly ordered,
// non-overlapping, and always ends with an EOF token at end-of-text.
func Tokenize(input []byte) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) Position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipTrivia() {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
			continue
		}
		if ch == '/' && l.peekN(1) == '/' {
			for l.peek() != 0 && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

// nextMeaningfulByte looks past whitespace and line comments without
// consuming, returning the first byte that would start a token.
func (l *Lexer) nextMeaningfulByte() byte {
	pos := l.pos
	for pos < len(l.input) {
		ch := l.input[pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			pos++
			continue
		}
		if ch == '/' && pos+1 < len(l.input) && l.input[pos+1] == '/' {
			for pos < len(l.input) && l.input[pos] != '\n' {
				pos++
			}
			continue
		}
		return ch
	}
	return 0
}

func (l *Lexer) NextToken() Token {
	l.skipTrivia()
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()

	if isLetter(ch) {
		tok := l.scanIdentOrKeyword(start)
		l.ctx.Observe(tok.Kind)
		return tok
	}

	if isDigit(ch) {
		return l.scanNumber(start)
	}

	if ch == '\'' {
		return l.scanString(start)
	}

	if ch == '"' {
		return l.scanQuotedIdent(start)
	}

	tok := l.scanOperator(start)
	l.ctx.Observe(tok.Kind)
	return tok
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	literal := string(l.input[start.Offset:l.pos])

	// OBJECT-PROPERTIES is the one keyword containing a dash.
	if upper(literal) == "OBJECT" && l.peek() == '-' {
		rest := l.input[l.pos:]
		if len(rest) >= 11 && upper(string(rest[:11])) == "-PROPERTIES" {
			if len(rest) == 11 || !isLetterOrDigit(rest[11]) {
				l.advanceN(11)
				return l.token(TokenObjectProperties, start)
			}
		}
	}

	kind := LookupKeyword(literal)
	if kind != TokenIdent {
		// A keyword carrying an @number auto-numbering suffix is always a
		// declared name, regardless of context.
		if l.peek() == '@' && isDigit(l.peekN(1)) {
			kind = TokenIdent
		} else if l.ctx.Downgrade(kind, l.nextMeaningfulByte() == '{') {
			kind = TokenIdent
		}
	}

	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}

	kind := TokenInteger
	// A dot begins a decimal part only when followed by a digit; "1..5" must
	// leave the range operator intact.
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		kind = TokenDecimal
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// Date/time suffixes, maximal munch: DT before D.
	switch {
	case (l.peek() == 'D' || l.peek() == 'd') && (l.peekN(1) == 'T' || l.peekN(1) == 't') && !isLetterOrDigit(l.peekN(2)):
		l.advanceN(2)
		kind = TokenDateTime
	case (l.peek() == 'D' || l.peek() == 'd') && !isLetterOrDigit(l.peekN(1)):
		l.advance()
		kind = TokenDate
	case (l.peek() == 'T' || l.peek() == 't') && !isLetterOrDigit(l.peekN(1)):
		l.advance()
		kind = TokenTime
	}

	return l.token(kind, start)
}

// scanString scans a single-quoted string. A doubled quote inside the string
// is an escaped literal quote; the token's Literal holds the unescaped
// content while the span still covers both delimiters.
func (l *Lexer) scanString(start Position) Token {
	l.advance()
	var value []byte
	for {
		ch := l.peek()
		if ch == 0 {
			break
		}
		if ch == '\'' {
			if l.peekN(1) == '\'' {
				value = append(value, '\'')
				l.advanceN(2)
				continue
			}
			l.advance()
			break
		}
		value = append(value, ch)
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenString,
		Span:    Span{Start: start, End: end},
		Literal: string(value),
	}
}

// scanQuotedIdent scans a double-quoted identifier. There is no doubled-quote
// escape here: a "" inside is the closing quote immediately followed by the
// next identifier's opening quote, yielding two adjacent tokens.
func (l *Lexer) scanQuotedIdent(start Position) Token {
	l.advance()
	contentStart := l.pos
	for l.peek() != 0 && l.peek() != '"' {
		l.advance()
	}
	literal := string(l.input[contentStart:l.pos])
	if l.peek() == '"' {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenQuotedIdent,
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '=':
		l.advance()
		return l.token(TokenEquals, start)
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '-':
		l.advance()
		return l.token(TokenMinus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)

	case '.':
		if l.peekN(1) == '.' {
			l.advanceN(2)
			return l.token(TokenDotDot, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case ':':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenAssign, start)
		}
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		l.advance()
		return l.token(TokenColon, start)

	case '<':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenNotEqual, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLessEqual, start)
		}
		l.advance()
		return l.token(TokenLess, start)

	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGreaterEqual, start)
		}
		l.advance()
		return l.token(TokenGreater, start)
	}

	l.advance()
	return l.token(TokenUnknown, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 128
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
