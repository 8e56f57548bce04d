package parser

import (
	"strconv"
	"strings"
)

// Parser consumes a token stream and produces a Document plus an ordered
// list of diagnostics. It is strictly forward-moving: every recovery loop
// either consumes at least one token or terminates at end-of-input, and
// Parse never panics or returns nil.
type Parser struct {
	tokens []Token
	pos    int
	errors []ParseError
}

func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}
	return &Parser{tokens: tokens}
}

// ParseText tokenizes and parses in one step.
func ParseText(input []byte) (*Document, []ParseError) {
	p := NewParser(Tokenize(input))
	doc := p.Parse()
	return doc, p.Errors()
}

func (p *Parser) Errors() []ParseError {
	return p.errors
}

func (p *Parser) record(err *ParseError) {
	if err != nil {
		p.errors = append(p.errors, *err)
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) prev() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	// The stream always ends with EOF; the cursor parks there.
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind TokenKind) (Token, *ParseError) {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return tok, nil
	}
	return tok, expectedError(tok, kind.String())
}

// mustProgress guards a loop against spinning in place. Call it at the top
// of an iteration and the returned func at the bottom; it advances one token
// and reports false when the iteration consumed nothing.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) isIdentLike() bool {
	k := p.peek().Kind
	return k == TokenIdent || k == TokenQuotedIdent
}

// Parse runs the full pipeline over the token stream. The returned Document
// is never nil; malformed input yields a partial tree plus diagnostics.
func (p *Parser) Parse() *Document {
	doc := &Document{}
	start := p.peek()

	if p.check(TokenObject) {
		doc.Object = p.parseObject()
	} else if !p.check(TokenEOF) {
		p.record(expectedError(p.peek(), "OBJECT"))
	}

	end := p.prev()
	if p.pos == 0 {
		end = start
	}
	doc.setSpan(start, end)
	return doc
}

func (p *Parser) parseObject() *ObjectDeclaration {
	obj := &ObjectDeclaration{}
	start := p.advance() // OBJECT

	if IsObjectKind(p.peek().Kind) {
		obj.ObjectKind = objectKindOf(p.advance().Kind)
	} else {
		p.record(expectedError(p.peek(), "object type"))
	}

	if p.check(TokenInteger) {
		tok := p.advance()
		obj.ID, _ = strconv.Atoi(tok.Literal)
	} else {
		p.record(expectedError(p.peek(), "object id"))
	}

	obj.Name, obj.NameToken = p.parseObjectName()

	if _, err := p.expect(TokenLBrace); err != nil {
		p.record(err)
		obj.setSpan(start, p.prev())
		return obj
	}

	p.parseObjectBody(obj)
	obj.setSpan(start, p.prev())
	return obj
}

// parseObjectName collects the name tokens up to the opening brace. Object
// names in exports are unquoted and may contain spaces, dots, and dashes
// (Sales-Post, Cust. Ledger Entry), so tokens are rejoined by source
// adjacency rather than with fixed separators.
func (p *Parser) parseObjectName() (string, Token) {
	var b strings.Builder
	var first Token
	prevEnd := -1
	for !p.check(TokenLBrace) && !p.check(TokenEOF) {
		tok := p.advance()
		if b.Len() == 0 {
			first = tok
		} else if tok.Span.Start.Offset > prevEnd {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Literal)
		prevEnd = tok.Span.End.Offset
	}
	return b.String(), first
}

// parseObjectBody dispatches on the next token to one of the known section
// parsers, skips unsupported sections wholesale, and breaks when the body
// closes or nothing matches anymore.
func (p *Parser) parseObjectBody(obj *ObjectDeclaration) {
	for {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenRBrace:
			p.advance()
			return
		case TokenEOF:
			p.record(unclosedError(p.peek(), "object body"))
			return
		case TokenProperties:
			section := p.parsePropertySection()
			if obj.Properties == nil {
				obj.Properties = section
			} else {
				p.record(expectedError(section.Start, "single PROPERTIES section"))
			}
		case TokenFields:
			section := p.parseFieldSection()
			if obj.Fields == nil {
				obj.Fields = section
			}
		case TokenKeys:
			section := p.parseKeySection()
			if obj.Keys == nil {
				obj.Keys = section
			}
		case TokenFieldGroups:
			section := p.parseFieldGroupSection()
			if obj.FieldGroups == nil {
				obj.FieldGroups = section
			}
		case TokenActions:
			section := p.parseActionSection()
			if obj.Actions == nil {
				obj.Actions = section
			}
		case TokenControls:
			section := p.parseControlSection()
			if obj.Controls == nil {
				obj.Controls = section
			}
		case TokenElements:
			section := p.parseElementSection()
			if obj.Elements == nil {
				obj.Elements = section
			}
		case TokenCode:
			section := p.parseCodeSection()
			if obj.Code == nil {
				obj.Code = section
			}
		case TokenObjectProperties, TokenDataset, TokenLabels, TokenRequestPage,
			TokenRequestForm, TokenMenuNodes, TokenDataItems:
			p.skipSection()
		default:
			p.record(expectedError(p.peek(), "section keyword"))
			p.resyncToSection()
		}
		if !progress() {
			return
		}
	}
}

// skipSection scans an unsupported section wholesale: the keyword, its
// braces, and everything inside. The section is not modeled in the AST.
func (p *Parser) skipSection() {
	p.advance() // section keyword
	if _, err := p.expect(TokenLBrace); err != nil {
		p.record(err)
		return
	}
	depth := 1
	for depth > 0 {
		switch p.peek().Kind {
		case TokenEOF:
			p.record(unclosedError(p.peek(), "section"))
			return
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
		p.advance()
	}
}

// resyncToSection advances until the next known section keyword at object
// depth, or the brace that closes the object body.
func (p *Parser) resyncToSection() {
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
		default:
			if depth == 0 && (IsSectionKeyword(p.peek().Kind) || p.peek().Kind == TokenObjectProperties) {
				return
			}
		}
		p.advance()
	}
}

// resyncItem advances after a broken item until the next item's opening
// brace or the brace that closes the section. A closing brace at item depth
// is disambiguated by peeking one token past it: another `{` or `}` or a
// section keyword means the brace closed the broken item.
func (p *Parser) resyncItem() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLBrace:
			if depth == 0 {
				return
			}
			depth++
			p.advance()
		case TokenRBrace:
			if depth > 0 {
				depth--
				p.advance()
				continue
			}
			next := p.peekN(1)
			if next.Kind == TokenLBrace || next.Kind == TokenRBrace {
				p.advance()
				return
			}
			// Anything else after the brace means it closes the section;
			// leave it for the section parser.
			return
		default:
			p.advance()
		}
	}
}

// parseItemSection is the shared driver for brace-delimited item lists:
// parse items in a loop, log and resynchronize per broken item so already
// parsed siblings stay intact, and report a missing section close exactly
// once.
func (p *Parser) parseItemSection(what string, parseItem func() *ParseError) (start, end Token) {
	start = p.advance() // section keyword
	if _, err := p.expect(TokenLBrace); err != nil {
		p.record(err)
		return start, p.prev()
	}
	for p.check(TokenLBrace) {
		progress := p.mustProgress()
		if err := parseItem(); err != nil {
			p.record(err)
			p.resyncItem()
		}
		if !progress() {
			break
		}
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		p.record(unclosedError(p.prev(), what))
	}
	return start, p.prev()
}

func (p *Parser) parseFieldSection() *FieldSection {
	section := &FieldSection{}
	start, end := p.parseItemSection("FIELDS section", func() *ParseError {
		field, err := p.parseField()
		if err != nil {
			return err
		}
		section.Fields = append(section.Fields, field)
		return nil
	})
	section.setSpan(start, end)
	return section
}

func (p *Parser) parseField() (*Field, *ParseError) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	field := &Field{}

	// Cell 1: field number.
	if p.check(TokenInteger) {
		field.No, _ = strconv.Atoi(p.advance().Literal)
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	// Cell 2: enabled flag, usually empty.
	field.Enabled = p.collectCell()
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	// Cell 3: field name.
	if !p.isIdentLike() {
		return nil, expectedError(p.peek(), "field name")
	}
	field.NameToken = p.peek()
	field.FieldName = p.parseDottedName()
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	// Cell 4: data type.
	dt, err := p.parseTypeReference(TokenSemicolon, TokenRBrace)
	if err != nil {
		return nil, err
	}
	field.DataType = dt

	// Remaining cells: properties.
	props, err := p.parseItemProperties()
	if err != nil {
		return nil, err
	}
	field.Properties = props

	closeTok, err := p.expect(TokenRBrace)
	if err != nil {
		return nil, err
	}
	field.setSpan(open, closeTok)
	return field, nil
}

// parseItemProperties parses the trailing `;Name=Value` cells of an item up
// to its closing brace.
func (p *Parser) parseItemProperties() ([]*Property, *ParseError) {
	var props []*Property
	for p.check(TokenSemicolon) {
		progress := p.mustProgress()
		p.advance()
		if p.check(TokenRBrace) || p.check(TokenEOF) {
			break
		}
		prop, err := p.parseProperty()
		if err != nil {
			return props, err
		}
		props = append(props, prop)
		if !progress() {
			break
		}
	}
	return props, nil
}

// collectCell joins the raw tokens of one `;`-separated cell. Brackets and
// braces nest, so a GUID cell like [{...}] survives intact.
func (p *Parser) collectCell() string {
	var out string
	depth := 0
	for !p.check(TokenEOF) {
		k := p.peek().Kind
		if depth == 0 && (k == TokenSemicolon || k == TokenRBrace) {
			break
		}
		switch k {
		case TokenLBracket, TokenLBrace:
			depth++
		case TokenRBracket, TokenRBrace:
			depth--
		}
		tok := p.advance()
		if out != "" && tok.Kind == TokenIdent {
			out += " "
		}
		out += tok.Literal
	}
	return out
}

func (p *Parser) parseTypeReference(stops ...TokenKind) (*TypeReference, *ParseError) {
	ref := &TypeReference{}
	start := p.peek()
	for !p.match(append(stops, TokenEOF)...) {
		ref.Tokens = append(ref.Tokens, p.advance())
	}
	if len(ref.Tokens) == 0 {
		return nil, expectedError(start, "data type")
	}
	ref.TypeName = ref.Tokens[0].Literal
	ref.setSpan(ref.Tokens[0], ref.Tokens[len(ref.Tokens)-1])
	return ref, nil
}

func (p *Parser) parseKeySection() *KeySection {
	section := &KeySection{}
	start, end := p.parseItemSection("KEYS section", func() *ParseError {
		key, err := p.parseKey()
		if err != nil {
			return err
		}
		section.Keys = append(section.Keys, key)
		return nil
	})
	section.setSpan(start, end)
	return section
}

func (p *Parser) parseKey() (*Key, *ParseError) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	key := &Key{}

	key.Enabled = p.collectCell()
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	// Comma-separated key field list.
	for p.isIdentLike() {
		key.Fields = append(key.Fields, p.parseDottedName())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	props, err := p.parseItemProperties()
	if err != nil {
		return nil, err
	}
	key.Properties = props

	closeTok, err := p.expect(TokenRBrace)
	if err != nil {
		return nil, err
	}
	key.setSpan(open, closeTok)
	return key, nil
}

// parseDottedName reads an identifier that may continue with dots and
// further words, e.g. No. or Cust. Ledger Entry. Adjacent tokens rejoin
// without a separator, so the trailing dot of an abbreviation stays attached.
func (p *Parser) parseDottedName() string {
	tok := p.advance()
	name := tok.Literal
	prevEnd := tok.Span.End.Offset
	for p.check(TokenDot) || p.isIdentLike() {
		tok = p.advance()
		if tok.Span.Start.Offset > prevEnd {
			name += " "
		}
		name += tok.Literal
		prevEnd = tok.Span.End.Offset
	}
	return name
}

func (p *Parser) parseFieldGroupSection() *FieldGroupSection {
	section := &FieldGroupSection{}
	start, end := p.parseItemSection("FIELDGROUPS section", func() *ParseError {
		group, err := p.parseFieldGroup()
		if err != nil {
			return err
		}
		section.Groups = append(section.Groups, group)
		return nil
	})
	section.setSpan(start, end)
	return section
}

func (p *Parser) parseFieldGroup() (*FieldGroup, *ParseError) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	group := &FieldGroup{}

	if p.check(TokenInteger) {
		group.ID, _ = strconv.Atoi(p.advance().Literal)
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	if !p.isIdentLike() {
		return nil, expectedError(p.peek(), "field group name")
	}
	group.Name = p.advance().Literal
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	for p.isIdentLike() {
		group.Fields = append(group.Fields, p.parseDottedName())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}

	closeTok, err := p.expect(TokenRBrace)
	if err != nil {
		return nil, err
	}
	group.setSpan(open, closeTok)
	return group, nil
}

func (p *Parser) parseActionSection() *ActionSection {
	section := &ActionSection{}
	start, end := p.parseItemSection("ACTIONS section", func() *ParseError {
		action, err := p.parseAction()
		if err != nil {
			return err
		}
		section.Items = append(section.Items, action)
		return nil
	})
	section.setSpan(start, end)
	roots, errs := BuildActionTree(section.Items)
	section.Roots = roots
	p.errors = append(p.errors, errs...)
	return section
}

func (p *Parser) parseAction() (*Action, *ParseError) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	action := &Action{}

	if p.check(TokenInteger) {
		action.ID, _ = strconv.Atoi(p.advance().Literal)
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	indent, err := p.parseIndentCell()
	if err != nil {
		return nil, err
	}
	action.IndentLevel = indent

	if p.isIdentLike() {
		action.ActionKind = p.advance().Literal
	}

	props, err := p.parseItemProperties()
	if err != nil {
		return nil, err
	}
	action.Properties = props

	closeTok, err := p.expect(TokenRBrace)
	if err != nil {
		return nil, err
	}
	action.setSpan(open, closeTok)
	return action, nil
}

// parseIndentCell reads the `;indent;` cell shared by actions, controls,
// and elements. The cell may be empty or negative.
func (p *Parser) parseIndentCell() (int, *ParseError) {
	indent := 0
	negative := false
	if p.check(TokenMinus) {
		negative = true
		p.advance()
	}
	if p.check(TokenInteger) {
		indent, _ = strconv.Atoi(p.advance().Literal)
	}
	if negative {
		indent = -indent
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return indent, err
	}
	return indent, nil
}

func (p *Parser) parseControlSection() *ControlSection {
	section := &ControlSection{}
	start, end := p.parseItemSection("CONTROLS section", func() *ParseError {
		control, err := p.parseControl()
		if err != nil {
			return err
		}
		section.Items = append(section.Items, control)
		return nil
	})
	section.setSpan(start, end)
	roots, errs := BuildControlTree(section.Items)
	section.Roots = roots
	p.errors = append(p.errors, errs...)
	return section
}

func (p *Parser) parseControl() (*Control, *ParseError) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	control := &Control{}

	if p.check(TokenInteger) {
		control.ID, _ = strconv.Atoi(p.advance().Literal)
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	indent, err := p.parseIndentCell()
	if err != nil {
		return nil, err
	}
	control.IndentLevel = indent

	if p.isIdentLike() {
		control.ControlKind = p.advance().Literal
	}

	props, err := p.parseItemProperties()
	if err != nil {
		return nil, err
	}
	control.Properties = props

	closeTok, err := p.expect(TokenRBrace)
	if err != nil {
		return nil, err
	}
	control.setSpan(open, closeTok)
	return control, nil
}

func (p *Parser) parseElementSection() *ElementSection {
	section := &ElementSection{}
	start, end := p.parseItemSection("ELEMENTS section", func() *ParseError {
		element, err := p.parseElement()
		if err != nil {
			return err
		}
		section.Items = append(section.Items, element)
		return nil
	})
	section.setSpan(start, end)
	roots, errs := BuildElementTree(section.Items)
	section.Roots = roots
	p.errors = append(p.errors, errs...)
	return section
}

func (p *Parser) parseElement() (*Element, *ParseError) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	element := &Element{}

	// Cell 1: node id, typically a bracketed GUID.
	element.ID = p.collectCell()
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	indent, err := p.parseIndentCell()
	if err != nil {
		return nil, err
	}
	element.IndentLevel = indent

	// Cell 3: node name.
	if !p.isIdentLike() {
		return nil, expectedError(p.peek(), "element name")
	}
	element.NameToken = p.advance()
	element.Name = element.NameToken.Literal
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	// Cell 4: node type (Element, Attribute, Text, Table, Field).
	if p.isIdentLike() {
		element.ElementKind = p.advance().Literal
	}

	// Cell 5: source type, optional.
	if p.check(TokenSemicolon) && p.peekN(1).Kind != TokenRBrace {
		next := p.peekN(1)
		if next.Kind == TokenIdent || next.Kind == TokenQuotedIdent {
			// Only a bare name cell is a source type; Name=Value is already
			// a property.
			if p.peekN(2).Kind != TokenEquals {
				p.advance()
				element.SourceType = p.advance().Literal
			}
		}
	}

	props, err := p.parseItemProperties()
	if err != nil {
		return nil, err
	}
	element.Properties = props

	closeTok, err := p.expect(TokenRBrace)
	if err != nil {
		return nil, err
	}
	element.setSpan(open, closeTok)
	return element, nil
}
