package parser

// Level is the logical lexing context. It is derived from brace depth, the
// most recently opened section, and BEGIN..END nesting rather than from a
// pushed/popped stack, so every brace transition rebuilds it the same way.
type Level int

const (
	// LevelObject is the top of an object body, where section keywords
	// introduce sections.
	LevelObject Level = iota
	// LevelSection is inside a declared section, directly below the object
	// body.
	LevelSection
	// LevelCode is inside a BEGIN..END body anywhere, including trigger
	// bodies nested in property values.
	LevelCode
)

func (l Level) String() string {
	switch l {
	case LevelObject:
		return "object"
	case LevelSection:
		return "section"
	case LevelCode:
		return "code"
	default:
		return "unknown"
	}
}

// lexContext is the finite-state machine deciding keyword downgrading. The
// scanning loop feeds it one event per structural token; Level() is
// recomputed from the counters on every query.
type lexContext struct {
	braceDepth  int
	codeDepth   int
	lastSection TokenKind
}

func newLexContext() *lexContext {
	return &lexContext{lastSection: TokenEOF}
}

func (c *lexContext) Level() Level {
	if c.codeDepth > 0 {
		return LevelCode
	}
	if c.braceDepth >= 2 {
		return LevelSection
	}
	return LevelObject
}

func (c *lexContext) Section() TokenKind {
	return c.lastSection
}

// Observe updates the context from one emitted token. BEGIN and CASE each
// open a body closed by END, so both raise the code depth; counting CASE
// keeps the depth balanced when a CASE's END is seen.
func (c *lexContext) Observe(kind TokenKind) {
	switch kind {
	case TokenLBrace:
		c.braceDepth++
	case TokenRBrace:
		if c.braceDepth > 0 {
			c.braceDepth--
		}
		if c.braceDepth <= 1 {
			c.lastSection = TokenEOF
		}
	case TokenBegin:
		c.codeDepth++
	case TokenCase:
		// CASE opens an END-closed body only inside code; the bare word in
		// a property value must not flip the context.
		if c.codeDepth > 0 {
			c.codeDepth++
		}
	case TokenEnd:
		if c.codeDepth > 0 {
			c.codeDepth--
		}
	default:
		if IsSectionKeyword(kind) && c.Level() != LevelCode {
			c.lastSection = kind
		}
	}
}

// Downgrade reports whether a keyword of the given kind must be emitted as a
// plain identifier in the current context. beforeBrace tells whether the
// next meaningful byte after the word is `{`, the section-header position.
func (c *lexContext) Downgrade(kind TokenKind, beforeBrace bool) bool {
	if !IsDowngradable(kind) {
		return false
	}
	if c.Level() == LevelCode {
		return true
	}
	// Inside the object body a section or object-kind word is a keyword only
	// in header position, directly before its opening brace; anywhere else
	// it is a declared name (the Currency table has a field called Code).
	// The OBJECT header line at depth zero keeps its kind words.
	return c.braceDepth > 0 && !beforeBrace
}
