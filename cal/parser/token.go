package parser

type Position struct {
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset <= s.End.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenUnknown

	// Literals and names
	TokenIdent
	TokenQuotedIdent
	TokenString
	TokenInteger
	TokenDecimal
	TokenDate
	TokenTime
	TokenDateTime

	// Object kinds
	TokenObject
	TokenTable
	TokenForm
	TokenPage
	TokenReport
	TokenCodeunit
	TokenXMLport
	TokenDataport
	TokenQuery
	TokenMenuSuite

	// Section keywords
	TokenObjectProperties
	TokenProperties
	TokenFields
	TokenKeys
	TokenFieldGroups
	TokenActions
	TokenControls
	TokenElements
	TokenDataset
	TokenLabels
	TokenCode
	TokenRequestPage
	TokenRequestForm
	TokenMenuNodes
	TokenDataItems

	// Code keywords
	TokenBegin
	TokenEnd
	TokenIf
	TokenThen
	TokenElse
	TokenWhile
	TokenDo
	TokenRepeat
	TokenUntil
	TokenFor
	TokenTo
	TokenDownTo
	TokenCase
	TokenOf
	TokenExit
	TokenBreak
	TokenWith
	TokenVar
	TokenLocal
	TokenProcedure
	TokenFunction
	TokenTrigger
	TokenEvent

	// Word operators
	TokenNot
	TokenAnd
	TokenOr
	TokenXor
	TokenDiv
	TokenMod
	TokenIn
	TokenTrue
	TokenFalse

	// Punctuation and operators
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenSemicolon
	TokenColon
	TokenComma
	TokenDot
	TokenDotDot
	TokenEquals
	TokenNotEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual
	TokenAssign
	TokenColonColon
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenAt
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenUnknown:          "Unknown",
	TokenIdent:            "Identifier",
	TokenQuotedIdent:      "QuotedIdentifier",
	TokenString:           "String",
	TokenInteger:          "Integer",
	TokenDecimal:          "Decimal",
	TokenDate:             "Date",
	TokenTime:             "Time",
	TokenDateTime:         "DateTime",
	TokenObject:           "OBJECT",
	TokenTable:            "Table",
	TokenForm:             "Form",
	TokenPage:             "Page",
	TokenReport:           "Report",
	TokenCodeunit:         "Codeunit",
	TokenXMLport:          "XMLport",
	TokenDataport:         "Dataport",
	TokenQuery:            "Query",
	TokenMenuSuite:        "MenuSuite",
	TokenObjectProperties: "OBJECT-PROPERTIES",
	TokenProperties:       "PROPERTIES",
	TokenFields:           "FIELDS",
	TokenKeys:             "KEYS",
	TokenFieldGroups:      "FIELDGROUPS",
	TokenActions:          "ACTIONS",
	TokenControls:         "CONTROLS",
	TokenElements:         "ELEMENTS",
	TokenDataset:          "DATASET",
	TokenLabels:           "LABELS",
	TokenCode:             "CODE",
	TokenRequestPage:      "REQUESTPAGE",
	TokenRequestForm:      "REQUESTFORM",
	TokenMenuNodes:        "MENUNODES",
	TokenDataItems:        "DATAITEMS",
	TokenBegin:            "BEGIN",
	TokenEnd:              "END",
	TokenIf:               "IF",
	TokenThen:             "THEN",
	TokenElse:             "ELSE",
	TokenWhile:            "WHILE",
	TokenDo:               "DO",
	TokenRepeat:           "REPEAT",
	TokenUntil:            "UNTIL",
	TokenFor:              "FOR",
	TokenTo:               "TO",
	TokenDownTo:           "DOWNTO",
	TokenCase:             "CASE",
	TokenOf:               "OF",
	TokenExit:             "EXIT",
	TokenBreak:            "BREAK",
	TokenWith:             "WITH",
	TokenVar:              "VAR",
	TokenLocal:            "LOCAL",
	TokenProcedure:        "PROCEDURE",
	TokenFunction:         "FUNCTION",
	TokenTrigger:          "TRIGGER",
	TokenEvent:            "EVENT",
	TokenNot:              "NOT",
	TokenAnd:              "AND",
	TokenOr:               "OR",
	TokenXor:              "XOR",
	TokenDiv:              "DIV",
	TokenMod:              "MOD",
	TokenIn:               "IN",
	TokenTrue:             "TRUE",
	TokenFalse:            "FALSE",
	TokenLBrace:           "{",
	TokenRBrace:           "}",
	TokenLBracket:         "[",
	TokenRBracket:         "]",
	TokenLParen:           "(",
	TokenRParen:           ")",
	TokenSemicolon:        ";",
	TokenColon:            ":",
	TokenComma:            ",",
	TokenDot:              ".",
	TokenDotDot:           "..",
	TokenEquals:           "=",
	TokenNotEqual:         "<>",
	TokenLess:             "<",
	TokenLessEqual:        "<=",
	TokenGreater:          ">",
	TokenGreaterEqual:     ">=",
	TokenAssign:           ":=",
	TokenColonColon:       "::",
	TokenPlus:             "+",
	TokenMinus:            "-",
	TokenStar:             "*",
	TokenSlash:            "/",
	TokenAt:               "@",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is one lexed unit. Span offsets always bound the raw source text of
// the token, delimiters included, so input[Span.Start.Offset:Span.End.Offset]
// reconstructs it exactly. Literal holds the cooked value: for strings the
// unescaped content, for quoted identifiers the text between the quotes, and
// the raw text for everything else.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) IsEOF() bool {
	return t.Kind == TokenEOF
}

// keywords maps the upper-cased spelling to its kind. C/AL is
// case-insensitive, so lookup happens on the upper-cased identifier.
var keywords = map[string]TokenKind{
	"OBJECT":            TokenObject,
	"TABLE":             TokenTable,
	"FORM":              TokenForm,
	"PAGE":              TokenPage,
	"REPORT":            TokenReport,
	"CODEUNIT":          TokenCodeunit,
	"XMLPORT":           TokenXMLport,
	"DATAPORT":          TokenDataport,
	"QUERY":             TokenQuery,
	"MENUSUITE":         TokenMenuSuite,
	"OBJECT-PROPERTIES": TokenObjectProperties,
	"PROPERTIES":        TokenProperties,
	"FIELDS":            TokenFields,
	"KEYS":              TokenKeys,
	"FIELDGROUPS":       TokenFieldGroups,
	"ACTIONS":           TokenActions,
	"CONTROLS":          TokenControls,
	"ELEMENTS":          TokenElements,
	"DATASET":           TokenDataset,
	"LABELS":            TokenLabels,
	"CODE":              TokenCode,
	"REQUESTPAGE":       TokenRequestPage,
	"REQUESTFORM":       TokenRequestForm,
	"MENUNODES":         TokenMenuNodes,
	"DATAITEMS":         TokenDataItems,
	"BEGIN":             TokenBegin,
	"END":               TokenEnd,
	"IF":                TokenIf,
	"THEN":              TokenThen,
	"ELSE":              TokenElse,
	"WHILE":             TokenWhile,
	"DO":                TokenDo,
	"REPEAT":            TokenRepeat,
	"UNTIL":             TokenUntil,
	"FOR":               TokenFor,
	"TO":                TokenTo,
	"DOWNTO":            TokenDownTo,
	"CASE":              TokenCase,
	"OF":                TokenOf,
	"EXIT":              TokenExit,
	"BREAK":             TokenBreak,
	"WITH":              TokenWith,
	"VAR":               TokenVar,
	"LOCAL":             TokenLocal,
	"PROCEDURE":         TokenProcedure,
	"FUNCTION":          TokenFunction,
	"TRIGGER":           TokenTrigger,
	"EVENT":             TokenEvent,
	"NOT":               TokenNot,
	"AND":               TokenAnd,
	"OR":                TokenOr,
	"XOR":               TokenXor,
	"DIV":               TokenDiv,
	"MOD":               TokenMod,
	"IN":                TokenIn,
	"TRUE":              TokenTrue,
	"FALSE":             TokenFalse,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[upper(ident)]; ok {
		return kind
	}
	return TokenIdent
}

// upper avoids strings.ToUpper for the ASCII-only keyword set; identifiers
// containing non-ASCII bytes can never be keywords.
func upper(s string) string {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		buf[i] = ch
	}
	return string(buf)
}

// IsObjectKind reports whether the kind names an object type after OBJECT.
func IsObjectKind(k TokenKind) bool {
	switch k {
	case TokenTable, TokenForm, TokenPage, TokenReport, TokenCodeunit,
		TokenXMLport, TokenDataport, TokenQuery, TokenMenuSuite:
		return true
	}
	return false
}

// IsSectionKeyword reports whether the kind opens a section inside an object
// body.
func IsSectionKeyword(k TokenKind) bool {
	switch k {
	case TokenObjectProperties, TokenProperties, TokenFields, TokenKeys,
		TokenFieldGroups, TokenActions, TokenControls, TokenElements,
		TokenDataset, TokenLabels, TokenCode, TokenRequestPage,
		TokenRequestForm, TokenMenuNodes, TokenDataItems:
		return true
	}
	return false
}

// IsDowngradable reports whether the kind is reclassified as a plain
// identifier inside code blocks: section keywords and object-type names are
// ordinary member or variable names there (WordDocument.Fields.Count).
func IsDowngradable(k TokenKind) bool {
	return IsSectionKeyword(k) || IsObjectKind(k)
}

// isWordKind reports whether the kind is an identifier, quoted identifier,
// or any keyword, i.e. anything spelled like a word.
func isWordKind(k TokenKind) bool {
	if k == TokenIdent || k == TokenQuotedIdent {
		return true
	}
	return k >= TokenObject && k <= TokenFalse
}

// IsProcedureBoundary reports whether the kind starts a new procedure-level
// declaration. Error recovery never consumes past one of these.
func IsProcedureBoundary(k TokenKind) bool {
	switch k {
	case TokenProcedure, TokenFunction, TokenTrigger, TokenEvent, TokenLocal:
		return true
	}
	return false
}
