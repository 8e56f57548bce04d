package parser

import "fmt"

// Diagnostic codes. Stable taxonomy tags used by tests and by downstream
// severity mapping.
const (
	CodeExpectedToken = "parse-expected-token"
	CodeUnclosedBlock = "parse-unclosed-block"
	CodeRecovery      = "parse-error-recovery"
	CodeALOnlySyntax  = "parse-al-only-syntax"
)

// ParseError is one diagnostic anchored to a token. It doubles as the result
// error of sub-parsers: a failing sub-parser returns a *ParseError to its
// caller, which either records it and resynchronizes or bubbles it further.
// Parse itself never lets one escape.
type ParseError struct {
	Message string
	Token   Token
	Code    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Span.Start.Line, e.Token.Span.Start.Column, e.Message)
}

func expectedError(tok Token, what string) *ParseError {
	got := tok.Kind.String()
	if tok.Kind == TokenIdent || tok.Kind == TokenQuotedIdent {
		got = fmt.Sprintf("%q", tok.Literal)
	}
	return &ParseError{
		Message: fmt.Sprintf("expected %s, got %s", what, got),
		Token:   tok,
		Code:    CodeExpectedToken,
	}
}

func unclosedError(tok Token, what string) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("unclosed %s", what),
		Token:   tok,
		Code:    CodeUnclosedBlock,
	}
}

func recoveryError(tok Token, skipped int) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("skipped %d token(s) while recovering", skipped),
		Token:   tok,
		Code:    CodeRecovery,
	}
}
