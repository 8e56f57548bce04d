package parser

import "testing"

func TestLexContext_Levels(t *testing.T) {
	ctx := newLexContext()
	if ctx.Level() != LevelObject {
		t.Fatalf("fresh context at %v, want object level", ctx.Level())
	}

	ctx.Observe(TokenLBrace) // object body
	if ctx.Level() != LevelObject {
		t.Errorf("after object brace: %v, want object level", ctx.Level())
	}

	ctx.Observe(TokenFields)
	ctx.Observe(TokenLBrace) // section body
	if ctx.Level() != LevelSection {
		t.Errorf("inside section: %v, want section level", ctx.Level())
	}
	if ctx.Section() != TokenFields {
		t.Errorf("got section %v, want FIELDS", ctx.Section())
	}

	ctx.Observe(TokenBegin)
	if ctx.Level() != LevelCode {
		t.Errorf("inside BEGIN: %v, want code level", ctx.Level())
	}

	ctx.Observe(TokenEnd)
	if ctx.Level() != LevelSection {
		t.Errorf("after END: %v, want section level again", ctx.Level())
	}

	ctx.Observe(TokenRBrace) // close section
	if ctx.Level() != LevelObject {
		t.Errorf("after section close: %v, want object level", ctx.Level())
	}
	if ctx.Section() != TokenEOF {
		t.Errorf("section sticky after close: %v", ctx.Section())
	}
}

func TestLexContext_CaseBalancesEnd(t *testing.T) {
	ctx := newLexContext()
	ctx.Observe(TokenLBrace)
	ctx.Observe(TokenLBrace)
	ctx.Observe(TokenBegin)
	ctx.Observe(TokenCase)
	ctx.Observe(TokenEnd) // closes the CASE
	if ctx.Level() != LevelCode {
		t.Fatalf("CASE's END dropped out of code level")
	}
	ctx.Observe(TokenEnd) // closes the BEGIN
	if ctx.Level() != LevelSection {
		t.Errorf("after final END: %v, want section level", ctx.Level())
	}
}

func TestLexContext_Downgrade(t *testing.T) {
	ctx := newLexContext()
	if ctx.Downgrade(TokenTable, false) {
		t.Errorf("Table downgraded on the OBJECT header line")
	}

	ctx.Observe(TokenLBrace) // object body
	if ctx.Downgrade(TokenFields, true) {
		t.Errorf("section keyword downgraded in header position")
	}
	if !ctx.Downgrade(TokenFields, false) {
		t.Errorf("section keyword kept away from its opening brace")
	}

	ctx.Observe(TokenFields)
	ctx.Observe(TokenLBrace) // section body
	if !ctx.Downgrade(TokenCode, false) {
		t.Errorf("keyword-named item kept inside a section")
	}

	ctx.Observe(TokenBegin)
	if !ctx.Downgrade(TokenTable, false) || !ctx.Downgrade(TokenFields, true) {
		t.Errorf("object and section keywords kept in code context")
	}
	if ctx.Downgrade(TokenBegin, false) || ctx.Downgrade(TokenIf, false) {
		t.Errorf("code keywords must never downgrade")
	}
}

func TestLexContext_CaseOutsideCodeStaysPut(t *testing.T) {
	ctx := newLexContext()
	ctx.Observe(TokenLBrace)
	ctx.Observe(TokenProperties)
	ctx.Observe(TokenLBrace)
	ctx.Observe(TokenCase)
	if ctx.Level() != LevelSection {
		t.Fatalf("bare CASE at section level entered code context: %v", ctx.Level())
	}
	ctx.Observe(TokenEnd)
	if ctx.Level() != LevelSection {
		t.Errorf("stray END after bare CASE broke the level: %v", ctx.Level())
	}
}

func TestLexContext_UnbalancedBracesClamp(t *testing.T) {
	ctx := newLexContext()
	ctx.Observe(TokenRBrace)
	ctx.Observe(TokenRBrace)
	if ctx.Level() != LevelObject {
		t.Errorf("stray closing braces broke the level: %v", ctx.Level())
	}
	ctx.Observe(TokenEnd)
	if ctx.Level() != LevelObject {
		t.Errorf("stray END raised code depth: %v", ctx.Level())
	}
}
