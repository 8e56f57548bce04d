package parser

import "testing"

func kindsOf(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "object header",
			input: "OBJECT Table 18 Customer",
			want:  []TokenKind{TokenObject, TokenTable, TokenInteger, TokenIdent, TokenEOF},
		},
		{
			name:  "operators munch longest first",
			input: ":= :: <> <= >= .. : < >",
			want: []TokenKind{
				TokenAssign, TokenColonColon, TokenNotEqual, TokenLessEqual,
				TokenGreaterEqual, TokenDotDot, TokenColon, TokenLess,
				TokenGreater, TokenEOF,
			},
		},
		{
			name:  "numbers",
			input: "42 3.14 1..5",
			want: []TokenKind{
				TokenInteger, TokenDecimal, TokenInteger, TokenDotDot,
				TokenInteger, TokenEOF,
			},
		},
		{
			name:  "date and time suffixes",
			input: "311224D 120000T 0DT",
			want:  []TokenKind{TokenDate, TokenTime, TokenDateTime, TokenEOF},
		},
		{
			name:  "line comment is trivia",
			input: "BEGIN // nothing to see\nEND",
			want:  []TokenKind{TokenBegin, TokenEnd, TokenEOF},
		},
		{
			name:  "unknown byte",
			input: "a # b",
			want:  []TokenKind{TokenIdent, TokenUnknown, TokenIdent, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize([]byte(tt.input))
			got := kindsOf(tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_StringEscaping(t *testing.T) {
	// Doubled quotes inside a string literal collapse into one quote.
	tokens := Tokenize([]byte("'A''B'"))
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want string + EOF", len(tokens))
	}
	if tokens[0].Kind != TokenString {
		t.Fatalf("got kind %v, want TokenString", tokens[0].Kind)
	}
	if tokens[0].Literal != "A'B" {
		t.Errorf("got literal %q, want %q", tokens[0].Literal, "A'B")
	}
}

func TestTokenize_QuotedIdentDoesNotEscape(t *testing.T) {
	// Unlike strings, doubled double-quotes do not escape. "A""B" is two
	// adjacent quoted identifiers.
	tokens := Tokenize([]byte(`"A""B"`))
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens %v, want two quoted idents + EOF", len(tokens), kindsOf(tokens))
	}
	for i := 0; i < 2; i++ {
		if tokens[i].Kind != TokenQuotedIdent {
			t.Errorf("token %d: got kind %v, want TokenQuotedIdent", i, tokens[i].Kind)
		}
	}
	if tokens[0].Literal != "A" || tokens[1].Literal != "B" {
		t.Errorf("got literals %q, %q, want A, B", tokens[0].Literal, tokens[1].Literal)
	}
}

func TestTokenize_CaseInsensitiveKeywords(t *testing.T) {
	tokens := Tokenize([]byte("begin Begin BEGIN"))
	for i := 0; i < 3; i++ {
		if tokens[i].Kind != TokenBegin {
			t.Errorf("token %d: got kind %v, want TokenBegin", i, tokens[i].Kind)
		}
	}
}

func TestTokenize_SpanCoversRawText(t *testing.T) {
	input := []byte("PROPERTIES { Name='it''s' }")
	tokens := Tokenize(input)
	for _, tok := range tokens {
		if tok.Kind == TokenEOF {
			continue
		}
		raw := string(input[tok.Span.Start.Offset:tok.Span.End.Offset])
		if raw == "" {
			t.Errorf("token %v has empty span", tok.Kind)
		}
		if tok.Kind == TokenString && raw != "'it''s'" {
			t.Errorf("string span covers %q, want raw literal with quotes", raw)
		}
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens := Tokenize([]byte("OBJECT\n  Table"))
	if p := tokens[0].Span.Start; p.Line != 1 || p.Column != 1 || p.Offset != 0 {
		t.Errorf("OBJECT starts at %+v, want line 1 col 1 offset 0", p)
	}
	if p := tokens[1].Span.Start; p.Line != 2 || p.Column != 3 || p.Offset != 9 {
		t.Errorf("Table starts at %+v, want line 2 col 3 offset 9", p)
	}
}

func TestTokenize_ContextDowngrade(t *testing.T) {
	// Inside a code block, section and object-type words are plain
	// identifiers: a variable may be named Fields or Table.
	input := `OBJECT Codeunit 1 T
{
  CODE
  {
    BEGIN
      Fields := Table;
    END.
  }
}`
	tokens := Tokenize([]byte(input))
	var sawFieldsIdent, sawTableIdent bool
	for _, tok := range tokens {
		if tok.Kind == TokenIdent && tok.Literal == "Fields" {
			sawFieldsIdent = true
		}
		if tok.Kind == TokenIdent && tok.Literal == "Table" {
			sawTableIdent = true
		}
		if tok.Kind == TokenFields {
			t.Errorf("FIELDS kept keyword kind inside code block")
		}
	}
	if !sawFieldsIdent || !sawTableIdent {
		t.Errorf("expected Fields and Table as identifiers in code context")
	}
}

func TestTokenize_KeywordFieldNameDowngrades(t *testing.T) {
	// Keywords keep their kind only directly before a section's opening
	// brace; the Currency table's Code field is an ordinary name.
	input := `OBJECT Table 4 Currency
{
  FIELDS
  {
    { 1 ; ; Code ; Code10 }
  }
}`
	tokens := Tokenize([]byte(input))
	var fieldsHeaders, codeKeywords, codeIdents int
	for _, tok := range tokens {
		switch {
		case tok.Kind == TokenFields:
			fieldsHeaders++
		case tok.Kind == TokenCode:
			codeKeywords++
		case tok.Kind == TokenIdent && tok.Literal == "Code":
			codeIdents++
		}
	}
	if fieldsHeaders != 1 {
		t.Errorf("got %d FIELDS keywords, want the section header only", fieldsHeaders)
	}
	if codeKeywords != 0 || codeIdents != 1 {
		t.Errorf("got %d CODE keywords and %d Code identifiers, want 0 and 1", codeKeywords, codeIdents)
	}
}

func TestTokenize_CaseWordInPropertyValue(t *testing.T) {
	// A property value spelling the bare word CASE must not flip the lexer
	// into code context and downgrade the next section header.
	input := `OBJECT Page 1 T
{
  PROPERTIES
  {
    CaptionML=ENU=Case;
  }
  FIELDS
  {
  }
}`
	tokens := Tokenize([]byte(input))
	var sawFields bool
	for _, tok := range tokens {
		if tok.Kind == TokenFields {
			sawFields = true
		}
	}
	if !sawFields {
		t.Errorf("FIELDS header lost its keyword kind after a CASE property value")
	}
}

func TestTokenize_AtNumberDowngrade(t *testing.T) {
	// Any keyword directly followed by @digits is a declaration name.
	tokens := Tokenize([]byte("Table@1000 : Integer;"))
	if tokens[0].Kind != TokenIdent {
		t.Errorf("got kind %v for Table before @id, want TokenIdent", tokens[0].Kind)
	}
	if tokens[1].Kind != TokenAt || tokens[2].Kind != TokenInteger {
		t.Errorf("got %v %v after name, want @ and integer", tokens[1].Kind, tokens[2].Kind)
	}
}

func TestTokenize_ObjectPropertiesKeyword(t *testing.T) {
	tokens := Tokenize([]byte("OBJECT-PROPERTIES"))
	if tokens[0].Kind != TokenObjectProperties {
		t.Fatalf("got kind %v, want TokenObjectProperties", tokens[0].Kind)
	}
	if len(tokens) != 2 {
		t.Errorf("got %d tokens, want the compound keyword as one token", len(tokens)-1)
	}
}

func TestTokenize_CaseCountsAsCodeBlock(t *testing.T) {
	// CASE..END nests like BEGIN..END: the END closing a CASE must not
	// drop the lexer out of code context early.
	input := `OBJECT Codeunit 1 T
{
  CODE
  {
    BEGIN
      CASE x OF
        1: y := 2;
      END;
      Fields := 1;
    END.
  }
}`
	tokens := Tokenize([]byte(input))
	for _, tok := range tokens {
		if tok.Kind == TokenFields {
			t.Fatalf("lexer left code context after CASE's END")
		}
	}
}
