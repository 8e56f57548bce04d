package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/cside/cal/parser"
)

const vendorTable = `OBJECT Table 23 Vendor
{
  PROPERTIES
  {
    CaptionML=ENU=Vendor;
  }
  FIELDS
  {
    { 1 ; ; No. ; Code20 }
    { 2 ; ; Name ; Text50 }
  }
  KEYS
  {
    { ; No. ; Clustered=Yes }
  }
  CODE
  {
    PROCEDURE GetName@1() : Text;
    BEGIN
      EXIT(Name);
    END;

    BEGIN
    END.
  }
}`

func parseObject(t *testing.T, source string) *parser.Document {
	t.Helper()
	doc, errs := parser.ParseText([]byte(source))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return doc
}

func TestASTJSONEncoder(t *testing.T) {
	doc := parseObject(t, vendorTable)

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(doc); err != nil {
		t.Fatal(err)
	}

	var root astJSONNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if root.Kind != "Document" {
		t.Errorf("got root kind %q, want Document", root.Kind)
	}
	if len(root.Children) != 1 || root.Children[0].Kind != "ObjectDeclaration" {
		t.Fatalf("object missing from JSON tree")
	}
	obj := root.Children[0]
	if obj.Label != "Table 23 Vendor" {
		t.Errorf("got object label %q", obj.Label)
	}
	if obj.Span == nil || obj.Span.Start.Line != 1 {
		t.Errorf("object span not emitted: %+v", obj.Span)
	}
}

func TestTreeEncoder(t *testing.T) {
	doc := parseObject(t, vendorTable)

	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(doc); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "Document") {
		t.Errorf("first line %q, want the document root", lines[0])
	}
	if !strings.Contains(out, "ObjectDeclaration Table 23 Vendor") {
		t.Errorf("object line missing:\n%s", out)
	}
	if !strings.Contains(out, "Field 1 No.") {
		t.Errorf("field line missing:\n%s", out)
	}

	// Children are indented below their parents.
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("non-root line %q not indented", line)
		}
	}
}

func TestObjectJSONEncoder(t *testing.T) {
	doc := parseObject(t, vendorTable)

	var buf bytes.Buffer
	if err := NewObjectJSONEncoder(&buf).Encode(doc.Object); err != nil {
		t.Fatal(err)
	}

	var obj jsonObject
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if obj.Kind != "Table" || obj.ID != 23 || obj.Name != "Vendor" {
		t.Errorf("got %s %d %q, want Table 23 Vendor", obj.Kind, obj.ID, obj.Name)
	}
	if len(obj.Fields) != 2 || obj.Fields[0].Type != "Code20" {
		t.Errorf("fields wrong: %+v", obj.Fields)
	}
	if len(obj.Keys) != 1 || !obj.Keys[0].Clustered {
		t.Errorf("clustered key not detected: %+v", obj.Keys)
	}
	if len(obj.Procedures) != 1 || obj.Procedures[0].ReturnType != "Text" {
		t.Errorf("procedures wrong: %+v", obj.Procedures)
	}
	if len(obj.Properties) != 1 || obj.Properties[0].Value != "ENU=Vendor" {
		t.Errorf("properties wrong: %+v", obj.Properties)
	}
}
