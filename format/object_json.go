package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/cside/cal/parser"
)

// ObjectJSONEncoder renders the summary view of a parsed object: identity,
// fields, keys, and procedure signatures, without statement-level detail.
type ObjectJSONEncoder struct {
	w   io.Writer
	obj *parser.ObjectDeclaration
}

func NewObjectJSONEncoder(w io.Writer) *ObjectJSONEncoder {
	return &ObjectJSONEncoder{w: w}
}

func (e *ObjectJSONEncoder) Encode(obj *parser.ObjectDeclaration) error {
	e.obj = obj
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ObjectJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildObjectData(), "", "  ")
}

type jsonObject struct {
	Kind       string          `json:"kind"`
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Properties []jsonProperty  `json:"properties,omitempty"`
	Fields     []jsonObjField  `json:"fields,omitempty"`
	Keys       []jsonKey       `json:"keys,omitempty"`
	Procedures []jsonProcedure `json:"procedures,omitempty"`
}

type jsonProperty struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type jsonObjField struct {
	No   int    `json:"no"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type jsonKey struct {
	Fields    []string `json:"fields"`
	Clustered bool     `json:"clustered,omitempty"`
}

type jsonProcedure struct {
	Name       string          `json:"name"`
	ID         int             `json:"id,omitempty"`
	Kind       string          `json:"kind"`
	Local      bool            `json:"local,omitempty"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	ReturnType string          `json:"returnType,omitempty"`
}

type jsonParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	ByRef bool   `json:"byRef,omitempty"`
}

func (e *ObjectJSONEncoder) buildObjectData() jsonObject {
	obj := e.obj
	data := jsonObject{
		Kind: obj.ObjectKind.String(),
		ID:   obj.ID,
		Name: obj.Name,
	}

	if obj.Properties != nil {
		for _, prop := range obj.Properties.Properties {
			data.Properties = append(data.Properties, jsonProperty{
				Name:  prop.Name,
				Value: propertyValue(prop),
			})
		}
	}

	if obj.Fields != nil {
		for _, f := range obj.Fields.Fields {
			jf := jsonObjField{No: f.No, Name: f.FieldName}
			if f.DataType != nil {
				jf.Type = typeText(f.DataType)
			}
			data.Fields = append(data.Fields, jf)
		}
	}

	if obj.Keys != nil {
		for _, k := range obj.Keys.Keys {
			data.Keys = append(data.Keys, jsonKey{
				Fields:    k.Fields,
				Clustered: keyIsClustered(k),
			})
		}
	}

	if obj.Code != nil {
		for _, proc := range obj.Code.Procedures {
			data.Procedures = append(data.Procedures, buildProcedure(proc))
		}
	}

	return data
}

func buildProcedure(proc *parser.Procedure) jsonProcedure {
	jp := jsonProcedure{
		Name:  proc.Name,
		ID:    proc.ID,
		Kind:  proc.ProcedureKind.String(),
		Local: proc.Local,
	}
	for _, param := range proc.Parameters {
		p := jsonParameter{Name: param.Name, ByRef: param.ByRef}
		if param.DataType != nil {
			p.Type = typeText(param.DataType)
		}
		jp.Parameters = append(jp.Parameters, p)
	}
	if proc.ReturnType != nil {
		jp.ReturnType = typeText(proc.ReturnType)
	}
	return jp
}

// propertyValue flattens a property's value to display text. Trigger values
// render as a marker instead of their statements.
func propertyValue(prop *parser.Property) string {
	switch {
	case prop.Trigger != nil:
		return "<trigger>"
	case prop.CalcFormula != nil:
		return prop.CalcFormula.Method
	case prop.Relation != nil:
		return prop.Relation.Table
	}
	return joinTokens(prop.ValueTokens)
}

func keyIsClustered(k *parser.Key) bool {
	for _, prop := range k.Properties {
		if strings.EqualFold(prop.Name, "Clustered") {
			return strings.EqualFold(joinTokens(prop.ValueTokens), "Yes")
		}
	}
	return false
}

func typeText(ref *parser.TypeReference) string {
	return joinTokens(ref.Tokens)
}

// joinTokens rejoins raw tokens by source adjacency.
func joinTokens(tokens []parser.Token) string {
	var b strings.Builder
	prevEnd := -1
	for _, tok := range tokens {
		if b.Len() > 0 && tok.Span.Start.Offset > prevEnd {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Literal)
		prevEnd = tok.Span.End.Offset
	}
	return b.String()
}
