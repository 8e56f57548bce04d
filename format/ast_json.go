package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/cside/cal/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Label    string         `json:"label,omitempty"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(n parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:  n.Kind().String(),
		Label: Label(n),
	}

	span := n.Span()
	if span.Start.Line != 0 || span.End.Line != 0 {
		jn.Span = &astJSONSpan{
			Start: astJSONPosition{Line: span.Start.Line, Column: span.Start.Column},
			End:   astJSONPosition{Line: span.End.Line, Column: span.End.Column},
		}
	}

	children := parser.Children(n)
	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
