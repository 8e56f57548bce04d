package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cside/cal/parser"
)

// TreeEncoder writes an indented one-node-per-line dump of the AST, the
// compact form used by `cside parse` without --json.
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node parser.Node) error {
	return e.encode(node, 0)
}

func (e *TreeEncoder) encode(n parser.Node, depth int) error {
	line := n.Kind().String()
	if label := Label(n); label != "" {
		line += " " + label
	}
	span := n.Span()
	if span.Start.Line != 0 {
		line += fmt.Sprintf(" [%d:%d-%d:%d]", span.Start.Line, span.Start.Column, span.End.Line, span.End.Column)
	}

	if _, err := fmt.Fprintf(e.w, "%s%s\n", strings.Repeat("  ", depth), line); err != nil {
		return err
	}
	for _, child := range parser.Children(n) {
		if err := e.encode(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
