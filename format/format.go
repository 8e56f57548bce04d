package format

import (
	"github.com/dhamidi/cside/cal/parser"
)

// Encoder renders an AST to some output form.
type Encoder interface {
	Encode(node parser.Node) error
}

var (
	_ Encoder = (*ASTJSONEncoder)(nil)
	_ Encoder = (*TreeEncoder)(nil)
)
