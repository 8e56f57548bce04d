package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/cside/cal/parser"
)

// Label renders the distinguishing detail of a node for tree and JSON
// output: names for declarations, operators for expressions, values for
// literals. Nodes whose kind says everything get an empty label.
func Label(n parser.Node) string {
	switch v := n.(type) {
	case *parser.ObjectDeclaration:
		return fmt.Sprintf("%s %d %s", v.ObjectKind, v.ID, v.Name)
	case *parser.Property:
		return v.Name
	case *parser.Trigger:
		return v.Name
	case *parser.Field:
		return fmt.Sprintf("%d %s", v.No, v.FieldName)
	case *parser.Key:
		return strings.Join(v.Fields, ",")
	case *parser.FieldGroup:
		return v.Name
	case *parser.Action:
		return fmt.Sprintf("%d %s", v.ID, v.ActionKind)
	case *parser.Control:
		return fmt.Sprintf("%d %s", v.ID, v.ControlKind)
	case *parser.Element:
		return v.Name
	case *parser.Variable:
		return v.Name
	case *parser.Parameter:
		if v.ByRef {
			return "VAR " + v.Name
		}
		return v.Name
	case *parser.Procedure:
		return v.Name
	case *parser.Attribute:
		return v.Name
	case *parser.TypeReference:
		return v.TypeName
	case *parser.CalcFormula:
		return v.Method
	case *parser.TableRelation:
		return v.Table
	case *parser.BinaryExpression:
		return v.Op.Literal
	case *parser.UnaryExpression:
		return v.Op.Literal
	case *parser.MemberAccess:
		return "." + v.Member
	case *parser.ScopeAccess:
		return "::" + v.Member
	case *parser.Identifier:
		return v.Name
	case *parser.Literal:
		return v.Value
	}
	return ""
}
