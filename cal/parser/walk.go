package parser

// Children returns the direct child nodes of n in source order. Nil children
// are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		out = append(out, c)
	}

	switch v := n.(type) {
	case *Document:
		if v.Object != nil {
			add(v.Object)
		}
	case *ObjectDeclaration:
		if v.Properties != nil {
			add(v.Properties)
		}
		if v.Fields != nil {
			add(v.Fields)
		}
		if v.Keys != nil {
			add(v.Keys)
		}
		if v.FieldGroups != nil {
			add(v.FieldGroups)
		}
		if v.Actions != nil {
			add(v.Actions)
		}
		if v.Controls != nil {
			add(v.Controls)
		}
		if v.Elements != nil {
			add(v.Elements)
		}
		if v.Code != nil {
			add(v.Code)
		}
	case *PropertySection:
		for _, prop := range v.Properties {
			add(prop)
		}
	case *Property:
		if v.Trigger != nil {
			add(v.Trigger)
		}
		if v.CalcFormula != nil {
			add(v.CalcFormula)
		}
		if v.Relation != nil {
			add(v.Relation)
		}
	case *Trigger:
		for _, local := range v.Locals {
			add(local)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *FieldSection:
		for _, f := range v.Fields {
			add(f)
		}
	case *Field:
		if v.DataType != nil {
			add(v.DataType)
		}
		for _, prop := range v.Properties {
			add(prop)
		}
	case *KeySection:
		for _, k := range v.Keys {
			add(k)
		}
	case *Key:
		for _, prop := range v.Properties {
			add(prop)
		}
	case *FieldGroupSection:
		for _, g := range v.Groups {
			add(g)
		}
	case *ActionSection:
		for _, a := range v.Items {
			add(a)
		}
	case *Action:
		for _, prop := range v.Properties {
			add(prop)
		}
	case *ControlSection:
		for _, c := range v.Items {
			add(c)
		}
	case *Control:
		for _, prop := range v.Properties {
			add(prop)
		}
	case *ElementSection:
		for _, e := range v.Items {
			add(e)
		}
	case *Element:
		for _, prop := range v.Properties {
			add(prop)
		}
	case *CodeSection:
		for _, g := range v.Variables {
			add(g)
		}
		for _, proc := range v.Procedures {
			add(proc)
		}
		if v.Documentation != nil {
			add(v.Documentation)
		}
	case *Variable:
		if v.DataType != nil {
			add(v.DataType)
		}
	case *Parameter:
		if v.DataType != nil {
			add(v.DataType)
		}
	case *Procedure:
		for _, attr := range v.Attributes {
			add(attr)
		}
		for _, param := range v.Parameters {
			add(param)
		}
		if v.ReturnType != nil {
			add(v.ReturnType)
		}
		for _, local := range v.Locals {
			add(local)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *CompoundStatement:
		for _, s := range v.Statements {
			add(s)
		}
	case *IfStatement:
		if v.Condition != nil {
			add(v.Condition)
		}
		if v.Then != nil {
			add(v.Then)
		}
		if v.Else != nil {
			add(v.Else)
		}
	case *WhileStatement:
		if v.Condition != nil {
			add(v.Condition)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *RepeatStatement:
		for _, s := range v.Body {
			add(s)
		}
		if v.Condition != nil {
			add(v.Condition)
		}
	case *ForStatement:
		if v.Variable != nil {
			add(v.Variable)
		}
		if v.From != nil {
			add(v.From)
		}
		if v.To != nil {
			add(v.To)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *CaseStatement:
		if v.Expr != nil {
			add(v.Expr)
		}
		for _, b := range v.Branches {
			add(b)
		}
		for _, s := range v.Else {
			add(s)
		}
	case *CaseBranch:
		for _, val := range v.Values {
			add(val)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *WithStatement:
		if v.Target != nil {
			add(v.Target)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *ExitStatement:
		if v.Value != nil {
			add(v.Value)
		}
	case *AssignmentStatement:
		if v.Target != nil {
			add(v.Target)
		}
		if v.Value != nil {
			add(v.Value)
		}
	case *ExpressionStatement:
		if v.Expr != nil {
			add(v.Expr)
		}
	case *BinaryExpression:
		if v.Left != nil {
			add(v.Left)
		}
		if v.Right != nil {
			add(v.Right)
		}
	case *UnaryExpression:
		if v.Operand != nil {
			add(v.Operand)
		}
	case *CallExpression:
		if v.Callee != nil {
			add(v.Callee)
		}
		for _, arg := range v.Args {
			add(arg)
		}
	case *MemberAccess:
		if v.Target != nil {
			add(v.Target)
		}
	case *ScopeAccess:
		if v.Target != nil {
			add(v.Target)
		}
	case *IndexExpression:
		if v.Target != nil {
			add(v.Target)
		}
		for _, idx := range v.Indexes {
			add(idx)
		}
	case *RangeExpression:
		if v.Low != nil {
			add(v.Low)
		}
		if v.High != nil {
			add(v.High)
		}
	case *SetExpression:
		for _, e := range v.Elements {
			add(e)
		}
	case *ParenExpression:
		if v.Inner != nil {
			add(v.Inner)
		}
	}
	return out
}

// Walk calls fn for n and every descendant, depth first. Traversal stops
// below any node for which fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}
