package parser

// Hierarchy builders convert flat, indent-tagged item lists into forests.
// The algorithm is shared: pop while the stack top's indent is >= the
// current item's, attach to the new top or collect as a root, then push.
// Negative indent levels are clamped to 0 with a diagnostic.

type indentNode interface {
	indent() int
	clampIndent()
	indentToken() Token
}

func (a *Action) indent() int         { return a.IndentLevel }
func (a *Action) clampIndent()        { a.IndentLevel = 0 }
func (a *Action) indentToken() Token  { return a.Start }
func (c *Control) indent() int        { return c.IndentLevel }
func (c *Control) clampIndent()       { c.IndentLevel = 0 }
func (c *Control) indentToken() Token { return c.Start }
func (e *Element) indent() int        { return e.IndentLevel }
func (e *Element) clampIndent()       { e.IndentLevel = 0 }
func (e *Element) indentToken() Token { return e.Start }

func buildForest[T indentNode](items []T, attach func(parent, child T)) ([]T, []ParseError) {
	var roots []T
	var stack []T
	var errs []ParseError

	for _, item := range items {
		if item.indent() < 0 {
			errs = append(errs, ParseError{
				Message: "negative indent level clamped to 0",
				Token:   item.indentToken(),
				Code:    CodeExpectedToken,
			})
			item.clampIndent()
		}

		for len(stack) > 0 && stack[len(stack)-1].indent() >= item.indent() {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, item)
		} else {
			attach(stack[len(stack)-1], item)
		}
		stack = append(stack, item)
	}

	return roots, errs
}

// BuildActionTree reconstructs the action forest of a page or report from
// its flat item list. Sibling order matches input order.
func BuildActionTree(items []*Action) ([]*Action, []ParseError) {
	return buildForest(items, func(parent, child *Action) {
		parent.Children = append(parent.Children, child)
	})
}

// BuildControlTree reconstructs the control forest of a page.
func BuildControlTree(items []*Control) ([]*Control, []ParseError) {
	return buildForest(items, func(parent, child *Control) {
		parent.Children = append(parent.Children, child)
	})
}

// BuildElementTree reconstructs the node forest of an XML port.
func BuildElementTree(items []*Element) ([]*Element, []ParseError) {
	return buildForest(items, func(parent, child *Element) {
		parent.Children = append(parent.Children, child)
	})
}
