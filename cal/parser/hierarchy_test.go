package parser

import "testing"

func actionsWithIndents(indents ...int) []*Action {
	actions := make([]*Action, 0, len(indents))
	for i, indent := range indents {
		actions = append(actions, &Action{ID: i + 1, IndentLevel: indent})
	}
	return actions
}

func TestBuildActionTree_Nesting(t *testing.T) {
	// 0 1 2 1 0 shapes two roots, the first with two children and a
	// grandchild under the first child.
	roots, errs := BuildActionTree(actionsWithIndents(0, 1, 2, 1, 0))
	if len(errs) != 0 {
		t.Fatalf("got errors %v", errs)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	first := roots[0]
	if len(first.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(first.Children))
	}
	if first.Children[0].ID != 2 || first.Children[1].ID != 4 {
		t.Errorf("sibling order broken: %d, %d", first.Children[0].ID, first.Children[1].ID)
	}
	if len(first.Children[0].Children) != 1 || first.Children[0].Children[0].ID != 3 {
		t.Errorf("grandchild not attached to the deeper item")
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("second root should be a leaf")
	}
}

func TestBuildActionTree_EqualIndentIsSibling(t *testing.T) {
	// A child's indent must be strictly greater than its parent's; equal
	// indents are siblings.
	roots, _ := BuildActionTree(actionsWithIndents(0, 0, 0))
	if len(roots) != 3 {
		t.Fatalf("got %d roots, want 3 siblings", len(roots))
	}
}

func TestBuildActionTree_SkippedLevels(t *testing.T) {
	// Indent jumping from 0 to 3 still nests directly; the later indent 1
	// pops back to the root's child position.
	roots, _ := BuildActionTree(actionsWithIndents(0, 3, 1))
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("got %d children, want both deeper items", len(roots[0].Children))
	}
}

func TestBuildActionTree_NegativeIndentClamps(t *testing.T) {
	roots, errs := BuildActionTree(actionsWithIndents(0, -2))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want one clamp diagnostic", len(errs))
	}
	if len(roots) != 2 {
		t.Errorf("got %d roots, want clamped item as second root", len(roots))
	}
	if roots[1].IndentLevel != 0 {
		t.Errorf("got indent %d after clamp, want 0", roots[1].IndentLevel)
	}
}

func TestBuildControlTree_DeepPop(t *testing.T) {
	controls := []*Control{
		{ID: 1, IndentLevel: 0},
		{ID: 2, IndentLevel: 1},
		{ID: 3, IndentLevel: 2},
		{ID: 4, IndentLevel: 3},
		{ID: 5, IndentLevel: 0},
	}
	roots, errs := BuildControlTree(controls)
	if len(errs) != 0 {
		t.Fatalf("got errors %v", errs)
	}
	if len(roots) != 2 || roots[1].ID != 5 {
		t.Fatalf("pop to root broken: %d roots", len(roots))
	}
	if len(roots[0].Children) != 1 || len(roots[0].Children[0].Children) != 1 {
		t.Errorf("chain nesting broken")
	}
}

func TestBuildElementTree_Order(t *testing.T) {
	elements := []*Element{
		{Name: "Root", IndentLevel: 0},
		{Name: "A", IndentLevel: 1},
		{Name: "B", IndentLevel: 1},
		{Name: "C", IndentLevel: 1},
	}
	roots, _ := BuildElementTree(elements)
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	got := roots[0].Children
	if len(got) != 3 || got[0].Name != "A" || got[1].Name != "B" || got[2].Name != "C" {
		t.Errorf("sibling order not preserved: %+v", got)
	}
}
