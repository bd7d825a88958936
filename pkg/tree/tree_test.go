package tree

import (
	"testing"
	"time"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

func makeTask(id, parentID string) model.Task {
	return model.Task{ID: id, Title: id, ParentID: parentID, Status: model.StatusPlanned, TaskType: model.TypeTask}
}

func walkIDs(t *Tree) []string {
	var ids []string
	t.Walk(func(n *Node) {
		ids = append(ids, n.Task.ID)
	}, nil)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildHierarchy(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{
		makeTask("root", ""),
		makeTask("child-b", "root"),
		makeTask("child-a", "root"),
		makeTask("grandchild", "child-a"),
	})

	if len(tr.Roots()) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tr.Roots()))
	}
	if got := walkIDs(tr); !equalIDs(got, []string{"root", "child-a", "grandchild", "child-b"}) {
		t.Errorf("pre-order = %v", got)
	}
	if tr.Len() != 4 {
		t.Errorf("Len = %d, want 4", tr.Len())
	}
}

func TestBuildDanglingParentBecomesRoot(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{
		makeTask("a", ""),
		makeTask("orphan", "no-such-task"),
	})

	if len(tr.Roots()) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tr.Roots()))
	}
	if tr.FindByID("orphan") == nil {
		t.Error("task with dangling parent must not disappear")
	}
}

func TestBuildBreaksCycles(t *testing.T) {
	// a -> b -> a, plus a self-loop. Without cycle detection this recurses
	// forever.
	tr := New()
	tr.Build([]model.Task{
		makeTask("a", "b"),
		makeTask("b", "a"),
		makeTask("self", "self"),
	})

	if tr.Len() == 0 {
		t.Fatal("cyclic input produced an empty tree")
	}
	seen := map[string]int{}
	tr.Walk(func(n *Node) { seen[n.Task.ID]++ }, nil)
	for id, count := range seen {
		if count > 2 {
			t.Errorf("task %s appears %d times, cycle not broken", id, count)
		}
	}
}

func TestBuildSiblingOrder(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }
	early := makeTask("z-early", "")
	early.Start = day(1)
	late := makeTask("a-late", "")
	late.Start = day(9)
	undatedA := makeTask("a-undated", "")
	undatedB := makeTask("b-undated", "")

	tr := New()
	tr.Build([]model.Task{undatedB, late, undatedA, early})

	want := []string{"z-early", "a-late", "a-undated", "b-undated"}
	if got := walkIDs(tr); !equalIDs(got, want) {
		t.Errorf("sibling order = %v, want %v (dates first, undated by ID)", got, want)
	}
}

func TestBuildFiresOneStructuralChange(t *testing.T) {
	tr := New()
	fired := 0
	tr.OnStructuralChange(func() { fired++ })

	tr.Build([]model.Task{
		makeTask("a", ""),
		makeTask("b", "a"),
		makeTask("c", "a"),
	})
	if fired != 1 {
		t.Errorf("Build fired %d structural changes, want 1", fired)
	}

	tr.Build(nil)
	if fired != 2 {
		t.Errorf("empty Build fired %d total, want 2", fired)
	}
	if tr.Len() != 0 {
		t.Errorf("empty Build left %d nodes", tr.Len())
	}
}

func TestWalkSkipsSubtrees(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{
		makeTask("a", ""),
		makeTask("a1", "a"),
		makeTask("a2", "a1"),
		makeTask("b", ""),
	})
	tr.FindByID("a1").SetCollapsed(true)

	var ids []string
	tr.Walk(func(n *Node) {
		ids = append(ids, n.Task.ID)
	}, func(n *Node) bool { return !n.Collapsed() })

	// The collapsed node itself stays visible, its subtree does not.
	if !equalIDs(ids, []string{"a", "a1", "b"}) {
		t.Errorf("collapse-aware walk = %v, want [a a1 b]", ids)
	}
}

func TestNodeChangeNotification(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{makeTask("a", "")})
	var changed []*Node
	tr.OnNodeChange(func(n *Node) { changed = append(changed, n) })

	n := tr.FindByID("a")
	n.SetCollapsed(true)
	if len(changed) != 1 || changed[0] != n {
		t.Fatalf("expected one node change for %v, got %v", n, changed)
	}

	// Setting the same value again must not notify.
	n.SetCollapsed(true)
	if len(changed) != 1 {
		t.Errorf("no-op set fired a notification, %d total", len(changed))
	}

	n.SetHeightOverride(12)
	if len(changed) != 2 {
		t.Errorf("height override fired %d notifications total, want 2", len(changed))
	}
}

func TestSetUncomparableProperty(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{makeTask("a", "")})
	fired := 0
	tr.OnNodeChange(func(*Node) { fired++ })

	n := tr.FindByID("a")
	n.Set("tags", []string{"x", "y"})
	if fired != 1 {
		t.Fatalf("slice property fired %d notifications, want 1", fired)
	}

	// An equal slice is a no-op, not a panic.
	n.Set("tags", []string{"x", "y"})
	if fired != 1 {
		t.Errorf("equal slice fired a notification, %d total", fired)
	}

	n.Set("tags", []string{"z"})
	if fired != 2 {
		t.Errorf("changed slice fired %d notifications total, want 2", fired)
	}
}

func TestStructuralNotification(t *testing.T) {
	tr := New()
	fired := 0
	tr.OnStructuralChange(func() { fired++ })

	root := &Node{Task: taskPtr("root")}
	tr.AddRoot(root)
	if fired != 1 {
		t.Fatalf("AddRoot fired %d, want 1", fired)
	}

	child := &Node{Task: taskPtr("child")}
	grand := &Node{Task: taskPtr("grand")}
	child.AddChild(grand) // detached, no notification
	if fired != 1 {
		t.Fatalf("detached AddChild fired a notification")
	}

	root.AddChild(child)
	if fired != 2 {
		t.Errorf("attached AddChild fired %d total, want 2", fired)
	}

	// The whole attached subtree must report back to the tree.
	grandFired := false
	tr.OnNodeChange(func(*Node) { grandFired = true })
	grand.SetCollapsed(true)
	if !grandFired {
		t.Error("grandchild of adopted subtree is not wired to the tree")
	}
}

func taskPtr(id string) *model.Task {
	task := makeTask(id, "")
	return &task
}

func TestSuspendCoalescesNotifications(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{
		makeTask("a", ""),
		makeTask("b", ""),
	})

	structural, nodes := 0, 0
	var lastNode *Node
	tr.OnStructuralChange(func() { structural++ })
	tr.OnNodeChange(func(n *Node) { nodes++; lastNode = n })

	// Single node change under suspension: one notification carrying the node.
	a := tr.FindByID("a")
	tr.SuspendNotify()
	a.SetCollapsed(true)
	tr.ResumeNotify()
	if nodes != 1 || lastNode != a {
		t.Errorf("single suspended change: %d notifications, node %v", nodes, lastNode)
	}

	// Multiple node changes coalesce into one notification with no single node.
	tr.SuspendNotify()
	a.SetCollapsed(false)
	tr.FindByID("b").SetCollapsed(true)
	tr.ResumeNotify()
	if nodes != 2 {
		t.Errorf("multiple suspended changes fired %d node notifications total, want 2", nodes)
	}
	if lastNode != nil {
		t.Errorf("coalesced multi-node notification should carry nil, got %v", lastNode)
	}

	// Structural subsumes node changes.
	tr.SuspendNotify()
	a.SetCollapsed(true)
	tr.AddRoot(&Node{Task: taskPtr("c")})
	tr.ResumeNotify()
	if structural != 1 {
		t.Errorf("structural fired %d times, want 1", structural)
	}
	if nodes != 2 {
		t.Errorf("node change fired alongside structural, %d total", nodes)
	}
}

func TestSuspendNests(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{makeTask("a", "")})
	fired := 0
	tr.OnNodeChange(func(*Node) { fired++ })

	tr.SuspendNotify()
	tr.SuspendNotify()
	tr.FindByID("a").SetCollapsed(true)
	tr.ResumeNotify()
	if fired != 0 {
		t.Fatal("inner resume fired before the outer suspend was released")
	}
	tr.ResumeNotify()
	if fired != 1 {
		t.Errorf("outer resume fired %d times, want 1", fired)
	}

	// Unbalanced resume is ignored.
	tr.ResumeNotify()
	if fired != 1 {
		t.Errorf("unbalanced resume fired, %d total", fired)
	}
}

func TestHeightOverrideTypes(t *testing.T) {
	n := &Node{Task: taskPtr("a")}

	if _, ok := n.HeightOverride(); ok {
		t.Error("fresh node reports a height override")
	}

	n.Set(PropRowHeight, 18)
	if h, ok := n.HeightOverride(); !ok || h != 18 {
		t.Errorf("int override = (%v, %v), want (18, true)", h, ok)
	}

	n.Set(PropRowHeight, 21.5)
	if h, ok := n.HeightOverride(); !ok || h != 21.5 {
		t.Errorf("float override = (%v, %v), want (21.5, true)", h, ok)
	}

	n.Set(PropRowHeight, "nonsense")
	if _, ok := n.HeightOverride(); ok {
		t.Error("non-numeric override should be ignored")
	}
}

func TestFindByID(t *testing.T) {
	tr := New()
	tr.Build([]model.Task{
		makeTask("a", ""),
		makeTask("deep", "a"),
	})

	if n := tr.FindByID("deep"); n == nil || n.Task.ID != "deep" {
		t.Errorf("FindByID(deep) = %v", n)
	}
	if n := tr.FindByID("missing"); n != nil {
		t.Errorf("FindByID(missing) = %v, want nil", n)
	}
}
