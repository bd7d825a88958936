// Package tree holds the collapsible task forest the viewport controller
// windows over. The tree owns structure and per-node properties; transient
// layout metadata belongs to the controller.
package tree

import (
	"sort"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// Tree is a forest of task nodes with change notification. Exactly one
// consumer (the viewport controller) subscribes per channel, so callbacks
// are plain fields rather than a listener list.
//
// Notifications distinguish two granularities:
//   - structural change: nodes added/removed/moved (full relinearization)
//   - node change: a single node's property bag changed (visibility rebuild)
type Tree struct {
	roots []*Node

	onStructural func()
	onNode       func(*Node)

	// Suspension state. While suspended > 0 mutations only latch pending
	// flags; ResumeNotify fires one coalesced notification for the net
	// effect. Required for bulk operations that touch every node.
	suspended         int
	pendingStructural bool
	pendingNode       *Node
	pendingNodeAny    bool
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// Roots returns the root nodes in order.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// AddRoot appends a root node and fires a structural-change notification.
func (t *Tree) AddRoot(n *Node) {
	n.tree = t
	t.adopt(n)
	t.roots = append(t.roots, n)
	t.notifyStructural()
}

// adopt stamps the tree pointer onto a subtree built detached.
func (t *Tree) adopt(n *Node) {
	n.tree = t
	for _, c := range n.Children {
		t.adopt(c)
	}
}

// OnStructuralChange registers the structural-change callback.
func (t *Tree) OnStructuralChange(fn func()) {
	t.onStructural = fn
}

// OnNodeChange registers the single-node change callback.
func (t *Tree) OnNodeChange(fn func(*Node)) {
	t.onNode = fn
}

// SuspendNotify pauses change notifications. Calls nest.
func (t *Tree) SuspendNotify() {
	t.suspended++
}

// ResumeNotify re-enables notifications and fires a single coalesced
// notification reflecting the net effect of the suspended mutations.
// A pending structural change subsumes pending node changes.
func (t *Tree) ResumeNotify() {
	if t.suspended == 0 {
		return
	}
	t.suspended--
	if t.suspended > 0 {
		return
	}

	structural := t.pendingStructural
	node := t.pendingNode
	nodeAny := t.pendingNodeAny
	t.pendingStructural = false
	t.pendingNode = nil
	t.pendingNodeAny = false

	switch {
	case structural:
		if t.onStructural != nil {
			t.onStructural()
		}
	case nodeAny:
		if t.onNode != nil {
			t.onNode(node)
		}
	}
}

func (t *Tree) notifyStructural() {
	if t.suspended > 0 {
		t.pendingStructural = true
		return
	}
	if t.onStructural != nil {
		t.onStructural()
	}
}

func (t *Tree) notifyNode(n *Node) {
	if t.suspended > 0 {
		if t.pendingNodeAny {
			// More than one node changed; the coalesced notification
			// carries no single node.
			t.pendingNode = nil
		} else {
			t.pendingNode = n
			t.pendingNodeAny = true
		}
		return
	}
	if t.onNode != nil {
		t.onNode(n)
	}
}

// Walk visits every node in depth-first pre-order. If descend is non-nil and
// returns false for a node, the node itself is still visited but its subtree
// is skipped.
func (t *Tree) Walk(visit func(*Node), descend func(*Node) bool) {
	for _, root := range t.roots {
		walkNode(root, visit, descend)
	}
}

func walkNode(n *Node, visit func(*Node), descend func(*Node) bool) {
	if n == nil {
		return
	}
	visit(n)
	if descend != nil && !descend(n) {
		return
	}
	for _, child := range n.Children {
		walkNode(child, visit, descend)
	}
}

// Len returns the total node count, ignoring collapse state.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node) { count++ }, nil)
	return count
}

// Build constructs the forest from a flat task list using ParentID links.
// Rules:
//   - A task whose ParentID is empty or refers to a task not in the set
//     becomes a root. Dangling references must not make rows disappear.
//   - Cycles are broken by leaving the repeated node childless.
//   - Siblings sort by start date (absent dates last), then ID.
//
// Build suspends notifications for the duration and fires one structural
// change at the end.
func (t *Tree) Build(tasks []model.Task) {
	t.SuspendNotify()
	defer func() {
		t.pendingStructural = true
		t.ResumeNotify()
	}()

	t.roots = nil

	if len(tasks) == 0 {
		return
	}

	childrenOf := make(map[string][]*model.Task)
	taskByID := make(map[string]*model.Task)
	for i := range tasks {
		taskByID[tasks[i].ID] = &tasks[i]
	}
	for i := range tasks {
		task := &tasks[i]
		if task.ParentID == "" {
			continue
		}
		if _, exists := taskByID[task.ParentID]; !exists {
			continue // dangling parent, handled as root below
		}
		childrenOf[task.ParentID] = append(childrenOf[task.ParentID], task)
	}

	var rootTasks []*model.Task
	for i := range tasks {
		task := &tasks[i]
		if task.ParentID == "" {
			rootTasks = append(rootTasks, task)
			continue
		}
		if _, exists := taskByID[task.ParentID]; !exists {
			rootTasks = append(rootTasks, task)
		}
	}

	visited := make(map[string]bool)
	built := make(map[string]bool)
	for _, task := range rootTasks {
		node := t.buildNode(task, childrenOf, nil, visited, built)
		if node != nil {
			t.roots = append(t.roots, node)
		}
	}

	// Tasks in a pure cycle have a parent but are reachable from no root.
	// Promote the first unreached member so the rows do not disappear.
	for i := range tasks {
		task := &tasks[i]
		if built[task.ID] {
			continue
		}
		node := t.buildNode(task, childrenOf, nil, visited, built)
		if node != nil {
			t.roots = append(t.roots, node)
		}
	}

	sortNodes(t.roots)
}

// buildNode recursively builds a subtree. The visited map detects cycles on
// the current path; a revisited task gets a childless node to break the loop.
func (t *Tree) buildNode(task *model.Task, childrenOf map[string][]*model.Task, parent *Node, visited, built map[string]bool) *Node {
	if task == nil {
		return nil
	}

	built[task.ID] = true
	if visited[task.ID] {
		return &Node{Task: task, Parent: parent, tree: t}
	}
	visited[task.ID] = true
	defer func() { visited[task.ID] = false }()

	node := &Node{Task: task, Parent: parent, tree: t}
	for _, child := range childrenOf[task.ID] {
		childNode := t.buildNode(child, childrenOf, node, visited, built)
		if childNode != nil {
			node.Children = append(node.Children, childNode)
		}
	}
	sortNodes(node.Children)
	return node
}

// sortNodes orders siblings by start date, then ID for stability. Tasks
// without a start date sort last.
func sortNodes(nodes []*Node) {
	if len(nodes) <= 1 {
		return
	}
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].Task, nodes[j].Task
		if a == nil || b == nil {
			return a != nil
		}
		aZero, bZero := a.Start.IsZero(), b.Start.IsZero()
		if aZero != bZero {
			return !aZero
		}
		if !aZero && !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})
}

// FindByID returns the first node whose task has the given ID, or nil.
func (t *Tree) FindByID(id string) *Node {
	var found *Node
	t.Walk(func(n *Node) {
		if found == nil && n.Task != nil && n.Task.ID == id {
			found = n
		}
	}, func(*Node) bool { return true })
	return found
}
