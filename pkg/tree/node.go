package tree

import (
	"reflect"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// Property keys recognized by the viewport controller. Arbitrary other keys
// may be stored by callers; the tree does not interpret them.
const (
	PropCollapsed = "collapsed"
	PropRowHeight = "rowHeight"
)

// Node is a single entry in the task forest. Persistent state lives in the
// task payload and the property bag; the viewport controller keeps its own
// transient metadata (depth, linear index) in a side table and never writes
// into the node.
type Node struct {
	Task     *model.Task
	Children []*Node
	Parent   *Node

	props map[string]any
	tree  *Tree
}

// Get returns an arbitrary named property.
func (n *Node) Get(key string) (any, bool) {
	if n.props == nil {
		return nil, false
	}
	v, ok := n.props[key]
	return v, ok
}

// Set stores an arbitrary named property and fires a node-change
// notification. Setting a key to an equal value is a no-op. Values are
// compared with reflect.DeepEqual so uncomparable types like slices can be
// stored.
func (n *Node) Set(key string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	if old, ok := n.props[key]; ok && reflect.DeepEqual(old, value) {
		return
	}
	n.props[key] = value
	if n.tree != nil {
		n.tree.notifyNode(n)
	}
}

// Collapsed reports whether the node's subtree is hidden.
func (n *Node) Collapsed() bool {
	v, ok := n.Get(PropCollapsed)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// SetCollapsed sets the collapse flag via the property bag, so the usual
// node-change notification fires.
func (n *Node) SetCollapsed(collapsed bool) {
	n.Set(PropCollapsed, collapsed)
}

// HeightOverride returns the per-row height override if one is present and
// numeric. Non-numeric values are ignored, never an error.
func (n *Node) HeightOverride() (float64, bool) {
	v, ok := n.Get(PropRowHeight)
	if !ok {
		return 0, false
	}
	switch h := v.(type) {
	case float64:
		return h, true
	case int:
		return float64(h), true
	}
	return 0, false
}

// SetHeightOverride sets the per-row height override.
func (n *Node) SetHeightOverride(h float64) {
	n.Set(PropRowHeight, h)
}

// AddChild appends a child node and fires a structural-change notification.
// A detached subtree is adopted recursively.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
	if n.tree != nil {
		n.tree.adopt(child)
		n.tree.notifyStructural()
	}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}
