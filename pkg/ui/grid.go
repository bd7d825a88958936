package ui

import (
	"strings"

	"github.com/vanderheijden86/ganttview/pkg/model"
	"github.com/vanderheijden86/ganttview/pkg/viewport"
)

// Grid is the left pane: one line per visible row with tree structure,
// status icon, and title. It implements viewport.GridRenderer and keeps the
// last pushed frame for View.
type Grid struct {
	ctrl     *viewport.Controller
	frame    viewport.Frame
	width    int
	selected int // linear index of the cursor row
}

// NewGrid creates a grid pane bound to the controller that feeds it.
func NewGrid(ctrl *viewport.Controller) *Grid {
	return &Grid{ctrl: ctrl, selected: 0}
}

// RenderRows receives the resolved viewport snapshot.
func (g *Grid) RenderRows(f viewport.Frame) {
	g.frame = f
}

// SetWidth sets the pane width in cells.
func (g *Grid) SetWidth(w int) { g.width = w }

// SetSelected moves the cursor to the given linear index.
func (g *Grid) SetSelected(i int) { g.selected = i }

// Selected returns the cursor's linear index.
func (g *Grid) Selected() int { return g.selected }

// View renders the window rows as one string, one line per row.
func (g *Grid) View() string {
	if len(g.frame.Rows) == 0 || g.frame.End < g.frame.Start {
		return SubtleStyle.Render("no tasks")
	}

	var b strings.Builder
	for i := g.frame.Start; i <= g.frame.End && i < len(g.frame.Rows); i++ {
		if i > g.frame.Start {
			b.WriteString("\n")
		}
		b.WriteString(g.renderRow(i))
	}
	return b.String()
}

func (g *Grid) renderRow(i int) string {
	node := g.frame.Rows[i]
	task := node.Task

	depth := g.ctrl.Depth(node)
	indent := strings.Repeat("  ", depth)

	marker := "  "
	if !node.IsLeaf() {
		if node.Collapsed() {
			marker = "▸ "
		} else {
			marker = "▾ "
		}
	}

	icon := StatusIcon(task.Status)
	if task.IsMilestone() {
		icon = TypeIcon(task.TaskType)
	}

	line := indent + marker + icon + " " + task.Title
	line = truncateCells(line, g.width, "…")
	line = padCells(line, g.width)

	if i == g.selected {
		return SelectedRowStyle.Render(line)
	}
	style := RowStyle.Foreground(statusColor(task.Status))
	if task.Status == model.StatusPlanned {
		style = RowStyle
	}
	return style.Render(line)
}

var _ viewport.GridRenderer = (*Grid)(nil)
