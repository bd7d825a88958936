package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/ganttview/pkg/viewport"
)

// Timeline is the right pane: the same visible rows as the grid, drawn as
// bars on a shared date axis. It implements viewport.TimelineRenderer.
type Timeline struct {
	ctrl         *viewport.Controller
	frame        viewport.Frame
	width        int
	resourceMode bool
}

// NewTimeline creates a timeline pane bound to the controller that feeds it.
func NewTimeline(ctrl *viewport.Controller, resourceMode bool) *Timeline {
	return &Timeline{ctrl: ctrl, resourceMode: resourceMode}
}

// RenderTimeline receives the resolved viewport snapshot.
func (t *Timeline) RenderTimeline(f viewport.Frame) {
	t.frame = f
}

// SetWidth sets the pane width in cells.
func (t *Timeline) SetWidth(w int) { t.width = w }

// colFor maps a date onto a column in [0, width).
func (t *Timeline) colFor(at time.Time) int {
	d := t.frame.Dates
	if d.IsZero() || t.width <= 1 {
		return 0
	}
	span := d.Max.Sub(d.Min).Hours() / 24
	if span < 1 {
		span = 1
	}
	days := at.Sub(d.Min).Hours() / 24
	col := int(days / span * float64(t.width-1))
	if col < 0 {
		col = 0
	}
	if col > t.width-1 {
		col = t.width - 1
	}
	return col
}

// Header renders the month axis above the bars.
func (t *Timeline) Header() string {
	if t.width <= 0 {
		return ""
	}
	cells := make([]rune, t.width)
	for i := range cells {
		cells[i] = ' '
	}

	d := t.frame.Dates
	if !d.IsZero() {
		tick := time.Date(d.Min.Year(), d.Min.Month(), 1, 0, 0, 0, 0, time.UTC)
		if tick.Before(d.Min) {
			tick = tick.AddDate(0, 1, 0)
		}
		for !tick.After(d.Max) {
			col := t.colFor(tick)
			label := tick.Format("Jan")
			for j, r := range label {
				if col+j < t.width {
					cells[col+j] = r
				}
			}
			tick = tick.AddDate(0, 1, 0)
		}
	}

	return TickStyle.Render(string(cells))
}

// View renders the window rows as one string, one line per row, aligned with
// the grid pane.
func (t *Timeline) View() string {
	if len(t.frame.Rows) == 0 || t.frame.End < t.frame.Start {
		return ""
	}

	var b strings.Builder
	for i := t.frame.Start; i <= t.frame.End && i < len(t.frame.Rows); i++ {
		if i > t.frame.Start {
			b.WriteString("\n")
		}
		b.WriteString(t.renderRow(i))
	}
	return b.String()
}

func (t *Timeline) renderRow(i int) string {
	// A squeezed-out pane has no cells to draw into.
	if t.width <= 0 {
		return ""
	}
	task := t.frame.Rows[i].Task
	cells := make([]rune, t.width)
	for j := range cells {
		cells[j] = ' '
	}

	style := lipgloss.NewStyle().Foreground(statusColor(task.Status))

	switch {
	case t.resourceMode && len(task.Periods) > 0:
		style = lipgloss.NewStyle().Foreground(ColorPeriod)
		for _, p := range task.Periods {
			if p == nil || p.Start.IsZero() || p.End.IsZero() {
				continue
			}
			from, to := t.colFor(p.Start), t.colFor(p.End)
			for c := from; c <= to; c++ {
				cells[c] = '█'
			}
		}

	case task.IsMilestone():
		style = lipgloss.NewStyle().Foreground(ColorMilestone)
		at := task.Start
		if at.IsZero() && task.Due != nil {
			at = *task.Due
		}
		if !at.IsZero() {
			cells[t.colFor(at)] = '◆'
		}

	case !task.Start.IsZero() && !task.End.IsZero():
		from, to := t.colFor(task.Start), t.colFor(task.End)
		// Progress splits the bar into a filled and an outlined part.
		split := from + int(float64(to-from)*task.Progress)
		for c := from; c <= to; c++ {
			if c <= split && task.Progress > 0 {
				cells[c] = '█'
			} else {
				cells[c] = '▒'
			}
		}
	}

	return style.Render(string(cells))
}

var _ viewport.TimelineRenderer = (*Timeline)(nil)
