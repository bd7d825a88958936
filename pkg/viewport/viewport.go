// Package viewport maps the collapsible task tree onto a virtualized window
// of visible rows and keeps the grid pane, the timeline pane, and the
// scrollbar synchronized to it.
//
// The controller runs a three-level dirty cascade: data (full
// relinearization), visibility (visible rows + height cache), and position
// (start/end/offset resolution). All of it is single-threaded and
// synchronous; renderers receive read-only snapshots each Run.
package viewport

import (
	"time"

	"github.com/vanderheijden86/ganttview/pkg/tree"
)

// OptIndex is a row index that may be unset. The zero value is unset.
// At most one of the controller's two anchors (start, end) is set by the
// public setters; position resolution stores both once resolved.
type OptIndex struct {
	value int
	set   bool
}

// Idx returns a set OptIndex.
func Idx(i int) OptIndex {
	return OptIndex{value: i, set: true}
}

// Unset returns an unset OptIndex.
func Unset() OptIndex {
	return OptIndex{}
}

// IsSet reports whether the index holds a value.
func (o OptIndex) IsSet() bool {
	return o.set
}

// Value returns the held index; 0 when unset.
func (o OptIndex) Value() int {
	return o.value
}

// DateRange holds the global date bounds found during linearization.
// Zero times mean no dates were found at all.
type DateRange struct {
	Min time.Time
	Max time.Time
}

// IsZero reports whether no date-bearing field was seen.
func (d DateRange) IsZero() bool {
	return d.Min.IsZero() && d.Max.IsZero()
}

// extend widens the range to include t; zero times are skipped.
func (d *DateRange) extend(t time.Time) {
	if t.IsZero() {
		return
	}
	if d.Min.IsZero() || t.Before(d.Min) {
		d.Min = t
	}
	if d.Max.IsZero() || t.After(d.Max) {
		d.Max = t
	}
}

// Frame is the read-only snapshot the controller pushes to its renderers on
// every Run. Rows aliases the controller's current visible sequence;
// renderers must not mutate it.
type Frame struct {
	Rows            []*tree.Node
	Start           int
	End             int
	Offset          float64
	AvailableHeight float64
	PositionChanged bool
	Dates           DateRange
}

// GridRenderer consumes the resolved viewport for the data-grid pane.
type GridRenderer interface {
	RenderRows(f Frame)
}

// TimelineRenderer consumes the resolved viewport plus the global date range
// for the timeline pane.
type TimelineRenderer interface {
	RenderTimeline(f Frame)
}

// Scrollbar mirrors the viewport as thumb ratios and feeds user scrolling
// back through Controller.HandleScroll.
type Scrollbar interface {
	SetContentExtent(total float64)
	SetThumbRatios(start, end float64)
	Render()
}
