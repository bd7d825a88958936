package viewport

import (
	"math"

	"github.com/vanderheijden86/ganttview/pkg/model"
	"github.com/vanderheijden86/ganttview/pkg/tree"
)

// Default row geometry in pixels. The TUI overrides these to one cell per
// row; the SVG/PNG exporters use the configured values.
const (
	DefaultRowHeight = 24.0
	DefaultRowSpace  = 0.0
)

// nodeMeta is the controller-owned per-node annotation: depth and linear
// index from the last full linearization. Kept in a side table so the
// externally-owned tree is never mutated.
type nodeMeta struct {
	depth int
	index int
}

// Option configures a Controller.
type Option func(*Controller)

// WithRowHeight sets the default row height used when a node carries no
// override.
func WithRowHeight(h float64) Option {
	return func(c *Controller) { c.defaultRowHeight = h }
}

// WithRowSpace sets the fixed inter-row spacing.
func WithRowSpace(s float64) Option {
	return func(c *Controller) { c.rowSpace = s }
}

// WithResourceMode enables period scanning during linearization.
func WithResourceMode(on bool) Option {
	return func(c *Controller) { c.resourceMode = on }
}

// Controller orchestrates linearization, visibility, and position resolution
// over one tree, and pushes the resolved viewport to its renderers.
//
// Dirty state cascades: data implies visibility implies position. Each level
// is cleared and the next explicitly marked while Run works through them.
type Controller struct {
	tree *tree.Tree

	meta    map[*tree.Node]nodeMeta
	rows    []*tree.Node
	heights HeightCache
	dates   DateRange
	periods map[string]*model.Period

	defaultRowHeight float64
	rowSpace         float64
	resourceMode     bool

	// Viewport state. At most one of start/end is authoritative between
	// runs; the setters enforce the exclusivity.
	start  OptIndex
	end    OptIndex
	offset float64
	avail  float64

	dataDirty       bool
	visibilityDirty bool
	positionDirty   bool
	positionChanged bool

	// pushing guards against scrollbar feedback while the controller is
	// redrawing it.
	pushing bool

	grid      GridRenderer
	timeline  TimelineRenderer
	scrollbar Scrollbar
}

// NewController creates a controller with no tree attached.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		defaultRowHeight: DefaultRowHeight,
		rowSpace:         DefaultRowSpace,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTree attaches the source tree and subscribes to its change channels.
// Any previously attached tree is detached first.
func (c *Controller) SetTree(t *tree.Tree) {
	c.DetachTree()
	c.tree = t
	if t != nil {
		t.OnStructuralChange(func() { c.dataDirty = true })
		t.OnNodeChange(func(*tree.Node) { c.visibilityDirty = true })
	}
	c.dataDirty = true
}

// DetachTree unsubscribes from the current tree and empties the viewport.
func (c *Controller) DetachTree() {
	if c.tree != nil {
		c.tree.OnStructuralChange(nil)
		c.tree.OnNodeChange(nil)
	}
	c.tree = nil
	c.dataDirty = true
}

// SetGrid attaches the data-grid renderer.
func (c *Controller) SetGrid(g GridRenderer) { c.grid = g }

// SetTimeline attaches the timeline renderer.
func (c *Controller) SetTimeline(t TimelineRenderer) { c.timeline = t }

// SetScrollbar attaches the scrollbar.
func (c *Controller) SetScrollbar(s Scrollbar) { c.scrollbar = s }

// StartIndex returns the start anchor.
func (c *Controller) StartIndex() OptIndex { return c.start }

// EndIndex returns the end anchor.
func (c *Controller) EndIndex() OptIndex { return c.end }

// VerticalOffset returns the sub-row pixel offset at the top of the viewport.
func (c *Controller) VerticalOffset() float64 { return c.offset }

// AvailableHeight returns the viewport height in pixels.
func (c *Controller) AvailableHeight() float64 { return c.avail }

// SetStartIndex anchors the viewport at a start row. The end anchor is
// cleared: the two are mutually exclusive until the next resolution.
// Setting the current anchor again is a no-op.
func (c *Controller) SetStartIndex(i int) {
	if c.start.IsSet() && c.start.Value() == i && !c.end.IsSet() {
		return
	}
	c.start = Idx(i)
	c.end = Unset()
	c.positionDirty = true
}

// SetEndIndex anchors the viewport at an end row, clearing the start anchor.
func (c *Controller) SetEndIndex(i int) {
	if c.end.IsSet() && c.end.Value() == i && !c.start.IsSet() {
		return
	}
	c.end = Idx(i)
	c.start = Unset()
	c.positionDirty = true
}

// SetVerticalOffset sets the pixel offset without touching the anchors.
func (c *Controller) SetVerticalOffset(px float64) {
	if px == c.offset {
		return
	}
	c.offset = px
	c.positionDirty = true
}

// SetAvailableHeight sets the viewport height without touching the anchors.
func (c *Controller) SetAvailableHeight(px float64) {
	if px == c.avail {
		return
	}
	c.avail = px
	c.positionDirty = true
}

// VisibleRows returns the current visible row sequence. The slice is owned
// by the controller; callers must not mutate it.
func (c *Controller) VisibleRows() []*tree.Node { return c.rows }

// RowCount returns the visible row count.
func (c *Controller) RowCount() int { return len(c.rows) }

// TotalHeight returns the cumulative height of all visible rows.
func (c *Controller) TotalHeight() float64 { return c.heights.Total() }

// Dates returns the global date range from the last linearization.
func (c *Controller) Dates() DateRange { return c.dates }

// Depth returns the tree depth recorded for a node during the last
// linearization, 0 for unknown nodes.
func (c *Controller) Depth(n *tree.Node) int { return c.meta[n].depth }

// LinearIndex returns the full-tree pre-order index recorded for a node
// during the last linearization, 0 for unknown nodes.
func (c *Controller) LinearIndex(n *tree.Node) int { return c.meta[n].index }

// PeriodByID returns the period registered under id by the last
// linearization, or nil. Resource mode only; duplicate IDs resolve to the
// period of the node visited last (last write wins).
func (c *Controller) PeriodByID(id string) *model.Period {
	return c.periods[id]
}

// Run drives the dirty cascade to consistency, then pushes the resolved
// viewport to the grid and timeline renderers and refreshes the scrollbar.
func (c *Controller) Run() {
	if c.dataDirty {
		c.linearize()
		c.dataDirty = false
		c.visibilityDirty = true
	}
	if c.visibilityDirty {
		c.buildVisible()
		c.visibilityDirty = false
		c.positionDirty = true
	}
	if c.positionDirty {
		c.recalculate()
	}

	f := Frame{
		Rows:            c.rows,
		Start:           c.start.Value(),
		End:             c.end.Value(),
		Offset:          c.offset,
		AvailableHeight: c.avail,
		PositionChanged: c.positionChanged,
		Dates:           c.dates,
	}
	c.positionChanged = false

	if c.grid != nil {
		c.grid.RenderRows(f)
	}
	if c.timeline != nil {
		c.timeline.RenderTimeline(f)
	}
	if c.scrollbar != nil {
		c.pushScrollbar(f)
	}
}

// pushScrollbar recomputes the thumb ratios from the resolved position and
// redraws the scrollbar with scroll feedback suppressed.
func (c *Controller) pushScrollbar(f Frame) {
	total := c.heights.Total()
	c.scrollbar.SetContentExtent(total)
	if total > 0 {
		top := c.heights.before(f.Start) + c.offset
		c.scrollbar.SetThumbRatios(round4(top/total), round4((top+c.avail)/total))
	} else {
		c.scrollbar.SetThumbRatios(0, 0)
	}
	c.pushing = true
	c.scrollbar.Render()
	c.pushing = false
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// linearize performs the full pre-order pass, ignoring collapse state:
// rebuilds the metadata side table, the global date range, and (in resource
// mode) the id-to-period map. Notifications stay suspended for the duration
// so nothing re-enters the cascade mid-pass.
func (c *Controller) linearize() {
	c.meta = make(map[*tree.Node]nodeMeta)
	c.dates = DateRange{}
	if c.resourceMode {
		c.periods = make(map[string]*model.Period)
	} else {
		c.periods = nil
	}
	if c.tree == nil {
		return
	}

	c.tree.SuspendNotify()
	defer c.tree.ResumeNotify()

	index := 0
	c.tree.Walk(func(n *tree.Node) {
		depth := 0
		if n.Parent != nil {
			depth = c.meta[n.Parent].depth + 1
		}
		c.meta[n] = nodeMeta{depth: depth, index: index}
		index++

		task := n.Task
		if task == nil {
			return
		}
		c.dates.extend(task.Start)
		c.dates.extend(task.End)
		if task.Due != nil {
			c.dates.extend(*task.Due)
		}
		if c.resourceMode {
			for _, p := range task.Periods {
				if p == nil || p.ID == "" {
					continue
				}
				c.periods[p.ID] = p
				c.dates.extend(p.Start)
				c.dates.extend(p.End)
			}
		}
	}, nil)
}

// buildVisible rebuilds the visible row sequence and the height cache with a
// collapse-aware walk: a collapsed node is visible, its subtree is not.
func (c *Controller) buildVisible() {
	c.rows = c.rows[:0]
	c.heights.Reset()
	if c.tree == nil {
		return
	}
	c.tree.Walk(func(n *tree.Node) {
		c.rows = append(c.rows, n)
		c.heights.Append(c.rowHeight(n) + c.rowSpace)
	}, func(n *tree.Node) bool {
		return !n.Collapsed()
	})
}

// rowHeight returns the node's height override when present and numeric,
// else the configured default.
func (c *Controller) rowHeight(n *tree.Node) float64 {
	if h, ok := n.HeightOverride(); ok {
		return h
	}
	return c.defaultRowHeight
}

// recalculate resolves (start, end, offset) so the covered pixel span
// exactly fills the available height.
//
// Two regimes: when everything fits, show everything. Otherwise exactly one
// anchor is authoritative (start wins when both are unset or both set from a
// prior resolution) and the other side is derived from it. A start anchor
// too close to the bottom flips to filling from the end; an end anchor with
// too little content above flips to the top. The end-anchored branch always
// recomputes the offset as the residual: an end anchor means the end row
// sits flush with the viewport bottom, whatever offset was set before.
func (c *Controller) recalculate() {
	defer func() {
		c.positionDirty = false
		c.positionChanged = true
	}()

	n := c.heights.Len()
	if n == 0 {
		c.start, c.end, c.offset = Idx(0), Idx(0), 0
		return
	}
	last := n - 1
	total := c.heights.Total()

	if c.avail >= total {
		c.start, c.end, c.offset = Idx(0), Idx(last), 0
		return
	}

	if !c.start.IsSet() && !c.end.IsSet() {
		c.start = Idx(0)
	}

	if c.start.IsSet() {
		s := clampIndex(c.start.Value(), n)
		below := c.heights.RangeHeight(s, last) - c.offset
		if below < c.avail {
			// Anchor too close to the end to fill the viewport: fill
			// upward from the bottom instead.
			s = c.heights.IndexForHeight(total - c.avail)
			c.offset = c.heights.RangeHeight(s, last) - c.avail
			c.start, c.end = Idx(s), Idx(last)
			return
		}
		above := c.heights.before(s)
		e := c.heights.IndexForHeight(above + c.avail + c.offset)
		if e > last {
			e = last
		}
		c.start, c.end = Idx(s), Idx(e)
		return
	}

	e := clampIndex(c.end.Value(), n)
	through := c.heights.RangeHeight(0, e)
	if through < c.avail {
		// Not enough content above the anchor: pin to the top and derive
		// the end.
		c.offset = 0
		e = c.heights.IndexForHeight(c.avail)
		if e > last {
			e = last
		}
		c.start, c.end = Idx(0), Idx(e)
		return
	}
	s := c.heights.IndexForHeight(through - c.avail)
	c.offset = c.heights.RangeHeight(s, e) - c.avail
	c.start, c.end = Idx(s), Idx(e)
}

// refreshVisible brings the row sequence and height cache up to date without
// resolving position, for operations that need current geometry.
func (c *Controller) refreshVisible() {
	if c.dataDirty {
		c.linearize()
		c.dataDirty = false
		c.visibilityDirty = true
	}
	if c.visibilityDirty {
		c.buildVisible()
		c.visibilityDirty = false
		c.positionDirty = true
	}
}

// ScrollToPixelOffset positions the viewport so its top edge sits at the
// given content pixel. Non-positive offsets are a no-op: the viewport is
// treated as already at the top. Pixels past the bottom clamp to the end.
func (c *Controller) ScrollToPixelOffset(px float64) {
	if px <= 0 {
		return
	}
	c.refreshVisible()
	if c.heights.Len() == 0 {
		return
	}
	i := c.heights.IndexForHeight(px)
	if i >= c.heights.Len() {
		c.ScrollToEnd()
		return
	}
	c.start = Idx(i)
	c.end = Unset()
	c.offset = px - c.heights.before(i)
	c.positionDirty = true
}

// ScrollToRow anchors the viewport at the given visible row, flush at the
// top.
func (c *Controller) ScrollToRow(i int) {
	c.SetStartIndex(i)
	c.SetVerticalOffset(0)
}

// ScrollToEnd anchors the viewport at the given visible row flush at the
// bottom, or at the last visible row when no index is given.
func (c *Controller) ScrollToEnd(index ...int) {
	c.refreshVisible()
	i := c.heights.Len() - 1
	if len(index) > 0 {
		i = index[0]
	}
	c.end = Idx(i)
	c.start = Unset()
	c.positionDirty = true
}

// HandleScroll is the scrollbar's scroll-changed inlet: ratios of content
// height, as previously pushed by the controller. Ignored while the
// controller itself is redrawing the scrollbar.
func (c *Controller) HandleScroll(startRatio, endRatio float64) {
	if c.pushing {
		return
	}
	c.refreshVisible()
	c.ScrollToPixelOffset(startRatio * c.heights.Total())
}

// ExpandAll expands every node in the tree.
func (c *Controller) ExpandAll() {
	c.setCollapsedAll(false)
}

// CollapseAll collapses every node in the tree.
func (c *Controller) CollapseAll() {
	c.setCollapsedAll(true)
}

// setCollapsedAll bulk-sets the collapse flag on every node, ignoring
// current collapse state, under suspended notifications. The coalesced
// node-change that fires on resume marks visibility dirty: node identity and
// dates are unchanged, so no relinearization happens.
func (c *Controller) setCollapsedAll(collapsed bool) {
	if c.tree == nil {
		return
	}
	c.tree.SuspendNotify()
	c.tree.Walk(func(n *tree.Node) {
		n.SetCollapsed(collapsed)
	}, nil)
	c.tree.ResumeNotify()
}
