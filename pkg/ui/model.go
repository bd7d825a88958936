package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/ganttview/pkg/model"
	"github.com/vanderheijden86/ganttview/pkg/tree"
	"github.com/vanderheijden86/ganttview/pkg/viewport"
)

// FileChangedMsg signals that the data source on disk changed.
type FileChangedMsg struct{}

// ReloadedMsg carries the result of re-reading the data source.
type ReloadedMsg struct {
	Tasks []model.Task
	Err   error
}

// ModelConfig wires the TUI to its surroundings. Reload and Changes are
// optional; without them the view is static.
type ModelConfig struct {
	ProjectName  string
	ResourceMode bool
	SplitRatio   float64
	Reload       func() ([]model.Task, error)
	Changes      <-chan struct{}
}

// Model is the root bubbletea model: grid and timeline panes driven by one
// viewport controller, a scrollbar column, and markdown overlays for help and
// task detail.
type Model struct {
	cfg      ModelConfig
	tasks    []model.Task
	tr       *tree.Tree
	ctrl     *viewport.Controller
	grid     *Grid
	timeline *Timeline
	sb       *ScrollbarView

	detail   bviewport.Model
	renderer *glamour.TermRenderer

	// State
	showHelp   bool
	showDetail bool
	ready      bool
	width      int
	height     int
	statusMsg  string
}

// NewModel builds the TUI over the given tasks.
func NewModel(tasks []model.Task, cfg ModelConfig) Model {
	if cfg.SplitRatio <= 0 || cfg.SplitRatio >= 1 {
		cfg.SplitRatio = 0.4
	}

	// Terminal rows are the pixel unit here: one row high, no spacing.
	ctrl := viewport.NewController(
		viewport.WithRowHeight(1),
		viewport.WithRowSpace(0),
		viewport.WithResourceMode(cfg.ResourceMode),
	)

	grid := NewGrid(ctrl)
	timeline := NewTimeline(ctrl, cfg.ResourceMode)
	sb := NewScrollbar()
	ctrl.SetGrid(grid)
	ctrl.SetTimeline(timeline)
	ctrl.SetScrollbar(sb)

	tr := tree.New()
	tr.Build(tasks)
	ctrl.SetTree(tr)

	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return Model{
		cfg:      cfg,
		tasks:    tasks,
		tr:       tr,
		ctrl:     ctrl,
		grid:     grid,
		timeline: timeline,
		sb:       sb,
		renderer: r,
	}
}

// waitForChange blocks on the watcher channel and surfaces one change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; ok {
			return FileChangedMsg{}
		}
		return nil
	}
}

func (m Model) reloadCmd() tea.Cmd {
	reload := m.cfg.Reload
	if reload == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, err := reload()
		return ReloadedMsg{Tasks: tasks, Err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.cfg.Changes)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileChangedMsg:
		m.statusMsg = "reloading…"
		return m, tea.Batch(m.reloadCmd(), waitForChange(m.cfg.Changes))

	case ReloadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("reload failed: %v", msg.Err)
			return m, nil
		}
		m.SetTasks(msg.Tasks)
		m.statusMsg = fmt.Sprintf("reloaded %d tasks", len(msg.Tasks))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays capture input first.
	if m.showHelp || m.showDetail {
		switch msg.String() {
		case "q", "esc", "?", "enter":
			m.showHelp = false
			m.showDetail = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "ctrl+d":
		m.moveSelection(m.pageRows() / 2)
	case "ctrl+u":
		m.moveSelection(-m.pageRows() / 2)
	case "g", "home":
		m.selectRow(0)
	case "G", "end":
		m.selectRow(m.ctrl.RowCount() - 1)

	case " ", "space":
		m.toggleCollapse()
	case "E":
		m.ctrl.ExpandAll()
		m.ctrl.Run()
		m.clampSelection()
	case "C":
		m.ctrl.CollapseAll()
		m.ctrl.Run()
		m.clampSelection()

	case "y":
		if task := m.selectedTask(); task != nil {
			if err := clipboard.WriteAll(task.ID); err != nil {
				m.statusMsg = fmt.Sprintf("yank failed: %v", err)
			} else {
				m.statusMsg = fmt.Sprintf("copied %s", task.ID)
			}
		}

	case "r":
		m.statusMsg = "reloading…"
		return m, m.reloadCmd()

	case "enter":
		if task := m.selectedTask(); task != nil {
			m.showDetail = true
			m.setOverlayContent(m.taskMarkdown(task))
		}
	case "?":
		m.showHelp = true
		m.setOverlayContent(helpMarkdown)
	}

	return m, nil
}

// handleMouse scrolls with the wheel and jumps the viewport when the
// scrollbar column is clicked or dragged. The cursor stays where it is.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp || m.showDetail {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.detail.LineUp(3)
		case tea.MouseButtonWheelDown:
			m.detail.LineDown(3)
		}
		return
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollRows(-3)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollRows(3)
	case msg.Button == tea.MouseButtonLeft && msg.X == m.width-1 &&
		(msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion):
		m.dragScrollbar(msg.Y)
	}
}

// scrollRows shifts the viewport by whole rows through the scrollbar's
// ratio inlet.
func (m *Model) scrollRows(rows int) {
	total := m.ctrl.TotalHeight()
	if total <= 0 {
		return
	}
	start, end := m.sb.Ratios()
	delta := float64(rows) / total
	m.scrollToRatio(start+delta, end+delta)
}

// dragScrollbar maps a pointer row on the scrollbar track to thumb ratios.
// The track starts below the one-line header.
func (m *Model) dragScrollbar(y int) {
	total := m.ctrl.TotalHeight()
	track := m.ctrl.AvailableHeight()
	if total <= 0 || track <= 0 || total <= track {
		return
	}
	pos := float64(y - 1)
	if pos < 0 {
		pos = 0
	}
	if pos > track {
		pos = track
	}
	start := pos / track * (total - track) / total
	m.scrollToRatio(start, start+track/total)
}

func (m *Model) scrollToRatio(start, end float64) {
	if start <= 0 {
		m.ctrl.ScrollToRow(0)
	} else {
		m.ctrl.HandleScroll(start, end)
	}
	m.ctrl.Run()
}

// SetTasks swaps the data set, preserving the cursor where possible.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
	m.tr = tree.New()
	m.tr.Build(tasks)
	m.ctrl.SetTree(m.tr)
	m.ctrl.Run()
	m.clampSelection()
}

// layout distributes the window between panes and resolves the viewport.
func (m *Model) layout() {
	gridWidth := int(float64(m.width) * m.cfg.SplitRatio)
	if gridWidth < 20 && m.width > 20 {
		gridWidth = 20
	}
	timelineWidth := m.width - gridWidth - 1 // one column for the scrollbar
	if timelineWidth < 0 {
		timelineWidth = 0
	}

	m.grid.SetWidth(gridWidth)
	m.timeline.SetWidth(timelineWidth)

	// One header line, one footer line.
	avail := m.height - 2
	if avail < 1 {
		avail = 1
	}
	m.ctrl.SetAvailableHeight(float64(avail))
	m.ctrl.Run()

	m.detail = bviewport.New(m.width-4, avail)
	wrap := m.width - 6
	if wrap > 100 {
		wrap = 100
	}
	if wrap < 20 {
		wrap = 20
	}
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
}

func (m *Model) pageRows() int {
	return int(m.ctrl.AvailableHeight())
}

func (m *Model) selectedTask() *model.Task {
	rows := m.ctrl.VisibleRows()
	sel := m.grid.Selected()
	if sel < 0 || sel >= len(rows) {
		return nil
	}
	return rows[sel].Task
}

func (m *Model) moveSelection(delta int) {
	m.selectRow(m.grid.Selected() + delta)
}

func (m *Model) selectRow(i int) {
	last := m.ctrl.RowCount() - 1
	if last < 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > last {
		i = last
	}
	m.grid.SetSelected(i)
	m.scrollIntoView(i)
}

// scrollIntoView nudges the viewport when the cursor leaves the window.
func (m *Model) scrollIntoView(i int) {
	start, end := m.ctrl.StartIndex(), m.ctrl.EndIndex()
	switch {
	case start.IsSet() && i < start.Value():
		m.ctrl.ScrollToRow(i)
		m.ctrl.Run()
	case end.IsSet() && i > end.Value():
		m.ctrl.ScrollToEnd(i)
		m.ctrl.Run()
	}
}

func (m *Model) toggleCollapse() {
	rows := m.ctrl.VisibleRows()
	sel := m.grid.Selected()
	if sel < 0 || sel >= len(rows) {
		return
	}
	node := rows[sel]
	if node.IsLeaf() {
		return
	}
	node.SetCollapsed(!node.Collapsed())
	m.ctrl.Run()
	m.clampSelection()
}

func (m *Model) clampSelection() {
	last := m.ctrl.RowCount() - 1
	if last < 0 {
		m.grid.SetSelected(0)
		return
	}
	if m.grid.Selected() > last {
		m.grid.SetSelected(last)
	}
	m.scrollIntoView(m.grid.Selected())
}

func (m *Model) setOverlayContent(markdown string) {
	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		m.detail.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
		return
	}
	m.detail.SetContent(rendered)
	m.detail.GotoTop()
}

// taskMarkdown builds the detail overlay for one task.
func (m *Model) taskMarkdown(task *model.Task) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s %s\n\n", TypeIcon(task.TaskType), task.Title))

	sb.WriteString("| ID | Status | Type | Assignee | Start | End | Progress |\n|---|---|---|---|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| **%s** | **%s** | %s | %s | %s | %s | %.0f%% |\n\n",
		task.ID,
		strings.ToUpper(string(task.Status)),
		task.TaskType,
		orDash(task.Assignee),
		fmtDate(task.Start),
		fmtDate(task.End),
		task.Progress*100,
	))

	if task.Due != nil {
		sb.WriteString(fmt.Sprintf("**Due:** %s\n\n", fmtDate(*task.Due)))
	}

	if task.Notes != "" {
		sb.WriteString("### Notes\n")
		sb.WriteString(task.Notes + "\n\n")
	}

	if len(task.Dependencies) > 0 {
		sb.WriteString("### Dependencies\n")
		for _, dep := range task.Dependencies {
			kind := string(dep.Type)
			if kind == "" {
				kind = string(model.DepFinishStart)
			}
			sb.WriteString(fmt.Sprintf("- depends on **%s** (%s)\n", dep.DependsOnID, kind))
		}
		sb.WriteString("\n")
	}

	if len(task.Periods) > 0 {
		sb.WriteString("### Resource Periods\n")
		for _, p := range task.Periods {
			if p == nil {
				continue
			}
			label := p.Label
			if label == "" {
				label = p.ID
			}
			sb.WriteString(fmt.Sprintf("- %s: %s to %s\n", label, fmtDate(p.Start), fmtDate(p.End)))
		}
		sb.WriteString("\n")
	}

	if !task.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("_updated %s_\n", FormatTimeRel(task.UpdatedAt)))
	}

	return sb.String()
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp || m.showDetail {
		body := PanelStyle.Width(m.width - 2).Height(m.height - 3).Render(m.detail.View())
		return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		SubtleStyle.Render(padCells(truncateCells(m.cfg.ProjectName, m.grid.width, "…"), m.grid.width)),
		m.timeline.Header(),
	)

	rows := m.ctrl.EndIndex().Value() - m.ctrl.StartIndex().Value() + 1
	if m.ctrl.RowCount() == 0 {
		rows = 1
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.grid.View(),
		m.timeline.View(),
		m.sb.View(rows),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m *Model) renderFooter() string {
	nameStyle := lipgloss.NewStyle().Foreground(ColorBg).Bold(true).Background(ColorPrimary).Padding(0, 1)
	statsStyle := lipgloss.NewStyle().Background(ColorBgHighlight).Foreground(ColorText).Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(ColorSubtext).Padding(0, 1)

	name := m.cfg.ProjectName
	if name == "" {
		name = "gantt"
	}
	if m.cfg.ResourceMode {
		name += " [resource]"
	}

	stats := fmt.Sprintf("%d/%d rows", m.ctrl.RowCount(), len(m.tasks))

	var keys string
	switch {
	case m.showHelp || m.showDetail:
		keys = "esc: back • j/k: scroll • q: close"
	default:
		keys = "j/k: move • space: fold • enter: detail • y: yank • ?: help • q: quit"
	}
	if m.statusMsg != "" {
		keys = m.statusMsg
	}

	nameSection := nameStyle.Render(name)
	statsSection := statsStyle.Render(stats)
	keysSection := helpStyle.Render(keys)

	remaining := m.width - lipgloss.Width(nameSection) - lipgloss.Width(statsSection) - lipgloss.Width(keysSection)
	if remaining < 0 {
		remaining = 0
	}
	filler := lipgloss.NewStyle().Background(ColorBgDark).Width(remaining).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, nameSection, statsSection, filler, keysSection)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
