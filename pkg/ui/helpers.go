package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// FormatTimeRel returns a relative time string (e.g., "2h ago", "3d ago")
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	if d < 0 {
		// Future timestamps treated as now
		return "now"
	}
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	default:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	}
}

// truncateCells truncates a string to max visual width (cells), adding suffix
// if needed. Uses go-runewidth to handle wide characters correctly.
func truncateCells(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		// Even suffix is too wide, truncate suffix
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padCells pads string s with spaces on the right to the given cell width
func padCells(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// StatusIcon returns a single-cell marker for a task status
func StatusIcon(s model.Status) string {
	switch s {
	case model.StatusInProgress:
		return "◐"
	case model.StatusBlocked:
		return "✗"
	case model.StatusDone:
		return "✓"
	case model.StatusCancelled:
		return "⊘"
	default:
		return "○"
	}
}

// TypeIcon returns a marker for a task type
func TypeIcon(t model.TaskType) string {
	switch t {
	case model.TypeProject:
		return "▣"
	case model.TypePhase:
		return "▤"
	case model.TypeMilestone:
		return "◆"
	default:
		return "▪"
	}
}

func statusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusInProgress:
		return ColorInProgress
	case model.StatusBlocked:
		return ColorBlocked
	case model.StatusDone:
		return ColorDone
	case model.StatusCancelled:
		return ColorCancelled
	default:
		return ColorPlanned
	}
}
