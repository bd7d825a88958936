package ui

import "strings"

// ScrollbarView is a one-column vertical scrollbar mirroring the viewport as
// thumb ratios. It implements viewport.Scrollbar; the controller pushes
// ratios, the model draws it next to the panes.
type ScrollbarView struct {
	total      float64
	startRatio float64
	endRatio   float64
	renders    int
}

// NewScrollbar creates an empty scrollbar.
func NewScrollbar() *ScrollbarView {
	return &ScrollbarView{}
}

// SetContentExtent records the total content height in pixels.
func (s *ScrollbarView) SetContentExtent(total float64) {
	s.total = total
}

// SetThumbRatios records the visible window as fractions of the content.
func (s *ScrollbarView) SetThumbRatios(start, end float64) {
	s.startRatio = start
	s.endRatio = end
}

// Render marks a completed push from the controller.
func (s *ScrollbarView) Render() {
	s.renders++
}

// Ratios returns the current thumb fractions.
func (s *ScrollbarView) Ratios() (start, end float64) {
	return s.startRatio, s.endRatio
}

// View draws the bar as height stacked cells, thumb highlighted.
func (s *ScrollbarView) View(height int) string {
	if height <= 0 {
		return ""
	}

	// Everything visible: no thumb needed, draw a plain track.
	if s.startRatio <= 0 && (s.endRatio >= 1 || s.endRatio <= 0) {
		track := strings.TrimSuffix(strings.Repeat("│\n", height), "\n")
		return TickStyle.Render(track)
	}

	from := int(s.startRatio * float64(height))
	to := int(s.endRatio * float64(height))
	if to >= height {
		to = height - 1
	}
	if from > to {
		from = to
	}

	var b strings.Builder
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		if i >= from && i <= to {
			b.WriteString(SubtleStyle.Render("█"))
		} else {
			b.WriteString(TickStyle.Render("│"))
		}
	}
	return b.String()
}
