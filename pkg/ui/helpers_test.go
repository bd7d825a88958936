package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

func TestTruncateCells(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"this one is definitely too long", 10, "this one …"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateCells(tt.in, tt.width, "…"); got != tt.want {
			t.Errorf("truncateCells(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncateCellsWideRunes(t *testing.T) {
	// CJK runes are two cells wide; the result must respect cell width,
	// not rune count.
	got := truncateCells("日本語のタイトル", 8, "…")
	if w := runewidth.StringWidth(got); w > 8 {
		t.Errorf("truncated width = %d, want <= 8 (%q)", w, got)
	}
}

func TestPadCells(t *testing.T) {
	if got := padCells("ab", 5); got != "ab   " {
		t.Errorf("padCells = %q", got)
	}
	if got := padCells("abcdef", 3); got != "abcdef" {
		t.Errorf("padCells must not shrink, got %q", got)
	}
}

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, "unknown"},
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
		{now.Add(-14 * 24 * time.Hour), "2w ago"},
		{now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		if got := FormatTimeRel(tt.at); got != tt.want {
			t.Errorf("FormatTimeRel(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestStatusIconsDistinct(t *testing.T) {
	seen := map[string]model.Status{}
	for _, s := range []model.Status{
		model.StatusPlanned, model.StatusInProgress, model.StatusBlocked,
		model.StatusDone, model.StatusCancelled,
	} {
		icon := StatusIcon(s)
		if prev, dup := seen[icon]; dup {
			t.Errorf("statuses %s and %s share icon %q", prev, s, icon)
		}
		seen[icon] = s
	}
}

func TestScrollbarThumb(t *testing.T) {
	sb := NewScrollbar()
	sb.SetContentExtent(100)
	sb.SetThumbRatios(0.25, 0.5)
	sb.Render()

	view := stripANSI(sb.View(8))
	lines := strings.Split(view, "\n")
	if len(lines) != 8 {
		t.Fatalf("scrollbar height = %d, want 8", len(lines))
	}
	// Thumb occupies rows 2 through 4 for ratios [0.25, 0.5].
	for i, line := range lines {
		wantThumb := i >= 2 && i <= 4
		isThumb := line == "█"
		if wantThumb != isThumb {
			t.Errorf("row %d: thumb=%v, want %v", i, isThumb, wantThumb)
		}
	}
}

func TestScrollbarFullContentPlainTrack(t *testing.T) {
	sb := NewScrollbar()
	sb.SetThumbRatios(0, 1)

	view := stripANSI(sb.View(4))
	if strings.Contains(view, "█") {
		t.Errorf("fully visible content should draw no thumb, got %q", view)
	}
}
