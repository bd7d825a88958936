// Package export renders the current chart to static artifacts: SVG, PNG,
// and a markdown report. Exports draw from the same viewport controller the
// TUI uses, so collapse state and resource mode carry over.
package export

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/ganttview/pkg/model"
	"github.com/vanderheijden86/ganttview/pkg/tree"
	"github.com/vanderheijden86/ganttview/pkg/viewport"
)

// ChartOptions controls chart export behaviour.
type ChartOptions struct {
	Path         string  // Output path; format inferred from extension when Format empty
	Format       string  // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title        string  // Optional title rendered in the header block
	RowHeight    float64 // Row height in pixels (default 24)
	RowSpace     float64 // Inter-row gap in pixels
	DayWidth     float64 // Pixels per day on the timeline (default 18)
	ResourceMode bool    // Draw resource periods instead of task bars
}

type layoutBar struct {
	X, W      float64
	Label     string
	Color     color.RGBA
	Progress  float64 // 0..1, drawn as an inner fill
	Milestone bool    // drawn as a diamond at X
}

type layoutRow struct {
	Node  *tree.Node
	Y     float64
	H     float64
	Depth int
	Bars  []layoutBar
}

type layoutResult struct {
	Width, Height int
	Header        float64
	LabelW        float64
	Rows          []layoutRow
	Dates         viewport.DateRange
	DayWidth      float64
	Title         string
	Ticks         []layoutTick
}

type layoutTick struct {
	X     float64
	Label string
}

// SaveChart renders the controller's current visible rows to a static chart.
func SaveChart(ctrl *viewport.Controller, opts ChartOptions) error {
	format, path, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Path = path

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(ctrl, opts)

	switch format {
	case "svg":
		return renderSVG(opts, layout)
	case "png":
		return renderPNG(opts, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// ExportAll renders one chart per requested format concurrently. basePath
// carries no extension; each format appends its own.
func ExportAll(ctx context.Context, ctrl *viewport.Controller, opts ChartOptions, basePath string, formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("no export formats requested")
	}
	layoutOpts := opts

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := layoutOpts
			o.Format = format
			o.Path = basePath + "." + strings.TrimPrefix(format, ".")
			return SaveChart(ctrl, o)
		})
	}
	return g.Wait()
}

func resolveFormat(format, path string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case "":
			format = "svg" // safe default
			if path != "" {
				path += ".svg"
			}
		default:
			return "", "", fmt.Errorf("unsupported format %q (want svg or png)", ext)
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// buildLayout positions every visible row and its bars in pixel space.
func buildLayout(ctrl *viewport.Controller, opts ChartOptions) layoutResult {
	if opts.RowHeight <= 0 {
		opts.RowHeight = 24
	}
	if opts.DayWidth <= 0 {
		opts.DayWidth = 18
	}

	const header = 72.0
	const labelW = 220.0

	dates := ctrl.Dates()
	days := 1.0
	if !dates.IsZero() {
		days = dates.Max.Sub(dates.Min).Hours()/24 + 1
	}

	layout := layoutResult{
		Header:   header,
		LabelW:   labelW,
		Dates:    dates,
		DayWidth: opts.DayWidth,
		Title:    opts.Title,
	}

	x := func(t time.Time) float64 {
		if dates.IsZero() {
			return labelW
		}
		return labelW + t.Sub(dates.Min).Hours()/24*opts.DayWidth
	}

	y := header
	for _, n := range ctrl.VisibleRows() {
		row := layoutRow{
			Node:  n,
			Y:     y,
			H:     opts.RowHeight,
			Depth: ctrl.Depth(n),
		}
		if task := n.Task; task != nil {
			if opts.ResourceMode && len(task.Periods) > 0 {
				for _, p := range task.Periods {
					if p == nil || p.Start.IsZero() || p.End.IsZero() {
						continue
					}
					row.Bars = append(row.Bars, layoutBar{
						X:     x(p.Start),
						W:     maxf(p.End.Sub(p.Start).Hours()/24*opts.DayWidth, 2),
						Label: p.Label,
						Color: colorPeriod,
					})
				}
			} else if task.IsMilestone() && !task.Start.IsZero() {
				row.Bars = append(row.Bars, layoutBar{
					X:         x(task.Start),
					Color:     colorMilestone,
					Milestone: true,
				})
			} else if !task.Start.IsZero() && !task.End.IsZero() {
				row.Bars = append(row.Bars, layoutBar{
					X:        x(task.Start),
					W:        maxf(task.End.Sub(task.Start).Hours()/24*opts.DayWidth, 2),
					Color:    statusColor(task.Status),
					Progress: task.Progress,
				})
			}
		}
		layout.Rows = append(layout.Rows, row)
		y += opts.RowHeight + opts.RowSpace
	}

	layout.Ticks = monthTicks(dates, x)
	layout.Width = int(labelW + days*opts.DayWidth + 32)
	layout.Height = int(y + 24)
	if layout.Width < 480 {
		layout.Width = 480
	}
	return layout
}

// monthTicks returns one tick per month boundary inside the date range.
func monthTicks(dates viewport.DateRange, x func(time.Time) float64) []layoutTick {
	if dates.IsZero() {
		return nil
	}
	var ticks []layoutTick
	t := time.Date(dates.Min.Year(), dates.Min.Month(), 1, 0, 0, 0, 0, dates.Min.Location())
	if t.Before(dates.Min) {
		t = t.AddDate(0, 1, 0)
	}
	for !t.After(dates.Max) {
		ticks = append(ticks, layoutTick{X: x(t), Label: t.Format("Jan 2006")})
		t = t.AddDate(0, 1, 0)
	}
	return ticks
}

var (
	colorBackdrop  = color.RGBA{0x1e, 0x1e, 0x2e, 0xff}
	colorHeaderBG  = color.RGBA{0x31, 0x32, 0x44, 0xff}
	colorText      = color.RGBA{0xcd, 0xd6, 0xf4, 0xff}
	colorSubtle    = color.RGBA{0xa6, 0xad, 0xc8, 0xff}
	colorGrid      = color.RGBA{0x45, 0x47, 0x5a, 0xff}
	colorStroke    = color.RGBA{0x58, 0x5b, 0x70, 0xff}
	colorPlanned   = color.RGBA{0x74, 0xc7, 0xec, 0xff}
	colorInProg    = color.RGBA{0xf9, 0xe2, 0xaf, 0xff}
	colorBlocked   = color.RGBA{0xf3, 0x8b, 0xa8, 0xff}
	colorDone      = color.RGBA{0xa6, 0xe3, 0xa1, 0xff}
	colorCancelled = color.RGBA{0x6c, 0x70, 0x86, 0xff}
	colorMilestone = color.RGBA{0xcb, 0xa6, 0xf7, 0xff}
	colorPeriod    = color.RGBA{0x94, 0xe2, 0xd5, 0xff}
	colorProgress  = color.RGBA{0xff, 0xff, 0xff, 0x59}
)

func statusColor(s model.Status) color.RGBA {
	switch s {
	case model.StatusInProgress:
		return colorInProg
	case model.StatusBlocked:
		return colorBlocked
	case model.StatusDone:
		return colorDone
	case model.StatusCancelled:
		return colorCancelled
	default:
		return colorPlanned
	}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// truncate shortens a label to n cells without splitting multi-byte runes.
func truncate(s string, n int) string {
	if runewidth.StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return runewidth.Truncate(s, n, "")
	}
	return runewidth.Truncate(s, n, "...")
}

func rowLabel(r layoutRow) string {
	if r.Node == nil || r.Node.Task == nil {
		return ""
	}
	return strings.Repeat("  ", r.Depth) + r.Node.Task.Title
}
