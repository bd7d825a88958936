package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"
)

func renderSVG(opts ChartOptions, layout layoutResult) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-28), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	title := layout.Title
	if title == "" {
		title = "Gantt chart"
	}
	canvas.Text(32, 42, title, fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))
	if !layout.Dates.IsZero() {
		span := fmt.Sprintf("%s to %s", layout.Dates.Min.Format("2006-01-02"), layout.Dates.Max.Format("2006-01-02"))
		canvas.Text(32, 58, span, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
	}

	// month grid
	for _, tick := range layout.Ticks {
		x := int(tick.X)
		canvas.Line(x, int(layout.Header), x, layout.Height-16,
			fmt.Sprintf("stroke:%s;stroke-width:1", css(colorGrid)))
		canvas.Text(x+4, int(layout.Header)-4, tick.Label,
			fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorSubtle)))
	}

	for _, row := range layout.Rows {
		yMid := int(row.Y + row.H/2)
		canvas.Text(16, yMid+4, truncate(rowLabel(row), 32),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorText)))

		for _, bar := range row.Bars {
			if bar.Milestone {
				drawDiamondSVG(canvas, bar.X, row.Y+row.H/2, row.H*0.35)
				continue
			}
			barH := row.H * 0.6
			y := int(row.Y + (row.H-barH)/2)
			canvas.Roundrect(int(bar.X), y, int(bar.W), int(barH), 3, 3,
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(bar.Color), css(colorStroke)))
			if bar.Progress > 0 {
				canvas.Rect(int(bar.X), y, int(bar.W*bar.Progress), int(barH),
					"fill:#ffffff;fill-opacity:0.35")
			}
			if bar.Label != "" {
				canvas.Text(int(bar.X)+4, yMid+3, truncate(bar.Label, 20),
					fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorBackdrop)))
			}
		}
	}

	canvas.End()
	return nil
}

func drawDiamondSVG(canvas *svg.SVG, cx, cy, r float64) {
	xs := []int{int(cx - r), int(cx), int(cx + r), int(cx)}
	ys := []int{int(cy), int(cy - r), int(cy), int(cy + r)}
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorMilestone), css(colorStroke)))
}
