package export

import (
	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

func renderPNG(opts ChartOptions, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-28, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	title := layout.Title
	if title == "" {
		title = "Gantt chart"
	}
	dc.SetColor(colorText)
	dc.DrawStringAnchored(title, 32, 40, 0, 0.5)
	if !layout.Dates.IsZero() {
		dc.SetColor(colorSubtle)
		span := layout.Dates.Min.Format("2006-01-02") + " to " + layout.Dates.Max.Format("2006-01-02")
		dc.DrawStringAnchored(span, 32, 56, 0, 0.5)
	}

	// month grid
	for _, tick := range layout.Ticks {
		dc.SetColor(colorGrid)
		dc.SetLineWidth(1)
		dc.DrawLine(tick.X, layout.Header, tick.X, float64(layout.Height)-16)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(tick.Label, tick.X+4, layout.Header-8, 0, 0.5)
	}

	for _, row := range layout.Rows {
		yMid := row.Y + row.H/2
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(rowLabel(row), 32), 16, yMid, 0, 0.5)

		for _, bar := range row.Bars {
			if bar.Milestone {
				drawDiamondPNG(dc, bar.X, yMid, row.H*0.35)
				continue
			}
			barH := row.H * 0.6
			y := row.Y + (row.H-barH)/2

			dc.SetColor(bar.Color)
			dc.DrawRoundedRectangle(bar.X, y, bar.W, barH, 3)
			dc.Fill()
			dc.SetColor(colorStroke)
			dc.SetLineWidth(1)
			dc.DrawRoundedRectangle(bar.X, y, bar.W, barH, 3)
			dc.Stroke()

			if bar.Progress > 0 {
				dc.SetColor(colorProgress)
				dc.DrawRectangle(bar.X, y, bar.W*bar.Progress, barH)
				dc.Fill()
			}
			if bar.Label != "" {
				dc.SetColor(colorBackdrop)
				dc.DrawStringAnchored(truncate(bar.Label, 20), bar.X+4, yMid, 0, 0.5)
			}
		}
	}

	return dc.SavePNG(opts.Path)
}

func drawDiamondPNG(dc *gg.Context, cx, cy, r float64) {
	dc.SetColor(colorMilestone)
	dc.NewSubPath()
	dc.MoveTo(cx-r, cy)
	dc.LineTo(cx, cy-r)
	dc.LineTo(cx+r, cy)
	dc.LineTo(cx, cy+r)
	dc.ClosePath()
	dc.Fill()
}
