package stats

import (
	"fmt"
	"strings"
)

const (
	barChartWidth  = 299
	barChartHeight = 50
	barChartGap    = 2
)

// RenderBarChart emits the monthly report as an inline SVG bar chart, one
// bar per day with the zero-padded day label as tooltip.
func RenderBarChart(report *BarChartReport, width, height, gap int) string {
	if len(report.Days) == 0 {
		return ""
	}

	max := 0
	for _, d := range report.Days {
		if d.Value > max {
			max = d.Value
		}
	}

	yScale := 0.0
	if height > 0 {
		yScale = float64(max) / float64(height)
	}
	barWidth := float64(width)/float64(len(report.Days)) - float64(gap)
	svgHeight := height + 25

	var b strings.Builder
	fmt.Fprintf(&b, `<svg version="1.1" xmlns="http://www.w3.org/2000/svg" `+
		`xmlns:xlink="http://www.w3.org/1999/xlink" `+
		`class="chart" width="%d" height="%d" aria-labelledby="title" role="img">`,
		width, svgHeight)

	for _, y := range []float64{0, float64(height) / 2, float64(height)} {
		fmt.Fprintf(&b, `<g><line x1="0" y1="%g" x2="%d" y2="%g" stroke="#eee" /></g>`, y, width, y)
	}

	for i, d := range report.Days {
		barHeight := float64(d.Value)
		if yScale > 0 {
			barHeight = float64(d.Value) / yScale
		}

		x := float64(i) * (barWidth + float64(gap))
		y := float64(height) - barHeight
		lineX := barWidth/2 + x
		tooltipY := height + 12
		tooltipX := clamp(lineX, 9, float64(width)-9)

		tooltip := ""
		if d.Label != "" {
			tooltip = fmt.Sprintf(`<g class="tooltip" style="transform:translate(%gpx,%dpx);">`+
				`<circle class="bg" r="9" fill="#333" />`+
				`<text dy=".35em" x="0" y="0" text-anchor="middle" class="count" fill="#fff">%s</text>`+
				`</g>`, tooltipX, tooltipY, d.Label)
		}

		fmt.Fprintf(&b, `<g class="bar">`+
			`<line class="grid" x1="%g" y1="0" x2="%g" y2="%d" stroke-width="4" />`+
			`<rect y="%g" x="%g" width="%g" height="%g" />%s</g>`,
			lineX, lineX, height, y, x, barWidth, barHeight, tooltip)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
