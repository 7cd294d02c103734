package stats

import (
	"fmt"
	"strings"
	"time"
)

// heatmapFloor keeps the color scale stable for low-traffic codes: with
// fewer than ten hits in the hottest cell, ten is still the scale maximum.
const heatmapFloor = 10

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// HeatmapColor maps a cell value onto the blue-to-red HSL ramp used by the
// weekly grid. Zero is deep blue, the scale maximum is red.
func HeatmapColor(value, max int) string {
	if max <= 0 {
		max = 1
	}
	h := (1.0 - float64(value)/float64(max)) * 240
	return fmt.Sprintf("hsl(%g, 100%%, 50%%)", h)
}

// RenderHeatmap emits the weekly report as an HTML grid, one row per
// weekday and one cell per hour, colored by total hits.
func RenderHeatmap(report *HeatmapReport) string {
	max := report.MaxHits
	if max < heatmapFloor {
		max = heatmapFloor
	}

	cells := make(map[[2]int]HeatmapCell, len(report.Cells))
	for _, c := range report.Cells {
		cells[[2]int{int(c.Weekday), c.Hour}] = c
	}

	var b strings.Builder
	b.WriteString(`<div class="ci-heatmap-container">`)

	for weekday := 0; weekday < 7; weekday++ {
		b.WriteString(`<div class="ci-heatmap-row">`)
		if weekday%2 != 0 {
			fmt.Fprintf(&b, `<span class="dow">%s</span>`, weekdayLabels[weekday])
		} else {
			b.WriteString(`<span class="dow">&nbsp;</span>`)
		}

		for hour := 0; hour < 24; hour++ {
			cell, ok := cells[[2]int{weekday, hour}]
			if !ok {
				b.WriteString(`<div class="ci-heatmap-cell"></div>`)
				continue
			}

			noun := "hit"
			if cell.TotalHits > 1 {
				noun = "hits"
			}
			fmt.Fprintf(&b, `<div class="ci-heatmap-cell" style="background-color: %s;">`,
				HeatmapColor(cell.TotalHits, max))
			fmt.Fprintf(&b, `<p class="info"><strong>%d %s - </strong><span>%s</span><i class="arrow-down"></i></p>`,
				cell.TotalHits, noun, cell.LastTime.Format("Jan 2, 15:04"))
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

// RenderColorScale emits the ten-step legend matching the heatmap ramp.
func RenderColorScale() string {
	var b strings.Builder
	b.WriteString(`<span class="ci-chart-colors">`)
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, `<i class="gradient" style="background-color: %s;"></i>`, HeatmapColor(i, 9))
	}
	b.WriteString(`</span>`)
	return b.String()
}

// WeeklyWindow returns the trailing seven-day window ending at now.
func WeeklyWindow(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -6).Truncate(24 * time.Hour), now
}
