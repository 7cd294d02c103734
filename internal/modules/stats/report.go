package stats

import (
	"fmt"
	"time"

	"github.com/code-injection/core/internal/models"
	"github.com/code-injection/core/internal/modules/activity"
)

// HeatmapCell is one (weekday, hour) bucket of the weekly report.
type HeatmapCell struct {
	Weekday     time.Weekday `json:"weekday"`
	Hour        int          `json:"hour"`
	TotalHits   int          `json:"total_hits"`
	UniqueHits  int          `json:"unique_hits"`
	TotalErrors int          `json:"total_errors"`
	LastTime    time.Time    `json:"last_time"`
}

// HeatmapReport is the weekly (weekday × hour) projection of activity for
// one code identifier.
type HeatmapReport struct {
	Identifier string        `json:"identifier"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Cells      []HeatmapCell `json:"cells"`
	MaxHits    int           `json:"max_hits"`
}

// BarChartDay is one day's hit total in the monthly report.
type BarChartDay struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// BarChartReport is the per-day projection for one calendar month. Every
// day of the month is present, months without activity report all zeros.
type BarChartReport struct {
	Identifier string        `json:"identifier"`
	Year       int           `json:"year"`
	Month      time.Month    `json:"month"`
	Days       []BarChartDay `json:"days"`
}

// Service computes read-only projections over recorded activity. Reports
// are recomputed from the event window on every call; nothing is cached
// here.
type Service struct {
	store activity.Store
}

func NewService(store activity.Store) *Service { return &Service{store: store} }

// ReportWeekly aggregates events for the identifier in [start, end] into
// (weekday, hour) cells with total, unique-ip and error counts.
func (s *Service) ReportWeekly(identifier string, start, end time.Time) (*HeatmapReport, error) {
	events, err := s.store.QueryWindow(identifier, start, end)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		cell HeatmapCell
		ips  map[string]bool
	}
	buckets := make(map[[2]int]*bucket)

	for _, ev := range events {
		t := ev.Time
		key := [2]int{int(t.Weekday()), t.Hour()}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				cell: HeatmapCell{Weekday: t.Weekday(), Hour: t.Hour()},
				ips:  make(map[string]bool),
			}
			buckets[key] = b
		}
		b.cell.TotalHits++
		if ev.ErrorCode != models.ErrNone {
			b.cell.TotalErrors++
		}
		if ev.IP != nil {
			b.ips[*ev.IP] = true
		}
		if t.After(b.cell.LastTime) {
			b.cell.LastTime = t
		}
	}

	report := &HeatmapReport{Identifier: identifier, Start: start, End: end}
	for weekday := 0; weekday < 7; weekday++ {
		for hour := 0; hour < 24; hour++ {
			if b, ok := buckets[[2]int{weekday, hour}]; ok {
				b.cell.UniqueHits = len(b.ips)
				report.Cells = append(report.Cells, b.cell)
				if b.cell.TotalHits > report.MaxHits {
					report.MaxHits = b.cell.TotalHits
				}
			}
		}
	}
	return report, nil
}

// ReportMonthly aggregates events by day for one calendar month. The
// returned slice always has one entry per day of that month.
func (s *Service) ReportMonthly(identifier string, year int, month time.Month) (*BarChartReport, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	length := end.Day()

	report := &BarChartReport{Identifier: identifier, Year: year, Month: month}
	report.Days = make([]BarChartDay, length)
	for i := range report.Days {
		report.Days[i] = BarChartDay{Day: i + 1, Label: fmt.Sprintf("%02d", i+1)}
	}

	events, err := s.store.QueryWindow(identifier, start, end)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		day := ev.Time.Day()
		if day >= 1 && day <= length {
			report.Days[day-1].Value++
		}
	}
	return report, nil
}
