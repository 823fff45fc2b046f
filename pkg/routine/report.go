package routine

import (
	"sort"
	"time"
)

// DayReport aggregates one date.
type DayReport struct {
	Date         string  `json:"date" yaml:"date"`
	Completed    int     `json:"completed" yaml:"completed"`
	Total        int     `json:"total" yaml:"total"`
	PlannedHours float64 `json:"planned_hours" yaml:"planned_hours"`
	ActualHours  float64 `json:"actual_hours" yaml:"actual_hours"`
}

// Report aggregates the given date. Actual time includes running timers.
func (d *Document) Report(date, now time.Time) DayReport {
	r := DayReport{Date: DateKey(date)}
	day, ok := d.Day(r.Date)
	if !ok {
		return r
	}
	planned, actual := 0, 0.0
	day.Each(func(_ string, a *Activity) bool {
		r.Total++
		if a.Completed {
			r.Completed++
		}
		planned += a.PlannedMinutes()
		actual += a.Timer.Elapsed(now)
		return true
	})
	r.PlannedHours = float64(planned) / 60
	r.ActualHours = actual / 3600
	return r
}

// Progress is the share of completed activities, 0 for an empty day.
func (r DayReport) Progress() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Total) * 100
}

// WeekStart returns the Monday of date's week.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// Week reports the Monday-to-Sunday week containing date.
func (d *Document) Week(date, now time.Time) []DayReport {
	return d.Window(WeekStart(date), 7, now)
}

// Window reports days consecutive dates starting at from.
func (d *Document) Window(from time.Time, days int, now time.Time) []DayReport {
	out := make([]DayReport, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, d.Report(from.AddDate(0, 0, i), now))
	}
	return out
}

// CategoryHours is the tracked time for one category.
type CategoryHours struct {
	Category string  `json:"category" yaml:"category"`
	Hours    float64 `json:"hours" yaml:"hours"`
}

// Analytics summarises every recorded day.
type Analytics struct {
	Activities     int             `json:"activities" yaml:"activities"`
	CompletionRate float64         `json:"completion_rate" yaml:"completion_rate"`
	ByCategory     []CategoryHours `json:"by_category" yaml:"by_category"`
	Daily          []DayReport     `json:"daily" yaml:"daily"`
}

// Analytics aggregates tracked time by category and by date, and the overall
// completion rate.
func (d *Document) Analytics(now time.Time) Analytics {
	var out Analytics
	hours := map[string]float64{}
	completed := 0
	d.Routines.Each(func(date string, day *Day) bool {
		report := DayReport{Date: date}
		actual := 0.0
		day.Each(func(_ string, a *Activity) bool {
			out.Activities++
			report.Total++
			if a.Completed {
				completed++
				report.Completed++
			}
			sec := a.Timer.Elapsed(now)
			actual += sec
			hours[a.Category] += sec / 3600
			report.PlannedHours += float64(a.PlannedMinutes()) / 60
			return true
		})
		report.ActualHours = actual / 3600
		out.Daily = append(out.Daily, report)
		return true
	})
	if out.Activities > 0 {
		out.CompletionRate = float64(completed) / float64(out.Activities) * 100
	}
	sort.Slice(out.Daily, func(i, j int) bool { return out.Daily[i].Date < out.Daily[j].Date })

	for _, c := range Categories {
		if h, ok := hours[c]; ok {
			out.ByCategory = append(out.ByCategory, CategoryHours{Category: c, Hours: h})
			delete(hours, c)
		}
	}
	var rest []string
	for c := range hours {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	for _, c := range rest {
		out.ByCategory = append(out.ByCategory, CategoryHours{Category: c, Hours: hours[c]})
	}
	return out
}
