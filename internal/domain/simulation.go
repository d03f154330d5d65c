// internal/domain/simulation.go
package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire and in config.
const DateLayout = "2006-01-02"

// SimulationState holds the per-frequency period counters.
type SimulationState struct {
	CurrentMonth int       `db:"current_month" json:"current_month"`
	CurrentWeek  int       `db:"current_week" json:"current_week"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Period returns the counter for the given frequency class.
func (s *SimulationState) Period(f Frequency) (int, error) {
	switch f {
	case FrequencyMonthly:
		return s.CurrentMonth, nil
	case FrequencyWeekly:
		return s.CurrentWeek, nil
	default:
		return 0, fmt.Errorf("unknown frequency %q", f)
	}
}

// PeriodDate derives the simulated date of period n for a frequency class.
// Monthly periods use AddMonthsClamped; weekly periods add 7*n days.
func PeriodDate(start time.Time, f Frequency, n int) (time.Time, error) {
	switch f {
	case FrequencyMonthly:
		return AddMonthsClamped(start, n), nil
	case FrequencyWeekly:
		return DateOf(start).AddDate(0, 0, 7*n), nil
	default:
		return time.Time{}, fmt.Errorf("unknown frequency %q", f)
	}
}

// AddMonthsClamped adds n calendar months to start. When the start day does
// not exist in the target month, the last day of that month is used, so
// Jan 31 + 1 month is Feb 28 (or 29) and never rolls into March.
// The result is always derived from start, not from the previous period.
func AddMonthsClamped(start time.Time, n int) time.Time {
	y, m, d := start.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SimulationStatus is the presentation shape of the clock.
type SimulationStatus struct {
	CurrentMonth    int    `json:"current_month"`
	CurrentWeek     int    `json:"current_week"`
	NextMonthlyDate string `json:"next_monthly_date"`
	NextWeeklyDate  string `json:"next_weekly_date"`
}
