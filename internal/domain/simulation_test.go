// internal/domain/simulation_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero", date(2025, time.October, 8), 0, date(2025, time.October, 8)},
		{"plain", date(2025, time.October, 8), 5, date(2026, time.March, 8)},
		{"jan31 to feb", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"jan31 to leap feb", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan31 to mar keeps 31", date(2024, time.January, 31), 2, date(2024, time.March, 31)},
		{"aug31 to sep", date(2025, time.August, 31), 1, date(2025, time.September, 30)},
		{"across years", date(2025, time.December, 15), 14, date(2027, time.February, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.start, tt.n))
		})
	}
}

func TestPeriodDate(t *testing.T) {
	start := date(2025, time.October, 8)

	got, err := PeriodDate(start, FrequencyWeekly, 4)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.November, 5), got)

	got, err = PeriodDate(start, FrequencyMonthly, 3)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 8), got)

	_, err = PeriodDate(start, Frequency("daily"), 1)
	assert.Error(t, err)
}

func TestSimulationStatePeriod(t *testing.T) {
	s := &SimulationState{CurrentMonth: 3, CurrentWeek: 11}

	m, err := s.Period(FrequencyMonthly)
	require.NoError(t, err)
	assert.Equal(t, 3, m)

	w, err := s.Period(FrequencyWeekly)
	require.NoError(t, err)
	assert.Equal(t, 11, w)
}
