package actuarial

import (
	"fmt"
	"time"
)

// DaysPerYear is the day-count basis for fractional-year arithmetic.
const DaysPerYear = 365.25

// Period represents an inclusive date interval at day granularity.
// Both Start and End are covered days; End must not precede Start.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod constructs a validated period. Timestamps are truncated to UTC
// midnight so that intraday components never leak into day arithmetic.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: DateOnly(start), End: DateOnly(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// CalendarYear returns the period covering the full calendar year.
func CalendarYear(year int) Period {
	return Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Validate checks that the period is well formed.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("period has zero date: start=%v end=%v", p.Start, p.End)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("period end %s precedes start %s",
			p.End.Format("2006-01-02"), p.Start.Format("2006-01-02"))
	}
	return nil
}

// Days returns the number of covered days, counting both endpoints.
// The calendar year 2024 has 366 days; 2023 has 365.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Years returns the period length in fractional years on the 365.25 basis.
func (p Period) Years() float64 {
	return float64(p.Days()) / DaysPerYear
}

// Contains reports whether the date falls on a covered day.
func (p Period) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Overlaps reports whether the two periods share at least one covered day.
func (p Period) Overlaps(other Period) bool {
	return !p.Start.After(other.End) && !other.Start.After(p.End)
}

// OverlapDays returns the number of days covered by both periods,
// zero when they do not intersect.
func (p Period) OverlapDays(other Period) int {
	start := p.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := p.End
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return 0
	}
	return DaysBetween(start, end) + 1
}

// String renders the period as an inclusive date range.
func (p Period) String() string {
	return fmt.Sprintf("[%s, %s]", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// DateOnly truncates a timestamp to UTC midnight of the same calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b, negative when
// b precedes a. Both arguments are truncated to day granularity first.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
