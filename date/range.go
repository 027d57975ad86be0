package date

import "fmt"

// Range is a span of days, both ends included.
type Range struct{ From, To Date }

// Lookback returns the range covering the given number of years before today,
// ending yesterday. Today is excluded because its close is not yet known.
func Lookback(today Date, years int) Range {
	return Range{From: today.AddYears(-years), To: today.Add(-1)}
}

// IsEmpty reports whether the range contains no day at all.
func (r Range) IsEmpty() bool { return r.To.Before(r.From) }

// String returns the range as "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Contains reports whether day is within the range.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

