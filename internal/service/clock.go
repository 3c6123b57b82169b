package service

import "time"

// Clock supplies the current time. Tests pass a fixed clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the local wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Weekday returns t's day of week with Monday = 0 ... Sunday = 6, the
// numbering used for dayOfWeek throughout the API.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
