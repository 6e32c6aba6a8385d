package dates

import "time"

// Clock supplies the current time. "Today" is substituted for ongoing dates,
// so every calculation takes a Clock rather than reading the wall clock.
type Clock func() time.Time

// SystemClock reads the local wall clock
func SystemClock() time.Time {
	return time.Now()
}

// Fixed returns a Clock frozen at t
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today returns the clock's current calendar date
func (c Clock) Today() Date {
	if c == nil {
		return FromTime(SystemClock())
	}
	return FromTime(c())
}
