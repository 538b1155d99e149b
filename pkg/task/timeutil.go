package task

import "time"

// SameLocalDay reports whether two epoch-millisecond timestamps fall on the
// same calendar day in the given location. Used to gate the daily reset
// confirmation; two instants in the same UTC day can still be different
// local days.
func SameLocalDay(a, b int64, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	at := time.UnixMilli(a).In(loc)
	bt := time.UnixMilli(b).In(loc)
	return at.Day() == bt.Day() &&
		at.Month() == bt.Month() &&
		at.Year() == bt.Year()
}
