package service

import "time"

// Chicago returns the chain's home timezone. Every business date in the
// system (order dates, report days, "today" on the kitchen display) is a
// Chicago calendar date.
func Chicago() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		// Fallback to a fixed CST offset if tzdata is unavailable
		return time.FixedZone("CST", -6*3600)
	}
	return loc
}

// BusinessToday returns midnight of the current Chicago calendar date.
func BusinessToday() time.Time {
	now := time.Now().In(Chicago())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, Chicago())
}
