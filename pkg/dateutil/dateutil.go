package dateutil

import (
	"time"
)

// BirthYear approximates a birth year from an age held during the given calendar year
func BirthYear(calendarYear, age int) int {
	return calendarYear - age
}

// CurrentYear returns the calendar year of t, or of now when t is zero
func CurrentYear(t time.Time) int {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Year()
}

// RMDStartAge returns the age when required minimum distributions begin for a birth year
func RMDStartAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear >= 1951 && birthYear <= 1959:
		return 73
	default: // 1960 and later
		return 75
	}
}

// IsRMDAge reports whether age is at or past the RMD start age for the birth year
func IsRMDAge(birthYear, age int) bool {
	return age >= RMDStartAge(birthYear)
}
