package personnummer

import "time"

// CoordinationOffset is added to the day of month in a coordination number.
const CoordinationOffset = 60

// buildBirthDate validates (year, month, dayRaw) as a Gregorian date. A raw
// day of 61 or more is a coordination number and has the offset removed
// first; the returned flag reports whether that happened.
func buildBirthDate(year, month, dayRaw int) (time.Time, bool, error) {
	coordination := dayRaw > CoordinationOffset
	day := dayRaw
	if coordination {
		day -= CoordinationOffset
	}

	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, coordination, newError(ReasonInvalidDate, "%04d-%02d-%02d is not a calendar date", year, month, day)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), coordination, nil
}

// daysIn returns the number of days in month, honoring Gregorian leap years.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
