package personnummer

import (
	"strconv"
	"time"
)

// MinBirthYear is the earliest accepted four-digit birth year.
const MinBirthYear = 1900

// resolveYear turns the year fragment into a four-digit year.
//
// Four-digit fragments are taken as written and bounded by MinBirthYear and
// the reference year. Two-digit fragments use a sliding century: values up to
// the reference year's last two digits land in the 2000s, the rest in the
// 1900s.
func resolveYear(fragment string, ref time.Time) (int, error) {
	value, err := strconv.Atoi(fragment)
	if err != nil {
		return 0, ErrMalformedFormat
	}

	switch len(fragment) {
	case 4:
		if value > ref.Year() {
			return 0, newError(ReasonYearInFuture, "birth year %d is after %d", value, ref.Year())
		}
		if value < MinBirthYear {
			return 0, newError(ReasonYearTooOld, "birth year %d is before %d", value, MinBirthYear)
		}
		return value, nil
	case 2:
		if value <= ref.Year()%100 {
			return 2000 + value, nil
		}
		return 1900 + value, nil
	default:
		return 0, ErrMalformedFormat
	}
}
