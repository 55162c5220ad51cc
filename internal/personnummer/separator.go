package personnummer

import "time"

// CentenarianAge is the age from which the '+' separator is mandatory.
const CentenarianAge = 100

// AgeAt returns the holder's age in whole years on ref.
//
// The birthday test compares ordinal days of the year, so around 29 February
// the result can be off by one between leap and non-leap years.
func AgeAt(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.YearDay() < birth.YearDay() {
		age--
	}
	return age
}

// separatorFor returns the separator required for a holder of the given age.
func separatorFor(age int) string {
	if age >= CentenarianAge {
		return SeparatorCentenarian
	}
	return SeparatorStandard
}

// checkSeparator enforces '+' for holders aged 100 or more and '-' (or no
// separator) for everyone else.
func checkSeparator(birth time.Time, separator string, ref time.Time) error {
	age := AgeAt(birth, ref)
	if age >= CentenarianAge {
		if separator != SeparatorCentenarian {
			return newError(ReasonWrongSeparator, "'+' required")
		}
		return nil
	}
	if separator == SeparatorCentenarian {
		return newError(ReasonWrongSeparator, "'-' required")
	}
	return nil
}
