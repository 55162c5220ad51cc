package personnummer

import (
	"errors"
	"fmt"
	"time"
)

// DigitCount is the length of the checksum input.
const DigitCount = 10

// Verdict is the outcome of a validation. When Valid is false, Reason holds
// the code of the stage that failed and Message a human readable explanation.
type Verdict struct {
	Valid   bool
	Reason  Reason
	Message string
}

// ValidVerdict is returned for identifiers that pass every stage.
var ValidVerdict = Verdict{Valid: true}

// VerdictOf converts a pipeline error into a Verdict. A nil error is valid;
// errors from outside this package are reported as malformed input.
func VerdictOf(err error) Verdict {
	if err == nil {
		return ValidVerdict
	}
	var e *Error
	if !errors.As(err, &e) {
		return Verdict{Reason: ReasonMalformedFormat, Message: err.Error()}
	}
	return Verdict{Reason: e.Reason, Message: e.Message}
}

// Err returns the verdict as an error, or nil when valid.
func (v Verdict) Err() error {
	if v.Valid {
		return nil
	}
	return &Error{Reason: v.Reason, Message: v.Message}
}

// String renders the verdict for logs and the CLI.
func (v Verdict) String() string {
	if v.Valid {
		return "valid"
	}
	if v.Message == "" {
		return string(v.Reason)
	}
	return fmt.Sprintf("%s (%s)", v.Message, v.Reason)
}

// Personnummer is a validated identifier.
//
// Invariants:
//   - BirthDate is a real calendar date no later than the reference year
//   - Serial is exactly four digits, the last one being the check digit
//   - Day keeps the coordination offset when Coordination is true
type Personnummer struct {
	birthDate    time.Time
	day          string
	serial       string
	coordination bool
	age          int
}

// Validate runs the full pipeline on raw against the reference date ref.
// Identical inputs always produce identical verdicts.
func Validate(raw string, ref time.Time) Verdict {
	_, err := Parse(raw, ref)
	return VerdictOf(err)
}

// Parse runs the full pipeline and returns the validated identifier. The
// returned error is always a *Error.
func Parse(raw string, ref time.Time) (Personnummer, error) {
	f, err := parseFields(raw)
	if err != nil {
		return Personnummer{}, err
	}

	year, err := resolveYear(f.yearFragment(), ref)
	if err != nil {
		return Personnummer{}, err
	}

	birth, coordination, err := buildBirthDate(year, f.monthValue(), f.dayValue())
	if err != nil {
		return Personnummer{}, err
	}

	if err := checkSeparator(birth, f.separator, ref); err != nil {
		return Personnummer{}, err
	}

	digits := f.digits()
	if len(digits) < DigitCount {
		return Personnummer{}, newError(ReasonTooFewDigits, "%d digits required, got %d", DigitCount, len(digits))
	}
	if !Luhn(digits) {
		return Personnummer{}, ErrInvalidChecksum
	}

	return Personnummer{
		birthDate:    birth,
		day:          f.day,
		serial:       f.serial,
		coordination: coordination,
		age:          AgeAt(birth, ref),
	}, nil
}

// MustParse is Parse that panics on error.
// Use only in tests or when the value is known to be valid.
func MustParse(raw string, ref time.Time) Personnummer {
	p, err := Parse(raw, ref)
	if err != nil {
		panic(err)
	}
	return p
}

// BirthDate returns the birth date with any coordination offset removed.
func (p Personnummer) BirthDate() time.Time {
	return p.birthDate
}

// Coordination reports whether this is a samordningsnummer.
func (p Personnummer) Coordination() bool {
	return p.coordination
}

// Age returns the holder's age on the reference date used for validation.
func (p Personnummer) Age() int {
	return p.age
}

// Serial returns the four trailing digits, including the check digit.
func (p Personnummer) Serial() string {
	return p.serial
}

// IsZero returns true if this is the zero value (uninitialized).
func (p Personnummer) IsZero() bool {
	return p.serial == ""
}

// String returns the ten-digit form YYMMDD-XXXX, using '+' for holders aged
// 100 or more.
func (p Personnummer) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d%02d%s%s%s",
		p.birthDate.Year()%100, int(p.birthDate.Month()), p.day, separatorFor(p.age), p.serial)
}

// Long returns the twelve-digit form YYYYMMDDXXXX without separator.
func (p Personnummer) Long() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d%02d%s%s",
		p.birthDate.Year(), int(p.birthDate.Month()), p.day, p.serial)
}
