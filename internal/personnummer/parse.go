package personnummer

import (
	"regexp"
	"strconv"
)

// shape matches an optional century, year, month, day and then either a
// separator followed by up to four digits, or exactly four digits. Without a
// separator the digit count is what tells a 10-digit form from a 12-digit one,
// so the short trailing group is only tolerated after a separator; the
// orchestrator reports it as too few digits once the date stages have run.
var shape = regexp.MustCompile(`^(\d{2})?(\d{2})(\d{2})(\d{2})(?:([-+])(\d{0,4})|(\d{4}))$`)

const (
	SeparatorStandard    = "-"
	SeparatorCentenarian = "+"
)

// fields is the structural decomposition of a raw identifier. Month and day
// are numeric but not range checked here.
type fields struct {
	century   string
	year      string
	month     string
	day       string
	separator string
	serial    string
}

func parseFields(raw string) (fields, error) {
	m := shape.FindStringSubmatch(raw)
	if m == nil {
		return fields{}, ErrMalformedFormat
	}
	f := fields{
		century:   m[1],
		year:      m[2],
		month:     m[3],
		day:       m[4],
		separator: m[5],
		serial:    m[6],
	}
	if f.separator == "" {
		f.serial = m[7]
	}
	return f, nil
}

// yearFragment is the 2 or 4 digit year as written.
func (f fields) yearFragment() string {
	return f.century + f.year
}

func (f fields) monthValue() int {
	v, _ := strconv.Atoi(f.month)
	return v
}

func (f fields) dayValue() int {
	v, _ := strconv.Atoi(f.day)
	return v
}

// digits is the checksum input: the identifier without separator and without
// its century, i.e. the last ten digits of a well-formed identifier.
func (f fields) digits() string {
	return f.year + f.month + f.day + f.serial
}
