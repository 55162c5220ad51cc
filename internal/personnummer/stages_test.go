package personnummer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFields(t *testing.T) {
	t.Run("ten digits with separator", func(t *testing.T) {
		f, err := parseFields("870604-6714")
		require.NoError(t, err)
		assert.Equal(t, "87", f.yearFragment())
		assert.Equal(t, 6, f.monthValue())
		assert.Equal(t, 4, f.dayValue())
		assert.Equal(t, "-", f.separator)
		assert.Equal(t, "6714", f.serial)
		assert.Equal(t, "8706046714", f.digits())
	})

	t.Run("ten digits without separator keeps the short year", func(t *testing.T) {
		f, err := parseFields("8706046714")
		require.NoError(t, err)
		assert.Equal(t, "87", f.yearFragment())
		assert.Empty(t, f.separator)
		assert.Equal(t, "6714", f.serial)
	})

	t.Run("twelve digits drops the century from the checksum input", func(t *testing.T) {
		f, err := parseFields("198706046714")
		require.NoError(t, err)
		assert.Equal(t, "1987", f.yearFragment())
		assert.Equal(t, "8706046714", f.digits())
	})

	t.Run("day range is not checked", func(t *testing.T) {
		f, err := parseFields("870699+6714")
		require.NoError(t, err)
		assert.Equal(t, 99, f.dayValue())
		assert.Equal(t, "+", f.separator)
	})

	t.Run("short trailing group only after a separator", func(t *testing.T) {
		f, err := parseFields("870604-67")
		require.NoError(t, err)
		assert.Equal(t, "67", f.serial)

		_, err = parseFields("87060467")
		assert.ErrorIs(t, err, ErrMalformedFormat)
	})
}

func TestResolveYear(t *testing.T) {
	ref := date(2025, 12, 6)

	tests := []struct {
		fragment string
		want     int
		wantErr  error
	}{
		{"25", 2025, nil},
		{"00", 2000, nil},
		{"26", 1926, nil},
		{"87", 1987, nil},
		{"99", 1999, nil},
		{"1987", 1987, nil},
		{"1900", 1900, nil},
		{"2025", 2025, nil},
		{"2026", 0, ErrYearInFuture},
		{"1899", 0, ErrYearTooOld},
		{"198", 0, ErrMalformedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, err := resolveYear(tt.fragment, ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildBirthDate(t *testing.T) {
	t.Run("regular day", func(t *testing.T) {
		got, coord, err := buildBirthDate(1987, 6, 4)
		require.NoError(t, err)
		assert.False(t, coord)
		assert.Equal(t, date(1987, 6, 4), got)
	})

	t.Run("coordination offset removed", func(t *testing.T) {
		for raw := 61; raw <= 91; raw++ {
			got, coord, err := buildBirthDate(1987, 1, raw)
			require.NoError(t, err, "day %d", raw)
			assert.True(t, coord)
			assert.Equal(t, raw-60, got.Day())
		}
	})

	t.Run("leap years", func(t *testing.T) {
		_, _, err := buildBirthDate(2000, 2, 29)
		assert.NoError(t, err)
		_, _, err = buildBirthDate(2024, 2, 89)
		assert.NoError(t, err)
		_, _, err = buildBirthDate(1900, 2, 29)
		assert.ErrorIs(t, err, ErrInvalidDate)
		_, _, err = buildBirthDate(2023, 2, 29)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("out of range", func(t *testing.T) {
		for _, c := range [][2]int{{0, 1}, {13, 1}, {1, 0}, {1, 32}, {1, 60}, {1, 92}, {4, 31}, {2, 30}} {
			_, _, err := buildBirthDate(1987, c[0], c[1])
			assert.ErrorIs(t, err, ErrInvalidDate, "month %d day %d", c[0], c[1])
		}
	})
}

func TestAgeAt(t *testing.T) {
	ref := date(2025, 12, 6)

	assert.Equal(t, 102, AgeAt(date(1923, 12, 1), ref))
	assert.Equal(t, 25, AgeAt(date(2000, 1, 1), ref))
	assert.Equal(t, 100, AgeAt(date(1925, 12, 6), ref), "birthday on the reference date counts")
	assert.Equal(t, 99, AgeAt(date(1925, 12, 7), ref))

	// Ordinal days shift by one after 29 February in leap years, so a holder
	// born 1 March 1924 is still counted as 100 on 1 March 2025.
	assert.Equal(t, 100, AgeAt(date(1924, 3, 1), date(2025, 3, 1)))
}

func TestCheckSeparator(t *testing.T) {
	ref := date(2025, 12, 6)
	old := date(1923, 12, 1)
	young := date(2000, 1, 1)

	assert.NoError(t, checkSeparator(old, "+", ref))
	assert.ErrorIs(t, checkSeparator(old, "-", ref), ErrWrongSeparator)
	assert.ErrorIs(t, checkSeparator(old, "", ref), ErrWrongSeparator)

	assert.NoError(t, checkSeparator(young, "-", ref))
	assert.NoError(t, checkSeparator(young, "", ref))
	assert.ErrorIs(t, checkSeparator(young, "+", ref), ErrWrongSeparator)
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, ReasonInvalidDate, ReasonOf(ErrInvalidDate))
	assert.Equal(t, Reason(""), ReasonOf(nil))
	assert.True(t, ReasonTooFewDigits.IsValid())
	assert.False(t, Reason("nope").IsValid())
}
