package personnummer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuhn(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   bool
	}{
		{"valid personnummer", "8112189876", true},
		{"valid coordination number", "8112789873", true},
		{"all zeros", "0000000000", true},
		{"wrong check digit", "8112189875", false},
		{"empty", "", false},
		{"letter", "81121898a6", false},
		{"separator not stripped", "811218-9876", false},
		{"single zero", "0", true},
		{"doubled digit above nine", "59", true}, // 5*2-9=1, +9=10
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Luhn(tt.digits))
		})
	}
}
