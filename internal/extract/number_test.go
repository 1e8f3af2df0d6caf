package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tenere/fuellog/internal/extract"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"2,2", 2.2},
		{"3.3", 3.3},
		{"  4.4", 4.4},
		{"5.5   ", 5.5},
		{"   6.6   ", 6.6},
		{"   -7.7   ", -7.7},
		{"+8", 8},
		{".5", 0.5},
		{"9.", 9},
		{"\t10,25\n", 10.25},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := extract.ParseNumber(tc.in)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNumber_Rejects(t *testing.T) {
	for _, in := range []string{
		"", "   ", "koira", "- 2", "+++", "1..2", "3,,4", "1,2.3",
		"9koira", "koira8", "-", ".", "inf", "NaN", "1e5", "0x10",
	} {
		t.Run(in, func(t *testing.T) {
			_, ok := extract.ParseNumber(in)
			assert.False(t, ok)
		})
	}
}
