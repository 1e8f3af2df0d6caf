// Package extract pulls fueling data out of free-form chat text.
//
// Every extractor is a pure function of its input: nothing here performs I/O
// or keeps mutable state, so one Parser can serve any number of goroutines.
// Values that cannot be found are reported with ok == false rather than an
// error; a message without a date or a price is normal chatter, not a failure.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRe accepts an optionally signed decimal with at most one point.
// strconv.ParseFloat alone would also accept "inf", "NaN" and exponents.
var numberRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)

// ParseNumber converts a locale-ambiguous numeric token such as "6,6" or
// " -7.7 " into a float64. A comma is read as the decimal separator.
// ok is false for anything that is not a plain decimal number.
func ParseNumber(token string) (v float64, ok bool) {
	s := strings.ReplaceAll(strings.TrimSpace(token), ",", ".")
	if !numberRe.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
