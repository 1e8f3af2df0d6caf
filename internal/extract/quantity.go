package extract

import (
	"fmt"
	"regexp"
)

// Unit suffix patterns understood by the predefined extractors.
// Matching is case-insensitive, so "km" also covers "KM" and "Km".
const (
	DistanceSuffix = `km`
	VolumeSuffix   = `l`
	CurrencySuffix = `e|€`
)

var (
	// Distance finds an odometer reading such as "11782 km".
	Distance = MustQuantity(DistanceSuffix)
	// Volume finds a fuel amount such as "10,8 L" or "10 litraa".
	Volume = MustQuantity(VolumeSuffix)
	// Currency finds a price such as "22.05€" or "15 euroa".
	Currency = MustQuantity(CurrencySuffix)
)

// Quantity extracts the first number in a text that is immediately followed
// (after optional whitespace) by a unit suffix.
type Quantity struct {
	re *regexp.Regexp
}

// NewQuantity compiles an extractor for the given suffix pattern.
// The pattern is a regular expression matched case-insensitively right after
// the number, e.g. "km" or "[eE€]".
func NewQuantity(suffix string) (*Quantity, error) {
	// \p{Zs} covers the no-break space phone keyboards put before units.
	re, err := regexp.Compile(`(?i)([+-]?\d+(?:[,.]\d+)?)[\s\p{Zs}]*(?:` + suffix + `)`)
	if err != nil {
		return nil, fmt.Errorf("extract.NewQuantity: suffix %q: %w", suffix, err)
	}
	return &Quantity{re: re}, nil
}

// MustQuantity is like NewQuantity but panics if the suffix does not compile.
func MustQuantity(suffix string) *Quantity {
	q, err := NewQuantity(suffix)
	if err != nil {
		panic(err)
	}
	return q
}

// Find returns the value of the first suffixed number in text.
// Each call scans the whole text, so extractors for different units never
// interfere with one another.
func (q *Quantity) Find(text string) (float64, bool) {
	m := q.re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return ParseNumber(m[1])
}
