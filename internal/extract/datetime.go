package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// template is one accepted literal layout of a date or a clock time.
// layout is the human-readable form used in logs and tests; expr is the
// regular expression that recognises it, with named groups for each field.
type template struct {
	layout string
	expr   string
}

// Day-first only: texts are written in the Finnish d.m.yyyy convention and
// month-first layouts would make "1.2.2023" ambiguous.
var dateTemplates = []template{
	{"DD.MM.YYYY", `(?<day>\d{2})\.(?<month>\d{2})\.(?<year>\d{4})`},
	{"DD.M.YYYY", `(?<day>\d{2})\.(?<month>\d{1,2})\.(?<year>\d{4})`},
	{"D.MM.YYYY", `(?<day>\d{1,2})\.(?<month>\d{2})\.(?<year>\d{4})`},
	{"D.M.YYYY", `(?<day>\d{1,2})\.(?<month>\d{1,2})\.(?<year>\d{4})`},
}

var timeTemplates = []template{
	{"HH:mm", `(?<hour>\d{2}):(?<minute>\d{2})`},
	{"HH.mm", `(?<hour>\d{2})\.(?<minute>\d{2})`},
	{"HH:m", `(?<hour>\d{2}):(?<minute>\d{1,2})`},
	{"HH.m", `(?<hour>\d{2})\.(?<minute>\d{1,2})`},
	{"H:mm", `(?<hour>\d{1,2}):(?<minute>\d{2})`},
	{"H.mm", `(?<hour>\d{1,2})\.(?<minute>\d{2})`},
	{"H:m", `(?<hour>\d{1,2}):(?<minute>\d{1,2})`},
	{"H.m", `(?<hour>\d{1,2})\.(?<minute>\d{1,2})`},
}

// A template only matches a whole word: the substring must start after
// whitespace (or one punctuation mark that itself follows whitespace) and end
// before whitespace, optionally with one trailing punctuation mark. Without
// this "123.4.2023" would yield a date and "1.1.20234" a year.
const (
	wordStart = `(?<!\S\S)(?<![^\s,.;:?!"'\x60\[\]{}()<>])`
	wordEnd   = `(?=[,.;:?!"'\x60\[\]{}()<>]?(?!\S))`
)

// middayHour is the time of day given to dates written without a time.
const middayHour = 12

type compiledTemplate struct {
	layout string
	re     *regexp2.Regexp
}

func compileTemplate(layout, expr string) compiledTemplate {
	return compiledTemplate{
		layout: layout,
		re:     regexp2.MustCompile(wordStart+expr+wordEnd, regexp2.None),
	}
}

var (
	dateTimePatterns = func() []compiledTemplate {
		out := make([]compiledTemplate, 0, len(dateTemplates)*len(timeTemplates))
		for _, d := range dateTemplates {
			for _, t := range timeTemplates {
				out = append(out, compileTemplate(d.layout+" "+t.layout, d.expr+" "+t.expr))
			}
		}
		return out
	}()

	dateOnlyPatterns = func() []compiledTemplate {
		out := make([]compiledTemplate, 0, len(dateTemplates))
		for _, d := range dateTemplates {
			out = append(out, compileTemplate(d.layout, d.expr))
		}
		return out
	}()
)

// DateTime finds a calendar date, optionally followed by a clock time, in
// free text and localizes it to a fixed time zone.
type DateTime struct {
	loc *time.Location
}

// NewDateTime returns an extractor that interprets every date in loc.
// A nil loc means time.Local.
func NewDateTime(loc *time.Location) *DateTime {
	if loc == nil {
		loc = time.Local
	}
	return &DateTime{loc: loc}
}

// Location returns the zone dates are interpreted in.
func (d *DateTime) Location() *time.Location {
	return d.loc
}

// Find returns the first date found in text.
//
// Date+time layouts are tried first, in template order; the first layout that
// yields a valid instant anywhere in the text wins. If none does, date-only
// layouts are tried and the time defaults to 12:00. ok is false when the text
// holds no valid date at all.
func (d *DateTime) Find(text string) (time.Time, bool) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return time.Time{}, false
	}

	for _, p := range dateTimePatterns {
		if t, ok := d.search(p, text, true); ok {
			return t, true
		}
	}
	for _, p := range dateOnlyPatterns {
		if t, ok := d.search(p, text, false); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// search walks the matches of one template left to right and returns the
// first one that is a real date (and time, when withClock is set).
func (d *DateTime) search(p compiledTemplate, text string, withClock bool) (time.Time, bool) {
	m, err := p.re.FindStringMatch(text)
	for err == nil && m != nil {
		if t, ok := d.build(m, withClock); ok {
			return t, true
		}
		m, err = p.re.FindNextMatch(m)
	}
	return time.Time{}, false
}

func (d *DateTime) build(m *regexp2.Match, withClock bool) (time.Time, bool) {
	day := groupInt(m, "day")
	month := groupInt(m, "month")
	year := groupInt(m, "year")

	hour, minute := middayHour, 0
	if withClock {
		hour, minute = groupInt(m, "hour"), groupInt(m, "minute")
		if hour > 23 || minute > 59 {
			return time.Time{}, false
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, d.loc)
	// time.Date normalizes out-of-range fields (32 Jan → 1 Feb) and shifts
	// clock times that fall in a DST gap; reject both.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	if t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, false
	}
	return t, true
}

// groupInt reads a named numeric group. Groups only ever hold \d{1,4}, so a
// conversion error is impossible and maps to an out-of-range -1.
func groupInt(m *regexp2.Match, name string) int {
	g := m.GroupByName(name)
	if g == nil {
		return -1
	}
	n, err := strconv.Atoi(g.String())
	if err != nil {
		return -1
	}
	return n
}
