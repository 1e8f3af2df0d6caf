package extract

import (
	"time"

	"github.com/tenere/fuellog/internal/domain"
)

// Parser builds a domain.Fueling from one chat message.
// It is safe for concurrent use.
type Parser struct {
	dates    *DateTime
	volume   *Quantity
	distance *Quantity
	cost     *Quantity
}

// NewParser returns a Parser that localizes dates found in text to loc and
// uses the predefined Volume, Distance and Currency extractors.
func NewParser(loc *time.Location) *Parser {
	return &Parser{
		dates:    NewDateTime(loc),
		volume:   Volume,
		distance: Distance,
		cost:     Currency,
	}
}

// Parse extracts the fueling date, volume, distance and cost from text.
// fallback becomes the date when the text carries none, typically the time
// the message was received. The result may be invalid (see domain.Fueling.Valid);
// deciding what to do with it is up to the caller.
func (p *Parser) Parse(text string, fallback time.Time) domain.Fueling {
	date, ok := p.dates.Find(text)
	if !ok {
		date = fallback
	}
	return domain.Fueling{
		Date:       date,
		FuelLitres: find(p.volume, text),
		DistanceKm: find(p.distance, text),
		CostEuros:  find(p.cost, text),
		Message:    text,
	}
}

// Location returns the zone dates found in text are interpreted in.
func (p *Parser) Location() *time.Location {
	return p.dates.Location()
}

func find(q *Quantity, text string) *float64 {
	v, ok := q.Find(text)
	if !ok {
		return nil
	}
	return &v
}
