// Package domain contains the core data types for the tenere fueling log.
// It is imported by every other internal package (extract, repo, service,
// handler) and depends on nothing but the standard library and uuid.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fueling is a single refueling event extracted from a chat message.
//
// The three quantities are optional: a nil pointer means the value could not
// be found in the message text. A Fueling is only worth storing when Valid
// reports true.
type Fueling struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`

	FuelLitres *float64 `json:"fuel_litres"`
	DistanceKm *float64 `json:"distance_km"`
	CostEuros  *float64 `json:"cost_euros"`

	// Message is the raw text the record was extracted from.
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether at least one quantity was extracted.
func (f Fueling) Valid() bool {
	return f.FuelLitres != nil || f.DistanceKm != nil || f.CostEuros != nil
}

// Summary renders the record the way the bot confirms it back to the chat,
// e.g. "Tankattu 10.00L, 15.00€ @ 1000km (2023-01-01 12:00).".
// Missing quantities are printed as "?".
func (f Fueling) Summary() string {
	return fmt.Sprintf("Tankattu %sL, %s€ @ %skm (%s).",
		formatQuantity(f.FuelLitres, 2),
		formatQuantity(f.CostEuros, 2),
		formatQuantity(f.DistanceKm, 0),
		f.Date.Format("2006-01-02 15:04"),
	)
}

func formatQuantity(v *float64, prec int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}
