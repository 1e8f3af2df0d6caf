// Package metrics defines the Prometheus metrics exported by tenere.
//
// Metrics:
//   - tenere_messages_total{outcome} - messages ingested, by outcome (saved, preview, ignored)
//   - tenere_fields_extracted_total{field} - quantities found in valid messages (litres, km, euros)
//   - tenere_store_errors_total - failed writes to the fueling store
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tenere/fuellog/internal/domain"
)

// Metrics holds the ingestion counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	MessagesTotal        *prometheus.CounterVec
	FieldsExtractedTotal *prometheus.CounterVec
	StoreErrorsTotal     prometheus.Counter
}

// New creates the metrics and registers them with reg.
// Pass a fresh prometheus.NewRegistry() in tests to avoid duplicate
// registration panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MessagesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenere_messages_total",
				Help: "Total number of chat messages ingested",
			},
			[]string{"outcome"},
		),
		FieldsExtractedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenere_fields_extracted_total",
				Help: "Total number of quantities extracted from valid messages",
			},
			[]string{"field"},
		),
		StoreErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "tenere_store_errors_total",
			Help: "Total number of failed writes to the fueling store",
		}),
	}
}

// ObserveMessage counts one ingested message and, for valid records, the
// quantities that were extracted from it.
func (m *Metrics) ObserveMessage(outcome domain.Outcome, f domain.Fueling) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(string(outcome)).Inc()
	if !f.Valid() {
		return
	}
	if f.FuelLitres != nil {
		m.FieldsExtractedTotal.WithLabelValues("litres").Inc()
	}
	if f.DistanceKm != nil {
		m.FieldsExtractedTotal.WithLabelValues("km").Inc()
	}
	if f.CostEuros != nil {
		m.FieldsExtractedTotal.WithLabelValues("euros").Inc()
	}
}

// ObserveStoreError counts one failed store write.
func (m *Metrics) ObserveStoreError() {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.Inc()
}
