package extract_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenere/fuellog/internal/domain"
	"github.com/tenere/fuellog/internal/extract"
)

func ptr(v float64) *float64 { return &v }

func TestParser_Parse(t *testing.T) {
	loc := helsinki(t)
	fallback := time.Date(2022, 12, 1, 0, 0, 0, 0, loc)

	tests := []struct {
		name     string
		in       string
		date     string
		litres   *float64
		distance *float64
		cost     *float64
	}{
		{
			name:     "date only",
			in:       "1.1.2023 10L 1000km 15€",
			date:     "2023-01-01T12:00:00+02:00",
			litres:   ptr(10),
			distance: ptr(1000),
			cost:     ptr(15),
		},
		{
			name:     "words after numbers",
			in:       "10 l 1000 km 15   euroo 1.1.2023",
			date:     "2023-01-01T12:00:00+02:00",
			litres:   ptr(10),
			distance: ptr(1000),
			cost:     ptr(15),
		},
		{
			name:     "date and time mid sentence",
			in:       "10,2 litraa 1000.222 km 1.1.2023   18:00 15,5E",
			date:     "2023-01-01T18:00:00+02:00",
			litres:   ptr(10.2),
			distance: ptr(1000.222),
			cost:     ptr(15.5),
		},
		{
			name:   "no date uses fallback",
			in:     "tankattu 42,17 L",
			date:   "2022-12-01T00:00:00+02:00",
			litres: ptr(42.17),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extract.NewParser(loc).Parse(tc.in, fallback)

			assert.Equal(t, tc.date, got.Date.Format(time.RFC3339))
			assert.Equal(t, tc.litres, got.FuelLitres)
			assert.Equal(t, tc.distance, got.DistanceKm)
			assert.Equal(t, tc.cost, got.CostEuros)
			assert.Equal(t, tc.in, got.Message)
			assert.True(t, got.Valid())
		})
	}
}

func TestParser_Parse_Chatter(t *testing.T) {
	fallback := time.Date(2023, 5, 4, 8, 0, 0, 0, time.UTC)

	got := extract.NewParser(helsinki(t)).Parse("huomenta, muistakaa palaveri 3.5.2023", fallback)

	assert.False(t, got.Valid())
	assert.Nil(t, got.FuelLitres)
	assert.Nil(t, got.DistanceKm)
	assert.Nil(t, got.CostEuros)
	assert.Equal(t, "2023-05-03T12:00:00+03:00", got.Date.Format(time.RFC3339))
}

func TestParser_Parse_OneQuantityIsEnough(t *testing.T) {
	got := extract.NewParser(helsinki(t)).Parse("odometer 123456 km", time.Now())

	require.True(t, got.Valid())
	assert.Equal(t, ptr(123456), got.DistanceKm)
	assert.Nil(t, got.FuelLitres)
	assert.Nil(t, got.CostEuros)
}

func TestParser_Parse_ConcurrentCallsAgree(t *testing.T) {
	p := extract.NewParser(helsinki(t))
	fallback := time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC)
	const text = "10,2 litraa 1000.222 km 1.1.2023 18:00 15,5E"
	want := p.Parse(text, fallback)

	var wg sync.WaitGroup
	results := make([]domain.Fueling, 32)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.Parse(text, fallback)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
