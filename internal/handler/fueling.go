package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tenere/fuellog/internal/domain"
)

// FuelingResponse is the JSON form of a domain.Fueling.
// ID and CreatedAt are omitted for records that were never stored.
type FuelingResponse struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	Date       time.Time  `json:"date"`
	FuelLitres *float64   `json:"fuel_litres"`
	DistanceKm *float64   `json:"distance_km"`
	CostEuros  *float64   `json:"cost_euros"`
	Message    string     `json:"message"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Valid      bool       `json:"valid"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListFuelingsResponse is the body of GET /fuelings.
type ListFuelingsResponse struct {
	Data       []FuelingResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{
	"id", "date", "fuel_litres", "distance_km", "cost_euros", "message", "created_at",
}

// ListFuelings handles GET /fuelings.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListFuelings(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("page must be an integer"))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("limit must be an integer"))
		return
	}

	params := domain.NewPaginationParams(page, limit)
	fuelings, total, err := s.fuelings.ListPaged(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := make([]FuelingResponse, len(fuelings))
	for i, f := range fuelings {
		data[i] = NewFuelingResponse(f)
	}
	writeJSON(w, http.StatusOK, ListFuelingsResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ExportFuelings handles GET /fuelings/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportFuelings(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be csv or json"))
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be csv or json"))
		return
	}

	fuelings, err := s.fuelings.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, fuelings)
		return
	}

	out := make([]FuelingResponse, 0, len(fuelings))
	for _, f := range fuelings {
		out = append(out, NewFuelingResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes the fuelings as CSV with a header row.
// Missing quantities are written as empty cells.
func writeCSV(w http.ResponseWriter, fuelings []domain.Fueling) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // writes to a bytes.Buffer never fail
	cw.Write(csvHeaders)
	for _, f := range fuelings {
		//nolint:errcheck
		cw.Write(fuelingToCSVRecord(f))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fuelings.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// NewFuelingResponse converts a domain.Fueling into its JSON form.
func NewFuelingResponse(f domain.Fueling) FuelingResponse {
	resp := FuelingResponse{
		Date:       f.Date,
		FuelLitres: f.FuelLitres,
		DistanceKm: f.DistanceKm,
		CostEuros:  f.CostEuros,
		Message:    f.Message,
		Valid:      f.Valid(),
	}
	if f.ID != uuid.Nil {
		id := f.ID
		resp.ID = &id
	}
	if !f.CreatedAt.IsZero() {
		ca := f.CreatedAt
		resp.CreatedAt = &ca
	}
	return resp
}

// fuelingToCSVRecord encodes a domain.Fueling as a flat string slice.
func fuelingToCSVRecord(f domain.Fueling) []string {
	return []string{
		f.ID.String(),
		f.Date.Format(time.RFC3339),
		formatOptionalFloat(f.FuelLitres),
		formatOptionalFloat(f.DistanceKm),
		formatOptionalFloat(f.CostEuros),
		f.Message,
		f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// formatOptionalFloat returns the shortest decimal form of v, or "" if v is nil.
func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
