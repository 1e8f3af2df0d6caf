// Package repo contains all storage access for the tenere fueling log.
// FuelingRepo has a Postgres implementation (this file) and an embedded
// bbolt implementation (bolt.go). No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tenere/fuellog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FuelingRepo defines the persistence operations for fuelings.
// The log is append-only: there is no update or delete.
type FuelingRepo interface {
	// Create stores a fueling and returns it with ID and CreatedAt populated.
	Create(ctx context.Context, f domain.Fueling) (domain.Fueling, error)

	// ListPaged returns one page of fuelings, most recent fueling date first,
	// together with the total number of stored fuelings.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error)

	// List returns every fueling, oldest fueling date first.
	List(ctx context.Context) ([]domain.Fueling, error)
}

// pgFuelingRepo is the Postgres implementation of FuelingRepo.
type pgFuelingRepo struct {
	db db
}

// NewFuelingRepo constructs a FuelingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewFuelingRepo(db db) FuelingRepo {
	return &pgFuelingRepo{db: db}
}

// checkViolation is the SQLSTATE of a failed CHECK constraint
// (fuelings_has_quantity).
const checkViolation = "23514"

const fuelingColumns = `id, fueled_at, fuel_litres, distance_km, cost_euros, message, created_at`

func (r *pgFuelingRepo) Create(ctx context.Context, f domain.Fueling) (domain.Fueling, error) {
	const q = `
		INSERT INTO fuelings (fueled_at, fuel_litres, distance_km, cost_euros, message)
		VALUES (@fueled_at, @fuel_litres, @distance_km, @cost_euros, @message)
		RETURNING ` + fuelingColumns

	args := pgx.NamedArgs{
		"fueled_at":   f.Date,
		"fuel_litres": f.FuelLitres, // nil becomes NULL
		"distance_km": f.DistanceKm,
		"cost_euros":  f.CostEuros,
		"message":     f.Message,
	}

	result, err := scanFueling(r.db.QueryRow(ctx, q, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
			return domain.Fueling{}, fmt.Errorf("repo.FuelingRepo.Create: %w: no quantity", domain.ErrValidation)
		}
		return domain.Fueling{}, fmt.Errorf("repo.FuelingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgFuelingRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM fuelings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.FuelingRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + fuelingColumns + `
		FROM fuelings
		ORDER BY fueled_at DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	fuelings, err := r.query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.FuelingRepo.ListPaged: %w", err)
	}
	return fuelings, total, nil
}

func (r *pgFuelingRepo) List(ctx context.Context) ([]domain.Fueling, error) {
	const q = `
		SELECT ` + fuelingColumns + `
		FROM fuelings
		ORDER BY fueled_at ASC, created_at ASC`

	fuelings, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FuelingRepo.List: %w", err)
	}
	return fuelings, nil
}

func (r *pgFuelingRepo) query(ctx context.Context, q string, args ...any) ([]domain.Fueling, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Fueling
	for rows.Next() {
		f, err := scanFueling(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanFueling to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanFueling maps a single database row into a domain.Fueling.
// NULL quantities become nil pointers.
func scanFueling(s scanner) (domain.Fueling, error) {
	var (
		f      domain.Fueling
		id     pgtype.UUID
		litres pgtype.Float8
		km     pgtype.Float8
		euros  pgtype.Float8
	)

	err := s.Scan(&id, &f.Date, &litres, &km, &euros, &f.Message, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Fueling{}, domain.ErrNotFound
		}
		return domain.Fueling{}, err
	}

	f.ID = uuid.UUID(id.Bytes)
	f.FuelLitres = float8Ptr(litres)
	f.DistanceKm = float8Ptr(km)
	f.CostEuros = float8Ptr(euros)
	return f, nil
}

func float8Ptr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
