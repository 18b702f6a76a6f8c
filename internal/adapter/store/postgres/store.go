// Package postgres provides a TripStore backed by PostgreSQL via pgx.
// Transient connection failures on writes are retried with backoff; logical
// failures (missing trip, constraint violations) surface immediately.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/internal/infrastructure/retry"
)

// Store implements domain.TripStore on top of a pgx connection pool.
type Store struct {
	pool     *pgxpool.Pool
	retryCfg retry.Config
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", domain.ErrStoreUnavailable)
	}

	return &Store{
		pool:     pool,
		retryCfg: retry.StoreConfig.WithRetryIf(domain.IsRetryableStoreError),
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// GetTrip loads a trip and its segments ordered by segment order.
func (s *Store) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	var trip domain.Trip
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM trips WHERE id = $1`, tripID,
	).Scan(&trip.ID, &trip.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %q: %w", tripID, domain.ErrTripNotFound)
		}
		return nil, wrapStoreErr("get trip", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, name, start_title, end_title, start_time, end_time, segment_order
		 FROM segments WHERE trip_id = $1 ORDER BY segment_order`, tripID)
	if err != nil {
		return nil, wrapStoreErr("list segments", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seg domain.Segment
		if err := rows.Scan(&seg.ID, &seg.Name, &seg.StartTitle, &seg.EndTitle,
			&seg.StartTime, &seg.EndTime, &seg.Order); err != nil {
			return nil, wrapStoreErr("scan segment", err)
		}
		trip.Segments = append(trip.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list segments", err)
	}

	return &trip, nil
}

// CreateSegment inserts a segment for the trip at the given order.
func (s *Store) CreateSegment(ctx context.Context, tripID string, suggestion domain.SuggestedSegment, order int) (*domain.Segment, error) {
	startTime := suggestion.StartTime
	endTime := suggestion.EndTime
	seg := domain.Segment{
		ID:         uuid.NewString(),
		Name:       suggestion.Name,
		StartTitle: suggestion.StartLocation,
		EndTitle:   suggestion.EndLocation,
		StartTime:  &startTime,
		EndTime:    &endTime,
		Order:      order,
	}

	err := retry.Do(ctx, func() error {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO segments (id, trip_id, name, start_title, end_title, start_time, end_time, segment_order)
			 SELECT $1, id, $3, $4, $5, $6, $7, $8 FROM trips WHERE id = $2`,
			seg.ID, tripID, seg.Name, seg.StartTitle, seg.EndTitle, seg.StartTime, seg.EndTime, seg.Order)
		if err != nil {
			return wrapStoreErr("create segment", err)
		}
		if tag.RowsAffected() == 0 {
			return retry.NewPermanent(fmt.Errorf("trip %q: %w", tripID, domain.ErrTripNotFound))
		}
		return nil
	}, s.retryCfg)
	if err != nil {
		return nil, unwrapPermanent(err)
	}

	return &seg, nil
}

// ListReservations returns the reservations attached to a segment.
func (s *Store) ListReservations(ctx context.Context, segmentID string) ([]domain.Reservation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, segment_id, name, carrier, flight_number, confirmation_number,
		        start_time, end_time, departure_location, arrival_location, cost, currency, notes
		 FROM reservations WHERE segment_id = $1 ORDER BY start_time`, segmentID)
	if err != nil {
		return nil, wrapStoreErr("list reservations", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var r domain.Reservation
		if err := rows.Scan(&r.ID, &r.SegmentID, &r.Name, &r.Carrier, &r.FlightNumber,
			&r.ConfirmationNumber, &r.StartTime, &r.EndTime, &r.DepartureLocation,
			&r.ArrivalLocation, &r.Cost, &r.Currency, &r.Notes); err != nil {
			return nil, wrapStoreErr("scan reservation", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list reservations", err)
	}

	return out, nil
}

// CreateReservation inserts a reservation for its segment.
func (s *Store) CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}

	err := retry.Do(ctx, func() error {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO reservations
			   (id, segment_id, name, carrier, flight_number, confirmation_number,
			    start_time, end_time, departure_location, arrival_location, cost, currency, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			reservation.ID, reservation.SegmentID, reservation.Name, reservation.Carrier,
			reservation.FlightNumber, reservation.ConfirmationNumber, reservation.StartTime,
			reservation.EndTime, reservation.DepartureLocation, reservation.ArrivalLocation,
			reservation.Cost, reservation.Currency, reservation.Notes)
		if err != nil {
			if isForeignKeyViolation(err) {
				return retry.NewPermanent(fmt.Errorf("segment %q: %w", reservation.SegmentID, domain.ErrSegmentNotFound))
			}
			return wrapStoreErr("create reservation", err)
		}
		return nil
	}, s.retryCfg)
	if err != nil {
		return nil, unwrapPermanent(err)
	}

	return &reservation, nil
}

// wrapStoreErr classifies a pgx error as retryable or not.
func wrapStoreErr(op string, err error) error {
	if isTransient(err) {
		return domain.NewRetryableStoreError(op, err)
	}
	return domain.NewStoreError(op, err)
}

// isTransient reports whether the failure is worth a short retry burst.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exceptions, class 40: transaction rollback,
		// 57P03: cannot_connect_now, 53300: too_many_connections.
		switch {
		case len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "40"):
			return true
		case pgErr.Code == "57P03" || pgErr.Code == "53300":
			return true
		}
		return false
	}
	// Network-level errors without a SQLSTATE are treated as transient.
	return pgconn.SafeToRetry(err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func unwrapPermanent(err error) error {
	var p *retry.Permanent
	if errors.As(err, &p) {
		return p.Err
	}
	return err
}

var _ domain.TripStore = (*Store)(nil)
