package report

import (
	"context"
	"fmt"
	"time"
)

// RecordSource is the read-only record store the engine aggregates over.
// Implementations must return either complete slices or an error, never an
// empty slice standing in for a failed fetch.
type RecordSource interface {
	ListCustomers(ctx context.Context, r TimeRange) ([]Customer, error)
	ListReservations(ctx context.Context, r TimeRange) ([]Reservation, error)
	ListSales(ctx context.Context, r TimeRange) ([]Sale, error)
}

// SourceUnavailableError marks a record fetch that failed outright. Callers
// must surface it instead of rendering zero activity.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("record source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Service fetches the three record collections and builds reports as of an
// anchor instant. Location is the fixed reporting timezone; it deliberately
// never falls back to the process-local clock's zone.
type Service struct {
	source RecordSource
	loc    *time.Location
	window int
}

func NewService(source RecordSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, loc: loc, window: DefaultMonthlyWindow}
}

func (s *Service) Location() *time.Location { return s.loc }

// WindowStart returns the first instant of the oldest month in the dense
// monthly window for the given anchor.
func (s *Service) WindowStart(anchor time.Time) time.Time {
	anchor = anchor.In(s.loc)
	monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, s.loc)
	return monthStart.AddDate(0, -(s.window - 1), 0)
}

// BuildReport fetches the three collections and composes the report. Any
// fetch failure aborts the whole report with a SourceUnavailableError; no
// partial report is ever published.
func (s *Service) BuildReport(ctx context.Context, anchor time.Time) (*Report, error) {
	customers, reservations, sales, err := s.Collections(ctx, anchor)
	if err != nil {
		return nil, err
	}
	result := Build(anchor, s.loc, customers, reservations, sales)
	return &result, nil
}

// Collections runs the three record fetches concurrently and joins them as a
// barrier: all three complete (or fail) before anything is returned. If ctx
// is cancelled mid-fetch the in-flight work is discarded wholesale.
func (s *Service) Collections(ctx context.Context, anchor time.Time) ([]Customer, []Reservation, []Sale, error) {
	windowStart := s.WindowStart(anchor)

	type customersResult struct {
		records []Customer
		err     error
	}
	type reservationsResult struct {
		records []Reservation
		err     error
	}
	type salesResult struct {
		records []Sale
		err     error
	}

	customersCh := make(chan customersResult, 1)
	reservationsCh := make(chan reservationsResult, 1)
	salesCh := make(chan salesResult, 1)

	// Total customer count is a cardinality over the whole table, so that
	// fetch is unbounded; reservations and sales only feed windowed views.
	go func() {
		records, err := s.source.ListCustomers(ctx, TimeRange{})
		customersCh <- customersResult{records, err}
	}()
	go func() {
		records, err := s.source.ListReservations(ctx, TimeRange{From: windowStart})
		reservationsCh <- reservationsResult{records, err}
	}()
	go func() {
		records, err := s.source.ListSales(ctx, TimeRange{From: windowStart})
		salesCh <- salesResult{records, err}
	}()

	customers := <-customersCh
	reservations := <-reservationsCh
	sales := <-salesCh

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	if customers.err != nil {
		return nil, nil, nil, &SourceUnavailableError{Source: "customers", Err: customers.err}
	}
	if reservations.err != nil {
		return nil, nil, nil, &SourceUnavailableError{Source: "reservations", Err: reservations.err}
	}
	if sales.err != nil {
		return nil, nil, nil, &SourceUnavailableError{Source: "sales", Err: sales.err}
	}

	return customers.records, reservations.records, sales.records, nil
}
