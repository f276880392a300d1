package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSource struct {
	customers    []Customer
	reservations []Reservation
	sales        []Sale

	customersErr    error
	reservationsErr error
	salesErr        error

	gotSalesRange TimeRange
}

func (f *fakeSource) ListCustomers(ctx context.Context, r TimeRange) ([]Customer, error) {
	return f.customers, f.customersErr
}

func (f *fakeSource) ListReservations(ctx context.Context, r TimeRange) ([]Reservation, error) {
	return f.reservations, f.reservationsErr
}

func (f *fakeSource) ListSales(ctx context.Context, r TimeRange) ([]Sale, error) {
	f.gotSalesRange = r
	return f.sales, f.salesErr
}

func TestServiceBuildReport(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 12, 0, 0, 0, seoul)
	source := &fakeSource{
		customers: []Customer{{ID: 1}},
		sales:     []Sale{{Total: 9000, PaymentMethod: "카드", CreatedAt: anchor}},
	}
	svc := NewService(source, seoul)

	got, err := svc.BuildReport(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCustomers != 1 || got.TodaySalesTotal != 9000 {
		t.Fatalf("unexpected report: %+v", got)
	}
	if want := time.Date(2023, time.July, 1, 0, 0, 0, 0, seoul); !source.gotSalesRange.From.Equal(want) {
		t.Fatalf("expected sales fetched from %v, got %v", want, source.gotSalesRange.From)
	}
}

func TestServiceFetchFailureIsNotEmptyData(t *testing.T) {
	cause := errors.New("connection refused")
	source := &fakeSource{salesErr: cause}
	svc := NewService(source, seoul)

	got, err := svc.BuildReport(context.Background(), time.Now())
	if got != nil {
		t.Fatalf("no report may be published on fetch failure, got %+v", got)
	}

	var unavailable *SourceUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SourceUnavailableError, got %v", err)
	}
	if unavailable.Source != "sales" {
		t.Fatalf("expected sales source, got %s", unavailable.Source)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must stay wrapped: %v", err)
	}
}

func TestServiceDiscardsOnCancelledContext(t *testing.T) {
	source := &fakeSource{customers: []Customer{{ID: 1}}}
	svc := NewService(source, seoul)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.BuildReport(ctx, time.Now())
	if got != nil {
		t.Fatalf("cancelled context must discard the report, got %+v", got)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceDefaultsToUTC(t *testing.T) {
	svc := NewService(&fakeSource{}, nil)
	if svc.Location() != time.UTC {
		t.Fatalf("expected UTC default, got %v", svc.Location())
	}
}
