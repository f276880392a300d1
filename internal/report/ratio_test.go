package report

import "testing"

func TestCountStatuses(t *testing.T) {
	reservations := []Reservation{
		{Status: ""},
		{Status: StatusConfirmed},
		{Status: StatusCancelled},
		{Status: StatusNoShow},
		{Status: StatusNoShow},
	}

	got := CountStatuses(reservations)
	if got.Confirmed != 2 {
		t.Fatalf("empty status must count as confirmed: got %d", got.Confirmed)
	}
	if got.Cancelled != 1 || got.NoShow != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestPaymentTotalsSparseAndOrdered(t *testing.T) {
	sales := []Sale{
		{PaymentMethod: "카드", Total: 30000},
		{PaymentMethod: "현금", Total: 12000},
		{PaymentMethod: "카드", Total: 8000},
	}

	got := PaymentTotals(sales)
	if len(got) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(got))
	}
	if got[0].Method != "카드" || got[0].Total != 38000 {
		t.Fatalf("expected 카드=38000 first, got %s=%v", got[0].Method, got[0].Total)
	}
	if got[1].Method != "현금" || got[1].Total != 12000 {
		t.Fatalf("expected 현금=12000, got %s=%v", got[1].Method, got[1].Total)
	}
}

func TestPaymentTotalsOnlyObservedMethods(t *testing.T) {
	got := PaymentTotals([]Sale{{PaymentMethod: "계좌이체", Total: 5000}})
	if len(got) != 1 || got[0].Method != "계좌이체" {
		t.Fatalf("methods absent from input must not appear: %+v", got)
	}
}

func TestPaymentTotalsEmpty(t *testing.T) {
	if got := PaymentTotals(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
}
