package queue

import (
	"testing"
	"time"
)

func TestScenarioForRoutingKey(t *testing.T) {
	cases := []struct {
		routingKey string
		want       string
	}{
		{ReservationCreatedKey, "reservation-confirmed"},
		{ReservationCancelledKey, "reservation-cancelled"},
		{"reservation.updated", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := scenarioForRoutingKey(tc.routingKey); got != tc.want {
			t.Errorf("scenarioForRoutingKey(%q) = %q, want %q", tc.routingKey, got, tc.want)
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	at := time.Date(2026, 8, 31, 18, 30, 0, 0, time.UTC)
	evt := reservationEvent{Name: "김지은", Datetime: &at}

	got := renderTemplate("{name}님, {datetime} 예약이 확정되었습니다.", evt)
	want := "김지은님, 2026-08-31 18:30 예약이 확정되었습니다."
	if got != want {
		t.Errorf("renderTemplate = %q, want %q", got, want)
	}
}

func TestRenderTemplateWithoutDatetime(t *testing.T) {
	got := renderTemplate("{name} / {datetime}", reservationEvent{Name: "a"})
	if got != "a / " {
		t.Errorf("renderTemplate = %q", got)
	}
}
