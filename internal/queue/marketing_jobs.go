package queue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange          = "ramtoram.events"
	ReservationCreatedKey   = "reservation.created"
	ReservationCancelledKey = "reservation.cancelled"

	MarketingQueue  = "ramtoram.marketing.send"
	MarketingDLQ    = "ramtoram.marketing.dlq"
	MarketingDeadRK = "dead"
)

type reservationEvent struct {
	ReservationID int64      `json:"reservationId"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Datetime      *time.Time `json:"datetime"`
}

// EnsureMarketingTopology declares the events exchange, the marketing send
// queue bound to both reservation routing keys, and its dead letter queue.
func EnsureMarketingTopology(ctx context.Context, qc *Client) error {
	if qc == nil {
		return nil
	}

	if err := qc.EnsureExchange(EventsExchange); err != nil {
		return err
	}

	if _, err := qc.EnsureQueue(MarketingDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(MarketingDLQ, EventsExchange, MarketingDeadRK); err != nil {
		return err
	}

	_, err := qc.EnsureQueueWithArgs(MarketingQueue, amqp.Table{
		"x-dead-letter-exchange":    EventsExchange,
		"x-dead-letter-routing-key": MarketingDeadRK,
	})
	if err != nil {
		return err
	}
	if err := qc.BindQueue(MarketingQueue, EventsExchange, ReservationCreatedKey); err != nil {
		return err
	}
	return qc.BindQueue(MarketingQueue, EventsExchange, ReservationCancelledKey)
}

// ProcessReservationEvent turns one reservation event into a marketing log
// row, dispatching only when the matching scenario is enabled. Delivery is
// recorded, not performed; the actual SMS gateway reads the log table.
func ProcessReservationEvent(ctx context.Context, db *pgxpool.Pool, routingKey string, body []byte) error {
	if db == nil {
		return nil
	}

	var evt reservationEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return err
	}
	phone := strings.TrimSpace(evt.Phone)
	if phone == "" {
		// Nothing to message.
		return nil
	}

	scenario := scenarioForRoutingKey(routingKey)
	if scenario == "" {
		return nil
	}

	var (
		enabled  bool
		template string
	)
	err := db.QueryRow(ctx, `
		select enabled, template from marketing_settings where scenario = $1
	`, scenario).Scan(&enabled, &template)
	if err != nil || !enabled {
		// Unknown or disabled scenario; drop silently.
		return nil
	}

	message := renderTemplate(template, evt)
	_, err = db.Exec(ctx, `
		insert into marketing_logs (scenario, phone, message, status, created_at)
		values ($1, $2, $3, 'queued', now())
	`, scenario, phone, message)
	return err
}

func scenarioForRoutingKey(routingKey string) string {
	switch routingKey {
	case ReservationCreatedKey:
		return "reservation-confirmed"
	case ReservationCancelledKey:
		return "reservation-cancelled"
	default:
		return ""
	}
}

func renderTemplate(template string, evt reservationEvent) string {
	message := strings.ReplaceAll(template, "{name}", evt.Name)
	if evt.Datetime != nil {
		message = strings.ReplaceAll(message, "{datetime}", evt.Datetime.Format("2006-01-02 15:04"))
	} else {
		message = strings.ReplaceAll(message, "{datetime}", "")
	}
	return message
}
