package queue

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one delivery. The routing key identifies which event
// arrived, since the marketing queue is bound to several.
type HandlerFunc func(ctx context.Context, routingKey string, body []byte) error

// ConsumeWithRetry requeues failed deliveries with an x-retry-count header;
// once maxRetries is exhausted the delivery is nacked into the dead letter
// queue. Blocks until the channel closes.
func (c *Client) ConsumeWithRetry(queue string, handler HandlerFunc, maxRetries int, retryDelay time.Duration) error {
	msgs, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for msg := range msgs {
		ctx := context.Background()
		// Retried deliveries come back through the default exchange, so the
		// original routing key travels in a header.
		routingKey := msg.RoutingKey
		if v, ok := msg.Headers["x-routing-key"].(string); ok && v != "" {
			routingKey = v
		}
		err := handler(ctx, routingKey, msg.Body)
		if err == nil {
			_ = msg.Ack(false)
			continue
		}

		retryCount := getRetryCount(msg.Headers)
		if retryCount >= maxRetries {
			_ = msg.Nack(false, false)
			continue
		}

		headers := msg.Headers
		if headers == nil {
			headers = amqp.Table{}
		}
		headers["x-retry-count"] = retryCount + 1
		headers["x-routing-key"] = routingKey

		time.Sleep(retryDelay)
		_ = c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     headers,
			Timestamp:   time.Now(),
		})
		_ = msg.Ack(false)
	}

	return errors.New("consumer closed")
}

func getRetryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	if v, ok := headers["x-retry-count"]; ok {
		switch t := v.(type) {
		case int32:
			return int(t)
		case int64:
			return int(t)
		case int:
			return t
		}
	}
	return 0
}
