package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/metrics"
	"github.com/rentadriver/ride-booking-system/pkg/rabbit"
	"github.com/rabbitmq/amqp091-go"
)

const (
	bookingExchange = "booking_topic"
	alertExchange   = "emergency_topic"
)

// Publisher fans out booking and emergency events. All publishing is
// best-effort: callers log failures and move on.
type Publisher struct {
	client *rabbit.RabbitMQ
}

func NewPublisher(client *rabbit.RabbitMQ) (*Publisher, error) {
	for _, exchange := range []string{bookingExchange, alertExchange} {
		if err := client.Channel.ExchangeDeclare(
			exchange,
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
		}
	}
	return &Publisher{client: client}, nil
}

// PublishBookingStatus announces a booking state transition.
func (p *Publisher) PublishBookingStatus(ctx context.Context, msg models.BookingStatusMessage) error {
	const op = "Publisher.PublishBookingStatus"

	key := fmt.Sprintf("booking.status.%s", msg.Status)
	if err := p.publish(ctx, bookingExchange, key, msg); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// PublishAlertTriggered hands an emergency alert to the SMS channel.
func (p *Publisher) PublishAlertTriggered(ctx context.Context, msg models.AlertTriggeredMessage) error {
	const op = "Publisher.PublishAlertTriggered"

	key := fmt.Sprintf("emergency.alert.%s", msg.UserID)
	if err := p.publish(ctx, alertExchange, key, msg); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, exchange, key string, msg any) error {
	if err := p.client.EnsureConnection(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.client.Channel.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	metrics.RecordRabbitMQPublish(exchange, err)
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}
