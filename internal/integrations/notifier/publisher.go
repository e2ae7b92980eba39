package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channel часть amqp.Channel, нужная для публикации
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует уведомления владельцам площадок в RabbitMQ
// amqp.Channel не потокобезопасен, публикации сериализуются мьютексом
type Publisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         channel
	exchange   string
	routingKey string
	closed     bool
}

// NewPublisher подключается к брокеру и объявляет topic exchange
func NewPublisher(url, exchange, routingKey string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// PublishBookingConfirmed отправляет сообщение о подтверждении бронирования
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, msg *BookingConfirmed) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal booking=%d: %v", ErrPublish, msg.BookingID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         "booking.confirmed",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: booking=%d: %w", ErrPublish, msg.BookingID, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
