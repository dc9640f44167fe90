package broker

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes events to a durable topic exchange. Messages are
// persistent JSON; delivery is at-least-once once the broker accepts them.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	mu       sync.Mutex
	ch       *amqp091.Channel
	exchange string
}

// NewAMQPPublisher connects to RabbitMQ and declares the exchange. Declaring is
// idempotent, so restarts and multiple services can race on it safely.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		log.Printf("layer=kit component=broker method=NewAMQPPublisher err=%v", err)
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Printf("layer=kit component=broker method=NewAMQPPublisher err=%v", err)
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Printf("layer=kit component=broker method=NewAMQPPublisher exchange=%s err=%v", exchange, err)
		_ = conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("layer=kit component=broker method=Publish event=%s err=%v", evt.Name(), err)
		return err
	}

	// amqp091 channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, evt.Name(), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("layer=kit component=broker method=Publish event=%s err=%v", evt.Name(), err)
		return err
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		log.Printf("layer=kit component=broker method=Close err=%v", err)
	}
	return p.conn.Close()
}
