package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"topic-quiz-service/internal/domain"
)

// DefaultQueue receives finished-attempt events when no queue is configured.
const DefaultQueue = "quiz.results"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ResultPublisher is a ResultSink that publishes each finished attempt as a
// JSON message to a durable queue on the default exchange.
type ResultPublisher struct {
	conn  *amqp.Connection
	ch    channel
	queue string
	clock func() time.Time
	mu    sync.Mutex
}

// Dial connects to the broker and declares the queue.
func Dial(url, queue string) (*ResultPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	p := newResultPublisher(ch, queue)
	p.conn = conn
	return p, nil
}

func newResultPublisher(ch channel, queue string) *ResultPublisher {
	return &ResultPublisher{ch: ch, queue: queue, clock: time.Now}
}

func (p *ResultPublisher) Record(ctx context.Context, result domain.QuizResult) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = p.clock().UTC()
	}
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    result.CreatedAt,
		Type:         "quiz.result",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *ResultPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
