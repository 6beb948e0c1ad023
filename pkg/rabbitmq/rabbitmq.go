// Package rabbitmq wraps an AMQP connection behind an explicit client
// object. Exchanges and consumer bindings registered on the client are
// re-established after a reconnect, and reconnects back off exponentially
// with jitter instead of hammering the broker on a fixed delay.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/trongdh/rentora/pkg/logger"
)

const (
	_defaultConnAttempts = 10
	_defaultBaseBackoff  = 500 * time.Millisecond
	_defaultMaxBackoff   = 30 * time.Second
)

// Handler processes one delivered message body. A non-nil error requeues the
// delivery once; a redelivered failure is dropped.
type Handler func(ctx context.Context, body []byte) error

type binding struct {
	queue      string
	exchange   string
	routingKey string
	handler    Handler
}

type Client struct {
	url string
	log logger.Interface

	connAttempts int
	baseBackoff  time.Duration
	maxBackoff   time.Duration

	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	exchanges []string
	bindings  []binding

	done      chan struct{}
	closeOnce sync.Once
}

// New dials the broker, retrying up to the configured number of attempts
// with backoff, and starts the reconnect watcher.
func New(url string, l logger.Interface, opts ...Option) (*Client, error) {
	c := &Client{
		url:          url,
		log:          l,
		connAttempts: _defaultConnAttempts,
		baseBackoff:  _defaultBaseBackoff,
		maxBackoff:   _defaultMaxBackoff,
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	var err error

	for attempt := 0; attempt < c.connAttempts; attempt++ {
		if err = c.connect(); err == nil {
			break
		}

		delay := backoffDelay(attempt, c.baseBackoff, c.maxBackoff)
		c.log.Info("rabbitmq: connect failed, retrying in %s, attempts left: %d", delay, c.connAttempts-attempt-1)
		time.Sleep(delay)
	}

	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}

	return c, nil
}

// connect establishes the connection and channel, re-declares known
// exchanges, re-registers known consumers, and arms the close watcher.
// Callers must not hold c.mu.
func (c *Client) connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return fmt.Errorf("channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	exchanges := append([]string(nil), c.exchanges...)
	bindings := append([]binding(nil), c.bindings...)
	c.mu.Unlock()

	for _, name := range exchanges {
		if err := declareExchange(ch, name); err != nil {
			return err
		}
	}

	for _, b := range bindings {
		if err := c.startConsumer(ch, b); err != nil {
			return err
		}
	}

	go c.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	return nil
}

// watch waits for the connection to drop and reconnects with capped
// exponential backoff plus jitter. It stops when the client is closed.
func (c *Client) watch(closing <-chan *amqp.Error) {
	select {
	case <-c.done:
		return
	case amqpErr := <-closing:
		if amqpErr == nil {
			return
		}

		c.log.Warn("rabbitmq: connection closed: %v", amqpErr)
	}

	for attempt := 0; ; attempt++ {
		delay := backoffDelay(attempt, c.baseBackoff, c.maxBackoff)

		select {
		case <-c.done:
			return
		case <-time.After(delay):
		}

		if err := c.connect(); err != nil {
			c.log.Error("rabbitmq: reconnect failed: %v", err)

			continue
		}

		c.log.Info("rabbitmq: reconnected")

		return
	}
}

// backoffDelay returns base*2^attempt capped at max, with jitter in the
// upper half of the interval to spread simultaneous reconnects.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := base << uint(attempt)
	if delay <= 0 || delay > max {
		delay = max
	}

	half := delay / 2

	return half + time.Duration(rand.Int63n(int64(half+1)))
}

func declareExchange(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}

	return nil
}

// DeclareExchange asserts a durable topic exchange and remembers it for
// re-declaration after reconnects.
func (c *Client) DeclareExchange(name string) error {
	c.mu.Lock()
	ch := c.ch
	c.exchanges = append(c.exchanges, name)
	c.mu.Unlock()

	return declareExchange(ch, name)
}

// Publish sends payload as a persistent JSON message.
func (c *Client) Publish(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal payload: %w", err)
	}

	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	if ch == nil {
		return fmt.Errorf("rabbitmq: no open channel")
	}

	err = ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish to %s (%s): %w", exchange, routingKey, err)
	}

	return nil
}

// Subscribe declares a durable queue bound to exchange with routingKey and
// consumes it with handler. The binding is remembered and re-established
// after reconnects.
func (c *Client) Subscribe(queue, exchange, routingKey string, handler Handler) error {
	b := binding{queue: queue, exchange: exchange, routingKey: routingKey, handler: handler}

	c.mu.Lock()
	ch := c.ch
	c.bindings = append(c.bindings, b)
	c.mu.Unlock()

	return c.startConsumer(ch, b)
}

func (c *Client) startConsumer(ch *amqp.Channel, b binding) error {
	q, err := ch.QueueDeclare(b.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue %s: %w", b.queue, err)
	}

	if err := ch.QueueBind(q.Name, b.routingKey, b.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue %s: %w", b.queue, err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume queue %s: %w", b.queue, err)
	}

	go func() {
		for d := range deliveries {
			if err := b.handler(context.Background(), d.Body); err != nil {
				c.log.Error("rabbitmq: handler failed for %s: %v", b.routingKey, err)

				// One redelivery, then drop. Poison messages must not
				// loop forever.
				_ = d.Nack(false, !d.Redelivered)

				continue
			}

			_ = d.Ack(false)
		}
	}()

	return nil
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		c.ch.Close()
	}

	if c.conn != nil {
		c.conn.Close()
	}
}
