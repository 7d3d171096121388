package rabbitmq

import (
	"context"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// Connection redials the broker whenever the underlying connection drops
// for a reason other than Close.
type Connection struct {
	url    string
	log    logging.Logger
	lock   sync.RWMutex
	conn   *amqp.Connection
	closed atomic.Bool
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{url: url, log: log, conn: conn}
	go connection.watch(conn)
	return connection, nil
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) watch(conn *amqp.Connection) {
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || c.closed.Load() {
			c.log.Info(context.Background(), "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(context.Background(), "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))
		for !c.closed.Load() {
			time.Sleep(reconnectDelay)

			next, err := amqp.Dial(c.url)
			if err != nil {
				c.log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
				continue
			}
			c.lock.Lock()
			c.conn = next
			c.lock.Unlock()
			conn = next
			c.log.Info(context.Background(), "RabbitMQ reconnected.")
			break
		}
	}
}

func (c *Connection) Close() error {
	c.closed.Store(true)
	return c.current().Close()
}

// Channel opens a channel that is reopened after broker-side closes until
// Close is called on it.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{conn: c, ch: ch, log: c.log}
	go channel.watch(ch)
	return channel, nil
}

type Channel struct {
	conn   *Connection
	log    logging.Logger
	lock   sync.RWMutex
	ch     *amqp.Channel
	closed atomic.Bool
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

func (ch *Channel) watch(current *amqp.Channel) {
	for {
		reason, ok := <-current.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || ch.IsClosed() {
			return
		}

		ch.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
		for !ch.IsClosed() {
			time.Sleep(reconnectDelay)

			next, err := ch.conn.current().Channel()
			if err != nil {
				ch.log.Error(context.Background(), "Could not reopen RabbitMQ channel.", logging.Entry("err", err))
				continue
			}
			ch.lock.Lock()
			ch.ch = next
			ch.lock.Unlock()
			current = next
			ch.log.Info(context.Background(), "RabbitMQ channel reopened.")
			break
		}
	}
}

func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

func (ch *Channel) Close() error {
	if ch.closed.Swap(true) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

// DeclareQueue declares a durable queue and returns its name.
func (ch *Channel) DeclareQueue(name string) (string, error) {
	q, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return "", err
	}
	return q.Name, nil
}

func (ch *Channel) Qos(prefetchCount, prefetchSize int, global bool) error {
	return ch.current().Qos(prefetchCount, prefetchSize, global)
}

func (ch *Channel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// Consume keeps re-subscribing after channel loss; the returned deliveries
// end only once the channel is closed with Close.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		defer close(deliveries)
		for {
			d, err := ch.current().Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
			if err != nil {
				ch.log.Error(context.Background(), "Could not start consuming.", logging.Entry("queue", queue), logging.Entry("err", err))
				time.Sleep(reconnectDelay)
				if ch.IsClosed() {
					return
				}
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// The closed flag may be set right after the delivery channel ends.
			time.Sleep(reconnectDelay)
			if ch.IsClosed() {
				ch.log.Info(context.Background(), "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries, nil
}
