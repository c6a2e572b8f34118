package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON messages to durable RabbitMQ queues named
// after the topic. It does not consume; workers read the queues directly.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     *amqp.Connection
	declared map[string]bool
}

func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p := NewAMQPPublisher(ch)
	p.conn = conn
	return p, nil
}

func NewAMQPPublisher(ch Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, declared: make(map[string]bool)}
}

// DeclareQueue declares the durable queue a topic is published to.
func DeclareQueue(ch Channel, topic string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (p *AMQPPublisher) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", topic, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.declared[topic] {
		if _, err := DeclareQueue(p.ch, topic); err != nil {
			return fmt.Errorf("declare queue %s: %w", topic, err)
		}
		p.declared[topic] = true
	}

	err = p.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	logrus.WithField("topic", topic).Debug("message published to RabbitMQ")
	return nil
}

func (p *AMQPPublisher) Subscribe(topic string, _ func(payload any) error) error {
	return errors.New("AMQPPublisher cannot subscribe to " + topic + ": consume the queue from a worker")
}

func (p *AMQPPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
