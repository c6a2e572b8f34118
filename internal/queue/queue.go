package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/model"
)

// TopicCampaignSaved carries a model.CampaignSaved after every explicit save.
const TopicCampaignSaved = "campaign_saved"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process pub/sub with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	wg       sync.WaitGroup

	MaxRetries int
	Backoff    time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers. A topic without subscribers
// drops the message.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		logrus.WithField("topic", topic).Debug("no subscribers, message dropped")
		return nil
	}

	job := JobPayload{
		Topic:      topic,
		Payload:    payload,
		MaxRetries: q.MaxRetries,
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.processJob(handler, job)
		}()
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	log := logrus.WithField("topic", job.Topic)
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			log.Debug("job processed")
			return // ACK
		}

		job.RetryCount++
		log.WithError(err).WithField("attempt", job.RetryCount).Warn("job failed")

		if job.RetryCount > job.MaxRetries {
			log.WithField("attempts", job.RetryCount).Error("job permanently failed")
			return // No requeue
		}

		// linear backoff before retry
		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job finished.
func (q *InMemoryQueue) Wait() { q.wg.Wait() }

// StartCampaignSavedSubscriber routes campaign_saved events to handle.
func StartCampaignSavedSubscriber(q Queue, handle func(model.CampaignSaved) error) error {
	err := q.Subscribe(TopicCampaignSaved, func(payload any) error {
		event, ok := payload.(model.CampaignSaved)
		if !ok {
			logrus.WithField("payload", fmt.Sprintf("%T", payload)).Warn("invalid payload type, expected CampaignSaved")
			return nil // no retry
		}
		return handle(event)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicCampaignSaved, err)
	}
	return nil
}

// Fanout publishes to every queue, e.g. in-process subscribers and RabbitMQ.
type Fanout []Queue

func (f Fanout) Publish(topic string, payload any) error {
	var firstErr error
	for _, q := range f {
		if err := q.Publish(topic, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Subscribe registers the handler on the first queue, the in-process one.
func (f Fanout) Subscribe(topic string, handler func(payload any) error) error {
	if len(f) == 0 {
		return fmt.Errorf("no queue to subscribe %s on", topic)
	}
	return f[0].Subscribe(topic, handler)
}
