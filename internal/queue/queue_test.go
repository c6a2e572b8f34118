package queue

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/spinwin-backend/internal/model"
)

func fastQueue() *InMemoryQueue {
	q := NewInMemoryQueue()
	q.Backoff = time.Millisecond
	return q
}

func TestInMemoryQueueDelivers(t *testing.T) {
	q := fastQueue()
	var got atomic.Value
	require.NoError(t, StartCampaignSavedSubscriber(q, func(e model.CampaignSaved) error {
		got.Store(e)
		return nil
	}))

	event := model.CampaignSaved{CampaignID: "camp-1", UpdatedAt: time.Now().UTC()}
	require.NoError(t, q.Publish(TopicCampaignSaved, event))
	q.Wait()

	assert.Equal(t, event, got.Load())
}

func TestInMemoryQueueRetries(t *testing.T) {
	q := fastQueue()
	var calls atomic.Int32
	require.NoError(t, q.Subscribe("t", func(any) error {
		if calls.Add(1) < 3 {
			return errors.New("not yet")
		}
		return nil
	}))

	require.NoError(t, q.Publish("t", 1))
	q.Wait()
	assert.Equal(t, int32(3), calls.Load())
}

func TestInMemoryQueueGivesUp(t *testing.T) {
	q := fastQueue()
	var calls atomic.Int32
	require.NoError(t, q.Subscribe("t", func(any) error {
		calls.Add(1)
		return errors.New("always")
	}))

	require.NoError(t, q.Publish("t", 1))
	q.Wait()
	assert.Equal(t, int32(q.MaxRetries+1), calls.Load())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, fastQueue().Publish(TopicCampaignSaved, model.CampaignSaved{}))
}

func TestSubscriberIgnoresWrongPayload(t *testing.T) {
	q := fastQueue()
	var calls atomic.Int32
	require.NoError(t, StartCampaignSavedSubscriber(q, func(model.CampaignSaved) error {
		calls.Add(1)
		return nil
	}))
	require.NoError(t, q.Publish(TopicCampaignSaved, "camp-1"))
	q.Wait()
	assert.Zero(t, calls.Load())
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	failWith  error
	closed    bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch)

	event := model.CampaignSaved{CampaignID: "camp-1", UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	require.NoError(t, p.Publish(TopicCampaignSaved, event))
	require.NoError(t, p.Publish(TopicCampaignSaved, event))

	assert.Equal(t, []string{TopicCampaignSaved}, ch.declared)
	assert.Equal(t, []string{TopicCampaignSaved, TopicCampaignSaved}, ch.keys)
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var decoded model.CampaignSaved
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event, decoded)

	assert.Error(t, p.Subscribe(TopicCampaignSaved, nil))
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisherFailure(t *testing.T) {
	ch := &fakeChannel{failWith: amqp.ErrClosed}
	err := NewAMQPPublisher(ch).Publish(TopicCampaignSaved, model.CampaignSaved{CampaignID: "camp-1"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestFanout(t *testing.T) {
	local := fastQueue()
	ch := &fakeChannel{}
	f := Fanout{local, NewAMQPPublisher(ch)}

	var calls atomic.Int32
	require.NoError(t, StartCampaignSavedSubscriber(f, func(model.CampaignSaved) error {
		calls.Add(1)
		return nil
	}))
	require.NoError(t, f.Publish(TopicCampaignSaved, model.CampaignSaved{CampaignID: "camp-1"}))
	local.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, ch.published, 1)
}
