package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/unclebandit/spinwin-backend/internal/config"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/queue"
	"github.com/unclebandit/spinwin-backend/internal/repository"
	"github.com/unclebandit/spinwin-backend/internal/service"
)

// Acknowledger is the part of amqp.Delivery the worker needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	cfg.SetupLogging()
	if cfg.AMQPURL == "" {
		logrus.Fatal("AMQP_URL is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateways, err := repository.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open storage")
	}
	defer gateways.Close()

	worker := service.NewWorker(gateways.Campaigns, func(a service.Audit) {
		logrus.WithFields(logrus.Fields{
			"campaign_id": a.CampaignID,
			"consistent":  a.Consistent,
			"alerts":      len(a.Report.Alerts),
		}).Info("campaign audited")
	})
	if gateways.Cache != nil {
		worker.Cache = gateways.Cache
	}

	// Connect to RabbitMQ
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logrus.WithError(err).Fatal("failed to open a channel")
	}
	defer ch.Close()

	q, err := queue.DeclareQueue(ch, queue.TopicCampaignSaved)
	if err != nil {
		logrus.WithError(err).Fatal("failed to declare queue")
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to register consumer")
	}

	logrus.WithField("queue", q.Name).Info("worker running, waiting for messages")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("worker stopping")
			return
		case d, ok := <-msgs:
			if !ok {
				logrus.Warn("delivery channel closed")
				return
			}
			handleDelivery(ctx, worker, d, d.Body, d.Redelivered)
		}
	}
}

// handleDelivery processes one campaign_saved message. A storage failure is
// requeued once; anything else is acknowledged so it does not loop.
func handleDelivery(ctx context.Context, w *service.Worker, ack Acknowledger, body []byte, redelivered bool) {
	var event model.CampaignSaved
	if err := json.Unmarshal(body, &event); err != nil || event.CampaignID == "" {
		logrus.WithError(err).Warn("invalid campaign_saved message")
		settle(logrus.NewEntry(logrus.StandardLogger()), ack, false)
		return
	}

	log := logrus.WithField("campaign_id", event.CampaignID)
	err := w.Process(ctx, event)
	if err != nil {
		log.WithError(err).Error("failed to process campaign_saved")
		if service.Retryable(err) && !redelivered {
			settle(log, ack, true)
			return
		}
	}
	settle(log, ack, false)
}

// settle acks the message, or nacks it with requeue.
func settle(log *logrus.Entry, ack Acknowledger, requeue bool) {
	if requeue {
		if err := ack.Nack(false, true); err != nil {
			log.WithError(err).Error("failed to nack message")
		}
		return
	}
	if err := ack.Ack(false); err != nil {
		log.WithError(err).Error("failed to ack message")
	}
}
