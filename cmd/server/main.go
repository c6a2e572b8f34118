// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	"github.com/unclebandit/spinwin-backend/internal/config"
	"github.com/unclebandit/spinwin-backend/internal/controller"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/queue"
	"github.com/unclebandit/spinwin-backend/internal/repository"
	"github.com/unclebandit/spinwin-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	cfg.SetupLogging()
	policy, err := cfg.Policy()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateways, err := repository.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open storage")
	}
	defer gateways.Close()

	local := queue.NewInMemoryQueue()
	var q queue.Queue = local

	if cfg.AMQPURL != "" {
		publisher, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		q = queue.Fanout{local, publisher}
	} else {
		// no broker: audit saved campaigns in-process
		worker := service.NewWorker(gateways.Campaigns, nil)
		if gateways.Cache != nil {
			worker.Cache = gateways.Cache
		}
		if err := queue.StartCampaignSavedSubscriber(local, func(e model.CampaignSaved) error {
			err := worker.Process(ctx, e)
			if service.Retryable(err) {
				return err
			}
			return nil
		}); err != nil {
			logrus.WithError(err).Fatal("failed to start campaign_saved subscriber")
		}
	}

	campaignService := service.NewCampaignService(gateways.Campaigns, q,
		campaign.WithPromotionPolicy(policy),
		campaign.WithEditor(cfg.Editor),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           controller.NewRouter(campaignService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("server shutdown")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":             cfg.HTTPAddr,
		"promotion_policy": policy,
	}).Info("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server stopped")
	}
	local.Wait()
}
