package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/repository"
)

// CacheRefresher rewrites a cached snapshot from the store.
type CacheRefresher interface {
	Refresh(ctx context.Context, id string) error
}

// Audit is the outcome of checking one saved campaign.
type Audit struct {
	CampaignID string
	Report     campaign.Report
	// Consistent is false when loading the snapshot had to repair it.
	Consistent bool
	Err        error
}

// Worker processes campaign_saved events
type Worker struct {
	CampaignRepo repository.CampaignGateway
	Cache        CacheRefresher
	OnAudit      func(Audit)
}

// Constructor
func NewWorker(repo repository.CampaignGateway, onAudit func(Audit)) *Worker {
	return &Worker{
		CampaignRepo: repo,
		OnAudit:      onAudit,
	}
}

// Process audits one saved campaign and refreshes its cache entry. Only
// storage failures are returned, so callers can retry them.
func (w *Worker) Process(ctx context.Context, event model.CampaignSaved) error {
	log := logrus.WithField("campaign_id", event.CampaignID)

	if w.Cache != nil {
		if err := w.Cache.Refresh(ctx, event.CampaignID); err != nil {
			return err
		}
	}

	snap, err := w.CampaignRepo.Load(ctx, event.CampaignID)
	if err != nil {
		return err
	}
	if snap == nil {
		log.Warn("saved campaign is missing from the store")
		return appErrors.NewCampaignNotFound(event.CampaignID)
	}
	if snap.UpdatedAt.Before(event.UpdatedAt) {
		log.WithField("stored_updated_at", snap.UpdatedAt).Warn("store holds an older snapshot than the event")
	}

	audit := Audit{CampaignID: event.CampaignID, Report: campaign.BuildReport(*snap)}
	restored, err := campaign.Restore(*snap, campaign.WithLogger(log))
	switch {
	case err != nil:
		audit.Err = err
		log.WithError(err).Error("stored campaign cannot be restored")
	default:
		audit.Consistent = sameJSON(*snap, restored.Snapshot())
		if !audit.Consistent {
			log.Warn("stored campaign needed repairs on load")
		}
	}
	for _, alert := range audit.Report.Alerts {
		log.WithFields(logrus.Fields{"code": alert.Code}).Warn(alert.Message)
	}
	if w.OnAudit != nil {
		w.OnAudit(audit)
	}
	return nil
}

func sameJSON(a, b model.Campaign) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ra, rb)
}

// Retryable tells whether a Process error is worth redelivering.
func Retryable(err error) bool {
	return err != nil && appErrors.IsStorage(err) && !errors.Is(err, context.Canceled)
}
