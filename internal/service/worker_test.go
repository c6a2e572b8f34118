package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/repository"
	"github.com/unclebandit/spinwin-backend/internal/service"
)

type fakeCache struct {
	refreshed []string
	failWith  error
}

func (f *fakeCache) Refresh(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.refreshed = append(f.refreshed, id)
	return nil
}

func TestWorkerAuditsSavedCampaign(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	snap := campaign.New("camp-1").Snapshot()
	require.NoError(t, repo.Save(ctx, &snap))

	var audits []service.Audit
	cache := &fakeCache{}
	worker := service.NewWorker(repo, func(a service.Audit) { audits = append(audits, a) })
	worker.Cache = cache

	require.NoError(t, worker.Process(ctx, model.CampaignSaved{CampaignID: "camp-1", UpdatedAt: snap.UpdatedAt}))

	require.Len(t, audits, 1)
	audit := audits[0]
	assert.Equal(t, "camp-1", audit.CampaignID)
	assert.True(t, audit.Consistent)
	assert.NoError(t, audit.Err)
	assert.False(t, audit.Report.PinConfigured)
	require.NotEmpty(t, audit.Report.Alerts)
	assert.Equal(t, campaign.AlertPinNotConfigured, audit.Report.Alerts[0].Code)
	assert.Equal(t, []string{"camp-1"}, cache.refreshed)
}

func TestWorkerFlagsRepairedSnapshot(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()
	// two LOSS rewards cannot survive a load
	require.NoError(t, repo.Save(ctx, &model.Campaign{
		ID: "camp-2",
		Configuration: model.Configuration{
			Gifts: []model.Reward{
				{ID: "l1", Name: "Lost", Type: model.RewardLoss, InitialLimit: -1, Limit: -1},
				{ID: "l2", Name: "Lost", Type: model.RewardLoss, InitialLimit: -1, Limit: -1},
			},
		},
	}))

	var got service.Audit
	worker := service.NewWorker(repo, func(a service.Audit) { got = a })
	require.NoError(t, worker.Process(ctx, model.CampaignSaved{CampaignID: "camp-2"}))
	assert.False(t, got.Consistent)
}

func TestWorkerMissingCampaign(t *testing.T) {
	worker := service.NewWorker(repository.NewMemoryRepository(), nil)
	err := worker.Process(context.Background(), model.CampaignSaved{CampaignID: "ghost"})
	assert.True(t, appErrors.IsNotFound(err))
	assert.False(t, service.Retryable(err))
}

func TestWorkerCacheFailureIsRetryable(t *testing.T) {
	worker := service.NewWorker(repository.NewMemoryRepository(), nil)
	worker.Cache = &fakeCache{failWith: appErrors.NewStorageError("cache write", errors.New("redis down"))}

	err := worker.Process(context.Background(), model.CampaignSaved{CampaignID: "camp-1"})
	assert.True(t, service.Retryable(err))
}
