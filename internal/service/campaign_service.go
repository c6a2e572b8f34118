// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/queue"
	"github.com/unclebandit/spinwin-backend/internal/repository"
)

// CampaignService keeps one aggregate per campaign being edited. Persistence
// only happens on explicit Save and Reload; every edit stays in memory until
// then. A saved campaign is closed and read back from storage on next access.
type CampaignService struct {
	CampaignRepo repository.CampaignGateway
	Queue        queue.Queue
	Options      []campaign.Option

	mu   sync.Mutex
	open map[string]*campaign.Aggregate
}

func NewCampaignService(repo repository.CampaignGateway, q queue.Queue, opts ...campaign.Option) *CampaignService {
	return &CampaignService{
		CampaignRepo: repo,
		Queue:        q,
		Options:      opts,
		open:         make(map[string]*campaign.Aggregate),
	}
}

// CampaignView is what callers read back after any operation.
type CampaignView struct {
	Campaign model.Campaign  `json:"campaign"`
	Report   campaign.Report `json:"report"`
}

func view(a *campaign.Aggregate) CampaignView {
	return CampaignView{Campaign: a.Snapshot(), Report: a.Report()}
}

// aggregate returns the open aggregate, loading it first. s.mu must be held.
func (s *CampaignService) aggregate(ctx context.Context, id string) (*campaign.Aggregate, error) {
	if s.open == nil {
		s.open = make(map[string]*campaign.Aggregate)
	}
	if a, ok := s.open[id]; ok {
		return a, nil
	}
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.open[id] = a
	return a, nil
}

func (s *CampaignService) load(ctx context.Context, id string) (*campaign.Aggregate, error) {
	log := logrus.WithField("campaign_id", id)

	snap, err := s.CampaignRepo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load campaign %s: %w", id, err)
	}
	if snap == nil {
		log.Info("campaign not found, starting from defaults")
		return campaign.New(id, s.Options...), nil
	}
	snap.ID = id
	a, err := campaign.Restore(*snap, s.Options...)
	if err != nil {
		return nil, err
	}
	log.Debug("campaign restored")
	return a, nil
}

// Get returns the current state of a campaign, loading it on first access.
func (s *CampaignService) Get(ctx context.Context, id string) (CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.aggregate(ctx, id)
	if err != nil {
		return CampaignView{}, err
	}
	return view(a), nil
}

// Apply runs one aggregate operation. Operations on all campaigns are
// serialized, and a failed operation leaves the campaign unchanged.
func (s *CampaignService) Apply(ctx context.Context, id string, op func(a *campaign.Aggregate) error) (CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.aggregate(ctx, id)
	if err != nil {
		return CampaignView{}, err
	}
	if err := op(a); err != nil {
		return view(a), err
	}
	return view(a), nil
}

// Save persists the current snapshot, closes the campaign and announces the
// save on the queue.
func (s *CampaignService) Save(ctx context.Context, id string) (CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.aggregate(ctx, id)
	if err != nil {
		return CampaignView{}, err
	}
	snap := a.Snapshot()
	if err := s.CampaignRepo.Save(ctx, &snap); err != nil {
		return CampaignView{}, fmt.Errorf("save campaign %s: %w", id, err)
	}

	log := logrus.WithFields(logrus.Fields{
		"campaign_id": id,
		"updated_at":  snap.UpdatedAt,
	})
	log.Info("campaign saved")
	delete(s.open, id)

	if s.Queue != nil {
		event := model.CampaignSaved{CampaignID: id, UpdatedAt: snap.UpdatedAt, UpdatedBy: snap.UpdatedBy}
		if err := s.Queue.Publish(queue.TopicCampaignSaved, event); err != nil {
			// the snapshot is stored; only the notification is lost
			log.WithError(err).Warn("failed to publish campaign_saved")
		}
	}
	return view(a), nil
}

// Reload drops unsaved edits and reads the campaign back from storage.
func (s *CampaignService) Reload(ctx context.Context, id string) (CampaignView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.load(ctx, id)
	if err != nil {
		return CampaignView{}, err
	}
	if s.open == nil {
		s.open = make(map[string]*campaign.Aggregate)
	}
	s.open[id] = a
	return view(a), nil
}
