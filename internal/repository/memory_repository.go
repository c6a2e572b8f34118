package repository

import (
	"context"
	"encoding/json"
	"sync"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

// MemoryRepository keeps encoded snapshots in process memory. Used when no
// database is configured and in tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snapshots: make(map[string][]byte)}
}

func (r *MemoryRepository) Load(_ context.Context, id string) (*model.Campaign, error) {
	r.mu.RLock()
	raw, ok := r.snapshots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decode(raw)
}

func (r *MemoryRepository) Save(_ context.Context, c *model.Campaign) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return appErrors.NewStorageError("encode", err)
	}
	r.mu.Lock()
	r.snapshots[c.ID] = raw
	r.mu.Unlock()
	return nil
}

// Raw returns the stored bytes of a campaign.
func (r *MemoryRepository) Raw(id string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.snapshots[id]
	return raw, ok
}

var _ CampaignGateway = (*MemoryRepository)(nil)
