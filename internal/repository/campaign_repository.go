package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

// CampaignGateway loads and saves whole campaign snapshots. Load returns
// nil, nil when the campaign was never saved. Failures are StorageErrors.
type CampaignGateway interface {
	Load(ctx context.Context, id string) (*model.Campaign, error)
	Save(ctx context.Context, c *model.Campaign) error
}

// CampaignRepository stores snapshots as JSONB rows in campaign_snapshots.
type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Load(ctx context.Context, id string) (*model.Campaign, error) {
	query := `SELECT snapshot FROM campaign_snapshots WHERE id=$1`
	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.NewStorageError("load", err)
	}
	return decode(raw)
}

// Save upserts the snapshot; saving the same snapshot twice is a no-op.
func (r *CampaignRepository) Save(ctx context.Context, c *model.Campaign) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return appErrors.NewStorageError("encode", err)
	}
	query := `
        INSERT INTO campaign_snapshots (id, snapshot, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE
        SET snapshot=EXCLUDED.snapshot, updated_at=EXCLUDED.updated_at
    `
	if _, err := r.DB.ExecContext(ctx, query, c.ID, raw, c.UpdatedAt); err != nil {
		return appErrors.NewStorageError("save", err)
	}
	return nil
}

func decode(raw []byte) (*model.Campaign, error) {
	var c model.Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, appErrors.NewStorageError("decode", err)
	}
	return &c, nil
}

var _ CampaignGateway = (*CampaignRepository)(nil)
