package model

import "time"

// CampaignSaved is published after a campaign snapshot was persisted.
type CampaignSaved struct {
	CampaignID string    `json:"campaign_id"`
	UpdatedAt  time.Time `json:"updated_at"`
	UpdatedBy  string    `json:"updated_by,omitempty"`
}
