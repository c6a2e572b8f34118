// internal/model/campaign.go
package model

import (
	"slices"
	"time"
)

type Profile string

const (
	ProfileBasic   Profile = "BASIC"
	ProfilePremium Profile = "PREMIUM"
)

func (p Profile) Valid() bool {
	return p == ProfileBasic || p == ProfilePremium
}

type GameType string

const (
	GameWheel       GameType = "WHEEL"
	GameMystery     GameType = "MYSTERY"
	GameSlotMachine GameType = "SLOT_MACHINE"
	GameCard        GameType = "CARD"
)

func (g GameType) Valid() bool {
	switch g {
	case GameWheel, GameMystery, GameSlotMachine, GameCard:
		return true
	}
	return false
}

// Defaults applied to new campaigns and to fields missing from a snapshot.
const (
	DefaultLabel          = "My campaign"
	DefaultPrimaryColor   = "#1976d2"
	DefaultSecondaryColor = "#ff9800"
	DefaultGameType       = GameWheel
	DefaultProfile        = ProfilePremium
)

type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

func DefaultColors() Colors {
	return Colors{Primary: DefaultPrimaryColor, Secondary: DefaultSecondaryColor}
}

// RetrievalPolicy backs the "global" retrieval condition.
type RetrievalPolicy struct {
	Enabled          bool    `json:"enabled"`
	PurchaseRequired bool    `json:"purchase_required"`
	MinimumAmount    float64 `json:"minimum_amount,omitempty"`
}

type Configuration struct {
	Actions             []Action         `json:"actions"`
	Gifts               []Reward         `json:"gifts"`
	RetrievalConditions []Condition      `json:"retrievalConditions"`
	Colors              Colors           `json:"colors"`
	GameType            GameType         `json:"game_type"`
	LogoURI             string           `json:"logo_uri"`
	PinCode             string           `json:"pin_code"`
	Disabled            bool             `json:"disabled"`
	WinningMode         *bool            `json:"winning_mode,omitempty"`
	RetrievalPolicy     *RetrievalPolicy `json:"retrieval_policy,omitempty"`
}

type Campaign struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	Profile       Profile       `json:"profile"`
	Enabled       bool          `json:"enabled"`
	CreatedAt     time.Time     `json:"created_at"`
	CreatedBy     string        `json:"created_by"`
	UpdatedAt     time.Time     `json:"updated_at"`
	UpdatedBy     string        `json:"updated_by"`
	Configuration Configuration `json:"configuration"`
}

// Clone returns a deep copy; the aggregate mutates clones only.
func (c Campaign) Clone() Campaign {
	out := c
	cfg := c.Configuration
	out.Configuration.Actions = slices.Clone(cfg.Actions)
	out.Configuration.Gifts = slices.Clone(cfg.Gifts)
	out.Configuration.RetrievalConditions = slices.Clone(cfg.RetrievalConditions)
	if cfg.WinningMode != nil {
		v := *cfg.WinningMode
		out.Configuration.WinningMode = &v
	}
	if cfg.RetrievalPolicy != nil {
		p := *cfg.RetrievalPolicy
		out.Configuration.RetrievalPolicy = &p
	}
	return out
}

// IsWinningMode reports the stored flag, false when unset.
func (c Configuration) IsWinningMode() bool {
	return c.WinningMode != nil && *c.WinningMode
}

func (c Configuration) Policy() RetrievalPolicy {
	if c.RetrievalPolicy == nil {
		return RetrievalPolicy{}
	}
	return *c.RetrievalPolicy
}
