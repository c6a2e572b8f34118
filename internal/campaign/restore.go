package campaign

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

// normalize fills defaults for every missing or invalid field of a loaded
// snapshot and re-establishes the structural invariants.
func (a *Aggregate) normalize(c model.Campaign) model.Campaign {
	log := a.opts.log.WithField("campaign_id", c.ID)
	now := a.opts.now().UTC()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if strings.TrimSpace(c.Label) == "" {
		c.Label = model.DefaultLabel
	}
	if !c.Profile.Valid() {
		c.Profile = model.DefaultProfile
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	if c.CreatedBy == "" {
		c.CreatedBy = a.opts.editor
	}
	if c.UpdatedBy == "" {
		c.UpdatedBy = c.CreatedBy
	}

	cfg := &c.Configuration
	if !rules.ValidColor(cfg.Colors.Primary) {
		cfg.Colors.Primary = model.DefaultPrimaryColor
	}
	if !rules.ValidColor(cfg.Colors.Secondary) {
		cfg.Colors.Secondary = model.DefaultSecondaryColor
	}
	if !cfg.GameType.Valid() {
		cfg.GameType = model.DefaultGameType
	}
	if rules.ValidateLogo(cfg.LogoURI) != nil {
		log.Warn("dropping invalid logo uri")
		cfg.LogoURI = ""
	}
	if cfg.PinCode != "" && rules.ValidatePin(cfg.PinCode, cfg.PinCode) != nil {
		log.Warn("stored PIN code is not valid, campaign falls back to no PIN")
		cfg.PinCode = ""
	}
	lockProfile(&c)

	actions, dropped := rules.NormalizeActions(cfg.Actions)
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("dropping actions with unknown type")
	}
	cfg.Actions = actions

	gifts, dropped := rules.NormalizeRewards(cfg.Gifts)
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("dropping rewards with unknown type")
	}
	winning := deriveWinningMode(cfg.WinningMode, gifts)
	cat, err := rules.Catalog{Gifts: gifts, Winning: winning, Policy: a.opts.policy}.Enforce("")
	if err != nil {
		// winning mode without any reward left: fall back to the default mode
		log.WithError(err).Warn("winning mode cannot hold, disabling it")
		cat, _ = rules.Catalog{Gifts: gifts, Policy: a.opts.policy}.Enforce("")
	}
	setCatalog(&c, cat)

	conds := slices.DeleteFunc(slices.Clone(cfg.RetrievalConditions), func(cond model.Condition) bool {
		return cond.ID == ""
	})
	policy := derivePolicy(cfg.RetrievalPolicy, conds)
	if conds, err = rules.SetGlobalCondition(conds, policy); err != nil {
		policy.PurchaseRequired = false
		conds, _ = rules.SetGlobalCondition(conds, policy)
	}
	cfg.RetrievalPolicy = &policy
	cfg.RetrievalConditions = rules.Reconcile(cfg.Gifts, conds)

	return c
}

// lockProfile keeps premium-only fields at their defaults on BASIC campaigns.
func lockProfile(c *model.Campaign) {
	cfg := &c.Configuration
	cfg.Disabled = c.Profile == model.ProfileBasic
	if cfg.Disabled {
		cfg.GameType = model.DefaultGameType
		cfg.Colors = model.DefaultColors()
		cfg.LogoURI = ""
	}
}

// deriveWinningMode uses the stored flag, or infers the mode from the catalog
// for snapshots written before the flag existed.
func deriveWinningMode(stored *bool, gifts []model.Reward) bool {
	if stored != nil {
		return *stored && slices.ContainsFunc(gifts, func(r model.Reward) bool { return !r.IsLoss() })
	}
	hasLoss := slices.ContainsFunc(gifts, model.Reward.IsLoss)
	return len(gifts) > 0 && !hasLoss
}

// derivePolicy uses the stored policy, or reads it back from the text of the
// global condition.
func derivePolicy(stored *model.RetrievalPolicy, conds []model.Condition) model.RetrievalPolicy {
	if stored != nil {
		return *stored
	}
	for _, c := range conds {
		if c.IsGlobal() {
			return rules.ParseGlobalValue(c.Value)
		}
	}
	return model.RetrievalPolicy{}
}
