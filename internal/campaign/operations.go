package campaign

import (
	"strings"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

// ---------------------------------------------------------------- actions

func (a *Aggregate) AddAction(in rules.ActionInput) (model.Action, error) {
	var added model.Action
	err := a.apply("add action", false, func(c *model.Campaign) error {
		actions, act, err := rules.AddAction(c.Configuration.Actions, in)
		if err != nil {
			return err
		}
		c.Configuration.Actions, added = actions, act
		return nil
	})
	return added, err
}

func (a *Aggregate) UpdateAction(id string, in rules.ActionInput) error {
	return a.apply("update action", false, func(c *model.Campaign) error {
		actions, err := rules.UpdateAction(c.Configuration.Actions, id, in)
		c.Configuration.Actions = actions
		return err
	})
}

func (a *Aggregate) RemoveAction(id string) error {
	return a.apply("remove action", false, func(c *model.Campaign) error {
		actions, err := rules.RemoveAction(c.Configuration.Actions, id)
		c.Configuration.Actions = actions
		return err
	})
}

func (a *Aggregate) ReorderActions(from, to int) error {
	return a.apply("reorder actions", false, func(c *model.Campaign) error {
		actions, err := rules.ReorderActions(c.Configuration.Actions, from, to)
		c.Configuration.Actions = actions
		return err
	})
}

// ---------------------------------------------------------------- rewards

func (a *Aggregate) AddReward(in rules.RewardInput) (model.Reward, error) {
	var added model.Reward
	err := a.apply("add reward", true, func(c *model.Campaign) error {
		cat, r, err := a.catalog(c).Add(in)
		if err != nil {
			return err
		}
		setCatalog(c, cat)
		added = r
		return nil
	})
	return added, err
}

func (a *Aggregate) UpdateReward(id string, in rules.RewardInput) error {
	return a.apply("update reward", true, func(c *model.Campaign) error {
		cat, err := a.catalog(c).Update(id, in)
		if err != nil {
			return err
		}
		setCatalog(c, cat)
		return nil
	})
}

func (a *Aggregate) RemoveReward(id string) error {
	return a.apply("remove reward", true, func(c *model.Campaign) error {
		cat, err := a.catalog(c).Remove(id)
		if err != nil {
			return err
		}
		setCatalog(c, cat)
		return nil
	})
}

func (a *Aggregate) SetWinningMode(enabled bool) error {
	return a.apply("set winning mode", true, func(c *model.Campaign) error {
		cat, err := a.catalog(c).SetWinningMode(enabled)
		if err != nil {
			return err
		}
		setCatalog(c, cat)
		return nil
	})
}

// ------------------------------------------------------------- conditions

func (a *Aggregate) setPolicy(op string, change func(p *model.RetrievalPolicy)) error {
	return a.apply(op, false, func(c *model.Campaign) error {
		policy := c.Configuration.Policy()
		change(&policy)
		conds, err := rules.SetGlobalCondition(c.Configuration.RetrievalConditions, policy)
		if err != nil {
			return err
		}
		c.Configuration.RetrievalConditions = conds
		c.Configuration.RetrievalPolicy = &policy
		return nil
	})
}

// SetGlobalCondition turns the campaign-wide condition on or off. When
// enabling, a non-nil minimumAmount also requires a purchase of that amount;
// nil leaves the purchase settings as they are. The amount is ignored when
// disabling.
func (a *Aggregate) SetGlobalCondition(enabled bool, minimumAmount *float64) error {
	return a.setPolicy("set global condition", func(p *model.RetrievalPolicy) {
		p.Enabled = enabled
		if enabled && minimumAmount != nil {
			p.PurchaseRequired = true
			p.MinimumAmount = *minimumAmount
		}
	})
}

func (a *Aggregate) SetPurchaseRequired(required bool) error {
	return a.setPolicy("set purchase required", func(p *model.RetrievalPolicy) {
		p.PurchaseRequired = required
	})
}

func (a *Aggregate) SetMinimumAmount(amount float64) error {
	return a.setPolicy("set minimum amount", func(p *model.RetrievalPolicy) {
		p.MinimumAmount = amount
	})
}

func (a *Aggregate) UpdateCondition(id, value string) error {
	return a.apply("update condition", false, func(c *model.Campaign) error {
		conds, err := rules.UpdateConditionValue(c.Configuration.RetrievalConditions, id, value)
		c.Configuration.RetrievalConditions = conds
		return err
	})
}

func (a *Aggregate) AddCustomCondition(in rules.CustomConditionInput) (model.Condition, error) {
	var added model.Condition
	err := a.apply("add condition", false, func(c *model.Campaign) error {
		conds, cond, err := rules.AddCustomCondition(c.Configuration.RetrievalConditions, in)
		if err != nil {
			return err
		}
		c.Configuration.RetrievalConditions, added = conds, cond
		return nil
	})
	return added, err
}

func (a *Aggregate) RemoveCondition(id string) error {
	return a.apply("remove condition", false, func(c *model.Campaign) error {
		conds, err := rules.RemoveCondition(c.Configuration.RetrievalConditions, id)
		c.Configuration.RetrievalConditions = conds
		return err
	})
}

// EffectiveCondition is what a customer must do to claim the given reward.
func (a *Aggregate) EffectiveCondition(rewardID string) (string, bool) {
	return rules.EffectiveCondition(a.snap.Configuration.RetrievalConditions, rewardID)
}

// -------------------------------------------------------------------- pin

// CommitPin validates and stores a new PIN code. A successful commit always
// stamps updated_at, even when the PIN is unchanged.
func (a *Aggregate) CommitPin(pin, confirm string) error {
	if err := rules.ValidatePin(pin, confirm); err != nil {
		return err
	}
	if pin == a.snap.Configuration.PinCode {
		next := a.snap.Clone()
		next.UpdatedAt = a.opts.now().UTC()
		next.UpdatedBy = a.opts.editor
		a.snap = next
		return nil
	}
	return a.apply("commit pin", false, func(c *model.Campaign) error {
		c.Configuration.PinCode = pin
		return nil
	})
}

func (a *Aggregate) PinConfigured() bool {
	return rules.PinConfigured(a.snap.Configuration.PinCode)
}

// --------------------------------------------------------------- settings

func (a *Aggregate) SetLabel(label string) error {
	return a.apply("set label", false, func(c *model.Campaign) error {
		label = strings.TrimSpace(label)
		if label == "" {
			return appErrors.NewValidation("label", "is required")
		}
		if len(label) > 100 {
			return appErrors.NewValidation("label", "must be at most 100")
		}
		c.Label = label
		return nil
	})
}

func (a *Aggregate) SetEnabled(enabled bool) error {
	return a.apply("set enabled", false, func(c *model.Campaign) error {
		c.Enabled = enabled
		return nil
	})
}

// SetProfile changes the subscription tier. Moving to BASIC resets the
// premium-only settings.
func (a *Aggregate) SetProfile(p model.Profile) error {
	return a.apply("set profile", false, func(c *model.Campaign) error {
		if !p.Valid() {
			return appErrors.NewValidation("profile", "must be one of BASIC PREMIUM")
		}
		c.Profile = p
		lockProfile(c)
		return nil
	})
}

func premiumOnly(c *model.Campaign, field string) error {
	if c.Configuration.Disabled {
		return appErrors.NewValidation(field, "available on the PREMIUM profile only")
	}
	return nil
}

func (a *Aggregate) SetColors(colors model.Colors) error {
	return a.apply("set colors", false, func(c *model.Campaign) error {
		if err := premiumOnly(c, "colors"); err != nil {
			return err
		}
		if err := rules.ValidateColors(colors); err != nil {
			return err
		}
		c.Configuration.Colors = colors
		return nil
	})
}

func (a *Aggregate) SetGameType(g model.GameType) error {
	return a.apply("set game type", false, func(c *model.Campaign) error {
		if err := premiumOnly(c, "game_type"); err != nil {
			return err
		}
		if err := rules.ValidateGameType(g); err != nil {
			return err
		}
		c.Configuration.GameType = g
		return nil
	})
}

func (a *Aggregate) SetLogo(uri string) error {
	return a.apply("set logo", false, func(c *model.Campaign) error {
		if err := premiumOnly(c, "logo_uri"); err != nil {
			return err
		}
		uri = strings.TrimSpace(uri)
		if err := rules.ValidateLogo(uri); err != nil {
			return err
		}
		c.Configuration.LogoURI = uri
		return nil
	})
}
