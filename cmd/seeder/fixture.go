package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

// Fixture describes a campaign the way a merchant would build it.
type Fixture struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Profile     string `yaml:"profile"`
	Pin         string `yaml:"pin"`
	WinningMode bool   `yaml:"winning_mode"`

	Actions []struct {
		Type   string `yaml:"type"`
		Target string `yaml:"target"`
	} `yaml:"actions"`

	Rewards []struct {
		Name         string `yaml:"name"`
		Type         string `yaml:"type"`
		InitialLimit *int   `yaml:"initial_limit"`
		Limit        *int   `yaml:"limit"`
		Condition    string `yaml:"condition"`
	} `yaml:"rewards"`

	Conditions struct {
		Global *struct {
			Enabled       bool     `yaml:"enabled"`
			MinimumAmount *float64 `yaml:"minimum_amount"`
		} `yaml:"global"`
		Custom []struct {
			Name  string `yaml:"name"`
			Value string `yaml:"value"`
		} `yaml:"custom"`
	} `yaml:"conditions"`

	Customization *struct {
		GameType string        `yaml:"game_type"`
		Colors   *model.Colors `yaml:"colors"`
		LogoURI  string        `yaml:"logo_uri"`
	} `yaml:"customization"`
}

func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Build replays the fixture through the campaign operations, so a seeded
// campaign obeys the same rules as one edited by hand.
func (f *Fixture) Build(opts ...campaign.Option) (*campaign.Aggregate, error) {
	a := campaign.New(f.ID, opts...)
	err := a.Batch(func(a *campaign.Aggregate) error {
		if f.Label != "" {
			if err := a.SetLabel(f.Label); err != nil {
				return err
			}
		}
		if f.Profile != "" {
			if err := a.SetProfile(model.Profile(f.Profile)); err != nil {
				return err
			}
		}
		if c := f.Customization; c != nil {
			if c.GameType != "" {
				if err := a.SetGameType(model.GameType(c.GameType)); err != nil {
					return err
				}
			}
			if c.Colors != nil {
				if err := a.SetColors(*c.Colors); err != nil {
					return err
				}
			}
			if c.LogoURI != "" {
				if err := a.SetLogo(c.LogoURI); err != nil {
					return err
				}
			}
		}

		for i, act := range f.Actions {
			if _, err := a.AddAction(rules.ActionInput{Type: model.ActionType(act.Type), Target: act.Target}); err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
		}

		for _, r := range f.Rewards {
			added, err := a.AddReward(rules.RewardInput{
				Name:         r.Name,
				Type:         model.RewardType(r.Type),
				InitialLimit: r.InitialLimit,
				Limit:        r.Limit,
			})
			if err != nil {
				return fmt.Errorf("reward %q: %w", r.Name, err)
			}
			if r.Condition != "" {
				if err := a.UpdateCondition(added.ID, r.Condition); err != nil {
					return fmt.Errorf("reward %q: %w", r.Name, err)
				}
			}
		}
		if f.WinningMode {
			if err := a.SetWinningMode(true); err != nil {
				return err
			}
		}

		if g := f.Conditions.Global; g != nil {
			if err := a.SetGlobalCondition(g.Enabled, g.MinimumAmount); err != nil {
				return err
			}
		}
		for _, c := range f.Conditions.Custom {
			if _, err := a.AddCustomCondition(rules.CustomConditionInput{Name: c.Name, Value: c.Value}); err != nil {
				return fmt.Errorf("condition %q: %w", c.Name, err)
			}
		}

		if f.Pin != "" {
			return a.CommitPin(f.Pin, f.Pin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
