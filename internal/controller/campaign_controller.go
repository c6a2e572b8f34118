// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	"github.com/unclebandit/spinwin-backend/internal/handler"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
	"github.com/unclebandit/spinwin-backend/internal/service"
)

// CampaignController serves one endpoint per editing intent.
type CampaignController struct {
	CampaignService *service.CampaignService
}

func decode(w http.ResponseWriter, r *http.Request, body any) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		handler.BadRequest(w, err)
		return false
	}
	return true
}

// apply runs op on the campaign of the request and writes the new state.
func (c *CampaignController) apply(w http.ResponseWriter, r *http.Request, status int, op func(a *campaign.Aggregate) error) {
	v, err := c.CampaignService.Apply(r.Context(), chi.URLParam(r, "id"), op)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteView(w, status, v)
}

func (c *CampaignController) Save(w http.ResponseWriter, r *http.Request) {
	v, err := c.CampaignService.Save(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteView(w, http.StatusOK, v)
}

func (c *CampaignController) Reload(w http.ResponseWriter, r *http.Request) {
	v, err := c.CampaignService.Reload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteView(w, http.StatusOK, v)
}

// ====================== Actions ======================

func (c *CampaignController) AddAction(w http.ResponseWriter, r *http.Request) {
	var body rules.ActionInput
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusCreated, func(a *campaign.Aggregate) error {
		_, err := a.AddAction(body)
		return err
	})
}

func (c *CampaignController) UpdateAction(w http.ResponseWriter, r *http.Request) {
	var body rules.ActionInput
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "actionID")
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.UpdateAction(id, body)
	})
}

func (c *CampaignController) RemoveAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "actionID")
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.RemoveAction(id)
	})
}

func (c *CampaignController) ReorderActions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.ReorderActions(body.From, body.To)
	})
}

// ====================== Rewards ======================

func (c *CampaignController) AddReward(w http.ResponseWriter, r *http.Request) {
	var body rules.RewardInput
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusCreated, func(a *campaign.Aggregate) error {
		_, err := a.AddReward(body)
		return err
	})
}

func (c *CampaignController) UpdateReward(w http.ResponseWriter, r *http.Request) {
	var body rules.RewardInput
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "rewardID")
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.UpdateReward(id, body)
	})
}

func (c *CampaignController) RemoveReward(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "rewardID")
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.RemoveReward(id)
	})
}

func (c *CampaignController) SetWinningMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.SetWinningMode(body.Enabled)
	})
}

// ====================== Conditions ======================

func (c *CampaignController) SetGlobalCondition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled       bool     `json:"enabled"`
		MinimumAmount *float64 `json:"minimum_amount"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.SetGlobalCondition(body.Enabled, body.MinimumAmount)
	})
}

func (c *CampaignController) SetPurchase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Required      bool     `json:"required"`
		MinimumAmount *float64 `json:"minimum_amount"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.Batch(func(a *campaign.Aggregate) error {
			if body.MinimumAmount != nil {
				if err := a.SetMinimumAmount(*body.MinimumAmount); err != nil {
					return err
				}
			}
			return a.SetPurchaseRequired(body.Required)
		})
	})
}

func (c *CampaignController) AddCondition(w http.ResponseWriter, r *http.Request) {
	var body rules.CustomConditionInput
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusCreated, func(a *campaign.Aggregate) error {
		_, err := a.AddCustomCondition(body)
		return err
	})
}

func (c *CampaignController) UpdateCondition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "condID")
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.UpdateCondition(id, body.Value)
	})
}

func (c *CampaignController) RemoveCondition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "condID")
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.RemoveCondition(id)
	})
}

// ====================== PIN & settings ======================

func (c *CampaignController) CommitPin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pin     string `json:"pin"`
		Confirm string `json:"confirm"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.CommitPin(body.Pin, body.Confirm)
	})
}

func (c *CampaignController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label   *string        `json:"label"`
		Enabled *bool          `json:"enabled"`
		Profile *model.Profile `json:"profile"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.Batch(func(a *campaign.Aggregate) error {
			if body.Label != nil {
				if err := a.SetLabel(*body.Label); err != nil {
					return err
				}
			}
			if body.Enabled != nil {
				if err := a.SetEnabled(*body.Enabled); err != nil {
					return err
				}
			}
			if body.Profile != nil {
				return a.SetProfile(*body.Profile)
			}
			return nil
		})
	})
}

func (c *CampaignController) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GameType *model.GameType `json:"game_type"`
		Colors   *model.Colors   `json:"colors"`
		LogoURI  *string         `json:"logo_uri"`
	}
	if !decode(w, r, &body) {
		return
	}
	c.apply(w, r, http.StatusOK, func(a *campaign.Aggregate) error {
		return a.Batch(func(a *campaign.Aggregate) error {
			if body.GameType != nil {
				if err := a.SetGameType(*body.GameType); err != nil {
					return err
				}
			}
			if body.Colors != nil {
				if err := a.SetColors(*body.Colors); err != nil {
					return err
				}
			}
			if body.LogoURI != nil {
				return a.SetLogo(*body.LogoURI)
			}
			return nil
		})
	})
}
