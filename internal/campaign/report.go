package campaign

import (
	"fmt"
	"strings"

	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

const (
	AlertPinNotConfigured = "pin_not_configured"
	AlertDuplicateActions = "duplicate_actions"
	AlertOutOfStock       = "out_of_stock"
)

type Alert struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report is derived from the snapshot on demand and never stored.
type Report struct {
	PinConfigured    bool           `json:"pin_configured"`
	WinningMode      bool           `json:"winning_mode"`
	DuplicateActions []model.Action `json:"duplicate_actions"`
	OutOfStock       []model.Reward `json:"out_of_stock"`
	Alerts           []Alert        `json:"alerts"`
}

func (a *Aggregate) Report() Report {
	return BuildReport(a.snap)
}

// BuildReport computes the report of any snapshot, including one read back
// from storage without going through an aggregate.
func BuildReport(c model.Campaign) Report {
	cfg := c.Configuration
	r := Report{
		PinConfigured:    rules.PinConfigured(cfg.PinCode),
		WinningMode:      cfg.IsWinningMode(),
		DuplicateActions: rules.DuplicateActions(cfg.Actions),
		OutOfStock:       rules.OutOfStock(cfg.Gifts),
		Alerts:           []Alert{},
	}
	if r.DuplicateActions == nil {
		r.DuplicateActions = []model.Action{}
	}
	if r.OutOfStock == nil {
		r.OutOfStock = []model.Reward{}
	}

	if !r.PinConfigured {
		r.Alerts = append(r.Alerts, Alert{
			Code:    AlertPinNotConfigured,
			Message: "no PIN code is set, rewards can be claimed without staff confirmation",
		})
	}
	if len(r.DuplicateActions) > 0 {
		types := make([]string, 0, len(r.DuplicateActions))
		seen := map[model.ActionType]bool{}
		for _, act := range r.DuplicateActions {
			if !seen[act.Type] {
				seen[act.Type] = true
				types = append(types, string(act.Type))
			}
		}
		r.Alerts = append(r.Alerts, Alert{
			Code:    AlertDuplicateActions,
			Message: fmt.Sprintf("action types used more than once: %s", strings.Join(types, ", ")),
		})
	}
	for _, g := range r.OutOfStock {
		r.Alerts = append(r.Alerts, Alert{
			Code:    AlertOutOfStock,
			Message: fmt.Sprintf("%q is out of stock", g.Name),
		})
	}
	return r
}
