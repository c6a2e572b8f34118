package rules

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

const (
	DefaultConditionValue = "no specific condition"
	NoConditionValue      = "no condition"
	GlobalConditionName   = "All rewards"
	MinimumPurchasePrefix = "minimum purchase of "

	minimumPurchaseTemplate = MinimumPurchasePrefix + "{amount}"
)

// Reconcile keeps exactly one per-reward condition for every reward.
// Conditions of removed rewards are dropped, rewards without one get the
// default appended in reward order. Global and custom conditions are not
// touched, and surviving conditions keep their position.
func Reconcile(gifts []model.Reward, conditions []model.Condition) []model.Condition {
	names := make(map[string]string, len(gifts))
	for _, g := range gifts {
		names[g.ID] = g.Name
	}

	out := make([]model.Condition, 0, len(gifts)+len(conditions))
	covered := make(map[string]bool, len(gifts))
	for _, c := range conditions {
		if !c.IsPerReward() {
			out = append(out, c)
			continue
		}
		name, live := names[c.ID]
		if !live || covered[c.ID] {
			continue
		}
		covered[c.ID] = true
		c.Name = name
		out = append(out, c)
	}

	for _, g := range gifts {
		if covered[g.ID] {
			continue
		}
		out = append(out, model.Condition{ID: g.ID, Name: g.Name, Value: DefaultConditionValue})
	}
	return out
}

// GlobalValue renders the text of the global condition.
func GlobalValue(p model.RetrievalPolicy) string {
	if !p.PurchaseRequired {
		return NoConditionValue
	}
	amount := strconv.FormatFloat(p.MinimumAmount, 'f', -1, 64)
	return RenderTemplate(minimumPurchaseTemplate, map[string]string{"amount": amount})
}

// ParseGlobalValue reads a policy back from the text of a global condition.
func ParseGlobalValue(value string) model.RetrievalPolicy {
	p := model.RetrievalPolicy{Enabled: true}
	if amount, ok := strings.CutPrefix(value, MinimumPurchasePrefix); ok {
		if v, err := strconv.ParseFloat(amount, 64); err == nil && v > 0 {
			p.PurchaseRequired = true
			p.MinimumAmount = v
		}
	}
	return p
}

func CheckPolicy(p model.RetrievalPolicy) error {
	if p.PurchaseRequired {
		return validateVar("minimum_amount", p.MinimumAmount, "gt=0")
	}
	return nil
}

// SetGlobalCondition adds, refreshes or removes the global condition so it
// matches the policy. The global condition is kept first in the list.
func SetGlobalCondition(conditions []model.Condition, p model.RetrievalPolicy) ([]model.Condition, error) {
	if err := CheckPolicy(p); err != nil {
		return conditions, err
	}

	out := slices.DeleteFunc(slices.Clone(conditions), model.Condition.IsGlobal)
	if !p.Enabled {
		return out, nil
	}
	global := model.Condition{ID: model.GlobalConditionID, Name: GlobalConditionName, Value: GlobalValue(p)}
	return slices.Insert(out, 0, global), nil
}

// UpdateConditionValue edits the text of a per-reward or custom condition.
func UpdateConditionValue(conditions []model.Condition, id, value string) ([]model.Condition, error) {
	if id == model.GlobalConditionID {
		return conditions, appErrors.NewValidation("id", "the global condition is derived from the purchase settings")
	}
	value = strings.TrimSpace(value)
	if err := validateVar("value", value, "required,max=255"); err != nil {
		return conditions, err
	}
	idx := slices.IndexFunc(conditions, func(c model.Condition) bool { return c.ID == id })
	if idx < 0 {
		return conditions, appErrors.NewValidation("id", "condition not found")
	}

	out := slices.Clone(conditions)
	out[idx].Value = value
	return out, nil
}

type CustomConditionInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=255"`
}

// AddCustomCondition appends a free-text condition not tied to a reward.
func AddCustomCondition(conditions []model.Condition, in CustomConditionInput) ([]model.Condition, model.Condition, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Value = strings.TrimSpace(in.Value)
	if err := validateStruct(in); err != nil {
		return conditions, model.Condition{}, err
	}

	c := model.Condition{
		ID:    model.CustomConditionPrefix + uuid.NewString(),
		Name:  in.Name,
		Value: in.Value,
	}
	return append(slices.Clone(conditions), c), c, nil
}

// RemoveCondition deletes a custom condition. Per-reward conditions follow
// their reward and the global one follows the policy.
func RemoveCondition(conditions []model.Condition, id string) ([]model.Condition, error) {
	idx := slices.IndexFunc(conditions, func(c model.Condition) bool { return c.ID == id })
	if idx < 0 {
		return conditions, appErrors.NewValidation("id", "condition not found")
	}
	switch c := conditions[idx]; {
	case c.IsGlobal():
		return conditions, appErrors.NewValidation("id", "disable the global condition instead")
	case c.IsPerReward():
		return conditions, appErrors.NewInvariantViolation(appErrors.InvariantConditions, "a reward condition is removed with its reward")
	}
	return slices.Delete(slices.Clone(conditions), idx, idx+1), nil
}

// EffectiveCondition returns the text a customer must satisfy to claim a
// reward: the global condition when present, else the reward's own.
func EffectiveCondition(conditions []model.Condition, rewardID string) (string, bool) {
	own, found := "", false
	for _, c := range conditions {
		if c.IsGlobal() {
			return c.Value, true
		}
		if c.ID == rewardID {
			own, found = c.Value, true
		}
	}
	return own, found
}

// CheckBijection verifies that per-reward conditions match the rewards one
// to one.
func CheckBijection(gifts []model.Reward, conditions []model.Condition) error {
	want := make(map[string]bool, len(gifts))
	for _, g := range gifts {
		want[g.ID] = true
	}
	seen := make(map[string]bool, len(gifts))
	globals := 0
	for _, c := range conditions {
		if c.IsGlobal() {
			globals++
			continue
		}
		if !c.IsPerReward() {
			continue
		}
		if !want[c.ID] || seen[c.ID] {
			return appErrors.NewInvariantViolation(appErrors.InvariantConditions, "unexpected condition "+c.ID)
		}
		seen[c.ID] = true
	}
	if len(seen) != len(want) {
		return appErrors.NewInvariantViolation(appErrors.InvariantConditions, "a reward has no condition")
	}
	if globals > 1 {
		return appErrors.NewInvariantViolation(appErrors.InvariantConditions, "more than one global condition")
	}
	return nil
}
