package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

// LossRewardName is the name of the system-managed losing slot.
const LossRewardName = "Lost — try again"

// PromotionPolicy picks the reward made unlimited when winning mode is turned
// on and no reward has unlimited stock.
type PromotionPolicy string

const (
	PromoteFirst        PromotionPolicy = "first"
	PromoteLargestStock PromotionPolicy = "largest_stock"
)

func ParsePromotionPolicy(s string) (PromotionPolicy, error) {
	switch p := PromotionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PromoteFirst, nil
	case PromoteFirst, PromoteLargestStock:
		return p, nil
	}
	return "", fmt.Errorf("unknown promotion policy %q", s)
}

// candidate returns the index of the reward to promote, or -1. exclude is
// skipped unless it is the only candidate.
func (p PromotionPolicy) candidate(gifts []model.Reward, exclude string) int {
	pick := func(skip string) int {
		best := -1
		for i, g := range gifts {
			if g.IsLoss() || g.ID == skip {
				continue
			}
			if best < 0 {
				best = i
				if p != PromoteLargestStock {
					return best
				}
				continue
			}
			if g.InitialLimit > gifts[best].InitialLimit {
				best = i
			}
		}
		return best
	}
	if idx := pick(exclude); idx >= 0 {
		return idx
	}
	return pick("")
}

type RewardInput struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Type         model.RewardType `json:"type" validate:"required,oneof=EAT DRINK DISCOUNT LOSS"`
	InitialLimit *int             `json:"initial_limit" validate:"required,min=-1"`
	Limit        *int             `json:"limit,omitempty" validate:"omitempty,min=-1"`
}

// limits returns the (initial_limit, limit) pair described by the input.
func (in RewardInput) limits() (int, int, error) {
	initial := *in.InitialLimit
	limit := initial
	if in.Limit != nil {
		limit = *in.Limit
	}
	switch {
	case initial == model.Unlimited && limit != model.Unlimited:
		return 0, 0, appErrors.NewValidation("limit", "must be unlimited when the initial stock is unlimited")
	case initial != model.Unlimited && limit == model.Unlimited:
		return 0, 0, appErrors.NewValidation("limit", "cannot be unlimited when the initial stock is finite")
	case limit > initial:
		return 0, 0, appErrors.NewValidation("limit", "cannot exceed initial_limit")
	}
	return initial, limit, nil
}

// Stock returns n as a stock value for RewardInput.
func Stock(n int) *int { return &n }

func (in RewardInput) normalize() (RewardInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return in, err
	}
	return in, nil
}

// Catalog is an immutable view of the reward list plus the winning mode
// flag. Every method returns a new Catalog and leaves the receiver as is.
type Catalog struct {
	Gifts   []model.Reward
	Winning bool
	Policy  PromotionPolicy
}

func (c Catalog) index(id string) int {
	return slices.IndexFunc(c.Gifts, func(r model.Reward) bool { return r.ID == id })
}

func (c Catalog) with(gifts []model.Reward) Catalog {
	c.Gifts = gifts
	return c
}

func (c Catalog) Add(in RewardInput) (Catalog, model.Reward, error) {
	in, err := in.normalize()
	if err != nil {
		return c, model.Reward{}, err
	}
	if in.Type == model.RewardLoss {
		return c, model.Reward{}, appErrors.NewValidation("type", "LOSS rewards are managed by the winning mode")
	}
	initial, limit, err := in.limits()
	if err != nil {
		return c, model.Reward{}, err
	}

	r := model.Reward{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Type:         in.Type,
		InitialLimit: initial,
		Limit:        limit,
	}
	next, err := c.with(append(slices.Clone(c.Gifts), r)).Enforce("")
	if err != nil {
		return c, model.Reward{}, err
	}
	return next, r, nil
}

func (c Catalog) Update(id string, in RewardInput) (Catalog, error) {
	idx := c.index(id)
	if idx < 0 {
		return c, appErrors.NewValidation("id", "reward not found")
	}
	in, err := in.normalize()
	if err != nil {
		return c, err
	}

	current := c.Gifts[idx]
	switch {
	case current.IsLoss() && in.Type != model.RewardLoss:
		return c, appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "the LOSS reward cannot change type while winning mode is off")
	case !current.IsLoss() && in.Type == model.RewardLoss:
		return c, appErrors.NewValidation("type", "LOSS rewards are managed by the winning mode")
	}
	initial, limit, err := in.limits()
	if err != nil {
		return c, err
	}

	gifts := slices.Clone(c.Gifts)
	gifts[idx].Name = in.Name
	gifts[idx].Type = in.Type
	gifts[idx].InitialLimit = initial
	gifts[idx].Limit = limit

	// the reward the user just capped is not promoted straight back
	exclude := ""
	if current.IsUnlimited() && limit != model.Unlimited {
		exclude = id
	}
	return c.with(gifts).Enforce(exclude)
}

func (c Catalog) Remove(id string) (Catalog, error) {
	idx := c.index(id)
	if idx < 0 {
		return c, appErrors.NewValidation("id", "reward not found")
	}
	if c.Gifts[idx].IsLoss() && !c.Winning {
		return c, appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "the LOSS reward cannot be removed while winning mode is off")
	}

	gifts := slices.Delete(slices.Clone(c.Gifts), idx, idx+1)
	if c.Winning && !slices.ContainsFunc(gifts, func(r model.Reward) bool { return !r.IsLoss() && r.IsUnlimited() }) {
		return c, appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "winning mode needs an unlimited reward: make another reward unlimited first")
	}
	return c.with(gifts).Enforce("")
}

// SetWinningMode switches the catalog in or out of 100%-winning mode.
// Calling it again with the same value changes nothing.
func (c Catalog) SetWinningMode(enabled bool) (Catalog, error) {
	if enabled && !slices.ContainsFunc(c.Gifts, func(r model.Reward) bool { return !r.IsLoss() }) {
		return c, appErrors.NewValidation("gifts", "catalog empty: add a reward before enabling winning mode")
	}
	next := c
	next.Winning = enabled
	return next.Enforce("")
}

// Enforce re-establishes the winning mode invariant after a mutation.
func (c Catalog) Enforce(exclude string) (Catalog, error) {
	if c.Winning {
		gifts := slices.DeleteFunc(slices.Clone(c.Gifts), model.Reward.IsLoss)
		if len(gifts) == 0 {
			return c, appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "winning mode needs at least one reward")
		}
		if !slices.ContainsFunc(gifts, model.Reward.IsUnlimited) {
			idx := c.Policy.candidate(gifts, exclude)
			gifts[idx].Limit = model.Unlimited
			gifts[idx].InitialLimit = model.Unlimited
		}
		return c.with(gifts), nil
	}

	gifts := make([]model.Reward, 0, len(c.Gifts)+1)
	seenLoss := false
	for _, g := range c.Gifts {
		if g.IsLoss() {
			if seenLoss {
				continue
			}
			seenLoss = true
		}
		gifts = append(gifts, g)
	}
	if !seenLoss {
		gifts = append(gifts, LossReward())
	}
	return c.with(gifts), nil
}

// Check reports whether the catalog satisfies the winning mode invariant.
func (c Catalog) Check() error {
	losses := 0
	unlimited := false
	for _, g := range c.Gifts {
		if g.IsLoss() {
			losses++
		} else if g.IsUnlimited() {
			unlimited = true
		}
	}
	switch {
	case c.Winning && losses > 0:
		return appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "LOSS reward present in winning mode")
	case c.Winning && !unlimited:
		return appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "no unlimited reward in winning mode")
	case !c.Winning && losses != 1:
		return appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, fmt.Sprintf("expected exactly one LOSS reward, found %d", losses))
	}
	return nil
}

func LossReward() model.Reward {
	return model.Reward{
		ID:           uuid.NewString(),
		Name:         LossRewardName,
		Type:         model.RewardLoss,
		InitialLimit: model.Unlimited,
		Limit:        model.Unlimited,
	}
}

// OutOfStock lists rewards with no stock left.
func OutOfStock(gifts []model.Reward) []model.Reward {
	var out []model.Reward
	for _, g := range gifts {
		if g.Limit == 0 {
			out = append(out, g)
		}
	}
	return out
}

// NormalizeRewards drops rewards with unknown types. Missing, duplicate and
// reserved ids are replaced so every reward keeps its own condition.
func NormalizeRewards(gifts []model.Reward) (out []model.Reward, dropped int) {
	out = make([]model.Reward, 0, len(gifts))
	seen := make(map[string]bool, len(gifts))
	for _, g := range gifts {
		if !g.Type.Valid() {
			dropped++
			continue
		}
		if g.ID == "" || seen[g.ID] || reservedID(g.ID) {
			g.ID = uuid.NewString()
		}
		seen[g.ID] = true
		if g.InitialLimit < model.Unlimited {
			g.InitialLimit = 0
		}
		if g.Limit < model.Unlimited {
			g.Limit = 0
		}
		out = append(out, g)
	}
	return out, dropped
}

// reservedID reports ids owned by the global and custom conditions.
func reservedID(id string) bool {
	return id == model.GlobalConditionID || strings.HasPrefix(id, model.CustomConditionPrefix)
}
