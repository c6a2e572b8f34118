package model

type RewardType string

const (
	RewardEat      RewardType = "EAT"
	RewardDrink    RewardType = "DRINK"
	RewardDiscount RewardType = "DISCOUNT"
	RewardLoss     RewardType = "LOSS"
)

func (t RewardType) Valid() bool {
	switch t {
	case RewardEat, RewardDrink, RewardDiscount, RewardLoss:
		return true
	}
	return false
}

// Unlimited marks a stock limit with no cap.
const Unlimited = -1

// Reward is a prize of the draw pool ("gift" in the snapshot).
type Reward struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         RewardType `json:"type"`
	InitialLimit int        `json:"initial_limit"`
	Limit        int        `json:"limit"`
}

func (r Reward) IsLoss() bool      { return r.Type == RewardLoss }
func (r Reward) IsUnlimited() bool { return r.Limit == Unlimited }
