package model

import "strings"

const (
	GlobalConditionID     = "global"
	CustomConditionPrefix = "custom_"
)

// Condition is a retrieval condition. Its kind is carried by the ID: a reward
// ID, "global", or a "custom_" prefix.
type Condition struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c Condition) IsGlobal() bool { return c.ID == GlobalConditionID }

func (c Condition) IsCustom() bool { return strings.HasPrefix(c.ID, CustomConditionPrefix) }

func (c Condition) IsPerReward() bool { return !c.IsGlobal() && !c.IsCustom() }
