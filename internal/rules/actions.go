package rules

import (
	"cmp"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

var handleRegex = regexp.MustCompile(`^@?[A-Za-z0-9._-]{1,50}$`)

type ActionInput struct {
	Type   model.ActionType `json:"type" validate:"required,oneof=GOOGLE_REVIEW INSTAGRAM FACEBOOK TIKTOK"`
	Target string           `json:"target" validate:"required,max=255"`
}

// DefaultTarget is the placeholder target offered when an action is created.
func DefaultTarget(t model.ActionType) string {
	if t == model.ActionGoogleReview {
		return "https://google.com/maps"
	}
	return "@etablissement"
}

func (in ActionInput) normalize() (ActionInput, error) {
	in.Target = strings.TrimSpace(in.Target)
	if err := validateStruct(in); err != nil {
		return in, err
	}
	if err := checkTarget(in.Type, in.Target); err != nil {
		return in, err
	}
	return in, nil
}

// checkTarget: reviews point at a URL, social networks at a handle.
func checkTarget(t model.ActionType, target string) error {
	switch t {
	case model.ActionGoogleReview:
		if err := validateVar("target", target, "url"); err != nil {
			return err
		}
		u, err := url.Parse(target)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return appErrors.NewValidation("target", "must be an http(s) URL")
		}
	case model.ActionInstagram, model.ActionFacebook, model.ActionTikTok:
		if !handleRegex.MatchString(target) {
			return appErrors.NewValidation("target", "must be an account handle like @name")
		}
	default:
		return appErrors.NewValidation("type", "unknown action type "+string(t))
	}
	return nil
}

// AddAction appends a new action at the lowest priority.
func AddAction(actions []model.Action, in ActionInput) ([]model.Action, model.Action, error) {
	in, err := in.normalize()
	if err != nil {
		return actions, model.Action{}, err
	}

	a := model.Action{
		ID:       uuid.NewString(),
		Type:     in.Type,
		Target:   in.Target,
		Priority: len(actions) + 1,
	}
	out := append(slices.Clone(actions), a)
	return out, a, nil
}

// UpdateAction changes type and target of an action, keeping its position.
func UpdateAction(actions []model.Action, id string, in ActionInput) ([]model.Action, error) {
	idx := indexOfAction(actions, id)
	if idx < 0 {
		return actions, appErrors.NewValidation("id", "action not found")
	}
	in, err := in.normalize()
	if err != nil {
		return actions, err
	}

	out := slices.Clone(actions)
	out[idx].Type = in.Type
	out[idx].Target = in.Target
	return renumber(out), nil
}

func RemoveAction(actions []model.Action, id string) ([]model.Action, error) {
	idx := indexOfAction(actions, id)
	if idx < 0 {
		return actions, appErrors.NewValidation("id", "action not found")
	}
	out := slices.Delete(slices.Clone(actions), idx, idx+1)
	return renumber(out), nil
}

// ReorderActions moves the action at from to position to and renumbers
// every priority.
func ReorderActions(actions []model.Action, from, to int) ([]model.Action, error) {
	n := len(actions)
	if from < 0 || from >= n {
		return actions, appErrors.NewValidation("from", "index out of range")
	}
	if to < 0 || to >= n {
		return actions, appErrors.NewValidation("to", "index out of range")
	}

	out := slices.Clone(actions)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return renumber(out), nil
}

// DuplicateActions returns every action whose type is used more than once,
// in list order.
func DuplicateActions(actions []model.Action) []model.Action {
	counts := make(map[model.ActionType]int, len(actions))
	for _, a := range actions {
		counts[a.Type]++
	}
	var dups []model.Action
	for _, a := range actions {
		if counts[a.Type] > 1 {
			dups = append(dups, a)
		}
	}
	return dups
}

// NormalizeActions repairs a loaded list: unknown types are dropped, missing
// or repeated ids regenerated, and priorities made dense in stored priority
// order. Non-positive priorities sort last.
func NormalizeActions(actions []model.Action) (out []model.Action, dropped int) {
	out = make([]model.Action, 0, len(actions))
	seen := make(map[string]bool, len(actions))
	for _, a := range actions {
		if !a.Type.Valid() {
			dropped++
			continue
		}
		if a.ID == "" || seen[a.ID] {
			a.ID = uuid.NewString()
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	rank := func(p int) int {
		if p <= 0 {
			return math.MaxInt
		}
		return p
	}
	slices.SortStableFunc(out, func(a, b model.Action) int {
		return cmp.Compare(rank(a.Priority), rank(b.Priority))
	})
	return renumber(out), dropped
}

// CheckPriorities verifies the dense 1..N ranking.
func CheckPriorities(actions []model.Action) error {
	for i, a := range actions {
		if a.Priority != i+1 {
			return appErrors.NewInvariantViolation(appErrors.InvariantActions, "priority of "+a.ID+" does not match its position")
		}
	}
	return nil
}

func renumber(actions []model.Action) []model.Action {
	for i := range actions {
		actions[i].Priority = i + 1
	}
	return actions
}

func indexOfAction(actions []model.Action, id string) int {
	return slices.IndexFunc(actions, func(a model.Action) bool { return a.ID == id })
}
