// Package campaign holds the campaign aggregate: one consistent snapshot of
// actions, rewards, retrieval conditions and PIN, changed only through its
// operations.
//
// Every operation works on a clone of the current snapshot. The clone is
// reconciled and checked before it replaces the snapshot, so a failed
// operation leaves nothing behind.
package campaign

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

type options struct {
	policy rules.PromotionPolicy
	now    func() time.Time
	editor string
	log    logrus.FieldLogger
}

type Option func(*options)

// WithPromotionPolicy picks the reward promoted to unlimited stock when
// winning mode is enabled.
func WithPromotionPolicy(p rules.PromotionPolicy) Option {
	return func(o *options) { o.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithEditor sets the value stamped into created_by / updated_by.
func WithEditor(editor string) Option {
	return func(o *options) { o.editor = editor }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{
		policy: rules.PromoteFirst,
		now:    time.Now,
		editor: "system",
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type Aggregate struct {
	snap model.Campaign
	opts options
}

// New creates a campaign with default values.
func New(id string, opts ...Option) *Aggregate {
	o := buildOptions(opts)
	if id == "" {
		id = uuid.NewString()
	}
	now := o.now().UTC()
	winning := false
	c := model.Campaign{
		ID:        id,
		Label:     model.DefaultLabel,
		Profile:   model.DefaultProfile,
		Enabled:   true,
		CreatedAt: now,
		CreatedBy: o.editor,
		UpdatedAt: now,
		UpdatedBy: o.editor,
		Configuration: model.Configuration{
			Actions:             []model.Action{},
			Gifts:               []model.Reward{},
			RetrievalConditions: []model.Condition{},
			Colors:              model.DefaultColors(),
			GameType:            model.DefaultGameType,
			WinningMode:         &winning,
			RetrievalPolicy:     &model.RetrievalPolicy{},
		},
	}

	a := &Aggregate{opts: o}
	a.snap = a.normalize(c)
	return a
}

// Restore rebuilds an aggregate from a stored snapshot. Missing or invalid
// fields fall back to their defaults.
func Restore(snap model.Campaign, opts ...Option) (*Aggregate, error) {
	a := &Aggregate{opts: buildOptions(opts)}
	c := a.normalize(snap.Clone())
	if err := checkInvariants(c); err != nil {
		return nil, fmt.Errorf("restore campaign %s: %w", snap.ID, err)
	}
	a.snap = c
	return a, nil
}

func (a *Aggregate) ID() string { return a.snap.ID }

// Snapshot returns a deep copy of the current state.
func (a *Aggregate) Snapshot() model.Campaign { return a.snap.Clone() }

func (a *Aggregate) WinningMode() bool { return a.snap.Configuration.IsWinningMode() }

func (a *Aggregate) catalog(c *model.Campaign) rules.Catalog {
	return rules.Catalog{
		Gifts:   c.Configuration.Gifts,
		Winning: c.Configuration.IsWinningMode(),
		Policy:  a.opts.policy,
	}
}

func setCatalog(c *model.Campaign, cat rules.Catalog) {
	c.Configuration.Gifts = cat.Gifts
	winning := cat.Winning
	c.Configuration.WinningMode = &winning
}

// apply runs fn on a clone and swaps it in when every invariant holds.
// Catalog operations also reconcile the retrieval conditions.
func (a *Aggregate) apply(op string, catalogChanged bool, fn func(c *model.Campaign) error) error {
	next := a.snap.Clone()
	if err := fn(&next); err != nil {
		a.opts.log.WithFields(logrus.Fields{
			"campaign_id": a.snap.ID,
			"op":          op,
		}).WithError(err).Debug("operation rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	if catalogChanged {
		next.Configuration.RetrievalConditions = rules.Reconcile(next.Configuration.Gifts, next.Configuration.RetrievalConditions)
	}
	if err := checkInvariants(next); err != nil {
		a.opts.log.WithFields(logrus.Fields{
			"campaign_id": a.snap.ID,
			"op":          op,
		}).WithError(err).Error("operation broke an invariant, rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	if reflect.DeepEqual(next, a.snap) {
		return nil
	}
	next.UpdatedAt = a.opts.now().UTC()
	next.UpdatedBy = a.opts.editor
	a.snap = next
	return nil
}

func checkInvariants(c model.Campaign) error {
	cfg := c.Configuration
	if err := rules.CheckPriorities(cfg.Actions); err != nil {
		return err
	}
	if err := (rules.Catalog{Gifts: cfg.Gifts, Winning: cfg.IsWinningMode()}).Check(); err != nil {
		return err
	}
	if err := rules.CheckBijection(cfg.Gifts, cfg.RetrievalConditions); err != nil {
		return err
	}
	hasGlobal := false
	for _, cond := range cfg.RetrievalConditions {
		hasGlobal = hasGlobal || cond.IsGlobal()
	}
	if hasGlobal != cfg.Policy().Enabled {
		return appErrors.NewInvariantViolation(appErrors.InvariantConditions, "global condition does not match the retrieval policy")
	}
	if cfg.Disabled != (c.Profile == model.ProfileBasic) {
		return appErrors.NewInvariantViolation(appErrors.InvariantProfile, "disabled flag does not match the profile")
	}
	if cfg.Disabled && (cfg.GameType != model.DefaultGameType || cfg.Colors != model.DefaultColors() || cfg.LogoURI != "") {
		return appErrors.NewInvariantViolation(appErrors.InvariantProfile, "premium settings changed on a BASIC campaign")
	}
	return nil
}

// Batch runs several operations as one: when fn fails, every change it made
// is rolled back.
func (a *Aggregate) Batch(fn func(a *Aggregate) error) error {
	prev := a.snap
	if err := fn(a); err != nil {
		a.snap = prev
		return err
	}
	return nil
}
