package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

func seedActions(t *testing.T, inputs ...rules.ActionInput) []model.Action {
	t.Helper()
	var actions []model.Action
	for _, in := range inputs {
		var err error
		actions, _, err = rules.AddAction(actions, in)
		require.NoError(t, err)
	}
	return actions
}

func assertDense(t *testing.T, actions []model.Action) {
	t.Helper()
	for i, a := range actions {
		assert.Equal(t, i+1, a.Priority, "priority of action %d", i)
	}
	assert.NoError(t, rules.CheckPriorities(actions))
}

func TestAddAction(t *testing.T) {
	actions := seedActions(t,
		rules.ActionInput{Type: model.ActionGoogleReview, Target: "https://g.page/r/bistro"},
		rules.ActionInput{Type: model.ActionInstagram, Target: "@bistro"},
	)

	next, added, err := rules.AddAction(actions, rules.ActionInput{Type: model.ActionTikTok, Target: "  @bistro.tok "})
	require.NoError(t, err)
	assert.Len(t, actions, 2, "input slice must not change")
	assert.Len(t, next, 3)
	assert.Equal(t, 3, added.Priority)
	assert.Equal(t, "@bistro.tok", added.Target)
	assert.NotEmpty(t, added.ID)
}

func TestAddActionRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		in    rules.ActionInput
		field string
	}{
		{"empty target", rules.ActionInput{Type: model.ActionFacebook, Target: "   "}, "target"},
		{"unknown type", rules.ActionInput{Type: "SNAPCHAT", Target: "@x"}, "type"},
		{"review without url", rules.ActionInput{Type: model.ActionGoogleReview, Target: "@bistro"}, "target"},
		{"review with ftp url", rules.ActionInput{Type: model.ActionGoogleReview, Target: "ftp://files.example.com"}, "target"},
		{"handle with spaces", rules.ActionInput{Type: model.ActionInstagram, Target: "my bistro"}, "target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := rules.AddAction(nil, tc.in)
			require.Error(t, err)
			var v *appErrors.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tc.field, v.Field)
		})
	}
}

func TestRemoveActionRenumbers(t *testing.T) {
	actions := seedActions(t,
		rules.ActionInput{Type: model.ActionInstagram, Target: "@a"},
		rules.ActionInput{Type: model.ActionFacebook, Target: "@b"},
		rules.ActionInput{Type: model.ActionTikTok, Target: "@c"},
	)

	next, err := rules.RemoveAction(actions, actions[0].ID)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, actions[1].ID, next[0].ID)
	assertDense(t, next)

	_, err = rules.RemoveAction(actions, "missing")
	assert.True(t, appErrors.IsValidation(err))
}

func TestUpdateActionKeepsPosition(t *testing.T) {
	actions := seedActions(t,
		rules.ActionInput{Type: model.ActionInstagram, Target: "@a"},
		rules.ActionInput{Type: model.ActionFacebook, Target: "@b"},
	)

	next, err := rules.UpdateAction(actions, actions[1].ID, rules.ActionInput{Type: model.ActionGoogleReview, Target: "https://maps.google.com/x"})
	require.NoError(t, err)
	assert.Equal(t, model.ActionGoogleReview, next[1].Type)
	assert.Equal(t, 2, next[1].Priority)
	assert.Equal(t, model.ActionFacebook, actions[1].Type)
}

func TestReorderActionsDense(t *testing.T) {
	actions := seedActions(t,
		rules.ActionInput{Type: model.ActionInstagram, Target: "@a"},
		rules.ActionInput{Type: model.ActionFacebook, Target: "@b"},
		rules.ActionInput{Type: model.ActionTikTok, Target: "@c"},
		rules.ActionInput{Type: model.ActionGoogleReview, Target: "https://maps.google.com/d"},
	)

	for from := range actions {
		for to := range actions {
			next, err := rules.ReorderActions(actions, from, to)
			require.NoError(t, err)
			assertDense(t, next)
			assert.Equal(t, actions[from].ID, next[to].ID)
		}
	}

	next, err := rules.ReorderActions(actions, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{actions[1].ID, actions[2].ID, actions[0].ID, actions[3].ID},
		[]string{next[0].ID, next[1].ID, next[2].ID, next[3].ID})
}

func TestReorderActionsOutOfRange(t *testing.T) {
	actions := seedActions(t, rules.ActionInput{Type: model.ActionInstagram, Target: "@a"})

	for _, idx := range [][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -3}} {
		_, err := rules.ReorderActions(actions, idx[0], idx[1])
		assert.True(t, appErrors.IsValidation(err), "from=%d to=%d", idx[0], idx[1])
	}
}

func TestDuplicateActions(t *testing.T) {
	actions := seedActions(t,
		rules.ActionInput{Type: model.ActionInstagram, Target: "@a"},
		rules.ActionInput{Type: model.ActionFacebook, Target: "@b"},
		rules.ActionInput{Type: model.ActionInstagram, Target: "@c"},
	)

	dups := rules.DuplicateActions(actions)
	require.Len(t, dups, 2)
	assert.Equal(t, actions[0].ID, dups[0].ID)
	assert.Equal(t, actions[2].ID, dups[1].ID)

	assert.Empty(t, rules.DuplicateActions(actions[:2]))
}

func TestNormalizeActions(t *testing.T) {
	loaded := []model.Action{
		{ID: "b", Type: model.ActionFacebook, Target: "@b", Priority: 5},
		{ID: "x", Type: "MYSPACE", Target: "@x", Priority: 1},
		{ID: "", Type: model.ActionTikTok, Target: "@c", Priority: 0},
		{ID: "a", Type: model.ActionInstagram, Target: "@a", Priority: 2},
	}

	out, dropped := rules.NormalizeActions(loaded)
	assert.Equal(t, 1, dropped)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.NotEmpty(t, out[2].ID)
	assertDense(t, out)
}

func TestNormalizeActionsRepeatedIDs(t *testing.T) {
	loaded := []model.Action{
		{ID: "a", Type: model.ActionInstagram, Target: "@a", Priority: 1},
		{ID: "a", Type: model.ActionFacebook, Target: "@b", Priority: 2},
	}

	out, _ := rules.NormalizeActions(loaded)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.NotEqual(t, "a", out[1].ID)
	assert.NotEmpty(t, out[1].ID)

	// the second action is reachable on its own id
	rest, err := rules.RemoveAction(out, out[1].ID)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, model.ActionInstagram, rest[0].Type)
}

func TestDefaultTarget(t *testing.T) {
	for _, typ := range model.ActionTypes {
		_, _, err := rules.AddAction(nil, rules.ActionInput{Type: typ, Target: rules.DefaultTarget(typ)})
		assert.NoError(t, err, string(typ))
	}
}
