package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/rules"
)

func TestValidatePin(t *testing.T) {
	cases := []struct {
		pin, confirm string
		field        string
	}{
		{"1234", "1234", "pin"},
		{"4321", "4321", "pin"},
		{"0000", "0000", "pin"},
		{"12", "12", "pin"},
		{"1234567", "1234567", "pin"},
		{"12a4", "12a4", "pin"},
		{"", "", "pin"},
		{"5678", "5679", "confirm"},
		// format is checked before the confirmation
		{"12", "13", "pin"},
		// confirmation is checked before the blacklist
		{"1111", "1112", "confirm"},
	}
	for _, tc := range cases {
		err := rules.ValidatePin(tc.pin, tc.confirm)
		var v *appErrors.ValidationError
		require.ErrorAs(t, err, &v, "pin %q confirm %q", tc.pin, tc.confirm)
		assert.Equal(t, tc.field, v.Field, "pin %q confirm %q", tc.pin, tc.confirm)
	}

	assert.NoError(t, rules.ValidatePin("5678", "5678"))
	assert.NoError(t, rules.ValidatePin("908172", "908172"))
}

func TestPinConfigured(t *testing.T) {
	assert.False(t, rules.PinConfigured(""))
	assert.True(t, rules.PinConfigured("5678"))
}

func TestValidateCustomization(t *testing.T) {
	assert.NoError(t, rules.ValidateColors(model.Colors{Primary: "#1976d2", Secondary: "#FFF"}))

	err := rules.ValidateColors(model.Colors{Primary: "#1976d2", Secondary: "orange"})
	var v *appErrors.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "colors.secondary", v.Field)

	assert.NoError(t, rules.ValidateLogo(""))
	assert.NoError(t, rules.ValidateLogo("data:image/png;base64,iVBORw0KGgo="))
	assert.NoError(t, rules.ValidateLogo("https://cdn.example.com/logo.png"))
	assert.Error(t, rules.ValidateLogo("not a uri"))

	assert.NoError(t, rules.ValidateGameType(model.GameSlotMachine))
	assert.Error(t, rules.ValidateGameType("DICE"))
}
