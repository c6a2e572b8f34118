package rules

import (
	"errors"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
)

type colorsInput struct {
	Primary   string `json:"primary" validate:"required,rgbhex"`
	Secondary string `json:"secondary" validate:"required,rgbhex"`
}

func ValidateColors(c model.Colors) error {
	err := validateStruct(colorsInput(c))
	var v *appErrors.ValidationError
	if errors.As(err, &v) {
		v.Field = "colors." + v.Field
	}
	return err
}

func ValidColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

func ValidateGameType(g model.GameType) error {
	if !g.Valid() {
		return appErrors.NewValidation("game_type", "unknown game type "+string(g))
	}
	return nil
}

// ValidateLogo accepts an empty value, a URL or a data URI.
func ValidateLogo(uri string) error {
	return validateVar("logo_uri", uri, "omitempty,uri")
}
