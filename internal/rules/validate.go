package rules

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
)

var (
	validate      = newValidator()
	hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so messages match the snapshot fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	_ = v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return hexColorRegex.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the struct tags and converts the first failure into a
// ValidationError.
func validateStruct(s any) error {
	return translate("", validate.Struct(s))
}

func validateVar(field string, value any, tag string) error {
	return translate(field, validate.Var(value, tag))
}

func translate(field string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return appErrors.NewValidation(field, err.Error())
	}

	fe := verrs[0]
	if field == "" {
		field = fe.Field()
	}
	param := fe.Param()

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = "must be at least " + param
	case "max":
		msg = "must be at most " + param
	case "oneof":
		msg = "must be one of " + param
	case "number":
		msg = "must contain digits only"
	case "url", "uri":
		msg = "must be a valid URL"
	case "rgbhex":
		msg = "must be a hex color like #RRGGBB"
	case "gt":
		msg = "must be greater than " + param
	default:
		msg = "is invalid"
	}
	return appErrors.NewValidation(field, msg)
}
