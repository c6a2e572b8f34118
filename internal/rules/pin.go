package rules

import appErrors "github.com/unclebandit/spinwin-backend/internal/errors"

var pinBlacklist = map[string]struct{}{
	"0000": {}, "1111": {}, "2222": {}, "3333": {}, "4444": {},
	"5555": {}, "6666": {}, "7777": {}, "8888": {}, "9999": {},
	"1234": {}, "4321": {},
}

// ValidatePin checks format, confirmation and blacklist in that order and
// reports only the first failure.
func ValidatePin(pin, confirm string) error {
	if err := validateVar("pin", pin, "number,min=4,max=6"); err != nil {
		return appErrors.NewValidation("pin", "must contain 4 to 6 digits")
	}
	if pin != confirm {
		return appErrors.NewValidation("confirm", "PIN codes do not match")
	}
	if _, trivial := pinBlacklist[pin]; trivial {
		return appErrors.NewValidation("pin", "PIN code is too easy to guess")
	}
	return nil
}

func PinConfigured(pin string) bool {
	return len(pin) > 0
}
