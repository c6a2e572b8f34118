package appErrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
)

func TestErrorKinds(t *testing.T) {
	v := fmt.Errorf("add reward: %w", appErrors.NewValidation("name", "is required"))
	inv := appErrors.NewInvariantViolation(appErrors.InvariantWinningMode, "no unlimited reward")
	st := appErrors.NewStorageError("save", errors.New("quota exceeded"))

	assert.True(t, appErrors.IsValidation(v))
	assert.False(t, appErrors.IsInvariant(v))
	assert.True(t, appErrors.IsInvariant(inv))
	assert.True(t, appErrors.IsStorage(st))
	assert.False(t, appErrors.IsStorage(inv))
	assert.True(t, appErrors.IsNotFound(appErrors.NewCampaignNotFound("c1")))

	assert.Equal(t, "validation failed on name: is required", errors.Unwrap(v).Error())
	assert.Equal(t, "quota exceeded", errors.Unwrap(st).Error())
}
