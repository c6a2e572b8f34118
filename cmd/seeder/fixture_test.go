package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/model"
	"github.com/unclebandit/spinwin-backend/internal/repository"
)

func TestSeedBundledFixture(t *testing.T) {
	repo := repository.NewMemoryRepository()
	require.NoError(t, seed(context.Background(), repo, filepath.Join("..", "..", "seed", "campaign.yaml")))

	c, err := repo.Load(context.Background(), "demo-cafe")
	require.NoError(t, err)
	require.NotNil(t, c)

	cfg := c.Configuration
	assert.Equal(t, "Spring at the Corner Cafe", c.Label)
	assert.Equal(t, "5678", cfg.PinCode)
	assert.Len(t, cfg.Actions, 3)
	// LOSS slot first, then the rewards in fixture order
	require.Len(t, cfg.Gifts, 4)
	assert.True(t, cfg.Gifts[0].IsLoss())
	assert.Equal(t, "Free espresso", cfg.Gifts[1].Name)
	assert.Equal(t, 12, cfg.Gifts[2].Limit)
	assert.Contains(t, cfg.RetrievalConditions, model.Condition{ID: cfg.Gifts[1].ID, Name: "Free espresso", Value: "valid on your next visit"})
	assert.Equal(t, "#6d4c41", cfg.Colors.Primary)
}

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campaign.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFixtureWinningMode(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, `
id: winning
winning_mode: true
rewards:
  - {name: Cookie, type: EAT, initial_limit: 10}
  - {name: Tea, type: DRINK, initial_limit: 40}
conditions:
  global: {enabled: true, minimum_amount: 15}
`))
	require.NoError(t, err)

	a, err := f.Build()
	require.NoError(t, err)
	cfg := a.Snapshot().Configuration
	assert.True(t, a.WinningMode())
	require.Len(t, cfg.Gifts, 2)
	assert.Equal(t, model.Unlimited, cfg.Gifts[0].Limit)
	assert.Equal(t, "minimum purchase of 15", cfg.RetrievalConditions[0].Value)
}

func TestFixtureErrors(t *testing.T) {
	_, err := LoadFixture(writeFixture(t, "id: [unclosed"))
	assert.ErrorContains(t, err, "parse")

	f, err := LoadFixture(writeFixture(t, `
id: broken
rewards:
  - {name: Cookie, type: CANDY, initial_limit: 10}
`))
	require.NoError(t, err)
	_, err = f.Build()
	assert.True(t, appErrors.IsValidation(err))
	assert.ErrorContains(t, err, `reward "Cookie"`)

	f, err = LoadFixture(writeFixture(t, "id: weak-pin\npin: \"1111\"\n"))
	require.NoError(t, err)
	_, err = f.Build()
	assert.True(t, appErrors.IsValidation(err))
}
