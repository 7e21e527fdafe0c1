package seeders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-order/internal/entities"
)

type recordingSaver struct {
	saved []entities.RequiredActionConfig
	err   error
}

func (s *recordingSaver) Save(_ context.Context, cfg *entities.RequiredActionConfig) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *cfg)
	return nil
}

func TestSeedRequiredActions_SavesActiveConfigs(t *testing.T) {
	saver := &recordingSaver{}
	require.NoError(t, seedRequiredActions(context.Background(), saver))

	require.Len(t, saver.saved, len(requiredActionsData))
	for _, cfg := range saver.saved {
		assert.True(t, cfg.IsActive, "%s -> %s", cfg.FromStatus, cfg.ToStatus)
	}
}

func TestSeedRequiredActions_StopsOnError(t *testing.T) {
	saver := &recordingSaver{err: errors.New("db down")}
	assert.Error(t, seedRequiredActions(context.Background(), saver))
	assert.Empty(t, saver.saved)
}
