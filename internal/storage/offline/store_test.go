package offline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tempmail/bot/internal/storage"
)

func TestOfflineStore_EveryReadFails(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetBan(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	_, err = s.GetChannel(ctx)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	_, err = s.IsAdmin(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	_, err = s.GetOrCreateUser(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.ErrorIs(t, s.Health(ctx), storage.ErrUnavailable)
	assert.NoError(t, s.Close())
}
