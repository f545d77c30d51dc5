package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage/memory"
	"tempmail/bot/internal/storage/offline"
)

func TestRuntimeState_DefaultsAndPersistence(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	state := NewRuntimeState(store, nil)
	require.NoError(t, state.Load(ctx))
	assert.True(t, state.BotEnabled())
	assert.False(t, state.ForwardingEnabled())
	assert.Empty(t, state.OfflineMessage())

	require.NoError(t, state.SetBotEnabled(ctx, false))
	require.NoError(t, state.SetForwarding(ctx, true))
	require.NoError(t, state.SetOfflineMessage(ctx, "back soon"))

	restarted := NewRuntimeState(store, nil)
	require.NoError(t, restarted.Load(ctx))
	assert.False(t, restarted.BotEnabled())
	assert.True(t, restarted.ForwardingEnabled())
	assert.Equal(t, "back soon", restarted.OfflineMessage())
}

func TestRuntimeState_MalformedSettingIgnored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SetSetting(ctx, domain.SettingBotEnabled, "maybe"))

	state := NewRuntimeState(store, nil)
	require.NoError(t, state.Load(ctx))
	assert.True(t, state.BotEnabled())
}

func TestRuntimeState_UnavailableStore(t *testing.T) {
	ctx := context.Background()
	state := NewRuntimeState(offline.NewStore(), nil)

	assert.Error(t, state.Load(ctx))
	assert.True(t, state.BotEnabled())

	assert.Error(t, state.SetBotEnabled(ctx, false))
	assert.True(t, state.BotEnabled(), "failed write must not change the in-memory flag")
}
