package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/gate"
	"tempmail/bot/internal/secret"
	"tempmail/bot/internal/storage"
	"tempmail/bot/internal/storage/memory"
)

const superID = 1000

type stubResolver struct {
	info *ChatInfo
	err  error
	refs []gate.ChatRef
}

func (r *stubResolver) ResolveChat(_ context.Context, ref gate.ChatRef) (*ChatInfo, error) {
	r.refs = append(r.refs, ref)
	return r.info, r.err
}

func newAdminService(t *testing.T, resolver ChatResolver) (*AdminService, *memory.Store, *MockProvider) {
	t.Helper()
	store := memory.NewStore()
	provider := &MockProvider{}
	mailboxes := NewMailboxService(store, provider, secret.New(""), nil, 0, nil)
	state := NewRuntimeState(store, nil)
	return NewAdminService(store, mailboxes, state, resolver, superID, nil), store, provider
}

func TestAdminService_AdminManagement(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t, &stubResolver{})

	assert.True(t, svc.IsAdmin(ctx, superID))
	assert.False(t, svc.IsAdmin(ctx, 5))

	_, err := svc.AddAdmin(ctx, 5, &domain.User{TelegramID: 6})
	assert.ErrorIs(t, err, ErrUnauthorized)

	added, err := svc.AddAdmin(ctx, superID, &domain.User{TelegramID: 5, Username: "five"})
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, svc.IsAdmin(ctx, 5))

	added, err = svc.AddAdmin(ctx, superID, &domain.User{TelegramID: 5})
	require.NoError(t, err)
	assert.False(t, added)

	_, err = svc.RemoveAdmin(ctx, superID, superID)
	assert.ErrorIs(t, err, ErrCannotModifySuper)

	removed, err := svc.RemoveAdmin(ctx, superID, 5)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, svc.IsAdmin(ctx, 5))
}

func TestAdminService_BanRules(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAdminService(t, &stubResolver{})

	assert.ErrorIs(t, svc.Ban(ctx, superID, superID, "x"), ErrCannotBanAdmin)

	require.NoError(t, svc.Ban(ctx, superID, 7, "  spam  "))
	ban, err := store.GetBan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "spam", ban.Reason)
	assert.Equal(t, int64(superID), ban.BannedBy)

	removed, err := svc.Unban(ctx, 7)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.Unban(ctx, 7)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestParseChannelRef(t *testing.T) {
	cases := map[string]gate.ChatRef{
		"@news_room":              {Username: "@news_room"},
		"news_room":               {Username: "@news_room"},
		"https://t.me/news_room/": {Username: "@news_room"},
		"t.me/news_room":          {Username: "@news_room"},
		"-1001234567890":          {ID: -1001234567890},
	}
	for in, want := range cases {
		got, err := ParseChannelRef(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "@", "ab", "has space", "0"} {
		_, err := ParseChannelRef(bad)
		assert.ErrorIs(t, err, ErrInvalidChannel, bad)
	}
}

func TestAdminService_SetChannelResolvesAndResetsGate(t *testing.T) {
	ctx := context.Background()
	resolver := &stubResolver{info: &ChatInfo{ID: -100777, Title: "News", Username: "news_room"}}
	svc, _, _ := newAdminService(t, resolver)
	resets := 0
	svc.OnChannelChange(func() { resets++ })

	ch, resolved, err := svc.SetChannel(ctx, "@news_room")
	require.NoError(t, err)
	assert.True(t, resolved)
	require.NotNil(t, ch.ChatID)
	assert.Equal(t, int64(-100777), *ch.ChatID)
	assert.Equal(t, "News", ch.Title)
	assert.True(t, ch.Enabled)
	assert.Equal(t, 1, resets)

	require.NoError(t, svc.SetChannelPrompt(ctx, "join us"))
	enabled, err := svc.ToggleSubscription(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, 2, resets)

	resolver.info = &ChatInfo{ID: -100888, Username: "other_room"}
	ch, _, err = svc.SetChannel(ctx, "other_room")
	require.NoError(t, err)
	assert.Equal(t, "join us", ch.Prompt)

	current, err := svc.Channel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other_room", current.Username)

	// 删除当前频道后回退到更早的配置
	require.NoError(t, svc.DeleteChannel(ctx))
	current, err = svc.Channel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "news_room", current.Username)

	require.NoError(t, svc.DeleteChannel(ctx))
	_, err = svc.Channel(ctx)
	assert.ErrorIs(t, err, ErrNoChannel)
	assert.Equal(t, 5, resets)
}

func TestAdminService_SetChannelUnresolvedStillSaves(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t, &stubResolver{err: errors.New("chat not found")})

	ch, resolved, err := svc.SetChannel(ctx, "@news_room")
	require.NoError(t, err)
	assert.False(t, resolved)
	assert.Nil(t, ch.ChatID)
	assert.Equal(t, "news_room", ch.Username)

	_, _, err = svc.SetChannel(ctx, "-100123")
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestAdminService_ChannelOpsWithoutChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t, &stubResolver{})

	assert.ErrorIs(t, svc.SetChannelPrompt(ctx, "x"), ErrNoChannel)
	_, err := svc.ToggleSubscription(ctx)
	assert.ErrorIs(t, err, ErrNoChannel)
	assert.ErrorIs(t, svc.DeleteChannel(ctx), ErrNoChannel)
}

func TestAdminService_SettingsAndToggles(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t, &stubResolver{})

	assert.Empty(t, svc.Welcome(ctx))
	require.NoError(t, svc.SetWelcome(ctx, " hi "))
	assert.Equal(t, "hi", svc.Welcome(ctx))
	require.NoError(t, svc.SetWelcome(ctx, ""))
	assert.Empty(t, svc.Welcome(ctx))

	on, err := svc.ToggleBot(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = svc.ToggleForwarding(ctx)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestAdminService_Purge(t *testing.T) {
	ctx := context.Background()
	svc, store, provider := newAdminService(t, &stubResolver{})
	expectCreate(provider, "t1")
	provider.On("DeleteAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := store.GetOrCreateUser(ctx, 8)
	require.NoError(t, err)
	_, err = svc.mailboxes.Create(ctx, 8)
	require.NoError(t, err)

	_, err = svc.Purge(ctx, 9, 8)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Purge(ctx, superID, superID)
	assert.ErrorIs(t, err, ErrCannotModifySuper)

	n, err := svc.Purge(ctx, superID, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = store.GetUser(ctx, 8)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMailboxes)
}
