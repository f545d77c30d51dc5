package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

func TestMemoryStore_UserOperations(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	u, err := store.GetOrCreateUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.TelegramID)
	assert.Equal(t, domain.LangUnset, u.Language)

	u.Language = domain.LangEnglish
	u.Username = "Alice"
	require.NoError(t, store.SaveUser(ctx, u))

	again, err := store.GetOrCreateUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.LangEnglish, again.Language)

	byName, err := store.GetUserByUsername(ctx, "@alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), byName.TelegramID)

	_, err = store.GetUser(ctx, 7)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetOrCreateUser(ctx, 7)
	require.NoError(t, err)
	ids, err := store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 42}, ids)
}

func TestMemoryStore_UserRenameDropsOldIndex(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.SaveUser(ctx, &domain.User{TelegramID: 1, Username: "old"}))
	require.NoError(t, store.SaveUser(ctx, &domain.User{TelegramID: 1, Username: "new"}))

	_, err := store.GetUserByUsername(ctx, "old")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetUserByUsername(ctx, "NEW")
	assert.NoError(t, err)
}

func TestMemoryStore_MailboxOperations(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.Mailbox{ID: "b", OwnerID: 1, Address: "one@example.com", Token: "t1", CreatedAt: base}
	second := &domain.Mailbox{ID: "a", OwnerID: 1, Address: "two@example.com", Token: "t2", CreatedAt: base.Add(time.Minute)}
	other := &domain.Mailbox{ID: "c", OwnerID: 2, Address: "three@example.com", Token: "t3", CreatedAt: base}
	for _, mb := range []*domain.Mailbox{second, first, other} {
		require.NoError(t, store.SaveMailbox(ctx, mb))
	}

	list, err := store.ListMailboxesByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)

	require.NoError(t, store.SetWatermark(ctx, &domain.Watermark{Address: "one@example.com", MessageID: "m1"}))
	require.NoError(t, store.DeleteMailbox(ctx, "b"))

	_, err = store.GetMailbox(ctx, "b")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetWatermark(ctx, "one@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound, "watermark goes with its mailbox")

	assert.ErrorIs(t, store.DeleteMailbox(ctx, "b"), storage.ErrNotFound)

	n, err := store.DeleteMailboxesByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := store.ListMailboxes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].ID)
}

func TestMemoryStore_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.GetOrCreateUser(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, store.SaveMailbox(ctx, &domain.Mailbox{ID: "x", OwnerID: 5, Address: "x@example.com"}))

	require.NoError(t, store.DeleteUser(ctx, 5))
	_, err = store.GetMailbox(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteUser(ctx, 5), storage.ErrNotFound)
}

func TestMemoryStore_ChannelUpsertAndLatest(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.GetChannel(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.SaveChannel(ctx, &domain.Channel{Username: "first", Enabled: true}))
	require.NoError(t, store.SaveChannel(ctx, &domain.Channel{Username: "second", Enabled: true}))

	ch, err := store.GetChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", ch.Username)

	// 再次写入旧频道后它成为最新
	update := &domain.Channel{Username: "@First", Prompt: "join please", Enabled: false}
	require.NoError(t, store.SaveChannel(ctx, update))
	ch, err = store.GetChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First", ch.Username)
	assert.Equal(t, "join please", ch.Prompt)
	assert.False(t, ch.Enabled)
	assert.Equal(t, uint(1), update.ID)

	require.NoError(t, store.DeleteChannel(ctx, "first"))
	ch, err = store.GetChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", ch.Username)
}

func TestMemoryStore_BansAdminsSettings(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.GetBan(ctx, 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, store.SaveBan(ctx, &domain.Ban{TelegramID: 9, Reason: "spam"}))
	ban, err := store.GetBan(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "spam", ban.Reason)
	removed, err := store.DeleteBan(ctx, 9)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = store.DeleteBan(ctx, 9)
	require.NoError(t, err)
	assert.False(t, removed)

	added, err := store.AddAdmin(ctx, &domain.Admin{TelegramID: 3})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = store.AddAdmin(ctx, &domain.Admin{TelegramID: 3})
	require.NoError(t, err)
	assert.False(t, added)
	ok, err := store.IsAdmin(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.GetSetting(ctx, domain.SettingWelcomeMessage)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, store.SetSetting(ctx, domain.SettingWelcomeMessage, "hi"))
	v, err := store.GetSetting(ctx, domain.SettingWelcomeMessage)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestMemoryStore_Statistics(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, id := range []int64{1, 2, 3} {
		_, err := store.GetOrCreateUser(ctx, id)
		require.NoError(t, err)
	}
	require.NoError(t, store.SaveMailbox(ctx, &domain.Mailbox{ID: "a", OwnerID: 1, Address: "a@x"}))
	require.NoError(t, store.SaveMailbox(ctx, &domain.Mailbox{ID: "b", OwnerID: 1, Address: "b@x"}))
	require.NoError(t, store.SaveBan(ctx, &domain.Ban{TelegramID: 3}))

	stats, err := store.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{TotalUsers: 3, ActiveUsers: 1, TotalMailboxes: 2, BannedUsers: 1}, *stats)
}
