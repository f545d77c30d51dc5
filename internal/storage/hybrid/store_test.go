package hybrid

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
	"tempmail/bot/internal/storage/memory"
)

// mapCache 以 JSON 编码保存值，行为与 Redis 缓存一致
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("connection refused")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }

// countingStore 统计落到数据库的读取次数
type countingStore struct {
	*memory.Store
	banReads     int
	channelReads int
	adminReads   int
}

func (s *countingStore) GetBan(ctx context.Context, id int64) (*domain.Ban, error) {
	s.banReads++
	return s.Store.GetBan(ctx, id)
}

func (s *countingStore) GetChannel(ctx context.Context) (*domain.Channel, error) {
	s.channelReads++
	return s.Store.GetChannel(ctx)
}

func (s *countingStore) IsAdmin(ctx context.Context, id int64) (bool, error) {
	s.adminReads++
	return s.Store.IsAdmin(ctx, id)
}

func newTestStore() (*Store, *countingStore, *mapCache) {
	db := &countingStore{Store: memory.NewStore()}
	cache := newMapCache()
	return NewStore(db, cache, time.Minute, nil), db, cache
}

func TestHybridStore_BanLookupsAreCached(t *testing.T) {
	ctx := context.Background()
	s, db, _ := newTestStore()

	_, err := s.GetBan(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetBan(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 1, db.banReads, "negative result served from cache")

	require.NoError(t, s.SaveBan(ctx, &domain.Ban{TelegramID: 1, Reason: "abuse"}))
	ban, err := s.GetBan(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "abuse", ban.Reason)
	assert.Equal(t, 2, db.banReads)

	removed, err := s.DeleteBan(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = s.GetBan(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHybridStore_ChannelInvalidation(t *testing.T) {
	ctx := context.Background()
	s, db, _ := newTestStore()

	_, err := s.GetChannel(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SaveChannel(ctx, &domain.Channel{Username: "news", Enabled: true}))
	ch, err := s.GetChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "news", ch.Username)

	_, err = s.GetChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, db.channelReads)

	require.NoError(t, s.DeleteChannel(ctx, "news"))
	_, err = s.GetChannel(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHybridStore_CacheFailureFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	s, db, cache := newTestStore()
	cache.failGet = true

	_, err := db.AddAdmin(ctx, &domain.Admin{TelegramID: 5})
	require.NoError(t, err)

	ok, err := s.IsAdmin(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.IsAdmin(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, db.adminReads)
}

func TestHybridStore_SettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	_, err := s.GetSetting(ctx, domain.SettingWelcomeMessage)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SetSetting(ctx, domain.SettingWelcomeMessage, "hello"))
	v, err := s.GetSetting(ctx, domain.SettingWelcomeMessage)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	require.NoError(t, s.SetSetting(ctx, domain.SettingWelcomeMessage, "bye"))
	v, err = s.GetSetting(ctx, domain.SettingWelcomeMessage)
	require.NoError(t, err)
	assert.Equal(t, "bye", v)
}
