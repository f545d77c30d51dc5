package hybrid

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

// Cache 混合存储依赖的缓存能力，由 redis.Cache 实现
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	keyChannel = "channel:latest"
)

func keySetting(k string) string { return "setting:" + k }
func keyBan(id int64) string { return "ban:" + strconv.FormatInt(id, 10) }
func keyAdmin(id int64) string { return "admin:" + strconv.FormatInt(id, 10) }

// banEntry 缓存的封禁查询结果，Banned=false 表示确认未封禁
type banEntry struct {
	Banned bool        `json:"banned"`
	Ban    *domain.Ban `json:"ban,omitempty"`
}

// channelEntry 缓存的频道查询结果，Channel 为空表示未配置
type channelEntry struct {
	Channel *domain.Channel `json:"channel,omitempty"`
}

// Store 混合存储：数据库为准，Redis 缓存每条消息都会读取的热点数据
//
// 缓存的是频道、设置、封禁和管理员查询，写入时同步失效。缓存故障只记录日志，
// 读取回退到数据库；数据库故障则原样返回。
type Store struct {
	storage.Store
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewStore 创建混合存储实例
func NewStore(db storage.Store, cache Cache, ttl time.Duration, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{Store: db, cache: cache, ttl: ttl, log: log}
}

var _ storage.Store = (*Store)(nil)

// ========== Channels ==========

// GetChannel 先查缓存再查数据库
func (s *Store) GetChannel(ctx context.Context) (*domain.Channel, error) {
	var entry channelEntry
	if s.lookup(ctx, keyChannel, &entry) {
		if entry.Channel == nil {
			return nil, storage.ErrNotFound
		}
		return entry.Channel, nil
	}

	ch, err := s.Store.GetChannel(ctx)
	switch {
	case err == nil:
		s.store(ctx, keyChannel, channelEntry{Channel: ch})
		return ch, nil
	case errors.Is(err, storage.ErrNotFound):
		s.store(ctx, keyChannel, channelEntry{})
		return nil, err
	default:
		return nil, err
	}
}

// SaveChannel 写入数据库并失效缓存
func (s *Store) SaveChannel(ctx context.Context, channel *domain.Channel) error {
	if err := s.Store.SaveChannel(ctx, channel); err != nil {
		return err
	}
	s.invalidate(ctx, keyChannel)
	return nil
}

// DeleteChannel 删除频道并失效缓存
func (s *Store) DeleteChannel(ctx context.Context, username string) error {
	if err := s.Store.DeleteChannel(ctx, username); err != nil {
		return err
	}
	s.invalidate(ctx, keyChannel)
	return nil
}

// ========== Settings ==========

// GetSetting 先查缓存再查数据库，不缓存未命中
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	if s.lookup(ctx, keySetting(key), &value) {
		return value, nil
	}
	value, err := s.Store.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	s.store(ctx, keySetting(key), value)
	return value, nil
}

// SetSetting 写入设置并刷新缓存
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if err := s.Store.SetSetting(ctx, key, value); err != nil {
		return err
	}
	s.invalidate(ctx, keySetting(key))
	return nil
}

// ========== Bans ==========

// GetBan 先查缓存再查数据库，未封禁的结果同样缓存
func (s *Store) GetBan(ctx context.Context, telegramID int64) (*domain.Ban, error) {
	var entry banEntry
	if s.lookup(ctx, keyBan(telegramID), &entry) {
		if !entry.Banned {
			return nil, storage.ErrNotFound
		}
		return entry.Ban, nil
	}

	ban, err := s.Store.GetBan(ctx, telegramID)
	switch {
	case err == nil:
		s.store(ctx, keyBan(telegramID), banEntry{Banned: true, Ban: ban})
		return ban, nil
	case errors.Is(err, storage.ErrNotFound):
		s.store(ctx, keyBan(telegramID), banEntry{})
		return nil, err
	default:
		return nil, err
	}
}

// SaveBan 保存封禁并失效缓存
func (s *Store) SaveBan(ctx context.Context, ban *domain.Ban) error {
	if err := s.Store.SaveBan(ctx, ban); err != nil {
		return err
	}
	s.invalidate(ctx, keyBan(ban.TelegramID))
	return nil
}

// DeleteBan 解除封禁并失效缓存
func (s *Store) DeleteBan(ctx context.Context, telegramID int64) (bool, error) {
	removed, err := s.Store.DeleteBan(ctx, telegramID)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, keyBan(telegramID))
	return removed, nil
}

// ========== Admins ==========

// IsAdmin 先查缓存再查数据库
func (s *Store) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	var ok bool
	if s.lookup(ctx, keyAdmin(telegramID), &ok) {
		return ok, nil
	}
	ok, err := s.Store.IsAdmin(ctx, telegramID)
	if err != nil {
		return false, err
	}
	s.store(ctx, keyAdmin(telegramID), ok)
	return ok, nil
}

// AddAdmin 添加管理员并失效缓存
func (s *Store) AddAdmin(ctx context.Context, admin *domain.Admin) (bool, error) {
	added, err := s.Store.AddAdmin(ctx, admin)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, keyAdmin(admin.TelegramID))
	return added, nil
}

// RemoveAdmin 移除管理员并失效缓存
func (s *Store) RemoveAdmin(ctx context.Context, telegramID int64) (bool, error) {
	removed, err := s.Store.RemoveAdmin(ctx, telegramID)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, keyAdmin(telegramID))
	return removed, nil
}

// Health 数据库和缓存都需要可用
func (s *Store) Health(ctx context.Context) error {
	if err := s.Store.Health(ctx); err != nil {
		return err
	}
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Close 关闭数据库和缓存
func (s *Store) Close() error {
	dbErr := s.Store.Close()
	cacheErr := s.cache.Close()
	return errors.Join(dbErr, cacheErr)
}

func (s *Store) lookup(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *Store) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
