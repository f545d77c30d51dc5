package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

// Store 使用内存保存机器人数据，主要用于开发验证。
type Store struct {
	mu         sync.RWMutex
	users      map[int64]*domain.User
	byUsername map[string]int64 // lower(username) -> telegramID
	mailboxes  map[string]*domain.Mailbox
	byAddress  map[string]string // address -> mailboxID
	watermarks map[string]*domain.Watermark
	settings   map[string]string
	bans       map[int64]*domain.Ban
	channels   map[string]*domain.Channel // username -> channel
	admins     map[int64]*domain.Admin

	nextChannelID uint
	channelSeq    map[string]uint64 // 最近写入顺序，时间相同时区分先后
	seq           uint64
	now           func() time.Time
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*domain.User),
		byUsername: make(map[string]int64),
		mailboxes:  make(map[string]*domain.Mailbox),
		byAddress:  make(map[string]string),
		watermarks: make(map[string]*domain.Watermark),
		settings:   make(map[string]string),
		bans:       make(map[int64]*domain.Ban),
		channels:   make(map[string]*domain.Channel),
		admins:     make(map[int64]*domain.Admin),
		channelSeq: make(map[string]uint64),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var _ storage.Store = (*Store)(nil)

// ========== Users ==========

// GetOrCreateUser 获取用户，不存在则创建。
func (s *Store) GetOrCreateUser(_ context.Context, telegramID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[telegramID]; ok {
		cp := *u
		return &cp, nil
	}
	now := s.now()
	u := &domain.User{TelegramID: telegramID, CreatedAt: now, UpdatedAt: now}
	s.users[telegramID] = u
	cp := *u
	return &cp, nil
}

// GetUser 根据 Telegram ID 获取用户。
func (s *Store) GetUser(_ context.Context, telegramID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[telegramID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByUsername 根据用户名获取用户，忽略大小写和前导 @。
func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	key := normalizeUsername(username)

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// SaveUser 保存用户。
func (s *Store) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *user
	now := s.now()
	if old, ok := s.users[user.TelegramID]; ok {
		if old.Username != "" {
			delete(s.byUsername, normalizeUsername(old.Username))
		}
		cp.CreatedAt = old.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	s.users[user.TelegramID] = &cp
	if cp.Username != "" {
		s.byUsername[normalizeUsername(cp.Username)] = cp.TelegramID
	}
	return nil
}

// ListUserIDs 返回全部用户 ID，按升序排列。
func (s *Store) ListUserIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// DeleteUser 删除用户及其全部邮箱。
func (s *Store) DeleteUser(_ context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[telegramID]
	if !ok {
		return storage.ErrNotFound
	}
	if u.Username != "" {
		delete(s.byUsername, normalizeUsername(u.Username))
	}
	delete(s.users, telegramID)
	s.deleteMailboxesByOwnerLocked(telegramID)
	return nil
}

// ========== Mailboxes ==========

// SaveMailbox 保存邮箱信息。
func (s *Store) SaveMailbox(_ context.Context, mailbox *domain.Mailbox) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *mailbox
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.mailboxes[cp.ID] = &cp
	s.byAddress[cp.Address] = cp.ID
	return nil
}

// GetMailbox 根据 ID 获取邮箱。
func (s *Store) GetMailbox(_ context.Context, id string) (*domain.Mailbox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mb, ok := s.mailboxes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *mb
	return &cp, nil
}

// ListMailboxesByOwner 返回指定用户的全部邮箱。
func (s *Store) ListMailboxesByOwner(_ context.Context, ownerID int64) ([]domain.Mailbox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Mailbox, 0)
	for _, mb := range s.mailboxes {
		if mb.OwnerID == ownerID {
			result = append(result, *mb)
		}
	}
	sortMailboxes(result)
	return result, nil
}

// ListMailboxes 返回全部邮箱的快照。
func (s *Store) ListMailboxes(_ context.Context) ([]domain.Mailbox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Mailbox, 0, len(s.mailboxes))
	for _, mb := range s.mailboxes {
		result = append(result, *mb)
	}
	sortMailboxes(result)
	return result, nil
}

// DeleteMailbox 删除指定邮箱及其水位线。
func (s *Store) DeleteMailbox(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mailboxes[id]; !ok {
		return storage.ErrNotFound
	}
	s.deleteMailboxLocked(id)
	return nil
}

// DeleteMailboxesByOwner 删除用户的全部邮箱，返回删除数量。
func (s *Store) DeleteMailboxesByOwner(_ context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteMailboxesByOwnerLocked(ownerID), nil
}

func (s *Store) deleteMailboxesByOwnerLocked(ownerID int64) int {
	count := 0
	for id, mb := range s.mailboxes {
		if mb.OwnerID == ownerID {
			s.deleteMailboxLocked(id)
			count++
		}
	}
	return count
}

func (s *Store) deleteMailboxLocked(id string) {
	if mb, ok := s.mailboxes[id]; ok {
		delete(s.byAddress, mb.Address)
		delete(s.watermarks, mb.Address)
	}
	delete(s.mailboxes, id)
}

// ========== Watermarks ==========

// GetWatermark 获取邮箱的水位线。
func (s *Store) GetWatermark(_ context.Context, address string) (*domain.Watermark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wm, ok := s.watermarks[address]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *wm
	return &cp, nil
}

// SetWatermark 保存水位线。
func (s *Store) SetWatermark(_ context.Context, watermark *domain.Watermark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *watermark
	cp.UpdatedAt = s.now()
	s.watermarks[cp.Address] = &cp
	return nil
}

// DeleteWatermark 删除水位线。
func (s *Store) DeleteWatermark(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.watermarks, address)
	return nil
}

// ========== Settings ==========

// GetSetting 读取设置。
func (s *Store) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.settings[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

// SetSetting 写入设置。
func (s *Store) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}

// ========== Bans ==========

// GetBan 获取封禁记录。
func (s *Store) GetBan(_ context.Context, telegramID int64) (*domain.Ban, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bans[telegramID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// SaveBan 保存封禁记录。
func (s *Store) SaveBan(_ context.Context, ban *domain.Ban) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ban
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.bans[cp.TelegramID] = &cp
	return nil
}

// DeleteBan 解除封禁。
func (s *Store) DeleteBan(_ context.Context, telegramID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bans[telegramID]; !ok {
		return false, nil
	}
	delete(s.bans, telegramID)
	return true, nil
}

// ========== Channels ==========

// GetChannel 返回最近更新的频道配置。
func (s *Store) GetChannel(_ context.Context) (*domain.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Channel
	var latestSeq uint64
	for key, ch := range s.channels {
		if seq := s.channelSeq[key]; latest == nil || seq > latestSeq {
			latest, latestSeq = ch, seq
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// SaveChannel 按用户名新增或更新频道。
func (s *Store) SaveChannel(_ context.Context, channel *domain.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeUsername(channel.Username)
	now := s.now()
	cp := *channel
	cp.Username = strings.TrimPrefix(cp.Username, "@")
	if old, ok := s.channels[key]; ok {
		cp.ID = old.ID
		cp.CreatedAt = old.CreatedAt
	} else {
		s.nextChannelID++
		cp.ID = s.nextChannelID
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	s.channels[key] = &cp
	s.seq++
	s.channelSeq[key] = s.seq
	channel.ID = cp.ID
	return nil
}

// DeleteChannel 删除频道。
func (s *Store) DeleteChannel(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeUsername(username)
	if _, ok := s.channels[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.channels, key)
	delete(s.channelSeq, key)
	return nil
}

// ========== Admins ==========

// IsAdmin 判断是否为管理员。
func (s *Store) IsAdmin(_ context.Context, telegramID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.admins[telegramID]
	return ok, nil
}

// AddAdmin 添加管理员。
func (s *Store) AddAdmin(_ context.Context, admin *domain.Admin) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[admin.TelegramID]; ok {
		return false, nil
	}
	cp := *admin
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.admins[cp.TelegramID] = &cp
	return true, nil
}

// RemoveAdmin 移除管理员。
func (s *Store) RemoveAdmin(_ context.Context, telegramID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[telegramID]; !ok {
		return false, nil
	}
	delete(s.admins, telegramID)
	return true, nil
}

// ListAdmins 返回全部管理员。
func (s *Store) ListAdmins(_ context.Context) ([]domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TelegramID < result[j].TelegramID })
	return result, nil
}

// ========== Statistics ==========

// GetStatistics 返回统计信息。
func (s *Store) GetStatistics(_ context.Context) (*domain.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make(map[int64]struct{})
	for _, mb := range s.mailboxes {
		owners[mb.OwnerID] = struct{}{}
	}
	return &domain.Statistics{
		TotalUsers:     len(s.users),
		ActiveUsers:    len(owners),
		TotalMailboxes: len(s.mailboxes),
		BannedUsers:    len(s.bans),
		Admins:         len(s.admins),
	}, nil
}

// Health 内存存储始终健康。
func (s *Store) Health(_ context.Context) error {
	return nil
}

// Close 内存存储无需释放资源。
func (s *Store) Close() error {
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

func sortMailboxes(list []domain.Mailbox) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
