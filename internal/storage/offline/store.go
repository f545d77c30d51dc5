// Package offline 提供未配置数据库时使用的存储实现。
//
// 所有操作都返回 storage.ErrUnavailable，调用方据此进入失败关闭路径。
package offline

import (
	"context"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

// Store 不可用的存储
type Store struct{}

// NewStore 创建离线存储
func NewStore() *Store { return &Store{} }

var _ storage.Store = (*Store)(nil)

func (Store) GetOrCreateUser(context.Context, int64) (*domain.User, error) {
	return nil, storage.ErrUnavailable
}
func (Store) GetUser(context.Context, int64) (*domain.User, error) {
	return nil, storage.ErrUnavailable
}
func (Store) GetUserByUsername(context.Context, string) (*domain.User, error) {
	return nil, storage.ErrUnavailable
}
func (Store) SaveUser(context.Context, *domain.User) error       { return storage.ErrUnavailable }
func (Store) ListUserIDs(context.Context) ([]int64, error)       { return nil, storage.ErrUnavailable }
func (Store) DeleteUser(context.Context, int64) error            { return storage.ErrUnavailable }
func (Store) SaveMailbox(context.Context, *domain.Mailbox) error { return storage.ErrUnavailable }
func (Store) GetMailbox(context.Context, string) (*domain.Mailbox, error) {
	return nil, storage.ErrUnavailable
}
func (Store) ListMailboxesByOwner(context.Context, int64) ([]domain.Mailbox, error) {
	return nil, storage.ErrUnavailable
}
func (Store) ListMailboxes(context.Context) ([]domain.Mailbox, error) {
	return nil, storage.ErrUnavailable
}
func (Store) DeleteMailbox(context.Context, string) error { return storage.ErrUnavailable }
func (Store) DeleteMailboxesByOwner(context.Context, int64) (int, error) {
	return 0, storage.ErrUnavailable
}
func (Store) GetWatermark(context.Context, string) (*domain.Watermark, error) {
	return nil, storage.ErrUnavailable
}
func (Store) SetWatermark(context.Context, *domain.Watermark) error { return storage.ErrUnavailable }
func (Store) DeleteWatermark(context.Context, string) error         { return storage.ErrUnavailable }
func (Store) GetSetting(context.Context, string) (string, error)    { return "", storage.ErrUnavailable }
func (Store) SetSetting(context.Context, string, string) error      { return storage.ErrUnavailable }
func (Store) GetBan(context.Context, int64) (*domain.Ban, error)    { return nil, storage.ErrUnavailable }
func (Store) SaveBan(context.Context, *domain.Ban) error            { return storage.ErrUnavailable }
func (Store) DeleteBan(context.Context, int64) (bool, error)        { return false, storage.ErrUnavailable }
func (Store) GetChannel(context.Context) (*domain.Channel, error)   { return nil, storage.ErrUnavailable }
func (Store) SaveChannel(context.Context, *domain.Channel) error    { return storage.ErrUnavailable }
func (Store) DeleteChannel(context.Context, string) error           { return storage.ErrUnavailable }
func (Store) IsAdmin(context.Context, int64) (bool, error)          { return false, storage.ErrUnavailable }
func (Store) AddAdmin(context.Context, *domain.Admin) (bool, error) { return false, storage.ErrUnavailable }
func (Store) RemoveAdmin(context.Context, int64) (bool, error)      { return false, storage.ErrUnavailable }
func (Store) ListAdmins(context.Context) ([]domain.Admin, error)    { return nil, storage.ErrUnavailable }
func (Store) GetStatistics(context.Context) (*domain.Statistics, error) {
	return nil, storage.ErrUnavailable
}

// Health 始终报告不可用
func (Store) Health(context.Context) error { return storage.ErrUnavailable }

// Close 无资源需要释放
func (Store) Close() error { return nil }
