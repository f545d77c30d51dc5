package storage

import (
	"context"
	"errors"

	"tempmail/bot/internal/domain"
)

var (
	// ErrNotFound 记录不存在，属于正常的空状态而非故障
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable 存储不可用（未配置数据库或连接失败）
	ErrUnavailable = errors.New("storage unavailable")
)

// UserRepository 定义机器人用户的存取操作。
type UserRepository interface {
	// GetOrCreateUser 返回用户记录，不存在时创建一条空记录
	GetOrCreateUser(ctx context.Context, telegramID int64) (*domain.User, error)
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	SaveUser(ctx context.Context, user *domain.User) error
	ListUserIDs(ctx context.Context) ([]int64, error)
	// DeleteUser 彻底删除用户及其邮箱和水位线
	DeleteUser(ctx context.Context, telegramID int64) error
}

// MailboxRepository 定义邮箱的存取操作。
type MailboxRepository interface {
	SaveMailbox(ctx context.Context, mailbox *domain.Mailbox) error
	GetMailbox(ctx context.Context, id string) (*domain.Mailbox, error)
	// ListMailboxesByOwner 按创建时间升序返回用户的邮箱
	ListMailboxesByOwner(ctx context.Context, ownerID int64) ([]domain.Mailbox, error)
	ListMailboxes(ctx context.Context) ([]domain.Mailbox, error)
	// DeleteMailbox 删除邮箱及其水位线
	DeleteMailbox(ctx context.Context, id string) error
	DeleteMailboxesByOwner(ctx context.Context, ownerID int64) (int, error)
}

// WatermarkRepository 定义邮件水位线的存取操作。
type WatermarkRepository interface {
	// GetWatermark 不存在时返回 ErrNotFound
	GetWatermark(ctx context.Context, address string) (*domain.Watermark, error)
	SetWatermark(ctx context.Context, watermark *domain.Watermark) error
	DeleteWatermark(ctx context.Context, address string) error
}

// SettingRepository 定义键值设置的存取操作。
type SettingRepository interface {
	// GetSetting 不存在时返回 ErrNotFound
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// BanRepository 定义封禁记录的存取操作。
type BanRepository interface {
	// GetBan 未封禁时返回 ErrNotFound
	GetBan(ctx context.Context, telegramID int64) (*domain.Ban, error)
	SaveBan(ctx context.Context, ban *domain.Ban) error
	// DeleteBan 返回是否真的删除了记录
	DeleteBan(ctx context.Context, telegramID int64) (bool, error)
}

// ChannelRepository 定义强制订阅频道的存取操作。
type ChannelRepository interface {
	// GetChannel 返回最近更新的频道配置（不论是否启用），没有时返回 ErrNotFound
	GetChannel(ctx context.Context) (*domain.Channel, error)
	// SaveChannel 按用户名 upsert
	SaveChannel(ctx context.Context, channel *domain.Channel) error
	DeleteChannel(ctx context.Context, username string) error
}

// AdminRepository 定义管理员的存取操作。
type AdminRepository interface {
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
	// AddAdmin 已存在时返回 false
	AddAdmin(ctx context.Context, admin *domain.Admin) (bool, error)
	RemoveAdmin(ctx context.Context, telegramID int64) (bool, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
}

// StatsRepository 定义统计查询。
type StatsRepository interface {
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}

// Store 聚合所有存储接口
type Store interface {
	UserRepository
	MailboxRepository
	WatermarkRepository
	SettingRepository
	BanRepository
	ChannelRepository
	AdminRepository
	StatsRepository

	Health(ctx context.Context) error
	Close() error
}
