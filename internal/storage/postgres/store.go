package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tempmail/bot/internal/config"
	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

// Store 基于 GORM 的关系型存储，支持 PostgreSQL 和 MySQL
type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

// Open 根据配置选择方言并创建存储
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case config.DatabasePostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DatabaseMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: mysql, postgres)", cfg.Type)
	}
	return NewStoreWithDialector(dialector, cfg)
}

// NewStoreWithDialector 使用指定的GORM dialector创建存储实例
func NewStoreWithDialector(dialector gorm.Dialector, cfg config.DatabaseConfig) (*Store, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate 自动迁移数据库表结构
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.Mailbox{},
		&domain.Watermark{},
		&domain.Setting{},
		&domain.Ban{},
		&domain.Channel{},
		&domain.Admin{},
	)
}

// mapError 把 GORM 错误转换为存储层错误
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	default:
		return err
	}
}

// ========== Users ==========

// GetOrCreateUser 获取用户，不存在则创建
func (s *Store) GetOrCreateUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	user := domain.User{TelegramID: telegramID}
	err := s.db.WithContext(ctx).
		Where(domain.User{TelegramID: telegramID}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser 根据 Telegram ID 获取用户
func (s *Store) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = ?", normalizeUsername(username)).
		First(&user).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// SaveUser 保存用户
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// ListUserIDs 返回全部用户 ID
func (s *Store) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Order("telegram_id").
		Pluck("telegram_id", &ids).Error
	return ids, err
}

// DeleteUser 删除用户及其全部邮箱与水位线
func (s *Store) DeleteUser(ctx context.Context, telegramID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := deleteMailboxesByOwner(tx, telegramID); err != nil {
			return err
		}
		res := tx.Delete(&domain.User{}, "telegram_id = ?", telegramID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// ========== Mailboxes ==========

// SaveMailbox 保存邮箱信息
func (s *Store) SaveMailbox(ctx context.Context, mailbox *domain.Mailbox) error {
	return s.db.WithContext(ctx).Save(mailbox).Error
}

// GetMailbox 根据 ID 获取邮箱
func (s *Store) GetMailbox(ctx context.Context, id string) (*domain.Mailbox, error) {
	var mailbox domain.Mailbox
	if err := s.db.WithContext(ctx).First(&mailbox, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &mailbox, nil
}

// ListMailboxesByOwner 返回指定用户的全部邮箱
func (s *Store) ListMailboxesByOwner(ctx context.Context, ownerID int64) ([]domain.Mailbox, error) {
	var mailboxes []domain.Mailbox
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Find(&mailboxes).Error
	return mailboxes, err
}

// ListMailboxes 返回全部邮箱
func (s *Store) ListMailboxes(ctx context.Context) ([]domain.Mailbox, error) {
	var mailboxes []domain.Mailbox
	err := s.db.WithContext(ctx).Order("created_at, id").Find(&mailboxes).Error
	return mailboxes, err
}

// DeleteMailbox 删除邮箱及其水位线
func (s *Store) DeleteMailbox(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mailbox domain.Mailbox
		if err := tx.First(&mailbox, "id = ?", id).Error; err != nil {
			return mapError(err)
		}
		if err := tx.Delete(&domain.Watermark{}, "address = ?", mailbox.Address).Error; err != nil {
			return err
		}
		return tx.Delete(&mailbox).Error
	})
}

// DeleteMailboxesByOwner 删除用户的全部邮箱
func (s *Store) DeleteMailboxesByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteMailboxesByOwner(tx, ownerID)
		count = n
		return err
	})
	return count, err
}

func deleteMailboxesByOwner(tx *gorm.DB, ownerID int64) (int, error) {
	var addresses []string
	if err := tx.Model(&domain.Mailbox{}).Where("owner_id = ?", ownerID).Pluck("address", &addresses).Error; err != nil {
		return 0, err
	}
	if len(addresses) == 0 {
		return 0, nil
	}
	if err := tx.Delete(&domain.Watermark{}, "address IN ?", addresses).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&domain.Mailbox{}, "owner_id = ?", ownerID)
	return int(res.RowsAffected), res.Error
}

// ========== Watermarks ==========

// GetWatermark 获取水位线
func (s *Store) GetWatermark(ctx context.Context, address string) (*domain.Watermark, error) {
	var wm domain.Watermark
	if err := s.db.WithContext(ctx).First(&wm, "address = ?", address).Error; err != nil {
		return nil, mapError(err)
	}
	return &wm, nil
}

// SetWatermark 保存水位线
func (s *Store) SetWatermark(ctx context.Context, watermark *domain.Watermark) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"message_id", "message_created_at", "updated_at"}),
	}).Create(watermark).Error
}

// DeleteWatermark 删除水位线
func (s *Store) DeleteWatermark(ctx context.Context, address string) error {
	return s.db.WithContext(ctx).Delete(&domain.Watermark{}, "address = ?", address).Error
}

// ========== Settings ==========

// GetSetting 读取设置
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var setting domain.Setting
	// key 在 MySQL 中是保留字，使用结构体条件让方言负责引用
	if err := s.db.WithContext(ctx).Where(&domain.Setting{Key: key}).First(&setting).Error; err != nil {
		return "", mapError(err)
	}
	return setting.Value, nil
}

// SetSetting 写入设置
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	setting := domain.Setting{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// ========== Bans ==========

// GetBan 获取封禁记录
func (s *Store) GetBan(ctx context.Context, telegramID int64) (*domain.Ban, error) {
	var ban domain.Ban
	if err := s.db.WithContext(ctx).First(&ban, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, mapError(err)
	}
	return &ban, nil
}

// SaveBan 保存封禁记录
func (s *Store) SaveBan(ctx context.Context, ban *domain.Ban) error {
	return s.db.WithContext(ctx).Save(ban).Error
}

// DeleteBan 解除封禁
func (s *Store) DeleteBan(ctx context.Context, telegramID int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.Ban{}, "telegram_id = ?", telegramID)
	return res.RowsAffected > 0, res.Error
}

// ========== Channels ==========

// GetChannel 返回最近更新的频道配置
func (s *Store) GetChannel(ctx context.Context) (*domain.Channel, error) {
	var channel domain.Channel
	err := s.db.WithContext(ctx).Order("updated_at DESC, id DESC").First(&channel).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &channel, nil
}

// SaveChannel 按用户名新增或更新频道
func (s *Store) SaveChannel(ctx context.Context, channel *domain.Channel) error {
	channel.Username = strings.TrimPrefix(strings.TrimSpace(channel.Username), "@")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Channel
		err := tx.Where("LOWER(username) = ?", normalizeUsername(channel.Username)).First(&existing).Error
		switch {
		case err == nil:
			channel.ID = existing.ID
			channel.CreatedAt = existing.CreatedAt
			return tx.Select("*").Save(channel).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(channel).Error
		default:
			return err
		}
	})
}

// DeleteChannel 删除频道
func (s *Store) DeleteChannel(ctx context.Context, username string) error {
	res := s.db.WithContext(ctx).Delete(&domain.Channel{}, "LOWER(username) = ?", normalizeUsername(username))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ========== Admins ==========

// IsAdmin 判断是否为管理员
func (s *Store) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Admin{}).Where("telegram_id = ?", telegramID).Count(&count).Error
	return count > 0, err
}

// AddAdmin 添加管理员
func (s *Store) AddAdmin(ctx context.Context, admin *domain.Admin) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(admin)
	return res.RowsAffected > 0, res.Error
}

// RemoveAdmin 移除管理员
func (s *Store) RemoveAdmin(ctx context.Context, telegramID int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&domain.Admin{}, "telegram_id = ?", telegramID)
	return res.RowsAffected > 0, res.Error
}

// ListAdmins 返回全部管理员
func (s *Store) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	var admins []domain.Admin
	err := s.db.WithContext(ctx).Order("telegram_id").Find(&admins).Error
	return admins, err
}

// ========== Statistics ==========

// GetStatistics 返回统计信息
func (s *Store) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	db := s.db.WithContext(ctx)
	var users, active, mailboxes, banned, admins int64

	if err := db.Model(&domain.User{}).Count(&users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Mailbox{}).Distinct("owner_id").Count(&active).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Mailbox{}).Count(&mailboxes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Ban{}).Count(&banned).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Admin{}).Count(&admins).Error; err != nil {
		return nil, err
	}

	return &domain.Statistics{
		TotalUsers:     int(users),
		ActiveUsers:    int(active),
		TotalMailboxes: int(mailboxes),
		BannedUsers:    int(banned),
		Admins:         int(admins),
	}, nil
}

// Health 检查数据库连接
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
