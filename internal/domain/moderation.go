package domain

import (
	"fmt"
	"time"
)

// Channel 强制订阅的频道配置。
//
// 同一时间只有最近更新的一条记录生效；ChatID 优先于 Username，
// 因为频道用户名可以被转让给其他频道。
type Channel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	ChatID    *int64    `json:"chatId,omitempty"`
	Title     string    `json:"title" gorm:"type:varchar(500)"`
	Prompt    string    `json:"prompt" gorm:"type:text"`
	Enabled   bool      `json:"enabled" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Channel) TableName() string { return "channels" }

// Handle 返回 @username 形式的频道标识
func (c *Channel) Handle() string {
	return "@" + c.Username
}

// JoinURL 返回频道的公开链接
func (c *Channel) JoinURL() string {
	return fmt.Sprintf("https://t.me/%s", c.Username)
}

// Ban 封禁记录，存在即表示用户被禁止使用机器人
type Ban struct {
	TelegramID int64     `json:"telegramId" gorm:"primaryKey;autoIncrement:false"`
	Reason     string    `json:"reason" gorm:"type:text"`
	BannedBy   int64     `json:"bannedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName 指定表名
func (Ban) TableName() string { return "banned_users" }

// Admin 由超级管理员添加的管理员
type Admin struct {
	TelegramID int64     `json:"telegramId" gorm:"primaryKey;autoIncrement:false"`
	Username   string    `json:"username" gorm:"type:varchar(255)"`
	FirstName  string    `json:"firstName" gorm:"type:varchar(255)"`
	AddedBy    int64     `json:"addedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }

// Setting 键值形式的机器人设置
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey;type:varchar(100)"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Setting) TableName() string { return "bot_settings" }

// 设置键
const (
	SettingWelcomeMessage = "welcome_message"
	SettingBotEnabled     = "bot_enabled"
	SettingOfflineMessage = "offline_message"
	SettingForwarding     = "forwarding_enabled"
)
