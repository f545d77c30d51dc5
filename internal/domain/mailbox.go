package domain

import (
	"time"
)

// Mailbox 表示用户持有的一次性邮箱。
//
// 地址和令牌由 mail.tm 分配；令牌失效后邮箱不可恢复，只能重新创建。
type Mailbox struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   int64     `json:"ownerId" gorm:"index;not null"`
	Address   string    `json:"address" gorm:"type:varchar(255);uniqueIndex"`
	AccountID string    `json:"accountId" gorm:"type:varchar(64)"`
	Token     string    `json:"-" gorm:"type:text"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName 指定表名
func (Mailbox) TableName() string { return "mailboxes" }

// Watermark 记录邮箱最近一次推送的邮件，用于区分新旧邮件
type Watermark struct {
	Address          string    `json:"address" gorm:"primaryKey;type:varchar(255)"`
	MessageID        string    `json:"messageId" gorm:"type:varchar(64)"`
	MessageCreatedAt time.Time `json:"messageCreatedAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Watermark) TableName() string { return "mailbox_watermarks" }
