package domain

import "time"

// Language 用户界面语言
type Language string

const (
	LangUnset   Language = ""
	LangArabic  Language = "ar"
	LangEnglish Language = "en"
)

// DefaultLanguage 未选择语言时使用的界面语言
const DefaultLanguage = LangArabic

// Valid 判断是否为支持的语言
func (l Language) Valid() bool {
	return l == LangArabic || l == LangEnglish
}

// OrDefault 未设置时返回默认语言
func (l Language) OrDefault() Language {
	if l.Valid() {
		return l
	}
	return DefaultLanguage
}

// User 表示机器人用户，首次交互时创建
type User struct {
	TelegramID int64     `json:"telegramId" gorm:"primaryKey;autoIncrement:false"`
	Language   Language  `json:"language" gorm:"type:varchar(10)"`
	FirstName  string    `json:"firstName" gorm:"type:varchar(255)"`
	LastName   string    `json:"lastName" gorm:"type:varchar(255)"`
	Username   string    `json:"username" gorm:"type:varchar(255);index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (User) TableName() string { return "bot_users" }

// Profile 是 Telegram 侧的用户资料快照
type Profile struct {
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// ApplyProfile 刷新资料快照，返回是否有变化
func (u *User) ApplyProfile(p Profile) bool {
	if u.FirstName == p.FirstName && u.LastName == p.LastName && u.Username == p.Username {
		return false
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Username = p.Username
	return true
}

// DisplayName 返回用于展示的姓名
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}
