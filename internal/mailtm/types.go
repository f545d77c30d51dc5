package mailtm

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"tempmail/bot/internal/security"
)

// Domain 可用于注册邮箱的域名
type Domain struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	IsActive  bool   `json:"isActive"`
	IsPrivate bool   `json:"isPrivate"`
}

// Account mail.tm 账户
type Account struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// Address 邮件地址和显示名
type Address struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// String 返回 "Name <address>" 形式，没有名字时只返回地址
func (a Address) String() string {
	if a.Name == "" || a.Name == a.Address {
		return a.Address
	}
	return a.Name + " <" + a.Address + ">"
}

// MessageSummary 邮件列表中的摘要
type MessageSummary struct {
	ID        string    `json:"id"`
	From      Address   `json:"from"`
	To        []Address `json:"to"`
	Subject   string    `json:"subject"`
	Intro     string    `json:"intro"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message 完整邮件
type Message struct {
	MessageSummary
	Text string    `json:"text"`
	HTML HTMLParts `json:"html"`
}

// Body 返回纯文本正文；只有 HTML 正文时提取其中的文本，都没有时回退到摘要
func (m *Message) Body() string {
	if strings.TrimSpace(m.Text) != "" {
		return m.Text
	}
	if text := security.PlainText(strings.Join(m.HTML, "\n")); text != "" {
		return text
	}
	return m.Intro
}

// HTMLParts mail.tm 以字符串数组返回 HTML 正文，部分实现返回单个字符串
type HTMLParts []string

// UnmarshalJSON 同时接受字符串和字符串数组
func (h *HTMLParts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = HTMLParts{s}
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*h = parts
	return nil
}
