// Package bot 把 Telegram 更新分发到业务服务，并渲染本地化的回复。
package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempmail/bot/internal/gate"
	"tempmail/bot/internal/service"
)

// API 机器人使用的 Bot API 子集，由 *tgbotapi.BotAPI 实现
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
}

var ignorableErrors = []string{
	"message is not modified",
	"query is too old",
	"query id is invalid",
}

// IsIgnorable 判断是否为无需处理的 Telegram 错误
func IsIgnorable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	for _, s := range ignorableErrors {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Telegram 在 Bot API 之上提供成员查询、频道解析和发送能力
type Telegram struct {
	api API
}

// NewTelegram 创建适配器
func NewTelegram(api API) *Telegram {
	return &Telegram{api: api}
}

var _ gate.MembershipChecker = (*Telegram)(nil)
var _ service.ChatResolver = (*Telegram)(nil)
var _ service.TextSender = (*Telegram)(nil)

// CheckMembership 调用 getChatMember，任何错误都转换为失败结果
func (t *Telegram) CheckMembership(ctx context.Context, chat gate.ChatRef, userID int64) gate.Membership {
	if err := ctx.Err(); err != nil {
		return gate.LookupFailed(err)
	}
	member, err := t.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             chat.ID,
			SuperGroupUsername: usernameFor(chat),
			UserID:             userID,
		},
	})
	if err != nil {
		return gate.LookupFailed(err)
	}
	return gate.Member(member.Status, member.IsMember)
}

// ResolveChat 调用 getChat 获取频道 ID、标题和用户名
func (t *Telegram) ResolveChat(ctx context.Context, ref gate.ChatRef) (*service.ChatInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chat, err := t.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{
			ChatID:             ref.ID,
			SuperGroupUsername: usernameFor(ref),
		},
	})
	if err != nil {
		return nil, err
	}
	return &service.ChatInfo{ID: chat.ID, Title: chat.Title, Username: chat.UserName}, nil
}

// SendPlain 发送不带格式的文本，用于群发管理员输入的内容
func (t *Telegram) SendPlain(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendHTML 发送 HTML 格式的消息
func (t *Telegram) SendHTML(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := t.api.Send(msg)
	return err
}

// EditHTML 编辑已有消息；内容未变化的错误会被忽略
func (t *Telegram) EditHTML(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if markup != nil {
		edit.ReplyMarkup = markup
	}
	_, err := t.api.Request(edit)
	if IsIgnorable(err) {
		return nil
	}
	return err
}

// Answer 应答回调查询，text 为空时只停止按钮的加载状态
func (t *Telegram) Answer(callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert
	_, err := t.api.Request(cfg)
	if IsIgnorable(err) {
		return nil
	}
	return err
}

func usernameFor(ref gate.ChatRef) string {
	if ref.ID != 0 {
		return ""
	}
	return ref.Username
}
