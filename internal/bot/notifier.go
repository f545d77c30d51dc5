package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/inbox"
	"tempmail/bot/internal/storage"
)

// UserLookup 查询邮箱所有者的界面语言
type UserLookup interface {
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
}

// Notifier 把新邮件推送到所有者的私聊
type Notifier struct {
	tg      *Telegram
	users   UserLookup
	maxBody int
	log     *zap.Logger
}

// NewNotifier 创建推送器
func NewNotifier(tg *Telegram, users UserLookup, maxBody int, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{tg: tg, users: users, maxBody: maxBody, log: log}
}

var _ inbox.Notifier = (*Notifier)(nil)

// Notify 按所有者的语言渲染并发送新邮件
func (n *Notifier) Notify(ctx context.Context, mailbox *domain.Mailbox, msg inbox.NewMessage) error {
	lang := domain.DefaultLanguage
	user, err := n.users.GetUser(ctx, mailbox.OwnerID)
	switch {
	case err == nil:
		lang = user.Language.OrDefault()
	case !errors.Is(err, storage.ErrNotFound):
		n.log.Debug("owner language unavailable", zap.Int64("user_id", mailbox.OwnerID), zap.Error(err))
	}

	text := inbox.RenderNotification(lang, mailbox.Address, msg, n.maxBody)
	kb := markup(
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnInbox, callbackData(cbInbox, mailbox.ID))),
	)
	return n.tg.SendHTML(mailbox.OwnerID, text, kb)
}
