package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/inbox"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/storage/memory"
)

func TestNotifier_UsesOwnerLanguage(t *testing.T) {
	api := &fakeAPI{}
	store := memory.NewStore()
	ctx := context.Background()
	u, err := store.GetOrCreateUser(ctx, 77)
	require.NoError(t, err)
	u.Language = domain.LangEnglish
	require.NoError(t, store.SaveUser(ctx, u))

	n := NewNotifier(NewTelegram(api), store, 0, nil)
	mb := &domain.Mailbox{ID: "abc", OwnerID: 77, Address: "x@mail.test"}
	msg := inbox.NewMessage{
		Message: &mailtm.Message{
			MessageSummary: mailtm.MessageSummary{ID: "m", Subject: "Code", CreatedAt: time.Now()},
			Text:           "123456",
		},
		OTP: "123456",
	}
	require.NoError(t, n.Notify(ctx, mb, msg))

	require.Len(t, api.sent, 1)
	sent := api.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(77), sent.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, sent.ParseMode)
	assert.Contains(t, sent.Text, i18n.F(domain.LangEnglish, i18n.NewMail, "x@mail.test"))
	assert.Contains(t, sent.Text, "<code>123456</code>")

	kb := sent.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Equal(t, callbackData(cbInbox, "abc"), *kb.InlineKeyboard[0][0].CallbackData)
}

func TestNotifier_UnknownOwnerUsesDefaultLanguage(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(NewTelegram(api), memory.NewStore(), 0, nil)
	mb := &domain.Mailbox{ID: "abc", OwnerID: 5, Address: "y@mail.test"}
	msg := inbox.NewMessage{Message: &mailtm.Message{MessageSummary: mailtm.MessageSummary{ID: "m"}}}

	require.NoError(t, n.Notify(context.Background(), mb, msg))
	sent := api.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, sent.Text, i18n.F(domain.DefaultLanguage, i18n.NewMail, "y@mail.test"))
}
