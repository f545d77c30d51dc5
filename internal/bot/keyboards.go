package bot

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/mailtm"
)

// maxInboxButtons 收件箱列表最多显示的邮件按钮数
const maxInboxButtons = 10

func button(lang domain.Language, key i18n.Key, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(i18n.T(lang, key), data)
}

func markup(rows ...[]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &m
}

func languageKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🇸🇦 العربية", callbackData(cbLanguage, string(domain.LangArabic))),
		tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", callbackData(cbLanguage, string(domain.LangEnglish))),
	))
}

func mainMenuKeyboard(lang domain.Language, isAdmin bool) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnCreate, cbCreate)),
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnMyEmails, cbMyEmails),
			button(lang, i18n.BtnInbox, cbPickInbox),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnStats, cbStats),
			button(lang, i18n.BtnDeleteAll, cbDeleteAll),
		),
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnLanguage, cbPickLanguage)),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnAdminPanel, cbAdmin)))
	}
	return markup(rows...)
}

func backToMenu(lang domain.Language) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnMainMenu, cbMenu))
}

func menuOnlyKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(backToMenu(lang))
}

func retryKeyboard(lang domain.Language, retry string) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnRetry, retry)),
		backToMenu(lang),
	)
}

// mailboxListKeyboard 每个邮箱一个按钮，action 决定点击后的去向
func mailboxListKeyboard(lang domain.Language, mailboxes []domain.Mailbox, action string) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(mailboxes)+1)
	for _, mb := range mailboxes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📧 "+mb.Address, callbackData(action, mb.ID)),
		))
	}
	rows = append(rows, backToMenu(lang))
	return markup(rows...)
}

func mailboxKeyboard(lang domain.Language, mailboxID string) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnInbox, callbackData(cbInbox, mailboxID)),
			button(lang, i18n.BtnDelete, callbackData(cbDelete, mailboxID)),
		),
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnBack, cbMyEmails)),
		backToMenu(lang),
	)
}

func inboxKeyboard(lang domain.Language, mailboxID string, messages []mailtm.MessageSummary) *tgbotapi.InlineKeyboardMarkup {
	n := min(len(messages), maxInboxButtons)
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, n+2)
	for i := 0; i < n; i++ {
		label := messages[i].Subject
		if label == "" {
			label = i18n.T(lang, i18n.NoSubject)
		}
		label = fmt.Sprintf("✉️ %s", ellipsis(label, 40))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(cbMessage, mailboxID, strconv.Itoa(i))),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnRefresh, callbackData(cbInbox, mailboxID)),
			button(lang, i18n.BtnBack, callbackData(cbView, mailboxID)),
		),
		backToMenu(lang),
	)
	return markup(rows...)
}

func messageKeyboard(lang domain.Language, mailboxID string) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnBack, callbackData(cbInbox, mailboxID))),
		backToMenu(lang),
	)
}

func confirmKeyboard(lang domain.Language, confirm, cancel string) *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(
		button(lang, i18n.BtnConfirm, confirm),
		button(lang, i18n.BtnCancel, cancel),
	))
}

func subscriptionKeyboard(lang domain.Language, ch *domain.Channel) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(i18n.T(lang, i18n.BtnJoinChannel), ch.JoinURL())),
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnVerify, cbVerify)),
	)
}

func cancelKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnCancel, cbCancel)))
}

func adminKeyboard(lang domain.Language, super bool) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnAdminStats, cbAdminStats),
			button(lang, i18n.BtnChannel, cbAdminChannel),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnBan, cbAdminBan),
			button(lang, i18n.BtnUnban, cbAdminUnban),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnBroadcast, cbAdminBroadcast),
			button(lang, i18n.BtnWelcome, cbAdminWelcome),
		),
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnToggleBot, cbAdminToggleBot),
			button(lang, i18n.BtnOfflineMessage, cbAdminOfflineText),
		),
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnToggleForwarding, cbAdminToggleFwd)),
	}
	if super {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnAdmins, cbAdminAdmins)))
	}
	rows = append(rows, backToMenu(lang))
	return markup(rows...)
}

func channelKeyboard(lang domain.Language, hasChannel bool) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnSetChannel, cbAdminSetChannel)),
	}
	if hasChannel {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				button(lang, i18n.BtnSetChannelMessage, cbAdminChannelText),
				button(lang, i18n.BtnToggleSub, cbAdminToggleSub),
			),
			tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnDeleteChannel, cbAdminDelChannel)),
		)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnBack, cbAdmin)))
	return markup(rows...)
}

func welcomeKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnDelete, cbAdminWelcomeDel)),
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnCancel, cbCancel)),
	)
}

func adminsKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(
			button(lang, i18n.BtnAddAdmin, cbAdminAddAdmin),
			button(lang, i18n.BtnRemoveAdmin, cbAdminRemoveAdmin),
		),
		tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnBack, cbAdmin)),
	)
}

func adminBackKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(button(lang, i18n.BtnBack, cbAdmin)))
}

func ellipsis(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
