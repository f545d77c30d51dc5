package bot

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/inbox"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/service"
)

func (h *Handler) handleUserCallback(ctx context.Context, s *session, cb Callback) {
	switch cb.Action {
	case cbLanguage:
		h.handleLanguage(ctx, s, domain.Language(cb.Arg(0)))
	case cbPickLanguage:
		h.reply(s, i18n.T(s.lang, i18n.ChooseLanguage), languageKeyboard())
	case cbMenu:
		h.showMainMenu(ctx, s, false)
	case cbCreate:
		h.handleCreate(ctx, s)
	case cbMyEmails:
		h.showMailboxList(ctx, s, cbView, i18n.MyEmails)
	case cbPickInbox:
		h.showMailboxList(ctx, s, cbInbox, i18n.SelectEmail)
	case cbView:
		h.showMailbox(ctx, s, cb.Arg(0))
	case cbInbox:
		h.showInbox(ctx, s, cb.Arg(0))
	case cbMessage:
		idx, ok := cb.IntArg(1)
		if !ok {
			h.showInbox(ctx, s, cb.Arg(0))
			return
		}
		h.showMessage(ctx, s, cb.Arg(0), idx)
	case cbDelete:
		h.confirmDelete(ctx, s, cb.Arg(0))
	case cbDeleteOK:
		h.deleteMailbox(ctx, s, cb.Arg(0))
	case cbDeleteAll:
		h.confirmDeleteAll(ctx, s)
	case cbDeleteAllOK:
		h.deleteAll(ctx, s)
	case cbStats:
		h.showUserStats(ctx, s)
	case cbCancel:
		h.pending.Cancel(s.userID)
		h.reply(s, i18n.T(s.lang, i18n.Cancelled), mainMenuKeyboard(s.lang, s.isAdmin))
	default:
		h.log.Debug("unknown callback", zap.String("action", cb.Action), zap.Int64("user_id", s.userID))
		h.showMainMenu(ctx, s, false)
	}
}

func (h *Handler) handleLanguage(ctx context.Context, s *session, lang domain.Language) {
	if !lang.Valid() {
		h.reply(s, i18n.T(s.lang, i18n.ChooseLanguage), languageKeyboard())
		return
	}
	user, err := h.users.SetLanguage(ctx, s.userID, lang)
	if err != nil {
		h.log.Warn("save language failed", zap.Int64("user_id", s.userID), zap.Error(err))
	} else {
		s.user = user
	}
	s.lang = lang
	h.answer(s, i18n.T(lang, i18n.LanguageChanged), false)
	h.showMainMenu(ctx, s, true)
}

// showMainMenu greet 为 true 时在菜单前附上自定义欢迎语
func (h *Handler) showMainMenu(ctx context.Context, s *session, greet bool) {
	count := 0
	if list, err := h.mailboxes.List(ctx, s.userID); err == nil {
		count = len(list)
	}
	text := i18n.F(s.lang, i18n.MainMenu, count)
	if greet {
		if welcome := h.admin.Welcome(ctx); welcome != "" {
			text = escape(welcome) + "\n\n" + text
		}
	}
	h.reply(s, text, mainMenuKeyboard(s.lang, s.isAdmin))
}

func (h *Handler) handleCreate(ctx context.Context, s *session) {
	mb, err := h.mailboxes.Create(ctx, s.userID)
	switch {
	case errors.Is(err, service.ErrMailboxLimit):
		h.reply(s, i18n.F(s.lang, i18n.MailboxLimit, h.maxBoxes), mainMenuKeyboard(s.lang, s.isAdmin))
		return
	case err != nil:
		h.renderError(s, err, i18n.ErrCreateEmail, cbCreate)
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.EmailCreated, escape(mb.Address)), mailboxKeyboard(s.lang, mb.ID))
}

func (h *Handler) showMailboxList(ctx context.Context, s *session, action string, title i18n.Key) {
	list, err := h.mailboxes.List(ctx, s.userID)
	if err != nil {
		h.renderError(s, err, i18n.ErrGeneric, "")
		return
	}
	if len(list) == 0 {
		h.reply(s, i18n.T(s.lang, i18n.NoEmails), markup(
			tgbotapi.NewInlineKeyboardRow(button(s.lang, i18n.BtnCreate, cbCreate)),
			backToMenu(s.lang),
		))
		return
	}
	h.reply(s, i18n.F(s.lang, title, len(list)), mailboxListKeyboard(s.lang, list, action))
}

func (h *Handler) showMailbox(ctx context.Context, s *session, id string) {
	mb, err := h.mailboxes.Get(ctx, s.userID, id)
	if err != nil {
		h.renderMailboxError(s, err)
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.ViewEmail, escape(mb.Address), escape(mb.Password)), mailboxKeyboard(s.lang, mb.ID))
}

func (h *Handler) showInbox(ctx context.Context, s *session, id string) {
	mb, list, err := h.mailboxes.Inbox(ctx, s.userID, id)
	switch {
	case errors.Is(err, mailtm.ErrUnauthorized):
		h.reply(s, i18n.F(s.lang, i18n.ErrMailboxExpired, escape(mb.Address)), mailboxKeyboard(s.lang, id))
		return
	case errors.Is(err, service.ErrMailboxNotFound):
		h.renderMailboxError(s, err)
		return
	case err != nil:
		h.renderError(s, err, i18n.ErrLoadMessages, callbackData(cbInbox, id))
		return
	}

	ids := make([]string, 0, min(len(list), maxInboxButtons))
	for i := 0; i < len(list) && i < maxInboxButtons; i++ {
		ids = append(ids, list[i].ID)
	}
	h.listings.Set(listingKey{userID: s.userID, mailboxID: id}, ids)

	if len(list) == 0 {
		h.reply(s, i18n.F(s.lang, i18n.NoMessages, escape(mb.Address)), inboxKeyboard(s.lang, id, nil))
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.MessagesList, len(list), escape(mb.Address)), inboxKeyboard(s.lang, id, list))
}

// messageID 把列表序号换成邮件 ID，缓存失效时重新拉取列表
func (h *Handler) messageID(ctx context.Context, s *session, mailboxID string, idx int) (string, error) {
	ids, ok := h.listings.Get(listingKey{userID: s.userID, mailboxID: mailboxID})
	if !ok {
		_, list, err := h.mailboxes.Inbox(ctx, s.userID, mailboxID)
		if err != nil {
			return "", err
		}
		ids = make([]string, 0, len(list))
		for _, m := range list {
			ids = append(ids, m.ID)
		}
	}
	if idx >= len(ids) {
		return "", nil
	}
	return ids[idx], nil
}

func (h *Handler) showMessage(ctx context.Context, s *session, mailboxID string, idx int) {
	retry := callbackData(cbMessage, mailboxID, strconv.Itoa(idx))
	msgID, err := h.messageID(ctx, s, mailboxID, idx)
	switch {
	case errors.Is(err, service.ErrMailboxNotFound):
		h.renderMailboxError(s, err)
		return
	case err != nil:
		h.renderError(s, err, i18n.ErrLoadMessage, retry)
		return
	case msgID == "":
		h.showInbox(ctx, s, mailboxID)
		return
	}

	opened, err := h.mailboxes.Message(ctx, s.userID, mailboxID, msgID)
	switch {
	case errors.Is(err, service.ErrMailboxNotFound):
		h.renderMailboxError(s, err)
		return
	case errors.Is(err, mailtm.ErrUnauthorized):
		h.reply(s, i18n.F(s.lang, i18n.ErrMailboxExpired, escape(opened.Mailbox.Address)), mailboxKeyboard(s.lang, mailboxID))
		return
	case err != nil:
		h.renderError(s, err, i18n.ErrLoadMessage, retry)
		return
	}
	text := inbox.RenderMessage(s.lang, opened.Message, opened.OTP, h.maxBody)
	h.reply(s, text, messageKeyboard(s.lang, mailboxID))
}

func (h *Handler) confirmDelete(ctx context.Context, s *session, id string) {
	mb, err := h.mailboxes.Get(ctx, s.userID, id)
	if err != nil {
		h.renderMailboxError(s, err)
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.ConfirmDelete, escape(mb.Address)),
		confirmKeyboard(s.lang, callbackData(cbDeleteOK, id), callbackData(cbView, id)))
}

func (h *Handler) deleteMailbox(ctx context.Context, s *session, id string) {
	mb, err := h.mailboxes.Delete(ctx, s.userID, id)
	if err != nil {
		h.renderMailboxError(s, err)
		return
	}
	h.listings.Delete(listingKey{userID: s.userID, mailboxID: id})
	h.reply(s, i18n.F(s.lang, i18n.EmailDeleted, escape(mb.Address)), mainMenuKeyboard(s.lang, s.isAdmin))
}

func (h *Handler) confirmDeleteAll(ctx context.Context, s *session) {
	list, err := h.mailboxes.List(ctx, s.userID)
	if err != nil {
		h.renderError(s, err, i18n.ErrGeneric, "")
		return
	}
	if len(list) == 0 {
		h.reply(s, i18n.T(s.lang, i18n.NoEmails), mainMenuKeyboard(s.lang, s.isAdmin))
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.ConfirmDeleteAll, len(list)), confirmKeyboard(s.lang, cbDeleteAllOK, cbMenu))
}

func (h *Handler) deleteAll(ctx context.Context, s *session) {
	n, err := h.mailboxes.DeleteAll(ctx, s.userID)
	if err != nil {
		h.renderError(s, err, i18n.ErrGeneric, "")
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.AllEmailsDeleted, n), mainMenuKeyboard(s.lang, s.isAdmin))
}

func (h *Handler) showUserStats(ctx context.Context, s *session) {
	total := 0
	if stats, err := h.admin.Statistics(ctx); err == nil {
		total = stats.TotalUsers
	}
	mine := 0
	if list, err := h.mailboxes.List(ctx, s.userID); err == nil {
		mine = len(list)
	}
	h.reply(s, i18n.F(s.lang, i18n.UserStats, total, mine), menuOnlyKeyboard(s.lang))
}

func (h *Handler) renderMailboxError(s *session, err error) {
	if errors.Is(err, service.ErrMailboxNotFound) {
		h.reply(s, i18n.T(s.lang, i18n.ErrMailboxGone), mainMenuKeyboard(s.lang, s.isAdmin))
		return
	}
	h.renderError(s, err, i18n.ErrGeneric, "")
}
