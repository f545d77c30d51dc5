package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/service"
)

// clearWelcome 输入该值表示删除欢迎语
const clearWelcome = "-"

func (h *Handler) showAdminPanel(s *session) {
	text := i18n.F(s.lang, i18n.AdminPanel,
		i18n.OnOff(s.lang, h.state.BotEnabled()),
		i18n.OnOff(s.lang, h.state.ForwardingEnabled()),
	)
	h.reply(s, text, adminKeyboard(s.lang, h.admin.IsSuperAdmin(s.userID)))
}

func (h *Handler) handleAdminCallback(ctx context.Context, s *session, cb Callback) {
	switch cb.Action {
	case cbAdmin:
		h.pending.Cancel(s.userID)
		h.showAdminPanel(s)
	case cbAdminStats:
		h.showAdminStats(ctx, s)
	case cbAdminChannel:
		h.showChannelPanel(ctx, s)
	case cbAdminSetChannel:
		h.ask(s, PendingInput{Kind: PendingChannel}, i18n.AskChannel)
	case cbAdminChannelText:
		ch, err := h.admin.Channel(ctx)
		if err != nil {
			h.renderChannelError(ctx, s, err)
			return
		}
		h.ask(s, PendingInput{Kind: PendingChannelPrompt, Channel: ch.Username}, i18n.AskChannelMessage)
	case cbAdminToggleSub:
		enabled, err := h.admin.ToggleSubscription(ctx)
		if err != nil {
			h.renderChannelError(ctx, s, err)
			return
		}
		h.answer(s, i18n.F(s.lang, i18n.SubscriptionToggled, i18n.OnOff(s.lang, enabled)), false)
		h.showChannelPanel(ctx, s)
	case cbAdminDelChannel:
		if err := h.admin.DeleteChannel(ctx); err != nil {
			h.renderChannelError(ctx, s, err)
			return
		}
		h.answer(s, i18n.T(s.lang, i18n.ChannelDeleted), false)
		h.showChannelPanel(ctx, s)
	case cbAdminWelcome:
		h.pending.Expect(s.userID, PendingInput{Kind: PendingWelcome})
		text := i18n.T(s.lang, i18n.AskWelcome)
		if current := h.admin.Welcome(ctx); current != "" {
			text = escape(current) + "\n\n" + text
		}
		h.reply(s, text, welcomeKeyboard(s.lang))
	case cbAdminWelcomeDel:
		h.pending.Cancel(s.userID)
		h.saveWelcome(ctx, s, "")
	case cbAdminBan:
		h.ask(s, PendingInput{Kind: PendingBanTarget}, i18n.AskBanTarget)
	case cbAdminUnban:
		h.ask(s, PendingInput{Kind: PendingUnbanTarget}, i18n.AskUnbanTarget)
	case cbAdminBroadcast:
		h.ask(s, PendingInput{Kind: PendingBroadcast}, i18n.AskBroadcast)
	case cbAdminToggleBot:
		enabled, err := h.admin.ToggleBot(ctx)
		if err != nil {
			h.renderError(s, err, i18n.ErrGeneric, cbAdmin)
			return
		}
		h.log.Info("bot toggled", zap.Int64("actor", s.userID), zap.Bool("enabled", enabled))
		h.answer(s, i18n.F(s.lang, i18n.BotToggled, i18n.OnOff(s.lang, enabled)), false)
		h.showAdminPanel(s)
	case cbAdminOfflineText:
		h.ask(s, PendingInput{Kind: PendingOfflineMessage}, i18n.AskOfflineMessage)
	case cbAdminToggleFwd:
		enabled, err := h.admin.ToggleForwarding(ctx)
		if err != nil {
			h.renderError(s, err, i18n.ErrGeneric, cbAdmin)
			return
		}
		h.answer(s, i18n.F(s.lang, i18n.ForwardingToggled, i18n.OnOff(s.lang, enabled)), false)
		h.showAdminPanel(s)
	case cbAdminAdmins:
		h.showAdmins(ctx, s)
	case cbAdminAddAdmin:
		if !h.requireSuper(s) {
			return
		}
		h.ask(s, PendingInput{Kind: PendingAddAdmin}, i18n.AskAddAdmin)
	case cbAdminRemoveAdmin:
		if !h.requireSuper(s) {
			return
		}
		h.ask(s, PendingInput{Kind: PendingRemoveAdmin}, i18n.AskRemoveAdmin)
	default:
		h.showAdminPanel(s)
	}
}

func (h *Handler) ask(s *session, in PendingInput, prompt i18n.Key) {
	h.pending.Expect(s.userID, in)
	h.reply(s, i18n.T(s.lang, prompt), cancelKeyboard(s.lang))
}

func (h *Handler) requireSuper(s *session) bool {
	if h.admin.IsSuperAdmin(s.userID) {
		return true
	}
	h.answer(s, i18n.T(s.lang, i18n.Unauthorized), true)
	return false
}

func (h *Handler) showAdminStats(ctx context.Context, s *session) {
	st, err := h.admin.Statistics(ctx)
	if err != nil {
		h.renderError(s, err, i18n.ErrGeneric, cbAdminStats)
		return
	}
	text := i18n.F(s.lang, i18n.AdminStats, st.TotalUsers, st.ActiveUsers, st.TotalMailboxes, st.BannedUsers, st.Admins)
	h.reply(s, text, adminBackKeyboard(s.lang))
}

func (h *Handler) showChannelPanel(ctx context.Context, s *session) {
	ch, err := h.admin.Channel(ctx)
	switch {
	case errors.Is(err, service.ErrNoChannel):
		h.reply(s, i18n.T(s.lang, i18n.ChannelNone), channelKeyboard(s.lang, false))
		return
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, cbAdminChannel)
		return
	}
	title, prompt := ch.Title, ch.Prompt
	if title == "" {
		title = "-"
	}
	if prompt == "" {
		prompt = "-"
	}
	text := i18n.F(s.lang, i18n.ChannelPanel, escape(ch.Handle()), escape(title), i18n.OnOff(s.lang, ch.Enabled), escape(prompt))
	h.reply(s, text, channelKeyboard(s.lang, true))
}

func (h *Handler) renderChannelError(ctx context.Context, s *session, err error) {
	if errors.Is(err, service.ErrNoChannel) {
		h.showChannelPanel(ctx, s)
		return
	}
	h.renderError(s, err, i18n.ErrGeneric, cbAdminChannel)
}

func (h *Handler) showAdmins(ctx context.Context, s *session) {
	if !h.requireSuper(s) {
		return
	}
	admins, err := h.admin.ListAdmins(ctx)
	if err != nil {
		h.renderError(s, err, i18n.ErrGeneric, cbAdminAdmins)
		return
	}
	if len(admins) == 0 {
		h.reply(s, i18n.T(s.lang, i18n.AdminsEmpty), adminsKeyboard(s.lang))
		return
	}
	var b strings.Builder
	for _, a := range admins {
		fmt.Fprintf(&b, "• <code>%d</code>", a.TelegramID)
		if a.Username != "" {
			b.WriteString(" @" + escape(a.Username))
		} else if a.FirstName != "" {
			b.WriteString(" " + escape(a.FirstName))
		}
		b.WriteByte('\n')
	}
	h.reply(s, i18n.F(s.lang, i18n.AdminsList, b.String()), adminsKeyboard(s.lang))
}

// ========== Pending input ==========

func (h *Handler) handlePendingInput(ctx context.Context, s *session, in PendingInput, text string) {
	h.log.Debug("pending input received", zap.Int64("user_id", s.userID), zap.Stringer("kind", in.Kind))
	switch in.Kind {
	case PendingBanTarget:
		h.banUser(ctx, s, text)
	case PendingUnbanTarget:
		h.unbanUser(ctx, s, text)
	case PendingChannel:
		h.saveChannel(ctx, s, text)
	case PendingChannelPrompt:
		h.saveChannelPrompt(ctx, s, in, text)
	case PendingWelcome:
		if text == clearWelcome {
			text = ""
		}
		h.saveWelcome(ctx, s, text)
	case PendingBroadcast:
		h.startBroadcast(ctx, s, text)
	case PendingOfflineMessage:
		if err := h.admin.SetOfflineMessage(ctx, text); err != nil {
			h.renderError(s, err, i18n.ErrGeneric, cbAdminOfflineText)
			return
		}
		h.reply(s, i18n.T(s.lang, i18n.OfflineMessageSaved), adminBackKeyboard(s.lang))
	case PendingAddAdmin:
		h.addAdmin(ctx, s, text)
	case PendingRemoveAdmin:
		h.removeAdmin(ctx, s, text)
	default:
		h.reply(s, i18n.T(s.lang, i18n.UseMenu), mainMenuKeyboard(s.lang, s.isAdmin))
	}
}

// resolveTarget 按 ID 或 @username 找到目标用户；未注册但给出数字 ID 时仍返回该 ID
func (h *Handler) resolveTarget(ctx context.Context, ref string) (int64, *domain.User, error) {
	user, err := h.users.Find(ctx, strings.TrimPrefix(ref, "@"))
	if err == nil {
		return user.TelegramID, user, nil
	}
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil && id > 0 && errors.Is(err, service.ErrUserNotFound) {
		return id, nil, nil
	}
	return 0, nil, err
}

func (h *Handler) renderTargetError(s *session, err error, retry string) {
	if errors.Is(err, service.ErrUserNotFound) {
		h.reply(s, i18n.T(s.lang, i18n.UserNotFound), adminBackKeyboard(s.lang))
		return
	}
	h.renderError(s, err, i18n.ErrGeneric, retry)
}

func (h *Handler) banUser(ctx context.Context, s *session, text string) {
	ref, reason, _ := strings.Cut(text, " ")
	id, _, err := h.resolveTarget(ctx, ref)
	if err != nil {
		h.renderTargetError(s, err, cbAdminBan)
		return
	}
	err = h.admin.Ban(ctx, s.userID, id, reason)
	switch {
	case errors.Is(err, service.ErrCannotBanAdmin):
		h.reply(s, i18n.T(s.lang, i18n.CannotBanAdmin), adminBackKeyboard(s.lang))
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, cbAdminBan)
	default:
		h.reply(s, i18n.F(s.lang, i18n.UserBanned, id), adminBackKeyboard(s.lang))
	}
}

func (h *Handler) unbanUser(ctx context.Context, s *session, text string) {
	id, _, err := h.resolveTarget(ctx, text)
	if err != nil {
		h.renderTargetError(s, err, cbAdminUnban)
		return
	}
	removed, err := h.admin.Unban(ctx, id)
	switch {
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, cbAdminUnban)
	case !removed:
		h.reply(s, i18n.F(s.lang, i18n.UserNotBanned, id), adminBackKeyboard(s.lang))
	default:
		h.log.Info("user unbanned", zap.Int64("user_id", id), zap.Int64("actor", s.userID))
		h.reply(s, i18n.F(s.lang, i18n.UserUnbanned, id), adminBackKeyboard(s.lang))
	}
}

func (h *Handler) saveChannel(ctx context.Context, s *session, text string) {
	ch, resolved, err := h.admin.SetChannel(ctx, text)
	switch {
	case errors.Is(err, service.ErrInvalidChannel):
		h.pending.Expect(s.userID, PendingInput{Kind: PendingChannel})
		h.reply(s, i18n.T(s.lang, i18n.ChannelInvalid), cancelKeyboard(s.lang))
		return
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, cbAdminSetChannel)
		return
	}
	h.log.Info("channel configured", zap.String("channel", ch.Handle()), zap.Bool("resolved", resolved), zap.Int64("actor", s.userID))
	key := i18n.ChannelSaved
	if !resolved {
		key = i18n.ChannelUnresolved
	}
	h.reply(s, i18n.F(s.lang, key, escape(ch.Handle())), channelKeyboard(s.lang, true))
}

func (h *Handler) saveChannelPrompt(ctx context.Context, s *session, in PendingInput, text string) {
	ch, err := h.admin.Channel(ctx)
	if err != nil {
		h.renderChannelError(ctx, s, err)
		return
	}
	if ch.Username != in.Channel {
		h.reply(s, i18n.T(s.lang, i18n.InputExpired), channelKeyboard(s.lang, true))
		return
	}
	if err := h.admin.SetChannelPrompt(ctx, text); err != nil {
		h.renderChannelError(ctx, s, err)
		return
	}
	h.reply(s, i18n.T(s.lang, i18n.ChannelMessageSaved), channelKeyboard(s.lang, true))
}

func (h *Handler) saveWelcome(ctx context.Context, s *session, text string) {
	if err := h.admin.SetWelcome(ctx, text); err != nil {
		h.renderError(s, err, i18n.ErrGeneric, cbAdminWelcome)
		return
	}
	key := i18n.WelcomeSaved
	if strings.TrimSpace(text) == "" {
		key = i18n.WelcomeCleared
	}
	h.reply(s, i18n.T(s.lang, key), adminBackKeyboard(s.lang))
}

// startBroadcast 在后台发送广播，完成后向发起人汇报结果
func (h *Handler) startBroadcast(ctx context.Context, s *session, text string) {
	if h.broadcaster.Running() {
		h.reply(s, i18n.T(s.lang, i18n.BroadcastBusy), adminBackKeyboard(s.lang))
		return
	}
	recipients, err := h.broadcaster.Recipients(ctx)
	if err != nil {
		h.renderError(s, err, i18n.ErrGeneric, cbAdminBroadcast)
		return
	}
	h.reply(s, i18n.F(s.lang, i18n.BroadcastStarted, len(recipients)), nil)

	chatID, lang, actor := s.chatID, s.lang, s.userID
	bctx := context.WithoutCancel(ctx)
	h.background.Add(1)
	go func() {
		defer h.background.Done()
		res := h.broadcaster.Send(bctx, recipients, text)
		if err := h.tg.SendHTML(chatID, i18n.F(lang, i18n.BroadcastDone, res.Sent, res.Failed), adminBackKeyboard(lang)); err != nil {
			h.log.Warn("broadcast report failed", zap.Int64("actor", actor), zap.Error(err))
		}
	}()
}

func (h *Handler) addAdmin(ctx context.Context, s *session, text string) {
	id, user, err := h.resolveTarget(ctx, text)
	if err != nil {
		h.renderTargetError(s, err, cbAdminAddAdmin)
		return
	}
	if user == nil {
		user = &domain.User{TelegramID: id}
	}
	added, err := h.admin.AddAdmin(ctx, s.userID, user)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		h.reply(s, i18n.T(s.lang, i18n.Unauthorized), adminBackKeyboard(s.lang))
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, cbAdminAddAdmin)
	case !added:
		h.reply(s, i18n.F(s.lang, i18n.AdminExists, id), adminsKeyboard(s.lang))
	default:
		h.log.Info("admin added", zap.Int64("user_id", id), zap.Int64("actor", s.userID))
		h.reply(s, i18n.F(s.lang, i18n.AdminAdded, id), adminsKeyboard(s.lang))
	}
}

func (h *Handler) removeAdmin(ctx context.Context, s *session, text string) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		h.reply(s, i18n.T(s.lang, i18n.UserNotFound), adminsKeyboard(s.lang))
		return
	}
	removed, err := h.admin.RemoveAdmin(ctx, s.userID, id)
	switch {
	case errors.Is(err, service.ErrCannotModifySuper):
		h.reply(s, i18n.T(s.lang, i18n.CannotRemoveSuper), adminsKeyboard(s.lang))
	case errors.Is(err, service.ErrUnauthorized):
		h.reply(s, i18n.T(s.lang, i18n.Unauthorized), adminBackKeyboard(s.lang))
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, cbAdminRemoveAdmin)
	case !removed:
		h.reply(s, i18n.F(s.lang, i18n.AdminNotFound, id), adminsKeyboard(s.lang))
	default:
		h.log.Info("admin removed", zap.Int64("user_id", id), zap.Int64("actor", s.userID))
		h.reply(s, i18n.F(s.lang, i18n.AdminRemoved, id), adminsKeyboard(s.lang))
	}
}

// handlePurge /purge <user_id> 删除用户的全部数据
func (h *Handler) handlePurge(ctx context.Context, s *session, args string) {
	if !s.isAdmin {
		h.reply(s, i18n.T(s.lang, i18n.Unauthorized), nil)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		h.reply(s, i18n.T(s.lang, i18n.PurgeUsage), nil)
		return
	}
	n, err := h.admin.Purge(ctx, s.userID, id)
	switch {
	case errors.Is(err, service.ErrCannotModifySuper):
		h.reply(s, i18n.T(s.lang, i18n.CannotRemoveSuper), nil)
	case errors.Is(err, service.ErrUnauthorized):
		h.reply(s, i18n.T(s.lang, i18n.Unauthorized), nil)
	case err != nil:
		h.renderError(s, err, i18n.ErrGeneric, "")
	default:
		h.gate.Forget(id)
		h.reply(s, i18n.F(s.lang, i18n.PurgeDone, id, n), nil)
	}
}
