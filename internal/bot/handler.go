package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tempmail/bot/internal/cache"
	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/gate"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/service"
	"tempmail/bot/internal/storage"
)

// Recorder 记录更新处理指标
type Recorder interface {
	RecordUpdate(kind string)
	RecordPanic()
}

// Deps 处理器依赖
type Deps struct {
	Telegram    *Telegram
	Users       *service.UserService
	Mailboxes   *service.MailboxService
	Admin       *service.AdminService
	State       *service.RuntimeState
	Gate        *gate.Gate
	Broadcaster *service.Broadcaster
	Recorder    Recorder
	Log         *zap.Logger
	// MaxBody 邮件正文最大字符数
	MaxBody int
	// MaxMailboxes 每个用户的邮箱上限，仅用于提示文案
	MaxMailboxes int
}

// listingKey 收件箱列表缓存键
type listingKey struct {
	userID    int64
	mailboxID string
}

// Handler 处理单个 Telegram 更新
type Handler struct {
	tg          *Telegram
	users       *service.UserService
	mailboxes   *service.MailboxService
	admin       *service.AdminService
	state       *service.RuntimeState
	gate        *gate.Gate
	broadcaster *service.Broadcaster
	recorder    Recorder
	log         *zap.Logger
	maxBody     int
	maxBoxes    int

	pending  *PendingInputs
	listings *cache.LocalCache[listingKey, []string]

	background sync.WaitGroup
}

// NewHandler 创建更新处理器
func NewHandler(deps Deps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		tg:          deps.Telegram,
		users:       deps.Users,
		mailboxes:   deps.Mailboxes,
		admin:       deps.Admin,
		state:       deps.State,
		gate:        deps.Gate,
		broadcaster: deps.Broadcaster,
		recorder:    deps.Recorder,
		log:         log,
		maxBody:     deps.MaxBody,
		maxBoxes:    deps.MaxMailboxes,
		pending:     NewPendingInputs(),
		listings:    cache.NewLocalCache[listingKey, []string](10 * time.Minute),
	}
}

// Close 等待后台任务结束并释放缓存
func (h *Handler) Close() {
	h.background.Wait()
	h.pending.Close()
	h.listings.Close()
}

// session 一次交互的上下文
type session struct {
	user       *domain.User
	userID     int64
	chatID     int64
	lang       domain.Language
	isAdmin    bool
	callbackID string
	// messageID 回调所在的消息，非零时优先编辑该消息
	messageID int
	answered  bool
}

// HandleUpdate 处理一个更新，不会向调用方抛出 panic
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("update handler panicked",
				zap.Int("update_id", upd.UpdateID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			if h.recorder != nil {
				h.recorder.RecordPanic()
			}
		}
	}()

	switch {
	case upd.Message != nil:
		h.record("message")
		h.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		h.record("callback")
		h.handleCallback(ctx, upd.CallbackQuery)
	default:
		h.record("ignored")
	}
}

func (h *Handler) record(kind string) {
	if h.recorder != nil {
		h.recorder.RecordUpdate(kind)
	}
}

func (h *Handler) begin(ctx context.Context, from *tgbotapi.User, chatID int64) *session {
	profile := domain.Profile{
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		Username:     from.UserName,
		LanguageCode: from.LanguageCode,
	}
	user, err := h.users.GetOrCreate(ctx, from.ID, profile)
	if err != nil {
		h.log.Warn("load user failed, continuing with transient profile", zap.Int64("user_id", from.ID), zap.Error(err))
		user = h.users.Transient(from.ID, profile)
	}
	return &session{
		user:    user,
		userID:  from.ID,
		chatID:  chatID,
		lang:    service.ResolveLanguage(user, from.LanguageCode),
		isAdmin: h.admin.IsAdmin(ctx, from.ID),
	}
}

// admit 执行访问闸门，拒绝时渲染提示并返回 false
func (h *Handler) admit(ctx context.Context, s *session) bool {
	v := h.gate.Evaluate(ctx, s.userID, s.isAdmin, s.lang)
	if v.Allowed {
		return true
	}
	h.renderDenied(s, v)
	return false
}

func (h *Handler) renderDenied(s *session, v gate.Verdict) {
	h.answer(s, "", false)
	var kb *tgbotapi.InlineKeyboardMarkup
	if v.Reason == gate.ReasonNotSubscribed && v.Channel != nil {
		kb = subscriptionKeyboard(s.lang, v.Channel)
	}
	h.send(s, v.Prompt, kb)
}

// ========== Messages ==========

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return
	}
	s := h.begin(ctx, msg.From, msg.Chat.ID)
	if !h.admit(ctx, s) {
		return
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, s, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
		return
	}

	text := strings.TrimSpace(msg.Text)
	if in, ok := h.pending.Take(s.userID, s.isAdmin); ok && text != "" {
		h.handlePendingInput(ctx, s, in, text)
		return
	}

	if text != "" && !s.isAdmin && h.state.ForwardingEnabled() && h.admin.SuperAdminID() != 0 {
		h.forwardToAdmin(ctx, s, text)
		return
	}
	h.reply(s, i18n.T(s.lang, i18n.UseMenu), mainMenuKeyboard(s.lang, s.isAdmin))
}

func (h *Handler) handleCommand(ctx context.Context, s *session, command, args string) {
	switch command {
	case "start":
		h.pending.Cancel(s.userID)
		if !s.user.Language.Valid() {
			h.reply(s, i18n.T(s.lang, i18n.ChooseLanguage), languageKeyboard())
			return
		}
		h.showMainMenu(ctx, s, true)
	case "help":
		h.reply(s, i18n.T(s.lang, i18n.Help), menuOnlyKeyboard(s.lang))
	case "cancel":
		if h.pending.Cancel(s.userID) {
			h.reply(s, i18n.T(s.lang, i18n.Cancelled), mainMenuKeyboard(s.lang, s.isAdmin))
			return
		}
		h.reply(s, i18n.T(s.lang, i18n.NothingToCancel), nil)
	case "admin":
		if !s.isAdmin {
			h.reply(s, i18n.T(s.lang, i18n.Unauthorized), nil)
			return
		}
		h.showAdminPanel(s)
	case "purge":
		h.handlePurge(ctx, s, args)
	default:
		h.reply(s, i18n.T(s.lang, i18n.UseMenu), mainMenuKeyboard(s.lang, s.isAdmin))
	}
}

func (h *Handler) forwardToAdmin(ctx context.Context, s *session, text string) {
	name := s.user.DisplayName()
	if s.user.Username != "" {
		name = fmt.Sprintf("%s (@%s)", name, s.user.Username)
	}
	body := i18n.F(h.adminLang(ctx), i18n.ForwardedFromUser, escape(name), s.userID, escape(text))
	if err := h.tg.SendHTML(h.admin.SuperAdminID(), body, nil); err != nil {
		h.log.Warn("forward to admin failed", zap.Int64("user_id", s.userID), zap.Error(err))
		h.reply(s, i18n.T(s.lang, i18n.ErrGeneric), nil)
		return
	}
	h.reply(s, i18n.T(s.lang, i18n.MessageForwarded), nil)
}

// adminLang 超级管理员的界面语言，未知时使用默认语言
func (h *Handler) adminLang(ctx context.Context) domain.Language {
	u, err := h.users.Find(ctx, strconv.FormatInt(h.admin.SuperAdminID(), 10))
	if err != nil {
		return domain.DefaultLanguage
	}
	return u.Language.OrDefault()
}

// ========== Callbacks ==========

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.From == nil {
		return
	}
	chatID := q.From.ID
	messageID := 0
	if q.Message != nil && q.Message.Chat != nil {
		chatID = q.Message.Chat.ID
		messageID = q.Message.MessageID
	}
	s := h.begin(ctx, q.From, chatID)
	s.callbackID = q.ID
	s.messageID = messageID
	defer h.answer(s, "", false)

	cb := ParseCallback(q.Data)
	if cb.Action == cbVerify {
		h.handleVerify(ctx, s)
		return
	}
	if !h.admit(ctx, s) {
		return
	}
	if cb.IsAdmin() {
		if !s.isAdmin {
			h.answer(s, i18n.T(s.lang, i18n.Unauthorized), false)
			return
		}
		h.handleAdminCallback(ctx, s, cb)
		return
	}
	h.handleUserCallback(ctx, s, cb)
}

// handleVerify 用户声称已加入频道，丢弃缓存后重新判定
func (h *Handler) handleVerify(ctx context.Context, s *session) {
	h.gate.Forget(s.userID)
	v := h.gate.Evaluate(ctx, s.userID, s.isAdmin, s.lang)
	switch {
	case v.Allowed:
		h.answer(s, i18n.T(s.lang, i18n.SubscriptionOK), false)
		h.showMainMenu(ctx, s, false)
	case v.Reason == gate.ReasonNotSubscribed:
		h.answer(s, i18n.T(s.lang, i18n.SubscriptionMissing), true)
	default:
		h.renderDenied(s, v)
	}
}

// ========== Rendering ==========

// reply 回调中编辑原消息，编辑失败或普通消息时发送新消息
func (h *Handler) reply(s *session, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if s.messageID != 0 {
		err := h.tg.EditHTML(s.chatID, s.messageID, text, kb)
		if err == nil {
			return
		}
		h.log.Debug("edit message failed, sending new one", zap.Int64("user_id", s.userID), zap.Error(err))
	}
	h.send(s, text, kb)
}

func (h *Handler) send(s *session, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if err := h.tg.SendHTML(s.chatID, text, kb); err != nil && !IsIgnorable(err) {
		h.log.Warn("send message failed", zap.Int64("user_id", s.userID), zap.Error(err))
	}
}

// answer 每个回调只应答一次
func (h *Handler) answer(s *session, text string, alert bool) {
	if s.callbackID == "" || s.answered {
		return
	}
	s.answered = true
	if err := h.tg.Answer(s.callbackID, text, alert); err != nil {
		h.log.Debug("answer callback failed", zap.Int64("user_id", s.userID), zap.Error(err))
	}
}

// renderError 渲染带重试按钮的错误视图，存储不可用时使用单独的提示
func (h *Handler) renderError(s *session, err error, key i18n.Key, retry string) {
	h.log.Warn("request failed", zap.Int64("user_id", s.userID), zap.String("view", string(key)), zap.Error(err))
	var kb *tgbotapi.InlineKeyboardMarkup
	if retry != "" {
		kb = retryKeyboard(s.lang, retry)
	} else {
		kb = menuOnlyKeyboard(s.lang)
	}
	if isStoreUnavailable(err) {
		h.reply(s, i18n.T(s.lang, i18n.ServiceUnavailable), kb)
		return
	}
	h.reply(s, i18n.T(s.lang, key), kb)
}

func isStoreUnavailable(err error) bool {
	return errors.Is(err, storage.ErrUnavailable)
}

func escape(s string) string { return html.EscapeString(s) }
