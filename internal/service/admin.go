package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/gate"
	"tempmail/bot/internal/storage"
)

var (
	// ErrUnauthorized 非超级管理员执行了仅限超级管理员的操作
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrCannotModifySuper 不能修改超级管理员
	ErrCannotModifySuper = errors.New("cannot modify super admin")
	// ErrCannotBanAdmin 不能封禁管理员
	ErrCannotBanAdmin = errors.New("cannot ban an admin")
	// ErrInvalidChannel 频道标识无法识别
	ErrInvalidChannel = errors.New("invalid channel reference")
	// ErrNoChannel 尚未配置频道
	ErrNoChannel = errors.New("no channel configured")
)

var channelUsername = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{3,31}$`)

// ChatInfo getChat 返回的频道信息
type ChatInfo struct {
	ID       int64
	Title    string
	Username string
}

// ChatResolver 通过 Telegram 解析频道
type ChatResolver interface {
	ResolveChat(ctx context.Context, ref gate.ChatRef) (*ChatInfo, error)
}

// AdminService 管理服务
type AdminService struct {
	store     storage.Store
	mailboxes *MailboxService
	state     *RuntimeState
	resolver  ChatResolver
	superID   int64
	log       *zap.Logger
	now       func() time.Time

	// onChannelChange 频道配置变化后调用，用于清空订阅校验缓存
	onChannelChange func()
}

// NewAdminService 创建管理服务
func NewAdminService(store storage.Store, mailboxes *MailboxService, state *RuntimeState, resolver ChatResolver, superID int64, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{
		store:     store,
		mailboxes: mailboxes,
		state:     state,
		resolver:  resolver,
		superID:   superID,
		log:       log,
		now:       time.Now,
	}
}

// OnChannelChange 注册频道变化回调
func (s *AdminService) OnChannelChange(fn func()) {
	s.onChannelChange = fn
}

// SuperAdminID 返回配置的超级管理员
func (s *AdminService) SuperAdminID() int64 { return s.superID }

// IsSuperAdmin 是否为超级管理员
func (s *AdminService) IsSuperAdmin(id int64) bool {
	return s.superID != 0 && id == s.superID
}

// IsAdmin 超级管理员或已添加的管理员；存储出错时按非管理员处理
func (s *AdminService) IsAdmin(ctx context.Context, id int64) bool {
	if s.IsSuperAdmin(id) {
		return true
	}
	ok, err := s.store.IsAdmin(ctx, id)
	if err != nil {
		s.log.Warn("admin lookup failed", zap.Int64("user_id", id), zap.Error(err))
		return false
	}
	return ok
}

// ========== Admins ==========

// AddAdmin 添加管理员，返回 false 表示已经是管理员
func (s *AdminService) AddAdmin(ctx context.Context, actor int64, target *domain.User) (bool, error) {
	if !s.IsSuperAdmin(actor) {
		return false, ErrUnauthorized
	}
	if s.IsSuperAdmin(target.TelegramID) {
		return false, nil
	}
	return s.store.AddAdmin(ctx, &domain.Admin{
		TelegramID: target.TelegramID,
		Username:   target.Username,
		FirstName:  target.FirstName,
		AddedBy:    actor,
		CreatedAt:  s.now().UTC(),
	})
}

// RemoveAdmin 移除管理员
func (s *AdminService) RemoveAdmin(ctx context.Context, actor, target int64) (bool, error) {
	if !s.IsSuperAdmin(actor) {
		return false, ErrUnauthorized
	}
	if s.IsSuperAdmin(target) {
		return false, ErrCannotModifySuper
	}
	return s.store.RemoveAdmin(ctx, target)
}

// ListAdmins 列出已添加的管理员
func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.store.ListAdmins(ctx)
}

// ========== Bans ==========

// Ban 封禁用户
func (s *AdminService) Ban(ctx context.Context, actor, target int64, reason string) error {
	if s.IsAdmin(ctx, target) {
		return ErrCannotBanAdmin
	}
	err := s.store.SaveBan(ctx, &domain.Ban{
		TelegramID: target,
		Reason:     strings.TrimSpace(reason),
		BannedBy:   actor,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return err
	}
	s.log.Info("user banned", zap.Int64("user_id", target), zap.Int64("actor", actor))
	return nil
}

// Unban 解除封禁，返回 false 表示用户未被封禁
func (s *AdminService) Unban(ctx context.Context, target int64) (bool, error) {
	return s.store.DeleteBan(ctx, target)
}

// ========== Channel ==========

// Channel 返回当前频道配置
func (s *AdminService) Channel(ctx context.Context) (*domain.Channel, error) {
	ch, err := s.store.GetChannel(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoChannel
	}
	return ch, err
}

// ParseChannelRef 解析 @name、t.me 链接或数字 ID
func ParseChannelRef(input string) (gate.ChatRef, error) {
	input = strings.TrimSpace(input)
	for _, prefix := range []string{"https://", "http://"} {
		input = strings.TrimPrefix(input, prefix)
	}
	for _, prefix := range []string{"www.t.me/", "t.me/", "telegram.me/"} {
		input = strings.TrimPrefix(input, prefix)
	}
	input = strings.TrimPrefix(input, "@")
	input = strings.TrimRight(input, "/")

	if id, err := strconv.ParseInt(input, 10, 64); err == nil && id != 0 {
		return gate.ChatRef{ID: id}, nil
	}
	if !channelUsername.MatchString(input) {
		return gate.ChatRef{}, ErrInvalidChannel
	}
	return gate.ChatRef{Username: "@" + input}, nil
}

// SetChannel 设置强制订阅频道。
//
// 通过 getChat 补全数字 ID 和标题；解析失败时仍按用户名保存，resolved 为 false。
// 新频道沿用上一条配置的提示语，默认启用。
func (s *AdminService) SetChannel(ctx context.Context, input string) (ch *domain.Channel, resolved bool, err error) {
	ref, err := ParseChannelRef(input)
	if err != nil {
		return nil, false, err
	}

	info, rerr := s.resolver.ResolveChat(ctx, ref)
	switch {
	case rerr == nil:
		resolved = true
	case ref.Username == "":
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidChannel, rerr)
	default:
		s.log.Warn("resolve channel failed, saving by username", zap.String("channel", ref.Username), zap.Error(rerr))
		info = &ChatInfo{Username: strings.TrimPrefix(ref.Username, "@")}
	}
	if info.Username == "" {
		// 私有频道没有公开用户名，无法生成加入链接
		return nil, false, ErrInvalidChannel
	}

	ch = &domain.Channel{
		Username: strings.TrimPrefix(info.Username, "@"),
		Title:    info.Title,
		Enabled:  true,
	}
	if resolved && info.ID != 0 {
		id := info.ID
		ch.ChatID = &id
	}
	if prev, err := s.store.GetChannel(ctx); err == nil {
		ch.Prompt = prev.Prompt
	}

	if err := s.store.SaveChannel(ctx, ch); err != nil {
		return nil, false, err
	}
	s.channelChanged()
	return ch, resolved, nil
}

// SetChannelPrompt 设置订阅提示语
func (s *AdminService) SetChannelPrompt(ctx context.Context, prompt string) error {
	ch, err := s.Channel(ctx)
	if err != nil {
		return err
	}
	ch.Prompt = strings.TrimSpace(prompt)
	return s.store.SaveChannel(ctx, ch)
}

// ToggleSubscription 切换强制订阅，返回切换后的状态
func (s *AdminService) ToggleSubscription(ctx context.Context) (bool, error) {
	ch, err := s.Channel(ctx)
	if err != nil {
		return false, err
	}
	ch.Enabled = !ch.Enabled
	if err := s.store.SaveChannel(ctx, ch); err != nil {
		return false, err
	}
	s.channelChanged()
	return ch.Enabled, nil
}

// DeleteChannel 删除当前频道配置
func (s *AdminService) DeleteChannel(ctx context.Context) error {
	ch, err := s.Channel(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeleteChannel(ctx, ch.Username); err != nil {
		return err
	}
	s.channelChanged()
	return nil
}

func (s *AdminService) channelChanged() {
	if s.onChannelChange != nil {
		s.onChannelChange()
	}
}

// ========== Settings ==========

// Welcome 返回自定义欢迎语，未设置时为空
func (s *AdminService) Welcome(ctx context.Context) string {
	v, err := s.store.GetSetting(ctx, domain.SettingWelcomeMessage)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Debug("welcome message unavailable", zap.Error(err))
		}
		return ""
	}
	return v
}

// SetWelcome 设置欢迎语，空字符串表示清除
func (s *AdminService) SetWelcome(ctx context.Context, text string) error {
	return s.store.SetSetting(ctx, domain.SettingWelcomeMessage, strings.TrimSpace(text))
}

// ToggleBot 切换机器人开关，返回切换后的状态
func (s *AdminService) ToggleBot(ctx context.Context) (bool, error) {
	enabled := !s.state.BotEnabled()
	return enabled, s.state.SetBotEnabled(ctx, enabled)
}

// ToggleForwarding 切换消息转发，返回切换后的状态
func (s *AdminService) ToggleForwarding(ctx context.Context) (bool, error) {
	enabled := !s.state.ForwardingEnabled()
	return enabled, s.state.SetForwarding(ctx, enabled)
}

// SetOfflineMessage 设置停机文案
func (s *AdminService) SetOfflineMessage(ctx context.Context, text string) error {
	return s.state.SetOfflineMessage(ctx, strings.TrimSpace(text))
}

// Statistics 返回统计数据
func (s *AdminService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return s.store.GetStatistics(ctx)
}

// Purge 删除用户的全部邮箱和用户记录，返回删除的邮箱数
func (s *AdminService) Purge(ctx context.Context, actor, target int64) (int, error) {
	if !s.IsAdmin(ctx, actor) {
		return 0, ErrUnauthorized
	}
	if s.IsSuperAdmin(target) {
		return 0, ErrCannotModifySuper
	}
	n, err := s.mailboxes.DeleteAll(ctx, target)
	if err != nil {
		return 0, err
	}
	if err := s.store.DeleteUser(ctx, target); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return n, err
	}
	s.log.Info("user purged", zap.Int64("user_id", target), zap.Int64("actor", actor), zap.Int("mailboxes", n))
	return n, nil
}
