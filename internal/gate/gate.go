// Package gate 在每次用户交互前判定是否放行：封禁、全局停机、强制订阅。
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tempmail/bot/internal/cache"
	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/storage"
)

var errUnknownLookup = errors.New("membership lookup failed")

// Reason 拒绝原因
type Reason string

const (
	ReasonNone          Reason = "allowed"
	ReasonBanned        Reason = "banned"
	ReasonOffline       Reason = "offline"
	ReasonNotSubscribed Reason = "not_subscribed"
	ReasonUnavailable   Reason = "unavailable"
)

// Verdict 判定结果
type Verdict struct {
	Allowed bool
	Reason  Reason
	// Prompt 拒绝时展示给用户的本地化文案
	Prompt string
	// Channel 仅在 ReasonNotSubscribed 时设置，用于渲染加入按钮
	Channel *domain.Channel
}

// ChatRef 查询成员身份时使用的频道标识，ID 非零时优先
type ChatRef struct {
	ID       int64
	Username string
}

// RefFor 返回频道的查询标识：数字 ID 优先于可被转让的用户名
func RefFor(ch *domain.Channel) ChatRef {
	if ch.ChatID != nil && *ch.ChatID != 0 {
		return ChatRef{ID: *ch.ChatID}
	}
	return ChatRef{Username: ch.Handle()}
}

func (r ChatRef) String() string {
	if r.ID != 0 {
		return fmt.Sprintf("%d", r.ID)
	}
	return r.Username
}

// MembershipChecker 查询用户在频道中的身份
type MembershipChecker interface {
	CheckMembership(ctx context.Context, chat ChatRef, userID int64) Membership
}

// Store 闸门需要的持久化能力
type Store interface {
	GetBan(ctx context.Context, telegramID int64) (*domain.Ban, error)
	GetChannel(ctx context.Context) (*domain.Channel, error)
}

// State 全局运行状态
type State interface {
	BotEnabled() bool
	OfflineMessage() string
}

// Prompter 渲染拒绝文案
type Prompter interface {
	BanNotice(lang domain.Language, ban *domain.Ban) string
	OfflineNotice(lang domain.Language, custom string) string
	SubscriptionPrompt(lang domain.Language, ch *domain.Channel) string
	UnavailableNotice(lang domain.Language) string
}

// Recorder 记录判定指标
type Recorder interface {
	RecordGateDecision(reason string)
	RecordMembershipLookup(result string)
}

// Config 闸门配置
type Config struct {
	// CacheTTL 成员查询结果的缓存时间
	CacheTTL time.Duration
	// Now 时间来源，测试使用
	Now func() time.Time
}

// Gate 访问闸门
type Gate struct {
	store    Store
	state    State
	checker  MembershipChecker
	prompts  Prompter
	recorder Recorder
	log      *zap.Logger

	verified *cache.LocalCache[int64, bool]
}

// New 创建访问闸门
func New(cfg Config, store Store, state State, checker MembershipChecker, prompts Prompter, recorder Recorder, log *zap.Logger) *Gate {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts := []cache.Option{}
	if cfg.Now != nil {
		opts = append(opts, cache.WithClock(cfg.Now))
	}
	return &Gate{
		store:    store,
		state:    state,
		checker:  checker,
		prompts:  prompts,
		recorder: recorder,
		log:      log,
		verified: cache.NewLocalCache[int64, bool](cfg.CacheTTL, opts...),
	}
}

// Evaluate 依次检查封禁、停机和订阅，第一个失败的检查决定结果。
// 任何存储或查询错误都导致拒绝；本方法不会返回错误。
func (g *Gate) Evaluate(ctx context.Context, userID int64, isAdmin bool, lang domain.Language) Verdict {
	v := g.evaluate(ctx, userID, isAdmin, lang)
	if g.recorder != nil {
		g.recorder.RecordGateDecision(string(v.Reason))
	}
	return v
}

func (g *Gate) evaluate(ctx context.Context, userID int64, isAdmin bool, lang domain.Language) Verdict {
	if isAdmin {
		return allowed()
	}

	ban, err := g.store.GetBan(ctx, userID)
	switch {
	case err == nil:
		return Verdict{Reason: ReasonBanned, Prompt: g.prompts.BanNotice(lang, ban)}
	case !errors.Is(err, storage.ErrNotFound):
		g.log.Warn("ban lookup failed, denying", zap.Int64("user_id", userID), zap.Error(err))
		return g.unavailable(lang)
	}

	if !g.state.BotEnabled() {
		return Verdict{Reason: ReasonOffline, Prompt: g.prompts.OfflineNotice(lang, g.state.OfflineMessage())}
	}

	ch, err := g.store.GetChannel(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return allowed()
	case err != nil:
		g.log.Warn("channel lookup failed, denying", zap.Int64("user_id", userID), zap.Error(err))
		return g.unavailable(lang)
	case !ch.Enabled:
		return allowed()
	}

	subscribed, hit := g.verified.Get(userID)
	if hit {
		g.record("cached")
	} else {
		m := g.lookup(ctx, ch, userID)
		subscribed = m.Subscribed()
		g.verified.Set(userID, subscribed)
	}

	if subscribed {
		return allowed()
	}
	return Verdict{
		Reason:  ReasonNotSubscribed,
		Prompt:  g.prompts.SubscriptionPrompt(lang, ch),
		Channel: ch,
	}
}

// lookup 查询成员身份，panic 也按查询失败处理
func (g *Gate) lookup(ctx context.Context, ch *domain.Channel, userID int64) (m Membership) {
	ref := RefFor(ch)
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("membership lookup panicked", zap.Int64("user_id", userID), zap.Any("panic", r))
			m = LookupFailed(fmt.Errorf("panic: %v", r))
		}
		switch {
		case m.Err() != nil:
			g.record("error")
			g.log.Warn("membership lookup failed, denying",
				zap.Int64("user_id", userID),
				zap.Stringer("chat", ref),
				zap.Error(m.Err()),
			)
		case m.Subscribed():
			g.record("member")
		default:
			g.record("not_member")
		}
	}()
	return g.checker.CheckMembership(ctx, ref, userID)
}

// Forget 丢弃用户的缓存结果，下一次判定会重新查询
func (g *Gate) Forget(userID int64) {
	g.verified.Delete(userID)
}

// Reset 清空全部缓存，频道配置变化时调用
func (g *Gate) Reset() {
	g.verified.Clear()
}

// Close 停止缓存清理协程
func (g *Gate) Close() {
	g.verified.Close()
}

func (g *Gate) unavailable(lang domain.Language) Verdict {
	return Verdict{Reason: ReasonUnavailable, Prompt: g.prompts.UnavailableNotice(lang)}
}

func (g *Gate) record(result string) {
	if g.recorder != nil {
		g.recorder.RecordMembershipLookup(result)
	}
}

func allowed() Verdict {
	return Verdict{Allowed: true, Reason: ReasonNone}
}
