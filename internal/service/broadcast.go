package service

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tempmail/bot/internal/config"
)

// TextSender 发送纯文本消息
type TextSender interface {
	SendPlain(ctx context.Context, chatID int64, text string) error
}

// UserLister 列出全部用户
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// BroadcastRecorder 记录群发结果
type BroadcastRecorder interface {
	RecordBroadcast(sent bool)
}

// BroadcastResult 群发结果
type BroadcastResult struct {
	Total  int
	Sent   int
	Failed int
}

// Broadcaster 按 Telegram 限速向全部用户发送消息
type Broadcaster struct {
	users    UserLister
	sender   TextSender
	limiter  *rate.Limiter
	recorder BroadcastRecorder
	log      *zap.Logger
	running  atomic.Bool
}

// NewBroadcaster 创建群发器
func NewBroadcaster(cfg config.BroadcastConfig, users UserLister, sender TextSender, recorder BroadcastRecorder, log *zap.Logger) *Broadcaster {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 25
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		users:    users,
		sender:   sender,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		recorder: recorder,
		log:      log,
	}
}

// Recipients 返回群发目标数量
func (b *Broadcaster) Recipients(ctx context.Context) ([]int64, error) {
	return b.users.ListUserIDs(ctx)
}

// Running 是否有群发正在进行
func (b *Broadcaster) Running() bool { return b.running.Load() }

// Send 向 recipients 逐个发送，单个失败不影响其余用户；ctx 取消时提前结束。
// 同一时刻只允许一次群发，重叠调用全部计为失败
func (b *Broadcaster) Send(ctx context.Context, recipients []int64, text string) BroadcastResult {
	res := BroadcastResult{Total: len(recipients)}
	if !b.running.CompareAndSwap(false, true) {
		b.log.Warn("broadcast already running, skipped", zap.Int("total", res.Total))
		res.Failed = res.Total
		return res
	}
	defer b.running.Store(false)

	for _, id := range recipients {
		if err := b.limiter.Wait(ctx); err != nil {
			res.Failed += res.Total - res.Sent - res.Failed
			break
		}
		err := b.sender.SendPlain(ctx, id, text)
		if err != nil {
			res.Failed++
			b.log.Debug("broadcast delivery failed", zap.Int64("user_id", id), zap.Error(err))
		} else {
			res.Sent++
		}
		if b.recorder != nil {
			b.recorder.RecordBroadcast(err == nil)
		}
	}
	b.log.Info("broadcast finished",
		zap.Int("total", res.Total),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return res
}
