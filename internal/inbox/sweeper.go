package inbox

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tempmail/bot/internal/domain"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/pool"
)

// MailboxSource 提供需要轮询的邮箱
type MailboxSource interface {
	ListMailboxes(ctx context.Context) ([]domain.Mailbox, error)
}

// Poller 轮询单个邮箱
type Poller interface {
	Poll(ctx context.Context, address, token string) ([]NewMessage, error)
}

// Notifier 把新邮件推送给邮箱所有者
type Notifier interface {
	Notify(ctx context.Context, mailbox *domain.Mailbox, msg NewMessage) error
}

// Opener 解密存储的令牌
type Opener interface {
	Open(value string) (string, error)
}

// Recorder 记录轮询指标
type Recorder interface {
	RecordPoll(outcome string)
	RecordSweep(mailboxes int, duration time.Duration)
	RecordNotification(delivered, hasOTP bool)
	RecordPanic()
}

// SweeperConfig 巡检配置
type SweeperConfig struct {
	Interval time.Duration
	Workers  int
	// PollTimeout 单个邮箱一次轮询的超时
	PollTimeout time.Duration
}

// Sweeper 按固定间隔轮询所有邮箱，上一轮未结束时不会开始下一轮
type Sweeper struct {
	cfg      SweeperConfig
	source   MailboxSource
	poller   Poller
	notifier Notifier
	opener   Opener
	recorder Recorder
	log      *zap.Logger

	running atomic.Bool
}

// NewSweeper 创建巡检器
func NewSweeper(cfg SweeperConfig, source MailboxSource, poller Poller, notifier Notifier, opener Opener, recorder Recorder, log *zap.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		cfg:      cfg,
		source:   source,
		poller:   poller,
		notifier: notifier,
		opener:   opener,
		recorder: recorder,
		log:      log,
	}
}

// Run 阻塞运行直到 ctx 取消
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("sweeper already running")
	}
	defer s.running.Store(false)

	workers := pool.NewWorkerPool(s.cfg.Workers, s.cfg.Workers*2, pool.WithPanicHandler(func(r any) {
		s.log.Error("mailbox poll panicked", zap.Any("panic", r))
		if s.recorder != nil {
			s.recorder.RecordPanic()
		}
	}))
	workers.Start(ctx)
	defer workers.Stop()

	s.log.Info("inbox sweeper started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("workers", s.cfg.Workers),
	)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("inbox sweeper stopped")
			return nil
		case <-ticker.C:
			s.sweep(ctx, workers)
		}
	}
}

// SweepOnce 同步执行一轮巡检，返回处理的邮箱数
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	workers := pool.NewWorkerPool(s.cfg.Workers, s.cfg.Workers*2)
	workers.Start(ctx)
	defer workers.Stop()
	return s.sweep(ctx, workers)
}

func (s *Sweeper) sweep(ctx context.Context, workers *pool.WorkerPool) int {
	start := time.Now()
	mailboxes, err := s.source.ListMailboxes(ctx)
	if err != nil {
		s.log.Warn("list mailboxes failed, skipping sweep", zap.Error(err))
		s.record("error")
		return 0
	}

	var wg sync.WaitGroup
	for i := range mailboxes {
		mb := &mailboxes[i]
		wg.Add(1)
		err := workers.Submit(ctx, func(ctx context.Context) {
			defer wg.Done()
			s.pollMailbox(ctx, mb)
		})
		if err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()

	if s.recorder != nil {
		s.recorder.RecordSweep(len(mailboxes), time.Since(start))
	}
	return len(mailboxes)
}

func (s *Sweeper) pollMailbox(ctx context.Context, mb *domain.Mailbox) {
	if ctx.Err() != nil {
		return
	}
	log := s.log.With(zap.String("mailbox", mb.Address), zap.Int64("user_id", mb.OwnerID))

	token, err := s.opener.Open(mb.Token)
	if err != nil {
		log.Warn("decrypt mailbox token failed", zap.Error(err))
		s.record("error")
		return
	}

	pollCtx, cancel := context.WithTimeout(ctx, s.cfg.PollTimeout)
	defer cancel()

	msgs, err := s.poller.Poll(pollCtx, mb.Address, token)
	switch {
	case errors.Is(err, mailtm.ErrUnauthorized):
		log.Debug("mailbox token rejected", zap.Error(err))
		s.record("unauthorized")
		return
	case err != nil:
		log.Warn("poll mailbox failed", zap.Error(err))
		s.record("error")
		return
	case len(msgs) == 0:
		s.record("empty")
		return
	}
	s.record("new")

	for _, msg := range msgs {
		err := s.notifier.Notify(ctx, mb, msg)
		if err != nil {
			log.Warn("deliver notification failed",
				zap.String("message_id", msg.Message.ID),
				zap.Error(err),
			)
		}
		if s.recorder != nil {
			s.recorder.RecordNotification(err == nil, msg.HasOTP())
		}
	}
}

func (s *Sweeper) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordPoll(outcome)
	}
}
