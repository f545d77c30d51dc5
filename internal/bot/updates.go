package bot

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ErrDispatcherStopped 分发器已停止
var ErrDispatcherStopped = errors.New("update dispatcher stopped")

// UpdateHandler 处理单个更新
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd tgbotapi.Update)
}

// UpdateSource 长轮询更新源，由 *tgbotapi.BotAPI 实现
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// shardQueueSize 每个分片的缓冲更新数
const shardQueueSize = 64

// Dispatcher 按用户分片并行处理更新。
//
// 同一用户的更新总是落在同一分片，按到达顺序串行处理；不同用户之间互不阻塞。
type Dispatcher struct {
	handler UpdateHandler
	shards  []chan tgbotapi.Update
	log     *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher 创建分发器，workers 为分片数量
func NewDispatcher(handler UpdateHandler, workers int, log *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	shards := make([]chan tgbotapi.Update, workers)
	for i := range shards {
		shards[i] = make(chan tgbotapi.Update, shardQueueSize)
	}
	return &Dispatcher{handler: handler, shards: shards, log: log}
}

// Start 启动分片协程，ctx 传递给每个更新的处理
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.shards {
		d.wg.Add(1)
		go func(shard int, ch <-chan tgbotapi.Update) {
			defer d.wg.Done()
			for upd := range ch {
				d.handler.HandleUpdate(ctx, upd)
			}
			d.log.Debug("update shard stopped", zap.Int("shard", shard))
		}(i, ch)
	}
	d.log.Info("update dispatcher started", zap.Int("shards", len(d.shards)))
}

// Enqueue 把更新放入对应分片，队列已满时阻塞直到 ctx 结束
func (d *Dispatcher) Enqueue(ctx context.Context, upd tgbotapi.Update) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}
	select {
	case d.shards[d.shardFor(upd)] <- upd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop 关闭队列并等待已入队的更新处理完毕
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.shards {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
	d.log.Info("update dispatcher stopped")
}

func (d *Dispatcher) shardFor(upd tgbotapi.Update) int {
	id := updateUserID(upd)
	if id < 0 {
		id = -id
	}
	return int(id % int64(len(d.shards)))
}

// updateUserID 更新的发起人，无法确定时为 0
func updateUserID(upd tgbotapi.Update) int64 {
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		return upd.Message.From.ID
	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		return upd.CallbackQuery.From.ID
	case upd.EditedMessage != nil && upd.EditedMessage.From != nil:
		return upd.EditedMessage.From.ID
	default:
		return 0
	}
}

// Poll 长轮询获取更新直到 ctx 结束
func (d *Dispatcher) Poll(ctx context.Context, source UpdateSource, timeout int) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = timeout
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := source.GetUpdatesChan(cfg)
	defer source.StopReceivingUpdates()

	d.log.Info("polling for updates", zap.Int("timeout", timeout))
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if err := d.Enqueue(ctx, upd); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}
