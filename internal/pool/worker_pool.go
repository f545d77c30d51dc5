package pool

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped 协程池已停止
var ErrStopped = errors.New("worker pool stopped")

// Task 池中执行的任务，ctx 为 Start 传入的上下文
type Task func(ctx context.Context)

// WorkerPool 协程池
//
// 用于限制并发协程数量。上下文取消后工作协程仍会取出剩余任务，
// 由任务自行根据 ctx 快速返回，保证提交者等待的任务都会结束。
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan Task
	wg         sync.WaitGroup
	onPanic    func(any)

	mu      sync.RWMutex
	stopped bool
}

// Option 协程池选项
type Option func(*WorkerPool)

// WithPanicHandler 设置任务 panic 时的回调
func WithPanicHandler(fn func(any)) Option {
	return func(p *WorkerPool) { p.onPanic = fn }
}

// NewWorkerPool 创建协程池
//
// 参数:
//   - maxWorkers: 最大协程数
//   - queueSize: 任务队列大小
func NewWorkerPool(maxWorkers, queueSize int, opts ...Option) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan Task, queueSize),
	}
	for _, opt := range opts {
		opt(pool)
	}
	return pool
}

// Start 启动协程池
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Submit 提交任务
//
// 如果队列已满，会阻塞直到有空位或 ctx 取消
func (p *WorkerPool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop 停止协程池，等待已提交的任务执行完毕
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.taskQueue)
	p.mu.Unlock()
	p.wg.Wait()
}

// worker 工作协程
func (p *WorkerPool) worker(ctx context.Context) {
	defer p.wg.Done()

	for task := range p.taskQueue {
		p.run(ctx, task)
	}
}

// run 执行任务（捕获 panic）
func (p *WorkerPool) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(r)
		}
	}()
	task(ctx)
}
