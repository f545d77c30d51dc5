package cache

import (
	"sync"
	"time"
)

// LocalCache 本地内存缓存
//
// 特点：
// - 使用 sync.Map 实现无锁读取
// - 支持 TTL 过期，读取时惰性淘汰
// - 后台协程定期清理过期条目，Close 后停止
type LocalCache[K comparable, V any] struct {
	data sync.Map
	ttl  time.Duration
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Option 缓存选项
type Option func(*options)

type options struct {
	now             func() time.Time
	cleanupInterval time.Duration
}

// WithClock 替换时间来源，测试中用于模拟时间流逝
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCleanupInterval 设置后台清理间隔，0 表示不启动清理协程
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

// NewLocalCache 创建本地缓存
//
// 参数:
//   - ttl: 默认过期时间
func NewLocalCache[K comparable, V any](ttl time.Duration, opts ...Option) *LocalCache[K, V] {
	o := options{now: time.Now, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	c := &LocalCache[K, V]{
		ttl:  ttl,
		now:  o.now,
		stop: make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go c.cleanupLoop(o.cleanupInterval)
	}
	return c
}

// Get 获取缓存值
func (c *LocalCache[K, V]) Get(key K) (V, bool) {
	var zero V
	val, ok := c.data.Load(key)
	if !ok {
		return zero, false
	}

	entry := val.(*cacheEntry[V])
	if !c.now().Before(entry.expiresAt) {
		c.data.CompareAndDelete(key, val)
		return zero, false
	}
	return entry.value, true
}

// Set 使用默认 TTL 设置缓存值
func (c *LocalCache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL 设置缓存值，ttl 为 0 时使用默认值
func (c *LocalCache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.ttl
	}
	c.data.Store(key, &cacheEntry[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	})
}

// Take 取出并删除缓存值
func (c *LocalCache[K, V]) Take(key K) (V, bool) {
	v, ok := c.Get(key)
	if ok {
		c.data.Delete(key)
	}
	return v, ok
}

// Delete 删除缓存值
func (c *LocalCache[K, V]) Delete(key K) {
	c.data.Delete(key)
}

// Clear 清空所有缓存
func (c *LocalCache[K, V]) Clear() {
	c.data.Range(func(key, _ any) bool {
		c.data.Delete(key)
		return true
	})
}

// Len 返回未过期条目数
func (c *LocalCache[K, V]) Len() int {
	now := c.now()
	n := 0
	c.data.Range(func(_, value any) bool {
		if now.Before(value.(*cacheEntry[V]).expiresAt) {
			n++
		}
		return true
	})
	return n
}

// Close 停止后台清理
func (c *LocalCache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanupLoop 定期清理过期条目
func (c *LocalCache[K, V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purge()
		}
	}
}

func (c *LocalCache[K, V]) purge() {
	now := c.now()
	c.data.Range(func(key, value any) bool {
		if !now.Before(value.(*cacheEntry[V]).expiresAt) {
			c.data.CompareAndDelete(key, value)
		}
		return true
	})
}
