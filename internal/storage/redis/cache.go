package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// keyPrefix 所有缓存键的公共前缀
const keyPrefix = "tempbot:"

// Cache Redis 缓存实现，值以 JSON 存储
type Cache struct {
	client *Client
}

// NewCache 基于已连接的客户端创建缓存
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// Get 读取缓存并解码到 dst，未命中时返回 false
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set 写入缓存
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.rdb.Set(ctx, keyPrefix+key, data, ttl).Err()
}

// Delete 删除缓存键
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return c.client.rdb.Del(ctx, full...).Err()
}

// Ping 测试缓存连接
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

// Close 关闭底层连接
func (c *Cache) Close() error {
	return c.client.Close()
}
