package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/youvshr/internal/config"
)

const defaultPrefix = "youvshr"

// Client 包装可选的 Redis 连接。未启用时 Redis() 返回 nil，调用方据此降级。
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New 根据配置创建客户端，未启用时返回一个空壳，不会发起连接。
func New(cfg config.RedisConfig) *Client {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	if !cfg.Enabled {
		return &Client{prefix: prefix}
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}

	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", host, port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}
}

// Enabled 判断 Redis 是否可用
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Redis 返回底层客户端，未启用时为 nil
func (c *Client) Redis() *redis.Client {
	if !c.Enabled() {
		return nil
	}
	return c.rdb
}

// Key 为业务 key 加上统一前缀
func (c *Client) Key(parts ...string) string {
	prefix := defaultPrefix
	if c != nil && c.prefix != "" {
		prefix = c.prefix
	}
	cleaned := make([]string, 0, len(parts)+1)
	cleaned = append(cleaned, prefix)
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ":")
}

// Ping 在启动时检查连接
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
