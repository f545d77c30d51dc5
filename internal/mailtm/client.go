// Package mailtm 是 mail.tm 临时邮箱接口的客户端。
package mailtm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tempmail/bot/internal/circuitbreaker"
	"tempmail/bot/internal/config"
)

// maxResponseBytes 单次响应读取上限
const maxResponseBytes = 4 << 20

// Observer 接收每次请求的结果，由 monitoring.Metrics 实现
type Observer interface {
	ObserveRequest(endpoint string, status int, duration time.Duration)
	SetCircuitState(state int)
}

// Client mail.tm 接口客户端，内置限流与熔断
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
	observer Observer
	log      *zap.Logger
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver 设置请求观测者
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger 设置日志
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBreaker 替换熔断器配置
func WithBreaker(cfg circuitbreaker.Config) Option {
	return func(c *Client) { c.breaker = c.newBreaker(cfg) }
}

// New 创建客户端
func New(cfg config.MailTMConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = c.newBreaker(circuitbreaker.DefaultConfig())
	}
	return c
}

func (c *Client) newBreaker(cfg circuitbreaker.Config) *circuitbreaker.CircuitBreaker {
	cfg.IsFailure = isBreakerFailure
	cfg.OnStateChange = func(from, to circuitbreaker.State) {
		c.log.Warn("mail.tm circuit breaker state changed",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		if c.observer != nil {
			c.observer.SetCircuitState(int(to))
		}
	}
	return circuitbreaker.New(cfg)
}

// Domains 返回当前可用的公开域名
func (c *Client) Domains(ctx context.Context) ([]Domain, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "domains", http.MethodGet, "/domains", "", nil, &raw); err != nil {
		return nil, err
	}
	var all []Domain
	if err := decodeCollection(raw, &all); err != nil {
		return nil, err
	}
	active := make([]Domain, 0, len(all))
	for _, d := range all {
		if d.Domain == "" {
			continue
		}
		// 旧版本接口不返回 isActive 字段
		if d.IsActive || !hasField(raw, "isActive") {
			if !d.IsPrivate {
				active = append(active, d)
			}
		}
	}
	return active, nil
}

// CreateAccount 注册新账户
func (c *Client) CreateAccount(ctx context.Context, address, password string) (*Account, error) {
	body := map[string]string{"address": address, "password": password}
	var acc Account
	if err := c.do(ctx, "accounts", http.MethodPost, "/accounts", "", body, &acc); err != nil {
		return nil, err
	}
	if acc.ID == "" {
		return nil, fmt.Errorf("%w: account without id", ErrMalformed)
	}
	if acc.Address == "" {
		acc.Address = address
	}
	return &acc, nil
}

// Token 换取 Bearer 令牌
func (c *Client) Token(ctx context.Context, address, password string) (string, error) {
	body := map[string]string{"address": address, "password": password}
	var resp struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	if err := c.do(ctx, "token", http.MethodPost, "/token", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token", ErrMalformed)
	}
	return resp.Token, nil
}

// Messages 返回收件箱第一页，接口按时间倒序返回
func (c *Client) Messages(ctx context.Context, token string) ([]MessageSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "messages", http.MethodGet, "/messages?page=1", token, nil, &raw); err != nil {
		return nil, err
	}
	var list []MessageSummary
	if err := decodeCollection(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Message 获取单封邮件全文
func (c *Client) Message(ctx context.Context, token, id string) (*Message, error) {
	var msg Message
	path := "/messages/" + url.PathEscape(id)
	if err := c.do(ctx, "message", http.MethodGet, path, token, nil, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("%w: message without id", ErrMalformed)
	}
	return &msg, nil
}

// DeleteAccount 删除远端账户
func (c *Client) DeleteAccount(ctx context.Context, token, accountID string) error {
	path := "/accounts/" + url.PathEscape(accountID)
	return c.do(ctx, "delete_account", http.MethodDelete, path, token, nil, nil)
}

func (c *Client) do(ctx context.Context, endpoint, method, path, token string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	return c.breaker.Execute(func() error {
		start := time.Now()
		status, err := c.roundTrip(ctx, endpoint, method, path, token, in, out)
		if c.observer != nil {
			c.observer.ObserveRequest(endpoint, status, time.Since(start))
		}
		if err != nil {
			c.log.Debug("mail.tm request failed",
				zap.String("endpoint", endpoint),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		return err
	})
}

func (c *Client) roundTrip(ctx context.Context, endpoint, method, path, token string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/ld+json, application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("mail.tm %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("mail.tm %s: read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &APIError{Endpoint: endpoint, Status: resp.StatusCode, Detail: errorDetail(data)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s: %v", ErrMalformed, endpoint, err)
	}
	return resp.StatusCode, nil
}

// decodeCollection 解析 HAL/JSON-LD 集合（hydra:member 或 member）或裸数组
func decodeCollection(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformed)
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, key := range []string{"hydra:member", "member"} {
		if members, ok := envelope[key]; ok {
			if err := json.Unmarshal(members, dst); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: collection without members", ErrMalformed)
}

// hasField 判断集合中的元素是否带有指定字段
func hasField(raw json.RawMessage, field string) bool {
	return bytes.Contains(raw, []byte(`"`+field+`"`))
}

func errorDetail(data []byte) string {
	var payload struct {
		Detail      string `json:"detail"`
		Description string `json:"hydra:description"`
		Message     string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		for _, s := range []string{payload.Detail, payload.Description, payload.Message} {
			if s != "" {
				return s
			}
		}
	}
	return ""
}

// IsUnavailable 判断错误是否表示服务暂不可用（可稍后重试）
func IsUnavailable(err error) bool {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return err != nil && !errors.Is(err, ErrMalformed) && !errors.Is(err, ErrUnauthorized)
}
