package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
)

// checkTimeout 单项检查的超时
const checkTimeout = 3 * time.Second

// maxGoroutines 超过该数量视为协程泄漏
const maxGoroutines = 10000

// Pinger 可探活的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc 把函数适配为 Pinger
type PingFunc func(ctx context.Context) error

// Ping 调用函数本身
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Checker 健康检查器
type Checker struct {
	health healthcheck.Handler
	logger *zap.Logger
	checks map[string]Pinger
}

// NewChecker 创建健康检查器，存活检查只看协程数量
func NewChecker(logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := &Checker{
		health: healthcheck.NewHandler(),
		logger: logger,
		checks: make(map[string]Pinger),
	}
	hc.health.AddLivenessCheck("goroutines", healthcheck.GoroutineCountCheck(maxGoroutines))
	return hc
}

// AddReadiness 添加就绪检查，依赖不可用时 /health/ready 返回 503
func (hc *Checker) AddReadiness(name string, p Pinger) {
	hc.checks[name] = p
	hc.health.AddReadinessCheck(name, healthcheck.Timeout(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			hc.logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			return err
		}
		return nil
	}, checkTimeout))
}

// LiveHandler 存活检查处理器
func (hc *Checker) LiveHandler() http.Handler {
	return http.HandlerFunc(hc.health.LiveEndpoint)
}

// ReadyHandler 就绪检查处理器
func (hc *Checker) ReadyHandler() http.Handler {
	return http.HandlerFunc(hc.health.ReadyEndpoint)
}

// CheckHealth 执行全部就绪检查并返回每项结果
func (hc *Checker) CheckHealth(ctx context.Context) map[string]string {
	results := make(map[string]string, len(hc.checks)+1)
	for name, p := range hc.checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Ping(cctx)
		cancel()
		if err != nil {
			results[name] = fmt.Sprintf("ERROR: %v", err)
		} else {
			results[name] = "OK"
		}
	}
	results["timestamp"] = time.Now().Format(time.RFC3339)
	return results
}
