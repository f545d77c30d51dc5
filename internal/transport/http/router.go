package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tempmail/bot/internal/middleware"
	"tempmail/bot/internal/monitoring"
)

// HealthHandlers 存活与就绪检查，由 health.Checker 实现
type HealthHandlers interface {
	LiveHandler() http.Handler
	ReadyHandler() http.Handler
}

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Health  HealthHandlers
	Metrics *monitoring.Metrics
	// Webhook 为空时不注册 webhook 路由（长轮询模式）
	Webhook *WebhookHandler
	Logger  *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RecoveryHandler(log, deps.Metrics))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.HTTPMetrics(deps.Metrics))
	router.Use(middleware.SecurityHeaders())

	if deps.Health != nil {
		router.GET("/health/live", gin.WrapH(deps.Health.LiveHandler()))
		router.GET("/health/ready", gin.WrapH(deps.Health.ReadyHandler()))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))
	}
	if deps.Webhook != nil {
		router.POST("/telegram/webhook/:secret",
			middleware.BodySizeLimit(middleware.WebhookBodyLimit),
			deps.Webhook.Handle,
		)
	}

	router.NoRoute(func(c *gin.Context) {
		NotFound(c, "not found")
	})
	return router
}
