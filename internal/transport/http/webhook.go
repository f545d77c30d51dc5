package httptransport

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// enqueueTimeout 分片队列已满时等待的最长时间，超时后让 Telegram 重投
const enqueueTimeout = 5 * time.Second

// UpdateQueue 接收 webhook 推送的更新，由 bot.Dispatcher 实现
type UpdateQueue interface {
	Enqueue(ctx context.Context, upd tgbotapi.Update) error
}

// WebhookHandler 处理 Telegram webhook 推送
type WebhookHandler struct {
	secret []byte
	queue  UpdateQueue
	log    *zap.Logger
}

// NewWebhookHandler 创建 webhook 处理器
func NewWebhookHandler(secret string, queue UpdateQueue, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{secret: []byte(secret), queue: queue, log: log}
}

// Handle 校验路径密钥后把更新放入分发队列；密钥不匹配时返回 404，不暴露路由存在
func (h *WebhookHandler) Handle(c *gin.Context) {
	given := []byte(c.Param("secret"))
	if len(h.secret) == 0 || subtle.ConstantTimeCompare(given, h.secret) != 1 {
		NotFound(c, "not found")
		return
	}

	var upd tgbotapi.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.log.Warn("malformed webhook payload", zap.Error(err))
		BadRequest(c, "malformed update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), enqueueTimeout)
	defer cancel()
	if err := h.queue.Enqueue(ctx, upd); err != nil {
		h.log.Warn("enqueue webhook update failed", zap.Int("update_id", upd.UpdateID), zap.Error(err))
		Error(c, http.StatusServiceUnavailable, "busy")
		return
	}
	Success(c, nil)
}
