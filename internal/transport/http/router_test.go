package httptransport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempmail/bot/internal/health"
	"tempmail/bot/internal/monitoring"
)

type fakeQueue struct {
	updates []tgbotapi.Update
	err     error
}

func (q *fakeQueue) Enqueue(_ context.Context, upd tgbotapi.Update) error {
	if q.err != nil {
		return q.err
	}
	q.updates = append(q.updates, upd)
	return nil
}

func newTestRouter(queue *fakeQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	hc := health.NewChecker(nil)
	hc.AddReadiness("store", health.PingFunc(func(context.Context) error { return nil }))
	return NewRouter(RouterDependencies{
		Health:  hc,
		Metrics: monitoring.NewMetrics(),
		Webhook: NewWebhookHandler("s3cr3t", queue, nil),
	})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(&fakeQueue{})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/ready", "").Code)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tempbot_http_requests_total")
}

func TestWebhook(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(q)

	w := do(r, http.MethodPost, "/telegram/webhook/s3cr3t", `{"update_id": 7, "message": {"message_id": 1, "text": "hi"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, q.updates, 1)
	assert.Equal(t, 7, q.updates[0].UpdateID)
	assert.Equal(t, "hi", q.updates[0].Message.Text)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/telegram/webhook/wrong", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/telegram/webhook/s3cr3t", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/telegram/webhook/s3cr3t", ``).Code)
	assert.Len(t, q.updates, 1)

	q.err = errors.New("stopped")
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/telegram/webhook/s3cr3t", `{"update_id": 8}`).Code)
}

func TestWebhook_NotRegisteredInPollingMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDependencies{})
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/telegram/webhook/s3cr3t", `{}`).Code)
}

func TestWebhook_EmptySecretRejectsEverything(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := &fakeQueue{}
	r := NewRouter(RouterDependencies{Webhook: NewWebhookHandler("", q, nil)})
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/telegram/webhook/", `{}`).Code)
	assert.Empty(t, q.updates)
}
