package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRecorder struct {
	panics int
	routes []string
	codes  []int
}

func (f *fakeRecorder) RecordPanic() { f.panics++ }

func (f *fakeRecorder) RecordHTTPRequest(_, route string, status int, _ time.Duration) {
	f.routes = append(f.routes, route)
	f.codes = append(f.codes, status)
}

func newEngine(rec *fakeRecorder, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryHandler(log, rec), RequestLogger(log), HTTPMetrics(rec), SecurityHeaders())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })
	r.POST("/hook/:secret", BodySizeLimit(16), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRecoveryHandler(t *testing.T) {
	rec := &fakeRecorder{}
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(rec, zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, rec.panics)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRequestLogger_UsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}
	core, logs := observer.New(zap.DebugLevel)
	r := newEngine(rec, zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook/s3cr3t", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "/hook/:secret", entries[0].ContextMap()["route"])
	}
	assert.Equal(t, []string{"/hook/:secret"}, rec.routes)
}

func TestBodySizeLimit(t *testing.T) {
	rec := &fakeRecorder{}
	r := newEngine(rec, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook/x", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, []int{http.StatusRequestEntityTooLarge}, rec.codes)
}
