package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
//
// 所有指标注册在独立的 Registry 上，测试可以创建多个实例互不干扰。
// 方法对 nil 接收者安全，未启用监控时组件可以直接传 nil。
type Metrics struct {
	registry *prometheus.Registry

	// 访问闸门
	GateDecisions     *prometheus.CounterVec
	MembershipLookups *prometheus.CounterVec

	// 收件箱轮询
	PollCycles     *prometheus.CounterVec
	SweepDuration  prometheus.Histogram
	Notifications  *prometheus.CounterVec
	OTPsDetected   prometheus.Counter
	MailboxesTotal prometheus.Gauge

	// 邮箱
	MailboxesCreated prometheus.Counter
	MailboxesDeleted prometheus.Counter

	// mail.tm 接口
	MailTMRequests        *prometheus.CounterVec
	MailTMRequestDuration *prometheus.HistogramVec
	CircuitState          prometheus.Gauge

	// Telegram 更新
	UpdatesHandled *prometheus.CounterVec
	PanicsTotal    prometheus.Counter
	BroadcastSends *prometheus.CounterVec

	// HTTP 接口
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		GateDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_gate_decisions_total",
				Help: "Access gate decisions by reason",
			},
			[]string{"reason"},
		),
		MembershipLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_membership_lookups_total",
				Help: "Channel membership lookups by result",
			},
			[]string{"result"},
		),

		PollCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_inbox_polls_total",
				Help: "Mailbox poll cycles by outcome",
			},
			[]string{"outcome"},
		),
		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tempbot_inbox_sweep_duration_seconds",
				Help:    "Duration of a full sweep across all mailboxes",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_notifications_total",
				Help: "New-mail notifications by result",
			},
			[]string{"result"},
		),
		OTPsDetected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tempbot_otp_detected_total",
				Help: "Messages in which a verification code was found",
			},
		),
		MailboxesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tempbot_mailboxes",
				Help: "Mailboxes covered by the last sweep",
			},
		),

		MailboxesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tempbot_mailboxes_created_total",
				Help: "Total number of mailboxes created",
			},
		),
		MailboxesDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tempbot_mailboxes_deleted_total",
				Help: "Total number of mailboxes deleted",
			},
		),

		MailTMRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_mailtm_requests_total",
				Help: "Requests to the mail.tm API by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		MailTMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tempbot_mailtm_request_duration_seconds",
				Help:    "mail.tm request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		CircuitState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tempbot_mailtm_circuit_state",
				Help: "mail.tm circuit breaker state (0 closed, 1 open, 2 half-open)",
			},
		),

		UpdatesHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_updates_total",
				Help: "Telegram updates handled by kind",
			},
			[]string{"kind"},
		),
		PanicsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tempbot_panics_total",
				Help: "Panics recovered in update handlers",
			},
		),
		BroadcastSends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_broadcast_sends_total",
				Help: "Broadcast messages by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tempbot_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tempbot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// RecordGateDecision 记录闸门判定
func (m *Metrics) RecordGateDecision(reason string) {
	if m == nil {
		return
	}
	m.GateDecisions.WithLabelValues(reason).Inc()
}

// RecordMembershipLookup 记录成员查询结果
func (m *Metrics) RecordMembershipLookup(result string) {
	if m == nil {
		return
	}
	m.MembershipLookups.WithLabelValues(result).Inc()
}

// RecordPoll 记录单个邮箱的轮询结果
func (m *Metrics) RecordPoll(outcome string) {
	if m == nil {
		return
	}
	m.PollCycles.WithLabelValues(outcome).Inc()
}

// RecordSweep 记录一轮扫描
func (m *Metrics) RecordSweep(mailboxes int, duration time.Duration) {
	if m == nil {
		return
	}
	m.MailboxesTotal.Set(float64(mailboxes))
	m.SweepDuration.Observe(duration.Seconds())
}

// RecordNotification 记录新邮件通知
func (m *Metrics) RecordNotification(delivered, hasOTP bool) {
	if m == nil {
		return
	}
	if delivered {
		m.Notifications.WithLabelValues("delivered").Inc()
	} else {
		m.Notifications.WithLabelValues("failed").Inc()
	}
	if hasOTP {
		m.OTPsDetected.Inc()
	}
}

// RecordMailboxCreated 记录邮箱创建
func (m *Metrics) RecordMailboxCreated() {
	if m == nil {
		return
	}
	m.MailboxesCreated.Inc()
}

// RecordMailboxDeleted 记录邮箱删除
func (m *Metrics) RecordMailboxDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MailboxesDeleted.Add(float64(n))
}

// ObserveRequest 记录 mail.tm 请求，status 为 0 表示传输错误
func (m *Metrics) ObserveRequest(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.MailTMRequests.WithLabelValues(endpoint, label).Inc()
	m.MailTMRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetCircuitState 更新熔断器状态
func (m *Metrics) SetCircuitState(state int) {
	if m == nil {
		return
	}
	m.CircuitState.Set(float64(state))
}

// RecordUpdate 记录处理的 Telegram 更新
func (m *Metrics) RecordUpdate(kind string) {
	if m == nil {
		return
	}
	m.UpdatesHandled.WithLabelValues(kind).Inc()
}

// RecordPanic 记录恢复的 panic
func (m *Metrics) RecordPanic() {
	if m == nil {
		return
	}
	m.PanicsTotal.Inc()
}

// RecordBroadcast 记录广播发送结果
func (m *Metrics) RecordBroadcast(sent bool) {
	if m == nil {
		return
	}
	if sent {
		m.BroadcastSends.WithLabelValues("sent").Inc()
	} else {
		m.BroadcastSends.WithLabelValues("failed").Inc()
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Registry 返回指标注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
