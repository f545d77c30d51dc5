package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tempmail/bot/internal/bot"
	"tempmail/bot/internal/config"
	"tempmail/bot/internal/gate"
	"tempmail/bot/internal/health"
	"tempmail/bot/internal/i18n"
	"tempmail/bot/internal/inbox"
	"tempmail/bot/internal/logger"
	"tempmail/bot/internal/mailtm"
	"tempmail/bot/internal/monitoring"
	"tempmail/bot/internal/secret"
	"tempmail/bot/internal/service"
	"tempmail/bot/internal/storage"
	"tempmail/bot/internal/storage/hybrid"
	"tempmail/bot/internal/storage/memory"
	"tempmail/bot/internal/storage/offline"
	"tempmail/bot/internal/storage/postgres"
	"tempmail/bot/internal/storage/redis"
	httptransport "tempmail/bot/internal/transport/http"
)

const (
	// shutdownTimeout 优雅退出的最长等待时间
	shutdownTimeout = 10 * time.Second
	// telegramRequestTimeout 发送消息与查询频道成员的单次请求超时
	telegramRequestTimeout = 10 * time.Second
)

// main 启动 Telegram 临时邮箱机器人。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if cfg.Log.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     cfg.Log.File,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
		Redact:      []string{cfg.Telegram.Token, cfg.Telegram.WebhookSecret},
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting tempmail bot",
		zap.String("mode", cfg.Telegram.Mode),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("bot stopped with error", zap.Error(err))
	}
	log.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	metrics := monitoring.NewMetrics()
	checker := health.NewChecker(log)

	store, closeStore, err := openStore(ctx, cfg, checker, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// Telegram
	if err := tgbotapi.SetLogger(zap.NewStdLog(log.Named("tgbotapi"))); err != nil {
		log.Warn("set telegram logger failed", zap.Error(err))
	}
	api, sender, err := newTelegramClients(cfg.Telegram, tgbotapi.APIEndpoint)
	if err != nil {
		return err
	}
	log.Info("authorized on telegram", zap.String("username", api.Self.UserName))
	tg := bot.NewTelegram(sender)

	// 业务服务
	state := service.NewRuntimeState(store, log)
	if err := state.Load(ctx); err != nil {
		log.Warn("runtime state not fully loaded, using defaults", zap.Error(err))
	}

	box := secret.New(cfg.Security.SecretKey)
	if !box.Enabled() {
		log.Warn("security.secret_key is empty, mailbox credentials are stored in plain text")
	}
	mailClient := mailtm.New(cfg.MailTM, mailtm.WithObserver(metrics), mailtm.WithLogger(log.Named("mailtm")))

	users := service.NewUserService(store, log)
	mailboxes := service.NewMailboxService(store, mailClient, box, metrics, cfg.Inbox.MaxMailboxes, log)
	admin := service.NewAdminService(store, mailboxes, state, tg, cfg.Telegram.AdminID, log)
	if cfg.Telegram.AdminID == 0 {
		log.Warn("no super admin configured, admin panel and forwarding are limited to stored admins")
	}

	accessGate := gate.New(gate.Config{CacheTTL: cfg.Gate.CacheTTL}, store, state, tg, i18n.GatePrompts{}, metrics, log)
	defer accessGate.Close()
	admin.OnChannelChange(accessGate.Reset)

	broadcaster := service.NewBroadcaster(cfg.Broadcast, store, tg, metrics, log)

	handler := bot.NewHandler(bot.Deps{
		Telegram:     tg,
		Users:        users,
		Mailboxes:    mailboxes,
		Admin:        admin,
		State:        state,
		Gate:         accessGate,
		Broadcaster:  broadcaster,
		Recorder:     metrics,
		Log:          log,
		MaxBody:      cfg.Inbox.MaxBodyLength,
		MaxMailboxes: cfg.Inbox.MaxMailboxes,
	})
	defer handler.Close()

	dispatcher := bot.NewDispatcher(handler, cfg.Telegram.Workers, log)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// 更新来源
	var webhook *httptransport.WebhookHandler
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		if err := registerWebhook(api, cfg.Telegram); err != nil {
			return err
		}
		webhook = httptransport.NewWebhookHandler(cfg.Telegram.WebhookSecret, dispatcher, log)
		log.Info("webhook registered", zap.String("url", cfg.Telegram.WebhookURL))
	default:
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Warn("delete webhook failed", zap.Error(err))
		}
		group.Go(func() error {
			return dispatcher.Poll(groupCtx, api, cfg.Telegram.UpdateTimeout)
		})
	}

	// 收件箱轮询
	if cfg.Inbox.SweepEnabled {
		sweeper := inbox.NewSweeper(
			inbox.SweeperConfig{Interval: cfg.Inbox.PollInterval, Workers: cfg.Inbox.Workers},
			store,
			inbox.NewDetector(mailClient, store, log),
			bot.NewNotifier(tg, store, cfg.Inbox.MaxBodyLength, log),
			box,
			metrics,
			log,
		)
		group.Go(func() error {
			err := sweeper.Run(groupCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	// 健康检查、指标与 webhook
	if cfg.Server.Enabled {
		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		httpServer := &http.Server{
			Addr: addr,
			Handler: httptransport.NewRouter(httptransport.RouterDependencies{
				Health:  checker,
				Metrics: metrics,
				Webhook: webhook,
				Logger:  log,
			}),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		group.Go(func() error {
			log.Info("starting HTTP server", zap.String("address", addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	<-groupCtx.Done()
	log.Info("shutdown signal received, gracefully shutting down...")
	return waitWithTimeout(group, shutdownTimeout, log)
}

// waitWithTimeout 等待全部协程退出，超时后放弃等待
func waitWithTimeout(group *errgroup.Group, timeout time.Duration, log *zap.Logger) error {
	done := make(chan error, 1)
	go func() { done <- group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		log.Warn("shutdown timed out", zap.Duration("timeout", timeout))
		return nil
	}
}

// newTelegramClients 创建两个 Telegram 客户端：poller 的超时覆盖长轮询等待，
// sender 用于发送消息和成员查询，超时较短
func newTelegramClients(cfg config.TelegramConfig, endpoint string) (poller, sender *tgbotapi.BotAPI, err error) {
	pollTimeout := time.Duration(cfg.UpdateTimeout+15) * time.Second
	poller, err = tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, &http.Client{Timeout: pollTimeout})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to telegram: %w", err)
	}
	poller.Debug = cfg.Debug

	clone := *poller
	clone.Client = &http.Client{Timeout: telegramRequestTimeout}
	return poller, &clone, nil
}

func registerWebhook(api *tgbotapi.BotAPI, cfg config.TelegramConfig) error {
	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + "/telegram/webhook/" + cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	wh.AllowedUpdates = []string{"message", "callback_query"}
	wh.MaxConnections = cfg.Workers
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}
	return nil
}

// openStore 按配置选择存储；没有配置数据库时使用离线存储，机器人以失败关闭方式运行
func openStore(ctx context.Context, cfg *config.Config, checker *health.Checker, log *zap.Logger) (storage.Store, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store storage.Store
	switch cfg.Database.Type {
	case "":
		log.Warn("no database configured, running in degraded mode")
		store = offline.NewStore()
	case config.DatabaseMemory:
		log.Info("using memory storage (development mode)")
		store = memory.NewStore()
	default:
		db, err := postgres.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s store: %w", cfg.Database.Type, err)
		}
		log.Info("database storage initialized", zap.String("type", cfg.Database.Type))
		store = db

		if cfg.Database.Type == config.DatabasePostgres {
			pool, err := postgres.New(ctx, cfg.Database, log)
			if err != nil {
				log.Warn("postgres health pool unavailable", zap.Error(err))
			} else {
				closers = append(closers, pool.Close)
				checker.AddReadiness("postgres", pool)
			}
		}

		if cfg.Redis.Address != "" {
			client, err := redis.New(ctx, cfg.Redis, log)
			if err != nil {
				log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			} else {
				store = hybrid.NewStore(store, redis.NewCache(client), 0, log)
				checker.AddReadiness("redis", client)
				log.Info("redis cache enabled", zap.String("address", cfg.Redis.Address))
			}
		}
	}

	closers = append(closers, func() {
		if err := store.Close(); err != nil {
			log.Warn("close store failed", zap.Error(err))
		}
	})
	checker.AddReadiness("store", health.PingFunc(store.Health))
	return store, closeAll, nil
}
