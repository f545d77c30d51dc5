package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 机器人运行模式
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// 支持的存储类型
const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
	DatabaseMySQL    = "mysql"
)

// TelegramConfig 定义 Telegram Bot 的接入配置
type TelegramConfig struct {
	Token         string // Bot 令牌，缺失时启动失败
	AdminID       int64  // 超级管理员的 Telegram 用户 ID，0 表示未配置
	Mode          string // 更新获取方式: polling 或 webhook
	WebhookURL    string // webhook 模式下对外暴露的基础地址
	WebhookSecret string // webhook 路径中的密钥片段
	Debug         bool   // 打印 Bot API 调试日志
	UpdateTimeout int    // 长轮询超时（秒）
	Workers       int    // 并行处理更新的分片数量
}

// MailTMConfig 定义 mail.tm 接口的访问参数
type MailTMConfig struct {
	BaseURL       string        // 接口地址，默认 https://api.mail.tm
	Timeout       time.Duration // 单次请求超时，默认 10 秒
	RatePerSecond float64       // 每秒请求上限
	Burst         int           // 突发请求数
}

// GateConfig 定义访问闸门配置
type GateConfig struct {
	CacheTTL time.Duration // 订阅校验结果的缓存时间
}

// InboxConfig 定义收件箱轮询配置
type InboxConfig struct {
	SweepEnabled  bool          // 是否启用后台轮询
	PollInterval  time.Duration // 轮询间隔
	Workers       int           // 单轮并发轮询的邮箱数
	MaxBodyLength int           // 推送正文的最大字符数
	MaxMailboxes  int           // 每个用户最多持有的邮箱数，0 表示不限制
}

// BroadcastConfig 定义群发限速
type BroadcastConfig struct {
	RatePerSecond float64
	Burst         int
}

// ServerConfig 定义健康检查、指标与 webhook 的 HTTP 监听配置
type ServerConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 彩色输出
	File        string // 日志文件路径，留空只输出到控制台
}

// DatabaseConfig 定义数据库连接配置
type DatabaseConfig struct {
	Type            string // memory, postgres 或 mysql；留空时按 DSN 推断
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig 定义 Redis 缓存配置，Address 为空时不启用缓存层
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// SecurityConfig 定义敏感数据加密配置
type SecurityConfig struct {
	SecretKey string // 邮箱令牌加密口令，留空表示明文存储
}

// Config 是机器人配置的根结构体
type Config struct {
	Telegram  TelegramConfig
	MailTM    MailTMConfig
	Gate      GateConfig
	Inbox     InboxConfig
	Broadcast BroadcastConfig
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Security  SecurityConfig
}

// Load 从环境变量和 .env 文件加载配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量，前缀 TEMPBOT_，例如 TEMPBOT_TELEGRAM_TOKEN
//  2. 旧部署使用的变量名: TELEGRAM_BOT_TOKEN, ADMIN_TELEGRAM_ID, DATABASE_URL
//  3. .env 文件
//  4. 默认值
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetEnvPrefix("tempbot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram.token", "TEMPBOT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.admin_id", "TEMPBOT_TELEGRAM_ADMIN_ID", "ADMIN_TELEGRAM_ID")
	_ = v.BindEnv("database.dsn", "TEMPBOT_DATABASE_DSN", "DATABASE_URL")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_id", "")
	v.SetDefault("telegram.mode", ModePolling)
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.webhook_secret", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.update_timeout", 30)
	v.SetDefault("telegram.workers", 8)
	v.SetDefault("mailtm.base_url", "https://api.mail.tm")
	v.SetDefault("mailtm.timeout", "10s")
	v.SetDefault("mailtm.rate_per_second", 8.0)
	v.SetDefault("mailtm.burst", 4)
	v.SetDefault("gate.cache_ttl", "30s")
	v.SetDefault("inbox.sweep_enabled", true)
	v.SetDefault("inbox.poll_interval", "1m")
	v.SetDefault("inbox.workers", 4)
	v.SetDefault("inbox.max_body_length", 3500)
	v.SetDefault("inbox.max_mailboxes", 10)
	v.SetDefault("broadcast.rate_per_second", 25.0)
	v.SetDefault("broadcast.burst", 5)
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("database.type", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("security.secret_key", "")

	token := strings.TrimSpace(v.GetString("telegram.token"))
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required (set TELEGRAM_BOT_TOKEN or TEMPBOT_TELEGRAM_TOKEN)")
	}

	adminID, err := parseAdminID(v.GetString("telegram.admin_id"))
	if err != nil {
		return nil, err
	}

	mode := strings.ToLower(v.GetString("telegram.mode"))
	if mode != ModePolling && mode != ModeWebhook {
		return nil, fmt.Errorf("invalid telegram.mode %q (supported: polling, webhook)", mode)
	}
	if mode == ModeWebhook {
		if v.GetString("telegram.webhook_url") == "" || v.GetString("telegram.webhook_secret") == "" {
			return nil, fmt.Errorf("webhook mode requires telegram.webhook_url and telegram.webhook_secret")
		}
	}

	mailTimeout, err := time.ParseDuration(v.GetString("mailtm.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid mailtm.timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("gate.cache_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid gate.cache_ttl: %w", err)
	}

	pollInterval, err := time.ParseDuration(v.GetString("inbox.poll_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid inbox.poll_interval: %w", err)
	}
	if pollInterval < 5*time.Second {
		pollInterval = 5 * time.Second
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("database.conn_max_lifetime"))
	if err != nil {
		connMaxLifetime = 5 * time.Minute
	}

	dsn := v.GetString("database.dsn")
	dbType, err := resolveDatabaseType(v.GetString("database.type"), dsn)
	if err != nil {
		return nil, err
	}

	workers := v.GetInt("telegram.workers")
	if workers <= 0 {
		workers = 1
	}
	inboxWorkers := v.GetInt("inbox.workers")
	if inboxWorkers <= 0 {
		inboxWorkers = 1
	}
	maxBody := v.GetInt("inbox.max_body_length")
	if maxBody <= 0 || maxBody > 3800 {
		maxBody = 3500
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:         token,
			AdminID:       adminID,
			Mode:          mode,
			WebhookURL:    strings.TrimRight(v.GetString("telegram.webhook_url"), "/"),
			WebhookSecret: v.GetString("telegram.webhook_secret"),
			Debug:         v.GetBool("telegram.debug"),
			UpdateTimeout: v.GetInt("telegram.update_timeout"),
			Workers:       workers,
		},
		MailTM: MailTMConfig{
			BaseURL:       strings.TrimRight(v.GetString("mailtm.base_url"), "/"),
			Timeout:       mailTimeout,
			RatePerSecond: v.GetFloat64("mailtm.rate_per_second"),
			Burst:         v.GetInt("mailtm.burst"),
		},
		Gate: GateConfig{
			CacheTTL: cacheTTL,
		},
		Inbox: InboxConfig{
			SweepEnabled:  v.GetBool("inbox.sweep_enabled"),
			PollInterval:  pollInterval,
			Workers:       inboxWorkers,
			MaxBodyLength: maxBody,
			MaxMailboxes:  max(v.GetInt("inbox.max_mailboxes"), 0),
		},
		Broadcast: BroadcastConfig{
			RatePerSecond: v.GetFloat64("broadcast.rate_per_second"),
			Burst:         v.GetInt("broadcast.burst"),
		},
		Server: ServerConfig{
			Enabled: v.GetBool("server.enabled") || mode == ModeWebhook,
			Host:    v.GetString("server.host"),
			Port:    v.GetInt("server.port"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
			File:        v.GetString("log.file"),
		},
		Database: DatabaseConfig{
			Type:            dbType,
			DSN:             dsn,
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Security: SecurityConfig{
			SecretKey: v.GetString("security.secret_key"),
		},
	}

	return cfg, nil
}

// parseAdminID 解析超级管理员 ID，空值表示未配置
func parseAdminID(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid admin telegram id %q: %w", value, err)
	}
	return id, nil
}

// resolveDatabaseType 校验存储类型；未显式指定时根据 DSN 前缀推断
//
// 返回空字符串表示没有可用的数据库，调用方应降级运行。
func resolveDatabaseType(dbType, dsn string) (string, error) {
	dbType = strings.ToLower(strings.TrimSpace(dbType))
	switch dbType {
	case DatabaseMemory:
		return dbType, nil
	case "postgresql":
		dbType = DatabasePostgres
	case DatabasePostgres, DatabaseMySQL:
	case "":
		switch {
		case dsn == "":
			return "", nil
		case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
			return DatabasePostgres, nil
		case strings.Contains(dsn, "@tcp("):
			return DatabaseMySQL, nil
		default:
			return DatabasePostgres, nil
		}
	default:
		return "", fmt.Errorf("unsupported database type: %s (supported: memory, postgres, mysql)", dbType)
	}
	if dsn == "" {
		return "", fmt.Errorf("database.dsn is required for database type %s", dbType)
	}
	return dbType, nil
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：当前目录的 .env，然后父目录的 .env。
// 文件不存在时静默跳过，已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
