package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr   string
	Port         string
	GinMode      string
	Database     DatabaseConfig
	Session      SessionConfig
	Log          LogConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	SiteName     string
	SiteBaseURL  string
	TemplateGlob string
	StaticDir    string
	AdminUser    string
	AdminPass    string
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string // sqlite / postgres
	DSN    string
}

// SessionConfig 会话 Cookie 配置
type SessionConfig struct {
	Name          string
	Secret        string
	MaxAgeSeconds int
	Secure        bool
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// RedisConfig Redis 配置，未启用时限流中间件直接放行。
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// RateLimitConfig 登录、注册与评论提交的限流窗口
type RateLimitConfig struct {
	WindowSeconds int
	MaxRequests   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.listen_addr", "")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "youvshr.db")
	v.SetDefault("session.name", "youvshr_session")
	v.SetDefault("session.secret", "youvshr-dev-secret")
	v.SetDefault("session.max_age_seconds", 14*24*60*60)
	v.SetDefault("session.secure", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "youvshr")
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("rate_limit.max_requests", 10)
	v.SetDefault("site.name", "You VS HR")
	v.SetDefault("site.base_url", "http://localhost:8080")
	v.SetDefault("template.glob", "web/template/*.html")
	v.SetDefault("static.dir", "./web/static")
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")
}

// Load 读取 .env、config.yml 与环境变量，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("./etc")
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (AppConfig, error) {
	port := trimmedOr(v.GetString("server.port"), "8080")

	cfg := AppConfig{
		Port:       port,
		ListenAddr: trimmedOr(v.GetString("server.listen_addr"), fmt.Sprintf(":%s", port)),
		GinMode:    trimmedOr(v.GetString("server.mode"), "release"),
		Database: DatabaseConfig{
			Driver: trimmedOr(strings.ToLower(v.GetString("database.driver")), "sqlite"),
			DSN:    trimmedOr(v.GetString("database.dsn"), "youvshr.db"),
		},
		Session: SessionConfig{
			Name:          trimmedOr(v.GetString("session.name"), "youvshr_session"),
			Secret:        trimmedOr(v.GetString("session.secret"), "youvshr-dev-secret"),
			MaxAgeSeconds: v.GetInt("session.max_age_seconds"),
			Secure:        v.GetBool("session.secure"),
		},
		Log: LogConfig{
			Dir:        strings.TrimSpace(v.GetString("log.dir")),
			Filename:   strings.TrimSpace(v.GetString("log.filename")),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     strings.TrimSpace(v.GetString("redis.host")),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   strings.TrimSpace(v.GetString("redis.prefix")),
		},
		RateLimit: RateLimitConfig{
			WindowSeconds: v.GetInt("rate_limit.window_seconds"),
			MaxRequests:   v.GetInt("rate_limit.max_requests"),
		},
		SiteName:     trimmedOr(v.GetString("site.name"), "You VS HR"),
		SiteBaseURL:  trimmedOr(v.GetString("site.base_url"), "http://localhost:8080"),
		TemplateGlob: strings.TrimSpace(v.GetString("template.glob")),
		StaticDir:    strings.TrimSpace(v.GetString("static.dir")),
		AdminUser:    strings.TrimSpace(v.GetString("admin.username")),
		AdminPass:    strings.TrimSpace(v.GetString("admin.password")),
	}

	if cfg.Session.MaxAgeSeconds <= 0 {
		cfg.Session.MaxAgeSeconds = 14 * 24 * 60 * 60
	}
	if cfg.Database.Driver != "sqlite" && cfg.Database.Driver != "postgres" {
		return AppConfig{}, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	return cfg, nil
}

func trimmedOr(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
