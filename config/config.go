package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret 开发环境兜底密钥，release 模式下禁止使用
const DevJWTSecret = "dev_change_me"

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	Mode         string     `mapstructure:"mode"` // debug | release
	BaseURL      string     `mapstructure:"base_url"`
	UploadDir    string     `mapstructure:"upload_dir"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// IsRelease 是否为生产模式
func (c *ServerConfig) IsRelease() bool { return c.Mode == "release" }

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 分钟
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（Token 吊销、登录限流、任务锁）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret        string        `mapstructure:"jwt_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	Issuer           string        `mapstructure:"issuer"`
	LoginRateLimit   int           `mapstructure:"login_rate_limit"`
	LoginRateWindow  time.Duration `mapstructure:"login_rate_window"`
	BcryptCost       int           `mapstructure:"bcrypt_cost"`
	UsingDevFallback bool          `mapstructure:"-"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JobsConfig 后台任务配置
type JobsConfig struct {
	GraduationEnabled  bool          `mapstructure:"graduation_enabled"`
	GraduationInterval time.Duration `mapstructure:"graduation_interval"`
	GraduationTimeout  time.Duration `mapstructure:"graduation_timeout"`
}

// SeedConfig 初始超级管理员
type SeedConfig struct {
	SuperAdminName     string `mapstructure:"superadmin_name"`
	SuperAdminEmail    string `mapstructure:"superadmin_email"`
	SuperAdminPassword string `mapstructure:"superadmin_password"`
	Department         string `mapstructure:"department"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > .env > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load(".env")

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:5000")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "alumni")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.issuer", "alumni-interaction")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("jobs.graduation_enabled", true)
	v.SetDefault("jobs.graduation_interval", "1h")
	v.SetDefault("jobs.graduation_timeout", "30s")

	v.SetDefault("seed.superadmin_name", "Super Admin")
	v.SetDefault("seed.superadmin_email", "")
	v.SetDefault("seed.superadmin_password", "")
	v.SetDefault("seed.department", "System Administration")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("ALUMNI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyFallbacks 填充开发环境兜底值
func (c *Config) applyFallbacks() {
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = DevJWTSecret
		c.Auth.UsingDevFallback = true
	}
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if c.Server.IsRelease() {
		if c.Auth.JWTSecret == DevJWTSecret {
			return fmt.Errorf("配置校验失败: release 模式下必须设置 auth.jwt_secret")
		}
		if len(c.Auth.JWTSecret) < 16 {
			return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
		}
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("配置校验失败: auth.token_ttl 必须大于 0")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("配置校验失败: auth.bcrypt_cost 必须在 4-31 之间")
	}
	return nil
}
