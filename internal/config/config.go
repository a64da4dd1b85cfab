package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Seed      SeedConfig      `mapstructure:"seed"`

	// 运行时标志（通过命令行参数设置）
	ConfigFile string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"` // mysql | postgres | sqlite
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	DBName    string `mapstructure:"dbname"`
	Charset   string `mapstructure:"charset"`
	ParseTime bool   `mapstructure:"parse_time"`
	SSLMode   string `mapstructure:"sslmode"`
	Path      string `mapstructure:"path"` // sqlite 文件路径
	LogSQL    bool   `mapstructure:"log_sql"`
}

// JWTConfig TTL 使用 "900s" / "15m" / "14d" 这类字符串
type JWTConfig struct {
	AccessSecret  string `mapstructure:"access_secret"`
	RefreshSecret string `mapstructure:"refresh_secret"`
	AccessTTL     string `mapstructure:"access_ttl"`
	RefreshTTL    string `mapstructure:"refresh_ttl"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"samesite"` // strict | lax | none
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Store       string `mapstructure:"store"` // memory | redis
	MaxRequests int    `mapstructure:"max_requests"`
	Window      string `mapstructure:"window"`
}

type SeedConfig struct {
	AdminUser string `mapstructure:"admin_user"`
	AdminPass string `mapstructure:"admin_pass"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "skill_portal")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "skill_portal.db")

	v.SetDefault("jwt.access_secret", "dev-access")
	v.SetDefault("jwt.refresh_secret", "dev-refresh")
	v.SetDefault("jwt.access_ttl", "900s")
	v.SetDefault("jwt.refresh_ttl", "14d")

	v.SetDefault("cookie.domain", "localhost")
	v.SetDefault("cookie.secure", false)
	v.SetDefault("cookie.samesite", "strict")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "exports")
	v.SetDefault("storage.minio_bucket", "skill-portal")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("rate_limit.store", "memory")
	v.SetDefault("rate_limit.max_requests", 200)
	v.SetDefault("rate_limit.window", "60s")

	v.SetDefault("seed.admin_user", "admin")
	v.SetDefault("seed.admin_pass", "admin123")
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SKILL_PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server
	v.BindEnv("server.port", "SERVER_PORT", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.path", "DATABASE_PATH")

	// JWT
	v.BindEnv("jwt.access_secret", "ACCESS_TOKEN_SECRET")
	v.BindEnv("jwt.refresh_secret", "REFRESH_TOKEN_SECRET")
	v.BindEnv("jwt.access_ttl", "ACCESS_TOKEN_TTL")
	v.BindEnv("jwt.refresh_ttl", "REFRESH_TOKEN_TTL")

	// Cookie
	v.BindEnv("cookie.domain", "COOKIE_DOMAIN")
	v.BindEnv("cookie.secure", "COOKIE_SECURE")
	v.BindEnv("cookie.samesite", "COOKIE_SAMESITE")

	// CORS
	v.BindEnv("cors.allowed_origins", "CORS_ORIGIN")

	// Rate limit
	v.BindEnv("rate_limit.store", "RATE_LIMIT_STORE")
	v.BindEnv("rate_limit.max_requests", "RATE_LIMIT_MAX")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Storage / MinIO
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.local_path", "STORAGE_LOCAL_PATH")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Seed
	v.BindEnv("seed.admin_user", "SEED_ADMIN_USER")
	v.BindEnv("seed.admin_pass", "SEED_ADMIN_PASS")
}

// LoadConfig 读取配置：默认值 < 配置文件(可选) < 环境变量。
// file 为空时在 ./configs 下查找 config.yaml，找不到也不报错。
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	// CORS_ORIGIN 允许逗号分隔的多个来源
	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate 生产环境校验密钥强度
func (c *Config) Validate() error {
	if c.Server.Mode != "release" {
		return nil
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("access token secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.AccessSecret))
	}
	if len(c.JWT.RefreshSecret) < 32 {
		return fmt.Errorf("refresh token secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.RefreshSecret))
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("access and refresh token secrets must differ in release mode")
	}
	return nil
}

func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}
