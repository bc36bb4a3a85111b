package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Auth      AuthConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Log       LogConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时信息（非配置项）
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	APIPrefix   string `mapstructure:"api_prefix"`
	ProjectName string `mapstructure:"project_name"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogSQL       bool   `mapstructure:"log_sql"`
}

// StoreConfig 托管后端（认证 + 数据库）的访问参数
type StoreConfig struct {
	URL        string        `mapstructure:"url"`
	AnonKey    string        `mapstructure:"anon_key"`
	ServiceKey string        `mapstructure:"service_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	Provider         string `mapstructure:"provider"`
	AutoConfirmEmail bool   `mapstructure:"auto_confirm_email"`
	RedirectURL      string `mapstructure:"redirect_url"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	ExpireMinutes int           `mapstructure:"expire_minutes"`
	ExpireTime    time.Duration `mapstructure:"-"`
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	SubmitTTL time.Duration `mapstructure:"submit_ttl"`
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

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

const (
	ProviderHosted = "hosted"
	ProviderLocal  = "local"
)

var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.api_prefix", "/api/v1")
	v.SetDefault("server.project_name", "LearnGenix API")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("store.timeout", 10*time.Second)
	v.SetDefault("auth.provider", "")
	v.SetDefault("auth.auto_confirm_email", true)

	v.SetDefault("jwt.secret", "your_secret_key_here_make_it_long_and_random")
	v.SetDefault("jwt.expire_minutes", 30)

	v.SetDefault("redis.submit_ttl", 10*time.Second)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")

	v.SetDefault("cors.allowed_origins", DefaultCORSOrigins)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

// LoadConfig 读取 path 目录下的 config.yaml（可选），再由环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LEARNGENIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 与原有部署保持一致的环境变量名
	v.BindEnv("store.url", "SUPABASE_URL")
	v.BindEnv("store.anon_key", "SUPABASE_KEY")
	v.BindEnv("store.service_key", "SUPABASE_SERVICE_KEY")
	v.BindEnv("jwt.secret", "SECRET_KEY")
	v.BindEnv("jwt.expire_minutes", "ACCESS_TOKEN_EXPIRE_MINUTES")
	v.BindEnv("database.dsn", "DATABASE_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("cors.allowed_origins", "BACKEND_CORS_ORIGINS")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) finalize() error {
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireMinutes) * time.Minute
	if c.JWT.ExpireTime <= 0 {
		return fmt.Errorf("jwt.expire_minutes must be positive, got %d", c.JWT.ExpireMinutes)
	}

	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	if c.Auth.Provider == "" {
		if c.Store.URL != "" {
			c.Auth.Provider = ProviderHosted
		} else {
			c.Auth.Provider = ProviderLocal
		}
	}
	switch c.Auth.Provider {
	case ProviderHosted:
		if c.Store.URL == "" || c.Store.AnonKey == "" || c.Store.ServiceKey == "" {
			return errors.New("hosted auth provider requires store.url, store.anon_key and store.service_key")
		}
	case ProviderLocal:
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}

	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		c.Server.APIPrefix = "/" + c.Server.APIPrefix
	}
	c.Server.APIPrefix = strings.TrimRight(c.Server.APIPrefix, "/")
	return nil
}

// DataSourceName 返回 gorm 驱动使用的连接串，DSN 优先
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	case "sqlite":
		return d.DBName
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
	}
}

func (r RateLimitConfig) Window() time.Duration {
	if r.WindowMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowMinutes) * time.Minute
}
