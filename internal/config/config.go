package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

var (
	// ErrRead возвращается, если файл конфигурации не удалось прочитать
	ErrRead = errors.New("config: failed to read file")

	// ErrParse возвращается при ошибке разбора TOML
	ErrParse = errors.New("config: failed to parse toml")

	// ErrInvalid возвращается при недопустимых значениях
	ErrInvalid = errors.New("config: invalid value")
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Auth        AuthConfig        `toml:"auth"`
	UserService UserServiceConfig `toml:"user_service"`
	AMQP        AMQPConfig        `toml:"amqp"`
	Redis       RedisConfig       `toml:"redis"`
	Cache       CacheConfig       `toml:"cache"`
	Booking     BookingConfig     `toml:"booking"`
	Pricing     PricingConfig     `toml:"pricing"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host                 string `toml:"host"`
	Port                 int    `toml:"port"`
	User                 string `toml:"user"`
	Password             string `toml:"password"`
	DBName               string `toml:"dbname"`
	SSLMode              string `toml:"sslmode"`
	MaxOpenConns         int    `toml:"max_open_conns"`
	MaxIdleConns         int    `toml:"max_idle_conns"`
	ConnMaxLifetime      int    `toml:"conn_max_lifetime"`
	SerializationRetries int    `toml:"serialization_retries"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig идентификация вызывающего
// AllowHeaderIdentity разрешает заголовки X-User-ID/X-User-Role без JWT (для внутренней сети)
type AuthConfig struct {
	JWTSecret           string `toml:"jwt_secret"`
	AllowHeaderIdentity bool   `toml:"allow_header_identity"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type AMQPConfig struct {
	Enabled    bool   `toml:"enabled"`
	URL        string `toml:"url"`
	Exchange   string `toml:"exchange"`
	RoutingKey string `toml:"routing_key"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// TTL время жизни записей кэша
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type BookingConfig struct {
	Timezone string `toml:"timezone"`
	PageSize int    `toml:"page_size"`
}

// Location часовой пояс площадок
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type PricingConfig struct {
	GapBoundary string `toml:"gap_boundary"`
}

// Load читает .env (если есть), TOML файл и переменные окружения
// Переменные окружения вида ${VAR} в файле подставляются до разбора
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	cfg := defaults()
	if _, err := toml.Decode(os.ExpandEnv(string(data)), cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:                 "localhost",
			Port:                 5432,
			SSLMode:              "disable",
			MaxOpenConns:         25,
			MaxIdleConns:         5,
			ConnMaxLifetime:      300,
			SerializationRetries: 3,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "court-booking",
		},
		UserService: UserServiceConfig{Timeout: 5},
		AMQP: AMQPConfig{
			Exchange:   "court-booking",
			RoutingKey: "booking.confirmed",
		},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Cache:   CacheConfig{TTLSeconds: 300},
		Booking: BookingConfig{Timezone: domain.DefaultTimezone, PageSize: domain.DefaultPageSize},
		Pricing: PricingConfig{GapBoundary: string(domain.GapBoundaryRule)},
	}
}

// applyEnv секреты и адреса переопределяются переменными окружения
func applyEnv(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"DB_PASSWORD", &cfg.Database.Password},
		{"JWT_SECRET", &cfg.Auth.JWTSecret},
		{"AMQP_URL", &cfg.AMQP.URL},
		{"REDIS_ADDR", &cfg.Redis.Addr},
		{"REDIS_PASSWORD", &cfg.Redis.Password},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.dst = v
		}
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalid, c.Server.HTTPPort)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalid)
	}
	if c.Database.SerializationRetries < 0 {
		return fmt.Errorf("%w: database.serialization_retries must not be negative", ErrInvalid)
	}
	if c.Auth.JWTSecret == "" && !c.Auth.AllowHeaderIdentity {
		return fmt.Errorf("%w: auth.jwt_secret is required unless auth.allow_header_identity is set", ErrInvalid)
	}
	if c.AMQP.Enabled && c.AMQP.URL == "" {
		return fmt.Errorf("%w: amqp.url is required when amqp is enabled", ErrInvalid)
	}
	if c.AMQP.Enabled && c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required when amqp is enabled", ErrInvalid)
	}
	if c.Redis.Enabled && c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must be positive", ErrInvalid)
	}
	if c.Booking.PageSize <= 0 {
		return fmt.Errorf("%w: booking.page_size must be positive", ErrInvalid)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone=%q: %v", ErrInvalid, c.Booking.Timezone, err)
	}
	switch domain.GapBoundary(c.Pricing.GapBoundary) {
	case domain.GapBoundaryRule, domain.GapBoundaryField:
	default:
		return fmt.Errorf("%w: pricing.gap_boundary=%q", ErrInvalid, c.Pricing.GapBoundary)
	}
	return nil
}
