package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml.
// Например PETSHOP_DATABASE_PASSWORD, PETSHOP_RABBITMQ_URL
const EnvPrefix = "PETSHOP"

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Jobs       JobsConfig       `toml:"jobs"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name" split_words:"true"`
	Path        string `toml:"path"`
}

// RabbitMQConfig события о записях и платежах
type RabbitMQConfig struct {
	Enabled         bool   `toml:"enabled"`
	URL             string `toml:"url"`
	Exchange        string `toml:"exchange"`                            // куда публикуются appointment.*
	PaymentExchange string `toml:"payment_exchange" split_words:"true"` // откуда приходит payment.succeeded
	PaymentQueue    string `toml:"payment_queue" split_words:"true"`
	Prefetch        int    `toml:"prefetch"`
}

// SchedulingConfig параметры записи
type SchedulingConfig struct {
	SlotStepMinutes         int `toml:"slot_step_minutes" split_words:"true"`
	MinBookingNoticeMinutes int `toml:"min_booking_notice_minutes" split_words:"true"`
	AdvanceBookingDays      int `toml:"advance_booking_days" split_words:"true"` // 0 - без ограничений
}

// MinBookingNotice минимальное время до начала записи
func (s SchedulingConfig) MinBookingNotice() time.Duration {
	return time.Duration(s.MinBookingNoticeMinutes) * time.Minute
}

// JobsConfig фоновые задачи
type JobsConfig struct {
	CompletionSpec    string `toml:"completion_spec" split_words:"true"`    // cron или "@every 5m", пусто - выключено
	CompletionTimeout int    `toml:"completion_timeout" split_words:"true"` // секунды
}

// Load читает path, затем .env (если есть) и переменные окружения PETSHOP_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения, которые не обязательно указывать в config.toml
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			ServiceName: "petshop-service",
			Path:        "/metrics",
		},
		RabbitMQ: RabbitMQConfig{
			Exchange:        "petshop.exchange",
			PaymentExchange: "payment.exchange",
			PaymentQueue:    "petshop.payment.q",
			Prefetch:        16,
		},
		Scheduling: SchedulingConfig{SlotStepMinutes: 30},
		Jobs: JobsConfig{
			CompletionSpec:    "@every 5m",
			CompletionTimeout: 30,
		},
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("config: database.dbname and database.user are required")
	}
	if c.Scheduling.SlotStepMinutes <= 0 {
		return fmt.Errorf("config: scheduling.slot_step_minutes must be positive")
	}
	if c.Scheduling.MinBookingNoticeMinutes < 0 || c.Scheduling.AdvanceBookingDays < 0 {
		return fmt.Errorf("config: scheduling values must not be negative")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("config: rabbitmq.url is required when rabbitmq is enabled")
	}
	return nil
}
