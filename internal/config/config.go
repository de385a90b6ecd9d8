package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/CTR-HoldService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig      `toml:"server"`
	Database            DatabaseConfig    `toml:"database"`
	Logs                LogsConfig        `toml:"logs"`
	Metrics             MetricsConfig     `toml:"metrics"`
	Sweeper             SweeperConfig     `toml:"sweeper"`
	Holds               HoldsConfig       `toml:"holds"`
	PricingService      IntegrationConfig `toml:"pricing_service"`
	AgreementService    IntegrationConfig `toml:"agreement_service"`
	NotificationService IntegrationConfig `toml:"notification_service"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig конфигурация подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig конфигурация логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig конфигурация метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// SweeperConfig конфигурация фонового обработчика дедлайнов
type SweeperConfig struct {
	IntervalSeconds int    `toml:"interval_seconds"`
	BatchSize       uint64 `toml:"batch_size"`
}

// Interval возвращает интервал между tick'ами sweeper'а
func (c *SweeperConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// HoldsConfig временные окна lifecycle hold'ов
type HoldsConfig struct {
	SigningWindowMinutes int `toml:"signing_window_minutes"`
	PaymentWindowMinutes int `toml:"payment_window_minutes"`
	WarningLeadMinutes   int `toml:"warning_lead_minutes"`
	TokenTTLHours        int `toml:"token_ttl_hours"`
}

// Timing конвертирует конфигурацию в доменные тайминги
func (c *HoldsConfig) Timing() domain.HoldTiming {
	return domain.HoldTiming{
		SigningWindow: time.Duration(c.SigningWindowMinutes) * time.Minute,
		PaymentWindow: time.Duration(c.PaymentWindowMinutes) * time.Minute,
		WarningLead:   time.Duration(c.WarningLeadMinutes) * time.Minute,
		TokenTTL:      time.Duration(c.TokenTTLHours) * time.Hour,
	}
}

// IntegrationConfig конфигурация внешнего HTTP сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
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
		Logs: LogsConfig{
			File:  "logs/app.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "ctr-holdservice",
			Path:        "/metrics",
		},
		Sweeper: SweeperConfig{
			IntervalSeconds: 60,
			BatchSize:       100,
		},
		Holds: HoldsConfig{
			SigningWindowMinutes: int(domain.DefaultSigningWindow / time.Minute),
			PaymentWindowMinutes: int(domain.DefaultPaymentWindow / time.Minute),
			WarningLeadMinutes:   int(domain.DefaultWarningLead / time.Minute),
			TokenTTLHours:        int(domain.DefaultTokenTTL / time.Hour),
		},
	}
}

func (c *Config) validate() error {
	if c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database user and dbname are required")
	}
	if c.PricingService.URL == "" {
		return fmt.Errorf("pricing_service.url is required")
	}
	if c.AgreementService.URL == "" {
		return fmt.Errorf("agreement_service.url is required")
	}
	if c.NotificationService.URL == "" {
		return fmt.Errorf("notification_service.url is required")
	}
	if c.Holds.SigningWindowMinutes <= 0 || c.Holds.PaymentWindowMinutes <= 0 {
		return fmt.Errorf("hold windows must be positive")
	}
	if c.Holds.WarningLeadMinutes <= 0 ||
		c.Holds.WarningLeadMinutes >= c.Holds.SigningWindowMinutes ||
		c.Holds.WarningLeadMinutes >= c.Holds.PaymentWindowMinutes {
		return fmt.Errorf("warning lead must be positive and shorter than both hold windows")
	}
	if c.Sweeper.IntervalSeconds <= 0 {
		return fmt.Errorf("sweeper interval must be positive")
	}
	if c.Sweeper.BatchSize == 0 {
		return fmt.Errorf("sweeper batch size must be positive")
	}
	return nil
}
