package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Fraud     FraudConfig     `koanf:"fraud"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled           bool `koanf:"enabled"`
	RequestsPerMinute int  `koanf:"requests_per_minute"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string        `koanf:"url"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type TelemetryConfig struct {
	Enabled       bool          `koanf:"enabled"`
	OTLPEndpoint  string        `koanf:"otlp_endpoint"`
	SamplingRate  float64       `koanf:"sampling_rate"`
	ExportTimeout time.Duration `koanf:"export_timeout"`
	BatchTimeout  time.Duration `koanf:"batch_timeout"`
}

// FraudConfig carries the scoring thresholds and detector windows as named
// configuration. The defaults are the production values; tests rely on them.
type FraudConfig struct {
	HighReturnRateThreshold    float64 `koanf:"high_return_rate_threshold"`
	RecentReturnsThreshold     int     `koanf:"recent_returns_threshold"`
	HighValueReturnThreshold   float64 `koanf:"high_value_return_threshold"`
	SuspiciousReasonsThreshold int     `koanf:"suspicious_reasons_threshold"`

	MassReturnWindowDays int     `koanf:"mass_return_window_days"`
	MassReturnMinCount   int     `koanf:"mass_return_min_count"`
	RingMinCustomers     int     `koanf:"ring_min_customers"`
	RingMinAvgReturnRate float64 `koanf:"ring_min_avg_return_rate"`
	AbuseMinReturns      int     `koanf:"abuse_min_returns"`
	AbuseMinReturnRate   float64 `koanf:"abuse_min_return_rate"`

	SignalFetchLimit int `koanf:"signal_fetch_limit"`
}

type AnalyticsConfig struct {
	ProfileWorkers  int `koanf:"profile_workers"`
	ExportMaxRecords int `koanf:"export_max_records"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 300,
			},
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			DB:       0,
			CacheTTL: 60 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			OTLPEndpoint:  "localhost:4317",
			SamplingRate:  0.1,
			ExportTimeout: 30 * time.Second,
			BatchTimeout:  5 * time.Second,
		},
		Fraud:     DefaultFraudConfig(),
		Analytics: AnalyticsConfig{
			ProfileWorkers:  8,
			ExportMaxRecords: 10000,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Config file is optional
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("RFA_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "RFA_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// DefaultFraudConfig returns the production scoring thresholds
func DefaultFraudConfig() FraudConfig {
	return FraudConfig{
		HighReturnRateThreshold:    0.30,
		RecentReturnsThreshold:     5,
		HighValueReturnThreshold:   500,
		SuspiciousReasonsThreshold: 2,
		MassReturnWindowDays:       7,
		MassReturnMinCount:         3,
		RingMinCustomers:           3,
		RingMinAvgReturnRate:       0.20,
		AbuseMinReturns:            5,
		AbuseMinReturnRate:         0.40,
		SignalFetchLimit:           1000,
	}
}
