package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
)

type Config struct {
	Server ServerConfig  `envPrefix:"SERVER_"`
	Log    logger.Config `envPrefix:"LOG_"`
	TNT    VendorConfig  `envPrefix:"TNT_"`
	Sale   SaleConfig    `envPrefix:"SALE_"`
}

type ServerConfig struct {
	Addr         string `env:"ADDR" envDefault:":8080" validate:"required"`
	PprofEnabled bool   `env:"PPROF_ENABLED" envDefault:"false"`

	// CORSOrigins is a regular expression of allowed browser origins. Empty
	// disables CORS headers.
	CORSOrigins string `env:"CORS_ORIGINS"`

	// StatsdAddr enables per-route statsd timings when set.
	StatsdAddr string `env:"STATSD_ADDR"`
}

// VendorConfig tunes one vendor adapter and its session.
type VendorConfig struct {
	BaseURL              string        `env:"BASE_URL" envDefault:"https://www.tntsupermarket.com/rest/V1" validate:"required,url"`
	PageSize             int           `env:"PAGE_SIZE" envDefault:"25" validate:"gte=1,lte=500"`
	LocationPrefixLength int           `env:"LOCATION_PREFIX_LENGTH" envDefault:"3" validate:"gte=1"`
	Timeout              time.Duration `env:"TIMEOUT" envDefault:"15s" validate:"gt=0"`
	UserAgent            string        `env:"USER_AGENT"`
	RequestsPerSecond    float64       `env:"REQUESTS_PER_SECOND" envDefault:"0" validate:"gte=0"`
	Burst                int           `env:"BURST" envDefault:"1" validate:"gte=0"`
	Retries              int           `env:"RETRIES" envDefault:"0" validate:"gte=0,lte=10"`
	Cookies              bool          `env:"COOKIES" envDefault:"true"`
}

type SaleConfig struct {
	// DefaultLocation is used when a request names no location.
	DefaultLocation string          `env:"DEFAULT_LOCATION"`
	SweepTimeout    time.Duration   `env:"SWEEP_TIMEOUT" envDefault:"30s" validate:"gte=0"`
	Publisher       PublisherConfig `envPrefix:"PUBLISHER_"`
}

type PublisherConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Brokers      []string      `env:"BROKERS" envDefault:"localhost:9092" envSeparator:"," validate:"required_if=Enabled true"`
	Topic        string        `env:"TOPIC" envDefault:"grocery.sales" validate:"required_if=Enabled true"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"100ms"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
