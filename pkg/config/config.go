package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"SmallCapLab/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	QuoteSourceFMP        = "fmp"
	QuoteSourceClickHouse = "clickhouse"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
		// Aggregated error logs are shipped to Kafka when a topic is set.
		CollectTopic    string        `yaml:"collect_topic"`
		CollectInterval time.Duration `yaml:"collect_interval" default:"30s"`
		CollectCount    int           `yaml:"collect_count" default:"100"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	FMP struct {
		APIKey  string        `yaml:"api_key" default:"demo"`
		BaseURL string        `yaml:"base_url" default:"https://financialmodelingprep.com"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"fmp"`
	Quotes struct {
		Source       string        `yaml:"source" default:"fmp"`
		Exchanges    []string      `yaml:"exchanges" default:"[\"NASDAQ\",\"NYSE\",\"AMEX\"]"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"20s"`
		// Upstream request budget shared by all exchanges.
		RatePerSecond float64 `yaml:"rate_per_second" default:"5"`
		RateBurst     int     `yaml:"rate_burst" default:"3"`
		Breaker       struct {
			MaxFailures uint32        `yaml:"max_failures" default:"3"`
			OpenTimeout time.Duration `yaml:"open_timeout" default:"30s"`
		} `yaml:"breaker"`
		Table string `yaml:"table" default:"smallcap.quote_snapshots"`
	} `yaml:"quotes"`
	Screen struct {
		CacheTTL time.Duration `yaml:"cache_ttl" default:"60s"`
	} `yaml:"screen"`
	Regime struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout" default:"3s"`
		Lookback   int           `yaml:"lookback" default:"250"`
		Table      string        `yaml:"table" default:"smallcap.daily_candles"`
	} `yaml:"regime"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"smallcap"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"smallcap"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		RequiredAcks int           `yaml:"required_acks" default:"1"`
		Compression  string        `yaml:"compression" default:"snappy"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	RateLimit struct {
		Screen struct {
			Burst     int     `yaml:"burst" default:"5"`
			PerSecond float64 `yaml:"per_second" default:"1"`
		} `yaml:"screen"`
		Signal struct {
			Burst     int     `yaml:"burst" default:"20"`
			PerSecond float64 `yaml:"per_second" default:"10"`
		} `yaml:"signal"`
	} `yaml:"ratelimit"`
}

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads an optional .env file, then the YAML file, then applies
// environment overrides. A missing YAML file is not an error; defaults and the
// environment are enough to run.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		if c, err = Default(); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		c.FMP.APIKey = v
	}
	if v := os.Getenv("FMP_BASE_URL"); v != "" {
		c.FMP.BaseURL = v
	}
	if v := os.Getenv("QUOTE_SOURCE"); v != "" {
		c.Quotes.Source = v
	}
	if v := os.Getenv("SCREEN_EXCHANGES"); v != "" {
		c.Quotes.Exchanges = util.SplitCSV(v)
	}
	if v := os.Getenv("REGIME_SERVICE_URL"); v != "" {
		c.Regime.ServiceURL = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	c.Redis.DB = util.ParseIntDefault(os.Getenv("REDIS_DB"), c.Redis.DB)
	c.Quotes.RatePerSecond = util.ParseFloatDefault(os.Getenv("QUOTES_RATE_PER_SECOND"), c.Quotes.RatePerSecond)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitCSV(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Quotes.Source {
	case QuoteSourceFMP:
		if c.FMP.APIKey == "" {
			return fmt.Errorf("fmp.api_key is required for the fmp quote source")
		}
		if c.FMP.BaseURL == "" {
			return fmt.Errorf("fmp.base_url is required for the fmp quote source")
		}
	case QuoteSourceClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for the clickhouse quote source")
		}
	default:
		return fmt.Errorf("quotes.source must be '%s' or '%s', got '%s'", QuoteSourceFMP, QuoteSourceClickHouse, c.Quotes.Source)
	}
	if len(c.Quotes.Exchanges) == 0 {
		return fmt.Errorf("quotes.exchanges cannot be empty")
	}
	if c.Log.CollectTopic != "" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("log.collect_topic requires kafka.brokers")
	}
	return nil
}
