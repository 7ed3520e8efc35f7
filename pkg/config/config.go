package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"StockPulse/pkg/util"

	"gopkg.in/yaml.v3"
)

const (
	MarketDataAlphaVantage = "alphavantage"
	MarketDataYahoo        = "yahoo"

	NewsProviderNewsAPI    = "newsapi"
	NewsProviderGoogleNews = "googlenews"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"`
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		RedisEnabled bool `yaml:"redis_enabled"`
		Redis        struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			PoolSize     int           `yaml:"pool_size"`
			MinIdleConns int           `yaml:"min_idle_conns"`
			PoolTimeout  time.Duration `yaml:"pool_timeout"`
		} `yaml:"redis"`
		TTL struct {
			Signal  time.Duration `yaml:"signal"`
			News    time.Duration `yaml:"news"`
			Bars    time.Duration `yaml:"bars"`
			Profile time.Duration `yaml:"profile"`
		} `yaml:"ttl"`
	} `yaml:"cache"`
	Queue struct {
		Workers    int           `yaml:"workers"`
		QueueSize  int           `yaml:"queue_size"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"queue"`
	Providers struct {
		MarketData struct {
			Provider       string        `yaml:"provider"`
			RequestTimeout time.Duration `yaml:"request_timeout"`
			AlphaVantage   struct {
				APIKey     string `yaml:"api_key"`
				BaseURL    string `yaml:"base_url"`
				OutputSize string `yaml:"output_size"`
			} `yaml:"alpha_vantage"`
		} `yaml:"market_data"`
		News struct {
			Provider       string        `yaml:"provider"`
			RequestTimeout time.Duration `yaml:"request_timeout"`
			NewsAPI        struct {
				APIKey       string `yaml:"api_key"`
				BaseURL      string `yaml:"base_url"`
				LookbackDays int    `yaml:"lookback_days"`
			} `yaml:"news_api"`
		} `yaml:"news"`
		Finnhub struct {
			APIKey         string        `yaml:"api_key"`
			BaseURL        string        `yaml:"base_url"`
			RequestTimeout time.Duration `yaml:"request_timeout"`
		} `yaml:"finnhub"`
	} `yaml:"providers"`
	Signals struct {
		Symbols         []string      `yaml:"symbols"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		AutoRefresh     bool          `yaml:"auto_refresh"`
		HistoryBars     int           `yaml:"history_bars"`
		NewsLimit       int           `yaml:"news_limit"`
		Weights         struct {
			Sentiment  float64 `yaml:"sentiment"`
			PriceTrend float64 `yaml:"price_trend"`
			Volume     float64 `yaml:"volume"`
			Volatility float64 `yaml:"volatility"`
		} `yaml:"weights"`
		Thresholds struct {
			Score           float64 `yaml:"score"`
			Sentiment       float64 `yaml:"sentiment"`
			PriceTrend      float64 `yaml:"price_trend"`
			Volume          float64 `yaml:"volume"`
			VolatilityTrend float64 `yaml:"volatility_trend"`
		} `yaml:"thresholds"`
	} `yaml:"signals"`
	Alerts struct {
		Enabled       bool    `yaml:"enabled"`
		MinConfidence float64 `yaml:"min_confidence"`
	} `yaml:"alerts"`
}

// RedisAddr composes the cache Redis address as host:port.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Cache.Redis.Host, c.Cache.Redis.Port)
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.Providers.MarketData.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.Providers.News.NewsAPI.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Providers.Finnhub.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Signals.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if host, port, err := net.SplitHostPort(v); err == nil {
			c.Cache.Redis.Host = host
			c.Cache.Redis.Port = util.ParseIntDefault(port, c.Cache.Redis.Port)
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}

	// Overrides can break invariants the file satisfied
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		return fmt.Errorf("backend.type is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if len(c.Signals.Symbols) == 0 {
		return fmt.Errorf("signals.symbols cannot be empty")
	}
	switch c.Providers.MarketData.Provider {
	case MarketDataAlphaVantage:
		if c.Providers.MarketData.AlphaVantage.APIKey == "" {
			return fmt.Errorf("providers.market_data.alpha_vantage.api_key is required for the alphavantage provider")
		}
	case MarketDataYahoo:
	default:
		return fmt.Errorf("providers.market_data.provider must be '%s' or '%s', got '%s'",
			MarketDataAlphaVantage, MarketDataYahoo, c.Providers.MarketData.Provider)
	}
	switch c.Providers.News.Provider {
	case NewsProviderNewsAPI:
		if c.Providers.News.NewsAPI.APIKey == "" {
			return fmt.Errorf("providers.news.news_api.api_key is required for the newsapi provider")
		}
	case NewsProviderGoogleNews:
	default:
		return fmt.Errorf("providers.news.provider must be '%s' or '%s', got '%s'",
			NewsProviderNewsAPI, NewsProviderGoogleNews, c.Providers.News.Provider)
	}
	return nil
}
