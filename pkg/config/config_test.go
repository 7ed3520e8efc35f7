package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8090
backend:
  type: clickhouse
cache:
  redis:
    host: localhost
    port: 6379
providers:
  market_data:
    provider: yahoo
  news:
    provider: googlenews
signals:
  symbols: [AAPL, MSFT]
  refresh_interval: 5m
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Environment != "test" {
		t.Fatalf("unexpected environment %q", c.Environment)
	}
	if c.Server.Port != 8090 {
		t.Fatalf("unexpected port %d", c.Server.Port)
	}
	if len(c.Signals.Symbols) != 2 || c.Signals.Symbols[0] != "AAPL" {
		t.Fatalf("unexpected symbols %v", c.Signals.Symbols)
	}
	if c.Signals.RefreshInterval != 5*time.Minute {
		t.Fatalf("unexpected refresh interval %v", c.Signals.RefreshInterval)
	}
	if got := c.RedisAddr(); got != "localhost:6379" {
		t.Fatalf("unexpected redis addr %q", got)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "NVDA,TSLA")
	t.Setenv("PORT", "9999")
	t.Setenv("BACKEND", "kafka")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "demo")

	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Signals.Symbols) != 2 || c.Signals.Symbols[0] != "NVDA" {
		t.Fatalf("unexpected symbols %v", c.Signals.Symbols)
	}
	if c.Server.Port != 9999 {
		t.Fatalf("unexpected port %d", c.Server.Port)
	}
	if c.Backend.Type != "kafka" {
		t.Fatalf("unexpected backend %q", c.Backend.Type)
	}
	if got := c.RedisAddr(); got != "redis:6380" {
		t.Fatalf("unexpected redis addr %q", got)
	}
	if c.Providers.MarketData.AlphaVantage.APIKey != "demo" {
		t.Fatalf("expected api key override")
	}
}

func TestValidateBadBackend(t *testing.T) {
	doc := strings.Replace(validYAML, "type: clickhouse", "type: postgres", 1)
	_, err := Load(writeConfig(t, doc))
	if err == nil || !strings.Contains(err.Error(), "backend.type") {
		t.Fatalf("expected backend.type error, got %v", err)
	}
}

func TestValidateNoSymbols(t *testing.T) {
	doc := strings.Replace(validYAML, "symbols: [AAPL, MSFT]", "symbols: []", 1)
	_, err := Load(writeConfig(t, doc))
	if err == nil || !strings.Contains(err.Error(), "symbols") {
		t.Fatalf("expected symbols error, got %v", err)
	}
}

func TestValidateProviderNeedsKey(t *testing.T) {
	doc := strings.Replace(validYAML, "provider: yahoo", "provider: alphavantage", 1)
	_, err := Load(writeConfig(t, doc))
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api_key error, got %v", err)
	}
}

func TestValidateUnknownNewsProvider(t *testing.T) {
	doc := strings.Replace(validYAML, "provider: googlenews", "provider: rss", 1)
	_, err := Load(writeConfig(t, doc))
	if err == nil || !strings.Contains(err.Error(), "providers.news.provider") {
		t.Fatalf("expected news provider error, got %v", err)
	}
}
