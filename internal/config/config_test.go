package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":8000" {
		t.Fatalf("http.addr=%q, want :8000", cfg.HTTP.Addr)
	}
	if cfg.HTTP.StrictStatus {
		t.Fatalf("strict_status must default to false")
	}
	if cfg.Broker.Driver != "eventhub" {
		t.Fatalf("broker.driver=%q, want eventhub", cfg.Broker.Driver)
	}
	if cfg.Broker.MaxMessageBytes != 1<<20 {
		t.Fatalf("broker.max_message_bytes=%d, want %d", cfg.Broker.MaxMessageBytes, 1<<20)
	}
	if cfg.Broker.PublishTimeout != 10*time.Second {
		t.Fatalf("broker.publish_timeout=%s, want 10s", cfg.Broker.PublishTimeout)
	}
	if !cfg.HTTP.CORS.AllowCredentials || len(cfg.HTTP.CORS.AllowOrigins) != 1 || cfg.HTTP.CORS.AllowOrigins[0] != "*" {
		t.Fatalf("unexpected cors defaults: %+v", cfg.HTTP.CORS)
	}
	if cfg.EventHub.Port != 9093 {
		t.Fatalf("eventhub.port=%d, want 9093", cfg.EventHub.Port)
	}
}

func TestLoad_EventHubEnv(t *testing.T) {
	t.Setenv(EnvEventHubConnStr, "Endpoint=sb://ns.servicebus.windows.net/;SharedAccessKeyName=k;SharedAccessKey=s")
	t.Setenv(EnvEventHubName, "telemetry")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EventHub.Name != "telemetry" {
		t.Fatalf("eventhub.name=%q, want telemetry", cfg.EventHub.Name)
	}
	if cfg.EventHub.ConnectionString == "" {
		t.Fatalf("eventhub.connection_string not bound from %s", EnvEventHubConnStr)
	}
}

func TestLoad_PrefixedEnvOverride(t *testing.T) {
	t.Setenv("EVGW_BROKER_DRIVER", "redis")
	t.Setenv("EVGW_HTTP_STRICT_STATUS", "true")
	t.Setenv("EVGW_REDIS_STREAM", "ingest")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Broker.Driver != "redis" {
		t.Fatalf("broker.driver=%q, want redis", cfg.Broker.Driver)
	}
	if !cfg.HTTP.StrictStatus {
		t.Fatalf("strict_status not overridden")
	}
	if cfg.Redis.Stream != "ingest" {
		t.Fatalf("redis.stream=%q, want ingest", cfg.Redis.Stream)
	}
}

func TestLoad_MergesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("http:\n  addr: \":9999\"\nnats:\n  subject: \"ingest.events\"\n  jetstream: true\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Fatalf("http.addr=%q, want :9999", cfg.HTTP.Addr)
	}
	if cfg.NATS.Subject != "ingest.events" || !cfg.NATS.JetStream {
		t.Fatalf("nats not merged: %+v", cfg.NATS)
	}
	// untouched keys keep their defaults
	if cfg.Broker.Driver != "eventhub" {
		t.Fatalf("broker.driver=%q, want eventhub", cfg.Broker.Driver)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("EVENT_HUB_NAME=from-dotenv\nEVGW_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	// already-set variables must not be overridden
	t.Setenv(EnvEventHubName, "from-env")
	t.Setenv("EVGW_LOG_LEVEL", "")
	os.Unsetenv("EVGW_LOG_LEVEL")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv(EnvEventHubName); got != "from-env" {
		t.Fatalf("%s=%q, want from-env", EnvEventHubName, got)
	}
	if got := os.Getenv("EVGW_LOG_LEVEL"); got != "debug" {
		t.Fatalf("EVGW_LOG_LEVEL=%q, want debug", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}
