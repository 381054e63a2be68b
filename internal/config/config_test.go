package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WorkerID != "render-1" {
		t.Errorf("WorkerID = %q, want %q", cfg.WorkerID, "render-1")
	}
	if cfg.StreamKey != "render.work" {
		t.Errorf("StreamKey = %q, want %q", cfg.StreamKey, "render.work")
	}
	if cfg.ResultStream != "render.done" {
		t.Errorf("ResultStream = %q, want %q", cfg.ResultStream, "render.done")
	}
	if cfg.BlockTime != time.Second {
		t.Errorf("BlockTime = %v, want %v", cfg.BlockTime, time.Second)
	}
	if !cfg.CELEnabled {
		t.Error("CELEnabled = false, want true")
	}
	if cfg.ErrorStream() != "render.done.errors" {
		t.Errorf("ErrorStream() = %q", cfg.ErrorStream())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WORKER_ID", "render-7")
	t.Setenv("REDIS_PASS", "secret")
	t.Setenv("TEMPLATE_ROOT", "/srv/templates")
	t.Setenv("BLOCK_TIME", "250ms")
	t.Setenv("CEL_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WorkerID != "render-7" || cfg.TemplateRoot != "/srv/templates" {
		t.Errorf("Load() = %s", cfg)
	}
	if cfg.BlockTime != 250*time.Millisecond {
		t.Errorf("BlockTime = %v, want 250ms", cfg.BlockTime)
	}
	if cfg.CELEnabled {
		t.Error("CELEnabled = true, want false")
	}
	if strings.Contains(cfg.String(), "secret") {
		t.Errorf("String() leaks the Redis password: %s", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			WorkerID:      "render-1",
			RedisAddr:     "localhost:6379",
			StreamKey:     "render.work",
			ConsumerGroup: "render-workers",
			ResultStream:  "render.done",
			BlockTime:     time.Second,
			HealthPort:    8083,
			LogLevel:      "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing worker id", mutate: func(c *Config) { c.WorkerID = "" }, wantErr: "WORKER_ID"},
		{name: "missing redis", mutate: func(c *Config) { c.RedisAddr = "" }, wantErr: "REDIS_ADDR"},
		{name: "same streams", mutate: func(c *Config) { c.ResultStream = c.StreamKey }, wantErr: "RESULT_STREAM"},
		{name: "zero block time", mutate: func(c *Config) { c.BlockTime = 0 }, wantErr: "BLOCK_TIME"},
		{name: "bad port", mutate: func(c *Config) { c.HealthPort = 70000 }, wantErr: "HEALTH_PORT"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
