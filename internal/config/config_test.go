package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
redis:
  addr: localhost:6379
  db: 2
sqlite:
  path: quizzes.db
presentation:
  ttl: 30m
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUIZ_REDIS_ADDR", "redis:6380")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.DB != 2 || cfg.SQLite.Path != "quizzes.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "redis:6380" {
		t.Fatalf("expected env override, got %q", cfg.Redis.Addr)
	}
	if got := TTLDuration(cfg.Presentation.TTL, time.Minute); got != 30*time.Minute {
		t.Fatalf("presentation ttl = %v", got)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("QUIZ_POSTGRES_URL", "postgres://quiz@localhost/quiz")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Postgres.URL != "postgres://quiz@localhost/quiz" {
		t.Fatalf("expected postgres url from env, got %q", cfg.Postgres.URL)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("QUIZ_REDIS_DB", "not-a-number")

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for invalid QUIZ_REDIS_DB")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty: %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("invalid: %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("valid: %v", got)
	}
}
