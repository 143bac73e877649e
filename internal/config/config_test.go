package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/courtside/club-stats-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
app:
  name: club-stats-service
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json

postgres:
  host: 127.0.0.1
  port: 5432
  db: clubstats

query:
  max_result_groups: 50
`
	path := writeTempConfig(t, yaml)
	t.Setenv("APP_AUTH_JWT_SECRET", "from-env")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Port != 18080 {
		t.Fatalf("port = %d", cfg.App.Port)
	}
	if cfg.Postgres.DBName != "clubstats" {
		t.Fatalf("db = %q", cfg.Postgres.DBName)
	}
	if cfg.Query.MaxResultGroups != 50 {
		t.Fatalf("max_result_groups = %d", cfg.Query.MaxResultGroups)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("jwt secret not taken from env: %q", cfg.Auth.JWTSecret)
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	path := writeTempConfig(t, "app:\n  env: test\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("default port = %d", cfg.App.Port)
	}
	if cfg.Query.MaxResultGroups != 1000 || cfg.Query.TimeoutSeconds != 10 {
		t.Fatalf("query defaults = %+v", cfg.Query)
	}
	if cfg.Auth.TokenTTLMinutes != 60 {
		t.Fatalf("token ttl default = %d", cfg.Auth.TokenTTLMinutes)
	}
}

func TestConfigLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
