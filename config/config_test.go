package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	cfg := LoadConfig()

	if cfg.ServerPort != 8080 {
		t.Fatalf("unexpected server port: %d", cfg.ServerPort)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.JWT.AccessTTL != time.Hour || cfg.JWT.RefreshTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %v / %v", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	}
	if cfg.VacancyWritePolicy != VacancyWritesOpen {
		t.Fatalf("expected open vacancy policy, got %q", cfg.VacancyWritePolicy)
	}
	if cfg.MQ.Backend != "" {
		t.Fatalf("expected mq disabled by default, got %q", cfg.MQ.Backend)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("JWT_REFRESH_TTL", "garbage")
	t.Setenv("CORS_ORIGINS", "https://a.example/, https://b.example ,")
	t.Setenv("VACANCY_WRITE_POLICY", "OWNER")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example/media/")

	cfg := LoadConfig()

	if cfg.ServerPort != 9090 {
		t.Fatalf("unexpected server port: %d", cfg.ServerPort)
	}
	if !cfg.Database.UseSSL {
		t.Fatalf("expected ssl enabled")
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 24*time.Hour {
		t.Fatalf("invalid duration should fall back to default, got %v", cfg.JWT.RefreshTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.VacancyWritePolicy != VacancyWritesOwner {
		t.Fatalf("expected owner policy, got %q", cfg.VacancyWritePolicy)
	}
	if cfg.Storage.PublicBaseURL != "https://cdn.example/media" {
		t.Fatalf("unexpected media base url: %q", cfg.Storage.PublicBaseURL)
	}
}
