package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_LeagueAPIDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LeagueAPIBaseURL != "https://api.rscna.com/api/v1" {
		t.Fatalf("unexpected LeagueAPIBaseURL: %q", cfg.LeagueAPIBaseURL)
	}
	if cfg.LeagueID != 1 {
		t.Fatalf("unexpected LeagueID: %d", cfg.LeagueID)
	}
	if cfg.LeagueAPITimeout != 20*time.Second {
		t.Fatalf("unexpected LeagueAPITimeout: %s", cfg.LeagueAPITimeout)
	}
	if !cfg.LeagueCircuitEnabled || cfg.LeagueCircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg)
	}
}

func TestLoad_BallchasingConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BALLCHASING_TOKEN", "token-123")
	t.Setenv("BALLCHASING_TIMEOUT", "90s")
	t.Setenv("BALLCHASING_TOP_GROUP_ID", "rsc-top-group")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BallchasingToken != "token-123" {
		t.Fatalf("unexpected BallchasingToken")
	}
	if cfg.BallchasingTimeout != 90*time.Second {
		t.Fatalf("unexpected BallchasingTimeout: %s", cfg.BallchasingTimeout)
	}
	if cfg.BallchasingTopGroupID != "rsc-top-group" {
		t.Fatalf("unexpected BallchasingTopGroupID: %q", cfg.BallchasingTopGroupID)
	}
}

func TestLoad_SweepTimeValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CHECKIN_SWEEP_TIME", "25:99")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed CHECKIN_SWEEP_TIME")
	}
}

func TestLoad_ReplayParseWorkersMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("REPLAY_PARSE_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for REPLAY_PARSE_WORKERS=0")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}
