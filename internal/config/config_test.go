package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("AI_PROVIDER")
	os.Unsetenv("CACHE_PATH")
	os.Unsetenv("PORT")

	cfg := Load()

	if cfg.Provider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", cfg.Provider)
	}
	if cfg.CachePath != "photopair-cache.db" {
		t.Errorf("unexpected default cache path %q", cfg.CachePath)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
}

func TestLoad_EmbeddedModels(t *testing.T) {
	cfg := Load()

	for _, provider := range []string{"gemini", "openai"} {
		pair := cfg.ModelsFor(provider)
		if pair.Primary == "" || pair.Fallback == "" {
			t.Errorf("provider %s must have primary and fallback models, got %+v", provider, pair)
		}
	}
	if cfg.Models.BatchSize != 10 {
		t.Errorf("expected batch size 10, got %d", cfg.Models.BatchSize)
	}
	if cfg.Models.Retry.MaxAttempts != 3 {
		t.Errorf("expected 3 max attempts, got %d", cfg.Models.Retry.MaxAttempts)
	}
	if cfg.Models.Consensus.Rounds != 3 {
		t.Errorf("expected 3 consensus rounds, got %d", cfg.Models.Consensus.Rounds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("PORT", "9999")

	cfg := Load()

	if cfg.Provider != "openai" {
		t.Errorf("expected provider override, got %q", cfg.Provider)
	}
	if cfg.Web.Port != 9999 {
		t.Errorf("expected port override, got %d", cfg.Web.Port)
	}
}

func TestEnvInt_Invalid(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if got := envInt("PORT", 8080); got != 8080 {
		t.Errorf("invalid value must fall back to default, got %d", got)
	}

	t.Setenv("PORT", "-5")
	if got := envInt("PORT", 8080); got != 8080 {
		t.Errorf("negative value must fall back to default, got %d", got)
	}
}

func TestTemperatureFor(t *testing.T) {
	c := ConsensusConfig{Temperatures: []float64{0, 0.4, 0.8}}

	cases := []struct {
		round int
		want  float64
	}{
		{0, 0},
		{1, 0.4},
		{2, 0.8},
		{5, 0.8}, // beyond the list holds the last value
		{-1, 0},
	}
	for _, tc := range cases {
		if got := c.TemperatureFor(tc.round); got != tc.want {
			t.Errorf("round %d: expected %v, got %v", tc.round, tc.want, got)
		}
	}

	var empty ConsensusConfig
	if empty.TemperatureFor(0) != 0 {
		t.Error("empty temperature list must default to 0")
	}
}

func TestRemarkAllowed(t *testing.T) {
	cfg := Load()

	if !cfg.RemarkAllowed("着工前") {
		t.Error("allowlisted remark must qualify")
	}
	if cfg.RemarkAllowed("その他") {
		t.Error("unlisted remark must not qualify")
	}
	if cfg.RemarkAllowed("") {
		t.Error("empty remark must not qualify")
	}
}
