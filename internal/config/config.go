// Package config loads runtime configuration from environment
// variables plus the embedded models.yaml policy file.
package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

type Config struct {
	// Provider selects the AI backend: "gemini" (default) or "openai".
	Provider string
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	// CachePath is the sqlite analysis cache location.
	CachePath string
	Web       WebConfig
	Models    ModelsConfig
}

type GeminiConfig struct {
	APIKey string
}

type OpenAIConfig struct {
	Token string
}

type WebConfig struct {
	Port int // defaults to 8080
}

// ModelsConfig is the embedded inference policy: which models each
// provider uses, the consensus voting setup and the retry parameters.
type ModelsConfig struct {
	Providers map[string]ModelPair `yaml:"providers"`
	Consensus ConsensusConfig      `yaml:"consensus"`
	Retry     RetryConfig          `yaml:"retry"`
	BatchSize int                  `yaml:"batch_size"`
}

// ModelPair names the primary model and the one to fall back to on
// rate-limit or availability errors.
type ModelPair struct {
	Primary  string `yaml:"primary"`
	Fallback string `yaml:"fallback"`
}

// ConsensusConfig drives the majority-vote station re-read. Each round
// runs at its own sampling temperature so the votes are independent
// reads, not three copies of the same one.
type ConsensusConfig struct {
	Rounds          int       `yaml:"rounds"`
	Temperatures    []float64 `yaml:"temperatures"`
	RemarkAllowlist []string  `yaml:"remark_allowlist"`
}

type RetryConfig struct {
	BaseDelaySeconds int `yaml:"base_delay_seconds"`
	MaxAttempts      int `yaml:"max_attempts"`
}

// envInt reads an environment variable as a positive integer, returning
// the default when unset, empty or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var models ModelsConfig
	if err := yaml.Unmarshal(modelsYAML, &models); err != nil {
		// Embedded file, cannot fail in practice.
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	return &Config{
		Provider: envStr("AI_PROVIDER", "gemini"),
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		CachePath: envStr("CACHE_PATH", "photopair-cache.db"),
		Web: WebConfig{
			Port: envInt("PORT", 8080),
		},
		Models: models,
	}
}

// ModelsFor returns the model pair for a provider. An unknown provider
// gets an empty pair; callers validate the provider name first.
func (c *Config) ModelsFor(provider string) ModelPair {
	return c.Models.Providers[provider]
}

// RemarkAllowed reports whether a remark qualifies for consensus
// station disambiguation.
func (c *Config) RemarkAllowed(remark string) bool {
	for _, allowed := range c.Models.Consensus.RemarkAllowlist {
		if remark == allowed {
			return true
		}
	}
	return false
}

// TemperatureFor returns the sampling temperature for a consensus
// round (0-based), holding the last configured value for any rounds
// beyond the list.
func (c *ConsensusConfig) TemperatureFor(round int) float64 {
	if len(c.Temperatures) == 0 {
		return 0
	}
	if round >= len(c.Temperatures) {
		return c.Temperatures[len(c.Temperatures)-1]
	}
	if round < 0 {
		return c.Temperatures[0]
	}
	return c.Temperatures[round]
}
