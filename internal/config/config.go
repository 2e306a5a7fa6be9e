// README: Config loader; reads the process environment (optionally seeded from a .env file) with defaults for HTTP, logging, LLM and suggestion tunables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvFileVar names the variable that overrides the .env location.
const EnvFileVar = "ITINERARY_ENV_FILE"

var ErrMissingAPIKey = errors.New("llm api key is required")

type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

type SuggestConfig struct {
	MinPlaces  int
	MatchRatio float64
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Log struct {
		Level  string
		Format string
	}
	LLM     LLMConfig
	Suggest SuggestConfig
}

// Load reads configuration once at start-up. A missing credential for the selected
// provider is an error so the process fails before serving traffic.
func Load() (Config, error) {
	if err := loadEnvFile(os.Getenv(EnvFileVar)); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ITINERARY_HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ITINERARY_LLM_PROVIDER", "groq")
	v.SetDefault("ITINERARY_LLM_TEMPERATURE", 0.0)
	v.SetDefault("ITINERARY_LLM_TIMEOUT", "60s")
	v.SetDefault("ITINERARY_MIN_PLACES", 20)
	v.SetDefault("ITINERARY_MATCH_RATIO", 0.7)

	var cfg Config
	cfg.HTTP.Addr = v.GetString("ITINERARY_HTTP_ADDR")
	cfg.Log.Level = strings.ToLower(v.GetString("LOG_LEVEL"))
	cfg.Log.Format = strings.ToLower(v.GetString("LOG_FORMAT"))

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v.GetString("ITINERARY_LLM_PROVIDER")))
	cfg.LLM.Model = v.GetString("ITINERARY_LLM_MODEL")
	cfg.LLM.BaseURL = v.GetString("ITINERARY_LLM_BASE_URL")
	cfg.LLM.Temperature = float32(v.GetFloat64("ITINERARY_LLM_TEMPERATURE"))
	cfg.LLM.Timeout = v.GetDuration("ITINERARY_LLM_TIMEOUT")

	switch cfg.LLM.Provider {
	case "groq":
		cfg.LLM.APIKey = v.GetString("GROQ_API_KEY")
	case "gemini":
		cfg.LLM.APIKey = v.GetString("GEMINI_API_KEY")
	default:
		return Config{}, fmt.Errorf("config: unsupported ITINERARY_LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	cfg.Suggest.MinPlaces = v.GetInt("ITINERARY_MIN_PLACES")
	cfg.Suggest.MatchRatio = v.GetFloat64("ITINERARY_MATCH_RATIO")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("config: %w: set %s", ErrMissingAPIKey, c.apiKeyVar())
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config: ITINERARY_LLM_TIMEOUT must be positive, got %s", c.LLM.Timeout)
	}
	if c.LLM.Temperature < 0 {
		return fmt.Errorf("config: ITINERARY_LLM_TEMPERATURE must not be negative, got %v", c.LLM.Temperature)
	}
	if c.Suggest.MinPlaces < 1 {
		return fmt.Errorf("config: ITINERARY_MIN_PLACES must be at least 1, got %d", c.Suggest.MinPlaces)
	}
	if c.Suggest.MatchRatio < 0 || c.Suggest.MatchRatio > 1 {
		return fmt.Errorf("config: ITINERARY_MATCH_RATIO must be within [0,1], got %v", c.Suggest.MatchRatio)
	}
	return nil
}

func (c Config) apiKeyVar() string {
	if c.LLM.Provider == "gemini" {
		return "GEMINI_API_KEY"
	}
	return "GROQ_API_KEY"
}

// loadEnvFile seeds the environment from path, or from ./.env when path is empty.
// Variables already set in the environment win. An explicit path must exist.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load .env: %w", err)
	}
	return nil
}
