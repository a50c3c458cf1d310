package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvVars struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	Port     int    `envconfig:"PORT" default:"9090"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Chat-completion endpoint (OpenAI compatible)
	APIURL     string        `envconfig:"OPENAI_API_URL" default:"https://api.deepseek.com"`
	APIKey     string        `envconfig:"OPENAI_API_KEY" required:"true"`
	LLMTimeout time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`

	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`
	PageTTL            time.Duration `envconfig:"PAGE_TTL" default:"30m"`

	// vacío = prompt embebido por defecto
	PromptFile string `envconfig:"PROMPT_FILE"`
	Clipboard  string `envconfig:"CLIPBOARD" default:"system"`
}

// LoadEnv reads an optional .env file from the working directory and then
// the process environment. Values already set in the environment win.
func LoadEnv(files ...string) (*EnvVars, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	if strings.TrimSpace(v.APIKey) == "" {
		return nil, errors.New("OPENAI_API_KEY is empty")
	}
	if v.Clipboard != "system" && v.Clipboard != "none" {
		return nil, fmt.Errorf("CLIPBOARD must be system or none, got %q", v.Clipboard)
	}
	return &v, nil
}
