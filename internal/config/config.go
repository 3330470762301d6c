package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds server settings sourced from the environment.
type Config struct {
	Addr        string `env:"LIFEQUESTS_ADDR" envDefault:":8420"`
	DataDir     string `env:"LIFEQUESTS_DATA_DIR" envDefault:"data"`
	DBPath      string `env:"LIFEQUESTS_DB_PATH"`
	BalancePath string `env:"LIFEQUESTS_BALANCE_PATH"`

	// Text-generation collaborator. Empty key disables the client and the
	// narrator falls back to canned lines.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
}

// FromEnv parses server configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}

// LoadBalance reads balance overrides from a YAML file. A missing path (or
// empty string) returns the defaults so a bare checkout runs without setup.
func LoadBalance(path string) (Balance, error) {
	b := Default()
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return b, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse balance file: %w", err)
	}
	return b, nil
}
