package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// configFile is looked up relative to the working directory. When it is
// absent all settings come from the environment.
const configFile = "config.yaml"

// Config holds all runtime configuration for energykg.
// Values come from config.yaml when present, with environment variables
// overriding. Secrets (NEO4J_PASSWORD, LLM_API_KEY) are never read from
// files.
type Config struct {
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// Neo4jConfig holds the graph database connection settings.
type Neo4jConfig struct {
	URI      string `yaml:"uri" env:"NEO4J_URI" env-default:"bolt://localhost:7687"`
	Username string `yaml:"username" env:"NEO4J_USERNAME" env-default:"neo4j"`
	Password string `yaml:"-" env:"NEO4J_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"NEO4J_DATABASE" env-default:"neo4j"`
}

// LLMConfig holds settings for the OpenAI-compatible chat endpoint used
// for intent extraction. When Model is empty the extractor runs in
// rule-based mode only.
type LLMConfig struct {
	BaseURL string `yaml:"base_url" env:"LLM_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"LLM_MODEL" env-default:""`
	APIKey  string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// PipelineConfig holds query pipeline behavior settings.
type PipelineConfig struct {
	// Locale selects the response language, "no" or "en".
	Locale string `yaml:"locale" env:"LOCALE" env-default:"no"`
	// StrictResolver makes unresolvable queries fail instead of
	// degrading to a node-count fallback.
	StrictResolver bool `yaml:"strict_resolver" env:"STRICT_RESOLVER" env-default:"false"`
	// QueryTimeout bounds a single graph query execution.
	QueryTimeout time.Duration `yaml:"query_timeout" env:"QUERY_TIMEOUT" env-default:"30s"`
}

// IsAvailable returns true if an LLM endpoint is configured.
func (c *LLMConfig) IsAvailable() bool {
	return c.Model != ""
}

// Load reads configuration from config.yaml when present, with
// environment variables overriding, and from the environment alone
// otherwise.
func Load() (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(configFile); err == nil {
		if err := cleanenv.ReadConfig(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("NEO4J_URI must not be empty")
	}
	if c.Pipeline.Locale != "no" && c.Pipeline.Locale != "en" {
		return fmt.Errorf("LOCALE must be \"no\" or \"en\", got %q", c.Pipeline.Locale)
	}
	if c.Pipeline.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive, got %s", c.Pipeline.QueryTimeout)
	}
	return nil
}
