package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// ProviderOrder is the priority in which configured AI providers are picked.
var ProviderOrder = []string{ProviderOpenRouter, ProviderAnthropic, ProviderOpenAI, ProviderGemini}

type (
	Config struct {
		Language    string                      `json:"language" yaml:"language"`
		ListenAddr  string                      `json:"listen_addr" yaml:"listen_addr"`
		LogFormat   string                      `json:"log_format" yaml:"log_format"`
		SiteURL     string                      `json:"site_url,omitempty" yaml:"site_url"`
		GitHub      GitHubConfig                `json:"github" yaml:"github"`
		AIProviders map[string]AIProviderConfig `json:"ai_providers" yaml:"ai_providers"`
		Database    DatabaseConfig              `json:"database" yaml:"database"`
		RateLimit   RateLimitConfig             `json:"rate_limit" yaml:"rate_limit"`

		PathFile string `json:"-" yaml:"-"`
	}

	GitHubConfig struct {
		Token         string `json:"token,omitempty" yaml:"token"`
		WebhookSecret string `json:"webhook_secret,omitempty" yaml:"webhook_secret"`
		APIBaseURL    string `json:"api_base_url,omitempty" yaml:"api_base_url"`
	}

	AIProviderConfig struct {
		APIKey  string `json:"api_key,omitempty" yaml:"api_key"`
		Model   string `json:"model,omitempty" yaml:"model"`
		BaseURL string `json:"base_url,omitempty" yaml:"base_url"`
	}

	DatabaseConfig struct {
		Driver string `json:"driver" yaml:"driver"`
		DSN    string `json:"dsn,omitempty" yaml:"dsn"`
	}

	RateLimitConfig struct {
		RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`
		Burst             int `json:"burst" yaml:"burst"`
	}
)

const (
	defaultLang              = LangEN
	defaultListenAddr        = ":8080"
	defaultRequestsPerMinute = 30
	defaultBurst             = 5
	configDirName            = ".motioner"
)

// LoadConfig reads the configuration file. A path ending in .json, .yaml or .yml is
// read as is; any other path is taken as a home directory holding
// .motioner/config.json, which is created with defaults when missing.
func LoadConfig(path string) (*Config, error) {
	configPath := path
	if !isConfigFile(path) {
		configPath = filepath.Join(path, configDirName, "config.json")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if isYAML(configPath) {
			return nil, fmt.Errorf("config file %s does not exist", configPath)
		}
		return createDefaultConfig(configPath)
	} else if err != nil {
		return nil, fmt.Errorf("error checking config file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := &Config{}
	if isYAML(configPath) {
		expanded := strings.ReplaceAll(os.ExpandEnv(string(data)), "\r\n", "\n")
		if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("error decoding YAML config: %w", err)
		}
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error decoding JSON config: %w", err)
	}

	config.PathFile = configPath
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("loaded config is not valid: %w", err)
	}

	return config, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// DefaultConfig returns the settings written on first run, rooted at path.
func DefaultConfig(path string) *Config {
	return &Config{
		Language:    defaultLang,
		ListenAddr:  defaultListenAddr,
		LogFormat:   LogFormatPretty,
		AIProviders: map[string]AIProviderConfig{},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    filepath.Join(filepath.Dir(path), "motioner.db"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: defaultRequestsPerMinute,
			Burst:             defaultBurst,
		},
		PathFile: path,
	}
}

func createDefaultConfig(path string) (*Config, error) {
	config := DefaultConfig(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("error saving default config: %w", err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = defaultLang
	}
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.LogFormat == "" {
		c.LogFormat = LogFormatPretty
	}
	if c.AIProviders == nil {
		c.AIProviders = map[string]AIProviderConfig{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
}

// SaveConfig writes c to its PathFile. Only JSON files are written.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config to save is not valid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("config file path is not set")
	}
	if isYAML(config.PathFile) {
		return fmt.Errorf("refusing to overwrite YAML config %s", config.PathFile)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0600); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Language == "" {
		return errors.New("language cannot be empty")
	}
	if c.Language != LangEN && c.Language != LangES {
		return fmt.Errorf("unsupported language %q", c.Language)
	}

	switch c.LogFormat {
	case "", LogFormatPretty, LogFormatJSON:
	default:
		return fmt.Errorf("log_format must be %q or %q", LogFormatPretty, LogFormatJSON)
	}

	switch c.Database.Driver {
	case "", DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when database.driver=%s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values cannot be negative")
	}

	for name := range c.AIProviders {
		if !isKnownProvider(name) {
			return fmt.Errorf("unknown AI provider %q", name)
		}
	}

	return nil
}

func isKnownProvider(name string) bool {
	for _, p := range ProviderOrder {
		if p == name {
			return true
		}
	}
	return false
}

// ApplyEnv overrides file values with the environment, read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setProvider := func(name, keyVar, modelVar string) {
		key := getenv(keyVar)
		model := ""
		if modelVar != "" {
			model = getenv(modelVar)
		}
		if key == "" && model == "" {
			return
		}
		if c.AIProviders == nil {
			c.AIProviders = map[string]AIProviderConfig{}
		}
		p := c.AIProviders[name]
		if key != "" {
			p.APIKey = key
		}
		if model != "" {
			p.Model = model
		}
		c.AIProviders[name] = p
	}
	setProvider(ProviderOpenRouter, "OPENROUTER_API_KEY", "OPENROUTER_MODEL")
	setProvider(ProviderAnthropic, "ANTHROPIC_API_KEY", "")
	setProvider(ProviderOpenAI, "OPENAI_API_KEY", "")
	setProvider(ProviderGemini, "GEMINI_API_KEY", "")

	if v := firstNonEmpty(getenv("GITHUB_TOKEN"), getenv("GITHUB_ACCESS_TOKEN")); v != "" {
		c.GitHub.Token = v
	}
	if v := getenv("GITHUB_WEBHOOK_SECRET"); v != "" {
		c.GitHub.WebhookSecret = v
	}
	if v := firstNonEmpty(getenv("NEXT_PUBLIC_SITE_URL"), getenv("SITE_URL")); v != "" {
		c.SiteURL = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			c.Database.Driver = DriverPostgres
		}
	}
}

// Provider returns the settings of a provider that has an API key.
func (c *Config) Provider(name string) (AIProviderConfig, bool) {
	p, ok := c.AIProviders[name]
	if !ok || p.APIKey == "" {
		return AIProviderConfig{}, false
	}
	return p, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
