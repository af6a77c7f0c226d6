package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Market     MarketConfig     `yaml:"market" mapstructure:"market"`
	Oracle     OracleConfig     `yaml:"oracle" mapstructure:"oracle"`
	Directory  DirectoryConfig  `yaml:"directory" mapstructure:"directory"`
	Suggest    SuggestConfig    `yaml:"suggest" mapstructure:"suggest"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LLMConfig selects generator providers and bounds their calls.
type LLMConfig struct {
	EstimateProvider  string  `yaml:"estimate_provider" mapstructure:"estimate_provider"`
	SuggestProvider   string  `yaml:"suggest_provider" mapstructure:"suggest_provider"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// MarketConfig configures the market-data provider.
type MarketConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL     string  `yaml:"search_base_url" mapstructure:"search_base_url"`
	ExchangeSuffix    string  `yaml:"exchange_suffix" mapstructure:"exchange_suffix"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	HistoryDays       int     `yaml:"history_days" mapstructure:"history_days"`
}

// OracleConfig points at the external risk-scoring model.
type OracleConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	EmployeePath string `yaml:"employee_path" mapstructure:"employee_path"`
	InvestorPath string `yaml:"investor_path" mapstructure:"investor_path"`
	StudentPath  string `yaml:"student_path" mapstructure:"student_path"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DirectoryConfig locates the company/tier/defaults table. An empty path
// uses the embedded table.
type DirectoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SuggestConfig configures suggestion generation.
type SuggestConfig struct {
	Mode        string `yaml:"mode" mapstructure:"mode"`
	MaxAttempts int    `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// RetryConfig configures retries for upstream HTTP calls.
type RetryConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction   float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

// CircuitConfig configures per-upstream circuit breakers.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	Anthropic  map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini     map[string]ModelPricing `yaml:"gemini" mapstructure:"gemini"`
	Perplexity PerplexityPricing       `yaml:"perplexity" mapstructure:"perplexity"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// PerplexityPricing holds Perplexity pricing.
type PerplexityPricing struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
}

// keyDelimiter separates nested config keys. Model ids such as
// "gemini-2.0-flash" contain dots, so "." cannot be used.
const keyDelimiter = "::"

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RISKPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	// Defaults
	setDefault := func(key string, value any) {
		v.SetDefault(strings.ReplaceAll(key, ".", keyDelimiter), value)
	}
	setDefault("log.level", "info")
	setDefault("log.format", "json")
	setDefault("server.port", 5000)
	setDefault("server.cors_origins", []string{"*"})
	setDefault("server.request_timeout_secs", 90)
	setDefault("llm.estimate_provider", "gemini")
	setDefault("llm.suggest_provider", "gemini")
	setDefault("llm.timeout_secs", 30)
	setDefault("llm.requests_per_second", 2.0)
	setDefault("gemini.model", "gemini-2.0-flash")
	setDefault("anthropic.model", "claude-haiku-4-5-20251001")
	setDefault("anthropic.max_tokens", 2048)
	setDefault("perplexity.base_url", "https://api.perplexity.ai")
	setDefault("perplexity.model", "sonar-pro")
	setDefault("market.base_url", "https://query2.finance.yahoo.com")
	setDefault("market.search_base_url", "https://query2.finance.yahoo.com")
	setDefault("market.exchange_suffix", ".NS")
	setDefault("market.timeout_secs", 15)
	setDefault("market.requests_per_second", 5.0)
	setDefault("market.history_days", 365)
	setDefault("oracle.base_url", "http://localhost:8000")
	setDefault("oracle.employee_path", "/predict/employee")
	setDefault("oracle.investor_path", "/predict/investor")
	setDefault("oracle.student_path", "/predict/student")
	setDefault("oracle.timeout_secs", 10)
	setDefault("suggest.mode", "generative")
	setDefault("suggest.max_attempts", 2)
	setDefault("retry.max_attempts", 3)
	setDefault("retry.initial_backoff_ms", 300)
	setDefault("retry.max_backoff_ms", 5000)
	setDefault("retry.multiplier", 2.0)
	setDefault("retry.jitter_fraction", 0.25)
	setDefault("circuit.failure_threshold", 5)
	setDefault("circuit.reset_timeout_secs", 30)
	setDefault("pricing.perplexity.per_query", 0.005)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings a command depends on are present.
// Mode is "serve", "assess" or "offline".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve", "assess":
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Oracle.BaseURL == "" {
			errs = append(errs, "oracle.base_url is required")
		}
		for _, p := range []string{c.LLM.EstimateProvider, c.LLM.SuggestProvider} {
			if msg := c.providerKeyMissing(p); msg != "" {
				errs = append(errs, msg)
			}
		}
		if c.Suggest.Mode != "generative" && c.Suggest.Mode != "template" {
			errs = append(errs, fmt.Sprintf("suggest.mode %q must be generative or template", c.Suggest.Mode))
		}
	case "offline":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Suggest.MaxAttempts < 1 || c.Suggest.MaxAttempts > 5 {
		errs = append(errs, "suggest.max_attempts must be between 1 and 5")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(dedupe(errs), "; "))
	}
	return nil
}

func (c *Config) providerKeyMissing(provider string) string {
	switch provider {
	case "gemini":
		if c.Gemini.Key == "" {
			return "gemini.key is required"
		}
	case "anthropic":
		if c.Anthropic.Key == "" {
			return "anthropic.key is required"
		}
	case "perplexity":
		if c.Perplexity.Key == "" {
			return "perplexity.key is required"
		}
	default:
		return fmt.Sprintf("unknown llm provider %q", provider)
	}
	return ""
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
