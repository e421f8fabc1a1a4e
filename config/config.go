package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration. It is loaded once at
// startup; missing API keys are not fatal here because each fetcher
// reports its own missing-key message at call time.
type Config struct {
	AlphaVantage AlphaVantageConfig
	Finnhub      FinnhubConfig
	NewsAPI      NewsAPIConfig

	OpenAI  OpenAIConfig
	Bedrock BedrockConfig

	Agent   AgentConfig
	Fetcher FetcherConfig
	HTTP    HTTPConfig
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// NewsAPIConfig holds NewsAPI configuration
type NewsAPIConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BedrockConfig holds AWS Bedrock configuration for the alternate
// Claude-backed model provider
type BedrockConfig struct {
	Region           string
	ModelID          string
	AnthropicVersion string
	MaxTokens        int
}

// AgentConfig holds the coordinator agent configuration
type AgentConfig struct {
	Provider         string // "openai" or "bedrock"
	MaxIterations    int    // tool-call rounds before the run is aborted
	TimeoutSeconds   int    // end-to-end budget for one analysis request
	ConcurrencyLimit int
}

// FetcherConfig holds settings shared by the three data fetchers
type FetcherConfig struct {
	TimeoutSeconds int // per upstream HTTP call
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
	BaseURL            string // facade base URL the dashboard page calls
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		AlphaVantage: AlphaVantageConfig{
			APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
			BaseURL: getEnvString("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
		},
		Finnhub: FinnhubConfig{
			APIKey:  os.Getenv("FINNHUB_API_KEY"),
			BaseURL: getEnvString("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		},
		NewsAPI: NewsAPIConfig{
			APIKey:  os.Getenv("NEWS_API_KEY"),
			BaseURL: getEnvString("NEWSAPI_BASE_URL", "https://newsapi.org/v2"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 4096),
		},
		Bedrock: BedrockConfig{
			Region:           os.Getenv("AWS_REGION"),
			ModelID:          os.Getenv("BEDROCK_MODEL_ID"),
			AnthropicVersion: getEnvString("BEDROCK_ANTHROPIC_VERSION", "bedrock-2023-05-31"),
			MaxTokens:        getEnvInt("BEDROCK_MAX_TOKENS", 4096),
		},
		Agent: AgentConfig{
			Provider:         getEnvString("LLM_PROVIDER", "openai"),
			MaxIterations:    getEnvInt("AGENT_MAX_ITERATIONS", 5),
			TimeoutSeconds:   getEnvInt("AGENT_TIMEOUT_SECONDS", 120),
			ConcurrencyLimit: getEnvInt("ANALYSIS_CONCURRENCY_LIMIT", 3),
		},
		Fetcher: FetcherConfig{
			TimeoutSeconds: getEnvInt("FETCH_TIMEOUT_SECONDS", 10),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8000"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			BaseURL:            getEnvString("API_BASE_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Agent.Provider != "openai" && c.Agent.Provider != "bedrock" {
		return fmt.Errorf("LLM_PROVIDER must be 'openai' or 'bedrock', got %q", c.Agent.Provider)
	}
	if c.Agent.MaxIterations <= 0 {
		return fmt.Errorf("AGENT_MAX_ITERATIONS must be positive, got %d", c.Agent.MaxIterations)
	}
	if c.Agent.TimeoutSeconds <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT_SECONDS must be positive, got %d", c.Agent.TimeoutSeconds)
	}
	if c.Agent.ConcurrencyLimit <= 0 {
		return fmt.Errorf("ANALYSIS_CONCURRENCY_LIMIT must be positive, got %d", c.Agent.ConcurrencyLimit)
	}
	if c.Fetcher.TimeoutSeconds <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive, got %d", c.Fetcher.TimeoutSeconds)
	}
	return nil
}

// HasAlphaVantage returns true if Alpha Vantage configuration is available
func (c *Config) HasAlphaVantage() bool {
	return c.AlphaVantage.APIKey != ""
}

// HasFinnhub returns true if Finnhub configuration is available
func (c *Config) HasFinnhub() bool {
	return c.Finnhub.APIKey != ""
}

// HasNewsAPI returns true if NewsAPI configuration is available
func (c *Config) HasNewsAPI() bool {
	return c.NewsAPI.APIKey != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

// HasBedrock returns true if Bedrock configuration is available
func (c *Config) HasBedrock() bool {
	return c.Bedrock.Region != "" && c.Bedrock.ModelID != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		AlphaVantage: AlphaVantageConfig{
			BaseURL: "https://www.alphavantage.co",
		},
		Finnhub: FinnhubConfig{
			BaseURL: "https://finnhub.io/api/v1",
		},
		NewsAPI: NewsAPIConfig{
			BaseURL: "https://newsapi.org/v2",
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Bedrock: BedrockConfig{
			AnthropicVersion: "bedrock-2023-05-31",
			MaxTokens:        4096,
		},
		Agent: AgentConfig{
			Provider:         "openai",
			MaxIterations:    5,
			TimeoutSeconds:   120,
			ConcurrencyLimit: 3,
		},
		Fetcher: FetcherConfig{
			TimeoutSeconds: 10,
		},
		HTTP: HTTPConfig{
			Addr:               ":8000",
			CORSAllowedOrigins: "*",
		},
	}
}
