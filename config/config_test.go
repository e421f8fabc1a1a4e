package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Agent.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Agent.Provider)
	}
	if cfg.Agent.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", cfg.Agent.MaxIterations)
	}
	if cfg.Fetcher.TimeoutSeconds != 10 {
		t.Errorf("Fetcher.TimeoutSeconds = %d, want 10", cfg.Fetcher.TimeoutSeconds)
	}
	if cfg.HTTP.Addr != ":8000" {
		t.Errorf("HTTP.Addr = %q, want :8000", cfg.HTTP.Addr)
	}
	if cfg.AlphaVantage.BaseURL != "https://www.alphavantage.co" {
		t.Errorf("AlphaVantage.BaseURL = %q", cfg.AlphaVantage.BaseURL)
	}
	if cfg.Bedrock.AnthropicVersion != "bedrock-2023-05-31" {
		t.Errorf("Bedrock.AnthropicVersion = %q", cfg.Bedrock.AnthropicVersion)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "bedrock")
	t.Setenv("AGENT_MAX_ITERATIONS", "8")
	t.Setenv("FINNHUB_API_KEY", "fh-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Agent.Provider != "bedrock" {
		t.Errorf("Provider = %q, want bedrock", cfg.Agent.Provider)
	}
	if cfg.Agent.MaxIterations != 8 {
		t.Errorf("MaxIterations = %d, want 8", cfg.Agent.MaxIterations)
	}
	if !cfg.HasFinnhub() {
		t.Error("HasFinnhub() should be true")
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject unknown provider")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero iterations", func(c *Config) { c.Agent.MaxIterations = 0 }, true},
		{"zero timeout", func(c *Config) { c.Agent.TimeoutSeconds = 0 }, true},
		{"zero concurrency", func(c *Config) { c.Agent.ConcurrencyLimit = 0 }, true},
		{"zero fetch timeout", func(c *Config) { c.Fetcher.TimeoutSeconds = 0 }, true},
		{"bedrock provider", func(c *Config) { c.Agent.Provider = "bedrock" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasHelpers(t *testing.T) {
	cfg := NewTestConfig()
	if cfg.HasAlphaVantage() || cfg.HasFinnhub() || cfg.HasNewsAPI() || cfg.HasOpenAI() || cfg.HasBedrock() {
		t.Error("test config should have no credentials configured")
	}

	cfg.OpenAI.APIKey = "sk-test"
	if !cfg.HasOpenAI() {
		t.Error("HasOpenAI() should be true once the key is set")
	}

	cfg.Bedrock.Region = "us-east-1"
	if cfg.HasBedrock() {
		t.Error("HasBedrock() needs both region and model ID")
	}
	cfg.Bedrock.ModelID = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	if !cfg.HasBedrock() {
		t.Error("HasBedrock() should be true with region and model ID")
	}
}
