package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider modes accepted in CHAT_PROVIDER.
const (
	ProviderDify  = "dify"
	ProviderAzure = "azure"
	ProviderMock  = "mock"
)

// Config contains all runtime settings for the chat bridge.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	Provider string

	DifyBaseURL string
	DifyAPIKey  string

	AzureEndpoint    string
	AzureAPIKey      string
	AzureDeployment  string
	AzureAPIVersion  string
	SystemPrompt     string
	AzureTemperature float64
	AzureMaxTokens   int

	UpstreamTimeout time.Duration

	DatabaseURL string
}

// Load reads environment variables, applies defaults, and validates the
// settings the selected provider needs. Missing upstream credentials are a
// startup error, never a per-request one.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         bindAddrFromEnv(),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "chatbridge"),
		Provider:         strings.ToLower(envTrimmed("CHAT_PROVIDER")),
		DifyBaseURL:      strings.TrimRight(envTrimmed("DIFY_API_BASE"), "/"),
		DifyAPIKey:       envTrimmed("DIFY_API_KEY"),
		AzureEndpoint:    strings.TrimRight(envTrimmed("AZURE_OPENAI_ENDPOINT"), "/"),
		AzureAPIKey:      envTrimmed("AZURE_OPENAI_API_KEY"),
		AzureDeployment:  envTrimmed("AZURE_OPENAI_DEPLOYMENT"),
		AzureAPIVersion:  envTrimmed("AZURE_OPENAI_API_VERSION"),
		SystemPrompt:     envOrDefault("SYSTEM_PROMPT", "You are a helpful assistant."),
		AzureTemperature: 0.2,
		AzureMaxTokens:   800,
		UpstreamTimeout:  60 * time.Second,
		ShutdownTimeout:  15 * time.Second,
		DatabaseURL:      envTrimmed("DATABASE_URL"),
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderDify
	}

	var err error
	cfg.UpstreamTimeout, err = durationFromEnv("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AzureTemperature, err = floatFromEnv("OAI_TEMPERATURE", cfg.AzureTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.AzureMaxTokens, err = intFromEnv("OAI_MAX_TOKENS", cfg.AzureMaxTokens)
	if err != nil {
		return Config{}, err
	}

	if cfg.UpstreamTimeout < 5*time.Second || cfg.UpstreamTimeout > 2*time.Minute {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be between 5s and 2m")
	}
	if cfg.AzureMaxTokens <= 0 {
		return Config{}, fmt.Errorf("OAI_MAX_TOKENS must be positive")
	}
	if err := cfg.ValidateProvider(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ValidateProvider checks that every setting the selected provider requires is
// present. Also used by the health endpoint to report config_ok.
func (c Config) ValidateProvider() error {
	switch c.Provider {
	case ProviderDify:
		if c.DifyBaseURL == "" {
			return fmt.Errorf("missing env: DIFY_API_BASE")
		}
		if c.DifyAPIKey == "" {
			return fmt.Errorf("missing env: DIFY_API_KEY")
		}
	case ProviderAzure:
		for _, req := range []struct{ name, value string }{
			{"AZURE_OPENAI_ENDPOINT", c.AzureEndpoint},
			{"AZURE_OPENAI_API_KEY", c.AzureAPIKey},
			{"AZURE_OPENAI_DEPLOYMENT", c.AzureDeployment},
			{"AZURE_OPENAI_API_VERSION", c.AzureAPIVersion},
		} {
			if req.value == "" {
				return fmt.Errorf("missing env: %s", req.name)
			}
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unsupported CHAT_PROVIDER: %q", c.Provider)
	}
	return nil
}

// bindAddrFromEnv honors the App Service convention of a bare PORT number as
// well as an explicit APP_BIND_ADDR.
func bindAddrFromEnv() string {
	if addr := envTrimmed("APP_BIND_ADDR"); addr != "" {
		return addr
	}
	if port := envTrimmed("PORT"); port != "" {
		if strings.Contains(port, ":") {
			return port
		}
		return ":" + port
	}
	return ":8080"
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}
