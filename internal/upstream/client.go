package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/avelarde/chatbridge/internal/config"
)

// TurnRequest is the normalized request for one chat turn.
type TurnRequest struct {
	UserKey        string
	Query          string
	ConversationID string
}

// TurnResult carries the extracted answer and, when the backend issues one,
// the conversation id to correlate the next turn with.
type TurnResult struct {
	Answer         string
	ConversationID string
}

// Client sends one chat turn to a conversational-AI backend and waits for the
// full answer (blocking mode). Exactly one attempt per call; no retries.
type Client interface {
	SendTurn(ctx context.Context, req TurnRequest) (TurnResult, error)
	Provider() string
}

// NewClient builds the provider selected in the configuration.
func NewClient(cfg config.Config) (Client, error) {
	switch cfg.Provider {
	case config.ProviderDify:
		return NewDifyClient(DifyConfig{
			BaseURL: cfg.DifyBaseURL,
			APIKey:  cfg.DifyAPIKey,
			Timeout: cfg.UpstreamTimeout,
		}), nil
	case config.ProviderAzure:
		return NewAzureClient(AzureConfig{
			Endpoint:     cfg.AzureEndpoint,
			APIKey:       cfg.AzureAPIKey,
			Deployment:   cfg.AzureDeployment,
			APIVersion:   cfg.AzureAPIVersion,
			SystemPrompt: cfg.SystemPrompt,
			Temperature:  cfg.AzureTemperature,
			MaxTokens:    cfg.AzureMaxTokens,
			Timeout:      cfg.UpstreamTimeout,
		}), nil
	case config.ProviderMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func httpTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
