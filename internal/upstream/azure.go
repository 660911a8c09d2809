package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AzureConfig configures the Azure OpenAI chat-completions client.
type AzureConfig struct {
	Endpoint     string
	APIKey       string
	Deployment   string
	APIVersion   string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// AzureClient calls an Azure OpenAI chat-completions deployment. Azure keeps
// no server-side conversation thread, so TurnResult.ConversationID is always
// empty and each turn stands alone.
type AzureClient struct {
	url          string
	apiKey       string
	systemPrompt string
	temperature  float64
	maxTokens    int
	client       *http.Client
}

func NewAzureClient(cfg AzureConfig) *AzureClient {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		cfg.Deployment,
		cfg.APIVersion,
	)
	return &AzureClient{
		url:          url,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		client:       &http.Client{Timeout: httpTimeout(cfg.Timeout)},
	}
}

func (c *AzureClient) Provider() string { return "azure" }

type azureMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureRequest struct {
	Messages    []azureMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	Stream      bool           `json:"stream"`
}

type azureResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *AzureClient) SendTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	payload, err := json.Marshal(azureRequest{
		Messages: []azureMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: req.Query},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      false,
	})
	if err != nil {
		return TurnResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return TurnResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return TurnResult{}, transportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return TurnResult{}, statusError(res.StatusCode, fmt.Errorf("azure openai: %s", strings.TrimSpace(string(body))))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 20<<20))
	if err != nil {
		return TurnResult{}, transportError(fmt.Errorf("read response: %w", err))
	}

	var parsed azureResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return TurnResult{}, malformedError(fmt.Errorf("decode response: %w", err))
	}

	var answer string
	if len(parsed.Choices) > 0 {
		answer = parsed.Choices[0].Message.Content
	}
	return TurnResult{Answer: answer}, nil
}
