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

// DifyConfig configures the Dify chat-messages client.
type DifyConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DifyClient calls the Dify /chat-messages endpoint in blocking mode.
type DifyClient struct {
	url    string
	apiKey string
	client *http.Client
}

func NewDifyClient(cfg DifyConfig) *DifyClient {
	return &DifyClient{
		url:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/chat-messages",
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: httpTimeout(cfg.Timeout)},
	}
}

func (c *DifyClient) Provider() string { return "dify" }

type difyRequest struct {
	Inputs       map[string]any `json:"inputs"`
	Query        string         `json:"query"`
	User         string         `json:"user"`
	ResponseMode string         `json:"response_mode"`
	// Omitted entirely when the session has no conversation yet; an empty
	// string is not a valid sentinel for "new conversation".
	ConversationID string `json:"conversation_id,omitempty"`
}

func (c *DifyClient) SendTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	payload, err := json.Marshal(difyRequest{
		Inputs:         map[string]any{},
		Query:          req.Query,
		User:           req.UserKey,
		ResponseMode:   "blocking",
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return TurnResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return TurnResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return TurnResult{}, transportError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return TurnResult{}, statusError(res.StatusCode, fmt.Errorf("dify: %s", strings.TrimSpace(string(body))))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 20<<20))
	if err != nil {
		return TurnResult{}, transportError(fmt.Errorf("read response: %w", err))
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return TurnResult{}, malformedError(fmt.Errorf("decode response: %w", err))
	}

	return TurnResult{
		Answer:         extractAnswer(obj),
		ConversationID: stringAt(obj, "conversation_id"),
	}, nil
}

// answerFields lists the response fields historically used by the backend for
// the answer text, probed in priority order.
var answerFields = [][]string{
	{"answer"},
	{"output_text"},
	{"data", "outputs", "answer"},
	{"outputs", "answer"},
}

func extractAnswer(obj map[string]any) string {
	for _, path := range answerFields {
		if s := stringAt(obj, path...); s != "" {
			return s
		}
	}
	return ""
}

func stringAt(obj map[string]any, path ...string) string {
	cur := any(obj)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[key]
		if !ok {
			return ""
		}
	}
	s, _ := cur.(string)
	return s
}
