package upstream

import (
	"context"
	"fmt"
	"strings"
)

// MockClient provides deterministic local replies when no backend is
// configured. It issues a synthetic conversation id so session promotion
// behaves like the real thing.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Provider() string { return "mock" }

func (c *MockClient) SendTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	select {
	case <-ctx.Done():
		return TurnResult{}, transportError(ctx.Err())
	default:
	}

	conv := req.ConversationID
	if conv == "" {
		conv = "mock-" + req.UserKey
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return TurnResult{ConversationID: conv}, nil
	}
	return TurnResult{
		Answer:         fmt.Sprintf("You said: %s", query),
		ConversationID: conv,
	}, nil
}
