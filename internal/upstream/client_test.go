package upstream

import (
	"context"
	"testing"

	"github.com/avelarde/chatbridge/internal/config"
)

func TestNewClientSelectsProvider(t *testing.T) {
	cases := []struct {
		provider string
		want     string
	}{
		{config.ProviderDify, "dify"},
		{config.ProviderAzure, "azure"},
		{config.ProviderMock, "mock"},
	}
	for _, tc := range cases {
		c, err := NewClient(config.Config{
			Provider:        tc.provider,
			DifyBaseURL:     "http://dify.local/v1",
			DifyAPIKey:      "k",
			AzureEndpoint:   "https://res.openai.azure.com",
			AzureAPIKey:     "k",
			AzureDeployment: "d",
			AzureAPIVersion: "v",
		})
		if err != nil {
			t.Fatalf("NewClient(%s) error = %v", tc.provider, err)
		}
		if c.Provider() != tc.want {
			t.Fatalf("Provider() = %q, want %q", c.Provider(), tc.want)
		}
	}
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	if _, err := NewClient(config.Config{Provider: "bard"}); err == nil {
		t.Fatalf("NewClient should reject unknown provider")
	}
}

func TestMockClientPromotesConversation(t *testing.T) {
	c := NewMockClient()
	res, err := c.SendTurn(context.Background(), TurnRequest{UserKey: "u1", Query: "hello"})
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if res.ConversationID == "" {
		t.Fatalf("mock should issue a conversation id")
	}
	if res.Answer == "" {
		t.Fatalf("mock should echo an answer")
	}

	again, err := c.SendTurn(context.Background(), TurnRequest{UserKey: "u1", Query: "more", ConversationID: res.ConversationID})
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if again.ConversationID != res.ConversationID {
		t.Fatalf("mock should keep the caller's conversation id")
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		code int
		want Kind
	}{
		{401, KindUnauthorized},
		{403, KindUnauthorized},
		{404, KindNotFound},
		{429, KindUnavailable},
		{500, KindUnavailable},
		{502, KindUnavailable},
	}
	for _, tc := range cases {
		if got := classifyStatus(tc.code); got != tc.want {
			t.Fatalf("classifyStatus(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}
