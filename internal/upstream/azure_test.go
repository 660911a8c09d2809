package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAzureSendTurn(t *testing.T) {
	var captured azureRequest
	var gotPath, gotQuery, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "hola"}},
			},
		})
	}))
	defer ts.Close()

	c := NewAzureClient(AzureConfig{
		Endpoint:     ts.URL,
		APIKey:       "az-key",
		Deployment:   "gpt4",
		APIVersion:   "2024-06-01",
		SystemPrompt: "You are a helpful assistant.",
		Temperature:  0.2,
		MaxTokens:    800,
	})
	res, err := c.SendTurn(context.Background(), TurnRequest{UserKey: "u1", Query: "hola?"})
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if res.Answer != "hola" {
		t.Fatalf("Answer = %q, want hola", res.Answer)
	}
	if res.ConversationID != "" {
		t.Fatalf("ConversationID = %q, want empty for azure", res.ConversationID)
	}

	if gotPath != "/openai/deployments/gpt4/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "api-version=2024-06-01" {
		t.Fatalf("query = %q", gotQuery)
	}
	if gotKey != "az-key" {
		t.Fatalf("api-key = %q", gotKey)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Content != "hola?" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	if captured.Stream {
		t.Fatalf("stream must be false")
	}
}

func TestAzureSendTurnEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer ts.Close()

	c := NewAzureClient(AzureConfig{Endpoint: ts.URL, APIKey: "k", Deployment: "d", APIVersion: "v"})
	res, err := c.SendTurn(context.Background(), TurnRequest{UserKey: "u1", Query: "q"})
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if res.Answer != "" {
		t.Fatalf("Answer = %q, want empty", res.Answer)
	}
}

func TestAzureSendTurnUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewAzureClient(AzureConfig{Endpoint: ts.URL, APIKey: "bad", Deployment: "d", APIVersion: "v"})
	_, err := c.SendTurn(context.Background(), TurnRequest{UserKey: "u1", Query: "q"})

	var ue *Error
	if !errors.As(err, &ue) || ue.Kind != KindUnauthorized {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}
