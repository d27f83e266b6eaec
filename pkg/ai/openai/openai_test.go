package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientWithoutAPIKey(t *testing.T) {
	if c := NewClient(NewClientParams{Model: "test"}); c != nil {
		t.Fatal("expected nil client without an API key")
	}
}

func TestGenerateCompletionEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test",
			"choices": [],
			"usage": {"prompt_tokens": 1, "completion_tokens": 0, "total_tokens": 1}
		}`))
	}))
	defer ts.Close()

	c := NewClient(NewClientParams{
		Model:   "test",
		BaseURL: ts.URL,
		APIKey:  "test-key",
	})
	if c == nil {
		t.Fatal("expected client to be created")
	}

	if _, err := c.GenerateCompletion(context.Background(), "prompt"); err == nil {
		t.Fatal("expected an error when the model returns no choices")
	}

	var out struct {
		Title string `json:"title"`
	}
	if err := c.GenerateCompletionWithFormat(context.Background(), "out", "test output", "prompt", &out); err == nil {
		t.Fatal("expected an error when the model returns no choices")
	}
}
