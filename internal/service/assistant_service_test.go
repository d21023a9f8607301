package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAssistant(url string) *AssistantService {
	return &AssistantService{
		Client:       &http.Client{Timeout: 5 * time.Second},
		BaseURL:      url,
		APIKey:       "test-key",
		Model:        "test-model",
		SystemPrompt: "You are a tutor.",
	}
}

func TestAssistantAsk(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Photosynthesis is how plants make food."}},
			},
		})
	}))
	defer server.Close()

	svc := newTestAssistant(server.URL)
	reply, err := svc.Ask(context.Background(), "What is photosynthesis?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply != "Photosynthesis is how plants make food." {
		t.Errorf("reply = %q", reply)
	}

	if got.Model != "test-model" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "What is photosynthesis?" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestAssistantAskUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := newTestAssistant(server.URL)
	if _, err := svc.Ask(context.Background(), "hello"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestAssistantAskEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc := newTestAssistant(server.URL)
	if _, err := svc.Ask(context.Background(), "hello"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestAssistantAskConnectionRefused(t *testing.T) {
	svc := newTestAssistant("http://127.0.0.1:1")
	if _, err := svc.Ask(context.Background(), "hello"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}
