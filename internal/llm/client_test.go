package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid request payload: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v, want single user message", req.Messages)
		}
		if req.MaxTokens != nil {
			t.Errorf("max_tokens = %v, want nil", req.MaxTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Choices: []ChatChoice{{Message: ChatChoiceMessage{Role: "assistant", Content: "hi there"}}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", FixedBackoff{MaxAttempts: 3})

	got, err := client.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "hi there" {
		t.Errorf("Generate() = %q, want %q", got, "hi there")
	}
}

func TestClientGenerateRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Choices: []ChatChoice{{Message: ChatChoiceMessage{Content: "recovered"}}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "model", FixedBackoff{MaxAttempts: 3})

	got, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "recovered" {
		t.Errorf("Generate() = %q, want %q", got, "recovered")
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("attempts = %d, want 3", n)
	}
}

func TestClientGenerateExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "model", FixedBackoff{MaxAttempts: 3})

	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("Generate() error = %v, want ErrGenerationUnavailable", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("attempts = %d, want exactly 3", n)
	}
}

func TestClientGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "model", FixedBackoff{MaxAttempts: 1})

	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Errorf("Generate() error = %v, want ErrGenerationUnavailable", err)
	}
}

func TestDefaultBackoff(t *testing.T) {
	policy := DefaultBackoff()
	if policy.Attempts() != 3 {
		t.Errorf("Attempts() = %d, want 3", policy.Attempts())
	}
}

func TestFixedBackoffMinimumOneAttempt(t *testing.T) {
	if got := (FixedBackoff{}).Attempts(); got != 1 {
		t.Errorf("Attempts() = %d, want 1", got)
	}
}
