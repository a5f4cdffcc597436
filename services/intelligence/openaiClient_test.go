package intelligence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

func TestOpenAIClientComplete(t *testing.T) {
	t.Parallel()

	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: `{"category": "report"}`},
			}},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	client := NewOpenAIClientWithConfig(cfg, "gpt-4o-mini")

	out, err := client.Complete(context.Background(), "system prompt", "report please")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != `{"category": "report"}` {
		t.Fatalf("unexpected completion %q", out)
	}
	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Messages[0].Role != openai.ChatMessageRoleSystem || got.Messages[1].Content != "report please" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("expected JSON object response format, got %+v", got.ResponseFormat)
	}
}

func TestRateLimitedHonoursContext(t *testing.T) {
	t.Parallel()

	fc := &fakeCompleter{reply: "{}"}
	limited := RateLimited(fc, rate.NewLimiter(rate.Every(time.Hour), 1))

	if _, err := limited.Complete(context.Background(), "s", "u"); err != nil {
		t.Fatalf("first call should pass, got %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := limited.Complete(ctx, "s", "u"); err == nil {
		t.Fatalf("expected second call to be limited")
	}
}
