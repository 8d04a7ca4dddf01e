package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardioguard/internal/models"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type stubAssistant struct {
	resp  models.SmartResponse
	calls int
}

func (s *stubAssistant) Respond(_ context.Context, _, _ string) models.SmartResponse {
	s.calls++
	return s.resp
}

func fallbackStub() *stubAssistant {
	return &stubAssistant{resp: models.SmartResponse{
		Content:  "rule response",
		Intent:   models.IntentUnknown,
		Severity: models.SeverityLow,
	}}
}

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func newStubbedGPT(t *testing.T, handler http.HandlerFunc, fallback Assistant) *GPTAssistant {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return &GPTAssistant{
		client:    openai.NewClientWithConfig(cfg),
		model:     "gpt-4o-mini",
		maxTokens: 400,
		fallback:  fallback,
		logger:    zap.NewNop(),
	}
}

func TestGPTAssistantValidResponse(t *testing.T) {
	fallback := fallbackStub()
	content := `{"content":"Please rest and monitor the pain.","intent":"symptom_report","severity":"medium","shouldEscalate":true}`
	assist := newStubbedGPT(t, completionHandler(t, content), fallback)

	resp := assist.Respond(context.Background(), "P001", "my knee aches")

	if resp.Content != "Please rest and monitor the pain." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Intent != models.IntentSymptomReport || resp.Severity != models.SeverityMedium {
		t.Errorf("got (%q, %q), want (symptom_report, medium)", resp.Intent, resp.Severity)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
}

func TestGPTAssistantFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
			},
		},
		{
			name:    "unparseable content",
			handler: nil, // set below
		},
		{
			name:    "invalid intent",
			handler: nil,
		},
		{
			name: "api error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
			},
		},
	}
	tests[1].handler = completionHandler(t, "I'm sorry, I can't produce JSON right now.")
	tests[2].handler = completionHandler(t, `{"content":"hi","intent":"diagnosis","severity":"medium"}`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := fallbackStub()
			assist := newStubbedGPT(t, tt.handler, fallback)

			resp := assist.Respond(context.Background(), "P001", "hello")

			if resp.Content != "rule response" {
				t.Errorf("content = %q, want the rule fallback", resp.Content)
			}
			if fallback.calls != 1 {
				t.Errorf("fallback called %d times, want 1", fallback.calls)
			}
		})
	}
}
