package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterUnderstandingMetrics()
	os.Exit(m.Run())
}

// chatResponse mirrors the OpenAI-compatible chat completion response.
type chatResponse struct {
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		resp := chatResponse{Object: "chat.completion", Model: "test-model"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{})
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = content
		resp.Choices[0].FinishReason = "stop"
		resp.Usage.PromptTokens = 20
		resp.Usage.TotalTokens = 30

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestUnderstander(serverURL string) *Understander {
	return NewUnderstander(&Config{
		APIKey:   "test-key",
		BaseURL:  serverURL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestExtract(t *testing.T) {
	server := chatServer(t, `{"product_type":"headphones","category":"electronics",
"required_features":["bluetooth"],"preferred_brands":["boAt"],
"budget_min":null,"budget_max":3000,"sort_intent":"","terms":["running"]}`)
	defer server.Close()

	u := newTestUnderstander(server.URL)
	out, err := u.Extract(context.Background(), "bluetooth headphones under 3000", nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if out.ProductType != "headphones" {
		t.Errorf("ProductType = %q", out.ProductType)
	}
	if out.BudgetMax == nil || *out.BudgetMax != 3000 {
		t.Errorf("BudgetMax = %v", out.BudgetMax)
	}
	if out.BudgetMin != nil {
		t.Errorf("BudgetMin = %v, want nil", out.BudgetMin)
	}
	if len(out.RequiredFeatures) != 1 || out.RequiredFeatures[0] != "bluetooth" {
		t.Errorf("RequiredFeatures = %v", out.RequiredFeatures)
	}
}

func TestExtract_StripsMarkdownFences(t *testing.T) {
	server := chatServer(t, "```json\n{\"product_type\":\"laptop\"}\n```")
	defer server.Close()

	u := newTestUnderstander(server.URL)
	out, err := u.Extract(context.Background(), "laptop", nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if out.ProductType != "laptop" {
		t.Errorf("ProductType = %q", out.ProductType)
	}
}

func TestExtract_MalformedOutput(t *testing.T) {
	server := chatServer(t, "sorry, I cannot help with that")
	defer server.Close()

	u := newTestUnderstander(server.URL)
	_, err := u.Extract(context.Background(), "headphones", nil)
	if !errors.Is(err, domain.ErrMalformedExtraction) {
		t.Fatalf("error = %v, want ErrMalformedExtraction", err)
	}
}

func TestExtract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"rate limit exceeded"}`))
	}))
	defer server.Close()

	u := newTestUnderstander(server.URL)
	_, err := u.Extract(context.Background(), "headphones", nil)
	if !errors.Is(err, domain.ErrUnderstandingUnavailable) {
		t.Fatalf("error = %v, want ErrUnderstandingUnavailable", err)
	}
}

func TestDescribe(t *testing.T) {
	server := chatServer(t, `{"positive_pct":70,"neutral_pct":20,"negative_pct":10,
"praises":["battery life"],"complaints":["build"],"red_flags":[],"summary":"well liked"}`)
	defer server.Close()

	u := newTestUnderstander(server.URL)
	out, err := u.Describe(context.Background(), domain.ProductAttributes{
		ID: "p1", Title: "boAt Rockerz 450", Rating: 4.2, ReviewCount: 8421,
	})
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if out.PositivePct != 70 || out.Summary != "well liked" {
		t.Errorf("unexpected digest: %+v", out)
	}
}

func TestNarrate(t *testing.T) {
	server := chatServer(t, "  These headphones are a solid pick.  ")
	defer server.Close()

	u := newTestUnderstander(server.URL)
	text, err := u.Narrate(context.Background(), "recommend")
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if text != "These headphones are a solid pick." {
		t.Errorf("Narrate = %q, want trimmed text", text)
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripJSONFences(tt.in); got != tt.want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
