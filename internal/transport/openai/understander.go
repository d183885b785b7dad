package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/domain"
	"github.com/cognicart/cognicart/internal/metrics"
)

// Understander calls an OpenAI-compatible chat API for query
// extraction, review digests, and narrative synthesis.
type Understander struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the understanding provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewUnderstander creates an OpenAI-compatible understanding provider.
func NewUnderstander(cfg *Config) *Understander {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Understander{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

const extractSystemPrompt = `You extract structured shopping intent from a user query.
Respond with a single JSON object with these keys:
product_type (string), category (string), required_features (array of strings),
preferred_brands (array of strings), budget_min (number or null),
budget_max (number or null), sort_intent (one of "price_asc", "price_desc",
"rating", "popularity", or ""), terms (array of leftover keywords).
Omit nothing; use null, "" or [] when a field is absent.`

const describeSystemPrompt = `You summarize the review reputation of a product from its
attributes (title, brand, price, rating, review count, features).
Respond with a single JSON object with these keys:
positive_pct, neutral_pct, negative_pct (integers summing to 100),
praises (array of up to 5 short strings), complaints (array of up to 5 short strings),
red_flags (array of strings, usually empty), summary (one sentence).`

// Extract implements domain.Understander.
func (u *Understander) Extract(ctx context.Context, text string, hints []string) (domain.Extraction, error) {
	user := text
	if len(hints) > 0 {
		user = "Context from the previous turn:\n" + strings.Join(hints, "\n") + "\n\nQuery: " + text
	}

	raw, err := u.completeJSON(ctx, "extract", extractSystemPrompt, user)
	if err != nil {
		return domain.Extraction{}, err
	}

	var out domain.Extraction
	if err := json.Unmarshal(raw, &out); err != nil {
		metrics.UnderstandingErrorsTotal.WithLabelValues(u.provider, u.model, "extract", "malformed_output").Inc()
		return domain.Extraction{}, fmt.Errorf("%w: %w", domain.ErrMalformedExtraction, err)
	}
	return out, nil
}

// Describe implements domain.Understander.
func (u *Understander) Describe(ctx context.Context, attrs domain.ProductAttributes) (domain.ReviewDigest, error) {
	payload, err := json.Marshal(attrs)
	if err != nil {
		return domain.ReviewDigest{}, fmt.Errorf("marshal attributes: %w", err)
	}

	raw, err := u.completeJSON(ctx, "describe", describeSystemPrompt, string(payload))
	if err != nil {
		return domain.ReviewDigest{}, err
	}

	var out domain.ReviewDigest
	if err := json.Unmarshal(raw, &out); err != nil {
		metrics.UnderstandingErrorsTotal.WithLabelValues(u.provider, u.model, "describe", "malformed_output").Inc()
		return domain.ReviewDigest{}, fmt.Errorf("%w: %w", domain.ErrMalformedExtraction, err)
	}
	return out, nil
}

// Narrate implements domain.Understander. Plain-text completion.
func (u *Understander) Narrate(ctx context.Context, prompt string) (string, error) {
	resp, err := u.complete(ctx, "narrate", openai.ChatCompletionRequest{
		Model: u.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (u *Understander) HealthCheck(ctx context.Context) error {
	if _, err := u.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// completeJSON requests a JSON-object completion and strips markdown
// fences some models wrap around JSON output.
func (u *Understander) completeJSON(ctx context.Context, operation, system, user string) ([]byte, error) {
	content, err := u.complete(ctx, operation, openai.ChatCompletionRequest{
		Model: u.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	return []byte(stripJSONFences(content)), nil
}

func (u *Understander) complete(ctx context.Context, operation string, req openai.ChatCompletionRequest) (string, error) {
	start := time.Now()

	resp, err := u.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.UnderstandingRequestsTotal.WithLabelValues(u.provider, u.model, operation, "error").Inc()
		metrics.UnderstandingErrorsTotal.WithLabelValues(u.provider, u.model, operation, "api_error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.UnderstandingRequestsTotal.WithLabelValues(u.provider, u.model, operation, "error").Inc()
		metrics.UnderstandingErrorsTotal.WithLabelValues(u.provider, u.model, operation, "empty_response").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrUnderstandingUnavailable)
	}

	metrics.UnderstandingRequestsTotal.WithLabelValues(u.provider, u.model, operation, "success").Inc()
	metrics.UnderstandingRequestDuration.WithLabelValues(u.provider, u.model, operation).Observe(duration.Seconds())

	if total := resp.Usage.TotalTokens; total > 0 {
		metrics.UnderstandingTokensTotal.WithLabelValues(u.provider, u.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.UnderstandingTokensTotal.WithLabelValues(u.provider, u.model, "total").Add(float64(total))
	}

	return resp.Choices[0].Message.Content, nil
}

// stripJSONFences removes ```json ... ``` wrappers.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrUnderstandingUnavailable so the
// callers' fallback paths trigger uniformly.
func parseAPIError(err error) error {
	wrap := domain.ErrUnderstandingUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("understanding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("understanding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("understanding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("understanding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
