package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// Config holds OpenAI model configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns default OpenAI configuration.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gpt-4o-mini",
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// Model backs the reasoning engine's Summarizer and Answerer contracts
// with the OpenAI chat completions API.
type Model struct {
	config *Config
	client openaisdk.Client
}

// New creates an OpenAI-backed model using the official SDK.
func New(config *Config) *Model {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Model{
		config: config,
		client: openaisdk.NewClient(options...),
	}
}

// Summarize produces an abstractive summary bounded by the given word
// budget.
func (m *Model) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	system := "You summarize document excerpts. Reply with the summary only, no preamble."
	user := fmt.Sprintf("Summarize the following in %d to %d words:\n\n%s", minWords, maxWords, text)

	out, err := m.complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("openai summarize: %w", err)
	}
	return out, nil
}

type answerPayload struct {
	Answer     string  `json:"answer"`
	Confidence float32 `json:"confidence"`
}

// Answer extracts an answer span for the question from the supplied
// context. The model self-reports a confidence; output that cannot be
// parsed as JSON is returned verbatim at middling confidence rather
// than dropped.
func (m *Model) Answer(ctx context.Context, question, docContext string) (string, float32, error) {
	system := `You answer questions strictly from the provided context. Reply with compact JSON only: {"answer":"...","confidence":0.0}. Confidence is your certainty in [0,1]; use a low value when the context does not contain the answer.`
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", docContext, question)

	out, err := m.complete(ctx, system, user)
	if err != nil {
		return "", 0, fmt.Errorf("openai answer: %w", err)
	}

	var payload answerPayload
	if err := json.Unmarshal([]byte(sanitizeJSON(out)), &payload); err != nil {
		return out, 0.5, nil
	}
	if payload.Confidence < 0 {
		payload.Confidence = 0
	}
	if payload.Confidence > 1 {
		payload.Confidence = 1
	}
	return payload.Answer, payload.Confidence, nil
}

func (m *Model) complete(ctx context.Context, system, user string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(m.config.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(user),
		},
	}
	if m.config.Temperature > 0 {
		params.Temperature = param.NewOpt(m.config.Temperature)
	}
	if m.config.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(m.config.MaxTokens)
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func sanitizeJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = trimmed[3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimPrefix(trimmed, "JSON")
		if idx := strings.Index(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
	}
	return strings.TrimSpace(trimmed)
}
