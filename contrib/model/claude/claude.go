package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// Config holds Claude model configuration.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns default Claude configuration.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "claude-3-5-sonnet-20241022",
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// Model backs the reasoning engine's Summarizer contract with the
// Anthropic messages API.
type Model struct {
	config *Config
	client anthropic.Client
}

// New creates a Claude-backed summarizer using the official SDK.
func New(config *Config) *Model {
	if config.Model == "" {
		config.Model = "claude-3-5-sonnet-20241022"
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Model{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Summarize produces an abstractive summary bounded by the given word
// budget.
func (m *Model) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.config.Model),
		MaxTokens: m.config.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: "You summarize document excerpts. Reply with the summary only, no preamble."},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("Summarize the following in %d to %d words:\n\n%s", minWords, maxWords, text),
			)),
		},
	}
	if m.config.Temperature > 0 {
		params.Temperature = param.NewOpt(m.config.Temperature)
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude summarize: %w", err)
	}

	var out strings.Builder
	for _, content := range msg.Content {
		if content.Type == "text" {
			out.WriteString(content.Text)
		}
	}
	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return "", fmt.Errorf("claude summarize: empty response")
	}
	return summary, nil
}
