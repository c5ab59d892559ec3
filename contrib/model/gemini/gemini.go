package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Config holds Gemini model configuration.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration.
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// Model backs the reasoning engine's Summarizer contract with the
// Gemini API.
type Model struct {
	config *Config
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a Gemini-backed summarizer using the official SDK.
func New(ctx context.Context, config *Config) (*Model, error) {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	model := client.GenerativeModel(config.Model)
	if config.Temperature > 0 {
		model.SetTemperature(config.Temperature)
	}
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(config.MaxTokens)
	}

	return &Model{
		config: config,
		client: client,
		model:  model,
	}, nil
}

// Summarize produces an abstractive summary bounded by the given word
// budget.
func (m *Model) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	prompt := fmt.Sprintf("Summarize the following in %d to %d words. Reply with the summary only, no preamble.\n\n%s",
		minWords, maxWords, text)

	resp, err := m.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini summarize: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini summarize: no candidates returned")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return "", fmt.Errorf("gemini summarize: empty response")
	}
	return summary, nil
}

// Close releases the underlying API client.
func (m *Model) Close() error {
	return m.client.Close()
}
