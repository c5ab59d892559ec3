package reasoning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/researchkit/deepresearch/pkg/logging"
)

// synthesizer routes pooled retrieval results to the strategy matching
// the query type and applies the shared quality gate to generated text.
type synthesizer struct {
	cfg    *Config
	logger *slog.Logger
}

func newSynthesizer(cfg *Config) *synthesizer {
	return &synthesizer{
		cfg:    cfg,
		logger: logging.WithComponent("synthesizer"),
	}
}

// Synthesize produces the final answer text for the query. It always
// returns a non-empty string: collaborator failures degrade to
// deterministic extractive synthesis, never to an error.
func (s *synthesizer) Synthesize(ctx context.Context, query string, queryType QueryType, steps []Step) string {
	switch queryType {
	case QuerySimple:
		return s.synthesizeSimple(ctx, query, steps)
	case QueryComparative:
		return s.synthesizeComparative(ctx, query, steps)
	case QueryAnalytical:
		return s.synthesizeAnalytical(ctx, query, steps)
	case QuerySummarization:
		return s.synthesizeSummary(ctx, query, steps)
	default:
		return s.synthesizeComplex(steps)
	}
}

// summarizeChain runs the configured summarizers in order and returns
// the first output that clears the quality gate. When every model
// fails or is rejected it falls back to a deterministic extract of the
// source text under the given header.
func (s *synthesizer) summarizeChain(ctx context.Context, prompt, source string, maxWords, minWords int, fallbackHeader string) string {
	for _, summarizer := range s.cfg.models.Summarizers {
		out, err := summarizer.Summarize(ctx, prompt, maxWords, minWords)
		if err != nil {
			s.logger.Warn("summarization failed", "error", err)
			continue
		}
		out = strings.TrimSpace(out)
		if !s.acceptGenerated(out, 20) {
			s.logger.Debug("summary rejected by quality gate", "length", len(out))
			continue
		}
		return fmt.Sprintf("**Answer:**\n\n%s\n\n**Source Information:**\n%s", out, excerpt(source, 200))
	}
	return fallbackExtract(fallbackHeader, source)
}

// acceptGenerated is the quality gate for model output: a minimum
// length plus a denylist of vocabulary that indicates the model echoed
// training-process artifacts instead of answering.
func (s *synthesizer) acceptGenerated(text string, minLen int) bool {
	if len(text) < minLen {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range s.cfg.Denylist {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// pooledResults flattens all step results in step order, preserving
// per-step result ordering.
func pooledResults(steps []Step) []Passage {
	var pool []Passage
	for _, step := range steps {
		pool = append(pool, step.Results...)
	}
	return pool
}

// combineRelevantText keeps passages at or above the score threshold,
// joins them, and drops repeated words case-insensitively while
// preserving first-occurrence order.
func combineRelevantText(passages []Passage, minScore float32) string {
	var texts []string
	for _, p := range passages {
		if p.Score >= minScore {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	words := strings.Fields(strings.Join(texts, " "))
	seen := make(map[string]struct{}, len(words))
	unique := make([]string, 0, len(words))
	for _, word := range words {
		key := strings.ToLower(word)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, word)
	}
	return strings.Join(unique, " ")
}

// truncateWords keeps at most n leading words.
func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}

// truncateChars keeps at most n leading runes.
func truncateChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// excerpt truncates to n runes with an ellipsis when text was cut.
func excerpt(text string, n int) string {
	if len([]rune(text)) <= n {
		return text
	}
	return truncateChars(text, n) + "..."
}

// fallbackExtract is the deterministic extractive summary used when no
// generative model produced an acceptable answer: the first three
// sentences of the text, or its first 300 characters.
func fallbackExtract(header, text string) string {
	sentences := strings.SplitN(text, ". ", 4)
	if len(sentences) <= 3 {
		return fmt.Sprintf("%s\n\n%s", header, excerpt(text, 300))
	}
	return fmt.Sprintf("%s\n\n%s...", header, strings.Join(sentences[:3], ". "))
}

// titleCase uppercases the first letter of each word.
func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}
