package reasoning

import (
	"context"
	"fmt"
	"strings"
)

// User-facing messages returned when a strategy has nothing to work
// with. Returned as answers, never as errors.
const (
	msgNoDocuments       = "I don't have enough information to answer your question. Please upload some documents first."
	msgNoRelevantInfo    = "I couldn't find relevant information in the uploaded documents to answer your question."
	msgNoComparisonInfo  = "No information found for comparison."
	msgNoRelevantCompare = "No relevant information found for comparison."
	msgNoAnalysisInfo    = "No information found for analysis."
	msgNoRelevantAnalyze = "No relevant information found for analysis."
	msgNoSummaryInfo     = "No information found for summarization."
	msgNoRelevantSummary = "No relevant information found for summarization."
)

// synthesizeSimple answers a direct question from the first step's
// results only: extractive QA first, then the summarizer chain.
func (s *synthesizer) synthesizeSimple(ctx context.Context, query string, steps []Step) string {
	if len(steps) == 0 || len(steps[0].Results) == 0 {
		return msgNoDocuments
	}

	combined := combineRelevantText(steps[0].Results, s.cfg.MinScore)
	if combined == "" {
		return msgNoRelevantInfo
	}

	if s.cfg.models.Answerer != nil {
		answer, confidence, err := s.cfg.models.Answerer.Answer(ctx, query, truncateChars(combined, 1000))
		if err != nil {
			s.logger.Warn("extractive answer failed", "error", err)
		} else if confidence > s.cfg.AnswerConfidence && s.acceptGenerated(strings.TrimSpace(answer), 10) {
			return fmt.Sprintf("**Answer:**\n\n%s\n\n**Based on the documents:**\n%s",
				strings.TrimSpace(answer), excerpt(combined, 200))
		}
	}

	text := truncateWords(combined, s.cfg.SimpleWordBudget)
	return s.summarizeChain(ctx, text, text, 100, 30, "**Answer:**")
}

// synthesizeComparative answers one sub-question per compared entity
// and a final contrast question, each independently quality-gated.
func (s *synthesizer) synthesizeComparative(ctx context.Context, query string, steps []Step) string {
	pool := pooledResults(steps)
	if len(pool) == 0 {
		return msgNoComparisonInfo
	}

	combined := combineRelevantText(pool, s.cfg.MinScore)
	if combined == "" {
		return msgNoRelevantCompare
	}

	entities := ExtractEntities(query)
	if s.cfg.models.Answerer != nil && len(entities) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "**Comparison: %s**\n\n", query)

		for _, entity := range entities {
			answer, confidence, err := s.cfg.models.Answerer.Answer(ctx,
				fmt.Sprintf("What information is available about %s?", entity), combined)
			if err != nil {
				s.logger.Warn("entity answer failed", "entity", entity, "error", err)
				continue
			}
			if confidence > s.cfg.SectionConfidence {
				fmt.Fprintf(&b, "**%s:**\n%s\n\n", titleCase(entity), answer)
			}
		}

		answer, confidence, err := s.cfg.models.Answerer.Answer(ctx,
			fmt.Sprintf("What are the differences and similarities between %s?", strings.Join(entities, ", ")),
			combined)
		if err != nil {
			s.logger.Warn("comparison answer failed", "error", err)
		} else if confidence > s.cfg.SectionConfidence {
			fmt.Fprintf(&b, "**Comparison Analysis:**\n%s\n", answer)
		}
		return b.String()
	}

	text := truncateWords(combined, s.cfg.WordBudget)
	prompt := fmt.Sprintf("Question: comparative analysis of %s\n\nDocument content: %s\n\nAnswer:", query, text)
	return s.summarizeChain(ctx, prompt, text, 150, 30, "**Summary:**")
}

// synthesizeAnalytical asks three fixed meta-questions against the
// pooled text and concatenates the accepted answers under headers.
func (s *synthesizer) synthesizeAnalytical(ctx context.Context, query string, steps []Step) string {
	pool := pooledResults(steps)
	if len(pool) == 0 {
		return msgNoAnalysisInfo
	}

	combined := combineRelevantText(pool, s.cfg.MinScore)
	if combined == "" {
		return msgNoRelevantAnalyze
	}

	if s.cfg.models.Answerer != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "**Analysis: %s**\n\n", query)

		sections := []struct {
			header   string
			question string
		}{
			{"**Key Aspects:**", fmt.Sprintf("What are the key aspects and details related to %s?", query)},
			{"**Important Details:**", fmt.Sprintf("What important details and information are provided about %s?", query)},
			{"**Significance:**", fmt.Sprintf("What is the significance or importance of %s?", query)},
		}
		for _, section := range sections {
			answer, confidence, err := s.cfg.models.Answerer.Answer(ctx, section.question, combined)
			if err != nil {
				s.logger.Warn("analytical answer failed", "error", err)
				continue
			}
			if confidence > s.cfg.SectionConfidence {
				fmt.Fprintf(&b, "%s\n%s\n\n", section.header, answer)
			}
		}
		return strings.TrimSuffix(b.String(), "\n")
	}

	text := truncateWords(combined, s.cfg.WordBudget)
	prompt := fmt.Sprintf("Question: analysis of %s\n\nDocument content: %s\n\nAnswer:", query, text)
	return s.summarizeChain(ctx, prompt, text, 150, 30, "**Summary:**")
}

// synthesizeSummary summarizes the pooled text with a lower score
// threshold, since summaries tolerate looser relevance.
func (s *synthesizer) synthesizeSummary(ctx context.Context, query string, steps []Step) string {
	pool := pooledResults(steps)
	if len(pool) == 0 {
		return msgNoSummaryInfo
	}

	combined := combineRelevantText(pool, s.cfg.SummaryMinScore)
	if combined == "" {
		return msgNoRelevantSummary
	}

	text := truncateWords(combined, s.cfg.WordBudget)
	prompt := fmt.Sprintf("Question: summary of %s\n\nDocument content: %s\n\nAnswer:", query, text)
	return s.summarizeChain(ctx, prompt, text, 150, 30, "**Summary:**")
}

// synthesizeComplex is the deterministic fallback for complex and
// unrecognized query types: it lists each step's best passages without
// calling any generative model.
func (s *synthesizer) synthesizeComplex(steps []Step) string {
	var b strings.Builder
	b.WriteString("Comprehensive Analysis:\n\n")

	for _, step := range steps {
		if len(step.Results) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n", step.Description)
		limit := len(step.Results)
		if limit > 2 {
			limit = 2
		}
		for _, passage := range step.Results[:limit] {
			fmt.Fprintf(&b, "- %s\n", excerpt(passage.Text, 150))
		}
		b.WriteString("\n")
	}
	return b.String()
}
