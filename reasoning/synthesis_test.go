package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubAnswerer returns a fixed span and confidence for every question.
type stubAnswerer struct {
	answer     string
	confidence float32
	err        error
	calls      int
}

func (s *stubAnswerer) Answer(_ context.Context, _, _ string) (string, float32, error) {
	s.calls++
	if s.err != nil {
		return "", 0, s.err
	}
	return s.answer, s.confidence, nil
}

// stubSummarizer returns a fixed summary.
type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string, _, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func newTestSynthesizer(opts ...Option) *synthesizer {
	return newSynthesizer(applyEngineOptions(opts))
}

func TestCombineRelevantText(t *testing.T) {
	passages := []Passage{
		{Text: "Go services scale well", Score: 0.8},
		{Text: "Go SERVICES use goroutines", Score: 0.5},
		{Text: "irrelevant noise", Score: 0.1},
	}

	combined := combineRelevantText(passages, 0.3)
	if combined != "Go services scale well use goroutines" {
		t.Errorf("unexpected combined text: %q", combined)
	}

	if got := combineRelevantText(passages, 0.95); got != "" {
		t.Errorf("expected empty text when nothing clears the threshold, got %q", got)
	}
}

func TestAcceptGenerated(t *testing.T) {
	s := newTestSynthesizer()

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"good answer", "The service handles ingestion of uploaded documents.", true},
		{"too short", "short", false},
		{"training artifact", "The answer converged after the final epoch of runs.", false},
		{"numeric artifact", "Set the value to 0.01 for best results in production.", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.acceptGenerated(tc.text, 10); got != tc.want {
				t.Errorf("acceptGenerated(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestAcceptGeneratedCustomDenylist(t *testing.T) {
	s := newTestSynthesizer(WithDenylist("forbidden"))

	if s.acceptGenerated("this contains forbidden vocabulary terms", 10) {
		t.Error("expected custom denylist to reject")
	}
	if !s.acceptGenerated("an epoch-making discovery in the archive", 10) {
		t.Error("expected default denylist to be replaced")
	}
}

func TestFallbackExtract(t *testing.T) {
	long := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."
	got := fallbackExtract("**Answer:**", long)
	if !strings.HasPrefix(got, "**Answer:**\n\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "Third sentence here") || strings.Contains(got, "Fourth sentence") {
		t.Errorf("expected first three sentences only: %q", got)
	}

	short := "Just one sentence."
	if got := fallbackExtract("**Summary:**", short); !strings.Contains(got, short) {
		t.Errorf("short text should be returned whole: %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"python", "Python"},
		{"machine learning", "Machine Learning"},
		{"établi", "Établi"},
		{"über api", "Über Api"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeChainFallsThrough(t *testing.T) {
	broken := &stubSummarizer{err: errors.New("model unavailable")}
	degenerate := &stubSummarizer{summary: "epoch loss"}
	good := &stubSummarizer{summary: "The document describes the ingestion and retrieval pipeline."}
	s := newTestSynthesizer(WithSummarizers(broken, degenerate, good))

	source := "The pipeline ingests documents. It chunks them. It embeds each chunk."
	out := s.summarizeChain(context.Background(), source, source, 150, 30, "**Summary:**")

	if broken.calls != 1 || degenerate.calls != 1 || good.calls != 1 {
		t.Fatalf("expected chain to be tried in order, calls: %d/%d/%d",
			broken.calls, degenerate.calls, good.calls)
	}
	if !strings.Contains(out, "**Answer:**") || !strings.Contains(out, "**Source Information:**") {
		t.Errorf("unexpected summary format: %q", out)
	}
	if !strings.Contains(out, good.summary) {
		t.Errorf("expected accepted summary in output: %q", out)
	}
}

func TestSummarizeChainExhaustedUsesExtract(t *testing.T) {
	s := newTestSynthesizer(WithSummarizers(&stubSummarizer{err: errors.New("down")}))

	source := "Alpha sentence. Beta sentence. Gamma sentence. Delta sentence."
	out := s.summarizeChain(context.Background(), source, source, 150, 30, "**Summary:**")
	if !strings.HasPrefix(out, "**Summary:**") {
		t.Errorf("expected deterministic extract, got %q", out)
	}
	if !strings.Contains(out, "Alpha sentence") {
		t.Errorf("expected extract of source text, got %q", out)
	}
}

func TestSynthesizeSimpleAnswerPath(t *testing.T) {
	answerer := &stubAnswerer{answer: "Documents are chunked then embedded.", confidence: 0.6}
	s := newTestSynthesizer(WithAnswerer(answerer))

	steps := []Step{{
		StepNumber:  1,
		Description: "Sub-query: how ingestion works",
		Results:     []Passage{{Text: "Ingestion chunks documents and embeds each chunk.", Score: 0.7}},
	}}

	out := s.synthesizeSimple(context.Background(), "How does ingestion work?", steps)
	if !strings.Contains(out, "**Answer:**") || !strings.Contains(out, answerer.answer) {
		t.Errorf("expected extractive answer, got %q", out)
	}
	if !strings.Contains(out, "**Based on the documents:**") {
		t.Errorf("expected supporting excerpt header, got %q", out)
	}
}

func TestSynthesizeSimpleLowConfidenceFallsBack(t *testing.T) {
	answerer := &stubAnswerer{answer: "Documents are chunked and embedded here.", confidence: 0.05}
	summarizer := &stubSummarizer{summary: "Ingestion chunks documents before embedding them individually."}
	s := newTestSynthesizer(WithAnswerer(answerer), WithSummarizers(summarizer))

	steps := []Step{{
		StepNumber: 1,
		Results:    []Passage{{Text: "Ingestion chunks documents and embeds each chunk.", Score: 0.7}},
	}}

	out := s.synthesizeSimple(context.Background(), "How does ingestion work?", steps)
	if summarizer.calls != 1 {
		t.Fatalf("expected summarizer fallback, calls = %d", summarizer.calls)
	}
	if !strings.Contains(out, summarizer.summary) {
		t.Errorf("expected summarizer output, got %q", out)
	}
}

func TestSynthesizeSimpleNoResults(t *testing.T) {
	s := newTestSynthesizer()

	out := s.synthesizeSimple(context.Background(), "anything", []Step{{StepNumber: 1}})
	if out != msgNoDocuments {
		t.Errorf("expected %q, got %q", msgNoDocuments, out)
	}
}

func TestSynthesizeComparativeSections(t *testing.T) {
	answerer := &stubAnswerer{answer: "Statically typed with a rich ecosystem.", confidence: 0.8}
	s := newTestSynthesizer(WithAnswerer(answerer))

	steps := []Step{
		{StepNumber: 1, Results: []Passage{{Text: "Python details here.", Score: 0.8}}},
		{StepNumber: 2, Results: []Passage{{Text: "Java details here.", Score: 0.8}}},
	}

	out := s.synthesizeComparative(context.Background(), "Compare Python and Java", steps)
	if !strings.Contains(out, "**Comparison: Compare Python and Java**") {
		t.Errorf("missing comparison header: %q", out)
	}
	if !strings.Contains(out, "**Python:**") || !strings.Contains(out, "**Java:**") {
		t.Errorf("missing entity sections: %q", out)
	}
	if !strings.Contains(out, "**Comparison Analysis:**") {
		t.Errorf("missing contrast section: %q", out)
	}
	// One question per entity plus the contrast question.
	if answerer.calls != 3 {
		t.Errorf("expected 3 answer calls, got %d", answerer.calls)
	}
}

func TestSynthesizeComparativeNoResults(t *testing.T) {
	s := newTestSynthesizer()

	if out := s.synthesizeComparative(context.Background(), "Compare A and B", nil); out != msgNoComparisonInfo {
		t.Errorf("expected %q, got %q", msgNoComparisonInfo, out)
	}

	steps := []Step{{StepNumber: 1, Results: []Passage{{Text: "weak match", Score: 0.05}}}}
	if out := s.synthesizeComparative(context.Background(), "Compare A and B", steps); out != msgNoRelevantCompare {
		t.Errorf("expected %q, got %q", msgNoRelevantCompare, out)
	}
}

func TestSynthesizeAnalyticalSections(t *testing.T) {
	answerer := &stubAnswerer{answer: "Latency is dominated by embedding calls.", confidence: 0.9}
	s := newTestSynthesizer(WithAnswerer(answerer))

	steps := []Step{{StepNumber: 1, Results: []Passage{{Text: "Profiling data and latency details.", Score: 0.9}}}}

	out := s.synthesizeAnalytical(context.Background(), "Why is the pipeline slow?", steps)
	for _, header := range []string{"**Analysis: Why is the pipeline slow?**", "**Key Aspects:**", "**Important Details:**", "**Significance:**"} {
		if !strings.Contains(out, header) {
			t.Errorf("missing %q in %q", header, out)
		}
	}
}

func TestSynthesizeSummaryThreshold(t *testing.T) {
	summarizer := &stubSummarizer{summary: "The report covers quarterly revenue and growth drivers."}
	s := newTestSynthesizer(WithSummarizers(summarizer))

	// 0.25 clears the summarization threshold (0.2) but not the default
	// threshold used elsewhere (0.3).
	steps := []Step{{StepNumber: 1, Results: []Passage{{Text: "Quarterly revenue grew steadily.", Score: 0.25}}}}

	out := s.synthesizeSummary(context.Background(), "Summarize the report", steps)
	if !strings.Contains(out, summarizer.summary) {
		t.Errorf("expected summary output, got %q", out)
	}

	if out := s.synthesizeAnalytical(context.Background(), "Analyze the report", steps); out != msgNoRelevantAnalyze {
		t.Errorf("expected analytical threshold to reject 0.25, got %q", out)
	}
}

func TestSynthesizeComplexListsSteps(t *testing.T) {
	s := newTestSynthesizer()

	long := strings.Repeat("x", 200)
	steps := []Step{
		{
			StepNumber:  1,
			Description: "Sub-query: first fragment",
			Results: []Passage{
				{Text: long, Score: 0.9},
				{Text: "second passage", Score: 0.8},
				{Text: "third passage must not appear", Score: 0.7},
			},
		},
		{StepNumber: 2, Description: "Sub-query: empty fragment"},
	}

	out := s.synthesizeComplex(steps)
	if !strings.HasPrefix(out, "Comprehensive Analysis:\n\n") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "**Sub-query: first fragment**") {
		t.Errorf("missing step description: %q", out)
	}
	if strings.Contains(out, "third passage must not appear") {
		t.Errorf("expected only first two passages per step: %q", out)
	}
	if strings.Contains(out, "empty fragment") {
		t.Errorf("steps without results should be skipped: %q", out)
	}
	if strings.Contains(out, long) {
		t.Errorf("expected passage truncation: %q", out)
	}
	if !strings.Contains(out, long[:150]+"...") {
		t.Errorf("expected 150-char excerpt with ellipsis")
	}
}
