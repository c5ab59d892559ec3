package reasoning

import "context"

// QueryType categorizes a user query and selects decomposition and
// synthesis behaviour downstream.
type QueryType string

const (
	// QuerySimple is a single, direct question.
	QuerySimple QueryType = "simple"
	// QueryComplex is a multi-part question requiring decomposition.
	QueryComplex QueryType = "complex"
	// QueryComparative compares multiple entities or concepts.
	QueryComparative QueryType = "comparative"
	// QueryAnalytical requires analysis from multiple perspectives.
	QueryAnalytical QueryType = "analytical"
	// QuerySummarization requests a summary of information.
	QuerySummarization QueryType = "summarization"
)

// SubQuery is a decomposed, independently retrievable fragment of the
// original query. Intent tags the sub-query's role (definition,
// comparison, sub_query, ...), Priority ranks it with 1 highest, and
// Context records its provenance. Sub-queries are immutable once
// created.
type SubQuery struct {
	Text               string `json:"text"`
	Intent             string `json:"query_type"`
	Priority           int    `json:"priority"`
	Context            string `json:"context,omitempty"`
	ExpectedAnswerType string `json:"expected_answer_type"`
}

// Passage is a single retrieved chunk with its similarity score.
type Passage struct {
	Text     string         `json:"text"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Step records one retrieval dispatch: the sub-query issued and the
// passages it returned. Steps are numbered by position, not priority.
type Step struct {
	StepNumber  int        `json:"step_number"`
	Description string     `json:"description"`
	SubQueries  []SubQuery `json:"sub_queries"`
	Results     []Passage  `json:"results"`
	Synthesis   string     `json:"synthesis,omitempty"`
}

// Response captures the full reasoning trace for one query.
type Response struct {
	OriginalQuery string    `json:"original_query"`
	QueryType     QueryType `json:"query_type"`
	Steps         []Step    `json:"reasoning_steps"`
	TotalResults  int       `json:"total_results"`
	Synthesis     string    `json:"synthesis"`
	RawResults    []Passage `json:"raw_results"` // capped preview of the passage pool
}

// Retriever is the semantic search collaborator the engine dispatches
// sub-queries against. Results are ordered by descending score and the
// sequence may be empty.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Summarizer produces an abstractive summary of the given text. A
// degenerate or failed result is expected when the backing model is
// unavailable; callers treat it as optional.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error)
}

// Answerer extracts an answer span for a question from the given
// context, with a confidence in [0,1].
type Answerer interface {
	Answer(ctx context.Context, question, context string) (string, float32, error)
}

// Models groups the optional generative collaborators used during
// synthesis. Summarizers are tried in order; the first acceptable
// output wins.
type Models struct {
	Answerer    Answerer
	Summarizers []Summarizer
}
