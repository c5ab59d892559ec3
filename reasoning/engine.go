package reasoning

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/researchkit/deepresearch/config"
	kberrors "github.com/researchkit/deepresearch/errors"
	"github.com/researchkit/deepresearch/pkg/logging"
	"github.com/researchkit/deepresearch/pkg/telemetry"
)

// rawResultsCap bounds the raw passage preview carried on the response.
// It only trims the transport payload; synthesis always sees the full
// pool.
const rawResultsCap = 10

// Engine orchestrates the reasoning pipeline for one query at a time:
// classify, decompose, dispatch retrieval per sub-query, synthesize.
// The engine holds no per-query state and may be shared across
// goroutines as long as its collaborators are safe for concurrent use.
type Engine struct {
	cfg        *Config
	classifier *Classifier
	decomposer *Decomposer
	synth      *synthesizer
	retriever  Retriever
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New creates a reasoning engine around the given retriever.
func New(retriever Retriever, opts ...Option) (*Engine, error) {
	if retriever == nil {
		return nil, kberrors.ErrNoRetriever
	}
	cfg := applyEngineOptions(opts)
	if err := config.ValidateEngineConfig(cfg.TopK, float64(cfg.MinScore), float64(cfg.SummaryMinScore)); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		classifier: NewClassifier(cfg.rules...),
		decomposer: NewDecomposer(),
		synth:      newSynthesizer(cfg),
		retriever:  retriever,
		logger:     logging.WithComponent("reasoning_engine"),
		tracer:     telemetry.Tracer("deepresearch/reasoning"),
	}
	e.logger.Info("reasoning engine initialised",
		"top_k", cfg.TopK,
		"min_score", cfg.MinScore,
		"summarizers", len(cfg.models.Summarizers),
		"answerer", cfg.models.Answerer != nil,
	)
	return e, nil
}

// ProcessQuery runs the full pipeline and packages the result with its
// reasoning trace. topK bounds each retrieval call; zero or negative
// falls back to the configured default. Collaborator failures degrade
// to fallbacks along the way; the returned response always carries a
// non-empty synthesis.
func (e *Engine) ProcessQuery(ctx context.Context, query string, topK int) (_ *Response, err error) {
	ctx, span := e.tracer.Start(ctx, "reasoning.process_query")
	defer func() { telemetry.End(span, err) }()

	if topK <= 0 {
		topK = e.cfg.TopK
	}

	queryType := e.classifier.Classify(query)
	span.SetAttributes(attribute.String("query.type", string(queryType)))
	e.logger.Info("query classified", "query_type", queryType)

	subQueries := e.decomposer.Decompose(query, queryType)
	e.logger.Info("query decomposed", "sub_queries", len(subQueries))

	steps := Dispatch(ctx, e.retriever, subQueries, topK, e.logger)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	pool := pooledResults(steps)
	synthesis := e.synth.Synthesize(ctx, query, queryType, steps)

	raw := pool
	if len(raw) > rawResultsCap {
		raw = raw[:rawResultsCap]
	}

	resp := &Response{
		OriginalQuery: query,
		QueryType:     queryType,
		Steps:         steps,
		TotalResults:  len(pool),
		Synthesis:     synthesis,
		RawResults:    raw,
	}
	span.SetAttributes(attribute.Int("results.total", resp.TotalResults))
	e.logger.Info("query processed",
		"query_type", queryType,
		"steps", len(steps),
		"total_results", resp.TotalResults,
	)
	return resp, nil
}
