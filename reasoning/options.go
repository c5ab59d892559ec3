package reasoning

// Config controls the reasoning engine: retrieval depth, the score
// thresholds each synthesis strategy filters with, and the quality
// gate applied to generated text.
type Config struct {
	TopK              int     // neighbors fetched per sub-query
	MinScore          float32 // passage threshold for simple/comparative/analytical synthesis
	SummaryMinScore   float32 // passage threshold for summarization synthesis
	AnswerConfidence  float32 // minimum extractive-answer confidence for the direct answer path
	SectionConfidence float32 // minimum confidence for per-section answers
	SimpleWordBudget  int     // words fed to the summarizer chain by the simple strategy
	WordBudget        int     // words fed to the summarizer chain by the other strategies
	Denylist          []string

	models Models
	rules  []Rule
}

// Option customises the engine configuration.
type Option func(*Config)

// WithTopK sets how many passages each sub-query retrieves.
func WithTopK(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.TopK = k
		}
	}
}

// WithMinScore sets the passage score threshold used by the simple,
// comparative, and analytical strategies.
func WithMinScore(score float32) Option {
	return func(cfg *Config) {
		if score >= 0 {
			cfg.MinScore = score
		}
	}
}

// WithSummaryMinScore sets the passage score threshold used by the
// summarization strategy.
func WithSummaryMinScore(score float32) Option {
	return func(cfg *Config) {
		if score >= 0 {
			cfg.SummaryMinScore = score
		}
	}
}

// WithDenylist replaces the vocabulary used by the quality gate to
// reject generated text that leaked model-internal artifacts.
func WithDenylist(words ...string) Option {
	return func(cfg *Config) {
		cfg.Denylist = words
	}
}

// WithModels injects the generative collaborators used for synthesis.
// With no models configured every strategy degrades to deterministic
// extractive synthesis.
func WithModels(models Models) Option {
	return func(cfg *Config) {
		cfg.models = models
	}
}

// WithAnswerer sets the extractive question-answering collaborator.
func WithAnswerer(a Answerer) Option {
	return func(cfg *Config) {
		if a != nil {
			cfg.models.Answerer = a
		}
	}
}

// WithSummarizers sets the abstractive summarizer chain, tried in
// order with the first acceptable output short-circuiting.
func WithSummarizers(chain ...Summarizer) Option {
	return func(cfg *Config) {
		if len(chain) > 0 {
			cfg.models.Summarizers = chain
		}
	}
}

// WithRules replaces the classification rule table.
func WithRules(rules ...Rule) Option {
	return func(cfg *Config) {
		if len(rules) > 0 {
			cfg.rules = rules
		}
	}
}

func defaultEngineConfig() *Config {
	return &Config{
		TopK:              5,
		MinScore:          0.3,
		SummaryMinScore:   0.2,
		AnswerConfidence:  0.1,
		SectionConfidence: 0.3,
		SimpleWordBudget:  500,
		WordBudget:        800,
		Denylist: []string{
			"rate", "epoch", "training", "model", "loss", "accuracy",
			"0.01", "5000", "sigmoid", "neural", "network",
		},
	}
}

func applyEngineOptions(opts []Option) *Config {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}
