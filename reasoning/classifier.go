package reasoning

import (
	"regexp"
	"strings"
)

// Rule maps a group of patterns to a query type. Rules are evaluated
// in order against the lowercased query; the first group with any
// matching pattern wins, so earlier rules take precedence over later
// ones even when both would match.
type Rule struct {
	Type     QueryType
	Patterns []*regexp.Regexp
}

// Classifier assigns a QueryType to raw query text using an ordered
// rule table. It is a pure function of the input text: classifying the
// same text twice always yields the same type.
type Classifier struct {
	rules []Rule
}

func defaultRules() []Rule {
	return []Rule{
		{
			Type: QueryComparative,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(compare|vs|versus|difference between|similarity between)\b`),
				regexp.MustCompile(`\b(better than|worse than|superior to|inferior to)\b`),
			},
		},
		{
			Type: QueryAnalytical,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(analyze|evaluate|assess|examine|investigate)\b`),
				regexp.MustCompile(`\b(why|how|what causes|what leads to|what results in)\b`),
			},
		},
		{
			Type: QueryComplex,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(and|also|additionally|furthermore|moreover)\b`),
				regexp.MustCompile(`\b(compare|contrast|difference|similarity)\b`),
				regexp.MustCompile(`\b(analyze|evaluate|assess|examine)\b`),
				regexp.MustCompile(`\b(what are the|list all|enumerate|describe all)\b`),
				regexp.MustCompile(`\b(how does|why does|what causes|what leads to)\b`),
				regexp.MustCompile(`\b(pros and cons|advantages and disadvantages)\b`),
			},
		},
		{
			// Summarization cues match as plain substrings, so e.g.
			// "summarized" still counts.
			Type: QuerySummarization,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`summarize|summary|overview|brief`),
			},
		},
	}
}

// NewClassifier builds a classifier from the given rule table. With no
// rules the default table is used.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = defaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the query type for the given text. It never fails:
// empty or unmatched input classifies as QuerySimple.
func (c *Classifier) Classify(query string) QueryType {
	lower := strings.ToLower(query)
	for _, rule := range c.rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(lower) {
				return rule.Type
			}
		}
	}
	return QuerySimple
}
