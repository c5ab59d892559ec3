package reasoning

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	topicStripRe   = regexp.MustCompile(`(?i)^(what|how|why|when|where|who|which|tell me about|explain|describe|analyze|evaluate)\s+`)
	conjunctionRe  = regexp.MustCompile(`(?i)\b(and|also|additionally|furthermore|moreover)\b`)
	entityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)compare\s+(.+?)\s+and\s+(.+)`),
		regexp.MustCompile(`(?i)(.+?)\s+vs\s+(.+)`),
		regexp.MustCompile(`(?i)(.+?)\s+versus\s+(.+)`),
		regexp.MustCompile(`(?i)difference\s+between\s+(.+?)\s+and\s+(.+)`),
		regexp.MustCompile(`(?i)similarity\s+between\s+(.+?)\s+and\s+(.+)`),
		regexp.MustCompile(`(?i)(.+?)\s+(?:vs|versus|and)\s+(.+)`),
	}
)

// Decomposer breaks a classified query into prioritized sub-queries.
// Extraction is best-effort and never fails: when no entity or topic
// can be found the per-type fallback set is emitted instead.
type Decomposer struct{}

// NewDecomposer creates a decomposer.
func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// Decompose returns a non-empty, priority-ordered sub-query sequence
// for the given query and type.
func (d *Decomposer) Decompose(query string, queryType QueryType) []SubQuery {
	switch queryType {
	case QueryComparative:
		return d.decomposeComparative(query)
	case QueryAnalytical:
		return d.decomposeAnalytical(query)
	case QueryComplex:
		return d.decomposeComplex(query)
	case QuerySummarization:
		return d.decomposeSummarization(query)
	default:
		return []SubQuery{newSubQuery(query, "simple", 1, "")}
	}
}

// decomposeComparative emits one definitional sub-query per compared
// entity plus a contrast sub-query. Both entity lookups share priority
// 1; the contrast runs at priority 2 since it depends on their results.
func (d *Decomposer) decomposeComparative(query string) []SubQuery {
	entities := ExtractEntities(query)
	if len(entities) < 2 {
		topic := extractTopic(query)
		return []SubQuery{
			newSubQuery(topic+" technologies", "definition", 1, fmt.Sprintf("Analysis of: %s", query)),
		}
	}

	subQueries := make([]SubQuery, 0, len(entities)+1)
	for _, entity := range entities {
		subQueries = append(subQueries, newSubQuery(
			entity+" technologies and frameworks",
			"definition", 1,
			fmt.Sprintf("Part of comparison: %s", query),
		))
	}
	subQueries = append(subQueries, newSubQuery(
		fmt.Sprintf("differences between %s and %s", entities[0], entities[1]),
		"comparison", 2,
		fmt.Sprintf("Main comparison query: %s", query),
	))
	return subQueries
}

func (d *Decomposer) decomposeAnalytical(query string) []SubQuery {
	topic := extractTopic(query)
	lower := strings.ToLower(topic)

	if strings.Contains(lower, "projects") && strings.Contains(lower, "skills") {
		return []SubQuery{
			newSubQuery("software projects and applications", "projects", 1,
				fmt.Sprintf("Project analysis for: %s", query)),
			newSubQuery("programming languages and technical skills", "skills", 2,
				fmt.Sprintf("Skills analysis for: %s", query)),
			newSubQuery("technologies and frameworks used", "technologies", 3,
				fmt.Sprintf("Technology analysis for: %s", query)),
		}
	}
	return []SubQuery{
		newSubQuery(topic+" overview and details", "definition", 1,
			fmt.Sprintf("Background for: %s", query)),
		newSubQuery(topic+" key points and features", "aspects", 2,
			fmt.Sprintf("Key aspects for: %s", query)),
	}
}

// decomposeComplex splits the query on conjunction boundaries and keeps
// fragments long enough to stand alone as sub-queries.
func (d *Decomposer) decomposeComplex(query string) []SubQuery {
	var subQueries []SubQuery
	for _, part := range conjunctionRe.Split(query, -1) {
		part = strings.TrimSpace(part)
		if len(part) <= 10 {
			continue
		}
		priority := len(subQueries) + 1
		subQueries = append(subQueries, newSubQuery(part, "sub_query", priority,
			fmt.Sprintf("Part %d of: %s", priority, query)))
	}

	if len(subQueries) <= 1 {
		topic := extractTopic(query)
		subQueries = []SubQuery{
			newSubQuery(fmt.Sprintf("What is %s?", topic), "definition", 1,
				fmt.Sprintf("Definition for: %s", query)),
			newSubQuery(fmt.Sprintf("What are the key points about %s?", topic), "key_points", 2,
				fmt.Sprintf("Key information for: %s", query)),
		}
	}
	return subQueries
}

func (d *Decomposer) decomposeSummarization(query string) []SubQuery {
	topic := extractTopic(query)

	if strings.Contains(strings.ToLower(topic), "resume") {
		return []SubQuery{
			newSubQuery("work experience and internships", "experience", 1,
				fmt.Sprintf("Experience summary for: %s", query)),
			newSubQuery("projects and technical skills", "projects_skills", 2,
				fmt.Sprintf("Projects and skills for: %s", query)),
			newSubQuery("education and certifications", "education", 3,
				fmt.Sprintf("Education summary for: %s", query)),
		}
	}
	return []SubQuery{
		newSubQuery(topic+" key information", "main_points", 1,
			fmt.Sprintf("Key content for summary: %s", query)),
		newSubQuery(topic+" important details", "details", 2,
			fmt.Sprintf("Supporting details for summary: %s", query)),
	}
}

func newSubQuery(text, intent string, priority int, context string) SubQuery {
	return SubQuery{
		Text:               text,
		Intent:             intent,
		Priority:           priority,
		Context:            context,
		ExpectedAnswerType: "factual",
	}
}

// ExtractEntities pulls the two compared entities out of a comparative
// query. Patterns are tried in order from most to least specific; an
// empty slice means no comparison structure was found.
func ExtractEntities(query string) []string {
	for _, pattern := range entityPatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			return []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
		}
	}
	return nil
}

// extractTopic strips leading interrogative words and the trailing
// question mark, then keeps the first five words.
func extractTopic(query string) string {
	topic := topicStripRe.ReplaceAllString(query, "")
	topic = strings.TrimSpace(strings.TrimSuffix(topic, "?"))

	words := strings.Fields(topic)
	if len(words) > 5 {
		return strings.Join(words[:5], " ")
	}
	return topic
}
