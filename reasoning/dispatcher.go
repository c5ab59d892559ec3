package reasoning

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatch issues each sub-query against the retriever, in input order,
// and wraps every result set in a Step. Step numbers are positional
// (1..N), independent of sub-query priorities, and the input is never
// reordered or deduplicated.
//
// A failed or empty retrieval is not fatal: the step records an empty
// result set and dispatch continues with the remaining sub-queries.
func Dispatch(ctx context.Context, r Retriever, subQueries []SubQuery, topK int, logger *slog.Logger) []Step {
	if logger == nil {
		logger = slog.Default()
	}

	steps := make([]Step, 0, len(subQueries))
	for i, sq := range subQueries {
		results, err := r.Search(ctx, sq.Text, topK)
		if err != nil {
			logger.Warn("sub-query retrieval failed",
				"step", i+1,
				"sub_query", sq.Text,
				"error", err,
			)
			results = nil
		}
		steps = append(steps, Step{
			StepNumber:  i + 1,
			Description: fmt.Sprintf("Sub-query: %s", sq.Text),
			SubQueries:  []SubQuery{sq},
			Results:     results,
		})
	}
	return steps
}
