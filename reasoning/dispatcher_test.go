package reasoning

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// stubRetriever serves canned passages per query text and records the
// order queries arrive in.
type stubRetriever struct {
	results map[string][]Passage
	failOn  map[string]error
	queries []string
}

func (s *stubRetriever) Search(_ context.Context, query string, _ int) ([]Passage, error) {
	s.queries = append(s.queries, query)
	if err, ok := s.failOn[query]; ok {
		return nil, err
	}
	return s.results[query], nil
}

func TestDispatchPreservesOrder(t *testing.T) {
	ctx := context.Background()

	var subQueries []SubQuery
	results := make(map[string][]Passage)
	for i := 0; i < 5; i++ {
		text := fmt.Sprintf("sub-query %d", i)
		// Priorities deliberately differ from position to verify that
		// step numbering is positional.
		subQueries = append(subQueries, newSubQuery(text, "sub_query", 5-i, ""))
		results[text] = []Passage{{Text: text + " passage", Score: 0.5}}
	}
	r := &stubRetriever{results: results}

	steps := Dispatch(ctx, r, subQueries, 3, nil)
	if len(steps) != len(subQueries) {
		t.Fatalf("expected %d steps, got %d", len(subQueries), len(steps))
	}
	for i, step := range steps {
		if step.StepNumber != i+1 {
			t.Errorf("step %d: step_number = %d, want %d", i, step.StepNumber, i+1)
		}
		if step.Description != "Sub-query: "+subQueries[i].Text {
			t.Errorf("step %d: unexpected description %q", i, step.Description)
		}
		if len(step.SubQueries) != 1 || step.SubQueries[0].Text != subQueries[i].Text {
			t.Errorf("step %d: sub-query not carried through", i)
		}
		if r.queries[i] != subQueries[i].Text {
			t.Errorf("dispatch order broken at %d: searched %q", i, r.queries[i])
		}
	}
}

func TestDispatchContinuesAfterRetrievalFailure(t *testing.T) {
	ctx := context.Background()

	subQueries := []SubQuery{
		newSubQuery("first", "sub_query", 1, ""),
		newSubQuery("broken", "sub_query", 2, ""),
		newSubQuery("third", "sub_query", 3, ""),
	}
	r := &stubRetriever{
		results: map[string][]Passage{
			"first": {{Text: "first passage", Score: 0.9}},
			"third": {{Text: "third passage", Score: 0.7}},
		},
		failOn: map[string]error{"broken": errors.New("index offline")},
	}

	steps := Dispatch(ctx, r, subQueries, 3, nil)
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps despite failure, got %d", len(steps))
	}
	if len(steps[0].Results) != 1 || len(steps[2].Results) != 1 {
		t.Errorf("expected surviving steps to carry results")
	}
	if len(steps[1].Results) != 0 {
		t.Errorf("expected failed step to record empty results, got %d", len(steps[1].Results))
	}
}

func TestDispatchEmptyResultsAreNotErrors(t *testing.T) {
	ctx := context.Background()

	r := &stubRetriever{}
	steps := Dispatch(ctx, r, []SubQuery{newSubQuery("anything", "simple", 1, "")}, 5, nil)
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	if len(steps[0].Results) != 0 {
		t.Errorf("expected empty results, got %d", len(steps[0].Results))
	}
}
