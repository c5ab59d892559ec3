package reasoning

import (
	"context"

	"github.com/researchkit/deepresearch/retriever"
)

// retrieverAdapter exposes the chunk-level retriever through the
// Passage-based Retriever contract the engine dispatches against.
type retrieverAdapter struct {
	base *retriever.Retriever
}

// NewRetrieverAdapter wraps a concrete retriever so it can back a
// reasoning engine.
func NewRetrieverAdapter(base *retriever.Retriever) Retriever {
	return &retrieverAdapter{base: base}
}

func (a *retrieverAdapter) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	results, err := a.base.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	passages := make([]Passage, 0, len(results))
	for _, res := range results {
		metadata := map[string]any{
			"chunk_id":    res.Chunk.ID,
			"document_id": res.Chunk.DocumentID,
		}
		for k, v := range res.Chunk.Metadata {
			metadata[k] = v
		}
		passages = append(passages, Passage{
			Text:     res.Chunk.Content,
			Score:    res.Score,
			Metadata: metadata,
		})
	}
	return passages, nil
}
