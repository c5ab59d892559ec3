package retriever

import (
	"context"
	"fmt"
	"sync"

	"github.com/researchkit/deepresearch/document"
	"github.com/researchkit/deepresearch/ingest"
	"github.com/researchkit/deepresearch/vector"
)

// Config controls retrieval behaviour.
type Config struct {
	SearchTopK          int
	MinScore            float32
	NormalizeEmbeddings bool
}

// Option customizes retriever config.
type Option func(*Config)

// WithSearchTopK sets the number of neighbors fetched from the vector store.
func WithSearchTopK(k int) Option {
	return func(cfg *Config) {
		if k > 0 {
			cfg.SearchTopK = k
		}
	}
}

// WithMinScore drops hits whose similarity falls below the threshold.
func WithMinScore(score float32) Option {
	return func(cfg *Config) {
		if score > 0 {
			cfg.MinScore = score
		}
	}
}

// WithNormalizeEmbeddings scales chunk and query vectors to unit length
// before storage and search. Useful with stores whose distance metric
// assumes normalized vectors.
func WithNormalizeEmbeddings() Option {
	return func(cfg *Config) {
		cfg.NormalizeEmbeddings = true
	}
}

// Result is a single scored hit returned by Search.
type Result struct {
	Chunk document.Chunk
	Score float32
}

// Retriever coordinates chunking, embedding, and similarity search.
type Retriever struct {
	store    vector.VectorStore
	embedder vector.Embedder
	chunker  ingest.Chunker
	cfg      Config

	mu        sync.RWMutex
	documents map[string]document.Document
	chunks    map[string]document.Chunk
}

// New creates a retriever.
func New(store vector.VectorStore, emb vector.Embedder, chunker ingest.Chunker, opts ...Option) *Retriever {
	cfg := Config{
		SearchTopK: 8,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Retriever{
		store:     store,
		embedder:  emb,
		chunker:   chunker,
		cfg:       cfg,
		documents: make(map[string]document.Document),
		chunks:    make(map[string]document.Chunk),
	}
}

// IndexDocuments ingests documents -> chunks -> embeddings -> vector store.
func (r *Retriever) IndexDocuments(ctx context.Context, docs ...document.Document) error {
	if r.store == nil || r.embedder == nil || r.chunker == nil {
		return fmt.Errorf("retriever not fully configured")
	}

	for _, doc := range docs {
		document.EnsureDocumentID(&doc)
		chunks, err := r.chunker.Chunk(ctx, doc)
		if err != nil {
			return fmt.Errorf("chunk document %s: %w", doc.ID, err)
		}

		for _, chunk := range chunks {
			vec, err := r.embedder.Embed(ctx, chunk.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", chunk.ID, err)
			}
			if r.cfg.NormalizeEmbeddings {
				vec = vector.Normalize(vec)
			}
			embedding := &vector.Embedding{
				ID:     chunk.ID,
				Vector: vec,
				Text:   chunk.Content,
			}
			if err := r.store.AddEmbedding(ctx, embedding); err != nil {
				return fmt.Errorf("store chunk %s: %w", chunk.ID, err)
			}

			r.mu.Lock()
			r.chunks[chunk.ID] = chunk.Clone()
			r.documents[doc.ID] = doc.Clone()
			r.mu.Unlock()
		}
	}
	return nil
}

// Search embeds the query and returns the closest chunks with their
// similarity scores, highest first. A non-positive topK falls back to
// the configured default.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if r.store == nil || r.embedder == nil {
		return nil, fmt.Errorf("retriever not fully configured")
	}
	if topK <= 0 {
		topK = r.cfg.SearchTopK
	}
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if r.cfg.NormalizeEmbeddings {
		queryVec = vector.Normalize(queryVec)
	}
	hits, scores, err := r.store.Search(ctx, queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for i, hit := range hits {
		var score float32
		if i < len(scores) {
			score = scores[i]
		}
		if score < r.cfg.MinScore {
			continue
		}
		chunk, ok := r.lookupChunk(hit.ID)
		if !ok {
			// Store entries without local chunk metadata still carry text.
			chunk = document.Chunk{ID: hit.ID, Content: hit.Text}
		}
		results = append(results, Result{
			Chunk: chunk,
			Score: score,
		})
	}
	return results, nil
}

// Document fetches a document by ID.
func (r *Retriever) Document(id string) (document.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[id]
	return doc.Clone(), ok
}

// lookupChunk retrieves chunk metadata.
func (r *Retriever) lookupChunk(id string) (document.Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chunk, ok := r.chunks[id]
	if !ok {
		return document.Chunk{}, false
	}
	return chunk.Clone(), true
}

// Clear drops all indexed state.
func (r *Retriever) Clear(ctx context.Context) error {
	if r.store != nil {
		if err := r.store.Clear(ctx); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = make(map[string]document.Chunk)
	r.documents = make(map[string]document.Document)
	return nil
}

// Count returns number of chunks indexed.
func (r *Retriever) Count(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	return r.store.Count(ctx)
}
