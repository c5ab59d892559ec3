package inmemory

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/researchkit/deepresearch/vector"
)

// InMemoryVectorStore implements VectorStore using in-memory storage.
// It can optionally persist its index to a file so a knowledge base survives
// process restarts.
type InMemoryVectorStore struct {
	embeddings map[string]*vector.Embedding
	order      []string
	path       string
	mu         sync.RWMutex
}

// Option customizes the in-memory store.
type Option func(*InMemoryVectorStore)

// WithPersistPath sets the file used by Persist/Restore.
func WithPersistPath(path string) Option {
	return func(s *InMemoryVectorStore) {
		s.path = path
	}
}

// NewInMemoryVectorStore creates a new in-memory vector store
func NewInMemoryVectorStore(opts ...Option) *InMemoryVectorStore {
	s := &InMemoryVectorStore{
		embeddings: make(map[string]*vector.Embedding),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEmbedding adds a new embedding to the store
func (s *InMemoryVectorStore) AddEmbedding(ctx context.Context, embedding *vector.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if embedding == nil {
		return fmt.Errorf("embedding cannot be nil")
	}

	if embedding.ID == "" {
		return fmt.Errorf("embedding ID cannot be empty")
	}

	if len(embedding.Vector) == 0 {
		return fmt.Errorf("embedding vector cannot be empty")
	}

	if _, exists := s.embeddings[embedding.ID]; !exists {
		s.order = append(s.order, embedding.ID)
	}
	s.embeddings[embedding.ID] = embedding
	return nil
}

// Search finds embeddings similar to the query vector
func (s *InMemoryVectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]*vector.Embedding, []float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(queryVector) == 0 {
		return nil, nil, fmt.Errorf("query vector cannot be empty")
	}

	if topK <= 0 {
		topK = 10
	}

	type result struct {
		embedding  *vector.Embedding
		similarity float32
	}

	// Iterate in insertion order so equal scores keep a stable ranking.
	results := make([]result, 0, len(s.embeddings))
	for _, id := range s.order {
		emb := s.embeddings[id]
		if len(emb.Vector) != len(queryVector) {
			continue
		}
		results = append(results, result{
			embedding:  emb,
			similarity: vector.CosineSimilarity(queryVector, emb.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].similarity > results[j].similarity
	})

	limit := topK
	if limit > len(results) {
		limit = len(results)
	}

	embeddings := make([]*vector.Embedding, limit)
	scores := make([]float32, limit)
	for i := 0; i < limit; i++ {
		embeddings[i] = results[i].embedding
		scores[i] = results[i].similarity
	}

	return embeddings, scores, nil
}

// DeleteEmbedding removes an embedding by ID
func (s *InMemoryVectorStore) DeleteEmbedding(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.embeddings[id]; !exists {
		return fmt.Errorf("embedding not found")
	}

	delete(s.embeddings, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// GetEmbedding retrieves a specific embedding by ID
func (s *InMemoryVectorStore) GetEmbedding(ctx context.Context, id string) (*vector.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emb, exists := s.embeddings[id]
	if !exists {
		return nil, fmt.Errorf("embedding not found")
	}

	return emb, nil
}

// Clear removes all embeddings
func (s *InMemoryVectorStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.embeddings = make(map[string]*vector.Embedding)
	s.order = nil
	return nil
}

// Count returns the number of embeddings
func (s *InMemoryVectorStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.embeddings), nil
}

type snapshot struct {
	Embeddings map[string]*vector.Embedding
	Order      []string
}

// Persist writes the index to the configured file.
func (s *InMemoryVectorStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.path == "" {
		return fmt.Errorf("no persist path configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	snap := snapshot{Embeddings: s.embeddings, Order: s.order}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// Restore loads a previously persisted index, replacing current contents.
func (s *InMemoryVectorStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("no persist path configured")
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	if snap.Embeddings == nil {
		snap.Embeddings = make(map[string]*vector.Embedding)
	}
	s.embeddings = snap.Embeddings
	s.order = snap.Order
	return nil
}
