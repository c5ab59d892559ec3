package retriever

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/researchkit/deepresearch/contrib/vector/inmemory"
	"github.com/researchkit/deepresearch/document"
	"github.com/researchkit/deepresearch/ingest"
)

// keywordEmbedder projects text onto a fixed keyword vocabulary so that
// similarity is predictable in tests.
type keywordEmbedder struct {
	keywords []string
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.keywords))
	for i, kw := range e.keywords {
		if strings.Contains(lower, kw) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func (e *keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *keywordEmbedder) Dimension() int { return len(e.keywords) }

func newTestRetriever(t *testing.T, opts ...Option) *Retriever {
	t.Helper()
	emb := &keywordEmbedder{keywords: []string{"python", "java", "database", "cooking"}}
	chunker := ingest.NewWordChunker(ingest.WithChunkWords(50))
	return New(inmemory.NewInMemoryVectorStore(), emb, chunker, opts...)
}

func TestIndexAndSearch(t *testing.T) {
	ctx := context.Background()
	r := newTestRetriever(t)

	docs := []document.Document{
		{ID: "d1", Title: "Python", Content: "Python is a programming language used for scripting."},
		{ID: "d2", Title: "Java", Content: "Java runs on the JVM and powers many database backends."},
		{ID: "d3", Title: "Food", Content: "Cooking pasta requires boiling water."},
	}
	if err := r.IndexDocuments(ctx, docs...); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}

	count, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 chunks indexed, got %d", count)
	}

	results, err := r.Search(ctx, "python language", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if !strings.Contains(strings.ToLower(results[0].Chunk.Content), "python") {
		t.Errorf("expected python chunk first, got %q", results[0].Chunk.Content)
	}
	if results[0].Score <= 0 {
		t.Errorf("expected positive score, got %f", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestSearchMinScoreFilter(t *testing.T) {
	ctx := context.Background()
	r := newTestRetriever(t, WithMinScore(0.9))

	if err := r.IndexDocuments(ctx, document.Document{ID: "d1", Content: "Cooking pasta requires boiling water."}); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}

	results, err := r.Search(ctx, "java database internals", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected low-similarity hits filtered out, got %d", len(results))
	}
}

func TestNormalizeEmbeddingsStoresUnitVectors(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewInMemoryVectorStore()
	emb := &keywordEmbedder{keywords: []string{"python", "java", "database", "cooking"}}
	chunker := ingest.NewWordChunker(ingest.WithChunkWords(50))
	r := New(store, emb, chunker, WithNormalizeEmbeddings())

	// Two keyword hits give a raw vector of length sqrt(2).
	doc := document.Document{ID: "d1", Content: "Python and Java programming."}
	if err := r.IndexDocuments(ctx, doc); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}

	results, err := r.Search(ctx, "python java", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	stored, err := store.GetEmbedding(ctx, results[0].Chunk.ID)
	if err != nil {
		t.Fatalf("GetEmbedding failed: %v", err)
	}
	var norm float64
	for _, v := range stored.Vector {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit-length stored vector, got squared norm %f", norm)
	}
	if results[0].Score < 0.99 {
		t.Errorf("expected identical normalized vectors to score ~1, got %f", results[0].Score)
	}
}

func TestDocumentLookupAndClear(t *testing.T) {
	ctx := context.Background()
	r := newTestRetriever(t)

	doc := document.Document{ID: "d1", Title: "Python", Content: "Python scripting."}
	if err := r.IndexDocuments(ctx, doc); err != nil {
		t.Fatalf("IndexDocuments failed: %v", err)
	}

	got, ok := r.Document("d1")
	if !ok {
		t.Fatal("expected document d1")
	}
	if got.Title != "Python" {
		t.Errorf("expected title Python, got %q", got.Title)
	}

	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := r.Document("d1"); ok {
		t.Error("expected document gone after Clear")
	}
	count, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store after Clear, got %d", count)
	}
}
