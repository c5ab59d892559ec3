package ingest

import (
	"context"
	"strings"

	"github.com/researchkit/deepresearch/document"
)

// Chunker splits documents into chunks that can be embedded and indexed.
type Chunker interface {
	Chunk(ctx context.Context, doc document.Document) ([]document.Chunk, error)
}

// Options configure the word-window chunker.
type Options struct {
	ChunkWords   int
	OverlapWords int
	IncludeMeta  bool
}

// Option customizes the word chunker.
type Option func(*Options)

// WithChunkWords overrides the chunk size (words per chunk).
func WithChunkWords(words int) Option {
	return func(o *Options) {
		if words > 0 {
			o.ChunkWords = words
		}
	}
}

// WithOverlapWords configures the overlap (words) between consecutive chunks.
func WithOverlapWords(words int) Option {
	return func(o *Options) {
		if words >= 0 {
			o.OverlapWords = words
		}
	}
}

// WithMetadataCopy toggles whether document metadata should be copied to chunks.
func WithMetadataCopy(enabled bool) Option {
	return func(o *Options) {
		o.IncludeMeta = enabled
	}
}

// WordChunker splits documents into overlapping word windows. The defaults
// (300 words, 50 overlap) suit mid-size knowledge bases where a chunk should
// hold a few paragraphs of context.
type WordChunker struct {
	size    int
	overlap int
	addMeta bool
}

// NewWordChunker constructs a chunker with the default window sizes.
func NewWordChunker(opts ...Option) *WordChunker {
	cfg := &Options{
		ChunkWords:   300,
		OverlapWords: 50,
		IncludeMeta:  true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	overlap := cfg.OverlapWords
	if overlap >= cfg.ChunkWords {
		overlap = cfg.ChunkWords / 2
	}
	return &WordChunker{
		size:    cfg.ChunkWords,
		overlap: overlap,
		addMeta: cfg.IncludeMeta,
	}
}

// Chunk splits the document into overlapping word windows.
func (c *WordChunker) Chunk(ctx context.Context, doc document.Document) ([]document.Chunk, error) {
	document.EnsureDocumentID(&doc)

	words := strings.Fields(doc.Content)
	if len(words) == 0 {
		return nil, nil
	}

	chunks := make([]document.Chunk, 0, len(words)/c.size+1)
	ordinal := 0
	start := 0
	for start < len(words) {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		ordinal++
		chunks = append(chunks, c.newChunk(doc, ordinal, strings.Join(words[start:end], " ")))
		if end == len(words) {
			break
		}
		start = end - c.overlap
	}

	return chunks, nil
}

func (c *WordChunker) newChunk(doc document.Document, ordinal int, content string) document.Chunk {
	chunk := document.Chunk{
		ID:         document.NextChunkID(doc.ID),
		DocumentID: doc.ID,
		Content:    content,
		Ordinal:    ordinal,
	}
	if c.addMeta && doc.Metadata != nil {
		chunk.Metadata = make(map[string]any, len(doc.Metadata))
		for k, v := range doc.Metadata {
			chunk.Metadata[k] = v
		}
	}
	return chunk
}
