package token

import (
	"context"

	"github.com/pkoukk/tiktoken-go"
	"github.com/researchkit/deepresearch/document"
)

// Chunker splits documents into token-budget windows using a tiktoken codec,
// so chunk sizes line up with model context limits instead of word counts.
type Chunker struct {
	enc           *tiktoken.Tiktoken
	maxTokens     int
	overlapTokens int
}

// Option customises the token chunker.
type Option func(*Chunker)

// WithMaxTokens sets the maximum allowed tokens per chunk (default 256).
func WithMaxTokens(tokens int) Option {
	return func(c *Chunker) {
		if tokens > 0 {
			c.maxTokens = tokens
		}
	}
}

// WithOverlapTokens sets how many tokens are shared between consecutive chunks.
func WithOverlapTokens(tokens int) Option {
	return func(c *Chunker) {
		if tokens >= 0 {
			c.overlapTokens = tokens
		}
	}
}

// New creates a token-aware chunker for the given model or encoding name.
func New(name string, opts ...Option) (*Chunker, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		// try by encoding name
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}

	ch := &Chunker{
		enc:           enc,
		maxTokens:     256,
		overlapTokens: 32,
	}
	for _, opt := range opts {
		opt(ch)
	}
	if ch.overlapTokens >= ch.maxTokens {
		ch.overlapTokens = ch.maxTokens / 2
	}
	return ch, nil
}

// CountTokens returns the token count of the text under this codec.
func (c *Chunker) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Chunk implements ingest.Chunker.
func (c *Chunker) Chunk(ctx context.Context, doc document.Document) ([]document.Chunk, error) {
	document.EnsureDocumentID(&doc)

	ids := c.enc.Encode(doc.Content, nil, nil)
	if len(ids) == 0 {
		return nil, nil
	}

	var chunks []document.Chunk
	ordinal := 0
	start := 0
	for start < len(ids) {
		end := start + c.maxTokens
		if end > len(ids) {
			end = len(ids)
		}
		ordinal++
		chunk := document.Chunk{
			ID:         document.NextChunkID(doc.ID),
			DocumentID: doc.ID,
			Content:    c.enc.Decode(ids[start:end]),
			Ordinal:    ordinal,
		}
		if doc.Metadata != nil {
			chunk.Metadata = make(map[string]any, len(doc.Metadata))
			for k, v := range doc.Metadata {
				chunk.Metadata[k] = v
			}
		}
		chunks = append(chunks, chunk)

		if end == len(ids) {
			break
		}
		start = end - c.overlapTokens
	}

	return chunks, nil
}
