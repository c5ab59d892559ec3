package session

import (
	"context"
	"fmt"
	"time"

	"github.com/researchkit/deepresearch/reasoning"
)

// Record is one processed query within a research session: the query,
// its classification, and the synthesized answer, flattened for
// storage and display.
type Record struct {
	ID           string         `json:"id" bson:"_id"`
	SessionID    string         `json:"session_id" bson:"session_id"`
	Query        string         `json:"query" bson:"query"`
	QueryType    string         `json:"query_type" bson:"query_type"`
	Synthesis    string         `json:"synthesis" bson:"synthesis"`
	Steps        int            `json:"steps" bson:"steps"`
	TotalResults int            `json:"total_results" bson:"total_results"`
	Metadata     map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
}

// NewRecord flattens a reasoning response into a session record.
func NewRecord(sessionID string, resp *reasoning.Response) *Record {
	now := time.Now()
	return &Record{
		ID:           fmt.Sprintf("rec:%d", now.UnixNano()),
		SessionID:    sessionID,
		Query:        resp.OriginalQuery,
		QueryType:    string(resp.QueryType),
		Synthesis:    resp.Synthesis,
		Steps:        len(resp.Steps),
		TotalResults: resp.TotalResults,
		CreatedAt:    now,
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// Store persists session records. History returns records in append
// order, oldest first.
type Store interface {
	Append(ctx context.Context, rec *Record) error
	History(ctx context.Context, sessionID string) ([]*Record, error)
	Clear(ctx context.Context, sessionID string) error
	Count(ctx context.Context, sessionID string) (int, error)
}
