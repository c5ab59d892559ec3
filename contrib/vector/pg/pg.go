package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/researchkit/deepresearch/config"
	kberrors "github.com/researchkit/deepresearch/errors"
	"github.com/researchkit/deepresearch/vector"
)

// PGVectorStore implements VectorStore using PostgreSQL with the pgvector extension
type PGVectorStore struct {
	db          *sql.DB
	dimension   int
	tableName   string
	indexMethod string // HNSW or IVFFLAT
}

// PGVectorConfig holds pgvector configuration
type PGVectorConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string
	Dimension int    // Embedding dimension (default: 1536 for OpenAI)
	TableName string // Table name (default: passages)
	IndexType string // HNSW or IVFFLAT (default: HNSW)
}

// DefaultPGVectorConfig returns default pgvector configuration
func DefaultPGVectorConfig() *PGVectorConfig {
	return &PGVectorConfig{
		Host:      "127.0.0.1",
		Port:      5432,
		User:      "postgres",
		Password:  "postgres",
		DBName:    "deepresearch",
		SSLMode:   "disable",
		Dimension: 1536,
		TableName: "passages",
		IndexType: "HNSW",
	}
}

// NewPGVectorStore creates a new pgvector-based vector store
func NewPGVectorStore(cfg *PGVectorConfig) (*PGVectorStore, error) {
	if cfg == nil {
		cfg = DefaultPGVectorConfig()
	}

	if err := config.ValidatePGVectorConfig(cfg.Host, cfg.Port, cfg.User, cfg.Password,
		cfg.DBName, cfg.SSLMode, cfg.Dimension, cfg.TableName, cfg.IndexType); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &PGVectorStore{
		db:          db,
		dimension:   cfg.Dimension,
		tableName:   cfg.TableName,
		indexMethod: cfg.IndexType,
	}

	if err := store.setup(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to setup pgvector: %w", err)
	}

	return store, nil
}

// setup initializes pgvector and creates necessary tables
func (s *PGVectorStore) setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(255) PRIMARY KEY,
		text TEXT NOT NULL,
		embedding vector(%d) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, s.tableName, s.dimension)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// AddEmbedding adds a new embedding to the store
func (s *PGVectorStore) AddEmbedding(ctx context.Context, embedding *vector.Embedding) error {
	if embedding == nil {
		return fmt.Errorf("embedding cannot be nil")
	}

	if embedding.ID == "" {
		return fmt.Errorf("embedding ID cannot be empty")
	}

	if len(embedding.Vector) != s.dimension {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(embedding.Vector))
	}

	vectorStr := s.vectorToString(embedding.Vector)

	query := fmt.Sprintf(`
	INSERT INTO %s (id, text, embedding)
	VALUES ($1, $2, $3::vector)
	ON CONFLICT (id) DO UPDATE SET
		text = EXCLUDED.text,
		embedding = EXCLUDED.embedding,
		created_at = CURRENT_TIMESTAMP
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query, embedding.ID, embedding.Text, vectorStr)
	if err != nil {
		return fmt.Errorf("failed to add embedding: %w", err)
	}

	return nil
}

// Search finds embeddings similar to the query vector. pgvector's <=> operator
// returns cosine distance, so similarity is reported as 1 - distance.
func (s *PGVectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]*vector.Embedding, []float32, error) {
	if len(queryVector) == 0 {
		return nil, nil, fmt.Errorf("query vector cannot be empty")
	}

	if len(queryVector) != s.dimension {
		return nil, nil, fmt.Errorf("query vector dimension mismatch: expected %d, got %d", s.dimension, len(queryVector))
	}

	if topK <= 0 {
		topK = 10
	}

	vectorStr := s.vectorToString(queryVector)

	query := fmt.Sprintf(`
	SELECT id, text, embedding, 1 - (embedding <=> $1::vector) AS similarity
	FROM %s
	ORDER BY embedding <=> $1::vector
	LIMIT $2
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, vectorStr, topK)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search embeddings: %w", err)
	}
	defer rows.Close()

	embeddings := make([]*vector.Embedding, 0, topK)
	scores := make([]float32, 0, topK)
	for rows.Next() {
		var id, text, embStr string
		var similarity float64

		if err := rows.Scan(&id, &text, &embStr, &similarity); err != nil {
			return nil, nil, fmt.Errorf("failed to scan embedding: %w", err)
		}

		vec, err := s.stringToVector(embStr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse vector for embedding %s: %w", id, err)
		}

		embeddings = append(embeddings, &vector.Embedding{
			ID:     id,
			Text:   text,
			Vector: vec,
		})
		scores = append(scores, float32(similarity))
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating embeddings: %w", err)
	}

	return embeddings, scores, nil
}

// DeleteEmbedding removes an embedding by ID
func (s *PGVectorStore) DeleteEmbedding(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("embedding %s: %w", id, kberrors.ErrNotFound)
	}

	return nil
}

// GetEmbedding retrieves a specific embedding by ID
func (s *PGVectorStore) GetEmbedding(ctx context.Context, id string) (*vector.Embedding, error) {
	query := fmt.Sprintf(`
	SELECT id, text, embedding
	FROM %s
	WHERE id = $1
	`, s.tableName)

	var embID, text, vectorStr string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&embID, &text, &vectorStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("embedding %s: %w", id, kberrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}

	vec, err := s.stringToVector(vectorStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vector: %w", err)
	}

	return &vector.Embedding{
		ID:     embID,
		Text:   text,
		Vector: vec,
	}, nil
}

// Clear removes all embeddings
func (s *PGVectorStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s", s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	return nil
}

// Count returns the number of embeddings
func (s *PGVectorStore) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return count, nil
}

// Close releases the underlying database connection.
func (s *PGVectorStore) Close() error {
	return s.db.Close()
}

// vectorToString converts a vector to pgvector's text format: [1,2,3]
func (s *PGVectorStore) vectorToString(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// stringToVector parses pgvector's text format back into a float32 slice.
func (s *PGVectorStore) stringToVector(input string) ([]float32, error) {
	trimmed := strings.TrimSpace(input)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ",")
	vec := make([]float32, len(parts))
	for i, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}
		vec[i] = float32(val)
	}
	return vec, nil
}
