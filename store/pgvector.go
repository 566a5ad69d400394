package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgvectorStore backs the vector index with Postgres + pgvector.
// Namespaces map to a column; the semantics mirror the hosted backend.
type PgvectorStore struct {
	pool *pgxpool.Pool
}

func NewPgvectorStore(ctx context.Context, connStr string) (*PgvectorStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PgvectorStore{pool: pool}, nil
}

func (s *PgvectorStore) Init(ctx context.Context) error {
	query := `
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS vector_records (
		id TEXT NOT NULL,
		namespace TEXT NOT NULL,
		embedding vector(1536),
		metadata JSONB NOT NULL DEFAULT '{}',
		PRIMARY KEY (namespace, id)
	);

	CREATE INDEX IF NOT EXISTS idx_vector_records_embedding
		ON vector_records USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_vector_records_namespace ON vector_records(namespace);
	`
	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *PgvectorStore) FetchByID(ctx context.Context, ids []string, namespace string) (map[string]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, embedding, metadata FROM vector_records WHERE namespace = $1 AND id = ANY($2)`,
		namespace, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Record)
	for rows.Next() {
		var rec Record
		var emb pgvector.Vector
		var meta []byte
		if err := rows.Scan(&rec.ID, &emb, &meta); err != nil {
			return nil, err
		}
		rec.Values = emb.Slice()
		if err := json.Unmarshal(meta, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", rec.ID, err)
		}
		out[rec.ID] = rec
	}
	return out, rows.Err()
}

func (s *PgvectorStore) Upsert(ctx context.Context, records []Record, namespace string) error {
	query := `
	INSERT INTO vector_records (id, namespace, embedding, metadata)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (namespace, id) DO UPDATE SET
		embedding = EXCLUDED.embedding,
		metadata = EXCLUDED.metadata
	`
	for _, r := range records {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", r.ID, err)
		}
		if _, err := s.pool.Exec(ctx, query, r.ID, namespace, pgvector.NewVector(r.Values), meta); err != nil {
			return err
		}
	}
	return nil
}

func (s *PgvectorStore) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if topK <= 0 {
		topK = 10
	}

	query := `
	SELECT id, metadata, 1 - (embedding <=> $1) AS score
	FROM vector_records
	WHERE namespace = $2 AND embedding IS NOT NULL
	ORDER BY embedding <=> $1
	LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), namespace, topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var meta []byte
		if err := rows.Scan(&m.ID, &meta, &m.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &m.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", m.ID, err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PgvectorStore) Delete(ctx context.Context, ids []string, namespace string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM vector_records WHERE namespace = $1 AND id = ANY($2)`,
		namespace, ids)
	return err
}

func (s *PgvectorStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
