package store

import (
	"context"

	"condorag/types"
)

// Record is one vector plus its metadata, owned by the index service
// under a namespace.
type Record struct {
	ID       string
	Values   []float32
	Metadata types.ChunkMeta
}

// Match is a scored candidate returned by a similarity search.
type Match struct {
	ID       string
	Score    float64
	Metadata types.ChunkMeta
}

// VectorStorer is the namespaced similarity-search store the pipeline
// talks to. Namespaces follow the user_{sindico}_cond_{condo} convention;
// user_0_cond_0 is the shared knowledge base.
type VectorStorer interface {
	FetchByID(ctx context.Context, ids []string, namespace string) (map[string]Record, error)
	Upsert(ctx context.Context, records []Record, namespace string) error
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error)
	Delete(ctx context.Context, ids []string, namespace string) error
}
