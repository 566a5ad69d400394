package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"condorag/types"
)

// PineconeStore is a minimal REST client to a Pinecone serverless index.
type PineconeStore struct {
	host   string
	apiKey string
	client *http.Client
}

func NewPineconeStore(host, apiKey string, timeout time.Duration) *PineconeStore {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PineconeStore{
		host:   host,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

type pineconeVector struct {
	ID       string          `json:"id"`
	Values   []float32       `json:"values"`
	Metadata types.ChunkMeta `json:"metadata"`
}

func (s *PineconeStore) FetchByID(ctx context.Context, ids []string, namespace string) (map[string]Record, error) {
	// ids embed uploaded filenames, so they must be query-escaped
	q := url.Values{"namespace": {namespace}}
	for _, id := range ids {
		q.Add("ids", id)
	}
	var resp struct {
		Vectors map[string]pineconeVector `json:"vectors"`
	}
	if err := s.do(ctx, http.MethodGet, "/vectors/fetch?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]Record, len(resp.Vectors))
	for id, v := range resp.Vectors {
		out[id] = Record{ID: v.ID, Values: v.Values, Metadata: v.Metadata}
	}
	return out, nil
}

func (s *PineconeStore) Upsert(ctx context.Context, records []Record, namespace string) error {
	vectors := make([]pineconeVector, len(records))
	for i, r := range records {
		vectors[i] = pineconeVector{ID: r.ID, Values: r.Values, Metadata: r.Metadata}
	}
	body := map[string]any{"vectors": vectors, "namespace": namespace}
	return s.do(ctx, http.MethodPost, "/vectors/upsert", body, nil)
}

func (s *PineconeStore) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}
	body := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"namespace":       namespace,
		"includeMetadata": true,
	}
	var resp struct {
		Matches []struct {
			ID       string          `json:"id"`
			Score    float64         `json:"score"`
			Metadata types.ChunkMeta `json:"metadata"`
		} `json:"matches"`
	}
	if err := s.do(ctx, http.MethodPost, "/query", body, &resp); err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, Match{ID: m.ID, Score: m.Score, Metadata: m.Metadata})
	}
	return matches, nil
}

func (s *PineconeStore) Delete(ctx context.Context, ids []string, namespace string) error {
	body := map[string]any{"ids": ids, "namespace": namespace}
	return s.do(ctx, http.MethodPost, "/vectors/delete", body, nil)
}

func (s *PineconeStore) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.host+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-Key", s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pinecone %s %s failed: %s: %s", method, path, resp.Status, string(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
