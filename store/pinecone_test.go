package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condorag/types"
)

func TestPineconeQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("Api-Key"))

		var body struct {
			TopK            int    `json:"topK"`
			Namespace       string `json:"namespace"`
			IncludeMetadata bool   `json:"includeMetadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 12, body.TopK)
		assert.Equal(t, "user_1_cond_2", body.Namespace)
		assert.True(t, body.IncludeMetadata)

		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "a_bb_0", "score": 0.82, "metadata": map[string]any{"filename": "regimento.pdf"}},
			},
		})
	}))
	defer srv.Close()

	s := NewPineconeStore(srv.URL, "test-key", time.Second)
	matches, err := s.Query(context.Background(), []float32{0.1, 0.2}, 12, "user_1_cond_2")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a_bb_0", matches[0].ID)
	assert.InDelta(t, 0.82, matches[0].Score, 1e-9)
	assert.Equal(t, "regimento.pdf", matches[0].Metadata.Filename)
}

func TestPineconeFetchByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vectors/fetch", r.URL.Path)
		assert.Equal(t, "ns", r.URL.Query().Get("namespace"))
		assert.Equal(t, []string{"x_aa_0", "x_aa_1"}, r.URL.Query()["ids"])

		json.NewEncoder(w).Encode(map[string]any{
			"vectors": map[string]any{
				"x_aa_0": map[string]any{"id": "x_aa_0", "values": []float32{1}},
			},
		})
	}))
	defer srv.Close()

	s := NewPineconeStore(srv.URL, "k", time.Second)
	got, err := s.FetchByID(context.Background(), []string{"x_aa_0", "x_aa_1"}, "ns")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x_aa_0", got["x_aa_0"].ID)
}

func TestPineconeFetchByIDEscapesIDs(t *testing.T) {
	// uploaded filenames end up inside record ids
	id := "atas & multas 2024.pdf_ab12cd34_0"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vectors/fetch", r.URL.Path)
		assert.Equal(t, "ns", r.URL.Query().Get("namespace"))
		assert.Equal(t, []string{id}, r.URL.Query()["ids"])

		json.NewEncoder(w).Encode(map[string]any{
			"vectors": map[string]any{
				id: map[string]any{"id": id, "values": []float32{1}},
			},
		})
	}))
	defer srv.Close()

	s := NewPineconeStore(srv.URL, "k", time.Second)
	got, err := s.FetchByID(context.Background(), []string{id}, "ns")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[id].ID)
}

func TestPineconeUpsertAndDelete(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewPineconeStore(srv.URL, "k", time.Second)
	rec := Record{ID: "r_1", Values: []float32{0.5}, Metadata: types.ChunkMeta{Filename: "a.pdf"}}
	require.NoError(t, s.Upsert(context.Background(), []Record{rec}, "ns"))
	require.NoError(t, s.Delete(context.Background(), []string{"r_1"}, "ns"))
	assert.Equal(t, []string{"/vectors/upsert", "/vectors/delete"}, paths)
}

func TestPineconeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewPineconeStore(srv.URL, "k", time.Second)
	_, err := s.Query(context.Background(), []float32{0.1}, 5, "ns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
