package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsMessagesAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 1e-6)
		assert.Equal(t, 1000, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "resposta final"}}},
		})
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL, "k", "gpt-4o-mini", time.Second)
	answer, err := c.Complete(context.Background(), "instruções", "pergunta", 1000, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "resposta final", answer)
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL, "k", "gpt-4o-mini", time.Second)
	_, err := c.Complete(context.Background(), "s", "u", 100, 0.3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestCountTokens(t *testing.T) {
	short := CountTokens("posso ter cachorro?")
	long := CountTokens("posso ter cachorro no apartamento mesmo que o regimento interno proíba animais nas áreas comuns?")
	assert.Positive(t, short)
	assert.Greater(t, long, short)
}
