package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condorag/types"
)

func TestExpandOriginalFirst(t *testing.T) {
	q := "posso ter cachorro no apartamento?"
	out := Expand(q, Classify(q))
	require.NotEmpty(t, out)
	assert.Equal(t, q, out[0])
}

func TestExpandInterpretative(t *testing.T) {
	q := "posso ter cachorro no apartamento?"
	out := Expand(q, Classify(q))

	assert.LessOrEqual(t, len(out), maxExpansions)
	assert.Contains(t, out, "regras sobre "+q)
	assert.Contains(t, out, "normas de "+q)

	// at most two reformulations: the third template never applies
	assert.NotContains(t, out, "regulamento "+q)
}

func TestExpandSynonyms(t *testing.T) {
	q := "regras para festa na piscina"
	out := Expand(q, types.Classification{Type: types.QueryGeneral})

	assert.Contains(t, out, "regras para evento na piscina")
	assert.Contains(t, out, "regras para festa na área de lazer")
}

func TestExpandUniqueAndCapped(t *testing.T) {
	q := "cachorro gato animal barulho festa"
	out := Expand(q, Classify(q))

	assert.LessOrEqual(t, len(out), maxExpansions)
	seen := make(map[string]bool)
	for _, v := range out {
		key := strings.ToLower(v)
		assert.False(t, seen[key], "duplicate variant %q", v)
		seen[key] = true
	}
}

func TestExpandDeterministic(t *testing.T) {
	q := "barulho de festa na garagem do síndico"
	cls := Classify(q)
	first := Expand(q, cls)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Expand(q, cls))
	}
}

func TestExpandNoMatchesReturnsOriginalOnly(t *testing.T) {
	q := "xyz assunto desconhecido"
	out := Expand(q, types.Classification{Type: types.QueryGeneral})
	assert.Equal(t, []string{q}, out)
}
