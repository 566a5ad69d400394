package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condorag/store"
	"condorag/types"
)

func TestRetrieveMergesBoostsAndFilters(t *testing.T) {
	tenant := types.Tenant{SindicoID: 7, CondoID: 3}
	fs := newFakeStore()
	fs.queryResults[tenant.Namespace()] = []store.Match{
		match("a", 0.50, 7, 3, "convencao.pdf", "regra do condomínio"),
		match("b", 0.30, 7, 3, "convencao.pdf", "trecho fraco"),
	}
	fs.queryResults[types.KnowledgeBaseNamespace] = []store.Match{
		match("a", 0.90, 0, 0, "codigo_civil.pdf", "cópia da base"),
		match("c", 0.40, 0, 0, "codigo_civil.pdf", "artigo relevante"),
		match("d", 0.20, 0, 0, "codigo_civil.pdf", "pouco relevante"),
	}
	p := newTestPipeline(&fakeEmbedder{}, &fakeCompleter{}, fs, Options{})

	ret, err := p.retrieve(context.Background(), []string{"pergunta"}, tenant)
	require.NoError(t, err)

	// a,b,c,d seen once each; tenant copy of "a" wins the collision
	assert.Equal(t, 4, ret.Raw)
	require.Len(t, ret.Matches, 2)

	assert.Equal(t, "a", ret.Matches[0].ID)
	assert.InDelta(t, 0.55, ret.Matches[0].Score, 1e-9) // 0.50 * 1.1
	assert.Equal(t, 7, ret.Matches[0].Metadata.SindicoID)

	assert.Equal(t, "c", ret.Matches[1].ID)
	assert.InDelta(t, 0.40, ret.Matches[1].Score, 1e-9)
}

func TestRetrieveThresholdIsStrict(t *testing.T) {
	tenant := types.Tenant{SindicoID: 1, CondoID: 1}
	fs := newFakeStore()
	fs.queryResults[types.KnowledgeBaseNamespace] = []store.Match{
		match("edge", 0.35, 0, 0, "kb.pdf", "exatamente no limite"),
		match("above", 0.36, 0, 0, "kb.pdf", "acima do limite"),
	}
	p := newTestPipeline(&fakeEmbedder{}, &fakeCompleter{}, fs, Options{})

	ret, err := p.retrieve(context.Background(), []string{"pergunta"}, tenant)
	require.NoError(t, err)

	assert.Equal(t, 2, ret.Raw)
	require.Len(t, ret.Matches, 1)
	assert.Equal(t, "above", ret.Matches[0].ID)
}

func TestRetrieveKnowledgeBaseTenantSearchesOnce(t *testing.T) {
	fs := newFakeStore()
	p := newTestPipeline(&fakeEmbedder{}, &fakeCompleter{}, fs, Options{})

	_, err := p.retrieve(context.Background(), []string{"pergunta"}, types.KnowledgeBase)
	require.NoError(t, err)

	ns := fs.namespaces()
	require.Len(t, ns, 1)
	assert.Equal(t, types.KnowledgeBaseNamespace, ns[0])
}

func TestRetrieveDedupAcrossQueries(t *testing.T) {
	tenant := types.Tenant{SindicoID: 2, CondoID: 9}
	fs := newFakeStore()
	fs.queryResults[tenant.Namespace()] = []store.Match{
		match("same", 0.60, 2, 9, "regimento.pdf", "mesmo trecho"),
	}
	p := newTestPipeline(&fakeEmbedder{}, &fakeCompleter{}, fs, Options{})

	ret, err := p.retrieve(context.Background(), []string{"q1", "q2", "q3"}, tenant)
	require.NoError(t, err)

	require.Len(t, ret.Matches, 1)
	assert.Equal(t, 1, ret.Raw)
	assert.InDelta(t, 0.66, ret.Matches[0].Score, 1e-9) // boosted once
}

func TestRetrieveCapsMatches(t *testing.T) {
	fs := newFakeStore()
	var canned []store.Match
	for i := 0; i < 30; i++ {
		canned = append(canned, match(string(rune('a'+i)), 0.9-float64(i)*0.01, 0, 0, "kb.pdf", "x"))
	}
	fs.queryResults[types.KnowledgeBaseNamespace] = canned
	p := newTestPipeline(&fakeEmbedder{}, &fakeCompleter{}, fs, Options{})

	ret, err := p.retrieve(context.Background(), []string{"q"}, types.Tenant{SindicoID: 1, CondoID: 1})
	require.NoError(t, err)

	assert.Len(t, ret.Matches, 12)
	for i := 1; i < len(ret.Matches); i++ {
		assert.GreaterOrEqual(t, ret.Matches[i-1].Score, ret.Matches[i].Score)
	}
}

func TestRetrieveEmbedErrorPropagates(t *testing.T) {
	fs := newFakeStore()
	fe := &fakeEmbedder{err: assert.AnError}
	p := newTestPipeline(fe, &fakeCompleter{}, fs, Options{})

	_, err := p.retrieve(context.Background(), []string{"q"}, types.Tenant{SindicoID: 1, CondoID: 1})
	assert.Error(t, err)
}
