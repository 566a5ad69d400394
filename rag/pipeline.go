package rag

import (
	"log/slog"

	"condorag/model"
	"condorag/store"
)

// Fixed user-facing outcomes, distinct for "nothing found" and
// "found but nothing relevant enough".
const (
	MsgNoMatches      = "Não encontrei informações relevantes nos documentos."
	MsgBelowThreshold = "Não encontrei informações suficientemente relevantes."
)

// Options are the pipeline tunables. Zero values take defaults.
type Options struct {
	ChunkSize    int
	ChunkOverlap int

	TopK           int     // matches requested per namespace search
	ScoreThreshold float64 // minimum relevance kept after the merge
	TenantBoost    float64 // multiplier on tenant-namespace scores
	MaxMatches     int     // merged matches retained after ranking

	MaxSources        int // source names exposed to the caller
	UpsertBatchSize   int
	MaxAnswerTokens   int
	Temperature       float32
	PromptTokenBudget int // context is trimmed to fit this
}

func (o Options) withDefaults() Options {
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap == 0 {
		o.ChunkOverlap = DefaultChunkOverlap
	}
	if o.TopK == 0 {
		o.TopK = 12
	}
	if o.ScoreThreshold == 0 {
		// The tenant-only path once ran at 0.7; the reviewed query path
		// applies 0.35 uniformly to both namespaces. Keep the observed
		// behavior.
		o.ScoreThreshold = 0.35
	}
	if o.TenantBoost == 0 {
		o.TenantBoost = 1.1
	}
	if o.MaxMatches == 0 {
		o.MaxMatches = 12
	}
	if o.MaxSources == 0 {
		o.MaxSources = 5
	}
	if o.UpsertBatchSize == 0 {
		o.UpsertBatchSize = 50
	}
	if o.MaxAnswerTokens == 0 {
		o.MaxAnswerTokens = 1000
	}
	if o.Temperature == 0 {
		o.Temperature = 0.3
	}
	if o.PromptTokenBudget == 0 {
		o.PromptTokenBudget = 6000
	}
	return o
}

// Pipeline is the retrieval-augmented answering core. It is constructed
// once at process start with its provider clients bound and passed
// explicitly to request handlers; it holds no per-request state.
type Pipeline struct {
	embedder  model.Embedder
	completer model.Completer
	store     store.VectorStorer
	splitter  *Splitter
	opts      Options
	log       *slog.Logger
}

func New(embedder model.Embedder, completer model.Completer, vs store.VectorStorer, opts Options, logger *slog.Logger) *Pipeline {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		embedder:  embedder,
		completer: completer,
		store:     vs,
		splitter:  NewSplitter(opts.ChunkSize, opts.ChunkOverlap),
		opts:      opts,
		log:       logger,
	}
}
