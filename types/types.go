package types

import (
	"fmt"
	"time"
)

// DocType categorizes a condominium document for chunking purposes.
type DocType string

const (
	DocGeneral     DocType = "general"
	DocConvention  DocType = "convencao"
	DocBylaws      DocType = "regimento"
	DocStatute     DocType = "estatuto"
	DocMinutes     DocType = "ata"
	DocPoolRules   DocType = "regras_piscina"
	DocGrillRules  DocType = "regras_churrasqueira"
	DocBikeRack    DocType = "regras_bicicletario"
)

// LegalType reports whether the document type benefits from
// structure-aware splitting (articles, sections, paragraph markers).
func (t DocType) Legal() bool {
	switch t {
	case DocConvention, DocBylaws, DocStatute, DocPoolRules, DocGrillRules, DocBikeRack:
		return true
	}
	return false
}

type ChunkType string

const (
	ChunkArticle   ChunkType = "article"
	ChunkParagraph ChunkType = "paragraph"
	ChunkMixed     ChunkType = "mixed"
)

// Tenant identifies an isolated document scope. The zero value is the
// shared knowledge base.
type Tenant struct {
	SindicoID int `json:"sindico_id"`
	CondoID   int `json:"condo_id"`
}

// Namespace renders the tenant's partition name in the vector index.
// The naming convention is part of the wire contract and must not change.
func (t Tenant) Namespace() string {
	return fmt.Sprintf("user_%d_cond_%d", t.SindicoID, t.CondoID)
}

// IsKnowledgeBase reports whether the tenant is the reserved shared scope.
func (t Tenant) IsKnowledgeBase() bool {
	return t.SindicoID == 0 && t.CondoID == 0
}

// KnowledgeBase is the reserved shared tenant visible to everyone.
var KnowledgeBase = Tenant{SindicoID: 0, CondoID: 0}

// KnowledgeBaseNamespace is Namespace() of the zero tenant, spelled out
// because downstream tenant-isolation logic matches on it literally.
const KnowledgeBaseNamespace = "user_0_cond_0"

// Document is raw extracted text plus identity, immutable once extracted.
type Document struct {
	Text     string
	Filename string
	Title    string
	Category string
	Type     DocType
	Tenant   Tenant
}

// Chunk is a contiguous piece of a document with structural metadata.
type Chunk struct {
	Text       string
	Type       ChunkType
	Index      int
	ArticleNum string // set when the chunk was cut at an article header
	SubIndex   int    // position inside an oversized re-split article
}

// ChunkMeta is the typed record metadata stored with every vector.
// Extra carries provider-specific passthrough fields untouched.
type ChunkMeta struct {
	Title       string            `json:"title,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	Category    string            `json:"category,omitempty"`
	DocType     DocType           `json:"doc_type,omitempty"`
	ChunkType   ChunkType         `json:"chunk_type,omitempty"`
	ArticleNum  string            `json:"article_num,omitempty"`
	SindicoID   int               `json:"sindico_id"`
	CondoID     int               `json:"condo_id"`
	ChunkIndex  int               `json:"chunk_index"`
	TotalChunks int               `json:"total_chunks"`
	Text        string            `json:"text"`      // preview, first 1000 chars
	FullText    string            `json:"full_text"` // complete chunk text
	IndexedAt   string            `json:"indexed_at"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// DisplayName is what ends up in the user-facing source list.
func (m ChunkMeta) DisplayName() string {
	if m.Filename != "" {
		return m.Filename
	}
	if m.Title != "" {
		return m.Title
	}
	return "Documento"
}

// IndexResult reports the outcome of a document indexing operation.
// On failure counters are zero and Error carries the cause.
type IndexResult struct {
	Success         bool   `json:"success"`
	ChunksCreated   int    `json:"chunks_created"`
	EmbeddingsMade  int    `json:"embeddings_created"`
	DocID           string `json:"doc_id,omitempty"`
	Namespace       string `json:"namespace,omitempty"`
	DocType         DocType `json:"doc_type,omitempty"`
	Error           string `json:"error,omitempty"`
}

// QueryType labels the detected intent of a user question.
type QueryType string

const (
	QueryLookup        QueryType = "lookup"
	QueryInterpretative QueryType = "interpretative"
	QueryComparative   QueryType = "comparative"
	QueryProcedural    QueryType = "procedural"
	QueryTemporal      QueryType = "temporal"
	QueryGeneral       QueryType = "general"
)

// Classification is a pure function of the query text, never persisted.
type Classification struct {
	Type  QueryType
	Flags map[string]bool
}

// Source annotates where a context chunk came from.
type Source struct {
	Name   string `json:"name"`
	Origin string `json:"origin"` // "condomínio" or "base de conhecimento"
}

// AnswerResult is the structured outcome of a query operation.
type AnswerResult struct {
	Success    bool      `json:"success"`
	Answer     string    `json:"answer"`
	Sources    []string  `json:"sources"`
	Detail     []Source  `json:"sources_detail,omitempty"`
	Confidence float64   `json:"confidence"`
	ChunksUsed int       `json:"chunks_used"`
	QueryType  QueryType `json:"query_type,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Error      string    `json:"error,omitempty"`
}
