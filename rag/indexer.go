package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"condorag/store"
	"condorag/types"
)

// IndexMode selects how record identity is derived. The caller chooses
// the variant explicitly; it is never inferred from which fields happen
// to be set.
type IndexMode interface{ isIndexMode() }

// ByTitle is "new mode": title and category name the document, the
// record base id is derived from them.
type ByTitle struct {
	Title    string
	Category string
}

// ByDocID is "original mode": the caller supplies the document id and
// free-form passthrough metadata.
type ByDocID struct {
	DocID string
	Extra map[string]string
}

func (ByTitle) isIndexMode() {}
func (ByDocID) isIndexMode() {}

// IndexDocument chunks, deduplicates, embeds and upserts a document
// into the tenant's namespace. Re-indexing identical content is
// idempotent: already-present chunks are skipped before any embedding
// call is made. Failures never panic the caller; they come back as a
// failed result with zeroed counters.
func (p *Pipeline) IndexDocument(ctx context.Context, doc types.Document, mode IndexMode) types.IndexResult {
	if strings.TrimSpace(doc.Text) == "" {
		return types.IndexResult{Success: false, Error: "documento vazio ou sem texto extraível"}
	}

	if doc.Type == "" {
		doc.Type = DetectType(doc.Text, doc.Filename)
	}
	namespace := doc.Tenant.Namespace()

	var chunks []types.Chunk
	if doc.Type.Legal() {
		chunks = p.splitter.SplitStructured(doc.Text, doc.Type)
	} else {
		chunks = p.splitter.mixedChunks(doc.Text)
	}
	if len(chunks) == 0 {
		return types.IndexResult{Success: false, Error: "documento vazio ou sem texto extraível"}
	}

	base, docID := p.recordBase(doc, mode, chunks)

	// Existence check per chunk id. A failed lookup degrades to
	// "treat as new": re-embedding is a no-op overwrite, losing the
	// chunk would not be.
	novel := make([]types.Chunk, 0, len(chunks))
	for _, c := range chunks {
		id := RecordID(base, Fingerprint(c.Text), c.Index)
		existing, err := p.store.FetchByID(ctx, []string{id}, namespace)
		if err != nil {
			p.log.Warn("dedup lookup failed, indexing anyway", "id", id, "error", err)
			novel = append(novel, c)
			continue
		}
		if _, ok := existing[id]; ok {
			p.log.Debug("chunk already indexed, skipping", "id", id)
			continue
		}
		novel = append(novel, c)
	}

	if len(novel) == 0 {
		return types.IndexResult{
			Success:   true,
			DocID:     docID,
			Namespace: namespace,
			DocType:   doc.Type,
		}
	}

	records := make([]store.Record, 0, len(novel))
	for _, c := range novel {
		vec, err := p.embedder.Embed(ctx, c.Text)
		if err != nil {
			return types.IndexResult{Success: false, Error: fmt.Sprintf("erro ao gerar embeddings: %v", err)}
		}
		records = append(records, store.Record{
			ID:       RecordID(base, Fingerprint(c.Text), c.Index),
			Values:   vec,
			Metadata: p.chunkMeta(doc, mode, c, len(chunks)),
		})
	}

	for start := 0; start < len(records); start += p.opts.UpsertBatchSize {
		end := start + p.opts.UpsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := p.store.Upsert(ctx, records[start:end], namespace); err != nil {
			return types.IndexResult{Success: false, Error: fmt.Sprintf("erro no upsert: %v", err)}
		}
	}

	p.log.Info("document indexed",
		"namespace", namespace,
		"doc_type", doc.Type,
		"chunks", len(chunks),
		"created", len(records))

	return types.IndexResult{
		Success:        true,
		ChunksCreated:  len(records),
		EmbeddingsMade: len(records),
		DocID:          docID,
		Namespace:      namespace,
		DocType:        doc.Type,
	}
}

// recordBase resolves the id prefix shared by every chunk of the
// document, and the document id reported back to the caller.
func (p *Pipeline) recordBase(doc types.Document, mode IndexMode, chunks []types.Chunk) (base, docID string) {
	switch m := mode.(type) {
	case ByDocID:
		docID = m.DocID
		if docID == "" {
			docID = fmt.Sprintf("doc_%s_%d", Fingerprint(chunks[0].Text), time.Now().Unix())
		}
		return docID, docID
	case ByTitle:
		base = doc.Filename
		if base == "" {
			base = m.Title
		}
		if base == "" {
			base = "doc"
		}
		docID = fmt.Sprintf("doc_%s_%d", Fingerprint(chunks[0].Text), time.Now().Unix())
		return base, docID
	default:
		docID = fmt.Sprintf("doc_%s_%d", Fingerprint(chunks[0].Text), time.Now().Unix())
		return docID, docID
	}
}

const previewLen = 1000

func (p *Pipeline) chunkMeta(doc types.Document, mode IndexMode, c types.Chunk, total int) types.ChunkMeta {
	meta := types.ChunkMeta{
		Filename:    doc.Filename,
		DocType:     doc.Type,
		ChunkType:   c.Type,
		ArticleNum:  c.ArticleNum,
		SindicoID:   doc.Tenant.SindicoID,
		CondoID:     doc.Tenant.CondoID,
		ChunkIndex:  c.Index,
		TotalChunks: total,
		Text:        preview(c.Text),
		FullText:    c.Text,
		IndexedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	switch m := mode.(type) {
	case ByTitle:
		meta.Title = m.Title
		if meta.Title == "" {
			meta.Title = "Documento"
		}
		meta.Category = m.Category
		if meta.Category == "" {
			meta.Category = "geral"
		}
	case ByDocID:
		meta.Title = doc.Title
		meta.Category = doc.Category
		meta.Extra = m.Extra
	}
	return meta
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen])
}

// DeleteDocument removes a document's records from the tenant
// namespace. Candidate ids are enumerated positionally ({docID}_{i},
// i < 100), the scheme the legacy upload path wrote. Records created
// by IndexDocument carry a fingerprint segment ({base}_{fp}_{i}) that
// this enumeration does not cover; the vector service offers no id
// listing, so those records are only replaced by re-indexing, never
// deleted here.
func (p *Pipeline) DeleteDocument(ctx context.Context, docID string, tenant types.Tenant) error {
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, fmt.Sprintf("%s_%d", docID, i))
	}
	if err := p.store.Delete(ctx, ids, tenant.Namespace()); err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	p.log.Info("document deleted", "doc_id", docID, "namespace", tenant.Namespace())
	return nil
}
