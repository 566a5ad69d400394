package api

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"condorag/extract"
	"condorag/rag"
	"condorag/types"
)

type DocumentHandler struct {
	pipeline *rag.Pipeline
}

func NewDocumentHandler(pipeline *rag.Pipeline) *DocumentHandler {
	return &DocumentHandler{pipeline: pipeline}
}

// HandleUpload extracts, chunks and indexes an uploaded document into
// the caller's namespace. A doc_id field selects "original mode";
// title/category select "new mode".
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	var params types.UploadParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return types.NewValidationError(errs)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrMissingFile()
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ErrBadRequest()
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return ErrBadRequest()
	}

	text, err := extract.Text(fileHeader.Filename, data)
	if err != nil {
		// Extraction failure is reported, not retried.
		return c.JSON(types.IndexResult{Success: false, Error: "documento vazio ou sem texto extraível"})
	}

	doc := types.Document{
		Text:     text,
		Filename: fileHeader.Filename,
		Tenant:   types.Tenant{SindicoID: params.SindicoID, CondoID: params.CondoID},
	}

	var mode rag.IndexMode
	if params.DocID != "" {
		mode = rag.ByDocID{DocID: params.DocID}
	} else {
		mode = rag.ByTitle{Title: params.Title, Category: params.Category}
	}

	return c.JSON(h.pipeline.IndexDocument(c.Context(), doc, mode))
}

// HandleKnowledgeUpload indexes a document into the shared knowledge
// base namespace, visible to every tenant.
func (h *DocumentHandler) HandleKnowledgeUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrMissingFile()
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ErrBadRequest()
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return ErrBadRequest()
	}

	text, err := extract.Text(fileHeader.Filename, data)
	if err != nil {
		return c.JSON(types.IndexResult{Success: false, Error: "documento vazio ou sem texto extraível"})
	}

	doc := types.Document{
		Text:     text,
		Filename: fileHeader.Filename,
		Tenant:   types.KnowledgeBase,
	}
	mode := rag.ByTitle{
		Title:    c.FormValue("title", fileHeader.Filename),
		Category: c.FormValue("category", "referência"),
	}
	return c.JSON(h.pipeline.IndexDocument(c.Context(), doc, mode))
}

// HandleDelete removes an indexed document from the tenant namespace.
// Deletion enumerates the legacy positional id scheme; records written
// with fingerprint-bearing ids are not covered (see
// rag.Pipeline.DeleteDocument).
func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	docID := c.Params("id")
	if docID == "" {
		return ErrBadRequest()
	}
	tenant := types.Tenant{
		SindicoID: c.QueryInt("sindico_id"),
		CondoID:   c.QueryInt("condo_id"),
	}
	if err := h.pipeline.DeleteDocument(c.Context(), docID, tenant); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Documento removido"})
}
