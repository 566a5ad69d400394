package api

import (
	"github.com/gofiber/fiber/v2"

	"condorag/rag"
	"condorag/types"
)

type QueryHandler struct {
	pipeline *rag.Pipeline
}

func NewQueryHandler(pipeline *rag.Pipeline) *QueryHandler {
	return &QueryHandler{pipeline: pipeline}
}

// HandleQuery answers a question against the caller's tenant documents
// plus the shared knowledge base. No-match outcomes are 200s with
// success=false; only malformed requests error.
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return types.NewValidationError(errs)
	}

	tenant := types.Tenant{SindicoID: params.SindicoID, CondoID: params.CondoID}
	result := h.pipeline.Answer(c.Context(), params.Question, tenant)
	return c.JSON(result)
}
