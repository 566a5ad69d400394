package types

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

// QueryParams is the body of POST /api/v1/query.
type QueryParams struct {
	Question  string `json:"question" validate:"required"`
	SindicoID int    `json:"sindico_id" validate:"min=0"`
	CondoID   int    `json:"condo_id" validate:"min=0"`
}

// UploadParams accompanies a multipart document upload.
// Title and category select "new mode" indexing; a non-empty DocID
// selects "original mode". The two are mutually exclusive.
type UploadParams struct {
	SindicoID int    `form:"sindico_id" validate:"min=0"`
	CondoID   int    `form:"condo_id" validate:"min=0"`
	Title     string `form:"title"`
	Category  string `form:"category"`
	DocID     string `form:"doc_id"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *QueryParams) Validate() map[string]string {
	return validateStruct(params)
}

func (params *UploadParams) Validate() map[string]string {
	errs := validateStruct(params)
	if params.DocID != "" && (params.Title != "" || params.Category != "") {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["DocID"] = "doc_id cannot be combined with title/category"
	}
	return errs
}

func validateStruct(v any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(v); err != nil {
		verrs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range verrs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}
