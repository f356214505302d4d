package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/blueprint/internal/models"
)

// CreateTemplateRequest is the request body for registering a template.
type CreateTemplateRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

// Validate enforces the required create fields.
func (r CreateTemplateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// UpdateTemplateRequest is the request body for a partial update. Absent
// fields keep their stored values; explicit empty strings are applied.
type UpdateTemplateRequest struct {
	Content     *string `json:"content"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
}

// TemplateListResponse wraps a page of templates. Total is the length of
// the returned page, not the filtered total; callers needing a true total
// must compute it separately.
type TemplateListResponse struct {
	Templates []models.Template `json:"templates"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}
