// Package models defines the domain types for Blueprint.
package models

import "time"

// Template represents a stored process template.
type Template struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemplateDraft is the input for creating a template. Timestamps are
// assigned by the store.
type TemplateDraft struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

// TemplateUpdate is a partial update. A nil field is left unchanged;
// a non-nil field is applied even when it points at an empty string.
type TemplateUpdate struct {
	Content     *string `json:"content"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
}

// Empty reports whether the update carries no fields at all.
func (u TemplateUpdate) Empty() bool {
	return u.Content == nil && u.Description == nil && u.Owner == nil
}
