// Package templateservice applies input validation and defaults before
// forwarding to the template repository. Both front-ends (HTTP and MCP)
// reduce to this one contract.
package templateservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/blueprint/internal/apperr"
	"github.com/starford/blueprint/internal/models"
	"github.com/starford/blueprint/internal/store"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// DefaultOwner is recorded when a create request names no owner.
const DefaultOwner = "anonymous"

// Service coordinates template operations on top of a Repository.
type Service struct {
	repo store.Repository
}

// NewService creates a new template service.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the draft, fills in the owner default, and stores a new
// template.
func (s *Service) Create(ctx context.Context, draft models.TemplateDraft) (*models.Template, error) {
	if err := checkTitle(draft.Title); err != nil {
		return nil, err
	}
	if draft.Owner == "" {
		draft.Owner = DefaultOwner
	}
	return s.repo.Create(ctx, draft)
}

// Get retrieves a template by title.
func (s *Service) Get(ctx context.Context, title string) (*models.Template, error) {
	if err := checkTitle(title); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, title)
}

// Update merges the supplied fields into an existing template.
func (s *Service) Update(ctx context.Context, title string, upd models.TemplateUpdate) (*models.Template, error) {
	if err := checkTitle(title); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, title, upd)
}

// Delete removes a template by title.
func (s *Service) Delete(ctx context.Context, title string) error {
	if err := checkTitle(title); err != nil {
		return err
	}
	return s.repo.Delete(ctx, title)
}

// List returns a page of templates, normalizing out-of-range paging values
// to their defaults rather than rejecting them.
func (s *Service) List(ctx context.Context, limit, offset int, owner string) ([]models.Template, error) {
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset, owner)
}

func checkTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("template title must not be blank: %w", apperr.ErrValidation)
	}
	return nil
}
