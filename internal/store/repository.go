// Package store persists templates as frontmatter files in a directory.
package store

import (
	"context"

	"github.com/starford/blueprint/internal/models"
)

// Repository is the persistence contract for templates. All operations key
// the record by the title's derived storage key. FS is the only
// implementation today; the seam exists for alternative backends.
type Repository interface {
	// Create stores a new template; the derived key must not exist yet.
	Create(ctx context.Context, draft models.TemplateDraft) (*models.Template, error)
	// Get loads the template stored under the title's derived key.
	Get(ctx context.Context, title string) (*models.Template, error)
	// Update merges the supplied fields into the stored template.
	Update(ctx context.Context, title string, upd models.TemplateUpdate) (*models.Template, error)
	// Delete removes the template stored under the title's derived key.
	Delete(ctx context.Context, title string) error
	// List returns a page of templates sorted by updated_at descending,
	// optionally filtered by exact owner match.
	List(ctx context.Context, limit, offset int, owner string) ([]models.Template, error)
}
