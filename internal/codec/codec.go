package codec

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/blueprint/internal/models"
)

// delimiter fences the metadata preamble at the top of a stored file.
const delimiter = "---"

// defaultOwner is substituted when a stored file carries no owner metadata.
const defaultOwner = "unknown"

// frontmatter is the persisted metadata preamble. Timestamps are kept as
// RFC 3339 strings so a hand-edited file with a bad value degrades to the
// mtime fallback instead of refusing to load.
type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`
	CreatedAt   string `yaml:"created_at"`
	UpdatedAt   string `yaml:"updated_at"`
}

// Marshal serializes a template as a YAML frontmatter preamble followed by
// the raw content.
func Marshal(t models.Template) ([]byte, error) {
	fm := frontmatter{
		Title:       t.Title,
		Description: t.Description,
		Owner:       t.Owner,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal frontmatter: %w", err)
	}
	return []byte(delimiter + "\n" + string(meta) + delimiter + "\n\n" + t.Content), nil
}

// Unmarshal parses a stored blob back into a template. It never fails for
// content reasons:
//   - no leading delimiter, or no closing one: the whole blob is content;
//   - a malformed preamble: logged, whole original blob kept as content;
//   - absent or unparsable timestamps: both fall back to modTime in UTC;
//   - absent title: reconstructed from the key (lossy).
func Unmarshal(data []byte, key string, modTime time.Time) models.Template {
	content := string(data)
	var fm frontmatter

	if strings.HasPrefix(content, delimiter) {
		parts := strings.SplitN(content, delimiter, 3)
		if len(parts) == 3 {
			block := strings.TrimSpace(parts[1])
			if block == "" {
				content = strings.TrimSpace(parts[2])
			} else if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
				slog.Warn("codec: malformed frontmatter, treating whole file as content",
					slog.String("key", key),
					slog.String("error", err.Error()))
				fm = frontmatter{}
			} else {
				content = strings.TrimSpace(parts[2])
			}
		}
	}

	title := fm.Title
	if title == "" {
		title = TitleFromKey(key)
	}
	owner := fm.Owner
	if owner == "" {
		owner = defaultOwner
	}

	createdAt, cErr := time.Parse(time.RFC3339, fm.CreatedAt)
	updatedAt, uErr := time.Parse(time.RFC3339, fm.UpdatedAt)
	if cErr != nil || uErr != nil {
		mtime := modTime.UTC()
		createdAt, updatedAt = mtime, mtime
	}

	return models.Template{
		Title:       title,
		Content:     content,
		Description: fm.Description,
		Owner:       owner,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}
}
