package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/starford/blueprint/internal/apperr"
	"github.com/starford/blueprint/internal/codec"
	"github.com/starford/blueprint/internal/models"
)

// FS implements Repository on a flat directory of frontmatter files, one
// file per template, named by the title's derived key. The store owns the
// on-disk representation exclusively.
type FS struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ Repository = (*FS)(nil)

// NewFS creates a repository rooted at dir, creating the directory if
// absent.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("store: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("store: init template dir: %w", err)
	}
	return &FS{dir: abs, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the absolute template directory path.
func (f *FS) Dir() string { return f.dir }

func (f *FS) path(key string) string { return filepath.Join(f.dir, key) }

// lock serializes mutations on a single key, so two concurrent creates of
// the same title resolve to a deterministic AlreadyExists for the loser
// instead of racing the write. List runs without any directory-wide lock.
func (f *FS) lock(key string) func() {
	f.mu.Lock()
	m, ok := f.locks[key]
	if !ok {
		m = &sync.Mutex{}
		f.locks[key] = m
	}
	f.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Create stores a new template with created_at == updated_at == now.
func (f *FS) Create(_ context.Context, draft models.TemplateDraft) (*models.Template, error) {
	key := codec.DeriveKey(draft.Title)
	unlock := f.lock(key)
	defer unlock()

	if _, err := os.Stat(f.path(key)); err == nil {
		return nil, fmt.Errorf("store: create %s: %w", key, apperr.ErrAlreadyExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("store: stat %s: %w", key, err)
	}

	now := time.Now().UTC()
	t := models.Template{
		Title:       draft.Title,
		Content:     draft.Content,
		Description: draft.Description,
		Owner:       draft.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.write(key, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Get loads the template stored under the title's derived key.
func (f *FS) Get(_ context.Context, title string) (*models.Template, error) {
	return f.read(codec.DeriveKey(title))
}

// Update merges supplied fields into the stored record. Nil fields keep
// their old values; a pointer to an empty string is applied. The stored
// title is immutable: updating never moves the file.
func (f *FS) Update(_ context.Context, title string, upd models.TemplateUpdate) (*models.Template, error) {
	key := codec.DeriveKey(title)
	unlock := f.lock(key)
	defer unlock()

	t, err := f.read(key)
	if err != nil {
		return nil, err
	}
	if upd.Content != nil {
		t.Content = *upd.Content
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Owner != nil {
		t.Owner = *upd.Owner
	}
	t.UpdatedAt = time.Now().UTC()

	if err := f.write(key, *t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the template file. Deletion is immediate and irreversible.
func (f *FS) Delete(_ context.Context, title string) error {
	key := codec.DeriveKey(title)
	unlock := f.lock(key)
	defer unlock()

	if err := os.Remove(f.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("store: delete %s: %w", key, apperr.ErrNotFound)
		}
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

// List enumerates every stored template, parses each entry independently,
// filters by exact owner match when owner is non-empty, sorts by updated_at
// descending, and slices the result by offset/limit. Entries that cannot be
// read are logged and skipped; the listing itself never fails for them.
func (f *FS) List(_ context.Context, limit, offset int, owner string) ([]models.Template, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	var out []models.Template
	for _, e := range entries {
		name := e.Name()
		// Temp files from in-flight writes never carry the extension.
		if !strings.HasSuffix(name, codec.Ext) {
			continue
		}
		t, readErr := f.read(name)
		if readErr != nil {
			slog.Warn("store: skipping unreadable entry",
				slog.String("key", name),
				slog.String("error", readErr.Error()))
			continue
		}
		if owner != "" && t.Owner != owner {
			continue
		}
		out = append(out, *t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if offset >= len(out) {
		return []models.Template{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// read loads and decodes a single key.
func (f *FS) read(key string) (*models.Template, error) {
	p := f.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("store: %s: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}

	// The file's mtime backs the timestamp fallback for records whose
	// preamble lacks usable created_at/updated_at values.
	mtime := time.Now()
	if info, statErr := os.Stat(p); statErr == nil {
		mtime = info.ModTime()
	}

	t := codec.Unmarshal(data, key, mtime)
	return &t, nil
}

func (f *FS) write(key string, t models.Template) error {
	data, err := codec.Marshal(t)
	if err != nil {
		return err
	}
	return f.writeAtomic(key, data)
}

// writeAtomic writes content to a sibling temp file, fsyncs, then renames
// onto the final path so no reader ever observes a partially written file.
func (f *FS) writeAtomic(key string, content []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".tmp*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}
