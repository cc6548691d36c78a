package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// LocalStore keeps uploads on disk under Dir; the HTTP layer serves Dir at /uploads.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Upload(ctx context.Context, f File) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	name := uuid.NewString() + mimetype.Detect(f.Content).Extension()
	dst := filepath.Join(s.Dir, name)
	if err := os.WriteFile(dst, f.Content, 0o644); err != nil {
		return Asset{}, fmt.Errorf("failed to save file: %w", err)
	}
	return Asset{
		URL:      fmt.Sprintf("%s/uploads/%s", s.BaseURL, name),
		PublicID: name,
	}, nil
}

// Delete removes the file named by publicID. An identifier without an
// extension (derived from a URL) matches any extension.
func (s *LocalStore) Delete(ctx context.Context, publicID string, _ Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(publicID)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid media id %q", publicID)
	}

	targets := []string{filepath.Join(s.Dir, name)}
	if filepath.Ext(name) == "" {
		matches, err := filepath.Glob(filepath.Join(s.Dir, name+".*"))
		if err != nil {
			return fmt.Errorf("failed to resolve media id %q: %w", publicID, err)
		}
		targets = matches
	}
	if len(targets) == 0 {
		return fmt.Errorf("media %q: %w", publicID, os.ErrNotExist)
	}

	for _, path := range targets {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}
