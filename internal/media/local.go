package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps images in a directory on disk that the API serves itself.
type LocalStore struct {
	dir       string
	publicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir, publicURL: publicURL}, nil
}

// Dir is the directory served under the public URL.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes to a temp file first and renames it into place, so readers
// never see a partial image.
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) error {
	if err := checkFilename(filename); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, filename)); err != nil {
		return fmt.Errorf("store image: %w", err)
	}
	return nil
}

// Remove deletes the file; a file that is already gone is not an error.
func (s *LocalStore) Remove(ctx context.Context, filename string) error {
	if err := checkFilename(filename); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(filename string) string {
	return joinURL(s.publicURL, filename)
}

// Open returns the stored bytes, used by tests and tooling.
func (s *LocalStore) Open(filename string) ([]byte, error) {
	if err := checkFilename(filename); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, filename))
}
