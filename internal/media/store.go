package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists uploaded recipe images under generated filenames.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, filename string) error
	URL(filename string) string
}

var ErrInvalidFilename = errors.New("invalid media filename")

// NewFilename returns "<uuid>_<unix seconds><ext>", ext including its dot.
func NewFilename(ext string) string {
	return fmt.Sprintf("%s_%d%s", uuid.NewString(), time.Now().Unix(), ext)
}

// checkFilename rejects anything that is not a single plain path element.
func checkFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || path.Base(filename) != filename {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return nil
}

func joinURL(base, filename string) string {
	return strings.TrimRight(base, "/") + "/" + filename
}
