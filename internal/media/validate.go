package media

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyUpload     = errors.New("uploaded image is empty")
	ErrTooLarge        = errors.New("uploaded image is too large")
	ErrUnsupportedType = errors.New("only JPEG, PNG and GIF images are allowed")
)

// allowedTypes maps accepted content types to the extension files are stored with.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Image describes validated upload bytes.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

func (i Image) Size() int64 { return int64(len(i.Data)) }

// Validate sniffs the content type from the bytes themselves, the client
// supplied name and header are not trusted.
func Validate(data []byte, maxBytes int64) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	detected := mimetype.Detect(data)
	for contentType, ext := range allowedTypes {
		if detected.Is(contentType) {
			return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
		}
	}
	return nil, fmt.Errorf("%w: got %s", ErrUnsupportedType, detected.String())
}
