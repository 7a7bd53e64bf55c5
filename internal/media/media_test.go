package media

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ct   string
		ext  string
	}{
		{"PNG", pngBytes, "image/png", ".png"},
		{"JPEG", jpegBytes, "image/jpeg", ".jpg"},
		{"GIF", gifBytes, "image/gif", ".gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Validate(tt.data, 1024)
			require.NoError(t, err)
			assert.Equal(t, tt.ct, img.ContentType)
			assert.Equal(t, tt.ext, img.Ext)
			assert.EqualValues(t, len(tt.data), img.Size())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	_, err := Validate(nil, 1024)
	assert.ErrorIs(t, err, ErrEmptyUpload)

	_, err = Validate(pngBytes, 8)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Validate([]byte("<?php echo 'hi'; ?>"), 1024)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Validate([]byte("%PDF-1.4\n"), 1024)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNewFilename(t *testing.T) {
	name := NewFilename(".png")
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}_\d+\.png$`), name)
	assert.NotEqual(t, name, NewFilename(".png"))
}

func TestCheckFilename(t *testing.T) {
	assert.NoError(t, checkFilename("abc_123.png"))
	for _, bad := range []string{"", ".", "..", "../etc/passwd", "a/b.png", `a\b.png`} {
		assert.ErrorIs(t, checkFilename(bad), ErrInvalidFilename, bad)
	}
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "pic.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png"))

	data, err := store.Open("pic.png")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "/media/pic.png", store.URL("pic.png"))

	require.NoError(t, store.Remove(ctx, "pic.png"))
	_, err = store.Open("pic.png")
	assert.Error(t, err)

	// removing a missing file is fine
	assert.NoError(t, store.Remove(ctx, "pic.png"))

	assert.ErrorIs(t, store.Save(ctx, "../escape.png", bytes.NewReader(pngBytes), 0, "image/png"), ErrInvalidFilename)
}

func TestMinioPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/recipes", minioPublicURL(MinioConfig{Endpoint: "localhost:9000", Bucket: "recipes"}))
	assert.Equal(t, "https://s3.example.com/recipes", minioPublicURL(MinioConfig{Endpoint: "s3.example.com", Bucket: "recipes", UseSSL: true}))
	assert.Equal(t, "https://cdn.example.com/img", minioPublicURL(MinioConfig{PublicURL: "https://cdn.example.com/img"}))
	// a path-only public URL belongs to the local backend
	assert.Equal(t, "http://minio:9000/recipes", minioPublicURL(MinioConfig{Endpoint: "minio:9000", Bucket: "recipes", PublicURL: "/media"}))
}
