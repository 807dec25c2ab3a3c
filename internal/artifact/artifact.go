// Package artifact stores uploaded registration artifacts, currently only
// organization logos. Validation lives here so every store enforces the same
// limits.
package artifact

import (
	"context"
	"fmt"
	"strings"

	dErrors "greenreg/pkg/domain-errors"
)

// MaxSize is the upload ceiling for a logo.
const MaxSize = 1 << 20 // 1 MiB

var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
}

// Upload is a validated artifact ready for storage.
type Upload struct {
	ContentType string
	Data        []byte
}

// Store persists artifacts and returns a URL the public site can serve.
type Store interface {
	Put(ctx context.Context, upload Upload) (string, error)
}

// Validate checks the size and content-type limits. Returned errors carry
// user-facing messages; callers pass them through unwrapped.
func Validate(contentType string, data []byte) (Upload, error) {
	if len(data) == 0 {
		return Upload{}, dErrors.New(dErrors.CodeInvalidInput, "logo file is empty")
	}
	if len(data) > MaxSize {
		return Upload{}, dErrors.New(dErrors.CodeInvalidInput, "logo file size must be less than 1MB")
	}
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedTypes[normalized]; !ok {
		return Upload{}, dErrors.New(dErrors.CodeInvalidInput, "logo must be a PNG or JPG image")
	}
	return Upload{ContentType: normalized, Data: data}, nil
}

// Extension returns the storage-key extension for a validated content type.
func Extension(contentType string) string {
	if ext, ok := allowedTypes[contentType]; ok {
		return ext
	}
	return "bin"
}

func objectKey(id, contentType string) string {
	return fmt.Sprintf("logos/%s.%s", id, Extension(contentType))
}
