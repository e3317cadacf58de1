package tryon

import (
	"fmt"
	"path"
	"strings"
)

const (
	// MaxImageBytes is the ceiling for a single input image.
	MaxImageBytes = 10 * 1024 * 1024
	// MinDimensionPx is the minimum width/height the provider accepts.
	MinDimensionPx = 512
)

// Validator enforces size/dimension/format preconditions on image metadata.
// It does no disk or network I/O, so it runs on both images before any
// encoding or network call.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(img ImageRef) error {
	if img.URI == "" {
		return &ValidationError{Reason: "image uri is required"}
	}

	if img.FileSizeBytes > MaxImageBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("image is %d bytes, maximum is %d", img.FileSizeBytes, MaxImageBytes),
		}
	}

	// Dimensions are only checkable when the caller supplied both.
	if img.Width > 0 && img.Height > 0 {
		if img.Width < MinDimensionPx || img.Height < MinDimensionPx {
			return &ValidationError{
				Reason: fmt.Sprintf("image is %dx%d, minimum is %dx%d", img.Width, img.Height, MinDimensionPx, MinDimensionPx),
			}
		}
	}

	if img.MimeType != "" && !allowedMimeType(img.MimeType) {
		return &ValidationError{Reason: "unsupported image type " + img.MimeType + ", use JPEG or PNG"}
	}

	if img.MimeType == "" {
		if ext := strings.ToLower(strings.TrimPrefix(path.Ext(img.URI), ".")); ext != "" && !allowedExtension(ext) {
			return &ValidationError{Reason: "unsupported image extension ." + ext + ", use JPEG or PNG"}
		}
	}

	return nil
}

func allowedMimeType(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

func allowedExtension(ext string) bool {
	switch ext {
	case "jpeg", "jpg", "png":
		return true
	}
	return false
}
