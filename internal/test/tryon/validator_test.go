package tryon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"styleme-backend/internal/tryon"
)

func TestValidator_Validate_Valid(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{
		URI:           "/tmp/user.jpg",
		Width:         1024,
		Height:        1024,
		FileSizeBytes: 5 * 1024 * 1024,
		MimeType:      "image/jpeg",
	})

	assert.NoError(t, err)
}

func TestValidator_Validate_MissingURI(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{MimeType: "image/png"})

	var validationErr *tryon.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidator_Validate_TooLarge(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{
		URI:           "/tmp/user.jpg",
		FileSizeBytes: tryon.MaxImageBytes + 1,
	})

	var validationErr *tryon.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reason, "maximum")
}

func TestValidator_Validate_TooSmallDimensions(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{
		URI:    "/tmp/user.jpg",
		Width:  400,
		Height: 1024,
	})

	var validationErr *tryon.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidator_Validate_DimensionsOptional(t *testing.T) {
	v := tryon.NewValidator()

	// Only one dimension known: not checkable, must pass.
	err := v.Validate(tryon.ImageRef{URI: "/tmp/user.jpg", Width: 100})

	assert.NoError(t, err)
}

func TestValidator_Validate_UnsupportedMimeType(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{URI: "/tmp/user.gif", MimeType: "image/gif"})

	var validationErr *tryon.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidator_Validate_UnsupportedExtension(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{URI: "/tmp/user.webp"})

	var validationErr *tryon.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidator_Validate_BoundarySize(t *testing.T) {
	v := tryon.NewValidator()

	err := v.Validate(tryon.ImageRef{
		URI:           "/tmp/user.png",
		Width:         512,
		Height:        512,
		FileSizeBytes: tryon.MaxImageBytes,
		MimeType:      "image/png",
	})

	assert.NoError(t, err)
}
