package tryon_test

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"styleme-backend/internal/tryon"
)

func writeTestImage(t *testing.T, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 8 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(name) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	default:
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 85}))
	}

	return path
}

func TestEncoder_Encode_JPEG(t *testing.T) {
	path := writeTestImage(t, "user.jpg", 800, 600)
	e := tryon.NewEncoder()

	encoded, err := e.Encode(tryon.ImageRef{URI: path})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded.DataURI, "data:image/jpeg;base64,"))
	assert.Equal(t, "image/jpeg", encoded.ContentType)
	assert.Greater(t, encoded.Size, 0)
}

func TestEncoder_Encode_PNG(t *testing.T) {
	path := writeTestImage(t, "garment.png", 640, 640)
	e := tryon.NewEncoder()

	encoded, err := e.Encode(tryon.ImageRef{URI: path})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded.DataURI, "data:image/png;base64,"))
}

func TestEncoder_Encode_DownscalesOversized(t *testing.T) {
	path := writeTestImage(t, "big.png", 2048, 1200)
	e := tryon.NewEncoder()

	encoded, err := e.Encode(tryon.ImageRef{URI: path})

	require.NoError(t, err)
	// Downscaled images are re-encoded as JPEG.
	assert.Equal(t, "image/jpeg", encoded.ContentType)
}

func TestEncoder_Encode_UnreadableFile(t *testing.T) {
	e := tryon.NewEncoder()

	_, err := e.Encode(tryon.ImageRef{URI: filepath.Join(t.TempDir(), "missing.jpg")})

	var encodingErr *tryon.EncodingError
	assert.ErrorAs(t, err, &encodingErr)
}

func TestEncoder_Encode_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o644))
	e := tryon.NewEncoder()

	_, err := e.Encode(tryon.ImageRef{URI: path})

	var encodingErr *tryon.EncodingError
	assert.ErrorAs(t, err, &encodingErr)
}
