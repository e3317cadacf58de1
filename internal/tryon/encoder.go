package tryon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"os"

	"github.com/disintegration/imaging"
)

// MaxTransportEdgePx caps the longest image side sent to the provider.
// Larger inputs are downscaled before encoding to keep payloads small.
const MaxTransportEdgePx = 1024

// Encoder turns a local image reference into a base64 data URI ready for
// submission. The declared metadata may be absent or wrong, so size and
// content type are re-checked against the actual bytes.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(img ImageRef) (*EncodedImage, error) {
	data, err := os.ReadFile(img.URI)
	if err != nil {
		return nil, &EncodingError{Reason: "failed to read image", Err: err}
	}

	contentType := http.DetectContentType(data)
	if !allowedMimeType(contentType) {
		return nil, &EncodingError{Reason: "unsupported content type " + contentType + ", use JPEG or PNG"}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &EncodingError{Reason: "failed to decode image", Err: err}
	}

	if cfg.Width > MaxTransportEdgePx || cfg.Height > MaxTransportEdgePx {
		data, contentType, err = downscale(data)
		if err != nil {
			return nil, err
		}
	}

	if len(data) > MaxImageBytes {
		return nil, &EncodingError{
			Reason: fmt.Sprintf("image is %d bytes after read, maximum is %d", len(data), MaxImageBytes),
		}
	}

	return &EncodedImage{
		DataURI:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

func downscale(data []byte) ([]byte, string, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &EncodingError{Reason: "failed to decode image for downscaling", Err: err}
	}

	resized := imaging.Fit(src, MaxTransportEdgePx, MaxTransportEdgePx, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, "", &EncodingError{Reason: "failed to re-encode downscaled image", Err: err}
	}

	return buf.Bytes(), "image/jpeg", nil
}
