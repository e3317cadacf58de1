package tryon

// GarmentType identifies the clothing region the provider should dress.
type GarmentType string

const (
	GarmentUpperBody GarmentType = "upper_body"
	GarmentLowerBody GarmentType = "lower_body"
	GarmentDress     GarmentType = "dress"
	GarmentOuterwear GarmentType = "outerwear"
)

func (g GarmentType) Valid() bool {
	switch g {
	case GarmentUpperBody, GarmentLowerBody, GarmentDress, GarmentOuterwear:
		return true
	}
	return false
}

// ImageRef points at a caller-owned local image. The orchestrator only reads
// it; metadata fields are optional and may be absent or wrong (the encoder
// re-checks after reading the bytes).
type ImageRef struct {
	URI           string
	Width         int
	Height        int
	FileSizeBytes int64
	MimeType      string
}

// EncodedImage is a transport-ready payload. It is held in memory only for
// the duration of the submission call; the payload itself must never be
// logged or persisted.
type EncodedImage struct {
	DataURI     string
	ContentType string
	Size        int
}

// Request is one try-on invocation. Immutable once handed to the orchestrator.
type Request struct {
	UserImage          ImageRef
	GarmentImage       ImageRef
	GarmentType        GarmentType
	PreserveBackground bool
	EnhanceQuality     bool
}

// Job mirrors the provider's view of an asynchronous generation task. Status
// is a read-through cache of remote state; the client never writes it locally.
type Job struct {
	ID     string
	Status string
	Output []string
	Error  string
}

// Result is the normalized success output of a try-on run.
//
// Confidence is an integration constant (the provider does not return a real
// score for this model) and ProcessingTimeMs is estimated from the polling
// cadence, not measured. Both are documented approximations.
type Result struct {
	URI              string  `json:"uri"`
	Confidence       float64 `json:"confidence"`
	ProcessingTimeMs int     `json:"processing_time_ms"`
	Provider         string  `json:"provider"`
	Model            string  `json:"model"`
	JobID            string  `json:"job_id"`
}
