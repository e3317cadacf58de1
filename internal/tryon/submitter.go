package tryon

import (
	"context"
	"errors"
	"log"
	"time"

	"styleme-backend/internal/fashn"
)

const (
	// DefaultSubmitAttempts bounds submission retries, transient failures only.
	DefaultSubmitAttempts = 3
	// DefaultAttemptTimeout bounds each submission call independently of backoff.
	DefaultAttemptTimeout = 30 * time.Second
)

// SubmitClient is the slice of the provider client the submitter needs.
type SubmitClient interface {
	Run(ctx context.Context, req fashn.RunRequest) (*fashn.RunResponse, error)
}

type SubmitOptions struct {
	GarmentType GarmentType
	Seed        int
}

// Submitter issues the job-creation request with bounded retries. Only
// transient failures (5xx, network, timeout) are retried; auth, credit,
// input and rate-limit rejections surface immediately.
type Submitter struct {
	client         SubmitClient
	model          string
	maxAttempts    int
	backoff        []time.Duration
	attemptTimeout time.Duration
}

func NewSubmitter(client SubmitClient, model string) *Submitter {
	return &Submitter{
		client:         client,
		model:          model,
		maxAttempts:    DefaultSubmitAttempts,
		backoff:        []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		attemptTimeout: DefaultAttemptTimeout,
	}
}

// NewSubmitterWithPolicy overrides the retry policy. Used by tests and by
// callers that need a tighter budget.
func NewSubmitterWithPolicy(client SubmitClient, model string, maxAttempts int, backoff []time.Duration, attemptTimeout time.Duration) *Submitter {
	return &Submitter{
		client:         client,
		model:          model,
		maxAttempts:    maxAttempts,
		backoff:        backoff,
		attemptTimeout: attemptTimeout,
	}
}

// Submit creates a generation job for the encoded image pair and returns it
// in its initial (queued) state.
func (s *Submitter) Submit(ctx context.Context, userImage, garmentImage *EncodedImage, opts SubmitOptions) (*Job, error) {
	runReq := fashn.RunRequest{
		ModelName: s.model,
		Inputs: fashn.RunInputs{
			ModelImage:   userImage.DataURI,
			ProductImage: garmentImage.DataURI,
			Category:     string(opts.GarmentType),
			Seed:         opts.Seed,
		},
	}

	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 && attempt-1 < len(s.backoff) {
			select {
			case <-time.After(s.backoff[attempt-1]):
			case <-ctx.Done():
				return nil, &TransientError{Err: ctx.Err()}
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		resp, err := s.client.Run(attemptCtx, runReq)
		cancel()

		if err == nil {
			return &Job{ID: resp.ID, Status: fashn.StatusQueued}, nil
		}

		classified := classifySubmitError(err)
		var transient *TransientError
		if !errors.As(classified, &transient) {
			return nil, classified
		}

		log.Printf("try-on submit attempt %d/%d failed: %v", attempt+1, s.maxAttempts, err)
		lastErr = classified
	}

	return nil, lastErr
}

func classifySubmitError(err error) error {
	var apiErr *fashn.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401:
			return &AuthError{Message: apiErr.Body}
		case apiErr.StatusCode == 402:
			return &QuotaError{Message: apiErr.Body}
		case apiErr.StatusCode == 422:
			return &InputError{Message: apiErr.Body}
		case apiErr.StatusCode == 429:
			return &RateLimitError{Message: apiErr.Body}
		case apiErr.StatusCode >= 500:
			return &TransientError{Err: apiErr}
		default:
			return &InputError{Message: apiErr.Body}
		}
	}

	// Network failures and per-attempt timeouts land here.
	return &TransientError{Err: err}
}
