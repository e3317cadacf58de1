package tryon

import (
	"context"
	"log"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"styleme-backend/internal/entitlement"
)

const (
	// ProviderName identifies the virtual try-on integration in results.
	ProviderName = "fashn.ai"
	// DefaultModelName is the FASHN model this integration targets.
	DefaultModelName = "tryon-v1.6"

	// The provider does not return a real confidence score for this model;
	// results carry this integration constant instead.
	resultConfidence = 0.95
)

// EntitlementGate is the slice of the entitlement gate the orchestrator
// consults. Injected as a constructor dependency.
type EntitlementGate interface {
	CheckTryOnUsage(ctx context.Context) entitlement.TryOnAccess
	RecordTryOnUsage(ctx context.Context) int
}

// Orchestrator runs one try-on request end to end:
// gate -> validate -> encode -> submit -> poll -> result.
// There is no retry loop above the submitter's internal retries; a caller
// that wants to retry a failed try-on issues a brand-new Run.
type Orchestrator struct {
	gate      EntitlementGate
	validator *Validator
	encoder   *Encoder
	submitter *Submitter
	poller    *Poller
}

func NewOrchestrator(gate EntitlementGate, submitter *Submitter, poller *Poller) *Orchestrator {
	return &Orchestrator{
		gate:      gate,
		validator: NewValidator(),
		encoder:   NewEncoder(),
		submitter: submitter,
		poller:    poller,
	}
}

// Run executes the try-on pipeline and returns a normalized result or a
// typed error. Gating, validation and encoding failures are local and abort
// before any network call; submit and poll errors propagate unchanged.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	access := o.gate.CheckTryOnUsage(ctx)
	if !access.CanUse {
		return nil, &EntitlementError{Reason: access.Reason, CanUpgrade: access.CanUpgrade}
	}

	if !req.GarmentType.Valid() {
		return nil, &ValidationError{Reason: "unknown garment type " + string(req.GarmentType)}
	}
	if err := o.validator.Validate(req.UserImage); err != nil {
		return nil, err
	}
	if err := o.validator.Validate(req.GarmentImage); err != nil {
		return nil, err
	}

	// The two encodings are independent; run them concurrently.
	var (
		wg                  sync.WaitGroup
		userEnc, garmentEnc *EncodedImage
		userErr, garmentErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		userEnc, userErr = o.encoder.Encode(req.UserImage)
	}()
	go func() {
		defer wg.Done()
		garmentEnc, garmentErr = o.encoder.Encode(req.GarmentImage)
	}()
	wg.Wait()
	if userErr != nil {
		return nil, userErr
	}
	if garmentErr != nil {
		return nil, garmentErr
	}

	job, err := o.submitter.Submit(ctx, userEnc, garmentEnc, SubmitOptions{
		GarmentType: req.GarmentType,
		Seed:        rand.Intn(1 << 30),
	})
	if err != nil {
		return nil, err
	}

	done, attempts, err := o.poller.WaitForCompletion(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	resultURI := done.Output[0]
	if !isAbsoluteHTTPURL(resultURI) {
		return nil, &InvalidResultError{JobID: job.ID, URI: resultURI}
	}

	// Best-effort accounting: the generation already succeeded, so a failed
	// usage write must not turn this into a reported failure.
	newCount := o.gate.RecordTryOnUsage(ctx)
	log.Printf("try-on job %s completed, monthly usage now %d", job.ID, newCount)

	return &Result{
		URI:              resultURI,
		Confidence:       resultConfidence,
		ProcessingTimeMs: attempts * int(o.poller.Interval()/time.Millisecond),
		Provider:         ProviderName,
		Model:            o.submitter.model,
		JobID:            job.ID,
	}, nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
