package tryon

import (
	"context"
	"fmt"
	"log"
	"time"

	"styleme-backend/internal/fashn"
)

const (
	// DefaultPollInterval is the pause between status fetches.
	DefaultPollInterval = 2 * time.Second
	// DefaultMaxPollAttempts bounds the number of status fetches.
	DefaultMaxPollAttempts = 30
	// DefaultMaxPollWait is the wall-clock ceiling for a whole poll cycle.
	// The tighter of the attempt and wall-clock budgets governs.
	DefaultMaxPollWait = 120 * time.Second
	// DefaultFetchTimeout bounds each individual status fetch.
	DefaultFetchTimeout = 10 * time.Second
)

// StatusClient is the slice of the provider client the poller needs.
type StatusClient interface {
	GetStatus(ctx context.Context, jobID string) (*fashn.StatusResponse, error)
}

// Poller drives a job to a terminal state. Fetch-level failures are treated
// as transient and retried within the attempt/time budgets; only a provider-
// reported failed/timeout status is terminal.
type Poller struct {
	client       StatusClient
	interval     time.Duration
	maxAttempts  int
	maxWait      time.Duration
	fetchTimeout time.Duration
}

func NewPoller(client StatusClient) *Poller {
	return &Poller{
		client:       client,
		interval:     DefaultPollInterval,
		maxAttempts:  DefaultMaxPollAttempts,
		maxWait:      DefaultMaxPollWait,
		fetchTimeout: DefaultFetchTimeout,
	}
}

// NewPollerWithPolicy overrides the polling budgets. Used by tests.
func NewPollerWithPolicy(client StatusClient, interval time.Duration, maxAttempts int, maxWait, fetchTimeout time.Duration) *Poller {
	return &Poller{
		client:       client,
		interval:     interval,
		maxAttempts:  maxAttempts,
		maxWait:      maxWait,
		fetchTimeout: fetchTimeout,
	}
}

// Interval reports the configured pause between status fetches.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// WaitForCompletion polls until the job reaches a terminal state or a budget
// is exhausted. Attempts returns alongside the job so callers can estimate
// elapsed processing time.
func (p *Poller) WaitForCompletion(ctx context.Context, jobID string) (*Job, int, error) {
	deadline := time.Now().Add(p.maxWait)

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if time.Now().After(deadline) {
			return nil, attempt, &JobTimeoutError{JobID: jobID, Reason: fmt.Sprintf("exceeded %s wall-clock budget", p.maxWait)}
		}

		fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		resp, err := p.client.GetStatus(fetchCtx, jobID)
		cancel()

		if err != nil {
			// A fetch timeout or network error is not terminal; keep polling
			// until the budgets run out.
			log.Printf("job %s status fetch %d/%d failed: %v", jobID, attempt, p.maxAttempts, err)
			lastErr = err
		} else {
			switch resp.Status {
			case fashn.StatusCompleted:
				if len(resp.Output) == 0 || resp.Output[0] == "" {
					return nil, attempt, &UnexpectedResponseError{JobID: jobID, Reason: "completed with empty output"}
				}
				return &Job{ID: jobID, Status: resp.Status, Output: resp.Output}, attempt, nil
			case fashn.StatusFailed:
				return nil, attempt, &JobFailedError{JobID: jobID, Reason: resp.Error}
			case fashn.StatusTimeout:
				return nil, attempt, &JobTimeoutError{JobID: jobID, Reason: "provider reported timeout"}
			default:
				// queued, processing, or a status string this client does not
				// know yet; keep polling.
			}
			lastErr = nil
		}

		if attempt < p.maxAttempts {
			select {
			case <-time.After(p.interval):
			case <-ctx.Done():
				return nil, attempt, &JobTimeoutError{JobID: jobID, Reason: ctx.Err().Error()}
			}
		}
	}

	if lastErr != nil {
		return nil, p.maxAttempts, &TransientError{Err: fmt.Errorf("job %s status unavailable after %d attempts: %w", jobID, p.maxAttempts, lastErr)}
	}

	return nil, p.maxAttempts, &JobTimeoutError{JobID: jobID, Reason: fmt.Sprintf("not terminal after %d attempts", p.maxAttempts)}
}
