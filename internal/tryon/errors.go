package tryon

import "fmt"

// The error types below let the calling layer distinguish "show an upgrade
// prompt" (EntitlementError) from "retry later" (RateLimitError,
// TransientError) from "this request is invalid" (ValidationError,
// InputError) from "contact support" (UnexpectedResponseError,
// InvalidResultError). Match them with errors.As.

// ValidationError reports an image that fails metadata preconditions before
// any bytes are read or any network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "image validation failed: " + e.Reason
}

// EncodingError reports a failure to turn a local image into a transport
// payload.
type EncodingError struct {
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image encoding failed: %s: %v", e.Reason, e.Err)
	}
	return "image encoding failed: " + e.Reason
}

func (e *EncodingError) Unwrap() error { return e.Err }

// EntitlementError means the caller is not allowed to run a try-on right now.
type EntitlementError struct {
	Reason     string
	CanUpgrade bool
}

func (e *EntitlementError) Error() string { return e.Reason }

// AuthError: the provider rejected our credentials (401). Not retryable.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return "invalid provider credentials: " + e.Message }

// QuotaError: the provider account is out of credits (402). Not retryable.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string { return "insufficient provider credits: " + e.Message }

// InputError: the provider rejected the request or images as malformed (422).
// Not retryable.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return "provider rejected request: " + e.Message }

// RateLimitError: the provider throttled us (429). Submission does not
// auto-retry on 429 to avoid compounding rate-limit pressure.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return "provider rate limit exceeded: " + e.Message }

// TransientError wraps 5xx and network-level failures. The submitter retries
// these internally; after exhaustion the last one is surfaced.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient provider error: " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// JobFailedError: the provider reported the job itself failed.
type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("job %s failed", e.JobID)
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Reason)
}

// JobTimeoutError: the job did not reach a terminal state within budget, or
// the provider itself reported a timeout.
type JobTimeoutError struct {
	JobID  string
	Reason string
}

func (e *JobTimeoutError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("job %s timed out", e.JobID)
	}
	return fmt.Sprintf("job %s timed out: %s", e.JobID, e.Reason)
}

// UnexpectedResponseError: the job claims success but delivered nothing
// usable (completed with empty output). Distinct from JobFailedError.
type UnexpectedResponseError struct {
	JobID  string
	Reason string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected provider response for job %s: %s", e.JobID, e.Reason)
}

// InvalidResultError: the completed job's output URL is not a well-formed
// absolute HTTP(S) URL.
type InvalidResultError struct {
	JobID string
	URI   string
}

func (e *InvalidResultError) Error() string {
	return fmt.Sprintf("job %s returned malformed result url %q", e.JobID, e.URI)
}
