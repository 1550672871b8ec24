package domain

import "errors"

var (
	// ErrNotFound is returned when FDC has no food for the requested id.
	// It is the only definitive failure: callers must not fall back to
	// stale data for it.
	ErrNotFound = errors.New("food not found in FDC database")

	// ErrRateLimited is returned when the local hourly quota is exhausted
	// and no upstream call was made
	ErrRateLimited = errors.New("hourly FDC quota exhausted")

	// ErrQuotaExceeded is returned when FDC itself answers 429
	ErrQuotaExceeded = errors.New("FDC quota exceeded")

	// ErrForbidden is returned when FDC rejects the API key (401/403)
	ErrForbidden = errors.New("FDC rejected API key")

	// ErrNetwork is returned for timeouts, resets and other transport failures
	ErrNetwork = errors.New("FDC request failed")

	// ErrUpstreamFailure is returned for any other non-success status
	ErrUpstreamFailure = errors.New("FDC API request failed")

	// ErrMalformedResponse is returned when a response body cannot be decoded
	ErrMalformedResponse = errors.New("malformed FDC response")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// Outcome is the classified result of an upstream call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNotFound
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "transient"
	}
}

// ClassifyOutcome maps an upstream error to its outcome class. Everything
// except ErrNotFound is transient and eligible for stale-cache fallback.
func ClassifyOutcome(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeTransient
	}
}

// IsTransient reports whether err permits a stale-cache fallback
func IsTransient(err error) bool {
	return ClassifyOutcome(err) == OutcomeTransient
}
