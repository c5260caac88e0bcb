package provider

import (
	"fmt"
	"net/http"
	"strings"
)

type ErrorKind string

const (
	KindRateLimited     ErrorKind = "RATE_LIMITED"
	KindPaymentRequired ErrorKind = "PAYMENT_REQUIRED"
	KindModelNotFound   ErrorKind = "MODEL_NOT_FOUND"
	KindGPUFailure      ErrorKind = "GPU_FAILURE"
	KindUpstream        ErrorKind = "UPSTREAM"
)

// Error is a classified provider failure.
type Error struct {
	Kind     ErrorKind
	Provider string
	Status   int // upstream status, 0 when the failure came from a prediction body
	Detail   string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Detail)
}

// HTTPStatus is the status our API answers with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindModelNotFound:
		return http.StatusNotFound
	case KindGPUFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindRateLimited:
		return "The AI provider is rate limiting requests. Please try again in a minute."
	case KindPaymentRequired:
		return "The AI provider account requires billing attention. Please contact support."
	case KindModelNotFound:
		return "The selected AI model is not available."
	case KindGPUFailure:
		return "The AI provider ran out of GPU capacity. Please try again."
	default:
		return "The AI provider failed to generate a result."
	}
}

// Classify maps an upstream status and error text to an Error.
func Classify(providerName string, status int, detail string) *Error {
	lower := strings.ToLower(detail)
	kind := KindUpstream

	switch {
	case status == http.StatusTooManyRequests || strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests"):
		kind = KindRateLimited
	case status == http.StatusPaymentRequired || strings.Contains(lower, "payment required") || strings.Contains(lower, "billing") || strings.Contains(lower, "insufficient credit"):
		kind = KindPaymentRequired
	case status == http.StatusNotFound || strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist"):
		kind = KindModelNotFound
	case strings.Contains(lower, "cuda") || strings.Contains(lower, "gpu") || strings.Contains(lower, "out of memory"):
		kind = KindGPUFailure
	}

	return &Error{Kind: kind, Provider: providerName, Status: status, Detail: truncate(detail, 500)}
}
