package ledger

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindInsufficientCredits Kind = "INSUFFICIENT_CREDITS"
	KindInvalidAmount       Kind = "INVALID_AMOUNT"
	KindStorage             Kind = "STORAGE"
)

// Error is returned by every ledger operation that fails.
// Required and Available are only meaningful for KindInsufficientCredits.
type Error struct {
	Kind      Kind
	Balance   string
	Required  int
	Available int
	Err       error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnauthorized:
		return "ledger: unauthorized"
	case KindInsufficientCredits:
		return fmt.Sprintf("ledger: insufficient %s: required %d, available %d", e.Balance, e.Required, e.Available)
	case KindInvalidAmount:
		return fmt.Sprintf("ledger: invalid amount %d", e.Required)
	default:
		if e.Err != nil {
			return fmt.Sprintf("ledger: storage: %v", e.Err)
		}
		return "ledger: storage failure"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ledger error kind wrapped in err, or "" when err is not a ledger error.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

func IsInsufficient(err error) bool {
	return KindOf(err) == KindInsufficientCredits
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

func errUnauthorized() error {
	return &Error{Kind: KindUnauthorized}
}

func errInvalidAmount(n int) error {
	return &Error{Kind: KindInvalidAmount, Required: n}
}

func errStorage(op string, err error) error {
	return &Error{Kind: KindStorage, Err: fmt.Errorf("%s: %w", op, err)}
}
