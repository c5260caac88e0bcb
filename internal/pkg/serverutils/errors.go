package serverutils

import (
	"errors"
	"fmt"
	"net/http"

	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/provider"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status through service layers.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", message)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message)
}

// Describe maps any error to status, machine code and the message shown to the client.
// Unknown errors collapse to a generic 500 message.
func Describe(err error) (int, string, string) {
	var (
		appErr   *AppError
		ledgErr  *ledger.Error
		provErr  *provider.Error
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &appErr):
		return appErr.Status, appErr.Code, appErr.Message
	case errors.As(err, &ledgErr):
		switch ledgErr.Kind {
		case ledger.KindUnauthorized:
			return http.StatusUnauthorized, string(ledgErr.Kind), "Unauthorized"
		case ledger.KindInsufficientCredits:
			return http.StatusPaymentRequired, string(ledgErr.Kind),
				fmt.Sprintf("Insufficient credits: %d required, %d available", ledgErr.Required, ledgErr.Available)
		case ledger.KindInvalidAmount:
			return http.StatusBadRequest, string(ledgErr.Kind), "Invalid credit amount"
		default:
			return http.StatusInternalServerError, string(ledgErr.Kind), "Failed to update credits"
		}
	case errors.As(err, &provErr):
		return provErr.HTTPStatus(), string(provErr.Kind), provErr.UserMessage()
	case errors.As(err, &fiberErr):
		return fiberErr.Code, "", fiberErr.Message
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
}
