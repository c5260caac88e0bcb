package serverutils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/provider"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenVerifier_Verify(t *testing.T) {
	v, err := NewTokenVerifier("secret", "")
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{"sub claim", signHS256(t, "secret", jwt.MapClaims{"sub": "user_1", "exp": exp}), "user_1", false},
		{"user_id claim", signHS256(t, "secret", jwt.MapClaims{"user_id": "user_2", "exp": exp}), "user_2", false},
		{"wrong secret", signHS256(t, "other", jwt.MapClaims{"sub": "user_1", "exp": exp}), "", true},
		{"expired", signHS256(t, "secret", jwt.MapClaims{"sub": "user_1", "exp": time.Now().Add(-time.Hour).Unix()}), "", true},
		{"no subject", signHS256(t, "secret", jwt.MapClaims{"exp": exp}), "", true},
		{"garbage", "not-a-token", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Verify(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTokenVerifier_RequiresKeyMaterial(t *testing.T) {
	_, err := NewTokenVerifier("", "")
	assert.Error(t, err)
}

func TestMiddleware_AdminOnly(t *testing.T) {
	v, err := NewTokenVerifier("secret", "")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin", v.Middleware(), AdminOnly([]string{"boss"}), func(c *fiber.Ctx) error {
		return c.SendString(UserId(c))
	})

	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusForbidden, call("Bearer "+signHS256(t, "secret", jwt.MapClaims{"sub": "someone"})))
	assert.Equal(t, http.StatusOK, call("Bearer "+signHS256(t, "secret", jwt.MapClaims{"sub": "boss"})))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"insufficient", fmt.Errorf("wrap: %w", &ledger.Error{Kind: ledger.KindInsufficientCredits, Required: 2}), 402, "INSUFFICIENT_CREDITS"},
		{"unauthorized", &ledger.Error{Kind: ledger.KindUnauthorized}, 401, "UNAUTHORIZED"},
		{"storage", &ledger.Error{Kind: ledger.KindStorage, Err: errors.New("db down")}, 500, "STORAGE"},
		{"provider", provider.Classify("replicate", 429, ""), 429, "RATE_LIMITED"},
		{"app", BadRequest("prompt is required"), 400, "VALIDATION_ERROR"},
		{"unknown", errors.New("boom"), 500, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := Describe(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Prompt string `json:"prompt" validate:"required,max=10"`
	}

	assert.NoError(t, ValidateRequest(req{Prompt: "a cat"}))

	err := ValidateRequest(req{})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Message, "Prompt is required")
}
