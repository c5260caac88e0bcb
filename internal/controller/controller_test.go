package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/controller"
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/mailer"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/internal/service"
	"ai-studio-be/internal/testutil"
	"ai-studio-be/pkg/events"
	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/modelcatalog"
	"ai-studio-be/pkg/provider"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
	"gorm.io/gorm"
)

const (
	jwtSecret     = "test-secret"
	webhookSecret = "whsec_controller"
)

type nopEvents struct{}

func (nopEvents) Publish(context.Context, events.Event) error { return nil }

type fixedResolver struct{}

func (fixedResolver) Resolve(_ context.Context, slug string, _ int, fallback string) modelcatalog.Resolution {
	return modelcatalog.Resolution{Slug: slug, Identifier: fallback, Source: modelcatalog.SourceFallback}
}

func (fixedResolver) Refresh(context.Context) (*modelcatalog.Catalog, error) {
	return modelcatalog.NewCatalog(nil, time.Now()), nil
}

type runnerFunc func(ctx context.Context, identifier string, input map[string]interface{}) (provider.Output, error)

func (f runnerFunc) Run(ctx context.Context, identifier string, input map[string]interface{}) (provider.Output, error) {
	return f(ctx, identifier, input)
}

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	ledger *ledger.Ledger
}

func newTestApp(t *testing.T, runner provider.Runner) *testApp {
	t.Helper()

	db := testutil.NewTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()
	l := ledger.New(factory, log)

	verifier, err := serverutils.NewTokenVerifier(jwtSecret, "")
	require.NoError(t, err)
	auth := verifier.Middleware()

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.FiberErrorHandler})
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")

	generation := service.NewGenerationService(l, fixedResolver{}, runner, factory, nil, "media.generated", nopEvents{}, nil, log)
	controller.NewToolController(generation, true).RegisterRoutes(api, auth)
	controller.NewCreditController(service.NewCreditService(l, factory)).RegisterRoutes(api, auth)
	controller.NewMediaController(service.NewMediaService(factory)).RegisterRoutes(api, auth)

	payments := service.NewPaymentService(config.PaymentConfig{StripeWebhookSecret: webhookSecret}, factory, l,
		mailer.NewEmailService("", 0, "", "", "", ""), nopEvents{}, nil, log)
	controller.NewPaymentController(payments).RegisterRoutes(api, auth)

	admin := service.NewAdminService(factory, l, fixedResolver{}, nopEvents{}, nil, log)
	controller.NewAdminController(admin).RegisterRoutes(api, auth, serverutils.AdminOnly([]string{"admin_1"}))

	return &testApp{app: app, db: db, ledger: l}
}

func token(t *testing.T, userId string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userId,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return s
}

func (a *testApp) do(t *testing.T, method, path, userId string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userId != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userId))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestGenerate_EndToEnd(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, identifier string, input map[string]interface{}) (provider.Output, error) {
		return provider.AsyncURLObject{Resolve: func(context.Context) (string, error) {
			return "https://cdn/img.png", nil
		}}, nil
	})
	ta := newTestApp(t, runner)
	testutil.SeedUser(t, ta.db, "user_1", 5, 0)

	resp, body := ta.do(t, http.MethodPost, "/api/tools/ai-image-generator", "user_1", map[string]string{"prompt": "a cat"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var res dto.GenerateResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "https://cdn/img.png", res.ResultUrl)
	assert.Equal(t, 1, res.CreditsDeducted)
	assert.Equal(t, "a cat", res.Prompt)

	resp, body = ta.do(t, http.MethodGet, "/api/credits", "user_1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance serverutils.BaseResponse[dto.BalanceResponse]
	require.NoError(t, json.Unmarshal(body, &balance))
	assert.Equal(t, 4, balance.Data.Credits)

	resp, body = ta.do(t, http.MethodGet, "/api/media", "user_1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var media serverutils.BaseResponse[serverutils.PagedData[dto.MediaResponse]]
	require.NoError(t, json.Unmarshal(body, &media))
	assert.EqualValues(t, 1, media.Data.Total)
}

func TestGenerate_ErrorBody(t *testing.T) {
	runner := runnerFunc(func(context.Context, string, map[string]interface{}) (provider.Output, error) {
		return nil, provider.Classify("replicate", http.StatusPaymentRequired, "billing required")
	})
	ta := newTestApp(t, runner)
	testutil.SeedUser(t, ta.db, "user_1", 5, 0)

	tests := []struct {
		name   string
		slug   string
		user   string
		body   map[string]string
		status int
	}{
		{"no token", "ai-image-generator", "", map[string]string{"prompt": "a cat"}, http.StatusUnauthorized},
		{"missing prompt", "ai-image-generator", "user_1", map[string]string{}, http.StatusBadRequest},
		{"invalid aspect ratio", "ai-image-generator", "user_1", map[string]string{"prompt": "a cat", "aspectRatio": "7:5"}, http.StatusBadRequest},
		{"unknown tool", "nope", "user_1", map[string]string{"prompt": "a cat"}, http.StatusNotFound},
		{"insufficient", "text-to-video", "user_1", map[string]string{"prompt": "a cat"}, http.StatusPaymentRequired},
		{"provider billing", "ai-image-generator", "user_1", map[string]string{"prompt": "a cat"}, http.StatusPaymentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ta.do(t, http.MethodPost, "/api/tools/"+tt.slug, tt.user, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			if tt.user == "" {
				return
			}
			var e serverutils.GenerationError
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Error)
			assert.NotNil(t, e.Details)
		})
	}

	user, err := ta.ledger.Balance(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, 5, user.Credits)
}

func TestStripeWebhook_NoAuthAndIdempotent(t *testing.T) {
	ta := newTestApp(t, nil)

	payload, err := json.Marshal(map[string]interface{}{
		"id":     "evt_1",
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "cs_http_1",
				"object":         "checkout.session",
				"payment_status": "paid",
				"metadata": map[string]string{
					"userId": "user_9", "credits": "50", "promptCredits": "10", "type": "credits", "packId": "starter",
				},
			},
		},
	})
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: webhookSecret, Timestamp: time.Now()})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/payment/stripe/webhook", bytes.NewReader(signed.Payload))
		req.Header.Set("Stripe-Signature", signed.Header)
		resp, err := ta.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	user, err := ta.ledger.Balance(context.Background(), "user_9")
	require.NoError(t, err)
	assert.Equal(t, 50, user.Credits)
	assert.Equal(t, 10, user.PromptWizardCredits)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	ta := newTestApp(t, nil)
	testutil.SeedUser(t, ta.db, "user_1", 0, 0)

	resp, _ := ta.do(t, http.MethodGet, "/api/admin/users", "user_1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := ta.do(t, http.MethodPost, "/api/admin/users/user_1/credits", "admin_1", map[string]int{"credits": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var res serverutils.BaseResponse[dto.BalanceResponse]
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 3, res.Data.Credits)

	resp, body = ta.do(t, http.MethodGet, "/api/admin/catalog/resolve?slug=logo-generator", "admin_1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resolved serverutils.BaseResponse[dto.ResolveResponse]
	require.NoError(t, json.Unmarshal(body, &resolved))
	assert.Equal(t, "fallback", resolved.Data.Source)
}
