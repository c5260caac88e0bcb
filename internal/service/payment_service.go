// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/constant"
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/mailer"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	internalWS "ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/events"
	"ai-studio-be/pkg/ledger"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

const paymentModule = "PAYMENT"

// StripeSessions creates Stripe Checkout sessions. *session.Client satisfies it.
type StripeSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// SnapClient creates Midtrans Snap transactions. *snap.Client satisfies it.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type IPaymentService interface {
	ListPacks() []dto.CreditPackResponse
	CreateStripeCheckout(ctx context.Context, userId string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error)
	CreateMidtransCheckout(ctx context.Context, userId string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleMidtransNotification(ctx context.Context, req *dto.MidtransNotificationRequest, raw []byte) (*dto.WebhookResult, error)
}

type paymentService struct {
	cfg            config.PaymentConfig
	uowFactory     unitofwork.RepositoryFactory
	ledger         *ledger.Ledger
	stripeSessions StripeSessions
	snapClient     SnapClient
	emailService   mailer.IEmailService
	events         events.Publisher
	notifier       Notifier
	logger         logger.ILogger
}

type PaymentServiceOption func(*paymentService)

func WithStripeSessions(s StripeSessions) PaymentServiceOption {
	return func(p *paymentService) { p.stripeSessions = s }
}

func WithSnapClient(c SnapClient) PaymentServiceOption {
	return func(p *paymentService) { p.snapClient = c }
}

func NewPaymentService(
	cfg config.PaymentConfig,
	uowFactory unitofwork.RepositoryFactory,
	ledger *ledger.Ledger,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	notifier Notifier,
	logger logger.ILogger,
	opts ...PaymentServiceOption,
) IPaymentService {
	s := &paymentService{
		cfg:          cfg,
		uowFactory:   uowFactory,
		ledger:       ledger,
		emailService: emailService,
		events:       eventPublisher,
		notifier:     notifierOrNoop(notifier),
		logger:       logger,
	}

	if cfg.StripeSecretKey != "" {
		sc := &client.API{}
		sc.Init(cfg.StripeSecretKey, nil)
		s.stripeSessions = sc.CheckoutSessions
	}
	if cfg.MidtransServerKey != "" {
		env := midtrans.Sandbox
		if cfg.MidtransProduction {
			env = midtrans.Production
		}
		var sClient snap.Client
		sClient.New(cfg.MidtransServerKey, env)
		s.snapClient = &sClient
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *paymentService) ListPacks() []dto.CreditPackResponse {
	packs := constant.CreditPacks()
	res := make([]dto.CreditPackResponse, 0, len(packs))
	for _, p := range packs {
		res = append(res, dto.CreditPackResponse{
			Id:            p.Id,
			Name:          p.Name,
			PriceCents:    p.PriceCents,
			Currency:      p.Currency,
			Credits:       p.Credits,
			PromptCredits: p.PromptCredits,
		})
	}
	return res
}

func (s *paymentService) CreateStripeCheckout(ctx context.Context, userId string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.stripeSessions == nil {
		return nil, serverutils.NewAppError(503, "PAYMENT_UNAVAILABLE", "Stripe is not configured")
	}
	pack, ok := constant.FindCreditPack(req.PackId)
	if !ok {
		return nil, serverutils.BadRequest("Unknown credit pack")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(withSessionId(s.cfg.SuccessURL)),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(userId),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(pack.Currency),
					UnitAmount: stripe.Int64(pack.PriceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s pack: %d credits", pack.Name, pack.Credits)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata("userId", userId)
	params.AddMetadata("credits", strconv.Itoa(pack.Credits))
	params.AddMetadata("promptCredits", strconv.Itoa(pack.PromptCredits))
	params.AddMetadata("type", constant.PurchaseTypeCredits)
	params.AddMetadata("packId", pack.Id)

	sess, err := s.stripeSessions.New(params)
	if err != nil {
		s.logger.Error(paymentModule, "Stripe checkout failed", map[string]interface{}{
			"user_id": userId,
			"pack_id": pack.Id,
			"error":   err.Error(),
		})
		return nil, &serverutils.AppError{Status: 502, Code: "PAYMENT_PROVIDER_ERROR", Message: "Could not start checkout", Err: err}
	}

	s.logger.Info(paymentModule, "Stripe checkout created", map[string]interface{}{
		"user_id":    userId,
		"pack_id":    pack.Id,
		"session_id": sess.ID,
	})

	return &dto.CheckoutResponse{SessionId: sess.ID, RedirectUrl: sess.URL}, nil
}

func (s *paymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Warn(paymentModule, "Stripe signature rejected", map[string]interface{}{"error": err.Error()})
		return nil, serverutils.BadRequest("Invalid webhook signature")
	}

	result := &dto.WebhookResult{EventType: string(event.Type)}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
	default:
		return result, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, serverutils.BadRequest("Malformed checkout session")
	}

	// Delayed methods complete unpaid and are granted on async_payment_succeeded.
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		s.logger.Info(paymentModule, "Checkout completed without payment yet", map[string]interface{}{
			"session_id": sess.ID,
			"status":     string(sess.PaymentStatus),
		})
		return result, nil
	}

	if sess.Metadata["type"] != constant.PurchaseTypeCredits {
		return result, nil
	}

	userId := sess.Metadata["userId"]
	credits, err1 := strconv.Atoi(sess.Metadata["credits"])
	promptCredits, err2 := strconv.Atoi(sess.Metadata["promptCredits"])
	if userId == "" || err1 != nil || err2 != nil {
		s.logger.Error(paymentModule, "Checkout session metadata incomplete", map[string]interface{}{
			"session_id": sess.ID,
			"metadata":   sess.Metadata,
		})
		return nil, serverutils.BadRequest("Checkout session metadata incomplete")
	}

	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}

	payment := &entity.Payment{
		Id:            uuid.New(),
		Provider:      entity.PaymentProviderStripe,
		SessionId:     sess.ID,
		UserId:        userId,
		CustomerEmail: email,
		PackId:        sess.Metadata["packId"],
		PurchaseType:  constant.PurchaseTypeCredits,
		Credits:       credits,
		PromptCredits: promptCredits,
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Status:        entity.PaymentStatusPaid,
		Payload:       event.Data.Raw,
	}

	user, granted, err := s.grantOnce(ctx, payment)
	if err != nil {
		return nil, err
	}
	result.Handled = true
	result.Duplicate = !granted
	if granted {
		s.afterGrant(ctx, payment, user, formatMinor(sess.AmountTotal, string(sess.Currency)))
	}
	return result, nil
}

// grantOnce inserts the payment row and the credits in one transaction.
// A second delivery for the same session hits the unique key and grants nothing.
func (s *paymentService) grantOnce(ctx context.Context, payment *entity.Payment) (*entity.User, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	created, err := uow.PaymentRepository().CreateIfAbsent(ctx, payment)
	if err != nil {
		return nil, false, err
	}
	if !created {
		s.logger.Info(paymentModule, "Duplicate payment notification ignored", map[string]interface{}{
			"provider":   string(payment.Provider),
			"session_id": payment.SessionId,
		})
		return nil, false, nil
	}

	user, err := s.ledger.AddCreditsTx(ctx, uow, payment.UserId, payment.Credits, payment.PromptCredits,
		entity.CreditTransactionGrant,
		ledger.WithService(string(payment.Provider)),
		ledger.WithRelatedId(payment.SessionId),
	)
	if err != nil {
		return nil, false, err
	}

	if err := uow.Commit(); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *paymentService) CreateMidtransCheckout(ctx context.Context, userId string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.snapClient == nil {
		return nil, serverutils.NewAppError(503, "PAYMENT_UNAVAILABLE", "Midtrans is not configured")
	}
	pack, ok := constant.FindCreditPack(req.PackId)
	if !ok {
		return nil, serverutils.BadRequest("Unknown credit pack")
	}

	orderId := uuid.New()
	payment := &entity.Payment{
		Id:            orderId,
		Provider:      entity.PaymentProviderMidtrans,
		SessionId:     orderId.String(),
		UserId:        userId,
		CustomerEmail: req.Email,
		PackId:        pack.Id,
		PurchaseType:  constant.PurchaseTypeCredits,
		Credits:       pack.Credits,
		PromptCredits: pack.PromptCredits,
		AmountTotal:   pack.PriceIDR,
		Currency:      "idr",
		Status:        entity.PaymentStatusPending,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.PaymentRepository().CreateIfAbsent(ctx, payment); err != nil {
		return nil, err
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  payment.SessionId,
			GrossAmt: pack.PriceIDR,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: s.cfg.SuccessURL,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    pack.Id,
				Price: pack.PriceIDR,
				Qty:   1,
				Name:  pack.Name + " credit pack",
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}
	if req.Email != "" {
		snapReq.CustomerDetail = &midtrans.CustomerDetails{Email: req.Email}
	}

	snapResp, midErr := s.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		s.logger.Error(paymentModule, "Midtrans checkout failed", map[string]interface{}{
			"order_id": payment.SessionId,
			"error":    midErr.GetMessage(),
		})
		if _, err := uow.PaymentRepository().UpdateStatusIfPending(ctx, entity.PaymentProviderMidtrans, payment.SessionId, entity.PaymentStatusFailed, nil); err != nil {
			s.logger.Warn(paymentModule, "Failed to mark payment failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, serverutils.NewAppError(502, "PAYMENT_PROVIDER_ERROR", "Could not start checkout")
	}

	return &dto.CheckoutResponse{SessionId: payment.SessionId, RedirectUrl: snapResp.RedirectURL}, nil
}

// MidtransSignature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func MidtransSignature(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func (s *paymentService) HandleMidtransNotification(ctx context.Context, req *dto.MidtransNotificationRequest, raw []byte) (*dto.WebhookResult, error) {
	if s.cfg.MidtransServerKey == "" {
		return nil, serverutils.NewAppError(503, "PAYMENT_UNAVAILABLE", "Midtrans is not configured")
	}
	expected := MidtransSignature(req.OrderId, req.StatusCode, req.GrossAmount, s.cfg.MidtransServerKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.SignatureKey)) != 1 {
		s.logger.Warn(paymentModule, "Midtrans signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return nil, serverutils.NewAppError(403, "INVALID_SIGNATURE", "Invalid signature")
	}

	result := &dto.WebhookResult{EventType: req.TransactionStatus}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByProviderSession{
		Provider:  string(entity.PaymentProviderMidtrans),
		SessionId: req.OrderId,
	})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, serverutils.NotFound("Order not found")
	}

	var newStatus entity.PaymentStatus
	switch req.TransactionStatus {
	case "capture":
		if req.FraudStatus != "" && req.FraudStatus != "accept" {
			return result, nil
		}
		newStatus = entity.PaymentStatusPaid
	case "settlement":
		newStatus = entity.PaymentStatusPaid
	case "deny", "cancel", "expire", "failure":
		newStatus = entity.PaymentStatusFailed
	default:
		return result, nil
	}

	updated, err := uow.PaymentRepository().UpdateStatusIfPending(ctx, entity.PaymentProviderMidtrans, req.OrderId, newStatus, raw)
	if err != nil {
		return nil, err
	}
	result.Handled = true
	if !updated {
		result.Duplicate = true
		return result, nil
	}

	var user *entity.User
	if newStatus == entity.PaymentStatusPaid {
		user, err = s.ledger.AddCreditsTx(ctx, uow, payment.UserId, payment.Credits, payment.PromptCredits,
			entity.CreditTransactionGrant,
			ledger.WithService(string(entity.PaymentProviderMidtrans)),
			ledger.WithRelatedId(payment.SessionId),
		)
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if user != nil {
		s.afterGrant(ctx, payment, user, "IDR "+req.GrossAmount)
	} else {
		s.logger.Info(paymentModule, "Midtrans payment failed", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
	}
	return result, nil
}

// afterGrant runs the side effects of a purchase. None of them can undo the grant.
func (s *paymentService) afterGrant(ctx context.Context, payment *entity.Payment, user *entity.User, amount string) {
	s.logger.Info(paymentModule, "Credits purchased", map[string]interface{}{
		"provider":       string(payment.Provider),
		"session_id":     payment.SessionId,
		"user_id":        payment.UserId,
		"credits":        payment.Credits,
		"prompt_credits": payment.PromptCredits,
	})

	if err := s.events.Publish(ctx, events.New(events.CreditsPurchased, map[string]interface{}{
		"user_id":        payment.UserId,
		"provider":       string(payment.Provider),
		"session_id":     payment.SessionId,
		"pack_id":        payment.PackId,
		"credits":        payment.Credits,
		"prompt_credits": payment.PromptCredits,
		"amount_total":   payment.AmountTotal,
		"currency":       payment.Currency,
	})); err != nil {
		s.logger.Warn(paymentModule, "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	s.notifier.Send(payment.UserId, internalWS.EventCreditsUpdated, map[string]interface{}{
		"credits":               user.Credits,
		"prompt_wizard_credits": user.PromptWizardCredits,
	})

	if payment.CustomerEmail == "" || !s.emailService.Enabled() {
		return
	}
	packName := payment.PackId
	if pack, ok := constant.FindCreditPack(payment.PackId); ok {
		packName = pack.Name
	}
	receipt := mailer.Receipt{
		PackName:      packName,
		Credits:       payment.Credits,
		PromptCredits: payment.PromptCredits,
		Amount:        amount,
		Reference:     payment.SessionId,
	}
	go func(to string) {
		if err := s.emailService.SendPurchaseReceipt(to, receipt); err != nil {
			s.logger.Error(paymentModule, "Failed to send receipt", map[string]interface{}{
				"session_id": payment.SessionId,
				"error":      err.Error(),
			})
		}
	}(payment.CustomerEmail)
}

func formatMinor(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, strings.ToUpper(currency))
}

// withSessionId appends Stripe's session placeholder with the right query separator.
func withSessionId(successURL string) string {
	sep := "?"
	if strings.Contains(successURL, "?") {
		sep = "&"
	}
	return successURL + sep + "session_id={CHECKOUT_SESSION_ID}"
}
