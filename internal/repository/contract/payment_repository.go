package contract

import (
	"context"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"
)

type PaymentRepository interface {
	// CreateIfAbsent inserts the payment unless (provider, session_id) already exists.
	// Returns false for a duplicate.
	CreateIfAbsent(ctx context.Context, payment *entity.Payment) (bool, error)
	// UpdateStatusIfPending moves a pending payment to status. Returns false when it was not pending.
	UpdateStatusIfPending(ctx context.Context, provider entity.PaymentProvider, sessionId string, status entity.PaymentStatus, payload []byte) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
