package unitofwork

import (
	"context"

	"ai-studio-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CreditTransactionRepository() contract.CreditTransactionRepository
	MediaRepository() contract.MediaRepository
	PaymentRepository() contract.PaymentRepository
}
