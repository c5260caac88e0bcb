package contract

import (
	"context"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"
)

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// EnsureExists inserts a zero-balance row for userId unless one exists.
	EnsureExists(ctx context.Context, userId string) error

	// DecrementIfSufficient subtracts amount from the balance only when it stays >= 0.
	// Returns false when no row matched.
	DecrementIfSufficient(ctx context.Context, userId string, kind entity.BalanceKind, amount int) (bool, error)
	Increment(ctx context.Context, userId string, kind entity.BalanceKind, amount int) error
}
