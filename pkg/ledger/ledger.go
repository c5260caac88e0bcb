// Package ledger owns the per-user credit balances.
//
// Every mutation is a conditional UPDATE plus a credit_transactions row, committed together.
// Balances never go negative: a deduction that would overdraw affects zero rows and is reported
// as an insufficient-credits error.
package ledger

import (
	"context"
	"fmt"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
)

const module = "LEDGER"

type Option func(*entity.CreditTransaction)

// WithService records which feature consumed or produced the credits.
func WithService(service string) Option {
	return func(tx *entity.CreditTransaction) {
		if service != "" {
			tx.ServiceUsed = &service
		}
	}
}

// WithRelatedId links the history row to a media, payment or prompt id.
func WithRelatedId(id string) Option {
	return func(tx *entity.CreditTransaction) {
		if id != "" {
			tx.RelatedId = &id
		}
	}
}

func WithNotes(notes string) Option {
	return func(tx *entity.CreditTransaction) {
		if notes != "" {
			tx.Notes = &notes
		}
	}
}

type Ledger struct {
	repoFactory unitofwork.RepositoryFactory
	logger      logger.ILogger
}

func New(repoFactory unitofwork.RepositoryFactory, logger logger.ILogger) *Ledger {
	return &Ledger{
		repoFactory: repoFactory,
		logger:      logger,
	}
}

// Balance returns both balances, creating a zero-balance row on first sight of the user.
func (l *Ledger) Balance(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, errUnauthorized()
	}

	uow := l.repoFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().EnsureExists(ctx, userID); err != nil {
		return nil, l.storageFailure("ensure user", userID, err)
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUserId{UserId: userID})
	if err != nil {
		return nil, l.storageFailure("read balance", userID, err)
	}
	if user == nil {
		return nil, l.storageFailure("read balance", userID, fmt.Errorf("user row missing after insert"))
	}
	return user, nil
}

func (l *Ledger) CheckCredits(ctx context.Context, userID string, n int) (int, error) {
	return l.check(ctx, userID, entity.BalanceCredits, n)
}

func (l *Ledger) CheckPromptCredits(ctx context.Context, userID string, n int) (int, error) {
	return l.check(ctx, userID, entity.BalancePromptCredits, n)
}

// DeductCredits subtracts n and returns the remaining balance.
func (l *Ledger) DeductCredits(ctx context.Context, userID string, n int, opts ...Option) (int, error) {
	return l.deduct(ctx, userID, entity.BalanceCredits, n, opts...)
}

func (l *Ledger) DeductPromptCredits(ctx context.Context, userID string, n int, opts ...Option) (int, error) {
	return l.deduct(ctx, userID, entity.BalancePromptCredits, n, opts...)
}

// CheckAndDeductCredits is the single-call form of CheckCredits followed by DeductCredits.
// It runs as one conditional update, so there is no window between the check and the write.
func (l *Ledger) CheckAndDeductCredits(ctx context.Context, userID string, n int, opts ...Option) (int, error) {
	return l.deduct(ctx, userID, entity.BalanceCredits, n, opts...)
}

func (l *Ledger) CheckAndDeductPromptCredits(ctx context.Context, userID string, n int, opts ...Option) (int, error) {
	return l.deduct(ctx, userID, entity.BalancePromptCredits, n, opts...)
}

// AddCredits grants credits and/or prompt credits in one transaction.
// txType is CreditTransactionGrant or CreditTransactionRefund.
func (l *Ledger) AddCredits(ctx context.Context, userID string, credits, promptCredits int, txType entity.CreditTransactionType, opts ...Option) (*entity.User, error) {
	uow := l.repoFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, l.storageFailure("begin", userID, err)
	}
	defer uow.Rollback()

	user, err := l.AddCreditsTx(ctx, uow, userID, credits, promptCredits, txType, opts...)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, l.storageFailure("commit grant", userID, err)
	}
	return user, nil
}

// AddCreditsTx is AddCredits inside a caller-owned transaction. uow must already be begun.
func (l *Ledger) AddCreditsTx(ctx context.Context, uow unitofwork.UnitOfWork, userID string, credits, promptCredits int, txType entity.CreditTransactionType, opts ...Option) (*entity.User, error) {
	if userID == "" {
		return nil, errUnauthorized()
	}
	if credits < 0 || promptCredits < 0 || credits+promptCredits == 0 {
		return nil, errInvalidAmount(credits + promptCredits)
	}
	if txType == "" {
		txType = entity.CreditTransactionGrant
	}

	users := uow.UserRepository()
	if err := users.EnsureExists(ctx, userID); err != nil {
		return nil, l.storageFailure("ensure user", userID, err)
	}

	grants := []struct {
		kind   entity.BalanceKind
		amount int
	}{
		{entity.BalanceCredits, credits},
		{entity.BalancePromptCredits, promptCredits},
	}
	for _, g := range grants {
		if g.amount == 0 {
			continue
		}
		if err := users.Increment(ctx, userID, g.kind, g.amount); err != nil {
			return nil, l.storageFailure("increment", userID, err)
		}
	}

	user, err := users.FindOne(ctx, specification.ByUserId{UserId: userID})
	if err != nil {
		return nil, l.storageFailure("read balance", userID, err)
	}
	if user == nil {
		return nil, l.storageFailure("read balance", userID, fmt.Errorf("user row missing after grant"))
	}

	for _, g := range grants {
		if g.amount == 0 {
			continue
		}
		if err := l.record(ctx, uow, userID, txType, g.kind, g.amount, balanceOf(user, g.kind), opts); err != nil {
			return nil, err
		}
	}

	l.logger.Info(module, "Credits added", map[string]interface{}{
		"user_id":        userID,
		"credits":        credits,
		"prompt_credits": promptCredits,
		"type":           string(txType),
	})
	return user, nil
}

func (l *Ledger) check(ctx context.Context, userID string, kind entity.BalanceKind, n int) (int, error) {
	if userID == "" {
		return 0, errUnauthorized()
	}
	if n <= 0 {
		return 0, errInvalidAmount(n)
	}

	user, err := l.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}

	available := balanceOf(user, kind)
	if available < n {
		return available, &Error{Kind: KindInsufficientCredits, Balance: string(kind), Required: n, Available: available}
	}
	return available, nil
}

func (l *Ledger) deduct(ctx context.Context, userID string, kind entity.BalanceKind, n int, opts ...Option) (int, error) {
	if userID == "" {
		return 0, errUnauthorized()
	}
	if n <= 0 {
		return 0, errInvalidAmount(n)
	}

	uow := l.repoFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, l.storageFailure("begin", userID, err)
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	ok, err := users.DecrementIfSufficient(ctx, userID, kind, n)
	if err != nil {
		return 0, l.storageFailure("decrement", userID, err)
	}

	user, err := users.FindOne(ctx, specification.ByUserId{UserId: userID})
	if err != nil {
		return 0, l.storageFailure("read balance", userID, err)
	}

	if !ok {
		available := 0
		if user != nil {
			available = balanceOf(user, kind)
		}
		return available, &Error{Kind: KindInsufficientCredits, Balance: string(kind), Required: n, Available: available}
	}

	remaining := balanceOf(user, kind)
	if err := l.record(ctx, uow, userID, entity.CreditTransactionSpend, kind, -n, remaining, opts); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, l.storageFailure("commit deduction", userID, err)
	}

	l.logger.Debug(module, "Credits deducted", map[string]interface{}{
		"user_id":   userID,
		"kind":      string(kind),
		"amount":    n,
		"remaining": remaining,
	})
	return remaining, nil
}

func (l *Ledger) record(ctx context.Context, uow unitofwork.UnitOfWork, userID string, txType entity.CreditTransactionType, kind entity.BalanceKind, amount, balanceAfter int, opts []Option) error {
	tx := &entity.CreditTransaction{
		UserId:          userID,
		TransactionType: txType,
		BalanceKind:     kind,
		Amount:          amount,
		BalanceAfter:    balanceAfter,
	}
	for _, opt := range opts {
		opt(tx)
	}
	if err := uow.CreditTransactionRepository().Create(ctx, tx); err != nil {
		return l.storageFailure("record transaction", userID, err)
	}
	return nil
}

func (l *Ledger) storageFailure(op, userID string, err error) error {
	l.logger.Error(module, "Ledger storage failure", map[string]interface{}{
		"op":      op,
		"user_id": userID,
		"error":   err.Error(),
	})
	return errStorage(op, err)
}

func balanceOf(user *entity.User, kind entity.BalanceKind) int {
	if kind == entity.BalancePromptCredits {
		return user.PromptWizardCredits
	}
	return user.Credits
}
