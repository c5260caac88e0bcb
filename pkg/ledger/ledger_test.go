package ledger_test

import (
	"context"
	"sync"
	"testing"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/model"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/internal/testutil"
	"ai-studio-be/pkg/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLedger(t *testing.T) (*ledger.Ledger, *gorm.DB) {
	db := testutil.NewTestDB(t)
	return ledger.New(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger()), db
}

func TestDeductCredits_RepeatedUntilInsufficient(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "user_1", 7, 0)

	var successes int
	var lastErr error
	for i := 0; i < 10; i++ {
		remaining, err := l.DeductCredits(ctx, "user_1", 3)
		if err != nil {
			lastErr = err
			break
		}
		successes++
		assert.GreaterOrEqual(t, remaining, 0)
	}

	assert.Equal(t, 2, successes)
	require.Error(t, lastErr)
	assert.True(t, ledger.IsInsufficient(lastErr))

	var le *ledger.Error
	require.ErrorAs(t, lastErr, &le)
	assert.Equal(t, 3, le.Required)
	assert.Equal(t, 1, le.Available)

	user, err := l.Balance(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.Credits)
}

func TestCheckThenDeduct(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "user_1", 5, 0)

	available, err := l.CheckCredits(ctx, "user_1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, available)

	remaining, err := l.DeductCredits(ctx, "user_1", 5, ledger.WithService("tools/ai-image-generator"))
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = l.CheckCredits(ctx, "user_1", 1)
	assert.True(t, ledger.IsInsufficient(err))
}

func TestCheckCredits_DoesNotMutate(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "user_1", 2, 0)

	for i := 0; i < 3; i++ {
		_, _ = l.CheckCredits(ctx, "user_1", 1)
		_, _ = l.CheckCredits(ctx, "user_1", 10)
	}

	user, err := l.Balance(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 2, user.Credits)

	var history int64
	require.NoError(t, db.Model(&model.CreditTransaction{}).Count(&history).Error)
	assert.Zero(t, history)
}

func TestCheckCredits_CreatesMissingUser(t *testing.T) {
	l, db := newLedger(t)

	available, err := l.CheckCredits(context.Background(), "new_user", 1)
	assert.True(t, ledger.IsInsufficient(err))
	assert.Equal(t, 0, available)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("user_id = ?", "new_user").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeductCredits_MissingUserReportsZero(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.DeductCredits(context.Background(), "ghost", 1)
	var le *ledger.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ledger.KindInsufficientCredits, le.Kind)
	assert.Equal(t, 0, le.Available)
}

func TestDeductCredits_ConcurrentSingleWinner(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "user_1", 4, 0)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.DeductCredits(ctx, "user_1", 4)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if ledger.IsInsufficient(err) {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, failures)

	user, err := l.Balance(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.Credits)
}

func TestLedger_RejectsBadInput(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		kind ledger.Kind
	}{
		{"check without user", func() error { _, err := l.CheckCredits(ctx, "", 1); return err }, ledger.KindUnauthorized},
		{"deduct without user", func() error { _, err := l.DeductCredits(ctx, "", 1); return err }, ledger.KindUnauthorized},
		{"prompt deduct without user", func() error { _, err := l.CheckAndDeductPromptCredits(ctx, "", 1); return err }, ledger.KindUnauthorized},
		{"zero deduct", func() error { _, err := l.DeductCredits(ctx, "user_1", 0); return err }, ledger.KindInvalidAmount},
		{"negative check", func() error { _, err := l.CheckCredits(ctx, "user_1", -2); return err }, ledger.KindInvalidAmount},
		{"empty grant", func() error {
			_, err := l.AddCredits(ctx, "user_1", 0, 0, entity.CreditTransactionGrant)
			return err
		}, ledger.KindInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ledger.KindOf(tt.call()))
		})
	}
}

func TestPromptCredits_IndependentOfCredits(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()
	testutil.SeedUser(t, db, "user_1", 10, 1)

	remaining, err := l.CheckAndDeductPromptCredits(ctx, "user_1", 1, ledger.WithService("prompt-wizard"))
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = l.CheckAndDeductPromptCredits(ctx, "user_1", 1)
	assert.True(t, ledger.IsInsufficient(err))

	user, err := l.Balance(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 10, user.Credits)
	assert.Equal(t, 0, user.PromptWizardCredits)
}

func TestAddCredits_GrantsAndRecordsHistory(t *testing.T) {
	l, db := newLedger(t)
	ctx := context.Background()

	user, err := l.AddCredits(ctx, "buyer", 50, 10, entity.CreditTransactionGrant,
		ledger.WithService("stripe"), ledger.WithRelatedId("cs_test_1"))
	require.NoError(t, err)
	assert.Equal(t, 50, user.Credits)
	assert.Equal(t, 10, user.PromptWizardCredits)

	_, err = l.DeductCredits(ctx, "buyer", 5)
	require.NoError(t, err)

	var rows []model.CreditTransaction
	require.NoError(t, db.Order("created_at asc").Find(&rows).Error)
	require.Len(t, rows, 3)

	byKind := map[string]model.CreditTransaction{}
	for _, r := range rows {
		byKind[r.TransactionType+"/"+r.BalanceKind] = r
	}
	assert.Equal(t, 50, byKind["grant/credits"].Amount)
	assert.Equal(t, 10, byKind["grant/prompt_credits"].Amount)
	require.NotNil(t, byKind["grant/credits"].RelatedId)
	assert.Equal(t, "cs_test_1", *byKind["grant/credits"].RelatedId)
	assert.Equal(t, -5, byKind["spend/credits"].Amount)
	assert.Equal(t, 45, byKind["spend/credits"].BalanceAfter)
}
