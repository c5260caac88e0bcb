package service_test

import (
	"context"
	"net/http"
	"testing"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/service"
	"ai-studio-be/internal/testutil"
	"ai-studio-be/pkg/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptWizard_ChargesOnePromptCredit(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUser(t, e.db, "user_1", 5, 3)
	svc := service.NewPromptService(e.ledger, stubLLM{reply: `"A ginger cat on a windowsill, golden hour"`}, e.pushes, logger.NewNopLogger())

	res, err := svc.Enhance(context.Background(), "user_1", &dto.PromptWizardRequest{Prompt: "a cat"})
	require.NoError(t, err)
	assert.Equal(t, "A ginger cat on a windowsill, golden hour", res.Enhanced)
	assert.Equal(t, 1, res.PromptCreditsDeducted)
	assert.Equal(t, 2, res.RemainingPromptCredits)

	user, err := e.ledger.Balance(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, 5, user.Credits)
	assert.Equal(t, 2, user.PromptWizardCredits)
}

func TestPromptWizard_RefundsOnLLMFailure(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUser(t, e.db, "user_1", 0, 1)
	svc := service.NewPromptService(e.ledger, stubLLM{err: errBoom}, e.pushes, logger.NewNopLogger())
	ctx := context.Background()

	_, err := svc.Enhance(ctx, "user_1", &dto.PromptWizardRequest{Prompt: "a cat"})
	require.Error(t, err)
	status, _, _ := serverutils.Describe(err)
	assert.Equal(t, http.StatusBadGateway, status)

	user, err := e.ledger.Balance(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.PromptWizardCredits)

	txs, err := e.factory.NewUnitOfWork(ctx).CreditTransactionRepository().FindAll(ctx,
		specification.ByUserId{UserId: "user_1"},
		specification.OrderBy{Field: "created_at"},
	)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	var kinds []entity.CreditTransactionType
	for _, tx := range txs {
		kinds = append(kinds, tx.TransactionType)
	}
	assert.ElementsMatch(t, []entity.CreditTransactionType{entity.CreditTransactionSpend, entity.CreditTransactionRefund}, kinds)
}

func TestPromptWizard_EmptyCompletionRefunds(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUser(t, e.db, "user_1", 0, 1)
	svc := service.NewPromptService(e.ledger, stubLLM{reply: "   "}, e.pushes, logger.NewNopLogger())

	_, err := svc.Enhance(context.Background(), "user_1", &dto.PromptWizardRequest{Prompt: "a cat"})
	require.Error(t, err)

	user, err := e.ledger.Balance(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.PromptWizardCredits)
}

func TestPromptWizard_NoCredits(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUser(t, e.db, "user_1", 10, 0)
	svc := service.NewPromptService(e.ledger, stubLLM{reply: "never"}, e.pushes, logger.NewNopLogger())

	_, err := svc.Enhance(context.Background(), "user_1", &dto.PromptWizardRequest{Prompt: "a cat"})
	require.Error(t, err)
	assert.True(t, ledger.IsInsufficient(err))
}
