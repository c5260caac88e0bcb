// FILE: internal/service/credit_service.go
package service

import (
	"context"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/pkg/ledger"
)

type ICreditService interface {
	GetBalance(ctx context.Context, userId string) (*dto.BalanceResponse, error)
	ListTransactions(ctx context.Context, userId string, query dto.PageQuery) (*serverutils.PagedData[dto.CreditTransactionResponse], error)
}

type creditService struct {
	ledger     *ledger.Ledger
	uowFactory unitofwork.RepositoryFactory
}

func NewCreditService(ledger *ledger.Ledger, uowFactory unitofwork.RepositoryFactory) ICreditService {
	return &creditService{ledger: ledger, uowFactory: uowFactory}
}

func (s *creditService) GetBalance(ctx context.Context, userId string) (*dto.BalanceResponse, error) {
	user, err := s.ledger.Balance(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		UserId:              user.UserId,
		Credits:             user.Credits,
		PromptWizardCredits: user.PromptWizardCredits,
	}, nil
}

func (s *creditService) ListTransactions(ctx context.Context, userId string, query dto.PageQuery) (*serverutils.PagedData[dto.CreditTransactionResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	page := specification.NewPagination(query.Page, query.Limit)
	byUser := specification.ByUserId{UserId: userId}

	total, err := uow.CreditTransactionRepository().Count(ctx, byUser)
	if err != nil {
		return nil, err
	}

	txs, err := uow.CreditTransactionRepository().FindAll(ctx,
		byUser,
		specification.OrderBy{Field: "created_at", Desc: true},
		page,
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CreditTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toTransactionResponse(tx))
	}

	return &serverutils.PagedData[dto.CreditTransactionResponse]{
		Items: items,
		Total: total,
		Page:  page.Offset/page.Limit + 1,
		Limit: page.Limit,
	}, nil
}

func toTransactionResponse(tx *entity.CreditTransaction) dto.CreditTransactionResponse {
	res := dto.CreditTransactionResponse{
		Id:           tx.Id,
		Type:         string(tx.TransactionType),
		BalanceKind:  string(tx.BalanceKind),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		CreatedAt:    tx.CreatedAt,
	}
	if tx.ServiceUsed != nil {
		res.ServiceUsed = *tx.ServiceUsed
	}
	if tx.RelatedId != nil {
		res.RelatedId = *tx.RelatedId
	}
	if tx.Notes != nil {
		res.Notes = *tx.Notes
	}
	return res
}
