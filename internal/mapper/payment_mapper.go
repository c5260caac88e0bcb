package mapper

import (
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:            p.Id,
		Provider:      entity.PaymentProvider(p.Provider),
		SessionId:     p.SessionId,
		UserId:        p.UserId,
		CustomerEmail: p.CustomerEmail,
		PackId:        p.PackId,
		PurchaseType:  p.PurchaseType,
		Credits:       p.Credits,
		PromptCredits: p.PromptCredits,
		AmountTotal:   p.AmountTotal,
		Currency:      p.Currency,
		Status:        entity.PaymentStatus(p.Status),
		Payload:       []byte(p.Payload),
		CreatedAt:     p.CreatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:            p.Id,
		Provider:      string(p.Provider),
		SessionId:     p.SessionId,
		UserId:        p.UserId,
		CustomerEmail: p.CustomerEmail,
		PackId:        p.PackId,
		PurchaseType:  p.PurchaseType,
		Credits:       p.Credits,
		PromptCredits: p.PromptCredits,
		AmountTotal:   p.AmountTotal,
		Currency:      p.Currency,
		Status:        string(p.Status),
		Payload:       datatypes.JSON(p.Payload),
		CreatedAt:     p.CreatedAt,
	}
}
