// FILE: internal/service/prompt_service.go
package service

import (
	"context"
	"strings"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/serverutils"
	internalWS "ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/llm"
)

const (
	promptModule      = "PROMPT_WIZARD"
	promptWizardCost  = 1
	promptWizardName  = "prompt-wizard"
	promptSystemIntro = `You rewrite short ideas into detailed prompts for image and video generation models.
Describe subject, setting, lighting, composition, camera and mood in one paragraph.
Keep the user's intent. Do not add text overlays or watermarks. Reply with the prompt only.`
)

type IPromptService interface {
	Enhance(ctx context.Context, userId string, req *dto.PromptWizardRequest) (*dto.PromptWizardResponse, error)
}

type promptService struct {
	ledger   *ledger.Ledger
	llm      llm.LLMProvider
	notifier Notifier
	logger   logger.ILogger
}

func NewPromptService(ledger *ledger.Ledger, provider llm.LLMProvider, notifier Notifier, logger logger.ILogger) IPromptService {
	return &promptService{
		ledger:   ledger,
		llm:      provider,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
	}
}

// Enhance charges up front and refunds when the model call fails.
func (s *promptService) Enhance(ctx context.Context, userId string, req *dto.PromptWizardRequest) (*dto.PromptWizardResponse, error) {
	remaining, err := s.ledger.CheckAndDeductPromptCredits(ctx, userId, promptWizardCost,
		ledger.WithService(promptWizardName),
	)
	if err != nil {
		return nil, err
	}

	userMsg := strings.TrimSpace(req.Prompt)
	if req.Style != "" {
		userMsg += "\nStyle: " + req.Style
	}

	enhanced, err := s.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: promptSystemIntro},
		{Role: "user", Content: userMsg},
	}, llm.WithTemperature(0.8), llm.WithMaxTokens(400))
	if err == nil && strings.TrimSpace(enhanced) == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		s.logger.Error(promptModule, "LLM call failed, refunding", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		s.refund(ctx, userId)
		return nil, &serverutils.AppError{
			Status:  502,
			Code:    "PROMPT_WIZARD_FAILED",
			Message: "Prompt enhancement failed. Your prompt credit was refunded.",
			Err:     err,
		}
	}

	s.notifier.Send(userId, internalWS.EventCreditsUpdated, map[string]interface{}{"prompt_wizard_credits": remaining})

	return &dto.PromptWizardResponse{
		Original:               req.Prompt,
		Enhanced:               strings.Trim(strings.TrimSpace(enhanced), `"`),
		PromptCreditsDeducted:  promptWizardCost,
		RemainingPromptCredits: remaining,
	}, nil
}

func (s *promptService) refund(ctx context.Context, userId string) {
	// detached so a cancelled request still gets its credit back
	_, err := s.ledger.AddCredits(context.WithoutCancel(ctx), userId, 0, promptWizardCost,
		entity.CreditTransactionRefund,
		ledger.WithService(promptWizardName),
		ledger.WithNotes("llm failure"),
	)
	if err != nil {
		s.logger.Error(promptModule, "Refund failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}
