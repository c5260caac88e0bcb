// FILE: internal/service/generation_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-studio-be/internal/constant"
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/unitofwork"
	internalWS "ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/events"
	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/modelcatalog"
	"ai-studio-be/pkg/provider"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	generationModule = "GENERATION"

	defaultProviderTimeout = 5 * time.Minute
)

// ModelResolver picks the model identifier for a tool slug.
type ModelResolver interface {
	Resolve(ctx context.Context, slug string, threshold int, fallback string) modelcatalog.Resolution
}

// MediaGeneratedMessage is published on the media topic after a result is stored.
type MediaGeneratedMessage struct {
	MediaId     uuid.UUID        `json:"media_id"`
	UserId      string           `json:"user_id"`
	ProviderUrl string           `json:"provider_url"`
	Kind        entity.MediaKind `json:"kind"`
}

type IGenerationService interface {
	ListTools() []dto.ToolResponse
	Generate(ctx context.Context, userId, slug string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type generationService struct {
	ledger     *ledger.Ledger
	resolver   ModelResolver
	runner     provider.Runner
	uowFactory unitofwork.RepositoryFactory
	publisher  message.Publisher
	mediaTopic string
	events     events.Publisher
	notifier   Notifier
	logger     logger.ILogger

	providerTimeout time.Duration
}

type GenerationServiceOption func(*generationService)

// WithProviderTimeout bounds one model run, including polling for an async result.
func WithProviderTimeout(d time.Duration) GenerationServiceOption {
	return func(s *generationService) {
		if d > 0 {
			s.providerTimeout = d
		}
	}
}

func NewGenerationService(
	ledger *ledger.Ledger,
	resolver ModelResolver,
	runner provider.Runner,
	uowFactory unitofwork.RepositoryFactory,
	publisher message.Publisher,
	mediaTopic string,
	eventPublisher events.Publisher,
	notifier Notifier,
	logger logger.ILogger,
	opts ...GenerationServiceOption,
) IGenerationService {
	s := &generationService{
		ledger:     ledger,
		resolver:   resolver,
		runner:     runner,
		uowFactory: uowFactory,
		publisher:  publisher,
		mediaTopic: mediaTopic,
		events:     eventPublisher,
		notifier:   notifierOrNoop(notifier),
		logger:     logger,

		providerTimeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *generationService) ListTools() []dto.ToolResponse {
	tools := constant.Tools()
	res := make([]dto.ToolResponse, 0, len(tools))
	for _, t := range tools {
		res = append(res, dto.ToolResponse{
			Slug:          t.Slug,
			Name:          t.Name,
			Description:   t.Description,
			Kind:          string(t.Kind),
			Cost:          t.Cost,
			RequiredInput: t.Required,
		})
	}
	return res
}

// Generate charges only after the provider produced a usable URL.
func (s *generationService) Generate(ctx context.Context, userId, slug string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	tool, ok := constant.FindTool(slug)
	if !ok {
		return nil, serverutils.NotFound(fmt.Sprintf("Unknown tool %q", slug))
	}
	if missing := tool.MissingFields(req); len(missing) > 0 {
		appErr := serverutils.BadRequest(strings.Join(missing, ", ") + " required")
		appErr.Details = map[string]interface{}{"missing": missing}
		return nil, appErr
	}

	if _, err := s.ledger.CheckCredits(ctx, userId, tool.Cost); err != nil {
		return nil, err
	}

	res := s.resolver.Resolve(ctx, "tools/"+tool.Slug, tool.MinConfidence, tool.Fallback)
	input := tool.BuildInput(req)

	s.logger.Info(generationModule, "Running model", map[string]interface{}{
		"user_id":    userId,
		"tool":       tool.Slug,
		"model":      res.Identifier,
		"source":     string(res.Source),
		"confidence": res.Confidence,
	})

	resultUrl, err := s.run(ctx, res.Identifier, input)
	if err != nil {
		s.logger.Error(generationModule, "Provider call failed", map[string]interface{}{
			"tool":  tool.Slug,
			"model": res.Identifier,
			"error": err.Error(),
		})
		return nil, wrapProviderError(err)
	}

	mediaId := uuid.New()
	remaining, err := s.ledger.DeductCredits(ctx, userId, tool.Cost,
		ledger.WithService("tools/"+tool.Slug),
		ledger.WithRelatedId(mediaId.String()),
	)
	if err != nil {
		return nil, err
	}

	persisted := s.persistMedia(ctx, &entity.Media{
		Id:          mediaId,
		UserId:      userId,
		Url:         resultUrl,
		ProviderUrl: resultUrl,
		Prompt:      optionalString(req.Prompt),
		Source:      tool.Slug,
		Model:       res.Identifier,
		Kind:        tool.Kind,
		Parameters:  input,
	})

	if persisted {
		s.publishMedia(MediaGeneratedMessage{MediaId: mediaId, UserId: userId, ProviderUrl: resultUrl, Kind: tool.Kind})
	}

	if err := s.events.Publish(ctx, events.New(events.GenerationCompleted, map[string]interface{}{
		"user_id":          userId,
		"tool":             tool.Slug,
		"model":            res.Identifier,
		"credits_deducted": tool.Cost,
	})); err != nil {
		s.logger.Warn(generationModule, "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	s.notifier.Send(userId, internalWS.EventCreditsUpdated, map[string]interface{}{"credits": remaining})

	response := &dto.GenerateResponse{
		ResultUrl:        resultUrl,
		Prompt:           req.Prompt,
		Model:            res.Identifier,
		CreditsDeducted:  tool.Cost,
		RemainingCredits: remaining,
	}
	if persisted {
		response.MediaId = mediaId.String()
	}
	return response, nil
}

// run calls the model and resolves its output to a URL under one deadline.
func (s *generationService) run(ctx context.Context, identifier string, input map[string]interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	out, err := s.runner.Run(ctx, identifier, input)
	if err != nil {
		return "", err
	}
	return provider.Normalize(ctx, out)
}

// persistMedia never fails the request; the user already paid for a valid result.
func (s *generationService) persistMedia(ctx context.Context, media *entity.Media) bool {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MediaRepository().Create(ctx, media); err != nil {
		s.logger.Error(generationModule, "Failed to save media", map[string]interface{}{
			"media_id": media.Id.String(),
			"user_id":  media.UserId,
			"error":    err.Error(),
		})
		return false
	}
	return true
}

func (s *generationService) publishMedia(payload MediaGeneratedMessage) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.publisher.Publish(s.mediaTopic, msg); err != nil {
		s.logger.Warn(generationModule, "Failed to queue media rehost", map[string]interface{}{
			"media_id": payload.MediaId.String(),
			"error":    err.Error(),
		})
	}
}

func wrapProviderError(err error) error {
	var perr *provider.Error
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &serverutils.AppError{Status: 504, Code: "PROVIDER_TIMEOUT", Message: "The AI provider took too long to respond.", Err: err}
	}
	return &serverutils.AppError{Status: 502, Code: "PROVIDER_ERROR", Message: "The AI provider failed to generate a result.", Err: err}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
