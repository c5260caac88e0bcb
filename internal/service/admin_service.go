// FILE: internal/service/admin_service.go
package service

import (
	"context"

	"ai-studio-be/internal/constant"
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	internalWS "ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/events"
	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/modelcatalog"
)

const adminModule = "ADMIN"

// CatalogAdmin is the part of the resolver admins can drive.
type CatalogAdmin interface {
	ModelResolver
	Refresh(ctx context.Context) (*modelcatalog.Catalog, error)
}

type IAdminService interface {
	ListUsers(ctx context.Context, query dto.AdminUserQuery) (*serverutils.PagedData[dto.AdminUserResponse], error)
	GrantCredits(ctx context.Context, adminId, userId string, req *dto.GrantCreditsRequest) (*dto.BalanceResponse, error)
	RefreshCatalog(ctx context.Context) (*dto.CatalogRefreshResponse, error)
	ResolveSlug(ctx context.Context, slug string) (*dto.ResolveResponse, error)
	GetLogs(level string, page, limit int) ([]dto.LogListResponse, error)
	GetLogById(id string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	ledger     *ledger.Ledger
	catalog    CatalogAdmin
	events     events.Publisher
	notifier   Notifier
	logger     logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	ledger *ledger.Ledger,
	catalog CatalogAdmin,
	eventPublisher events.Publisher,
	notifier Notifier,
	logger logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		ledger:     ledger,
		catalog:    catalog,
		events:     eventPublisher,
		notifier:   notifierOrNoop(notifier),
		logger:     logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context, query dto.AdminUserQuery) (*serverutils.PagedData[dto.AdminUserResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	page := specification.NewPagination(query.Page, query.Limit)
	search := specification.UserIdOrEmailLike{Query: query.Q}

	total, err := uow.UserRepository().Count(ctx, search)
	if err != nil {
		return nil, err
	}
	users, err := uow.UserRepository().FindAll(ctx,
		search,
		specification.OrderBy{Field: "created_at", Desc: true},
		page,
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		item := dto.AdminUserResponse{
			UserId:              u.UserId,
			Credits:             u.Credits,
			PromptWizardCredits: u.PromptWizardCredits,
			CreatedAt:           u.CreatedAt,
		}
		if u.Email != nil {
			item.Email = *u.Email
		}
		items = append(items, item)
	}

	return &serverutils.PagedData[dto.AdminUserResponse]{
		Items: items,
		Total: total,
		Page:  page.Offset/page.Limit + 1,
		Limit: page.Limit,
	}, nil
}

func (s *adminService) GrantCredits(ctx context.Context, adminId, userId string, req *dto.GrantCreditsRequest) (*dto.BalanceResponse, error) {
	opts := []ledger.Option{ledger.WithService("admin"), ledger.WithRelatedId(adminId)}
	if req.Reason != "" {
		opts = append(opts, ledger.WithNotes(req.Reason))
	}

	user, err := s.ledger.AddCredits(ctx, userId, req.Credits, req.PromptCredits, entity.CreditTransactionGrant, opts...)
	if err != nil {
		return nil, err
	}

	s.logger.Info(adminModule, "Credits granted", map[string]interface{}{
		"admin_id":       adminId,
		"user_id":        userId,
		"credits":        req.Credits,
		"prompt_credits": req.PromptCredits,
		"reason":         req.Reason,
	})

	if err := s.events.Publish(ctx, events.New(events.CreditsGranted, map[string]interface{}{
		"admin_id":       adminId,
		"user_id":        userId,
		"credits":        req.Credits,
		"prompt_credits": req.PromptCredits,
	})); err != nil {
		s.logger.Warn(adminModule, "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}

	s.notifier.Send(userId, internalWS.EventCreditsUpdated, map[string]interface{}{
		"credits":               user.Credits,
		"prompt_wizard_credits": user.PromptWizardCredits,
	})

	return &dto.BalanceResponse{
		UserId:              user.UserId,
		Credits:             user.Credits,
		PromptWizardCredits: user.PromptWizardCredits,
	}, nil
}

func (s *adminService) RefreshCatalog(ctx context.Context) (*dto.CatalogRefreshResponse, error) {
	cat, err := s.catalog.Refresh(ctx)
	if err != nil {
		s.logger.Error(adminModule, "Catalog refresh failed", map[string]interface{}{"error": err.Error()})
		appErr := &serverutils.AppError{Status: 502, Code: "CATALOG_REFRESH_FAILED", Message: "Model catalog refresh failed", Err: err}
		if cat != nil {
			appErr.Message = "Model catalog refresh failed, still serving the previous snapshot"
			appErr.Details = dto.CatalogRefreshResponse{Models: len(cat.Models), RefreshedAt: cat.RefreshedAt}
		}
		return nil, appErr
	}
	return &dto.CatalogRefreshResponse{Models: len(cat.Models), RefreshedAt: cat.RefreshedAt}, nil
}

// ResolveSlug uses the tool's own threshold and fallback when the slug is a known tool.
func (s *adminService) ResolveSlug(ctx context.Context, slug string) (*dto.ResolveResponse, error) {
	if slug == "" {
		return nil, serverutils.BadRequest("slug is required")
	}
	threshold, fallback := 30, ""
	if tool, ok := constant.FindTool(slug); ok {
		threshold, fallback = tool.MinConfidence, tool.Fallback
		slug = "tools/" + tool.Slug
	}
	res := s.catalog.Resolve(ctx, slug, threshold, fallback)
	return &dto.ResolveResponse{
		Slug:       res.Slug,
		Identifier: res.Identifier,
		Confidence: res.Confidence,
		Source:     string(res.Source),
	}, nil
}

func (s *adminService) GetLogs(level string, page, limit int) ([]dto.LogListResponse, error) {
	p := specification.NewPagination(page, limit)
	entries, err := s.logger.GetLogs(level, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	res := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	return res, nil
}

func (s *adminService) GetLogById(id string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(id)
	if err != nil {
		return nil, serverutils.NotFound("Log entry not found")
	}
	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		},
		Details: entry.Details,
	}, nil
}
