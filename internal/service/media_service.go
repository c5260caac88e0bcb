// FILE: internal/service/media_service.go
package service

import (
	"context"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IMediaService interface {
	List(ctx context.Context, userId string, query dto.MediaListQuery) (*serverutils.PagedData[dto.MediaResponse], error)
	Get(ctx context.Context, userId string, id uuid.UUID) (*dto.MediaResponse, error)
}

type mediaService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMediaService(uowFactory unitofwork.RepositoryFactory) IMediaService {
	return &mediaService{uowFactory: uowFactory}
}

func (s *mediaService) List(ctx context.Context, userId string, query dto.MediaListQuery) (*serverutils.PagedData[dto.MediaResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	page := specification.NewPagination(query.Page, query.Limit)

	filters := []specification.Specification{
		specification.ByUserId{UserId: userId},
		specification.ByMediaKind{Kind: query.Kind},
		specification.BySource{Source: query.Source},
	}

	total, err := uow.MediaRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	items, err := uow.MediaRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		page,
	)...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.MediaResponse, 0, len(items))
	for _, m := range items {
		res = append(res, toMediaResponse(m))
	}

	return &serverutils.PagedData[dto.MediaResponse]{
		Items: res,
		Total: total,
		Page:  page.Offset/page.Limit + 1,
		Limit: page.Limit,
	}, nil
}

// Get hides other users' media behind a 404.
func (s *mediaService) Get(ctx context.Context, userId string, id uuid.UUID) (*dto.MediaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	media, err := uow.MediaRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, serverutils.NotFound("Media not found")
	}
	res := toMediaResponse(media)
	return &res, nil
}

func toMediaResponse(m *entity.Media) dto.MediaResponse {
	res := dto.MediaResponse{
		Id:         m.Id,
		Url:        m.Url,
		Source:     m.Source,
		Model:      m.Model,
		Kind:       string(m.Kind),
		Parameters: m.Parameters,
		CreatedAt:  m.CreatedAt,
	}
	if m.Prompt != nil {
		res.Prompt = *m.Prompt
	}
	return res
}
