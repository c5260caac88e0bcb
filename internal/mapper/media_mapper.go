package mapper

import (
	"encoding/json"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/model"

	"gorm.io/datatypes"
)

type MediaMapper struct{}

func NewMediaMapper() *MediaMapper {
	return &MediaMapper{}
}

func (m *MediaMapper) ToEntity(md *model.Media) *entity.Media {
	if md == nil {
		return nil
	}
	var params map[string]interface{}
	if len(md.Parameters) > 0 {
		// Parameters are written by ToModel; a decode failure leaves them empty.
		_ = json.Unmarshal(md.Parameters, &params)
	}
	return &entity.Media{
		Id:          md.Id,
		UserId:      md.UserId,
		Url:         md.Url,
		ProviderUrl: md.ProviderUrl,
		Prompt:      md.Prompt,
		Source:      md.Source,
		Model:       md.Model,
		Kind:        entity.MediaKind(md.Kind),
		Parameters:  params,
		CreatedAt:   md.CreatedAt,
		UpdatedAt:   md.UpdatedAt,
	}
}

func (m *MediaMapper) ToModel(e *entity.Media) *model.Media {
	if e == nil {
		return nil
	}
	var params datatypes.JSON
	if e.Parameters != nil {
		if raw, err := json.Marshal(e.Parameters); err == nil {
			params = datatypes.JSON(raw)
		}
	}
	return &model.Media{
		Id:          e.Id,
		UserId:      e.UserId,
		Url:         e.Url,
		ProviderUrl: e.ProviderUrl,
		Prompt:      e.Prompt,
		Source:      e.Source,
		Model:       e.Model,
		Kind:        string(e.Kind),
		Parameters:  params,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *MediaMapper) ToEntities(items []*model.Media) []*entity.Media {
	entities := make([]*entity.Media, len(items))
	for i, md := range items {
		entities[i] = m.ToEntity(md)
	}
	return entities
}
