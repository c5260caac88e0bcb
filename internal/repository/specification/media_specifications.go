package specification

import "gorm.io/gorm"

type ByMediaKind struct {
	Kind string
}

func (s ByMediaKind) Apply(db *gorm.DB) *gorm.DB {
	if s.Kind == "" {
		return db
	}
	return db.Where("kind = ?", s.Kind)
}

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	if s.Source == "" {
		return db
	}
	return db.Where("source = ?", s.Source)
}
