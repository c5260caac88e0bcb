package specification

import "gorm.io/gorm"

type ByProviderSession struct {
	Provider  string
	SessionId string
}

func (s ByProviderSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider = ? AND session_id = ?", s.Provider, s.SessionId)
}
