package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByUserId filters by the external identity id. Works for every table keyed by user_id.
type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// UserIdOrEmailLike is a case-insensitive substring search used by the admin panel.
type UserIdOrEmailLike struct {
	Query string
}

func (s UserIdOrEmailLike) Apply(db *gorm.DB) *gorm.DB {
	if strings.TrimSpace(s.Query) == "" {
		return db
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(s.Query)) + "%"
	return db.Where("LOWER(user_id) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
}
