package model

import "time"

// Session is an active authenticated login, keyed externally by its opaque
// token. It holds a non-owning reference to its User. A session is active
// iff ExpirationDate is null or in the future; expiry is the only teardown.
type Session struct {
	ID             uint       `gorm:"primaryKey"`
	Token          string     `gorm:"column:token;unique;not null"`
	UserAgent      string     `gorm:"column:user_agent;not null"`
	UserID         uint       `gorm:"column:user_id;not null"`
	User           User       `gorm:"foreignKey:UserID"`
	ExpirationDate *time.Time `gorm:"column:expiration_date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active reports whether the session is usable at instant now.
func (s *Session) Active(now time.Time) bool {
	return s.ExpirationDate == nil || s.ExpirationDate.After(now)
}
