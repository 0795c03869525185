package service

import (
	"context"
	"time"

	"github.com/gestio-app/gestio/internal/model"
)

// UserStore is the persistence surface the services need for accounts.
// *repository.UserRepository satisfies it; tests substitute mocks.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) error
	ConsumeResetToken(ctx context.Context, token, newPasswordHash string) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	Delete(ctx context.Context, id uint) error
	GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error)
}

// SessionStore is the persistence surface for opaque-token sessions.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	FindActive(ctx context.Context, token string) (*model.Session, error)
	Extend(ctx context.Context, id uint, renewal time.Duration) error
	Delete(ctx context.Context, id uint) error
}
