package repository

import (
	"context"
	"time"

	"github.com/gestio-app/gestio/internal/model"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gestio-app/gestio/pkg/logger"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a new session row.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	ctx = ctxutil.WithScope(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(session)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create session").
			Uint("user_id", session.UserID).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Session created").
		Uint("session_id", session.ID).
		Uint("user_id", session.UserID).
		Log()

	return nil
}

// FindActive resolves an opaque session token to its session, rejecting
// expired ones in the query itself. A row with a null expiration date never
// expires. The owning user is preloaded so callers get identity in one
// round trip.
func (r *SessionRepository) FindActive(ctx context.Context, token string) (*model.Session, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "FindActive")

	var session model.Session
	result := r.db.WithContext(ctx).
		Preload("User").
		Where("token = ? AND (expiration_date IS NULL OR expiration_date > ?)", token, time.Now().UTC()).
		First(&session)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Active session lookup failed").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &session, nil
}

// Extend pushes the session expiration out to now plus the renewal window,
// implementing the sliding lifetime. Every authenticated use of the session
// calls this.
func (r *SessionRepository) Extend(ctx context.Context, id uint, renewal time.Duration) error {
	ctx = ctxutil.WithScope(ctx, "repository", "Extend")

	newExpiry := time.Now().UTC().Add(renewal)
	result := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", id).
		Update("expiration_date", newExpiry)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to extend session").
			Uint("session_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Session extended").
		Uint("session_id", id).
		Time("expiration_date", newExpiry).
		Log()

	return nil
}

// Delete removes a session, ending it immediately.
func (r *SessionRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithScope(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Delete(&model.Session{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete session").
			Uint("session_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// DeleteExpired purges sessions whose expiration date has passed. Intended
// for periodic housekeeping.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "DeleteExpired")

	result := r.db.WithContext(ctx).
		Where("expiration_date IS NOT NULL AND expiration_date <= ?", time.Now().UTC()).
		Delete(&model.Session{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to purge expired sessions").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired sessions purged").
			Int64("count", result.RowsAffected).
			Log()
	}

	return result.RowsAffected, nil
}
