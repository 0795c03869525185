package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gestio-app/gestio/internal/model"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gestio-app/gestio/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation,
// used to surface duplicate email/tel inserts as conflicts.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row. Duplicate email or tel surfaces as a
// unique violation the service layer maps to a conflict.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithScope(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "GetByID")

	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by ID failed").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds a user by exact, case-sensitive email match. This is the
// only lookup that callers may use for login-credential comparison: the row
// includes the password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "GetByEmail")

	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by email failed").
			String("email", email).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByVerificationToken matches only on a non-null stored verification
// token.
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "GetByVerificationToken")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("email_verification_token = ?", token).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Verification token lookup failed").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByResetToken matches only on a non-null stored reset token.
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "GetByResetToken")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("reset_password_token = ?", token).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Reset token lookup failed").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// Update applies a partial update; untouched fields keep their prior values
// and updated_at is refreshed by gorm. Returns the updated row.
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "Update")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			Uint("user_id", id).
			Log()
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

// ConsumeVerificationToken atomically flips the account to verified and
// clears the token, conditional on the token still being stored. A raced
// second consumption sees zero affected rows.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, token string) error {
	ctx = ctxutil.WithScope(ctx, "repository", "ConsumeVerificationToken")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email_verification_token = ?", token).
		Updates(map[string]interface{}{
			"is_email_verified":                true,
			"email_verification_token":         nil,
			"email_verification_token_expires": nil,
		})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume verification token").
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Email verification token consumed").Log()
	return nil
}

// ConsumeResetToken atomically replaces the password and clears the reset
// token, conditional on the token still matching and not being expired.
// This single conditional UPDATE is what guards concurrent resets racing
// the same token: the loser sees zero affected rows.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, newPasswordHash string) error {
	ctx = ctxutil.WithScope(ctx, "repository", "ConsumeResetToken")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_password_token = ? AND reset_password_expires > ?", token, time.Now().UTC()).
		Updates(map[string]interface{}{
			"password":               newPasswordHash,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume reset token").
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Password reset token consumed").Log()
	return nil
}

// UpdatePassword replaces the stored hash for one user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	ctx = ctxutil.WithScope(ctx, "repository", "UpdatePassword")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user password").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User password updated").
		Uint("user_id", id).
		Log()

	return nil
}

// Delete removes the user row.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithScope(ctx, "repository", "Delete")

	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete user").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User deleted").
		Uint("user_id", id).
		Log()

	return nil
}

// GetAll lists users with stable id-ascending ordering, optional search and
// pagination. Password hashes are never loaded in list results.
func (r *UserRepository) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	ctx = ctxutil.WithScope(ctx, "repository", "GetAll")

	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Omit("password").Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			Err(err).
			Log()
		return nil, 0, err
	}

	return users, total, nil
}
