package service

import (
	"context"
	"errors"

	"github.com/gestio-app/gestio/internal/dto"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gestio-app/gestio/internal/repository"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gestio-app/gestio/pkg/logger"
	"gorm.io/gorm"
)

// UserService covers the administrative account surface: listing, profile
// lookup and edits, password changes and deletion.
type UserService struct {
	users     UserStore
	passwords *PasswordService
}

func NewUserService(users UserStore, passwords *PasswordService) *UserService {
	return &UserService{users: users, passwords: passwords}
}

// List returns a page of users plus the total count for pagination.
func (s *UserService) List(ctx context.Context, page, limit int, search string) ([]dto.UserResponse, int64, error) {
	ctx = ctxutil.WithScope(ctx, "user", "List")

	offset := (page - 1) * limit
	users, total, err := s.users.GetAll(ctx, limit, offset, search)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, dto.NewUserResponse(&users[i]))
	}
	return responses, total, nil
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithScope(ctx, "user", "Get")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update applies a partial profile edit. Only the fields present in the
// request are touched.
func (s *UserService) Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithScope(ctx, "user", "Update")

	fields := map[string]interface{}{}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}
	if req.Tel != "" {
		fields["tel"] = req.Tel
	}

	if len(fields) == 0 {
		return nil, apperrors.NewDomainError("INVALID_INPUT", "no fields to update")
	}

	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.WrapError(apperrors.ErrEmailExists, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdatePassword verifies the current password before installing a new one.
func (s *UserService) UpdatePassword(ctx context.Context, id uint, req dto.UpdatePasswordRequest) error {
	ctx = ctxutil.WithScope(ctx, "user", "UpdatePassword")

	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	ok, err := s.passwords.Verify(user.Password, req.CurrentPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, id, hashed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", id).
		Log()

	return nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithScope(ctx, "user", "Delete")

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}
