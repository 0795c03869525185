package service

import (
	"errors"

	"github.com/gestio-app/gestio/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PasswordService wraps bcrypt hashing with a configured cost factor.
type PasswordService struct {
	cost int
}

func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash derives a bcrypt hash from the plaintext password. The hash embeds
// its own salt and cost, so stored hashes created at an older cost keep
// verifying after the cost is raised.
func (s *PasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		logger.GetLogger().Error("Failed to hash password", zap.Error(err))
		return "", err
	}
	return string(hashed), nil
}

// Verify compares a plaintext candidate against a stored hash. A plain
// mismatch returns (false, nil); any other failure, such as a malformed
// stored hash, is reported as an error so callers can distinguish bad
// credentials from corrupted data.
func (s *PasswordService) Verify(hashedPassword, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	logger.GetLogger().Error("Stored password hash is unreadable", zap.Error(err))
	return false, err
}
