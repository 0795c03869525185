package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gestio-app/gestio/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// OpaqueTokenBytes is the entropy of opaque tokens (email verification,
// password reset, sessions). 32 random bytes hex-encode to 64 characters.
const OpaqueTokenBytes = 32

// BearerClaims is the payload of signed bearer tokens.
type BearerClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and validates both token kinds: opaque random tokens
// whose meaning lives server side, and self-contained HS256 signed tokens.
type TokenService struct {
	secret     []byte
	expiration time.Duration
}

func NewTokenService(secret string, expiration time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, apperrors.WrapError(apperrors.ErrConfiguration, fmt.Errorf("empty JWT secret"))
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiration: expiration}, nil
}

// GenerateOpaqueToken returns a fresh 64-character hex token from the
// system CSPRNG.
func (s *TokenService) GenerateOpaqueToken() (string, error) {
	buf := make([]byte, OpaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateSignedToken mints an HS256 bearer token carrying the user's
// identity claims.
func (s *TokenService) GenerateSignedToken(user *model.User) (string, error) {
	now := time.Now().UTC()
	claims := BearerClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return signed, nil
}

// ValidateSignedToken verifies the signature and expiry of a bearer token
// and returns its claims. The signing method is pinned to HMAC so a token
// cannot downgrade to an attacker-chosen algorithm.
func (s *TokenService) ValidateSignedToken(tokenString string) (*BearerClaims, error) {
	claims := &BearerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	return claims, nil
}
