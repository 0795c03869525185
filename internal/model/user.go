package model

import (
	"time"

	"github.com/gestio-app/gestio/internal/constants"
)

// User is the account record. Password always holds a bcrypt hash, never
// plaintext. The verification and reset tokens are unique while active and
// nulled once consumed; an expiry in the past makes a stored token invalid.
type User struct {
	ID                            uint       `gorm:"primaryKey"`
	FirstName                     string     `gorm:"column:first_name;not null"`
	LastName                      string     `gorm:"column:last_name;not null"`
	Email                         string     `gorm:"column:email;unique;not null"`
	Tel                           *string    `gorm:"column:tel;unique"`
	Password                      string     `gorm:"column:password;not null"`
	Role                          string     `gorm:"column:role;not null;default:ROLE_USER"`
	IsEmailVerified               bool       `gorm:"column:is_email_verified;not null;default:false"`
	EmailVerificationToken        *string    `gorm:"column:email_verification_token;index:idx_users_verification_token,where:email_verification_token IS NOT NULL"`
	EmailVerificationTokenExpires *time.Time `gorm:"column:email_verification_token_expires"`
	ResetPasswordToken            *string    `gorm:"column:reset_password_token;index:idx_users_reset_token,where:reset_password_token IS NOT NULL"`
	ResetPasswordExpires          *time.Time `gorm:"column:reset_password_expires"`
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// FullName is the display name embedded in signed tokens and emails.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RoleValue returns the account role as the declared enum type.
func (u *User) RoleValue() constants.Role {
	return constants.Role(u.Role)
}
