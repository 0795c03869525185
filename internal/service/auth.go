package service

import (
	"context"
	"errors"
	"time"

	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/internal/dto"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gestio-app/gestio/internal/model"
	"github.com/gestio-app/gestio/internal/repository"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gestio-app/gestio/pkg/logger"
	"github.com/gestio-app/gestio/pkg/mailer"
	"gorm.io/gorm"
)

// AuthConfig carries the tunables of the authentication flows.
type AuthConfig struct {
	// FrontendURL is the base of the links embedded in outgoing emails.
	FrontendURL string
	// UniformResponses makes forgot-password answer identically whether or
	// not an account exists, trading the explicit French "no account" reply
	// for enumeration resistance.
	UniformResponses bool
	VerificationTTL  time.Duration
	ResetTTL         time.Duration
	SessionRenewal   time.Duration
	DBTimeout        time.Duration
	MailTimeout      time.Duration
}

// AuthService implements the account lifecycle: registration with email
// verification, credential login, password reset and opaque-token sessions.
type AuthService struct {
	users     UserStore
	sessions  SessionStore
	passwords *PasswordService
	tokens    *TokenService
	mail      mailer.Mailer
	cfg       AuthConfig
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	passwords *PasswordService,
	tokens *TokenService,
	mail mailer.Mailer,
	cfg AuthConfig,
) *AuthService {
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 5 * time.Second
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 10 * time.Second
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		tokens:    tokens,
		mail:      mail,
		cfg:       cfg,
	}
}

// Register creates an unverified account and sends the confirmation email.
// The account row is committed before the mail goes out: a mail outage
// leaves a retriable account, not a half-registered user.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithScope(ctx, "auth", "Register")

	hashed, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	expires := time.Now().UTC().Add(s.cfg.VerificationTTL)
	user := &model.User{
		FirstName:                     req.FirstName,
		LastName:                      req.LastName,
		Email:                         req.Email,
		Password:                      hashed,
		Role:                          string(constants.RoleUser),
		IsEmailVerified:               false,
		EmailVerificationToken:        &token,
		EmailVerificationTokenExpires: &expires,
	}
	if req.Tel != "" {
		tel := req.Tel
		user.Tel = &tel
	}

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()
	if err := s.users.Create(dbCtx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.WrapError(apperrors.ErrEmailExists, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.sendConfirmationMail(ctx, user, token); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Account registered").
		Uint("user_id", user.ID).
		String("email", user.Email).
		Log()

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login authenticates credentials and mints a signed bearer token. The
// verification gate is checked before the password so an unverified caller
// always learns they must confirm their email first. When createSession is
// set, a stateful opaque-token session is opened alongside the bearer token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, userAgent string, createSession bool) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithScope(ctx, "auth", "Login")

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(dbCtx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !user.IsEmailVerified {
		logger.WarnWithContext(ctx, "Login refused for unverified account").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrEmailNotVerified
	}

	ok, err := s.passwords.Verify(user.Password, req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		logger.WarnWithContext(ctx, "Login refused for bad password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	signed, err := s.tokens.GenerateSignedToken(user)
	if err != nil {
		return nil, err
	}

	resp := &dto.LoginResponse{
		User:     dto.NewUserResponse(user),
		JWTToken: signed,
	}

	if createSession {
		sessionToken, err := s.openSession(ctx, user, userAgent)
		if err != nil {
			return nil, err
		}
		resp.SessionToken = sessionToken
	}

	logger.InfoWithContext(ctx, "Login succeeded").
		Uint("user_id", user.ID).
		Bool("session", createSession).
		Log()

	return resp, nil
}

func (s *AuthService) openSession(ctx context.Context, user *model.User, userAgent string) (string, error) {
	token, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return "", err
	}

	expires := time.Now().UTC().Add(s.cfg.SessionRenewal)
	session := &model.Session{
		Token:          token,
		UserAgent:      userAgent,
		UserID:         user.ID,
		ExpirationDate: &expires,
	}

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()
	if err := s.sessions.Create(dbCtx, session); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return token, nil
}

// VerifyEmail consumes a verification token, flipping the account to
// verified. An unknown token and an expired one are distinct failures: the
// first is a 404, the second a 400 telling the user to register again.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	ctx = ctxutil.WithScope(ctx, "auth", "VerifyEmail")

	if len(token) != OpaqueTokenBytes*2 || !isHex(token) {
		return apperrors.ErrMalformedToken
	}

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.users.GetByVerificationToken(dbCtx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTokenNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.EmailVerificationTokenExpires == nil || user.EmailVerificationTokenExpires.Before(time.Now().UTC()) {
		return apperrors.ErrTokenExpired
	}

	if err := s.users.ConsumeVerificationToken(dbCtx, token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Raced with another consumption of the same token.
			return apperrors.ErrTokenNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Email verified").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ForgotPassword issues a reset token and mails the reset link. With
// uniform responses enabled, an unknown email is silently accepted.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ctx = ctxutil.WithScope(ctx, "auth", "ForgotPassword")

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(dbCtx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.cfg.UniformResponses {
				logger.InfoWithContext(ctx, "Password reset requested for unknown email").Log()
				return nil
			}
			return apperrors.ErrNoAccountForMail
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return err
	}

	expires := time.Now().UTC().Add(s.cfg.ResetTTL)
	if _, err := s.users.Update(dbCtx, user.ID, map[string]interface{}{
		"reset_password_token":   token,
		"reset_password_expires": expires,
	}); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.sendResetMail(ctx, user, token); err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "Password reset email sent").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ResetPassword consumes a reset token and installs the new password. Any
// failure mode of the token itself (unknown, expired, already used, raced)
// collapses into the same invalid-link reply.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	ctx = ctxutil.WithScope(ctx, "auth", "ResetPassword")

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	user, err := s.users.GetByResetToken(dbCtx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrResetLinkInvalid
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.ResetPasswordExpires == nil || user.ResetPasswordExpires.Before(time.Now().UTC()) {
		return apperrors.ErrResetLinkInvalid
	}

	hashed, err := s.passwords.Hash(password)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.ConsumeResetToken(dbCtx, token, hashed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrResetLinkInvalid
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password reset completed").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ResolveSession looks up an opaque session token and slides its expiry
// forward by the renewal window. The lookup itself filters out expired
// sessions; a failed extension is logged but does not reject the request,
// the session was valid at the instant it was checked.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*model.Session, error) {
	ctx = ctxutil.WithScope(ctx, "auth", "ResolveSession")

	dbCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.DBTimeout)
	defer cancel()

	session, err := s.sessions.FindActive(dbCtx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.sessions.Extend(dbCtx, session.ID, s.cfg.SessionRenewal); err != nil {
		logger.WarnWithContext(ctx, "Session renewal failed").
			Uint("session_id", session.ID).
			Err(err).
			Log()
	}

	return session, nil
}

// ValidateBearer verifies a signed bearer token and returns its claims.
func (s *AuthService) ValidateBearer(tokenString string) (*BearerClaims, error) {
	return s.tokens.ValidateSignedToken(tokenString)
}

func (s *AuthService) sendConfirmationMail(ctx context.Context, user *model.User, token string) error {
	body, err := mailer.RenderConfirmation(user.FullName(), s.cfg.FrontendURL+"/verify-email/"+token)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	mailCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.MailTimeout)
	defer cancel()
	if err := s.mail.Send(mailCtx, user.Email, mailer.SubjectConfirmation, body); err != nil {
		logger.ErrorWithContext(ctx, "Confirmation email failed").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrTransient, err)
	}
	return nil
}

func (s *AuthService) sendResetMail(ctx context.Context, user *model.User, token string) error {
	body, err := mailer.RenderPasswordReset(s.cfg.FrontendURL + "/reset-password/" + token)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	mailCtx, cancel := ctxutil.WithTimeout(ctx, s.cfg.MailTimeout)
	defer cancel()
	if err := s.mail.Send(mailCtx, user.Email, mailer.SubjectPasswordReset, body); err != nil {
		logger.ErrorWithContext(ctx, "Password reset email failed").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrTransient, err)
	}
	return nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
