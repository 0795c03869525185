package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gestio-app/gestio/internal/dto"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gestio-app/gestio/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testAuthService(users UserStore, sessions SessionStore, mail *mockMailer) *AuthService {
	passwords := NewPasswordService(bcrypt.MinCost)
	tokens, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		panic(err)
	}
	return NewAuthService(users, sessions, passwords, tokens, mail, AuthConfig{
		FrontendURL:     "http://front.test",
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        time.Hour,
		SessionRenewal:  360 * time.Hour,
	})
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestRegisterCreatesUnverifiedAccountAndSendsMail(t *testing.T) {
	var created *model.User
	users := &mockUserStore{
		CreateFn: func(ctx context.Context, user *model.User) error {
			user.ID = 7
			created = user
			return nil
		},
	}
	mail := &mockMailer{}
	svc := testAuthService(users, &mockSessionStore{}, mail)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName: "Awa",
		LastName:  "Diallo",
		Email:     "awa@example.com",
		Password:  "Str0ngEnough!pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if created == nil {
		t.Fatal("user was not persisted")
	}
	if created.IsEmailVerified {
		t.Error("new accounts must start unverified")
	}
	if created.Password == "Str0ngEnough!pass" {
		t.Error("password stored in plaintext")
	}
	if created.EmailVerificationToken == nil || len(*created.EmailVerificationToken) != 64 {
		t.Fatalf("verification token = %v, want 64 hex chars", created.EmailVerificationToken)
	}
	if created.EmailVerificationTokenExpires == nil {
		t.Fatal("verification expiry not set")
	}
	if resp.Email != "awa@example.com" {
		t.Errorf("response email = %q", resp.Email)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	wantLink := "http://front.test/verify-email/" + *created.EmailVerificationToken
	if !strings.Contains(mail.sent[0].body, wantLink) {
		t.Errorf("confirmation mail does not carry link %s", wantLink)
	}
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	users := &mockUserStore{
		CreateFn: func(ctx context.Context, user *model.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "Str0ngEnough!pass",
	})

	domain := apperrors.GetDomainError(err)
	if domain == nil || domain.Code != apperrors.ErrEmailExists.Code {
		t.Fatalf("err = %v, want EMAIL_EXISTS", err)
	}
}

func TestRegisterMailFailureIsTransient(t *testing.T) {
	users := &mockUserStore{
		CreateFn: func(ctx context.Context, user *model.User) error { return nil },
	}
	mail := &mockMailer{
		SendFn: func(ctx context.Context, to, subject, body string) error {
			return errors.New("smtp down")
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, mail)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diallo",
		Email: "awa@example.com", Password: "Str0ngEnough!pass",
	})

	domain := apperrors.GetDomainError(err)
	if domain == nil || domain.Code != apperrors.ErrTransient.Code {
		t.Fatalf("err = %v, want TRANSIENT_ERROR", err)
	}
}

func TestLoginChecksVerificationBeforePassword(t *testing.T) {
	// The stored "hash" is garbage: if the password were compared before
	// the verification gate, the unreadable hash would surface as an
	// internal error instead of EMAIL_NOT_VERIFIED.
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:              1,
				Email:           email,
				Password:        "not-even-a-hash",
				IsEmailVerified: false,
			}, nil
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "awa@example.com", Password: "whatever",
	}, "ua", false)

	if !errors.Is(err, apperrors.ErrEmailNotVerified) {
		t.Fatalf("err = %v, want EMAIL_NOT_VERIFIED", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:              1,
				Email:           email,
				Password:        hashFor(t, "right-password"),
				IsEmailVerified: true,
			}, nil
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "awa@example.com", Password: "wrong-password",
	}, "ua", false)

	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want INVALID_CREDENTIALS", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadPassword(t *testing.T) {
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	}, "ua", false)

	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want INVALID_CREDENTIALS", err)
	}
}

func TestLoginSuccessMintsBearerToken(t *testing.T) {
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:              42,
				FirstName:       "Awa",
				LastName:        "Diallo",
				Email:           email,
				Password:        hashFor(t, "right-password"),
				IsEmailVerified: true,
			}, nil
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "awa@example.com", Password: "right-password",
	}, "ua", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if resp.JWTToken == "" {
		t.Fatal("no bearer token issued")
	}
	if resp.SessionToken != "" {
		t.Error("session token issued without being requested")
	}

	claims, err := svc.ValidateBearer(resp.JWTToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "awa@example.com" || claims.Name != "Awa Diallo" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginWithSessionOpensSession(t *testing.T) {
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID: 42, Email: email,
				Password:        hashFor(t, "right-password"),
				IsEmailVerified: true,
			}, nil
		},
	}
	var stored *model.Session
	sessions := &mockSessionStore{
		CreateFn: func(ctx context.Context, session *model.Session) error {
			session.ID = 9
			stored = session
			return nil
		},
	}
	svc := testAuthService(users, sessions, &mockMailer{})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "awa@example.com", Password: "right-password",
	}, "test-agent", true)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if len(resp.SessionToken) != 64 {
		t.Fatalf("session token length = %d, want 64", len(resp.SessionToken))
	}
	if stored == nil {
		t.Fatal("session not persisted")
	}
	if stored.Token != resp.SessionToken {
		t.Error("stored token differs from returned token")
	}
	if stored.UserAgent != "test-agent" {
		t.Errorf("user agent = %q", stored.UserAgent)
	}
	if stored.ExpirationDate == nil || !stored.ExpirationDate.After(time.Now().Add(359*time.Hour)) {
		t.Errorf("expiration = %v, want about 15 days out", stored.ExpirationDate)
	}
}

func TestVerifyEmail(t *testing.T) {
	validToken := strings.Repeat("ab", 32)
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	tests := []struct {
		name     string
		token    string
		user     *model.User
		findErr  error
		wantCode string
	}{
		{
			name:     "malformed token",
			token:    "short",
			wantCode: apperrors.ErrMalformedToken.Code,
		},
		{
			name:     "non hex token",
			token:    strings.Repeat("zz", 32),
			wantCode: apperrors.ErrMalformedToken.Code,
		},
		{
			name:     "unknown token",
			token:    validToken,
			findErr:  gorm.ErrRecordNotFound,
			wantCode: apperrors.ErrTokenNotFound.Code,
		},
		{
			name:     "expired token",
			token:    validToken,
			user:     &model.User{ID: 1, EmailVerificationTokenExpires: &past},
			wantCode: apperrors.ErrTokenExpired.Code,
		},
		{
			name:  "valid token",
			token: validToken,
			user:  &model.User{ID: 1, EmailVerificationTokenExpires: &future},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserStore{
				GetByVerificationTokenFn: func(ctx context.Context, token string) (*model.User, error) {
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					return tt.user, nil
				},
				ConsumeVerificationFn: func(ctx context.Context, token string) error {
					return nil
				},
			}
			svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

			err := svc.VerifyEmail(context.Background(), tt.token)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("VerifyEmail: %v", err)
				}
				return
			}
			domain := apperrors.GetDomainError(err)
			if domain == nil || domain.Code != tt.wantCode {
				t.Fatalf("err = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	if !errors.Is(err, apperrors.ErrNoAccountForMail) {
		t.Fatalf("err = %v, want NO_ACCOUNT", err)
	}

	// With uniform responses enabled the same request succeeds silently.
	svc.cfg.UniformResponses = true
	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("uniform mode: %v", err)
	}
}

func TestForgotPasswordStoresTokenAndSendsLink(t *testing.T) {
	var storedFields map[string]interface{}
	users := &mockUserStore{
		GetByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 3, Email: email, IsEmailVerified: true}, nil
		},
		UpdateFn: func(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error) {
			storedFields = fields
			return &model.User{ID: id}, nil
		},
	}
	mail := &mockMailer{}
	svc := testAuthService(users, &mockSessionStore{}, mail)

	if err := svc.ForgotPassword(context.Background(), "awa@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	token, ok := storedFields["reset_password_token"].(string)
	if !ok || len(token) != 64 {
		t.Fatalf("stored token = %v, want 64 hex chars", storedFields["reset_password_token"])
	}
	if _, ok := storedFields["reset_password_expires"].(time.Time); !ok {
		t.Fatal("reset expiry not stored")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].body, "http://front.test/reset-password/"+token) {
		t.Error("reset mail does not carry the reset link")
	}
}

func TestResetPassword(t *testing.T) {
	token := strings.Repeat("cd", 32)
	future := time.Now().UTC().Add(30 * time.Minute)
	past := time.Now().UTC().Add(-time.Minute)

	t.Run("unknown token", func(t *testing.T) {
		users := &mockUserStore{
			GetByResetTokenFn: func(ctx context.Context, token string) (*model.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

		err := svc.ResetPassword(context.Background(), token, "N3wStrong!password")
		if !errors.Is(err, apperrors.ErrResetLinkInvalid) {
			t.Fatalf("err = %v, want RESET_LINK_INVALID", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		users := &mockUserStore{
			GetByResetTokenFn: func(ctx context.Context, token string) (*model.User, error) {
				return &model.User{ID: 3, ResetPasswordExpires: &past}, nil
			},
		}
		svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

		err := svc.ResetPassword(context.Background(), token, "N3wStrong!password")
		if !errors.Is(err, apperrors.ErrResetLinkInvalid) {
			t.Fatalf("err = %v, want RESET_LINK_INVALID", err)
		}
	})

	t.Run("raced consumption", func(t *testing.T) {
		users := &mockUserStore{
			GetByResetTokenFn: func(ctx context.Context, token string) (*model.User, error) {
				return &model.User{ID: 3, ResetPasswordExpires: &future}, nil
			},
			ConsumeResetFn: func(ctx context.Context, token, hash string) error {
				return gorm.ErrRecordNotFound
			},
		}
		svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

		err := svc.ResetPassword(context.Background(), token, "N3wStrong!password")
		if !errors.Is(err, apperrors.ErrResetLinkInvalid) {
			t.Fatalf("err = %v, want RESET_LINK_INVALID", err)
		}
	})

	t.Run("valid token installs new hash", func(t *testing.T) {
		var consumedToken, newHash string
		users := &mockUserStore{
			GetByResetTokenFn: func(ctx context.Context, token string) (*model.User, error) {
				return &model.User{ID: 3, ResetPasswordExpires: &future}, nil
			},
			ConsumeResetFn: func(ctx context.Context, token, hash string) error {
				consumedToken, newHash = token, hash
				return nil
			},
		}
		svc := testAuthService(users, &mockSessionStore{}, &mockMailer{})

		if err := svc.ResetPassword(context.Background(), token, "N3wStrong!password"); err != nil {
			t.Fatalf("ResetPassword: %v", err)
		}
		if consumedToken != token {
			t.Errorf("consumed token = %q", consumedToken)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(newHash), []byte("N3wStrong!password")); err != nil {
			t.Error("stored hash does not match the new password")
		}
	})
}

func TestResolveSessionSlidesExpiry(t *testing.T) {
	token := strings.Repeat("ef", 32)
	var extendedID uint
	var extendedBy time.Duration

	sessions := &mockSessionStore{
		FindActiveFn: func(ctx context.Context, got string) (*model.Session, error) {
			if got != token {
				t.Errorf("looked up token %q", got)
			}
			return &model.Session{ID: 5, UserID: 42, User: model.User{ID: 42}}, nil
		},
		ExtendFn: func(ctx context.Context, id uint, renewal time.Duration) error {
			extendedID, extendedBy = id, renewal
			return nil
		},
	}
	svc := testAuthService(&mockUserStore{}, sessions, &mockMailer{})

	session, err := svc.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if session.UserID != 42 {
		t.Errorf("user id = %d", session.UserID)
	}
	if extendedID != 5 || extendedBy != 360*time.Hour {
		t.Errorf("extended id=%d by %v, want id=5 by 360h", extendedID, extendedBy)
	}
}

func TestResolveSessionUnknownToken(t *testing.T) {
	sessions := &mockSessionStore{
		FindActiveFn: func(ctx context.Context, token string) (*model.Session, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := testAuthService(&mockUserStore{}, sessions, &mockMailer{})

	_, err := svc.ResolveSession(context.Background(), strings.Repeat("00", 32))
	if !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("err = %v, want SESSION_NOT_FOUND", err)
	}
}
