package service

import (
	"context"
	"time"

	"github.com/gestio-app/gestio/internal/model"
)

// mockUserStore implements UserStore with overridable function fields so
// each test states only the behavior it cares about.
type mockUserStore struct {
	CreateFn                 func(ctx context.Context, user *model.User) error
	GetByIDFn                func(ctx context.Context, id uint) (*model.User, error)
	GetByEmailFn             func(ctx context.Context, email string) (*model.User, error)
	GetByVerificationTokenFn func(ctx context.Context, token string) (*model.User, error)
	GetByResetTokenFn        func(ctx context.Context, token string) (*model.User, error)
	UpdateFn                 func(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error)
	ConsumeVerificationFn    func(ctx context.Context, token string) error
	ConsumeResetFn           func(ctx context.Context, token, hash string) error
	UpdatePasswordFn         func(ctx context.Context, id uint, hash string) error
	DeleteFn                 func(ctx context.Context, id uint) error
	GetAllFn                 func(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	return m.CreateFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserStore) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return m.GetByVerificationTokenFn(ctx, token)
}

func (m *mockUserStore) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	return m.GetByResetTokenFn(ctx, token)
}

func (m *mockUserStore) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error) {
	return m.UpdateFn(ctx, id, fields)
}

func (m *mockUserStore) ConsumeVerificationToken(ctx context.Context, token string) error {
	return m.ConsumeVerificationFn(ctx, token)
}

func (m *mockUserStore) ConsumeResetToken(ctx context.Context, token, hash string) error {
	return m.ConsumeResetFn(ctx, token, hash)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return m.UpdatePasswordFn(ctx, id, hash)
}

func (m *mockUserStore) Delete(ctx context.Context, id uint) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockUserStore) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	return m.GetAllFn(ctx, limit, offset, search)
}

type mockSessionStore struct {
	CreateFn     func(ctx context.Context, session *model.Session) error
	FindActiveFn func(ctx context.Context, token string) (*model.Session, error)
	ExtendFn     func(ctx context.Context, id uint, renewal time.Duration) error
	DeleteFn     func(ctx context.Context, id uint) error
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	return m.CreateFn(ctx, session)
}

func (m *mockSessionStore) FindActive(ctx context.Context, token string) (*model.Session, error) {
	return m.FindActiveFn(ctx, token)
}

func (m *mockSessionStore) Extend(ctx context.Context, id uint, renewal time.Duration) error {
	if m.ExtendFn != nil {
		return m.ExtendFn(ctx, id, renewal)
	}
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id uint) error {
	return m.DeleteFn(ctx, id)
}

type mockMailer struct {
	SendFn func(ctx context.Context, to, subject, htmlBody string) error
	sent   []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	if m.SendFn != nil {
		return m.SendFn(ctx, to, subject, htmlBody)
	}
	return nil
}
