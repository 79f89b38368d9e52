package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	pkgauth "github.com/odontocare/clinic-api/pkg/auth"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail     map[string]*model.User
	byID        map[uuid.UUID]*model.User
	resetTokens map[string]uuid.UUID
	storeCalls  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:     map[string]*model.User{},
		byID:        map[uuid.UUID]*model.User{},
		resetTokens: map[string]uuid.UUID{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (f *fakeUserRepo) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	f.storeCalls++
	f.resetTokens[token] = userID
	return nil
}

func (f *fakeUserRepo) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	if id, ok := f.resetTokens[token]; ok {
		return id, nil
	}
	return uuid.Nil, apperrors.NewNotFound("reset token", nil)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	if u, ok := f.byID[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

type fakeEmailService struct {
	welcomes []string
	resets   []string
}

func (f *fakeEmailService) SendPasswordReset(ctx context.Context, to string, token string) error {
	f.resets = append(f.resets, to)
	return nil
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, to string, name string) error {
	f.welcomes = append(f.welcomes, to)
	return nil
}

func (f *fakeEmailService) SendAppointmentConfirmation(ctx context.Context, to string, name string, date time.Time, slot string) error {
	return nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(ctx context.Context, log *model.AuditLog) error { return nil }
func (f *fakeAuditRepo) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func newTestService(repo *fakeUserRepo, emails *fakeEmailService) *Service {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	jwtSvc := pkgauth.NewJWTService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	hasher := security.NewBcryptHasher(4)
	return NewService(repo, jwtSvc, hasher, emails, audit.NewService(&fakeAuditRepo{}), l)
}

func signUp(t *testing.T, svc *Service, email, password string, role model.Role) *model.User {
	t.Helper()
	user, err := svc.SignUp(context.Background(), &model.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: "Dr. Lima",
		Role:        role,
	})
	require.NoError(t, err)
	return user
}

func TestSignUpAndSignIn(t *testing.T) {
	repo := newFakeUserRepo()
	emails := &fakeEmailService{}
	svc := newTestService(repo, emails)

	user := signUp(t, svc, "doc@clinic.test", "long-enough", model.RoleDoctor)
	assert.NotEqual(t, "long-enough", user.PasswordHash, "passwords are stored hashed")
	assert.Equal(t, []string{"doc@clinic.test"}, emails.welcomes)

	id, tokens, err := svc.SignIn(context.Background(), &model.SignInRequest{
		Email:    "doc@clinic.test",
		Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.ID)
	assert.Equal(t, model.RoleDoctor, id.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeEmailService{})
	signUp(t, svc, "doc@clinic.test", "long-enough", model.RoleDoctor)

	_, err := svc.SignUp(context.Background(), &model.SignUpRequest{
		Email:       "doc@clinic.test",
		Password:    "another-pass",
		DisplayName: "Dr. Other",
		Role:        model.RoleReceptionist,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrDuplicate))
}

func TestSignUpRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeEmailService{})

	_, err := svc.SignUp(context.Background(), &model.SignUpRequest{
		Email:       "doc@clinic.test",
		Password:    "long-enough",
		DisplayName: "Dr. Lima",
		Role:        model.Role("admin"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestSignInFailsTheSameWayForBadEmailAndBadPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeEmailService{})
	signUp(t, svc, "doc@clinic.test", "long-enough", model.RoleDoctor)

	_, _, errUnknown := svc.SignIn(context.Background(), &model.SignInRequest{
		Email:    "nobody@clinic.test",
		Password: "long-enough",
	})
	_, _, errWrongPass := svc.SignIn(context.Background(), &model.SignInRequest{
		Email:    "doc@clinic.test",
		Password: "wrong-pass",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.True(t, apperrors.IsCode(errUnknown, apperrors.ErrPermission))
	assert.True(t, apperrors.IsCode(errWrongPass, apperrors.ErrPermission))
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestRequestPasswordResetUnknownEmailSucceedsSilently(t *testing.T) {
	repo := newFakeUserRepo()
	emails := &fakeEmailService{}
	svc := newTestService(repo, emails)

	err := svc.RequestPasswordReset(context.Background(), &model.ResetPasswordRequest{
		Email: "nobody@clinic.test",
	})
	require.NoError(t, err, "unknown emails must not be probeable")
	assert.Zero(t, repo.storeCalls)
	assert.Empty(t, emails.resets)
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeUserRepo()
	emails := &fakeEmailService{}
	svc := newTestService(repo, emails)

	signUp(t, svc, "doc@clinic.test", "long-enough", model.RoleDoctor)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), &model.ResetPasswordRequest{
		Email: "doc@clinic.test",
	}))
	assert.Equal(t, []string{"doc@clinic.test"}, emails.resets)
	require.Len(t, repo.resetTokens, 1)

	var token string
	for tok := range repo.resetTokens {
		token = tok
	}

	require.NoError(t, svc.ResetPassword(context.Background(), token, "fresh-password"))

	_, _, err := svc.SignIn(context.Background(), &model.SignInRequest{
		Email:    "doc@clinic.test",
		Password: "fresh-password",
	})
	require.NoError(t, err)
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeEmailService{})

	err := svc.ResetPassword(context.Background(), "whatever", "short")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), &fakeEmailService{})

	err := svc.ResetPassword(context.Background(), "bogus-token", "long-enough")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPermission))
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeEmailService{})

	signUp(t, svc, "doc@clinic.test", "long-enough", model.RoleDoctor)
	_, tokens, err := svc.SignIn(context.Background(), &model.SignInRequest{
		Email:    "doc@clinic.test",
		Password: "long-enough",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPermission))
}
