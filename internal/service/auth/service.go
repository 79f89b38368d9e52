package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/email"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/pkg/auth"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/security"
)

const resetTokenExpiry = 1 * time.Hour

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	emailSvc email.Service
	auditor  *audit.Service
	logger   *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	auditor *audit.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		emailSvc: emailSvc,
		auditor:  auditor,
		logger:   logger,
	}
}

// SignUp registers a user with one of the two clinic roles. An email already
// registered is a duplicate error.
func (s *Service) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.NewValidation([]apperrors.Violation{{
			Field:   "role",
			Message: "role must be doctor or receptionist",
		}})
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewDuplicate("email")
	} else if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	user := &model.User{
		Base: model.Base{
			ID: uuid.New(),
		},
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.DisplayName); err != nil {
		s.logger.Error(err, "Failed to send welcome email", "email", user.Email)
	}

	s.auditor.Log(ctx, user.ID, "sign_up", "user", user.ID, nil)
	return user, nil
}

// SignIn checks credentials and issues a token pair carrying the user's role.
// Wrong email and wrong password fail the same way.
func (s *Service) SignIn(ctx context.Context, req *model.SignInRequest) (*model.Identity, *model.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewPermission("sign in")
		}
		return nil, nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, nil, apperrors.NewPermission("sign in")
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, nil, apperrors.NewInternal(err)
	}

	s.auditor.Log(ctx, user.ID, "sign_in", "user", user.ID, nil)
	return &model.Identity{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}, tokens, nil
}

// RequestPasswordReset stores a one-time code and mails it. An unknown email
// reports success anyway so the endpoint cannot be used to probe accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, req *model.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return apperrors.NewInternal(err)
	}
	if err := s.userRepo.StoreResetToken(ctx, user.ID, token, time.Now().Add(resetTokenExpiry)); err != nil {
		return err
	}

	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, token); err != nil {
		s.logger.Error(err, "Failed to send reset email", "email", user.Email)
	}
	return nil
}

// ResetPassword consumes a reset code and installs the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidation([]apperrors.Violation{{
			Field:   "password",
			Message: "password must be at least 8 characters",
		}})
	}

	userID, err := s.userRepo.ValidateResetToken(ctx, token)
	if err != nil {
		return apperrors.NewPermission("reset password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.NewInternal(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.auditor.Log(ctx, userID, "reset_password", "user", userID, nil)
	return nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	userID, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewPermission("refresh session")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return tokens, nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenPair, error) {
	access, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
