package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hesabdari_ledger/internal/core/ports/services"
	"github.com/SscSPs/hesabdari_ledger/internal/platform/config"
	"github.com/SscSPs/hesabdari_ledger/internal/utils"
)

type authService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	cfg      *config.Config
}

// NewAuthService creates the local username/password authenticator.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo, cfg: cfg}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	invalid := apperrors.Newf(apperrors.KindUnauthorized, "invalid username or password")

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Login attempt for unknown user", slog.String("username", username))
			return nil, "", time.Time{}, invalid
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, "", time.Time{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogWarn(ctx, "Login attempt with wrong password", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, invalid
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return user, token, expiresAt, nil
}

func (s *authService) EnsureAdminUser(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.Newf(apperrors.KindValidation, "admin username and password are required")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	now := time.Now().UTC()

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		if utils.CheckPasswordHash(password, user.PasswordHash) {
			return user, nil
		}
		user.PasswordHash = hash
		user.Touch(user.UserID, now)
		if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("failed to update admin user: %w", err)
		}
		s.LogInfo(ctx, "Admin user password refreshed", slog.String("user_id", user.UserID))
		return user, nil
	case errors.Is(err, apperrors.ErrNotFound):
		userID := uuid.NewString()
		user = &domain.User{
			UserID:       userID,
			Username:     username,
			Name:         username,
			PasswordHash: hash,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.userRepo.SaveUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("failed to create admin user: %w", err)
		}
		s.LogInfo(ctx, "Admin user created", slog.String("user_id", userID))
		return user, nil
	default:
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}
}
