package service

import (
	"context"
	"fmt"

	"finsight-trading/config"
	"finsight-trading/internal/dto"
	"finsight-trading/internal/repository"
	"finsight-trading/pkg/common"
	"finsight-trading/pkg/logger"
)

type AuthService interface {
	LoginURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, code string) error
	Status(ctx context.Context) *dto.AuthStatusResponse
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
}

type authService struct {
	cfg        *config.Config
	log        *logger.Logger
	schwabRepo repository.SchwabRepository
}

func NewAuthService(cfg *config.Config, log *logger.Logger, schwabRepo repository.SchwabRepository) AuthService {
	return &authService{
		cfg:        cfg,
		log:        log,
		schwabRepo: schwabRepo,
	}
}

func (s *authService) LoginURL(ctx context.Context) (string, error) {
	if !s.schwabRepo.IsConfigured() {
		return "", common.ErrNotConfigured
	}

	url := s.schwabRepo.GetAuthorizationURL()
	if url == "" {
		return "", fmt.Errorf("%w: failed to generate authorization URL", common.ErrGateway)
	}
	s.log.InfoContext(ctx, "Redirecting to Schwab authorization URL")
	return url, nil
}

func (s *authService) HandleCallback(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("%w: no authorization code received", common.ErrValidation)
	}

	s.log.InfoContext(ctx, "Received authorization code, exchanging for tokens")
	return s.schwabRepo.ExchangeCode(ctx, code)
}

func (s *authService) Status(ctx context.Context) *dto.AuthStatusResponse {
	if !s.schwabRepo.IsConfigured() {
		return &dto.AuthStatusResponse{
			Authenticated: false,
			Configured:    false,
			Message:       "Schwab API credentials not configured",
		}
	}

	authenticated := s.schwabRepo.IsAuthenticated(ctx)
	message := "Ready for authentication"
	if authenticated {
		message = "Authenticated and ready"
	}
	return &dto.AuthStatusResponse{
		Authenticated: authenticated,
		Configured:    true,
		Message:       message,
	}
}

func (s *authService) Logout(ctx context.Context) error {
	return s.schwabRepo.Logout(ctx)
}

func (s *authService) Refresh(ctx context.Context) error {
	return s.schwabRepo.RefreshToken(ctx)
}
