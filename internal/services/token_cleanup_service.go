package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/Sitara-Husain/ECommerce/internal/repositories"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

const cleanupRetryDelay = 3 * time.Second

// TokenCleanupService removes expired refresh tokens and expired
// issuance records (with their blacklist entries) each night.
type TokenCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type tokenCleanupService struct {
	tokenRepo repositories.TokenRepository
}

func NewTokenCleanupService(tokenRepo repositories.TokenRepository) TokenCleanupService {
	return &tokenCleanupService{tokenRepo: tokenRepo}
}

// runWithRetry executes op(ctx) and, if it returns a transient network
// error (EOF, pgconn safe-to-retry, or the common closed-connection
// message), waits a moment then retries once.
func (s *tokenCleanupService) runWithRetry(
	ctx context.Context,
	op func(context.Context) error,
) error {
	if err := op(ctx); err != nil {
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("token cleanup hit transient DB error; retrying once")
			time.Sleep(cleanupRetryDelay)
			return op(ctx)
		}
		return err
	}
	return nil
}

func (s *tokenCleanupService) CleanupDaily(ctx context.Context) error {
	logger := utils.Logger

	if err := s.runWithRetry(ctx, s.tokenRepo.CleanupExpiredRefreshTokens); err != nil {
		logger.WithError(err).Error("Failed to cleanup expired refresh_tokens")
		return err
	}

	if err := s.runWithRetry(ctx, s.tokenRepo.CleanupExpiredIssuedTokens); err != nil {
		logger.WithError(err).Error("Failed to cleanup expired issued_access_tokens")
		return err
	}

	logger.Info("Daily token cleanup completed successfully.")
	return nil
}
