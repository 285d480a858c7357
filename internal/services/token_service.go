package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Sitara-Husain/ECommerce/internal/config"
	"github.com/Sitara-Husain/ECommerce/internal/constants"
	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/repositories"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

// RevocationResult records the outcome of revoking one outstanding
// token during logout. Failures never abort the overall operation;
// they are kept here for logging and inspection.
type RevocationResult struct {
	TokenID uuid.UUID
	Err     error
}

// TokenService mints access/refresh token pairs, rotates refresh
// tokens and drives the logout blacklisting flows.
type TokenService interface {
	// Issue mints a refresh token and a derived access token for the
	// user and upserts the issuance record keyed by user.
	Issue(ctx context.Context, userID uuid.UUID) (access string, refresh string, err error)

	// Rotate exchanges a valid refresh token for a fresh pair,
	// removing the old token.
	Rotate(ctx context.Context, refreshTokenString string) (access string, refresh string, err error)

	// BlacklistCurrentSession revokes every outstanding refresh token
	// of the user (best effort, itemized results) and blacklists the
	// access token of the live request.
	BlacklistCurrentSession(ctx context.Context, userID uuid.UUID, current *AccessClaims) []RevocationResult

	// BlacklistAllTokensForUser is the administrative forced logout:
	// all refresh tokens revoked, every issuance record blacklisted.
	BlacklistAllTokensForUser(ctx context.Context, userID uuid.UUID) error
}

type tokenService struct {
	privateKey    *rsa.PrivateKey
	tokenRepo     repositories.TokenRepository
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenService(cfg *config.Config, tokenRepo repositories.TokenRepository) TokenService {
	return &tokenService{
		privateKey:    cfg.RSAPrivateKey,
		tokenRepo:     tokenRepo,
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
	}
}

// ---------------------------------------------------------------------
// Issue
// ---------------------------------------------------------------------

func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	expiresAt := now.Add(s.accessExpiry)

	claims := jwt.MapClaims{
		"iss": config.TokenIssuer,
		"sub": userID.String(),
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"jti": jti,
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		utils.Logger.WithError(err).Error("failed to sign access token")
		return "", "", errors.New("token generation failed")
	}

	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     utils.GenerateSecureToken(constants.RefreshTokenLength),
		ExpiresAt: now.Add(s.refreshExpiry),
		CreatedAt: now,
		Revoked:   false,
	}
	if err := s.tokenRepo.CreateRefreshToken(ctx, rt); err != nil {
		return "", "", err
	}

	rec := &models.IssuedAccessToken{
		ID:        uuid.New(),
		UserID:    userID,
		JTI:       jti,
		Token:     accessToken,
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.UpsertIssuedToken(ctx, rec); err != nil {
		return "", "", err
	}

	return accessToken, rt.Token, nil
}

// ---------------------------------------------------------------------
// Rotate
// ---------------------------------------------------------------------

func (s *tokenService) Rotate(ctx context.Context, refreshTokenString string) (string, string, error) {
	oldToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil || oldToken == nil || oldToken.Revoked {
		utils.Logger.WithError(err).Error("invalid or missing refresh token in tokenService.Rotate")
		return "", "", utils.ErrInvalidToken
	}
	if oldToken.IsExpired() {
		return "", "", utils.ErrTokenExpired
	}

	if err := s.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID); err != nil {
		utils.Logger.WithError(err).Error("failed to remove old refresh token in tokenService.Rotate")
		return "", "", errors.New("failed to remove old token")
	}

	return s.Issue(ctx, oldToken.UserID)
}

// ---------------------------------------------------------------------
// BlacklistCurrentSession
// ---------------------------------------------------------------------

func (s *tokenService) BlacklistCurrentSession(ctx context.Context, userID uuid.UUID, current *AccessClaims) []RevocationResult {
	var results []RevocationResult

	outstanding, err := s.tokenRepo.ListOutstandingRefreshTokens(ctx, userID)
	if err != nil {
		utils.Logger.WithError(err).Error("failed to list outstanding refresh tokens on logout")
	}
	for _, rt := range outstanding {
		if revErr := s.tokenRepo.RevokeRefreshToken(ctx, rt.ID); revErr != nil {
			// One bad record must not block logout of the rest.
			utils.Logger.WithError(revErr).Warnf("failed to revoke refresh token %s on logout", rt.ID)
			results = append(results, RevocationResult{TokenID: rt.ID, Err: revErr})
			continue
		}
		results = append(results, RevocationResult{TokenID: rt.ID})
	}

	rec := &models.IssuedAccessToken{
		ID:        uuid.New(),
		UserID:    userID,
		JTI:       current.JTI,
		Token:     current.Raw,
		ExpiresAt: current.ExpiresAt,
	}
	stored, err := s.tokenRepo.GetOrCreateIssuedToken(ctx, rec)
	if err != nil {
		utils.Logger.WithError(err).Error("failed to record access token for blacklisting on logout")
		return results
	}
	if err := s.tokenRepo.BlacklistIssuedToken(ctx, stored.ID); err != nil {
		utils.Logger.WithError(err).Error("failed to blacklist access token on logout")
	}

	return results
}

// ---------------------------------------------------------------------
// BlacklistAllTokensForUser
// ---------------------------------------------------------------------

func (s *tokenService) BlacklistAllTokensForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokenRepo.RevokeAllRefreshTokensByUserID(ctx, userID); err != nil {
		utils.Logger.WithError(err).Errorf("failed to revoke refresh tokens for user %s", userID)
	}

	recs, err := s.tokenRepo.ListIssuedTokensByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if blErr := s.tokenRepo.BlacklistIssuedToken(ctx, rec.ID); blErr != nil {
			utils.Logger.WithError(blErr).Warnf("failed to blacklist issued token %s for user %s", rec.ID, userID)
		}
	}
	return nil
}
