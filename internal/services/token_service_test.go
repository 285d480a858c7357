package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

func TestIssueMintsVerifiablePair(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)
	verifier := NewTokenVerifier(cfg.RSAPublicKey, repo, cfg.BlacklistEnabled)

	userID := uuid.New()

	access, refresh, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.Len(t, refresh, 64)

	claims, err := verifier.Verify(ctx, access)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.NotEmpty(t, claims.JTI)

	// The refresh token is persisted and retrievable by raw value.
	rt, err := repo.GetRefreshToken(ctx, refresh)
	require.NoError(t, err)
	require.NotNil(t, rt)
	require.Equal(t, userID, rt.UserID)
	require.False(t, rt.Revoked)
}

func TestIssueReusesIssuanceRecordPerUser(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)

	userID := uuid.New()

	_, _, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	_, _, err = svc.Issue(ctx, userID)
	require.NoError(t, err)

	// Repeated logins update the single record in place.
	recs, err := repo.ListIssuedTokensByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestIssueNeverTouchesBlacklistedRecords(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)

	userID := uuid.New()

	_, _, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	recs, err := repo.ListIssuedTokensByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	frozenJTI := recs[0].JTI
	require.NoError(t, repo.BlacklistIssuedToken(ctx, recs[0].ID))

	_, _, err = svc.Issue(ctx, userID)
	require.NoError(t, err)

	// A fresh record was inserted; the blacklisted one kept its jti.
	recs, err = repo.ListIssuedTokensByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	blacklisted, err := repo.IsBlacklistedByJTI(ctx, frozenJTI)
	require.NoError(t, err)
	require.True(t, blacklisted)
}

func TestIssueUpdatesOnlyOneLiveRecord(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)

	userID := uuid.New()

	// Two live records for one user, as left behind by racing logins.
	for i := 0; i < 2; i++ {
		_, err := repo.GetOrCreateIssuedToken(ctx, &models.IssuedAccessToken{
			ID: uuid.New(), UserID: userID, JTI: uuid.NewString(),
			Token: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	_, _, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// Exactly one record took the new jti; jtis stay distinct.
	recs, err := repo.ListIssuedTokensByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	seen := map[string]bool{}
	for _, rec := range recs {
		require.False(t, seen[rec.JTI])
		seen[rec.JTI] = true
	}
}

func TestRotate(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)

	userID := uuid.New()

	t.Run("ValidTokenYieldsFreshPair", func(t *testing.T) {
		_, refresh, err := svc.Issue(ctx, userID)
		require.NoError(t, err)

		access2, refresh2, err := svc.Rotate(ctx, refresh)
		require.NoError(t, err)
		require.NotEmpty(t, access2)
		require.NotEqual(t, refresh, refresh2)

		// The old token is single use.
		_, _, err = svc.Rotate(ctx, refresh)
		require.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("UnknownTokenRejected", func(t *testing.T) {
		_, _, err := svc.Rotate(ctx, "no-such-token")
		require.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("RevokedTokenRejected", func(t *testing.T) {
		_, refresh, err := svc.Issue(ctx, userID)
		require.NoError(t, err)
		rt, err := repo.GetRefreshToken(ctx, refresh)
		require.NoError(t, err)
		require.NoError(t, repo.RevokeRefreshToken(ctx, rt.ID))

		_, _, err = svc.Rotate(ctx, refresh)
		require.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("ExpiredTokenRejected", func(t *testing.T) {
		expired := &models.RefreshToken{
			ID:        uuid.New(),
			UserID:    userID,
			Token:     utils.GenerateSecureToken(64),
			ExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt: time.Now().Add(-time.Hour),
		}
		raw := expired.Token
		require.NoError(t, repo.CreateRefreshToken(ctx, expired))

		_, _, err := svc.Rotate(ctx, raw)
		require.ErrorIs(t, err, utils.ErrTokenExpired)
	})
}

func TestBlacklistCurrentSession(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)
	verifier := NewTokenVerifier(cfg.RSAPublicKey, repo, cfg.BlacklistEnabled)

	userID := uuid.New()

	_, _, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	_, _, err = svc.Issue(ctx, userID)
	require.NoError(t, err)

	// The upserted record holds the live session's access token.
	live, err := repo.ListIssuedTokensByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	liveClaims, err := verifier.Verify(ctx, live[0].Token)
	require.NoError(t, err)

	results := svc.BlacklistCurrentSession(ctx, userID, liveClaims)
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
	}

	// Access token is now rejected.
	_, err = verifier.Verify(ctx, liveClaims.Raw)
	require.ErrorIs(t, err, utils.ErrTokenBlacklisted)

	// All refresh tokens are revoked.
	outstanding, err := repo.ListOutstandingRefreshTokens(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, outstanding)

	// Logging out twice is harmless.
	again := svc.BlacklistCurrentSession(ctx, userID, liveClaims)
	require.Empty(t, again)
	_, err = verifier.Verify(ctx, liveClaims.Raw)
	require.ErrorIs(t, err, utils.ErrTokenBlacklisted)
}

func TestBlacklistCurrentSessionContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)
	verifier := NewTokenVerifier(cfg.RSAPublicKey, repo, cfg.BlacklistEnabled)

	userID := uuid.New()
	access, _, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	_, refresh2, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	// Make the second token fail to revoke.
	rt2, err := repo.GetRefreshToken(ctx, refresh2)
	require.NoError(t, err)
	repo.revokeErrs[rt2.ID] = errors.New("connection reset")

	claims, err := verifier.Verify(ctx, access)
	require.NoError(t, err)

	results := svc.BlacklistCurrentSession(ctx, userID, claims)
	require.Len(t, results, 2)

	var failed, succeeded int
	for _, res := range results {
		if res.Err != nil {
			failed++
			require.Equal(t, rt2.ID, res.TokenID)
		} else {
			succeeded++
		}
	}
	require.Equal(t, 1, failed)
	require.Equal(t, 1, succeeded)

	// The access token still got blacklisted despite the failure.
	_, err = verifier.Verify(ctx, access)
	require.ErrorIs(t, err, utils.ErrTokenBlacklisted)
}

func TestBlacklistAllTokensForUser(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	repo := newFakeTokenRepo()
	svc := NewTokenService(cfg, repo)
	verifier := NewTokenVerifier(cfg.RSAPublicKey, repo, cfg.BlacklistEnabled)

	userID := uuid.New()
	access, refresh, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.BlacklistAllTokensForUser(ctx, userID))

	_, err = verifier.Verify(ctx, access)
	require.ErrorIs(t, err, utils.ErrTokenBlacklisted)

	rt, err := repo.GetRefreshToken(ctx, refresh)
	require.NoError(t, err)
	require.True(t, rt.Revoked)

	// Records survive blacklisting so the entries stay resolvable.
	recs, err := repo.ListIssuedTokensByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}
