package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Sitara-Husain/ECommerce/internal/config"
	"github.com/Sitara-Husain/ECommerce/internal/repositories"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

// AccessClaims is the verified content of an access token that the
// rest of the request pipeline needs.
type AccessClaims struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
	Raw       string
}

// TokenVerifier validates a presented access token. Failures are
// reported through the utils sentinel errors (ErrTokenExpired,
// ErrInvalidToken, ErrTokenBlacklisted).
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*AccessClaims, error)
}

// NewTokenVerifier selects the verification strategy explicitly: with
// blacklistEnabled the signature/claims check is followed by a
// blacklist lookup; without it only the standard checks run.
func NewTokenVerifier(publicKey *rsa.PublicKey, tokenRepo repositories.TokenRepository, blacklistEnabled bool) TokenVerifier {
	base := &signatureVerifier{publicKey: publicKey}
	if !blacklistEnabled {
		return base
	}
	return &blacklistVerifier{next: base, tokenRepo: tokenRepo}
}

// ---------------------------------------------------------------------
// signatureVerifier – signature, expiry and issuer checks only
// ---------------------------------------------------------------------

type signatureVerifier struct {
	publicKey *rsa.PublicKey
}

func (v *signatureVerifier) Verify(ctx context.Context, tokenString string) (*AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", utils.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, utils.ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing expiration claim", utils.ErrInvalidToken)
	}
	expiresAt := time.Unix(int64(exp), 0)
	if expiresAt.Before(time.Now()) {
		return nil, utils.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok || iss != config.TokenIssuer {
		return nil, fmt.Errorf("%w: invalid token issuer", utils.ErrInvalidToken)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing subject claim", utils.ErrInvalidToken)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject claim", utils.ErrInvalidToken)
	}

	// jti may legitimately be absent; the blacklist strategy falls
	// back to the raw token value in that case.
	jti, _ := claims["jti"].(string)

	return &AccessClaims{
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: expiresAt,
		Raw:       tokenString,
	}, nil
}

// ---------------------------------------------------------------------
// blacklistVerifier – standard checks plus blacklist membership
// ---------------------------------------------------------------------

type blacklistVerifier struct {
	next      TokenVerifier
	tokenRepo repositories.TokenRepository
}

func (v *blacklistVerifier) Verify(ctx context.Context, tokenString string) (*AccessClaims, error) {
	claims, err := v.next.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	// Primary lookup by jti; the raw-value lookup is a deliberately
	// retained fallback covering tokens without a jti claim.
	if claims.JTI != "" {
		blacklisted, err := v.tokenRepo.IsBlacklistedByJTI(ctx, claims.JTI)
		if err != nil {
			return nil, err
		}
		if blacklisted {
			return nil, utils.ErrTokenBlacklisted
		}
	}

	blacklisted, err := v.tokenRepo.IsBlacklistedByRawToken(ctx, claims.Raw)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, utils.ErrTokenBlacklisted
	}

	return claims, nil
}
