package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Sitara-Husain/ECommerce/internal/services"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID       = contextKey("userID")
	ContextKeyAccessClaims = contextKey("accessClaims")
)

// AuthMiddleware guards protected endpoints. The JWT is read from
// `Authorization: Bearer ...`; a missing, invalid, expired or
// blacklisted token yields 401 and the request never reaches the
// handler.
func AuthMiddleware(verifier services.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}

			claims, vErr := verifier.Verify(r.Context(), tokenStr)
			if vErr != nil {
				switch {
				case errors.Is(vErr, utils.ErrTokenExpired):
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr,
					)
				case errors.Is(vErr, utils.ErrTokenBlacklisted):
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Token is blacklisted", nil, vErr,
					)
				default:
					utils.RespondErrorWithCode(
						w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr,
					)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ContextKeyAccessClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractAccessToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}
