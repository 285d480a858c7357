package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sitara-Husain/ECommerce/internal/constants"
	"github.com/Sitara-Husain/ECommerce/internal/dtos"
	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/repositories"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

var passwordPattern = regexp.MustCompile(constants.PasswordPattern)

// AuthService implements signup, login and the logout flows on top of
// the user repository and the token service.
type AuthService interface {
	Signup(ctx context.Context, req dtos.SignupRequest) (*models.User, error)

	// Login returns the user plus an access/refresh pair, or
	// ErrInvalidCredentials on any mismatch (the caller cannot tell a
	// wrong password from an unknown email).
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)

	// Logout always succeeds from the caller's point of view;
	// individual revocation failures surface only in the results.
	Logout(ctx context.Context, userID uuid.UUID, current *AccessClaims) []RevocationResult

	// Deactivate disables the account and force-logs-out every
	// session the user still holds.
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	userRepo     repositories.UserRepository
	tokenService TokenService
}

func NewAuthService(userRepo repositories.UserRepository, tokenService TokenService) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

func (s *authService) Signup(ctx context.Context, req dtos.SignupRequest) (*models.User, error) {
	password := strings.TrimSpace(req.Password)
	if !passwordPattern.MatchString(password) {
		return nil, utils.ErrPasswordPattern
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrEmailExists
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		utils.Logger.WithError(err).Error("failed to look up user on login")
		return nil, "", "", err
	}
	if u == nil || !utils.CheckPasswordHash(password, u.PasswordHash) {
		return nil, "", "", utils.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", "", utils.ErrAccountDeactivated
	}

	access, refresh, err := s.tokenService.Issue(ctx, u.ID)
	if err != nil {
		utils.Logger.WithError(err).Error("failed to issue tokens on login")
		return nil, "", "", err
	}

	now := time.Now()
	if err := s.userRepo.RecordLogin(ctx, u.ID, now); err != nil {
		utils.Logger.WithError(err).Warn("failed to record login timestamp")
	} else {
		if u.FirstLoginAt == nil {
			u.FirstLoginAt = &now
		}
		u.LastLoginAt = &now
	}

	return u, access, refresh, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, current *AccessClaims) []RevocationResult {
	results := s.tokenService.BlacklistCurrentSession(ctx, userID, current)
	for _, res := range results {
		if res.Err != nil {
			utils.Logger.WithError(res.Err).Warnf("logout: revocation of token %s failed", res.TokenID)
		}
	}
	return results
}

func (s *authService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		return err
	}
	return s.tokenService.BlacklistAllTokensForUser(ctx, userID)
}
