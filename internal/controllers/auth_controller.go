package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Sitara-Husain/ECommerce/internal/constants"
	"github.com/Sitara-Husain/ECommerce/internal/dtos"
	"github.com/Sitara-Husain/ECommerce/internal/services"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

var validate = validator.New()

type AuthController struct {
	authService  services.AuthService
	tokenService services.TokenService
}

func NewAuthController(authService services.AuthService, tokenService services.TokenService) *AuthController {
	return &AuthController{authService: authService, tokenService: tokenService}
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return
	}

	user, err := c.authService.Signup(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.Logger.WithField("userID", user.ID).Info("user registered")
	utils.RespondWithJSON(w, http.StatusCreated, dtos.MessageResponse{Message: constants.MsgRegistered})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return
	}

	user, access, refresh, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.Logger.WithField("userID", user.ID).Info("user logged in")
	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsActive:  user.IsActive,
		Tokens:    dtos.TokensResponse{Refresh: refresh, Access: access},
	})
}

// Logout revokes the caller's outstanding sessions. Revocation is
// best-effort so the response is 200 even when parts of it fail.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	claims := getAccessClaimsFromContext(r)
	if userID == nil || claims == nil {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil)
		return
	}

	c.authService.Logout(r.Context(), *userID, claims)
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: constants.MsgLoggedOut})
}

func (c *AuthController) TokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req dtos.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return
	}

	access, refresh, err := c.tokenService.Rotate(r.Context(), req.Refresh)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.RefreshTokenResponse{Refresh: refresh, Access: access})
}

func (c *AuthController) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == nil {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil)
		return
	}

	if err := c.authService.Deactivate(r.Context(), *userID); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.Logger.WithField("userID", *userID).Info("account deactivated")
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: constants.MsgDeactivated})
}
