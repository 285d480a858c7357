package dtos

import "github.com/google/uuid"

// ----------------------
// Signup
// ----------------------

type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=15"`
}

// ----------------------
// Login
// ----------------------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokensResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type LoginResponse struct {
	ID        uuid.UUID      `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	IsActive  bool           `json:"is_active"`
	Tokens    TokensResponse `json:"tokens"`
}

// ----------------------
// Refresh Token
// ----------------------

type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required,len=64"`
}

type RefreshTokenResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// ----------------------
// Messages
// ----------------------

type MessageResponse struct {
	Message string `json:"message"`
}
