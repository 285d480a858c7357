package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrEmailExists        = errors.New("email_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDeactivated = errors.New("account_deactivated")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrTokenExpired       = errors.New("token_expired")
	ErrTokenBlacklisted   = errors.New("token_blacklisted")
	ErrPasswordPattern    = errors.New("password_pattern")
	ErrNotFound           = errors.New("not_found")
	ErrTitleExists        = errors.New("title_exists")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// sentinelToAppError maps the domain sentinels onto HTTP responses.
// Anything unmapped falls through to a generic 500.
func sentinelToAppError(err error) *AppError {
	switch {
	case errors.Is(err, ErrEmailExists):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: "A user with this email already exists", Err: err}
	case errors.Is(err, ErrPasswordPattern):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: "Password contains unsupported characters", Err: err}
	case errors.Is(err, ErrInvalidCredentials):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeInvalidCredentials, Message: "Invalid email or password", Err: err}
	case errors.Is(err, ErrAccountDeactivated):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: "Account is deactivated", Err: err}
	case errors.Is(err, ErrTokenExpired):
		return &AppError{StatusCode: http.StatusUnauthorized, Code: ErrCodeTokenExpired, Message: "Token expired", Err: err}
	case errors.Is(err, ErrTokenBlacklisted):
		return &AppError{StatusCode: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: "Token is blacklisted", Err: err}
	case errors.Is(err, ErrInvalidToken):
		return &AppError{StatusCode: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: "Invalid token", Err: err}
	case errors.Is(err, ErrNotFound):
		return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Resource not found", Err: err}
	case errors.Is(err, ErrTitleExists):
		return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeConflict, Message: "A product with this title already exists", Err: err}
	default:
		return nil
	}
}

// HandleAppError centralizes responding to service-layer errors,
// either explicit AppErrors or the domain sentinels.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}
	if mapped := sentinelToAppError(err); mapped != nil {
		RespondErrorWithCode(w, mapped.StatusCode, mapped.Code, mapped.Message, nil, mapped.Err)
		return
	}
	RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
}
