package controllers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Sitara-Husain/ECommerce/internal/middleware"
	"github.com/Sitara-Husain/ECommerce/internal/services"
)

// getUserIDFromContext parses the user ID placed by the auth middleware.
func getUserIDFromContext(r *http.Request) *uuid.UUID {
	userID, ok := r.Context().Value(middleware.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return nil
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &parsed
}

func getAccessClaimsFromContext(r *http.Request) *services.AccessClaims {
	claims, ok := r.Context().Value(middleware.ContextKeyAccessClaims).(*services.AccessClaims)
	if !ok {
		return nil
	}
	return claims
}

// validationDetails flattens validator errors into a per-field
// message map for the Details payload.
func validationDetails(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details[field] = field + " is a required field"
		case "email":
			details[field] = "invalid email address"
		case "min":
			details[field] = field + " is too short"
		case "max":
			details[field] = field + " is too long"
		case "len":
			details[field] = field + " has the wrong length"
		case "gte":
			details[field] = field + " must not be negative"
		default:
			details[field] = field + " is invalid"
		}
	}
	return details
}
