package models

import (
	"time"

	"github.com/google/uuid"
)

// IssuedAccessToken records an access token materialized at login:
// its JTI claim, expiry and raw serialized form. One row per user is
// kept (the latest login overwrites the previous record). The logout
// flow reads it to find the record to blacklist.
type IssuedAccessToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	JTI       string    `json:"jti"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
