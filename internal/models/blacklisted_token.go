package models

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistedToken marks an issued access token as invalidated before
// its natural expiry. One-to-one with IssuedAccessToken.
type BlacklistedToken struct {
	ID            uuid.UUID `json:"id"`
	TokenRecordID uuid.UUID `json:"token_record_id"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
}
