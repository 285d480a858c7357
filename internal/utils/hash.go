package utils

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken produces the digest under which refresh tokens are stored;
// raw refresh tokens never touch the database.
func HashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return base64.URLEncoding.EncodeToString(hasher.Sum(nil))
}
