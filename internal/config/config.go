package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

const AppName = "commerce-api"

// TokenIssuer identifies the service in the "iss" claim of every
// access token it signs.
const TokenIssuer = "ECommerce"

const (
	DefaultAccessTokenExpiry  = 10 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Config holds all application configuration.
type Config struct {
	AppName            string
	AppPort            string
	AppUrl             string
	DBUrl              string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	RSAPrivateKey      *rsa.PrivateKey
	RSAPublicKey       *rsa.PublicKey

	// BlacklistEnabled selects the verifier strategy: when true every
	// token verification also consults the blacklist ledger.
	BlacklistEnabled bool
}

// LoadConfig reads the environment (optionally seeded from a .env
// file) and returns a *Config. Missing required values are fatal.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Warn(".env file not found, using system environment variables")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	privateKeyBase64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	if privateKeyBase64 == "" {
		utils.Logger.Fatal("RSA_PRIVATE_KEY_BASE64 env var is missing")
	}
	privateKeyPEM, err := base64.StdEncoding.DecodeString(privateKeyBase64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 private key")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	publicKeyBase64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if publicKeyBase64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	publicKeyPEM, err := base64.StdEncoding.DecodeString(publicKeyBase64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 public key")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	accessExpiry := durationFromEnv("ACCESS_TOKEN_EXPIRY_MINUTES", DefaultAccessTokenExpiry, time.Minute)
	refreshExpiry := durationFromEnv("REFRESH_TOKEN_EXPIRY_HOURS", DefaultRefreshTokenExpiry, time.Hour)

	blacklistEnabled := true
	if v := os.Getenv("TOKEN_BLACKLIST_ENABLED"); v != "" {
		parsed, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			utils.Logger.Fatalf("Invalid TOKEN_BLACKLIST_ENABLED value %q", v)
		}
		blacklistEnabled = parsed
	}
	utils.Logger.Debugf("token blacklist enabled: %t", blacklistEnabled)

	return &Config{
		AppName:            AppName,
		AppPort:            appPort,
		AppUrl:             appUrl,
		DBUrl:              dbUrl,
		AccessTokenExpiry:  accessExpiry,
		RefreshTokenExpiry: refreshExpiry,
		RSAPrivateKey:      privateKey,
		RSAPublicKey:       publicKey,
		BlacklistEnabled:   blacklistEnabled,
	}
}

func durationFromEnv(key string, fallback time.Duration, unit time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		utils.Logger.Fatalf("Invalid %s value %q", key, v)
	}
	return time.Duration(n) * unit
}
