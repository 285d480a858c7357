package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthSignup       = "/api/v1/auth/signup"
	AuthLogin        = "/api/v1/auth/login"
	AuthLogout       = "/api/v1/auth/logout"
	AuthTokenRefresh = "/api/v1/auth/token-refresh"
	AuthDeactivate   = "/api/v1/auth/deactivate"

	// Products
	Products     = "/api/v1/products"
	ProductsByID = "/api/v1/products/{id}"
)
