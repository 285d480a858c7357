package main

import (
	"context"
	"net/http"

	_ "time/tzdata" // Load timezone data

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/Sitara-Husain/ECommerce/internal/app"
	"github.com/Sitara-Husain/ECommerce/internal/config"
	"github.com/Sitara-Husain/ECommerce/internal/controllers"
	"github.com/Sitara-Husain/ECommerce/internal/middleware"
	"github.com/Sitara-Husain/ECommerce/internal/repositories"
	"github.com/Sitara-Husain/ECommerce/internal/routes"
	"github.com/Sitara-Husain/ECommerce/internal/services"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	if err := app.Migrate(cfg.DBUrl); err != nil {
		utils.Logger.Fatal("Failed to run database migrations:", err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize the application:", err)
	}
	defer application.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)
	productRepo := repositories.NewProductRepository(application.DB)

	// Services
	tokenService := services.NewTokenService(cfg, tokenRepo)
	tokenVerifier := services.NewTokenVerifier(cfg.RSAPublicKey, tokenRepo, cfg.BlacklistEnabled)
	authService := services.NewAuthService(userRepo, tokenService)
	productService := services.NewProductService(productRepo)
	cleanupService := services.NewTokenCleanupService(tokenRepo)

	// Controllers
	healthController := controllers.NewHealthController(application.DB)
	authController := controllers.NewAuthController(authService, tokenService)
	productController := controllers.NewProductController(productService)

	// Nightly purge of expired token records
	c := cron.New()
	_, schErr := c.AddFunc("0 3 * * *", func() {
		if err := cleanupService.CleanupDaily(context.Background()); err != nil {
			utils.Logger.WithError(err).Error("Scheduled token cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule token cleanup job")
	}
	c.Start()

	// Router
	router := mux.NewRouter()

	// Health
	router.HandleFunc(routes.Health, healthController.Check).Methods(http.MethodGet)

	// Public auth routes
	router.HandleFunc(routes.AuthSignup, authController.Signup).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.Login).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthTokenRefresh, authController.TokenRefresh).Methods(http.MethodPost)

	// Protected routes (JWT middleware)
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(tokenVerifier))

	secured.HandleFunc(routes.AuthLogout, authController.Logout).Methods(http.MethodPost)
	secured.HandleFunc(routes.AuthDeactivate, authController.Deactivate).Methods(http.MethodPost)

	secured.HandleFunc(routes.Products, productController.Create).Methods(http.MethodPost)
	secured.HandleFunc(routes.Products, productController.List).Methods(http.MethodGet)
	secured.HandleFunc(routes.ProductsByID, productController.Get).Methods(http.MethodGet)
	secured.HandleFunc(routes.ProductsByID, productController.Update).Methods(http.MethodPut)
	secured.HandleFunc(routes.ProductsByID, productController.Delete).Methods(http.MethodDelete)

	// CORS config
	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
