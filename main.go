package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LovationAdmin/horizon-api/config"
	"github.com/LovationAdmin/horizon-api/handlers"
	"github.com/LovationAdmin/horizon-api/middleware"
	"github.com/LovationAdmin/horizon-api/routes"
	"github.com/LovationAdmin/horizon-api/services"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	envErr := godotenv.Load()

	settings := config.Load()
	utils.InitLogger(os.Stdout, settings.Production, settings.LogLevel)
	log := utils.Logger()

	if envErr != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}
	if err := settings.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if settings.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(settings.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connected")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := utils.NewTokenService(settings.JWTSecret, settings.JWTTTL)
	plaid := services.NewPlaidService(settings.Plaid)
	banks := services.NewBankingService(db)
	users := services.NewUserService(db)
	accounts := services.NewAccountService(banks, plaid)

	wsHandler := handlers.NewWSHandler(tokens)
	authHandler := &handlers.AuthHandler{Users: users, Tokens: tokens}
	userHandler := &handlers.UserHandler{Users: users}
	bankingHandler := &handlers.BankingHandler{
		Resolver: services.NewTransactionResolver(accounts, accounts),
		Accounts: accounts,
		Linker:   services.NewLinkService(banks, plaid),
		Plaid:    plaid,
		Users:    users,
		Notifier: wsHandler,
		PageSize: settings.PageSize,
	}

	limiter := middleware.NewRateLimiter(settings.RateLimitPerMinute, time.Minute)
	go limiter.Cleanup(ctx, time.Minute)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{settings.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	log.Info().Str("origin", settings.FrontendURL).Msg("CORS configured")

	router.Use(limiter.Middleware())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler)
		v1.GET("/ws", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			routes.SetupSessionRoutes(protected, authHandler, userHandler)
			routes.SetupBankingRoutes(protected, bankingHandler)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = wsHandler.M.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	utils.LogStartup("Horizon API", version, settings.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
	log.Info().Msg("Server stopped")
}
