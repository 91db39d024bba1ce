package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/vastsea/vastsea-api/internal/cache"
	"github.com/vastsea/vastsea-api/internal/config"
	"github.com/vastsea/vastsea-api/internal/constants"
	"github.com/vastsea/vastsea-api/internal/database"
	"github.com/vastsea/vastsea-api/internal/handlers"
	"github.com/vastsea/vastsea-api/internal/middleware"
	"github.com/vastsea/vastsea-api/internal/repository"
	"github.com/vastsea/vastsea-api/internal/services"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Leaderboard cache shares the session Redis instance
	var leaderboardCache cache.Cache
	if c, err := cache.NewRedisCache(redisAddr); err != nil {
		log.Printf("Leaderboard cache disabled: %v", err)
	} else {
		leaderboardCache = c
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	problemRepo := repository.NewProblemRepository(database.GetDB())

	authService := services.NewAuthService(userRepo)
	problemService := services.NewProblemService(problemRepo, leaderboardCache)
	leaderboardService := services.NewLeaderboardService(
		userRepo,
		problemRepo,
		leaderboardCache,
		time.Duration(cfg.LeaderboardCacheTTLSeconds)*time.Second,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	problemHandler := handlers.NewProblemHandler(problemService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	userHandler := handlers.NewUserHandler(authService, problemService)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "VastSea API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		auth.Use(limiter.LimitMiddleware())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Problem routes (reads public, writes author-only)
		problems := api.Group("/problems")
		{
			problems.GET("", problemHandler.ListProblems)
			problems.GET("/:id", problemHandler.GetProblem)
			problems.POST("", middleware.RequireAuth(), limiter.LimitMiddleware(), problemHandler.CreateProblem)
			problems.PUT("/:id", middleware.RequireAuth(), limiter.LimitMiddleware(), problemHandler.UpdateProblem)
			problems.DELETE("/:id", middleware.RequireAuth(), limiter.LimitMiddleware(), problemHandler.DeleteProblem)
		}

		// Leaderboard (public)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Dashboard/profile routes (protected)
		user := api.Group("/user")
		user.Use(middleware.RequireAuth())
		{
			user.GET("/problems", userHandler.ListOwnProblems)
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/update-profile", userHandler.UpdateProfile)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
