package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"rental-portal/internal/auth"
	"rental-portal/internal/config"
	"rental-portal/internal/database"
	"rental-portal/internal/handlers"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"
	"rental-portal/internal/scheduler"
	"rental-portal/internal/search"
	"rental-portal/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment and config file")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "config/portal.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}
	applyEnvOverrides(appConfig)

	if appConfig.Auth.JWTSecret == "" {
		log.Fatal("JWT secret is not configured (auth.jwt_secret or JWT_SECRET)")
	}

	// Database
	db, err := database.New(&appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Redis (optional: stats cache + live notification feed)
	var rdb *redis.Client
	if appConfig.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("Warning: Redis unavailable (%v), disabling cache and live feed", err)
			rdb = nil
		}
	}

	// Meilisearch (optional: tenant browsing)
	var indexer handlers.PropertyIndexer
	if appConfig.Search.Meilisearch.Host != "" {
		searchClient := search.NewClient(appConfig.Search.Meilisearch.Host, appConfig.Search.Meilisearch.APIKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
		indexer = searchClient
	}

	// Telegram ops alerts (optional)
	var alertBot *notify.AlertBot
	if appConfig.Telegram.BotToken != "" {
		alertBot, err = notify.NewAlertBot(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID)
		if err != nil {
			log.Printf("Warning: Telegram alerts disabled: %v", err)
			alertBot = nil
		}
	}

	notifier := notify.NewService(db, rdb, alertBot)
	approvalService := workflow.NewService(db, appConfig.Workflow, notifier)
	jwtManager := auth.NewManager(appConfig.Auth.JWTSecret, appConfig.Auth.TokenTTL(), appConfig.Auth.Issuer)

	// Stale-visit escalation scheduler
	appScheduler := scheduler.NewScheduler(db, notifier, &appConfig.Scheduler)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	adminHandler := handlers.NewAdminHandler(db, approvalService, appScheduler, indexer, rdb, appConfig.Stats)
	ownerHandler := handlers.NewOwnerHandler(db, notifier)
	propertyHandler := handlers.NewPropertyHandler(db, indexer)
	notificationHandler := handlers.NewNotificationHandler(notifier, rdb)
	authHandler := handlers.NewAuthHandler(db, jwtManager)

	r.GET("/health", healthCheck)

	api := r.Group("/api")

	api.POST("/auth/login", authHandler.Login)

	admin := api.Group("/admin", jwtManager.RequireAuth(), auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.GET("/visits", adminHandler.GetVisits)
		admin.POST("/approve-visit/:id", adminHandler.ApproveVisit)
		admin.POST("/reject-visit/:id", adminHandler.RejectVisit)
		admin.GET("/stats", adminHandler.GetStats)
		admin.POST("/search/reindex", adminHandler.ReindexProperties)
		admin.POST("/escalations/run", adminHandler.RunEscalations)
	}

	owners := api.Group("/owners")
	{
		owners.POST("", ownerHandler.CreateOwner)
		owners.GET("", jwtManager.RequireAuth(), ownerHandler.GetOwners)
		owners.GET("/:loginId", jwtManager.RequireAuth(), ownerHandler.GetOwner)
		owners.PATCH("/:loginId/kyc", jwtManager.RequireAuth(), auth.RequireRole(models.RoleSuperAdmin), ownerHandler.UpdateKYC)
		owners.PATCH("/:loginId", ownerHandler.PatchOwner)
		owners.GET("/:loginId/rooms", ownerHandler.GetOwnerRooms)
	}

	properties := api.Group("/properties")
	{
		properties.GET("", jwtManager.RequireAuth(), propertyHandler.GetProperties)
		properties.POST("/:id/publish", jwtManager.RequireAuth(), auth.RequireRole(models.RoleSuperAdmin), propertyHandler.PublishProperty)
	}

	api.GET("/rooms/search", propertyHandler.BrowseRooms)

	notifications := api.Group("/notifications", jwtManager.RequireAuth())
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.GET("/ws", notificationHandler.StreamNotifications)
	}

	port := getEnv("PORT", appConfig.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

// applyEnvOverrides lets deployment environment variables win over the YAML
// file for the settings that differ between environments.
func applyEnvOverrides(cfg *config.Config) {
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Database.Port = port
		}
	}
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Search.Meilisearch.Host = getEnv("MEILISEARCH_HOST", cfg.Search.Meilisearch.Host)
	cfg.Search.Meilisearch.APIKey = getEnv("MEILISEARCH_KEY", cfg.Search.Meilisearch.APIKey)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = chatID
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
