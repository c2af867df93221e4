package main

import (
	"context"
	"log"
	"time"

	"github.com/Sanuthi50/Supercar-predictor/config"
	"github.com/Sanuthi50/Supercar-predictor/handlers"
	"github.com/Sanuthi50/Supercar-predictor/ml"
	"github.com/Sanuthi50/Supercar-predictor/repository"
	"github.com/Sanuthi50/Supercar-predictor/service"
	"github.com/Sanuthi50/Supercar-predictor/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg := config.Load()

	// Initialize database connection
	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Postgres:", err)
	}
	defer db.Close()

	// Load the regression model. A missing model keeps the server up;
	// /predict answers 503 until a model is present at next start.
	model := loadModel(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	predictionService := service.NewPredictionService(
		service.WithPredictionRepository(predictionRepo),
		service.WithModel(model),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	healthHandler := handlers.NewHealthHandler(db, predictionService.ModelLoaded, cfg.Env)
	adminHandler := handlers.NewAdminHandler(db)

	// Setup Gin router
	r := gin.Default()
	r.Use(handlers.RequestID())
	r.Use(handlers.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(handlers.SessionMiddleware(cfg.SessionSecret))

	r.GET("/health", healthHandler.Check)

	r.POST("/predict", predictionHandler.Predict)
	r.GET("/predictions/history", predictionHandler.History)
	r.GET("/predictions/stats", predictionHandler.Stats)

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/profile", authHandler.Profile)
	r.GET("/auth/check", authHandler.Check)

	r.POST("/database/init", adminHandler.InitDatabase)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initPostgres(cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = cfg.PoolMaxConns
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Postgres connection established")
	return pool, nil
}

func loadModel(cfg *config.Config) *ml.Model {
	source, err := storage.NewSourceFromEnv()
	if err != nil {
		log.Printf("Warning: Failed to initialize model storage: %v", err)
		return nil
	}

	data, err := source.Fetch(context.Background(), cfg.ModelPath)
	if err != nil {
		log.Printf("Warning: Error loading model: %v", err)
		return nil
	}

	model, err := ml.Load(data)
	if err != nil {
		log.Printf("Warning: Error loading model: %v", err)
		return nil
	}

	log.Printf("Model loaded successfully from %s (version %s)", cfg.ModelPath, model.Version())
	return model
}
