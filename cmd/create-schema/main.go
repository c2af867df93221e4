package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Sanuthi50/Supercar-predictor/config"
	"github.com/Sanuthi50/Supercar-predictor/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("✓ Database connection successful")

	if err := repository.CreateSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("✓ Created users table")
	log.Println("✓ Created car_predictions table")

	fmt.Println("\n✅ Database schema created successfully!")
	fmt.Println("   Tables: users, car_predictions")
}
