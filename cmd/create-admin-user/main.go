package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Sanuthi50/Supercar-predictor/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables: %v", err)
	}

	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	// Default admin account for local testing
	username := "admin"
	email := "admin@supercar.com"
	password := "admin123"

	// Check if admin user already exists
	var existingID int64
	err = pool.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&existingID)
	if err == nil {
		log.Printf("User %s already exists (ID: %d)", username, existingID)
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Insert user
	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id
	`, username, email, string(hashedPassword), "Admin", "User").Scan(&userID)

	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("✅ Admin user created successfully!\n")
	fmt.Printf("   ID: %d\n", userID)
	fmt.Printf("   Username: %s\n", username)
	fmt.Printf("   Email: %s\n", email)
	fmt.Printf("   Password: %s\n", password)
}
