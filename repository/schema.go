package repository

import (
	"context"
	"fmt"
)

// usersSchema holds the account table. Username and email uniqueness is
// enforced here; application-level existence checks are only a fast path.
const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(150) NOT NULL,
	email VARCHAR(254) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	first_name VARCHAR(100),
	last_name VARCHAR(100),
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_login TIMESTAMPTZ,
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_email_key UNIQUE (email)
)`

// predictionsSchema holds the immutable prediction log. user_id is a
// soft back-reference to users.id, null for anonymous predictions.
const predictionsSchema = `
CREATE TABLE IF NOT EXISTS car_predictions (
	id BIGSERIAL PRIMARY KEY,
	year INTEGER NOT NULL,
	brand VARCHAR(100) NOT NULL,
	model VARCHAR(100) NOT NULL,
	color VARCHAR(50) NOT NULL,
	engine_config VARCHAR(50) NOT NULL,
	horsepower INTEGER NOT NULL,
	torque INTEGER NOT NULL,
	weight_kg INTEGER NOT NULL,
	zero_to_60_s DOUBLE PRECISION NOT NULL,
	top_speed_mph INTEGER NOT NULL,
	num_doors INTEGER NOT NULL,
	transmission VARCHAR(50) NOT NULL,
	drivetrain VARCHAR(50) NOT NULL,
	market_region VARCHAR(100) NOT NULL,
	mileage INTEGER NOT NULL,
	num_owners INTEGER NOT NULL,
	interior_material VARCHAR(50) NOT NULL,
	brake_type VARCHAR(50) NOT NULL,
	tire_brand VARCHAR(50) NOT NULL,
	last_service_date VARCHAR(20),
	service_history VARCHAR(50) NOT NULL,
	warranty_years INTEGER NOT NULL,
	damage_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	damage_type VARCHAR(50),
	carbon_fiber_body INTEGER NOT NULL DEFAULT 0,
	aero_package INTEGER NOT NULL DEFAULT 0,
	limited_edition INTEGER NOT NULL DEFAULT 0,
	has_warranty INTEGER NOT NULL DEFAULT 0,
	non_original_parts INTEGER NOT NULL DEFAULT 0,
	damage INTEGER NOT NULL DEFAULT 0,
	predicted_price DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	user_ip VARCHAR(45),
	session_id VARCHAR(100),
	request_id VARCHAR(100),
	user_id BIGINT
)`

var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_car_predictions_created_at ON car_predictions(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_car_predictions_brand ON car_predictions(brand)",
	"CREATE INDEX IF NOT EXISTS idx_car_predictions_user_id ON car_predictions(user_id) WHERE user_id IS NOT NULL",
}

// CreateSchema creates missing tables and indexes. It never drops or
// modifies existing data.
func CreateSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	if _, err := db.Exec(ctx, predictionsSchema); err != nil {
		return fmt.Errorf("failed to create car_predictions table: %w", err)
	}
	for _, idx := range schemaIndexes {
		if _, err := db.Exec(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
