package repository

import (
	"context"
	"fmt"

	"github.com/Sanuthi50/Supercar-predictor/models"
)

// Pagination bounds for prediction history queries.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ClampLimit applies the default and the hard cap to a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// PredictionRepository handles database operations for prediction log rows
type PredictionRepository struct {
	db DB
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

const predictionColumns = `id, year, brand, model, color, engine_config, horsepower, torque,
		weight_kg, zero_to_60_s, top_speed_mph, num_doors, transmission, drivetrain,
		market_region, mileage, num_owners, interior_material, brake_type, tire_brand,
		last_service_date, service_history, warranty_years, damage_cost, damage_type,
		carbon_fiber_body, aero_package, limited_edition, has_warranty, non_original_parts,
		damage, predicted_price, created_at, user_ip, session_id, request_id, user_id`

// Create inserts a single prediction log row. Rows are never updated
// afterwards.
func (r *PredictionRepository) Create(ctx context.Context, p *models.CarPrediction) error {
	query := `
		INSERT INTO car_predictions (
			year, brand, model, color, engine_config, horsepower, torque,
			weight_kg, zero_to_60_s, top_speed_mph, num_doors, transmission, drivetrain,
			market_region, mileage, num_owners, interior_material, brake_type, tire_brand,
			last_service_date, service_history, warranty_years, damage_cost, damage_type,
			carbon_fiber_body, aero_package, limited_edition, has_warranty, non_original_parts,
			damage, predicted_price, user_ip, session_id, request_id, user_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35
		) RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		p.Year,
		p.Brand,
		p.Model,
		p.Color,
		p.EngineConfig,
		p.Horsepower,
		p.Torque,
		p.WeightKg,
		p.ZeroTo60S,
		p.TopSpeedMph,
		p.NumDoors,
		p.Transmission,
		p.Drivetrain,
		p.MarketRegion,
		p.Mileage,
		p.NumOwners,
		p.InteriorMaterial,
		p.BrakeType,
		p.TireBrand,
		p.LastServiceDate,
		p.ServiceHistory,
		p.WarrantyYears,
		p.DamageCost,
		p.DamageType,
		int(p.CarbonFiberBody),
		int(p.AeroPackage),
		int(p.LimitedEdition),
		int(p.HasWarranty),
		int(p.NonOriginalParts),
		int(p.Damage),
		p.PredictedPrice,
		p.UserIP,
		p.SessionID,
		p.RequestID,
		p.UserID,
	).Scan(&p.ID, &p.CreatedAt)

	return err
}

// ListFilter narrows and paginates a history query.
type ListFilter struct {
	Brand  string // substring match
	Model  string // substring match
	Year   *int
	UserID *int64
	Limit  int
	Offset int
}

// List retrieves prediction log rows ordered by creation time descending,
// along with the total row count matching the filters. The page size is
// clamped to MaxLimit and defaults to DefaultLimit.
func (r *PredictionRepository) List(ctx context.Context, f ListFilter) ([]*models.CarPrediction, int64, error) {
	where := ""
	args := []any{}
	argIndex := 1

	addClause := func(clause string, arg any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argIndex)
		args = append(args, arg)
		argIndex++
	}

	if f.UserID != nil {
		addClause("user_id = $%d", *f.UserID)
	}
	if f.Brand != "" {
		addClause("brand ILIKE $%d", "%"+f.Brand+"%")
	}
	if f.Model != "" {
		addClause("model ILIKE $%d", "%"+f.Model+"%")
	}
	if f.Year != nil {
		addClause("year = $%d", *f.Year)
	}

	var total int64
	countQuery := "SELECT COUNT(id) FROM car_predictions" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := ClampLimit(f.Limit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := "SELECT " + predictionColumns + " FROM car_predictions" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var predictions []*models.CarPrediction
	for rows.Next() {
		p := &models.CarPrediction{}
		err := rows.Scan(
			&p.ID,
			&p.Year,
			&p.Brand,
			&p.Model,
			&p.Color,
			&p.EngineConfig,
			&p.Horsepower,
			&p.Torque,
			&p.WeightKg,
			&p.ZeroTo60S,
			&p.TopSpeedMph,
			&p.NumDoors,
			&p.Transmission,
			&p.Drivetrain,
			&p.MarketRegion,
			&p.Mileage,
			&p.NumOwners,
			&p.InteriorMaterial,
			&p.BrakeType,
			&p.TireBrand,
			&p.LastServiceDate,
			&p.ServiceHistory,
			&p.WarrantyYears,
			&p.DamageCost,
			&p.DamageType,
			&p.CarbonFiberBody,
			&p.AeroPackage,
			&p.LimitedEdition,
			&p.HasWarranty,
			&p.NonOriginalParts,
			&p.Damage,
			&p.PredictedPrice,
			&p.CreatedAt,
			&p.UserIP,
			&p.SessionID,
			&p.RequestID,
			&p.UserID,
		)
		if err != nil {
			return nil, 0, err
		}
		predictions = append(predictions, p)
	}

	return predictions, total, rows.Err()
}

// Stats computes the aggregate statistics over prediction log rows,
// optionally scoped to one user. All aggregation happens in SQL.
func (r *PredictionRepository) Stats(ctx context.Context, userID *int64) (*models.PredictionStats, error) {
	where := ""
	args := []any{}
	if userID != nil {
		where = " WHERE user_id = $1"
		args = append(args, *userID)
	}

	stats := &models.PredictionStats{}

	query := `
		SELECT COUNT(id),
			COALESCE(AVG(predicted_price), 0),
			COALESCE(MAX(predicted_price), 0),
			COALESCE(MIN(predicted_price), 0),
			COALESCE(STDDEV(predicted_price), 0)
		FROM car_predictions` + where

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&stats.TotalPredictions,
		&stats.AveragePrice,
		&stats.MaximumPrice,
		&stats.MinimumPrice,
		&stats.PriceStandardDeviation,
	)
	if err != nil {
		return nil, err
	}

	brandQuery := `
		SELECT brand, COUNT(id) AS count
		FROM car_predictions` + where + `
		GROUP BY brand
		ORDER BY count DESC
		LIMIT 5`

	rows, err := r.db.Query(ctx, brandQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.PopularBrands = []models.BrandCount{}
	for rows.Next() {
		var bc models.BrandCount
		if err := rows.Scan(&bc.Brand, &bc.Count); err != nil {
			return nil, err
		}
		stats.PopularBrands = append(stats.PopularBrands, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recentQuery := `
		SELECT COUNT(id) FROM car_predictions
		WHERE created_at >= NOW() - INTERVAL '24 hours'`
	if userID != nil {
		recentQuery += " AND user_id = $1"
	}

	if err := r.db.QueryRow(ctx, recentQuery, args...).Scan(&stats.RecentPredictions24h); err != nil {
		return nil, err
	}

	return stats, nil
}
