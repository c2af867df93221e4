package ml

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrModelNotLoaded signals that no model artifact was loaded at startup.
var ErrModelNotLoaded = errors.New("model not loaded")

// artifact is the serialized regression model: an intercept, one
// coefficient per numeric column, and per-level weights for each
// categorical column with a fallback for unseen levels.
type artifact struct {
	ModelVersion     string                        `json:"model_version"`
	Intercept        float64                       `json:"intercept"`
	Coefficients     map[string]float64            `json:"coefficients"`
	Categories       map[string]map[string]float64 `json:"categories"`
	CategoryDefaults map[string]float64            `json:"category_defaults"`
}

// Model is the loaded regression artifact. One model is loaded per
// process lifetime; it is read-only after Load and safe for concurrent use.
type Model struct {
	art artifact
}

// Load parses a serialized regression artifact.
func Load(data []byte) (*Model, error) {
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}
	if art.Coefficients == nil {
		return nil, errors.New("model artifact has no coefficients")
	}
	return &Model{art: art}, nil
}

// Version returns the version string embedded in the artifact.
func (m *Model) Version() string {
	return m.art.ModelVersion
}

// Predict estimates a sale price for a normalized feature row.
// Estimates are clamped at zero.
func (m *Model) Predict(row FeatureRow) float64 {
	price := m.art.Intercept

	for col, value := range row.numeric() {
		price += m.art.Coefficients[col] * value
	}

	for col, level := range row.categorical() {
		if weights, ok := m.art.Categories[col]; ok {
			if w, ok := weights[level]; ok {
				price += w
				continue
			}
		}
		price += m.art.CategoryDefaults[col]
	}

	if price < 0 {
		return 0
	}
	return price
}

func (r FeatureRow) numeric() map[string]float64 {
	return map[string]float64{
		"year":               float64(r.Year),
		"carbon_fiber_body":  float64(r.CarbonFiberBody),
		"horsepower":         float64(r.Horsepower),
		"torque":             float64(r.Torque),
		"weight_kg":          float64(r.WeightKg),
		"zero_to_60_s":       r.ZeroTo60S,
		"top_speed_mph":      float64(r.TopSpeedMph),
		"num_doors":          float64(r.NumDoors),
		"mileage":            float64(r.Mileage),
		"num_owners":         float64(r.NumOwners),
		"aero_package":       float64(r.AeroPackage),
		"limited_edition":    float64(r.LimitedEdition),
		"has_warranty":       float64(r.HasWarranty),
		"non_original_parts": float64(r.NonOriginalParts),
		"warranty_years":     float64(r.WarrantyYears),
		"damage":             float64(r.Damage),
		"damage_cost":        r.DamageCost,
	}
}

func (r FeatureRow) categorical() map[string]string {
	return map[string]string{
		"brand":             r.Brand,
		"color":             r.Color,
		"engine_config":     r.EngineConfig,
		"transmission":      r.Transmission,
		"drivetrain":        r.Drivetrain,
		"market_region":     r.MarketRegion,
		"interior_material": r.InteriorMaterial,
		"brake_type":        r.BrakeType,
		"tire_brand":        r.TireBrand,
		"last_service_date": r.LastServiceDate,
		"service_history":   r.ServiceHistory,
		"model":             r.Model,
		"damage_type":       r.DamageType,
	}
}
