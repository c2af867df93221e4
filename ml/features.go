package ml

import (
	"fmt"
	"strconv"
)

// Columns lists the model's input schema in training order.
var Columns = []string{
	"year", "brand", "color", "carbon_fiber_body", "engine_config",
	"horsepower", "torque", "weight_kg", "zero_to_60_s", "top_speed_mph",
	"num_doors", "transmission", "drivetrain", "market_region", "mileage",
	"num_owners", "interior_material", "brake_type", "tire_brand",
	"aero_package", "limited_edition", "has_warranty", "last_service_date",
	"service_history", "non_original_parts", "model", "warranty_years",
	"damage", "damage_cost", "damage_type",
}

// FeatureRow is the fully populated, type-coerced 30-column input row.
type FeatureRow struct {
	Year             int
	Brand            string
	Color            string
	CarbonFiberBody  int
	EngineConfig     string
	Horsepower       int
	Torque           int
	WeightKg         int
	ZeroTo60S        float64
	TopSpeedMph      int
	NumDoors         int
	Transmission     string
	Drivetrain       string
	MarketRegion     string
	Mileage          int
	NumOwners        int
	InteriorMaterial string
	BrakeType        string
	TireBrand        string
	AeroPackage      int
	LimitedEdition   int
	HasWarranty      int
	LastServiceDate  string
	ServiceHistory   string
	NonOriginalParts int
	Model            string
	WarrantyYears    int
	Damage           int
	DamageCost       float64
	DamageType       string
}

// Normalize maps a partial input record onto the fixed feature schema.
// Recognized columns absent or null in the input get per-column defaults;
// numeric values that cannot be parsed collapse to zero. Extra keys are
// ignored. Normalize never fails, whatever the input looks like.
func Normalize(input map[string]any) FeatureRow {
	return FeatureRow{
		Year:             intField(input, "year", 2020),
		Brand:            strField(input, "brand", "unknown"),
		Color:            strField(input, "color", "unknown"),
		CarbonFiberBody:  intField(input, "carbon_fiber_body", 0),
		EngineConfig:     strField(input, "engine_config", "unknown"),
		Horsepower:       intField(input, "horsepower", 0),
		Torque:           intField(input, "torque", 0),
		WeightKg:         intField(input, "weight_kg", 0),
		ZeroTo60S:        floatField(input, "zero_to_60_s", 0.0),
		TopSpeedMph:      intField(input, "top_speed_mph", 0),
		NumDoors:         intField(input, "num_doors", 2),
		Transmission:     strField(input, "transmission", "unknown"),
		Drivetrain:       strField(input, "drivetrain", "unknown"),
		MarketRegion:     strField(input, "market_region", "unknown"),
		Mileage:          intField(input, "mileage", 0),
		NumOwners:        intField(input, "num_owners", 0),
		InteriorMaterial: strField(input, "interior_material", "unknown"),
		BrakeType:        strField(input, "brake_type", "unknown"),
		TireBrand:        strField(input, "tire_brand", "unknown"),
		AeroPackage:      intField(input, "aero_package", 0),
		LimitedEdition:   intField(input, "limited_edition", 0),
		HasWarranty:      intField(input, "has_warranty", 0),
		LastServiceDate:  strField(input, "last_service_date", ""),
		ServiceHistory:   strField(input, "service_history", "unknown"),
		NonOriginalParts: intField(input, "non_original_parts", 0),
		Model:            strField(input, "model", "unknown"),
		WarrantyYears:    intField(input, "warranty_years", 0),
		Damage:           intField(input, "damage", 0),
		DamageCost:       floatField(input, "damage_cost", 0.0),
		DamageType:       strField(input, "damage_type", "none"),
	}
}

func strField(input map[string]any, key, def string) string {
	v, ok := input[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// intField returns def when the column is absent or null, and 0 when a
// present value cannot be coerced to a number.
func intField(input map[string]any, key string, def int) int {
	v, ok := input[key]
	if !ok || v == nil {
		return def
	}
	return int(coerceNumber(v))
}

func floatField(input map[string]any, key string, def float64) float64 {
	v, ok := input[key]
	if !ok || v == nil {
		return def
	}
	return coerceNumber(v)
}

func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
