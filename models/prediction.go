package models

import "time"

// Flag is a 0/1 integer column serialized as a JSON boolean.
type Flag int

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f != 0 {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting booleans and numbers.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*f = 1
	case "false", "null", "0":
		*f = 0
	default:
		*f = 1
	}
	return nil
}

// CarPrediction is an immutable log row for one inference request: the
// normalized feature vector, the predicted price, and request provenance.
type CarPrediction struct {
	ID int64 `json:"id"`

	Year             int     `json:"year"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Color            string  `json:"color"`
	EngineConfig     string  `json:"engine_config"`
	Horsepower       int     `json:"horsepower"`
	Torque           int     `json:"torque"`
	WeightKg         int     `json:"weight_kg"`
	ZeroTo60S        float64 `json:"zero_to_60_s"`
	TopSpeedMph      int     `json:"top_speed_mph"`
	NumDoors         int     `json:"num_doors"`
	Transmission     string  `json:"transmission"`
	Drivetrain       string  `json:"drivetrain"`
	MarketRegion     string  `json:"market_region"`
	Mileage          int     `json:"mileage"`
	NumOwners        int     `json:"num_owners"`
	InteriorMaterial string  `json:"interior_material"`
	BrakeType        string  `json:"brake_type"`
	TireBrand        string  `json:"tire_brand"`
	LastServiceDate  string  `json:"last_service_date"`
	ServiceHistory   string  `json:"service_history"`
	WarrantyYears    int     `json:"warranty_years"`
	DamageCost       float64 `json:"damage_cost"`
	DamageType       string  `json:"damage_type"`
	CarbonFiberBody  Flag    `json:"carbon_fiber_body"`
	AeroPackage      Flag    `json:"aero_package"`
	LimitedEdition   Flag    `json:"limited_edition"`
	HasWarranty      Flag    `json:"has_warranty"`
	NonOriginalParts Flag    `json:"non_original_parts"`
	Damage           Flag    `json:"damage"`

	PredictedPrice *float64  `json:"predicted_price"`
	CreatedAt      time.Time `json:"created_at"`
	UserIP         *string   `json:"user_ip"`
	SessionID      *string   `json:"session_id"`
	RequestID      *string   `json:"request_id"`
	UserID         *int64    `json:"user_id"`
}

// BrandCount is one entry of the top-brands aggregate.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// PredictionStats holds the aggregate statistics over prediction log rows.
type PredictionStats struct {
	TotalPredictions       int64        `json:"total_predictions"`
	AveragePrice           float64      `json:"average_price"`
	MaximumPrice           float64      `json:"maximum_price"`
	MinimumPrice           float64      `json:"minimum_price"`
	PriceStandardDeviation float64      `json:"price_standard_deviation"`
	PopularBrands          []BrandCount `json:"popular_brands"`
	RecentPredictions24h   int64        `json:"recent_predictions_24h"`
}
