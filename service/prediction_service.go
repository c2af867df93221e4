package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sanuthi50/Supercar-predictor/ml"
	"github.com/Sanuthi50/Supercar-predictor/models"
	"github.com/Sanuthi50/Supercar-predictor/repository"

	"github.com/google/uuid"
)

// ErrModelUnavailable signals that no model was loaded at startup. It is
// checked before every inference, never inferred from failures.
var ErrModelUnavailable = errors.New("model not loaded")

// MissingFieldsError reports required prediction inputs absent from the request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// requiredFields must be present in every prediction request.
var requiredFields = []string{"brand", "model", "year"}

// PredictionService handles the predict-and-persist pipeline plus
// history and stats queries.
type PredictionService struct {
	predictions *repository.PredictionRepository
	model       *ml.Model
}

// PredictionServiceOption is a functional option for PredictionService
type PredictionServiceOption func(*PredictionService)

// WithPredictionRepository sets the prediction repository
func WithPredictionRepository(repo *repository.PredictionRepository) PredictionServiceOption {
	return func(s *PredictionService) {
		s.predictions = repo
	}
}

// WithModel sets the loaded regression model. A nil model leaves the
// service up but makes Predict return ErrModelUnavailable.
func WithModel(m *ml.Model) PredictionServiceOption {
	return func(s *PredictionService) {
		s.model = m
	}
}

// NewPredictionService creates a new prediction service
func NewPredictionService(opts ...PredictionServiceOption) *PredictionService {
	s := &PredictionService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelLoaded reports whether a model artifact is available.
func (s *PredictionService) ModelLoaded() bool {
	return s.model != nil
}

// PredictRequest represents one inference request.
type PredictRequest struct {
	Input     map[string]any
	UserIP    string
	RequestID string
	UserID    *int64
}

// PredictResult represents the outcome of one inference request.
type PredictResult struct {
	Prediction *models.CarPrediction
}

// Predict validates the input, normalizes it onto the model schema, runs
// inference, and persists the log row.
func (s *PredictionService) Predict(ctx context.Context, req PredictRequest) (*PredictResult, error) {
	if s.model == nil {
		return nil, ErrModelUnavailable
	}
	if s.predictions == nil {
		return nil, errors.New("prediction repository not set")
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := req.Input[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	row := ml.Normalize(req.Input)
	price := s.model.Predict(row)

	p := predictionRow(row)
	p.PredictedPrice = &price
	p.UserID = req.UserID
	if req.UserIP != "" {
		p.UserIP = &req.UserIP
	}
	if req.RequestID != "" {
		p.RequestID = &req.RequestID
	}
	sessionID := uuid.NewString()
	p.SessionID = &sessionID

	if err := s.predictions.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	return &PredictResult{Prediction: p}, nil
}

// predictionRow copies a normalized feature row into a log row.
func predictionRow(row ml.FeatureRow) *models.CarPrediction {
	return &models.CarPrediction{
		Year:             row.Year,
		Brand:            row.Brand,
		Model:            row.Model,
		Color:            row.Color,
		EngineConfig:     row.EngineConfig,
		Horsepower:       row.Horsepower,
		Torque:           row.Torque,
		WeightKg:         row.WeightKg,
		ZeroTo60S:        row.ZeroTo60S,
		TopSpeedMph:      row.TopSpeedMph,
		NumDoors:         row.NumDoors,
		Transmission:     row.Transmission,
		Drivetrain:       row.Drivetrain,
		MarketRegion:     row.MarketRegion,
		Mileage:          row.Mileage,
		NumOwners:        row.NumOwners,
		InteriorMaterial: row.InteriorMaterial,
		BrakeType:        row.BrakeType,
		TireBrand:        row.TireBrand,
		LastServiceDate:  row.LastServiceDate,
		ServiceHistory:   row.ServiceHistory,
		WarrantyYears:    row.WarrantyYears,
		DamageCost:       row.DamageCost,
		DamageType:       row.DamageType,
		CarbonFiberBody:  models.Flag(row.CarbonFiberBody),
		AeroPackage:      models.Flag(row.AeroPackage),
		LimitedEdition:   models.Flag(row.LimitedEdition),
		HasWarranty:      models.Flag(row.HasWarranty),
		NonOriginalParts: models.Flag(row.NonOriginalParts),
		Damage:           models.Flag(row.Damage),
	}
}

// HistoryRequest represents a history query.
type HistoryRequest struct {
	Brand  string
	Model  string
	Year   *int
	UserID *int64
	Limit  int
	Offset int
}

// HistoryResult represents a page of prediction log rows.
type HistoryResult struct {
	Predictions []*models.CarPrediction
	Total       int64
	Limit       int
	Offset      int
}

// History lists prediction log rows, most recent first.
func (s *PredictionService) History(ctx context.Context, req HistoryRequest) (*HistoryResult, error) {
	if s.predictions == nil {
		return nil, errors.New("prediction repository not set")
	}

	limit := repository.ClampLimit(req.Limit)
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	predictions, total, err := s.predictions.List(ctx, repository.ListFilter{
		Brand:  req.Brand,
		Model:  req.Model,
		Year:   req.Year,
		UserID: req.UserID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	if predictions == nil {
		predictions = []*models.CarPrediction{}
	}

	return &HistoryResult{
		Predictions: predictions,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// Stats computes aggregate statistics, optionally scoped to one user.
func (s *PredictionService) Stats(ctx context.Context, userID *int64) (*models.PredictionStats, error) {
	if s.predictions == nil {
		return nil, errors.New("prediction repository not set")
	}
	return s.predictions.Stats(ctx, userID)
}
