package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"freshCartChurn/app/echo-server/metrics"
	"freshCartChurn/business/predictor"
	"freshCartChurn/domain"
	"freshCartChurn/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	ChurnHandler struct {
		validate    *validator.Validate
		features    FeatureReader
		labels      LabelReader
		predictions PredictionLog
		model       predictor.Classifier
		runID       string
	}

	FeatureReader interface {
		GetByUserID(ctx context.Context, userID uint64) (domain.UserFeatures, error)
		GetAll(ctx context.Context) ([]domain.UserFeatures, error)
		CountUsers(ctx context.Context) (int64, error)
	}

	LabelReader interface {
		GetAll(ctx context.Context) ([]domain.ChurnLabel, error)
		CountChurned(ctx context.Context) (int64, error)
	}

	PredictionLog interface {
		Insert(ctx context.Context, rec domain.PredictionRecord) error
		QueryAll(ctx context.Context) ([]domain.PredictionRecord, error)
	}

	PredictInput struct {
		UserID uint64 `json:"user_id" validate:"required"`
	}

	PredictOutput struct {
		UserID       uint64  `json:"user_id"`
		Probability  float64 `json:"churn_probability"`
		ModelVersion string  `json:"model_version"`
	}

	SummaryOutput struct {
		FeaturizedUsers int64   `json:"featurized_users"`
		LabeledUsers    int     `json:"labeled_users"`
		ChurnedUsers    int64   `json:"churned_users"`
		ChurnRate       float64 `json:"churn_rate"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewChurnHandler(
	features FeatureReader,
	labels LabelReader,
	predictions PredictionLog,
	model predictor.Classifier,
	runID string,
) *ChurnHandler {
	return &ChurnHandler{
		validate:    validator.New(),
		features:    features,
		labels:      labels,
		predictions: predictions,
		model:       model,
		runID:       runID,
	}
}

func (h *ChurnHandler) GetUserFeatures(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	uf, err := h.features.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		logger.Error("Failed to get user features", "user_id", userID, "error", err)
		return c.JSON(http.StatusNotFound, ResponseError{Message: "user features not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(uf))
}

func (h *ChurnHandler) Predict(c echo.Context) error {
	start := time.Now()

	var request PredictInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed predict request validation", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	uf, err := h.features.GetByUserID(c.Request().Context(), request.UserID)
	if err != nil {
		logger.Error("Failed to load features for prediction", "user_id", request.UserID, "error", err)
		return c.JSON(http.StatusNotFound, ResponseError{Message: "user features not found"})
	}

	vec := uf.Vector()
	prob, err := h.model.Predict(vec)
	if err != nil {
		logger.Error("Prediction failed", "user_id", request.UserID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "prediction failed"})
	}

	snapshot := make(datatypes.JSONMap, len(vec))
	for k, v := range vec {
		snapshot[k] = v
	}

	rec := domain.PredictionRecord{
		RunID:        h.runID,
		UserID:       request.UserID,
		Probability:  prob,
		ModelVersion: h.model.Version(),
		Features:     snapshot,
	}
	if err := h.predictions.Insert(c.Request().Context(), rec); err != nil {
		// The prediction itself succeeded; a monitoring write failure
		// is surfaced but does not fail the request.
		logger.Error("Failed to append prediction record", "user_id", request.UserID, "error", err)
	}

	metrics.PredictDuration.Observe(time.Since(start).Seconds())
	metrics.PredictTotal.Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PredictOutput{
		UserID:       request.UserID,
		Probability:  prob,
		ModelVersion: h.model.Version(),
	}))
}

func (h *ChurnHandler) ListPredictions(c echo.Context) error {
	records, err := h.predictions.QueryAll(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read prediction log", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(records))
}

func (h *ChurnHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.features.CountUsers(ctx)
	if err != nil {
		logger.Error("Failed to count featurized users", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	labels, err := h.labels.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to load labels", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	churned, err := h.labels.CountChurned(ctx)
	if err != nil {
		logger.Error("Failed to count churned users", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	out := SummaryOutput{
		FeaturizedUsers: users,
		LabeledUsers:    len(labels),
		ChurnedUsers:    churned,
	}
	if len(labels) > 0 {
		out.ChurnRate = float64(churned) / float64(len(labels))
	}

	metrics.SummaryTotal.Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(out))
}
