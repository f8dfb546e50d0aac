package main

import (
	"context"
	"fmt"
	"freshCartChurn/app/echo-server/metrics"
	"freshCartChurn/app/echo-server/router"
	"freshCartChurn/business/predictor"
	"freshCartChurn/internal/repository/postgres"
	"freshCartChurn/internal/rest"
	"freshCartChurn/pkg/config"
	"freshCartChurn/pkg/database"
	"freshCartChurn/pkg/logger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting FreshCart Churn API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	model, err := predictor.LoadLogisticModel(cfg.Model.Path)
	if err != nil {
		logger.Fatal("Failed to load model artifact", "path", cfg.Model.Path, "error", err)
	}

	logger.Info("Model loaded", "version", model.Version())

	metrics.Init()

	// Init repo
	featureRepo := postgres.NewFeatureRepository(db)
	labelRepo := postgres.NewLabelRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)

	// Init handler. The run id tags every prediction this process writes
	// into the monitoring log.
	runID := uuid.NewString()
	churnHandler := rest.NewChurnHandler(featureRepo, labelRepo, predictionRepo, model, runID)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupChurnRoutes(api, churnHandler, cfg.JWT.SecretKey)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
