package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Data     DataConfig
	Churn    ChurnConfig
	Pipeline PipelineConfig
	Model    ModelConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type DataConfig struct {
	RawDir       string
	ProcessedDir string
}

type ChurnConfig struct {
	// ThresholdDays is the gap before the next order at which a user
	// counts as churned. MinOrders is the inclusive minimum prior-order
	// count for label eligibility; 0 disables the filter.
	ThresholdDays int
	MinOrders     int
}

type PipelineConfig struct {
	Workers    int
	SampleSeed int64
}

type ModelConfig struct {
	Path    string
	Version string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	threshold, err := getEnvInt("CHURN_THRESHOLD_DAYS", 30)
	if err != nil {
		return nil, errors.New("invalid churn threshold days")
	}

	minOrders, err := getEnvInt("MIN_ORDERS", 3)
	if err != nil {
		return nil, errors.New("invalid min orders")
	}

	workers, err := getEnvInt("PIPELINE_WORKERS", 1)
	if err != nil {
		return nil, errors.New("invalid pipeline workers")
	}

	sampleSeed, err := getEnvInt("SAMPLE_SEED", 42)
	if err != nil {
		return nil, errors.New("invalid sample seed")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "FreshCart Churn API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "freshcart_churn"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Data: DataConfig{
			RawDir:       getEnv("DATA_RAW_DIR", "data/raw"),
			ProcessedDir: getEnv("DATA_PROCESSED_DIR", "data/processed"),
		},
		Churn: ChurnConfig{
			ThresholdDays: threshold,
			MinOrders:     minOrders,
		},
		Pipeline: PipelineConfig{
			Workers:    workers,
			SampleSeed: int64(sampleSeed),
		},
		Model: ModelConfig{
			Path:    getEnv("MODEL_PATH", "models/churn_model.json"),
			Version: getEnv("MODEL_VERSION", "lgbm-v1"),
		},
	}

	if cfg.Churn.ThresholdDays <= 0 {
		return nil, errors.New("churn threshold days must be positive")
	}

	if cfg.Churn.MinOrders < 0 {
		return nil, errors.New("min orders must not be negative")
	}

	if cfg.Pipeline.Workers < 1 {
		return nil, errors.New("pipeline workers must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	return strconv.Atoi(val)
}
