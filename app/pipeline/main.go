package main

import (
	"context"
	"flag"
	"log"
	"os"

	"freshCartChurn/business/dataset"
	"freshCartChurn/business/features"
	"freshCartChurn/business/labels"
	"freshCartChurn/internal/repository/csvstore"
	"freshCartChurn/internal/repository/postgres"
	"freshCartChurn/pkg/config"
	"freshCartChurn/pkg/database"
	"freshCartChurn/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	sample := flag.Int("sample", 0, "featurize only this many users, 0 means all")
	policy := flag.String("policy", string(labels.PolicyHoldout), "label policy: holdout or order_gap_proxy")
	dryRun := flag.Bool("dry-run", false, "build everything but skip the database write")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	runID := uuid.NewString()
	logger.Info("Starting churn pipeline",
		"run_id", runID,
		"raw_dir", cfg.Data.RawDir,
		"policy", *policy,
		"workers", cfg.Pipeline.Workers,
	)

	ctx := context.Background()

	rawRepo := csvstore.NewRepository(cfg.Data.RawDir)
	datasetService := dataset.NewService(rawRepo)

	ds, err := datasetService.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load raw dataset", "error", err)
	}

	if *sample > 0 {
		ds = dataset.SampleUsers(ds, *sample, cfg.Pipeline.SampleSeed)
		logger.Info("Sampled dataset", "users", *sample, "seed", cfg.Pipeline.SampleSeed)
	}

	split := dataset.SplitEvalSets(ds)
	logger.Info("Eval sets split",
		"prior_orders", len(split.PriorOrders),
		"train_orders", len(split.TrainOrders),
		"test_orders", len(split.TestOrders),
	)

	labelService := labels.NewService(float64(cfg.Churn.ThresholdDays), cfg.Churn.MinOrders)
	churnLabels, err := labelService.BuildWithPolicy(ds.Orders, labels.Policy(*policy))
	if err != nil {
		logger.Fatal("Failed to build churn labels", "error", err)
	}
	labelService.Distribution(churnLabels)

	featureService := features.NewService(cfg.Pipeline.Workers)
	matrix, err := featureService.BuildMatrix(ctx, split.PriorOrders, split.PriorLines, ds.Products)
	if err != nil {
		logger.Fatal("Failed to build feature matrix", "error", err)
	}

	scores := features.BuildRFMScores(matrix)

	if err := os.MkdirAll(cfg.Data.ProcessedDir, 0o755); err != nil {
		logger.Fatal("Failed to create processed dir", "dir", cfg.Data.ProcessedDir, "error", err)
	}

	checkpoints := csvstore.NewCheckpointWriter(cfg.Data.ProcessedDir)
	if err := checkpoints.WriteFeatures(matrix); err != nil {
		logger.Fatal("Failed to write feature checkpoint", "error", err)
	}
	if err := checkpoints.WriteLabels(churnLabels); err != nil {
		logger.Fatal("Failed to write label checkpoint", "error", err)
	}

	logger.Info("Checkpoints written", "dir", cfg.Data.ProcessedDir)

	if *dryRun {
		logger.Info("Dry run, skipping database write", "run_id", runID)
		return
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	featureRepo := postgres.NewFeatureRepository(db)
	labelRepo := postgres.NewLabelRepository(db)
	rfmRepo := postgres.NewRFMRepository(db)

	if err := featureRepo.ReplaceAll(ctx, matrix); err != nil {
		logger.Fatal("Failed to persist feature matrix", "error", err)
	}
	if err := labelRepo.ReplaceAll(ctx, churnLabels); err != nil {
		logger.Fatal("Failed to persist churn labels", "error", err)
	}
	if err := rfmRepo.ReplaceAll(ctx, scores); err != nil {
		logger.Fatal("Failed to persist rfm scores", "error", err)
	}

	segments, err := rfmRepo.CountBySegment(ctx)
	if err != nil {
		logger.Error("Failed to read back segment counts", "error", err)
	} else {
		logger.Info("Segment counts", "segments", segments)
	}

	logger.Info("Pipeline finished",
		"run_id", runID,
		"featurized_users", len(matrix),
		"labeled_users", len(churnLabels),
	)
}
