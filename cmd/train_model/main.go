package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"winequality/config"
	"winequality/logging"
	"winequality/ml"
)

func main() {
	dataPath := flag.String("data", "", "wine quality CSV")
	modelPath := flag.String("model_path", "./artifacts/model_trainer/model.json", "model output path")
	maxDepth := flag.Int("max_depth", 8, "max tree depth")
	testRatio := flag.Float64("test_ratio", 0.2, "test ratio")
	seed := flag.Int64("seed", time.Now().UnixNano(), "shuffle seed")
	flag.Parse()

	logger := logging.NewWithWriter(config.LogConfig{Mode: config.LogModePrint, Level: "info"}, os.Stderr)
	defer func() { _ = logger.Sync() }()

	if *dataPath == "" {
		logger.Fatal("data is required")
	}
	if err := train(*dataPath, *modelPath, *maxDepth, *testRatio, *seed, logger); err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
	fmt.Printf("model saved to %s\n", *modelPath)
}

func train(dataPath, modelPath string, maxDepth int, testRatio float64, seed int64, logger *zap.Logger) error {
	file, err := os.Open(dataPath)
	if err != nil {
		return err
	}
	defer file.Close()

	features, labels, err := ml.LoadDataset(file)
	if err != nil {
		return fmt.Errorf("failed to build training data: %w", err)
	}
	trainX, trainY, testX, testY := ml.SplitDataset(features, labels, testRatio, seed)
	logger.Info("dataset loaded",
		zap.Int("rows", len(features)),
		zap.Int("train", len(trainX)),
		zap.Int("test", len(testX)),
	)

	model := ml.NewDecisionTree(maxDepth)
	if err := model.Train(trainX, trainY); err != nil {
		return fmt.Errorf("failed to train model: %w", err)
	}

	accuracy, mae := ml.Evaluate(model, testX, testY)
	logger.Info("model evaluated", zap.Float64("accuracy", accuracy), zap.Float64("mae", mae))

	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return fmt.Errorf("failed to create model dir: %w", err)
	}
	return model.Save(modelPath)
}
