// Command predict scores one wine from the command line with the configured
// prediction pipeline.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"winequality/config"
	"winequality/logging"
	"winequality/ml"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool
	values := make(map[string]*string, len(ml.FeatureNames))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict wine quality from eleven measurements",
		Example: "  predict --fixed_acidity 7.4 --volatile_acidity 0.7 --citric_acid 0 --residual_sugar 1.9 \\\n" +
			"    --chlorides 0.076 --free_sulfur_dioxide 11 --total_sulfur_dioxide 34 --density 0.9978 \\\n" +
			"    --pH 3.51 --sulphates 0.56 --alcohol 9.4",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger := logging.NewWithWriter(config.LogConfig{Mode: config.LogModePrint, Level: level}, cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			set := make(map[string]string, len(values))
			for name, v := range values {
				if cmd.Flags().Changed(name) {
					set[name] = *v
				}
			}
			return predict(cmd.Context(), cfg.Pipeline, set, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	for _, name := range ml.FeatureNames {
		values[name] = cmd.Flags().String(name, "", name+" measurement")
	}
	return cmd
}

func predict(ctx context.Context, cfg config.PipelineConfig, values map[string]string, out io.Writer, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pipeline, closePipeline, err := ml.OpenPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePipeline()

	prediction, err := ml.NewPredictor(pipeline).Predict(ctx, values)
	if err != nil {
		logger.Debug("prediction failed", zap.Error(err))
		return err
	}
	_, err = fmt.Fprintln(out, fmt.Sprint(prediction))
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}
