package ml

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"winequality/config"
)

// OpenPipeline builds the pipeline named by cfg.Kind. The returned close
// function releases whatever the pipeline holds and is never nil.
func OpenPipeline(ctx context.Context, cfg config.PipelineConfig, logger *zap.Logger) (Pipeline, func() error, error) {
	switch cfg.Kind {
	case config.PipelineTree:
		store, err := NewModelStore(cfg.CacheSize, logger)
		if err != nil {
			return nil, nil, err
		}
		store.Start(ctx)
		return NewTreePipeline(store, cfg.ModelType, cfg.ModelPath), store.Close, nil
	case config.PipelineRemote:
		return NewRemotePipeline(cfg.URL, cfg.Timeout), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown pipeline kind %q", cfg.Kind)
	}
}
