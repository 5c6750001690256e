package ml

import (
	"context"
	"errors"
	"fmt"
)

type MLModel interface {
	Train(features [][]float64, labels []int) error
	Predict(features []float64) (int, float64, error)
	Save(path string) error
	Load(path string) error
}

// Pipeline maps a matrix of feature rows to a prediction. The value is opaque
// to callers and only ever rendered as text.
type Pipeline interface {
	Predict(ctx context.Context, data [][]float64) (interface{}, error)
}

// PipelineFunc adapts a function to Pipeline.
type PipelineFunc func(ctx context.Context, data [][]float64) (interface{}, error)

func (f PipelineFunc) Predict(ctx context.Context, data [][]float64) (interface{}, error) {
	return f(ctx, data)
}

// HealthChecker is implemented by pipelines that can report readiness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Predictor turns named measurements into a single-row matrix and delegates
// to the pipeline. It does no scaling or range checks.
type Predictor struct {
	pipeline Pipeline
}

func NewPredictor(pipeline Pipeline) *Predictor {
	return &Predictor{pipeline: pipeline}
}

// Predict returns the pipeline's result unmodified.
func (p *Predictor) Predict(ctx context.Context, values map[string]string) (interface{}, error) {
	if p == nil || p.pipeline == nil {
		return nil, errors.New("prediction pipeline not configured")
	}
	vector, err := FeatureVector(values)
	if err != nil {
		return nil, err
	}
	prediction, err := p.pipeline.Predict(ctx, Reshape(vector))
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}
	return prediction, nil
}

// Health reports whether the pipeline can serve. Pipelines without a check
// are always healthy.
func (p *Predictor) Health(ctx context.Context) error {
	if p == nil || p.pipeline == nil {
		return errors.New("prediction pipeline not configured")
	}
	if checker, ok := p.pipeline.(HealthChecker); ok {
		return checker.Health(ctx)
	}
	return nil
}
