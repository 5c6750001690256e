package ml

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPredictorPassesVector(t *testing.T) {
	var got [][]float64
	predictor := NewPredictor(PipelineFunc(func(ctx context.Context, data [][]float64) (interface{}, error) {
		got = data
		return []int{5}, nil
	}))

	prediction, err := predictor.Predict(context.Background(), sampleValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]float64{{7.4, 0.7, 0.0, 1.9, 0.076, 11, 34, 0.9978, 3.51, 0.56, 9.4, 0.0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pipeline got %v, want %v", got, want)
	}
	if !reflect.DeepEqual(prediction, []int{5}) {
		t.Fatalf("unexpected prediction: %v", prediction)
	}
}

func TestPredictorValidationSkipsPipeline(t *testing.T) {
	called := false
	predictor := NewPredictor(PipelineFunc(func(ctx context.Context, data [][]float64) (interface{}, error) {
		called = true
		return nil, nil
	}))

	values := sampleValues()
	delete(values, "chlorides")
	_, err := predictor.Predict(context.Background(), values)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if called {
		t.Fatal("pipeline should not be called")
	}
}

func TestPredictorWrapsPipelineError(t *testing.T) {
	boom := errors.New("model file missing")
	predictor := NewPredictor(PipelineFunc(func(ctx context.Context, data [][]float64) (interface{}, error) {
		return nil, boom
	}))

	_, err := predictor.Predict(context.Background(), sampleValues())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "model file missing") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestPredictorWithoutPipeline(t *testing.T) {
	var predictor *Predictor
	if _, err := predictor.Predict(context.Background(), sampleValues()); err == nil {
		t.Fatal("expected error")
	}
}

type healthPipeline struct {
	PipelineFunc
	err error
}

func (p healthPipeline) Health(ctx context.Context) error {
	return p.err
}

func TestPredictorHealth(t *testing.T) {
	noop := PipelineFunc(func(ctx context.Context, data [][]float64) (interface{}, error) {
		return nil, nil
	})

	if err := NewPredictor(noop).Health(context.Background()); err != nil {
		t.Fatalf("pipeline without a check should be healthy, got %v", err)
	}

	down := errors.New("model server down")
	if err := NewPredictor(healthPipeline{PipelineFunc: noop, err: down}).Health(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected pipeline health error, got %v", err)
	}

	var predictor *Predictor
	if err := predictor.Health(context.Background()); err == nil {
		t.Fatal("expected error without pipeline")
	}
}
