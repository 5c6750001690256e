package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"winequality/ml"
)

// Predictor is the prediction capability the web layer needs.
type Predictor interface {
	Predict(ctx context.Context, values map[string]string) (interface{}, error)
}

// HealthChecker is optionally implemented by a Predictor.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler serves the form and prediction pages.
type Handler struct {
	predictor        Predictor
	templates        *template.Template
	fields           []formField
	logger           *zap.Logger
	predictFormOnGet bool
}

func NewHandler(predictor Predictor, logger *zap.Logger, predictFormOnGet bool) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		predictor:        predictor,
		templates:        tmpl,
		fields:           formFields(),
		logger:           logger,
		predictFormOnGet: predictFormOnGet,
	}, nil
}

func RegisterHandlers(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.handleHome)
	mux.HandleFunc("POST /predict", h.handlePredict)
	if h.predictFormOnGet {
		mux.HandleFunc("GET /predict", h.handleHome)
	}
	mux.HandleFunc("GET /api/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if checker, ok := h.predictor.(HealthChecker); ok {
		if err := checker.Health(r.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, "")
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	prediction, err := h.predict(r)
	if err != nil {
		h.logger.Error("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		h.renderForm(w, err.Error())
		return
	}

	page := resultPage{Prediction: fmt.Sprint(prediction)}
	if err := render(w, h.templates, resultTemplate, page); err != nil {
		h.renderFailed(w, resultTemplate, err)
	}
}

// predict returns pipeline panics as errors.
func (h *Handler) predict(r *http.Request) (prediction interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			prediction = nil
			err = fmt.Errorf("prediction panicked: %v", rec)
		}
	}()

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	values := make(map[string]string, len(ml.FeatureNames))
	for _, name := range ml.FeatureNames {
		if v, ok := r.PostForm[name]; ok && len(v) > 0 {
			values[name] = v[0]
		}
	}
	return h.predictor.Predict(r.Context(), values)
}

func (h *Handler) renderForm(w http.ResponseWriter, errMsg string) {
	page := formPage{Fields: h.fields, Error: errMsg}
	if err := render(w, h.templates, formTemplate, page); err != nil {
		h.renderFailed(w, formTemplate, err)
	}
}

func (h *Handler) renderFailed(w http.ResponseWriter, name string, err error) {
	h.logger.Error("render failed", zap.String("template", name), zap.Error(err))
	http.Error(w, "failed to render page", http.StatusInternalServerError)
}
