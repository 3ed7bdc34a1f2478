package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"autodevstack/internal/aiservice"
	"autodevstack/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Call(ctx context.Context, prompt string, opts aiservice.Options) aiservice.Result
	Select(prompt string, opts aiservice.Options) aiservice.Selection
	BestModels() (*types.BestModels, error)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if len(settings.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: settings.CORSOrigins,
			AllowedMethods: settings.CORSMethods,
			AllowedHeaders: settings.CORSHeaders,
			MaxAge:         300,
		}))
	}

	r.Post("/ai", aiHandler(svc))
	r.Post("/select", selectHandler(svc))
	r.Get("/models/best", bestModelsHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// decodeRequest enforces JSON content type and the body limit.
func decodeRequest(w http.ResponseWriter, r *http.Request) (types.AIRequest, bool) {
	var req types.AIRequest
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return req, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, settings.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Oversized bodies also land here; the size is not disclosed.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Prompt) == "" && len(req.Messages) == 0 {
		writeJSONError(w, http.StatusBadRequest, "prompt is required")
		return req, false
	}
	if req.Task != "" && !req.Task.Valid() {
		writeJSONError(w, http.StatusBadRequest, "task must be one of chat, text-generation, text-to-image")
		return req, false
	}
	return req, true
}

func optionsFrom(req types.AIRequest) aiservice.Options {
	return aiservice.Options{
		Task:           req.Task,
		Model:          req.Model,
		Provider:       req.Provider,
		Messages:       req.Messages,
		ImagePrompt:    req.ImagePrompt,
		Role:           req.Role,
		ProjectContext: req.ProjectContext,
	}
}

// aiHandler godoc
// @Summary      Run a prompt
// @Description  Selects a task and model for the prompt and calls the inference router.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      types.AIRequest  true  "Prompt and overrides"
// @Success      200      {object}  types.AIResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      502      {object}  types.AIResponse
// @Failure      503      {object}  types.AIResponse
// @Router       /ai [post]
func aiHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(baseCtx, r.Context())
		defer cancel()
		if settings.AITimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, settings.AITimeout)
			defer tcancel()
		}
		res := svc.Call(ctx, req.Prompt, optionsFrom(req))
		if r.Context().Err() != nil {
			// Client went away.
			return
		}
		status := http.StatusOK
		if res.Degraded() {
			status = degradedStatus(res.Err)
			degradedTotal.WithLabelValues(itoa(status)).Inc()
		}
		writeJSON(w, status, res.API())
		logEnd(r, lvl, status, start, res.Err)
	}
}

// selectHandler godoc
// @Summary      Resolve task and model
// @Description  Runs task detection and model selection without calling out.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      types.AIRequest  true  "Prompt and overrides"
// @Success      200      {object}  types.SelectionResponse
// @Failure      400      {object}  types.ErrorResponse
// @Router       /select [post]
func selectHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		sel := svc.Select(req.Prompt, optionsFrom(req))
		writeJSON(w, http.StatusOK, types.SelectionResponse{
			Task:    sel.Task,
			Model:   sel.Model,
			Source:  sel.Source,
			Explain: sel.Explain,
		})
	}
}

// bestModelsHandler godoc
// @Summary      Ranking cache
// @Description  Returns best_models.json as produced by update-models.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.BestModels
// @Failure      404  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /models/best [get]
func bestModelsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.BestModels()
		switch {
		case errors.Is(err, fs.ErrNotExist):
			writeJSONError(w, http.StatusNotFound, "ranking cache not found; run update-models")
			return
		case err != nil:
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}
