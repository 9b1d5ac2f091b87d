package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/middleware"
	"retailpulse/internal/services"
	"retailpulse/pkg/contracts/domain"
)

// DatasetHandler handles dataset upload and summary HTTP requests
type DatasetHandler struct {
	service        AnalyticsServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *DatasetHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/datasets", h.GetDatasets)
	r.Get("/summary", h.GetSummary)
	r.Get("/bundle", h.GetBundle)

	r.Route("/datasets/{kind}", func(r chi.Router) {
		r.Use(h.KindCtx)
		r.Post("/", h.UploadDataset)
	})

	return r
}

// KindCtx middleware validates the dataset kind parameter
func (h *DatasetHandler) KindCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind := domain.DatasetKind(chi.URLParam(r, "kind"))
		if !kind.Valid() {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind",
				"Dataset kind must be one of: sales, inventory, reviews"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UploadDataset handles POST /api/datasets/{kind}
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetRequestID(ctx)
	kind := domain.DatasetKind(chi.URLParam(r, "kind"))

	h.logger.InfoContext(ctx, "dataset upload started",
		slog.String("request_id", reqID),
		slog.String("dataset", string(kind)))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Multipart file field is required"))
		return
	}
	defer file.Close()

	result, err := h.service.IngestDataset(ctx, kind, header.Filename, file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if !result.Validation.Valid {
		// Validation is advisory data; the transport layer is the caller
		// that rejects here, surfacing the full error list at once.
		h.errorHandler.HandleError(w, r, apierrors.DatasetValidationError(string(kind), result.Validation.Errors))
		return
	}

	h.logger.InfoContext(ctx, "dataset upload complete",
		slog.String("request_id", reqID),
		slog.String("dataset", string(kind)),
		slog.Int("rows", result.Rows))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// GetDatasets handles GET /api/datasets
func (h *DatasetHandler) GetDatasets(w http.ResponseWriter, r *http.Request) {
	statuses := h.service.Status(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"datasets": statuses,
	})
}

// GetSummary handles GET /api/summary
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lowStockLimit, ok := h.lowStockLimit(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(ctx, lowStockLimit)
	if err != nil {
		if errors.Is(err, services.ErrBundleIncomplete) {
			h.errorHandler.HandleError(w, r, apierrors.ErrBundleIncomplete)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetBundle handles GET /api/bundle, the hand-off shape for the
// presentation layer: summary plus the three validated record sequences
func (h *DatasetHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lowStockLimit, ok := h.lowStockLimit(w, r)
	if !ok {
		return
	}

	bundle, summary, err := h.service.Bundle(ctx, lowStockLimit)
	if err != nil {
		if errors.Is(err, services.ErrBundleIncomplete) {
			h.errorHandler.HandleError(w, r, apierrors.ErrBundleIncomplete)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"bundle":  bundle,
		"summary": summary,
	})
}

// lowStockLimit parses the optional low_stock_limit query parameter; 0 means
// use the configured default
func (h *DatasetHandler) lowStockLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("low_stock_limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("low_stock_limit",
			"low_stock_limit must be an integer between 1 and 100"))
		return 0, false
	}
	return limit, true
}
