package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/scrape-service/internal/delivery/http/request"
	"github.com/user/scrape-service/internal/delivery/http/response"
	"github.com/user/scrape-service/internal/entity"
	"github.com/user/scrape-service/internal/repository"
	"github.com/user/scrape-service/internal/usecase"
	"github.com/user/scrape-service/pkg/utils"
)

type Handler struct {
	scraper       usecase.Scraper
	status        usecase.StatusReader
	backends      map[string]repository.Pinger
	scrapeTimeout time.Duration
	logger        *zap.Logger
}

// NewHandler wires the HTTP handlers. backends are pinged by the health check,
// keyed by the name reported in its body.
func NewHandler(scraper usecase.Scraper, status usecase.StatusReader, backends map[string]repository.Pinger, scrapeTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		scraper:       scraper,
		status:        status,
		backends:      backends,
		scrapeTimeout: scrapeTimeout,
		logger:        logger,
	}
}

func (h *Handler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	var req request.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !utils.IsAbsoluteURL(req.URL) {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.scrapeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.scrapeTimeout)
		defer cancel()
	}

	record, err := h.scraper.Scrape(ctx, entity.ScrapeRequest{URL: req.URL, Browser: entity.BrowserKind(req.Browser)})
	if err != nil {
		code := StatusCodeFor(err)
		h.logger.Error("Scrape failed", zap.String("url", req.URL), zap.Int("status", code), zap.Error(err))
		resp := response.ErrorResponse{Error: err.Error()}
		var scrapeErr *entity.ScrapeError
		if errors.As(err, &scrapeErr) {
			resp.Stage = string(scrapeErr.Stage)
		}
		h.writeJSON(w, code, resp)
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	record, err := h.scraper.Lookup(r.Context(), rawURL)
	if err != nil {
		h.logger.Error("Failed to read cached record", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Cache unavailable", http.StatusServiceUnavailable)
		return
	}
	if record == nil {
		h.writeJSONError(w, "No record cached for the given URL", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.status.GetStatus(r.Context(), rawURL)
	if err != nil {
		h.logger.Error("Failed to get scrape status", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if status.CurrentStatus == entity.StatusNotFound {
		h.writeJSONError(w, "Scrape status not found for the given URL", http.StatusNotFound)
		return
	}

	resp := response.ScrapeStatusResponse{
		URL:           status.URL,
		CurrentStatus: status.CurrentStatus,
		ScrapedAt:     status.ScrapedAt,
		Category:      status.Category,
		FailureReason: status.FailureReason,
		LastAttempt:   status.LastAttempt,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"status": "ok"}
	healthy := true
	for name, backend := range h.backends {
		if err := backend.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			h.logger.Error("Health check failed", zap.String("backend", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

// StatusCodeFor maps a scrape failure to the HTTP status returned to the client.
func StatusCodeFor(err error) int {
	var (
		timeoutErr *entity.TimeoutError
		fetchErr   *entity.FetchError
		httpErr    *entity.HTTPError
		driverErr  *entity.DriverError
		cacheErr   *entity.CacheError
	)
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &httpErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, entity.ErrUnsupportedBrowser):
		return http.StatusBadRequest
	case errors.As(err, &driverErr), errors.As(err, &cacheErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
