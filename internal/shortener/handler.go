package shortener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nkemjika/shortly/internal/errx"
	"github.com/nkemjika/shortly/internal/httpx"
)

// HTTPShortenRequest represents the JSON request body for creating a link.
type HTTPShortenRequest struct {
	URL       string `json:"url"`
	ShortCode string `json:"short_code,omitempty"`
}

// ShortenResponse represents the JSON response for a created link.
type ShortenResponse struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
	CreatedAt   string `json:"created_at"`
}

// StatsResponse represents the JSON response for link statistics.
type StatsResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
	CreatedAt   string `json:"created_at"`
}

// Handler provides HTTP handlers for the URL shortener service.
type Handler struct {
	service Service
	logger  *slog.Logger
	baseURL string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
	BaseURL string // Base URL for constructing short URLs (e.g., "https://sho.rt")
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
		baseURL: cfg.BaseURL,
	}
}

// Shorten handles POST /api/shorten.
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeJSON[HTTPShortenRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"error", err.Error(),
		)
		httpx.WriteError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if req.URL == "" {
		logger.WarnContext(ctx, "missing url in request")
		httpx.WriteError(w, http.StatusBadRequest, "invalid request", "url is required")
		return
	}

	link, err := h.service.Shorten(ctx, ShortenRequest{
		URL:        req.URL,
		CustomCode: req.ShortCode,
	})
	if err != nil {
		h.handleShortenError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "short link created",
		"short_code", link.Code,
		"custom", link.Custom,
	)

	httpx.WriteJSON(w, http.StatusOK, ShortenResponse{
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, link.Code),
		OriginalURL: link.OriginalURL,
		ShortCode:   link.Code,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Redirect handles GET /{code}: resolves the code and redirects the
// browser to the original URL.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.PathValue("code")
	if code == "" || len(code) > MaxCustomCodeLength {
		httpx.WriteError(w, http.StatusNotFound, "not found", "")
		return
	}

	originalURL, err := h.service.Resolve(ctx, code)
	if err != nil {
		h.handleLookupError(ctx, w, err, code)
		return
	}

	h.logger.InfoContext(ctx, "redirecting",
		"request_id", httpx.GetRequestID(ctx),
		"short_code", code,
		"referer", r.Referer(),
	)

	// 302 rather than 301: permanent redirects get cached by browsers,
	// which would swallow repeat clicks and skew the statistics.
	http.Redirect(w, r, originalURL, http.StatusFound)
}

// Stats handles GET /api/stats/{code}.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.PathValue("code")
	if code == "" || len(code) > MaxCustomCodeLength {
		httpx.WriteError(w, http.StatusNotFound, "not found", "")
		return
	}

	link, err := h.service.Stats(ctx, code)
	if err != nil {
		h.handleLookupError(ctx, w, err, code)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		ShortCode:   link.Code,
		OriginalURL: link.OriginalURL,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// handleShortenError maps Shorten failures onto the API contract: client
// mistakes (bad URL, invalid or taken custom code) are 400, store trouble
// is 503, exhausted generation is 500.
func (h *Handler) handleShortenError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"request_id", httpx.GetRequestID(ctx),
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid shorten request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid request", rootCause(err))

	case errx.Conflict:
		h.logger.WarnContext(ctx, "custom code taken", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "code taken",
			"this short code is already in use, try another one")

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "store unavailable", logAttrs...)
		httpx.WriteError(w, http.StatusServiceUnavailable, "service unavailable",
			"unable to create short link at this time, please try again")

	default:
		h.logger.ErrorContext(ctx, "failed to create short link", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
	}
}

// handleLookupError maps Resolve/Stats failures for the read endpoints.
func (h *Handler) handleLookupError(ctx context.Context, w http.ResponseWriter, err error, code string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"request_id", httpx.GetRequestID(ctx),
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"short_code", code,
	}

	switch kind {
	case errx.NotFound:
		h.logger.WarnContext(ctx, "short code not found", logAttrs...)
	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "store unavailable", logAttrs...)
	default:
		h.logger.ErrorContext(ctx, "failed to resolve short code", logAttrs...)
	}

	httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToMessage(kind), "")
}

// rootCause returns the innermost error message, stripping the op chain
// that belongs in logs, not in client-facing details.
func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
