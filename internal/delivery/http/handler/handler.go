package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/mrmps/SMRY-sub004/internal/delivery/http/middleware"
	"github.com/mrmps/SMRY-sub004/internal/delivery/http/request"
	"github.com/mrmps/SMRY-sub004/internal/delivery/http/response"
	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/internal/usecase"
	"github.com/mrmps/SMRY-sub004/pkg/logger"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency whose reachability is reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	resolver usecase.ArticleResolver
	checks   map[string]Pinger
	log      *slog.Logger
}

// NewHandler creates the HTTP handler. checks name the dependencies probed by
// the health endpoint.
func NewHandler(resolver usecase.ArticleResolver, checks map[string]Pinger) *Handler {
	return &Handler{
		resolver: resolver,
		checks:   checks,
		log:      slog.Default(),
	}
}

func (h *Handler) HandleGetArticle(w http.ResponseWriter, r *http.Request) {
	q := request.ParseArticleQuery(r)
	requestID := middleware.GetRequestID(r.Context())
	rc := logger.NewRequestContext(h.log, requestID)
	rc.Set("endpoint", "/article")

	resp, err := h.resolver.Resolve(r.Context(), rc, q.URL, q.Source)
	if err != nil {
		h.writeAppError(w, r, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, response.NewArticleResponse(resp))
}

func (h *Handler) HandleGetArticleMeta(w http.ResponseWriter, r *http.Request) {
	q := request.ParseArticleQuery(r)
	requestID := middleware.GetRequestID(r.Context())

	meta, err := h.resolver.GetMeta(r.Context(), q.URL, q.Source)
	if err != nil {
		h.writeAppError(w, r, err, requestID)
		return
	}
	if meta == nil {
		h.writeJSON(w, http.StatusNotFound, response.ErrorResponse{
			Error: "No cached article for the given url and source",
			Type:  response.TypeNotFound,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, response.NewMetadataResponse(meta))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := response.HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			slog.Warn("Health check failed", "dependency", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	appErr := entity.AsAppError(err)
	if appErr.Kind == entity.KindUnknown {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("request_id", requestID)
			scope.SetRequest(r)
			hub.CaptureException(err)
		})
	}
	h.writeJSON(w, appErr.HTTPStatus(), response.NewErrorResponse(appErr, requestID))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
