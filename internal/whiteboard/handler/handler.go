// Package handler exposes the registry over HTTP: read-only runtime
// introspection and an admin API for adding and removing declarations.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"whiteboard/internal/platform/middleware"
	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/runtime"
	dErrors "whiteboard/pkg/domain-errors"
	"whiteboard/pkg/platform/httputil"
)

// Registry is the part of the registry manager the handler drives.
type Registry interface {
	AddContext(ctx context.Context, info *models.ContextInfo) error
	RemoveContext(ctx context.Context, id models.ServiceID) error
	AddService(ctx context.Context, info *models.ServiceInfo) error
	RemoveService(ctx context.Context, id models.ServiceID) error
	FailureReason(id models.ServiceID) (models.FailureReason, bool)
	Snapshot() runtime.Report
}

// Handler wires runtime and admin endpoints to the registry.
type Handler struct {
	registry Registry
	ids      *models.IDSequence
	logger   *slog.Logger
}

// New constructs a handler. ids assigns identities to declarations posted
// without one and must be shared with every other declaration source.
func New(registry Registry, ids *models.IDSequence, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{registry: registry, ids: ids, logger: logger}
}

// Register mounts the read-only runtime endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/runtime", h.HandleRuntime)
	r.Get("/runtime/contexts/{id}", h.HandleRuntimeContext)
	r.Get("/runtime/failures", h.HandleFailures)
}

// RegisterAdmin mounts the declaration endpoints. Callers protect them.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/contexts", h.HandleAddContext)
	r.Delete("/admin/contexts/{id}", h.HandleRemoveContext)
	r.Post("/admin/services", h.HandleAddService)
	r.Delete("/admin/services/{id}", h.HandleRemoveService)
}

// HandleRuntime handles GET /runtime.
func (h *Handler) HandleRuntime(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.registry.Snapshot())
}

// HandleRuntimeContext handles GET /runtime/contexts/{id}.
func (h *Handler) HandleRuntimeContext(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report := h.registry.Snapshot()
	c, ok := report.Context(id)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "context is not active"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleFailures handles GET /runtime/failures.
func (h *Handler) HandleFailures(w http.ResponseWriter, r *http.Request) {
	report := h.registry.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, FailuresResponse{
		GeneratedAt: report.GeneratedAt,
		ByKind:      report.FailuresByKind(),
	})
}

// HandleAddContext handles POST /admin/contexts.
func (h *Handler) HandleAddContext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ContextRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	info := req.toInfo(h.assign(req.ID))

	if err := h.registry.AddContext(ctx, info); err != nil {
		h.logger.WarnContext(ctx, "context added with collaborator errors",
			"request_id", requestID,
			"declaration_id", info.ID,
			"context_name", info.Name,
			"error", err,
		)
	}
	h.logger.InfoContext(ctx, "context declared",
		"request_id", requestID,
		"subject", middleware.GetSubject(ctx),
		"client", middleware.GetClient(ctx),
		"declaration_id", info.ID,
		"context_name", info.Name,
	)
	httputil.WriteJSON(w, http.StatusCreated, h.declared(info.ID))
}

// HandleAddService handles POST /admin/services.
func (h *Handler) HandleAddService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ServiceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	info := req.toInfo(h.assign(req.ID))

	if err := h.registry.AddService(ctx, info); err != nil {
		h.logger.WarnContext(ctx, "service added with collaborator errors",
			"request_id", requestID,
			"declaration_id", info.ID,
			"kind", info.Kind,
			"error", err,
		)
	}
	h.logger.InfoContext(ctx, "service declared",
		"request_id", requestID,
		"subject", middleware.GetSubject(ctx),
		"client", middleware.GetClient(ctx),
		"declaration_id", info.ID,
		"kind", info.Kind,
	)
	httputil.WriteJSON(w, http.StatusCreated, h.declared(info.ID))
}

// HandleRemoveContext handles DELETE /admin/contexts/{id}.
func (h *Handler) HandleRemoveContext(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "context", h.registry.RemoveContext)
}

// HandleRemoveService handles DELETE /admin/services/{id}.
func (h *Handler) HandleRemoveService(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "service", h.registry.RemoveService)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, what string, removeFn func(context.Context, models.ServiceID) error) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if id.IsSynthetic() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "synthetic declarations cannot be removed"))
		return
	}
	if err := removeFn(ctx, id); err != nil {
		h.logger.WarnContext(ctx, what+" removed with collaborator errors",
			"request_id", requestID,
			"declaration_id", id,
			"error", err,
		)
	}
	h.logger.InfoContext(ctx, what+" withdrawn",
		"request_id", requestID,
		"subject", middleware.GetSubject(ctx),
		"client", middleware.GetClient(ctx),
		"declaration_id", id,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assign(id models.ServiceID) models.ServiceID {
	if id == 0 {
		return h.ids.Next()
	}
	h.ids.Observe(id)
	return id
}

func (h *Handler) declared(id models.ServiceID) DeclaredResponse {
	resp := DeclaredResponse{ID: id}
	if reason, failed := h.registry.FailureReason(id); failed {
		resp.Failure = &reason
	}
	return resp
}

func parseID(raw string) (models.ServiceID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid declaration id")
	}
	return models.ServiceID(n), nil
}
