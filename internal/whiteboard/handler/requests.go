package handler

import (
	"maps"
	"slices"
	"strings"
	"time"

	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/runtime"
	dErrors "whiteboard/pkg/domain-errors"
	strs "whiteboard/pkg/platform/strings"
)

// ContextRequest is the body of POST /admin/contexts. Structural checks on
// name and path are left to the registry, which records them as failures.
type ContextRequest struct {
	ID         models.ServiceID  `json:"id"`
	Name       string            `json:"name"`
	Path       string            `json:"path"`
	Rank       int               `json:"rank"`
	Target     string            `json:"target"`
	InitParams map[string]string `json:"init_params"`
	Attributes map[string]any    `json:"attributes"`
}

// Prepare implements httputil.Preparable.
func (r *ContextRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.ID < 0 {
		return dErrors.New(dErrors.CodeValidation, "negative ids are reserved")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Path = strings.TrimSpace(r.Path)
	return nil
}

func (r *ContextRequest) toInfo(id models.ServiceID) *models.ContextInfo {
	return &models.ContextInfo{
		ID:         id,
		Rank:       r.Rank,
		Name:       r.Name,
		Path:       r.Path,
		Target:     r.Target,
		InitParams: maps.Clone(r.InitParams),
		Attributes: maps.Clone(r.Attributes),
	}
}

// ServiceRequest is the body of POST /admin/services.
type ServiceRequest struct {
	ID            models.ServiceID `json:"id"`
	Kind          models.Kind      `json:"kind"`
	Name          string           `json:"name"`
	Rank          int              `json:"rank"`
	Patterns      []string         `json:"patterns"`
	Regexes       []string         `json:"regexes"`
	ServletNames  []string         `json:"servlet_names"`
	Prefix        string           `json:"prefix"`
	ContextSelect string           `json:"context_select"`
	Target        string           `json:"target"`
	Attributes    map[string]any   `json:"attributes"`
}

// Prepare implements httputil.Preparable.
func (r *ServiceRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.ID < 0 {
		return dErrors.New(dErrors.CodeValidation, "negative ids are reserved")
	}
	if !r.Kind.Valid() {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Patterns = strs.Compact(r.Patterns)
	r.Regexes = strs.Compact(r.Regexes)
	r.ServletNames = strs.Compact(r.ServletNames)
	return nil
}

func (r *ServiceRequest) toInfo(id models.ServiceID) *models.ServiceInfo {
	return &models.ServiceInfo{
		ID:            id,
		Rank:          r.Rank,
		Kind:          r.Kind,
		Name:          r.Name,
		Patterns:      slices.Clone(r.Patterns),
		Regexes:       slices.Clone(r.Regexes),
		ServletNames:  slices.Clone(r.ServletNames),
		Prefix:        r.Prefix,
		ContextSelect: r.ContextSelect,
		Target:        r.Target,
		Attributes:    maps.Clone(r.Attributes),
	}
}

// DeclaredResponse reports the id a declaration was stored under and the
// failure recorded against it, if any.
type DeclaredResponse struct {
	ID      models.ServiceID      `json:"id"`
	Failure *models.FailureReason `json:"failure,omitempty"`
}

// FailuresResponse is the body of GET /runtime/failures.
type FailuresResponse struct {
	GeneratedAt time.Time                          `json:"generated_at"`
	ByKind      map[string][]runtime.FailureReport `json:"by_kind"`
}
