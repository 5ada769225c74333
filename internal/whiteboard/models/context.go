package models

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	dErrors "whiteboard/pkg/domain-errors"
)

// Property keys every context exposes to selection predicates in addition to
// its declared attributes.
const (
	PropContextName    = "context.name"
	PropContextPath    = "context.path"
	PropServiceID      = "service.id"
	PropServiceRanking = "service.ranking"
)

// DefaultContextName is the name of the synthetic context that exists for as
// long as the registry runs.
const DefaultContextName = "default"

var symbolicName = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// ContextInfo is a context declaration. It is immutable once handed to the
// registry.
type ContextInfo struct {
	ID         ServiceID
	Rank       int
	Name       string
	Path       string
	Target     string
	InitParams map[string]string
	Attributes map[string]any
}

// DefaultContext returns the synthetic lowest-priority default context.
func DefaultContext() *ContextInfo {
	return &ContextInfo{
		ID:   DefaultContextID,
		Rank: math.MinInt32,
		Name: DefaultContextName,
		Path: "/",
	}
}

func (c *ContextInfo) Identity() ServiceID  { return c.ID }
func (c *ContextInfo) Ranking() int         { return c.Rank }
func (c *ContextInfo) TargetFilter() string { return c.Target }
func (c *ContextInfo) Describe() string     { return "context" }

// Validate checks the name and path of the declaration.
func (c *ContextInfo) Validate() error {
	if !symbolicName.MatchString(c.Name) {
		return dErrors.New(dErrors.CodeValidation, "context name must be a symbolic name")
	}
	if !validContextPath(c.Path) {
		return dErrors.New(dErrors.CodeValidation, "context path must be an absolute URI path without trailing slash")
	}
	return nil
}

// Properties returns the attribute set selection predicates are evaluated
// against. The returned map is a fresh copy.
func (c *ContextInfo) Properties() map[string]any {
	props := make(map[string]any, len(c.Attributes)+4)
	for k, v := range c.Attributes {
		props[k] = v
	}
	props[PropContextName] = c.Name
	props[PropContextPath] = c.Path
	props[PropServiceID] = int64(c.ID)
	props[PropServiceRanking] = c.Rank
	return props
}

func validContextPath(path string) bool {
	if path == "/" {
		return true
	}
	if !strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") || strings.Contains(path, "//") {
		return false
	}
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return u.Path == path && u.RawQuery == "" && u.Fragment == "" && !u.ForceQuery
}
