package models

import (
	"regexp"
	"strings"

	"whiteboard/internal/whiteboard/filter"
	dErrors "whiteboard/pkg/domain-errors"
)

// DefaultSelectionFilter binds services that do not name a context to the
// default context.
const DefaultSelectionFilter = "(" + PropContextName + "=" + DefaultContextName + ")"

// ServiceInfo is a service declaration: a handler, filter, resource mapping or
// listener. Kind selects which of the optional fields are meaningful.
type ServiceInfo struct {
	ID            ServiceID
	Rank          int
	Kind          Kind
	Name          string
	Patterns      []string
	Regexes       []string // filters only
	ServletNames  []string // filters only
	Prefix        string   // resources only
	ContextSelect string
	Target        string
	Attributes    map[string]any
}

func (s *ServiceInfo) Identity() ServiceID  { return s.ID }
func (s *ServiceInfo) Ranking() int         { return s.Rank }
func (s *ServiceInfo) TargetFilter() string { return s.Target }
func (s *ServiceInfo) Describe() string     { return s.Kind.String() }

// SelectionFilter returns the context selection expression, falling back to
// the default context.
func (s *ServiceInfo) SelectionFilter() string {
	if strings.TrimSpace(s.ContextSelect) == "" {
		return DefaultSelectionFilter
	}
	return s.ContextSelect
}

// Validate checks the fields required by the declaration's kind.
func (s *ServiceInfo) Validate() error {
	if !s.Kind.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown service kind")
	}
	if _, err := filter.Compile(s.SelectionFilter()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid context selection filter")
	}
	for _, p := range s.Patterns {
		if !validPattern(p) {
			return dErrors.New(dErrors.CodeValidation, "invalid pattern "+p)
		}
	}

	switch s.Kind {
	case KindHandler:
		if len(s.Patterns) == 0 && s.Name == "" {
			return dErrors.New(dErrors.CodeValidation, "handler requires a pattern or a name")
		}
	case KindFilter:
		if len(s.Patterns) == 0 && len(s.Regexes) == 0 && len(s.ServletNames) == 0 {
			return dErrors.New(dErrors.CodeValidation, "filter requires a pattern, regex or servlet name")
		}
		for _, re := range s.Regexes {
			if _, err := regexp.Compile(re); err != nil {
				return dErrors.Wrap(err, dErrors.CodeValidation, "invalid filter regex")
			}
		}
	case KindResource:
		if len(s.Patterns) == 0 || s.Prefix == "" {
			return dErrors.New(dErrors.CodeValidation, "resource requires a pattern and a prefix")
		}
	case KindContextAttributeListener,
		KindSessionListener,
		KindSessionAttributeListener,
		KindRequestListener,
		KindRequestAttributeListener,
		KindContextLifecycleListener:
	}
	return nil
}

// Servlet-style patterns: "/" default, "/exact", "/prefix/*" or "*.ext".
func validPattern(p string) bool {
	if p == "" {
		return false
	}
	if strings.HasPrefix(p, "*.") {
		return len(p) > 2 && !strings.Contains(p[2:], "/")
	}
	if !strings.HasPrefix(p, "/") {
		return false
	}
	if i := strings.Index(p, "*"); i >= 0 {
		return strings.HasSuffix(p, "/*") && i == len(p)-1
	}
	return true
}
