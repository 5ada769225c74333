// Package matcher evaluates declaration predicates: context selection for
// services and runtime targeting for every declaration.
package matcher

import (
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"whiteboard/internal/whiteboard/filter"
	"whiteboard/internal/whiteboard/models"
)

// DefaultCacheSize bounds the number of compiled expressions kept in memory.
const DefaultCacheSize = 512

type compiled struct {
	filter *filter.Filter
	err    error
}

// Matcher compiles and caches filter expressions. Safe for concurrent use.
type Matcher struct {
	cache  *lru.Cache[string, compiled]
	logger *slog.Logger
}

// New creates a matcher caching up to size expressions.
func New(size int, logger *slog.Logger) (*Matcher, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, compiled](size)
	if err != nil {
		return nil, fmt.Errorf("create filter cache: %w", err)
	}
	return &Matcher{cache: cache, logger: logger}, nil
}

// Compile returns the compiled filter for expr. Failures are cached as well so
// a broken expression is parsed once.
func (m *Matcher) Compile(expr string) (*filter.Filter, error) {
	if c, ok := m.cache.Get(expr); ok {
		return c.filter, c.err
	}
	f, err := filter.Compile(expr)
	m.cache.Add(expr, compiled{filter: f, err: err})
	return f, err
}

// MatchesSelection reports whether svc may bind to c. A malformed selection
// expression is logged and treated as non-matching.
func (m *Matcher) MatchesSelection(svc *models.ServiceInfo, c *models.ContextInfo) bool {
	f, err := m.Compile(svc.SelectionFilter())
	if err != nil {
		m.logger.Error("invalid context selection filter",
			"declaration_id", svc.ID,
			"kind", svc.Kind.String(),
			"filter", svc.SelectionFilter(),
			"error", err,
		)
		return false
	}
	return f.Match(c.Properties())
}

// MatchesTarget reports whether d is addressed to a runtime with the given
// attributes. Declarations without a target match every runtime. A malformed
// target is returned as an error wrapping filter.ErrInvalidFilter.
func (m *Matcher) MatchesTarget(d models.Declaration, runtime map[string]any) (bool, error) {
	target := strings.TrimSpace(d.TargetFilter())
	if target == "" {
		return true, nil
	}
	f, err := m.Compile(target)
	if err != nil {
		return false, fmt.Errorf("target filter of %s %d: %w", d.Describe(), d.Identity(), err)
	}
	return f.Match(runtime), nil
}
