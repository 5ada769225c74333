package matcher

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/whiteboard/filter"
	"whiteboard/internal/whiteboard/models"
)

func newMatcher(t *testing.T) (*Matcher, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	m, err := New(8, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	return m, &buf
}

func TestMatchesSelection(t *testing.T) {
	shop := &models.ContextInfo{ID: 3, Name: "shop", Path: "/shop", Attributes: map[string]any{"tier": "gold"}}

	t.Run("matches on context name", func(t *testing.T) {
		m, _ := newMatcher(t)
		svc := &models.ServiceInfo{ID: 10, Kind: models.KindHandler, ContextSelect: "(context.name=shop)"}
		assert.True(t, m.MatchesSelection(svc, shop))
	})

	t.Run("matches on declared attribute", func(t *testing.T) {
		m, _ := newMatcher(t)
		svc := &models.ServiceInfo{ID: 10, Kind: models.KindHandler, ContextSelect: "(&(tier=gold)(service.ranking>=0))"}
		assert.True(t, m.MatchesSelection(svc, shop))
	})

	t.Run("empty selection targets default context", func(t *testing.T) {
		m, _ := newMatcher(t)
		svc := &models.ServiceInfo{ID: 10, Kind: models.KindHandler}
		assert.False(t, m.MatchesSelection(svc, shop))
		assert.True(t, m.MatchesSelection(svc, models.DefaultContext()))
	})

	t.Run("malformed selection fails closed and logs", func(t *testing.T) {
		m, buf := newMatcher(t)
		svc := &models.ServiceInfo{ID: 11, Kind: models.KindFilter, ContextSelect: "(context.name=shop"}
		assert.False(t, m.MatchesSelection(svc, shop))
		assert.Contains(t, buf.String(), "invalid context selection filter")
		assert.Contains(t, buf.String(), "declaration_id=11")
	})
}

func TestMatchesTarget(t *testing.T) {
	runtime := map[string]any{"runtime.name": "edge-1", "zone": "eu"}

	t.Run("no target matches every runtime", func(t *testing.T) {
		m, _ := newMatcher(t)
		ok, err := m.MatchesTarget(&models.ContextInfo{ID: 1}, runtime)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("target compared against runtime attributes", func(t *testing.T) {
		m, _ := newMatcher(t)
		ok, err := m.MatchesTarget(&models.ContextInfo{ID: 1, Target: "(zone=eu)"}, runtime)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = m.MatchesTarget(&models.ServiceInfo{ID: 2, Target: "(zone=us)"}, runtime)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed target returns invalid filter error", func(t *testing.T) {
		m, _ := newMatcher(t)
		ok, err := m.MatchesTarget(&models.ServiceInfo{ID: 2, Kind: models.KindHandler, Target: "zone=eu"}, runtime)
		require.Error(t, err)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, filter.ErrInvalidFilter))
	})
}

func TestCompile_CachesResults(t *testing.T) {
	m, _ := newMatcher(t)

	f1, err := m.Compile("(a=1)")
	require.NoError(t, err)
	f2, err := m.Compile("(a=1)")
	require.NoError(t, err)
	assert.Same(t, f1, f2)

	_, err1 := m.Compile("(broken")
	_, err2 := m.Compile("(broken")
	assert.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, 2, m.cacheLen())
}
