package render

import (
	"context"

	"github.com/bluele/gcache"
	opentracing "github.com/opentracing/opentracing-go"
	otlog "github.com/opentracing/opentracing-go/log"

	"github.com/geop/globe/report"
)

// Scene is the input to a render: the loaded collections, the active
// filter, and the animation phase.
//
// ID identifies the (states, relations, filter) generation and must change
// whenever any of them does. The phase is not part of it: clock ticks never
// invalidate edges.
type Scene struct {
	ID        string
	States    report.States
	Relations report.Relations
	Selected  report.EventTypeSet
	Phase     float64
}

// EdgeRenderer derives the edge set of a scene.
type EdgeRenderer interface {
	RenderEdges(context.Context, Scene) Edges
}

type edgeRenderer struct {
	offset OffsetFunc
}

// NewEdgeRenderer returns an EdgeRenderer which indexes the scene's states
// and joins its relations against them.
func NewEdgeRenderer(offset OffsetFunc) EdgeRenderer {
	return edgeRenderer{offset: offset}
}

func (e edgeRenderer) RenderEdges(ctx context.Context, s Scene) Edges {
	span, _ := opentracing.StartSpanFromContext(ctx, "BuildEdges")
	defer span.Finish()
	edges := BuildEdges(s.Relations, MakeStateIndex(s.States), s.Selected, e.offset)
	span.LogFields(otlog.Int("relations", len(s.Relations)),
		otlog.Int("edges", len(edges)))
	return edges
}

type memoise struct {
	EdgeRenderer
	cache gcache.Cache
}

// Memoise wraps the renderer in a cache keyed on scene ID, so edges are
// only rebuilt when their inputs change. A size of zero disables caching.
func Memoise(r EdgeRenderer, size int) EdgeRenderer {
	if size <= 0 {
		return r
	}
	return &memoise{
		EdgeRenderer: r,
		cache:        gcache.New(size).LRU().Build(),
	}
}

// RenderEdges retrieves the edges from the cache, otherwise it calls through
// to the wrapped renderer and stores the result. Scenes without an ID are
// never cached.
func (m *memoise) RenderEdges(ctx context.Context, s Scene) Edges {
	if s.ID == "" {
		return m.EdgeRenderer.RenderEdges(ctx, s)
	}
	if result, err := m.cache.Get(s.ID); err == nil {
		return result.(Edges)
	}
	output := m.EdgeRenderer.RenderEdges(ctx, s)
	m.cache.Set(s.ID, output)
	return output
}
