package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/geop/globe/render"
	"github.com/geop/globe/render/detailed"
	"github.com/geop/globe/report"
)

// ViewConfig tunes a View.
type ViewConfig struct {
	FrameInterval   time.Duration
	PhaseIncrement  float64
	Offset          render.OffsetFunc
	InitialWindow   report.TimeWindow
	FetchTimeout    time.Duration
	LastArrivalWins bool // apply relation responses in arrival order, not request order
	CacheSize       int
}

// DefaultViewConfig animates at 60 frames per second.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		FrameInterval:  time.Second / 60,
		PhaseIncrement: 0.05,
		Offset:         render.CategoryOffset,
		InitialWindow:  report.DefaultTimeWindow,
		FetchTimeout:   30 * time.Second,
		CacheSize:      16,
	}
}

// Filter is the user-selected filter state.
type Filter struct {
	Window     report.TimeWindow   `json:"window"`
	From       string              `json:"from,omitempty"`
	EventTypes report.EventTypeSet `json:"event_types"`
}

// PickEvent is a pointer event reported by the renderer. A nil Index, or
// a Layer that is not pickable, means the pointer is over nothing.
type PickEvent struct {
	Layer string  `json:"layer"`
	Index *int    `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Snapshot is everything the renderer needs to paint one frame.
type Snapshot struct {
	Filter Filter               `json:"filter"`
	Layers render.LayerStack    `json:"layers"`
	Legend []render.LegendEntry `json:"legend"`
	Hover  *detailed.Tooltip    `json:"hover"`
}

// View owns the filter state, the loaded collections, the hover state and
// the animation clock, and derives the layer stack from them. All inputs
// (HTTP requests, fetch completions, clock ticks, pointer events) are
// serialised on one mutex; derived data is recomputed from scratch, with
// edges memoised on their inputs. Subscribers registered with WaitOn are
// poked whenever anything changes.
type View struct {
	cfg       ViewConfig
	stateSrc  StateSource
	relSrc    RelationSource
	edges     render.EdgeRenderer
	clock     *Clock
	ctx       context.Context
	cancel    context.CancelFunc
	fetches   sync.WaitGroup
	waitableCondition

	mtx          sync.Mutex
	closed       bool
	states       report.States
	statesGen    uint64
	relations    report.Relations
	relationsGen uint64
	window       report.TimeWindow
	selected     report.EventTypeSet
	selectedGen  uint64
	phase        float64
	hover        HoverState
	requested    uint64 // sequence number of the latest relation request
	accepted     uint64 // sequence number of the relations currently loaded
}

// NewView makes a View. Nothing is fetched and the clock does not run until
// Start is called.
func NewView(states StateSource, relations RelationSource, cfg ViewConfig) *View {
	if !cfg.InitialWindow.Valid() {
		cfg.InitialWindow = report.DefaultTimeWindow
	}
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		cfg:      cfg,
		stateSrc: states,
		relSrc:   relations,
		edges:    render.Memoise(render.NewEdgeRenderer(cfg.Offset), cfg.CacheSize),
		ctx:      ctx,
		cancel:   cancel,
		window:   cfg.InitialWindow,
		waitableCondition: waitableCondition{
			waiters: map[chan struct{}]struct{}{},
		},
	}
	v.clock = NewClock(cfg.FrameInterval, cfg.PhaseIncrement, v.tick)
	return v
}

// Start loads the states, fetches relations for the initial window and
// starts the animation clock.
func (v *View) Start() {
	v.mtx.Lock()
	if v.closed {
		v.mtx.Unlock()
		return
	}
	v.fetches.Add(1)
	v.mtx.Unlock()
	go func() {
		defer v.fetches.Done()
		if err := v.LoadStates(v.ctx); err != nil && v.ctx.Err() == nil {
			log.Errorf("Error loading states: %v", err)
		}
	}()
	v.requestRelations(nil)
	v.clock.Start()
}

// Close stops the clock, abandons in-flight fetches and waits for them to
// finish. The view keeps serving its last state afterwards, frozen.
func (v *View) Close() {
	v.mtx.Lock()
	v.closed = true
	v.mtx.Unlock()
	v.cancel()
	v.clock.Stop()
	v.fetches.Wait()
}

// LoadStates replaces the state collection. On failure the previous
// collection stays in place.
func (v *View) LoadStates(ctx context.Context) error {
	states, err := v.stateSrc.States(ctx)
	if err != nil {
		fetchFailures.WithLabelValues("states").Inc()
		return err
	}
	v.mtx.Lock()
	v.states = states
	v.statesGen++
	v.mtx.Unlock()
	log.Infof("loaded %d states", len(states))
	v.Broadcast()
	return nil
}

// SetTimeWindow changes the time window and fetches relations for it. The
// fetch runs in the background; the current relations stay until it lands.
func (v *View) SetTimeWindow(w report.TimeWindow) (Filter, error) {
	if !w.Valid() {
		return Filter{}, errors.Errorf("unknown time window %q", w)
	}
	filter := v.requestRelations(func() { v.window = w })
	v.Broadcast()
	return filter, nil
}

// ToggleEventType adds t to the event-type filter, or removes it if present.
func (v *View) ToggleEventType(t report.EventType) Filter {
	v.mtx.Lock()
	v.selected = v.selected.Toggle(t)
	v.selectedGen++
	filter := v.filterLocked()
	v.mtx.Unlock()
	v.Broadcast()
	return filter
}

// ClearEventTypes removes the event-type filter.
func (v *View) ClearEventTypes() Filter {
	v.mtx.Lock()
	v.selected = nil
	v.selectedGen++
	filter := v.filterLocked()
	v.mtx.Unlock()
	v.Broadcast()
	return filter
}

// Filter returns the current filter state.
func (v *View) Filter() Filter {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.filterLocked()
}

// States returns the loaded state collection.
func (v *View) States() report.States {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.states
}

// Relations returns the loaded relation collection, unfiltered.
func (v *View) Relations() report.Relations {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.relations
}

// Phase returns the animation phase of the current frame.
func (v *View) Phase() float64 {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.phase
}

// Edges returns the edges for the current states, relations and filter.
func (v *View) Edges(ctx context.Context) render.Edges {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.edges.RenderEdges(ctx, v.sceneLocked())
}

// Layers returns the layer stack for the current frame. The pickable
// layers' hover callbacks feed this view's hover state and may be called
// from any goroutine.
func (v *View) Layers(ctx context.Context) render.LayerStack {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.layersLocked(ctx)
}

// Legend returns the category key for the current filter.
func (v *View) Legend() []render.LegendEntry {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return render.Legend(v.selected)
}

// Hover returns the hovered object, if any.
func (v *View) Hover() (Hover, bool) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.hover.Current()
}

// Tooltip describes the hovered object, if any.
func (v *View) Tooltip() (detailed.Tooltip, bool) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.tooltipLocked()
}

// Snapshot returns a consistent view of the current frame.
func (v *View) Snapshot(ctx context.Context) Snapshot {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	s := Snapshot{
		Filter: v.filterLocked(),
		Layers: v.layersLocked(ctx),
		Legend: render.Legend(v.selected),
	}
	if t, ok := v.tooltipLocked(); ok {
		s.Hover = &t
	}
	return s
}

// Pick dispatches a pointer event to the picked layer's hover callback.
// Events naming no pickable layer clear the hover state.
func (v *View) Pick(ctx context.Context, ev PickEvent) {
	index := -1
	if ev.Index != nil {
		index = *ev.Index
	}
	layer, _ := v.Layers(ctx).Find(ev.Layer)
	if pickable, ok := layer.(render.PickableLayer); ok {
		pickable.Hover(index, ev.X, ev.Y)
		return
	}
	v.handleHover(render.PickInfo{X: ev.X, Y: ev.Y})
}

func (v *View) handleHover(info render.PickInfo) {
	v.mtx.Lock()
	v.hover.Handle(info)
	v.mtx.Unlock()
	v.Broadcast()
}

func (v *View) tick(phase float64) {
	v.mtx.Lock()
	v.phase = phase
	v.mtx.Unlock()
	v.Broadcast()
}

// requestRelations applies update (if any) and issues a relation fetch for
// the resulting window, tagged with a fresh sequence number.
func (v *View) requestRelations(update func()) Filter {
	v.mtx.Lock()
	if update != nil {
		update()
	}
	filter := v.filterLocked()
	if v.closed {
		v.mtx.Unlock()
		return filter
	}
	v.requested++
	seq, window := v.requested, v.window
	v.fetches.Add(1)
	v.mtx.Unlock()

	from, bounded := report.ResolveTimeWindow(window)
	go func() {
		defer v.fetches.Done()
		ctx, cancel := context.WithTimeout(v.ctx, v.cfg.FetchTimeout)
		defer cancel()
		relations, err := v.relSrc.Relations(ctx, from, bounded)
		v.acceptRelations(seq, window, relations, err)
	}()
	return filter
}

func (v *View) acceptRelations(seq uint64, window report.TimeWindow, relations report.Relations, err error) {
	if err != nil {
		if v.ctx.Err() == nil {
			log.Errorf("Error fetching relations for window %s, keeping previous: %v", window, err)
			fetchFailures.WithLabelValues("relations").Inc()
		}
		return
	}

	v.mtx.Lock()
	if !v.cfg.LastArrivalWins && seq < v.accepted {
		v.mtx.Unlock()
		log.Debugf("Discarding relations for window %s: request %d superseded by %d", window, seq, v.accepted)
		staleResponses.Inc()
		return
	}
	v.relations = relations
	v.relationsGen++
	v.accepted = seq
	v.mtx.Unlock()

	log.Infof("loaded %d relations for window %s", len(relations), window)
	log.Debugf("event types in relations: %v", relations.EventTypes())
	v.Broadcast()
}

func (v *View) filterLocked() Filter {
	from, _ := report.ResolveTimeWindow(v.window)
	return Filter{Window: v.window, From: from, EventTypes: v.selected}
}

func (v *View) sceneLocked() render.Scene {
	return render.Scene{
		ID:        fmt.Sprintf("%d/%d/%d", v.statesGen, v.relationsGen, v.selectedGen),
		States:    v.states,
		Relations: v.relations,
		Selected:  v.selected,
		Phase:     v.phase,
	}
}

func (v *View) layersLocked(ctx context.Context) render.LayerStack {
	scene := v.sceneLocked()
	return render.Compose(ctx, scene, v.edges.RenderEdges(ctx, scene), v.handleHover)
}

func (v *View) tooltipLocked() (detailed.Tooltip, bool) {
	h, ok := v.hover.Current()
	if !ok {
		return detailed.Tooltip{}, false
	}
	return detailed.MakeTooltip(h.Kind, h.Payload, h.X, h.Y)
}

// waitableCondition lets websocket writers block until the view changes.
type waitableCondition struct {
	sync.Mutex
	waiters map[chan struct{}]struct{}
}

// WaitOn registers waiter to be poked on every change.
func (wc *waitableCondition) WaitOn(waiter chan struct{}) {
	wc.Lock()
	wc.waiters[waiter] = struct{}{}
	wc.Unlock()
}

// UnWait deregisters waiter.
func (wc *waitableCondition) UnWait(waiter chan struct{}) {
	wc.Lock()
	delete(wc.waiters, waiter)
	wc.Unlock()
}

// Broadcast pokes every waiter without blocking.
func (wc *waitableCondition) Broadcast() {
	wc.Lock()
	for waiter := range wc.waiters {
		select {
		case waiter <- struct{}{}:
		default:
		}
	}
	wc.Unlock()
}
