package render

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	otlog "github.com/opentracing/opentracing-go/log"

	"github.com/geop/globe/report"
)

// Layer ids, bottom to top.
const (
	EarthLayerID     = "earth"
	RelationsLayerID = "relations"
	StatesLayerID    = "states"
)

// ImageryURLTemplate is the tile source for the base imagery.
const ImageryURLTemplate = "https://services.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"

// Fixed state marker and arc styling.
var (
	StateFillColor = RGBA{0, 0, 154, 255}
	DashArray      = [2]float64{8, 8}
)

const (
	stateRadius       = 25000
	stateOpacity      = 0.9
	greatCircleOffset = 0.3
)

// PickKind says what sort of object a pick hit.
type PickKind string

// Pickable object kinds.
const (
	PickState PickKind = "state"
	PickEdge  PickKind = "edge"
)

// PickInfo is delivered to hover callbacks. Object is nil when the pointer
// is over nothing.
type PickInfo struct {
	X      float64
	Y      float64
	Kind   PickKind
	Object interface{}
}

// HoverFunc receives pointer events for a pickable layer.
type HoverFunc func(PickInfo)

// Layer is one entry of the layer stack handed to the renderer.
type Layer interface {
	LayerID() string
}

// PickableLayer is a Layer which can resolve pointer events to its data.
type PickableLayer interface {
	Layer
	Hover(index int, x, y float64)
}

// LayerStack is the ordered list of layers, bottom first.
type LayerStack []Layer

// Find returns the layer with the given id.
func (s LayerStack) Find(id string) (Layer, bool) {
	for _, l := range s {
		if l.LayerID() == id {
			return l, true
		}
	}
	return nil, false
}

// TileLayer is the base imagery, drawn as bitmap tiles.
type TileLayer struct {
	Type            string `json:"@@type"`
	ID              string `json:"id"`
	Data            string `json:"data"`
	RenderSubLayers string `json:"renderSubLayers"`
}

// LayerID implements Layer.
func (l TileLayer) LayerID() string { return l.ID }

// Arc is one edge with its encodings resolved.
type Arc struct {
	Edge
	SourceColor RGBA    `json:"sourceColor"`
	TargetColor RGBA    `json:"targetColor"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// ArcLayer draws the relation edges as dash-animated great-circle arcs.
type ArcLayer struct {
	Type              string     `json:"@@type"`
	ID                string     `json:"id"`
	Data              []Arc      `json:"data"`
	DashArray         [2]float64 `json:"dashArray"`
	DashJustified     bool       `json:"dashJustified"`
	DashOffset        float64    `json:"dashOffset"`
	GreatCircle       bool       `json:"greatCircle"`
	GreatCircleOffset float64    `json:"greatCircleOffset"`
	Pickable          bool       `json:"pickable"`
	OnHover           HoverFunc  `json:"-"`
}

// LayerID implements Layer.
func (l ArcLayer) LayerID() string { return l.ID }

// Hover implements PickableLayer.
func (l ArcLayer) Hover(index int, x, y float64) {
	if l.OnHover == nil {
		return
	}
	info := PickInfo{X: x, Y: y, Kind: PickEdge}
	if index >= 0 && index < len(l.Data) {
		info.Object = l.Data[index].Edge
	}
	l.OnHover(info)
}

// ScatterLayer draws the state markers.
type ScatterLayer struct {
	Type      string        `json:"@@type"`
	ID        string        `json:"id"`
	Data      report.States `json:"data"`
	Radius    float64       `json:"radius"`
	FillColor RGBA          `json:"fillColor"`
	Opacity   float64       `json:"opacity"`
	Pickable  bool          `json:"pickable"`
	OnHover   HoverFunc     `json:"-"`
}

// LayerID implements Layer.
func (l ScatterLayer) LayerID() string { return l.ID }

// Hover implements PickableLayer.
func (l ScatterLayer) Hover(index int, x, y float64) {
	if l.OnHover == nil {
		return
	}
	info := PickInfo{X: x, Y: y, Kind: PickState}
	if index >= 0 && index < len(l.Data) {
		info.Object = l.Data[index]
	}
	l.OnHover(info)
}

// Arcs resolves the encodings of every edge.
func Arcs(edges Edges) []Arc {
	arcs := make([]Arc, len(edges))
	for i, e := range edges {
		color := ColorFor(e.EventType, EdgeAlpha)
		arcs[i] = Arc{
			Edge:        e,
			SourceColor: color,
			TargetColor: color,
			Width:       WidthFor(e.Weight),
			Height:      HeightFor(e.Weight),
		}
	}
	return arcs
}

// Compose builds the layer stack: imagery at the bottom, relation arcs in
// the middle animated by the scene's phase, state markers on top. Both
// pickable layers report pointer events to onHover.
func Compose(ctx context.Context, s Scene, edges Edges, onHover HoverFunc) LayerStack {
	span, _ := opentracing.StartSpanFromContext(ctx, "Compose")
	defer span.Finish()
	span.LogFields(otlog.Int("states", len(s.States)), otlog.Int("edges", len(edges)))

	return LayerStack{
		TileLayer{
			Type:            "TileLayer",
			ID:              EarthLayerID,
			Data:            ImageryURLTemplate,
			RenderSubLayers: "BitmapLayer",
		},
		ArcLayer{
			Type:              "ArcLayer",
			ID:                RelationsLayerID,
			Data:              Arcs(edges),
			DashArray:         DashArray,
			DashJustified:     true,
			DashOffset:        s.Phase,
			GreatCircle:       true,
			GreatCircleOffset: greatCircleOffset,
			Pickable:          true,
			OnHover:           onHover,
		},
		ScatterLayer{
			Type:      "ScatterplotLayer",
			ID:        StatesLayerID,
			Data:      s.States,
			Radius:    stateRadius,
			FillColor: StateFillColor,
			Opacity:   stateOpacity,
			Pickable:  true,
			OnHover:   onHover,
		},
	}
}
