package render

import (
	"math"

	"github.com/geop/globe/report"
)

// RGBA is a color as the renderer expects it: four 0-255 channels. It is an
// int array rather than bytes so it encodes as a JSON array, not base64.
type RGBA [4]int

// Alpha regimes. Legend swatches are opaque; arcs are translucent so
// overlapping edges stay readable.
const (
	LegendAlpha = 255
	EdgeAlpha   = 160
)

const (
	widthScale  = 2
	heightBase  = 0.25
	heightScale = 0.15
)

var (
	palette = map[report.EventType][3]int{
		report.Attack:           {220, 60, 60},
		report.Threat:           {255, 140, 0},
		report.DiplomaticAction: {60, 160, 255},
		report.CoerciveAction:   {200, 80, 255},
		report.Protest:          {108, 113, 196},
		report.CyberOperation:   {42, 161, 152},
		report.Terrorism:        {133, 153, 0},
		report.Undefined:        {160, 160, 160},
	}
	neutral = [3]int{180, 180, 180}
)

// ColorFor maps an event category to its color at the given alpha.
// Unrecognised categories get a neutral gray.
func ColorFor(t report.EventType, alpha int) RGBA {
	c, ok := palette[t]
	if !ok {
		c = neutral
	}
	return RGBA{c[0], c[1], c[2], alpha}
}

// WidthFor grows logarithmically with weight so heavy edges stand out
// without swamping the scene. Missing weight renders at the minimum width.
func WidthFor(weight *float64) float64 {
	w := 0.0
	if weight != nil {
		w = *weight
	}
	return 1 + math.Log1p(w)*widthScale
}

// HeightFor is the arc elevation, on a smaller scale than width. Missing
// weight counts as 1.
func HeightFor(weight *float64) float64 {
	w := 1.0
	if weight != nil {
		w = *weight
	}
	return heightBase + math.Log1p(w)*heightScale
}

// LegendEntry is one row of the category key.
type LegendEntry struct {
	EventType report.EventType `json:"event_type"`
	Color     RGBA             `json:"color"`
	Selected  bool             `json:"selected"`
	Dimmed    bool             `json:"dimmed"`
}

// Legend renders the category key for the current filter set. With no
// filter everything is shown at full strength; otherwise unselected
// categories are dimmed.
func Legend(selected report.EventTypeSet) []LegendEntry {
	entries := make([]LegendEntry, 0, len(report.KnownEventTypes))
	for _, t := range report.KnownEventTypes {
		entries = append(entries, LegendEntry{
			EventType: t,
			Color:     ColorFor(t, LegendAlpha),
			Selected:  selected.Contains(t),
			Dimmed:    !selected.Admits(t),
		})
	}
	return entries
}
