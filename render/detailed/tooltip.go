package detailed

import (
	"github.com/dustin/go-humanize"

	"github.com/geop/globe/render"
	"github.com/geop/globe/report"
)

// MetadataRow is a label/value line of a tooltip.
type MetadataRow struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tooltip is the hover overlay payload: where to draw it and what to say.
type Tooltip struct {
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Kind     render.PickKind `json:"kind"`
	Title    string          `json:"title"`
	Metadata []MetadataRow   `json:"metadata,omitempty"`
	Data     interface{}     `json:"data"`
}

// MakeTooltip renders the tooltip for a picked object at x, y. It returns
// false for objects it does not know how to describe.
func MakeTooltip(kind render.PickKind, object interface{}, x, y float64) (Tooltip, bool) {
	t := Tooltip{X: x, Y: y, Kind: kind, Data: object}
	switch o := object.(type) {
	case report.State:
		t.Title = o.Label()
		t.Metadata = []MetadataRow{{ID: "code", Label: "Code", Value: o.ID}}
	case render.Edge:
		t.Title = string(o.EventType)
		t.Metadata = edgeMetadata(o.Relation)
	default:
		return Tooltip{}, false
	}
	return t, true
}

func edgeMetadata(r report.Relation) []MetadataRow {
	rows := []MetadataRow{
		{ID: "source", Label: "From", Value: r.Source},
		{ID: "target", Label: "To", Value: r.Target},
	}
	if r.Weight == nil {
		return append(rows, MetadataRow{ID: "events", Label: "Events", Value: "unknown"})
	}
	return append(rows,
		MetadataRow{ID: "events", Label: "Events", Value: humanize.Comma(int64(*r.Weight))},
		MetadataRow{ID: "intensity", Label: "Intensity", Value: humanize.FormatFloat("#,###.##", *r.Weight)},
	)
}
