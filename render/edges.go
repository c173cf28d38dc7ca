package render

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/geop/globe/report"
)

var droppedRelations = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "globe",
	Name:      "relations_dropped_total",
	Help:      "Relations dropped because an endpoint state was not loaded.",
})

func init() {
	prometheus.MustRegister(droppedRelations)
}

// Position is a [lon, lat] pair in degrees.
type Position [2]float64

// Edge is a relation resolved to globe positions. The relation's own fields
// are carried through for encoding and tooltips.
type Edge struct {
	report.Relation
	SourcePosition Position `json:"sourcePosition"`
	TargetPosition Position `json:"targetPosition"`
}

// Edges is the result of BuildEdges.
type Edges []Edge

// BuildEdges joins relations against the state index. Relations whose
// category is not admitted by selected are skipped; relations with an
// endpoint missing from the index are dropped with a warning. The source end
// is pushed east by the offset and the target end west, which bends the two
// directions of a pair apart.
//
// BuildEdges is pure: the same inputs always give the same output, in the
// same order as the relations.
func BuildEdges(relations report.Relations, index StateIndex, selected report.EventTypeSet, offset OffsetFunc) Edges {
	if offset == nil {
		offset = CategoryOffset
	}
	edges := make(Edges, 0, len(relations))
	for _, r := range relations {
		if !selected.Admits(r.EventType) {
			continue
		}
		src, srcOK := index.Lookup(r.Source)
		tgt, tgtOK := index.Lookup(r.Target)
		if !srcOK || !tgtOK {
			log.WithFields(log.Fields{
				"source":     r.Source,
				"target":     r.Target,
				"event_type": r.EventType,
			}).Warn("missing state for relation, dropping edge")
			droppedRelations.Inc()
			continue
		}
		o := offset(r)
		edges = append(edges, Edge{
			Relation:       r,
			SourcePosition: Position{src.Lon + o, src.Lat},
			TargetPosition: Position{tgt.Lon - o, tgt.Lat},
		})
	}
	return edges
}
