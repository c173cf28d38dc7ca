package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// State is a political entity placed on the globe.
type State struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// Label is the human readable name of the state, falling back to its id.
func (s State) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// States is a loaded state collection. It is replaced wholesale, never
// mutated in place.
type States []State

// Relation is a directed, categorised interaction between two states,
// aggregated over the active time window.
type Relation struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	EventType EventType `json:"event_type"`
	Weight    *float64  `json:"weight"`
}

// WeightOr returns the relation's weight, or def when it is absent.
func (r Relation) WeightOr(def float64) float64 {
	if r.Weight == nil {
		return def
	}
	return *r.Weight
}

// Relations is a fetched relation collection.
type Relations []Relation

// EventTypes returns the distinct categories present, in order of first
// appearance.
func (rs Relations) EventTypes() []EventType {
	var (
		seen   = map[EventType]struct{}{}
		result []EventType
	)
	for _, r := range rs {
		if _, ok := seen[r.EventType]; ok {
			continue
		}
		seen[r.EventType] = struct{}{}
		result = append(result, r.EventType)
	}
	return result
}

// Weight is a convenience for building relations with a weight.
func Weight(w float64) *float64 {
	return &w
}

// ReadStates decodes a JSON state collection.
func ReadStates(r io.Reader) (States, error) {
	var states States
	if err := codec.NewDecoder(r, &codec.JsonHandle{}).Decode(&states); err != nil {
		return nil, errors.Wrap(err, "decoding states")
	}
	return states, nil
}

// ReadRelations decodes a JSON relation collection. Fields the backend
// attaches beyond the relation tuple (resolved coordinates) are ignored.
func ReadRelations(r io.Reader) (Relations, error) {
	var relations Relations
	if err := codec.NewDecoder(r, &codec.JsonHandle{}).Decode(&relations); err != nil {
		return nil, errors.Wrap(err, "decoding relations")
	}
	return relations, nil
}
