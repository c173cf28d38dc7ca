package render

import (
	"github.com/geop/globe/report"
)

// StateIndex looks states up by id.
type StateIndex map[string]report.State

// MakeStateIndex indexes a state collection. Later duplicates of an id
// replace earlier ones.
func MakeStateIndex(states report.States) StateIndex {
	index := make(StateIndex, len(states))
	for _, s := range states {
		index[s.ID] = s
	}
	return index
}

// Lookup returns the state with the given id.
func (i StateIndex) Lookup(id string) (report.State, bool) {
	s, ok := i[id]
	return s, ok
}
