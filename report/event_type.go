package report

import "sort"

// EventType is the category of a relation. The set below is closed for
// encoding purposes, but any other string is carried through untouched.
type EventType string

// Known event categories.
const (
	Attack           EventType = "ATTACK"
	Threat           EventType = "THREAT"
	DiplomaticAction EventType = "DIPLOMATIC_ACTION"
	CoerciveAction   EventType = "COERCIVE_ACTION"
	Protest          EventType = "PROTEST"
	CyberOperation   EventType = "CYBER_OPERATION"
	Terrorism        EventType = "TERRORISM"
	Undefined        EventType = "UNDEFINED"
)

// KnownEventTypes lists the known categories in legend order.
var KnownEventTypes = []EventType{
	Attack,
	Threat,
	CoerciveAction,
	DiplomaticAction,
	Protest,
	CyberOperation,
	Terrorism,
	Undefined,
}

// Known returns true if t is one of the known categories.
func (t EventType) Known() bool {
	for _, k := range KnownEventTypes {
		if t == k {
			return true
		}
	}
	return false
}

// EventTypeSet is an immutable sorted set of event types. Every mutating
// operation returns a new set; the receiver is never modified, so a set can
// be shared freely between readers.
type EventTypeSet []EventType

// MakeEventTypeSet returns the set of the given types. Repeats collapse,
// and no types at all gives the nil (unfiltered) set.
func MakeEventTypeSet(types ...EventType) EventTypeSet {
	var set EventTypeSet
	for _, t := range types {
		if !set.Contains(t) {
			set = set.Toggle(t)
		}
	}
	return set
}

func (s EventTypeSet) search(t EventType) int {
	return sort.Search(len(s), func(i int) bool { return s[i] >= t })
}

// Contains returns true if the set includes t.
func (s EventTypeSet) Contains(t EventType) bool {
	i := s.search(t)
	return i < len(s) && s[i] == t
}

// Admits reports whether a relation of type t passes the filter. The empty
// set is no filter at all.
func (s EventTypeSet) Admits(t EventType) bool {
	return len(s) == 0 || s.Contains(t)
}

// Toggle returns a new set with t removed if present, added otherwise.
func (s EventTypeSet) Toggle(t EventType) EventTypeSet {
	i := s.search(t)
	if i < len(s) && s[i] == t {
		if len(s) == 1 {
			return nil
		}
		result := make(EventTypeSet, 0, len(s)-1)
		result = append(result, s[:i]...)
		return append(result, s[i+1:]...)
	}
	result := make(EventTypeSet, 0, len(s)+1)
	result = append(result, s[:i]...)
	result = append(result, t)
	return append(result, s[i:]...)
}

// Equal returns true if a and b have the same contents.
func (s EventTypeSet) Equal(b EventTypeSet) bool {
	if len(s) != len(b) {
		return false
	}
	for i := range s {
		if s[i] != b[i] {
			return false
		}
	}
	return true
}
