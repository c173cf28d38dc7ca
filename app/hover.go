package app

import (
	"github.com/geop/globe/render"
)

// Hover is the object currently under the pointer.
type Hover struct {
	X       float64
	Y       float64
	Kind    render.PickKind
	Payload interface{}
}

// HoverState is the pick state machine: Idle, or Hovering one object. Enter
// always overwrites; there is never more than one hovered object.
//
// HoverState does no locking of its own; the View serialises access.
type HoverState struct {
	current *Hover
}

// Enter moves to Hovering over payload at x, y.
func (h *HoverState) Enter(kind render.PickKind, payload interface{}, x, y float64) {
	h.current = &Hover{X: x, Y: y, Kind: kind, Payload: payload}
}

// Leave moves to Idle.
func (h *HoverState) Leave() {
	h.current = nil
}

// Handle feeds a pick event from a layer into the machine: an event over an
// object is an Enter, an event over nothing is a Leave.
func (h *HoverState) Handle(info render.PickInfo) {
	if info.Object == nil {
		h.Leave()
		return
	}
	h.Enter(info.Kind, info.Object, info.X, info.Y)
}

// Hovering returns true when an object is hovered.
func (h *HoverState) Hovering() bool {
	return h.current != nil
}

// Current returns the hovered object, if any.
func (h *HoverState) Current() (Hover, bool) {
	if h.current == nil {
		return Hover{}, false
	}
	return *h.current, true
}
