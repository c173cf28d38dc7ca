package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"github.com/geop/globe/report"
)

func handleView(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		respondWith(w, http.StatusOK, v.Snapshot(ctx))
	}
}

func handleStates(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		states := v.States()
		if states == nil {
			states = report.States{}
		}
		respondWith(w, http.StatusOK, states)
	}
}

func handleEdges(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		respondWith(w, http.StatusOK, v.Edges(ctx))
	}
}

func handleLegend(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		respondWith(w, http.StatusOK, v.Legend())
	}
}

func handleFilter(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		respondWith(w, http.StatusOK, v.Filter())
	}
}

// handleSetWindow changes the time window. The relation fetch it triggers
// completes in the background, hence 202.
func handleSetWindow(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		filter, err := v.SetTimeWindow(report.TimeWindow(mux.Vars(r)["window"]))
		if err != nil {
			respondWith(w, http.StatusBadRequest, err)
			return
		}
		respondWith(w, http.StatusAccepted, filter)
	}
}

func handleToggleType(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		eventType := report.EventType(mux.Vars(r)["type"])
		respondWith(w, http.StatusOK, v.ToggleEventType(eventType))
	}
}

func handleClearTypes(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		respondWith(w, http.StatusOK, v.ClearEventTypes())
	}
}

func handlePick(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var ev PickEvent
		defer r.Body.Close()
		if err := codec.NewDecoder(r.Body, &codec.JsonHandle{}).Decode(&ev); err != nil {
			respondWith(w, http.StatusBadRequest, errors.Wrap(err, "decoding pick event"))
			return
		}
		v.Pick(ctx, ev)
		writeHover(w, v)
	}
}

func handleHover(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		writeHover(w, v)
	}
}

func writeHover(w http.ResponseWriter, v *View) {
	tooltip, ok := v.Tooltip()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWith(w, http.StatusOK, tooltip)
}
