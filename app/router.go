package app

import (
	"context"
	"net/http"
	"os"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"

	"github.com/geop/globe/common/xfer"
)

var (
	// Version - set at buildtime.
	Version = "dev"

	// UniqueID - set at runtime.
	UniqueID = "0"
)

// CtxHandlerFunc is a http.HandlerFunc, with added contexts
type CtxHandlerFunc func(context.Context, http.ResponseWriter, *http.Request)

func requestContextDecorator(f CtxHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f(r.Context(), w, r)
	}
}

func gzipHandler(h http.HandlerFunc) http.Handler {
	return gziphandler.GzipHandler(h)
}

// Router creates the mux for the view API, websocket and metrics.
func Router(v *View) *mux.Router {
	router := mux.NewRouter()
	RegisterViewRoutes(router, v)
	RegisterInstrumentationRoutes(router)
	return router
}

// RegisterViewRoutes registers the view, filter and pick routes with a http mux.
func RegisterViewRoutes(router *mux.Router, v *View) {
	get := router.Methods("GET").Subrouter()
	get.Handle("/api", gzipHandler(requestContextDecorator(apiHandler)))
	get.Handle("/api/view", gzipHandler(requestContextDecorator(handleView(v))))
	get.HandleFunc("/api/view/ws", requestContextDecorator(handleWebsocket(v))) // NB not gzip!
	get.Handle("/api/states", gzipHandler(requestContextDecorator(handleStates(v))))
	get.Handle("/api/edges", gzipHandler(requestContextDecorator(handleEdges(v))))
	get.Handle("/api/legend", gzipHandler(requestContextDecorator(handleLegend(v))))
	get.Handle("/api/filter", gzipHandler(requestContextDecorator(handleFilter(v))))
	get.Handle("/api/hover", gzipHandler(requestContextDecorator(handleHover(v))))

	router.Methods("PUT").Path("/api/filter/window/{window}").
		HandlerFunc(requestContextDecorator(handleSetWindow(v))).
		Name("api_filter_window")
	router.Methods("POST").Path("/api/filter/types/{type}").
		HandlerFunc(requestContextDecorator(handleToggleType(v))).
		Name("api_filter_types_type")
	router.Methods("DELETE").Path("/api/filter/types").
		HandlerFunc(requestContextDecorator(handleClearTypes(v)))
	router.Methods("POST").Path("/api/pick").
		HandlerFunc(requestContextDecorator(handlePick(v)))
}

func apiHandler(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()
	respondWith(w, http.StatusOK, xfer.Details{
		ID:       UniqueID,
		Version:  Version,
		Hostname: hostname,
	})
}
