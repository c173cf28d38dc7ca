package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tylerb/graceful"
	"github.com/weaveworks/common/logging"
	"github.com/weaveworks/common/middleware"
	"github.com/weaveworks/common/signals"

	"github.com/geop/globe/app"
)

const shutdownTimeout = 5 * time.Second

// stopper shuts the server down, then freezes the view.
type stopper struct {
	server *graceful.Server
	view   *app.View
}

func (s stopper) Stop() error {
	s.server.Stop(shutdownTimeout)
	<-s.server.StopChan()
	s.view.Close()
	return nil
}

// pathPrefix strips prefix from every request, so the API can be served
// behind a reverse proxy under a sub-path. mux routes on URL.Path, so that is
// rewritten along with the RequestURI.
func pathPrefix(prefix string) middleware.Interface {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return middleware.Func(func(next http.Handler) http.Handler { return next })
	}
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "(/|$)")
	return middleware.Merge(
		middleware.PathRewrite(re, "/"),
		middleware.Func(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				r.URL.Path = re.ReplaceAllString(r.URL.Path, "/")
				next.ServeHTTP(w, r)
			})
		}),
	)
}

// httpHandler wraps the router in request logging and per-route
// instrumentation.
func httpHandler(router *mux.Router, prefix string, logHeaders bool) http.Handler {
	return middleware.Merge(
		pathPrefix(prefix),
		middleware.Log{
			Log:               logging.Logrus(log.StandardLogger()),
			LogRequestHeaders: logHeaders,
		},
		middleware.Instrument{
			RouteMatcher: router,
			Duration:     app.RequestDuration,
		},
	).Wrap(router)
}

func appMain(args []string) {
	cfg, err := parseAppConfig(flag.NewFlagSet("app", flag.ExitOnError), args)
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		log.Fatalf("Error configuring logging: %v", err)
	}
	viewCfg, err := cfg.viewConfig()
	if err != nil {
		log.Fatalf("Error in configuration: %v", err)
	}

	defer log.Info("app exiting")

	app.UniqueID = strings.Replace(uuid.New(), "-", "", -1)
	app.WebsocketFPS = cfg.WebsocketFPS
	log.Infof("app starting, version %s, ID %s", app.Version, app.UniqueID)
	log.Infof("relations from %s, states from %s, window %s", cfg.BackendURL, cfg.StatesURL, viewCfg.InitialWindow)

	view := app.NewView(
		app.NewStateSource(cfg.StatesURL),
		app.NewRelationClient(cfg.BackendURL),
		viewCfg,
	)
	view.Start()

	router := app.Router(view)
	router.PathPrefix("/debug/pprof").Handler(http.DefaultServeMux)
	handler := httpHandler(router, cfg.PathPrefix, cfg.LogHTTPHeaders)

	server := &graceful.Server{
		// we want to manage the stop condition ourselves below
		NoSignalHandling: true,
		Server: &http.Server{
			Addr:    cfg.Listen,
			Handler: handler,
		},
	}
	go func() {
		log.Infof("listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil {
			log.Errorf("Error serving: %v", err)
		}
	}()

	// block until INT/TERM
	signals.SignalHandlerLoop(
		logging.Logrus(log.StandardLogger()),
		stopper{server: server, view: view},
	)
}
