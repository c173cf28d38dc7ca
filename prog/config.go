package main

import (
	"flag"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/geop/globe/app"
	"github.com/geop/globe/common/xfer"
	"github.com/geop/globe/render"
	"github.com/geop/globe/report"
)

// Offset modes.
const (
	offsetCategory = "category"
	offsetEdge     = "edge"
)

// appConfig is everything the app can be told. Values come from flag
// defaults, then the -config file, then flags given on the command line.
type appConfig struct {
	Listen          string        `toml:"http_address"`
	PathPrefix      string        `toml:"http_prefix"`
	LogLevel        string        `toml:"log_level"`
	LogHTTPHeaders  bool          `toml:"log_http_headers"`
	BackendURL      string        `toml:"backend_url"`
	StatesURL       string        `toml:"states_url"`
	Window          string        `toml:"window"`
	FrameInterval   time.Duration `toml:"frame_interval"`
	PhaseIncrement  float64       `toml:"phase_increment"`
	OffsetMode      string        `toml:"offset_mode"`
	FetchTimeout    time.Duration `toml:"fetch_timeout"`
	CacheSize       int           `toml:"cache_size"`
	WebsocketFPS    int           `toml:"ws_fps"`
	LastArrivalWins bool          `toml:"last_arrival_wins"`
}

func (c *appConfig) registerFlags(fs *flag.FlagSet) {
	defaults := app.DefaultViewConfig()
	fs.StringVar(&c.Listen, "http.address", ":"+strconv.Itoa(xfer.AppPort), "webserver listen address")
	fs.StringVar(&c.PathPrefix, "http.prefix", "", "serve the API under this path prefix")
	fs.StringVar(&c.LogLevel, "log.level", "info", "logging threshold level: debug|info|warn|error|fatal|panic")
	fs.BoolVar(&c.LogHTTPHeaders, "log.http.headers", false, "Log HTTP headers. Needs log.level=debug")
	fs.StringVar(&c.BackendURL, "backend.url", "http://127.0.0.1:8000", "base URL of the relation backend")
	fs.StringVar(&c.StatesURL, "states.url", "states.deck.json", "file or http(s) URL of the state collection")
	fs.StringVar(&c.Window, "window", string(defaults.InitialWindow), "initial time window: ALL|7D|30D|90D")
	fs.DurationVar(&c.FrameInterval, "frame.interval", defaults.FrameInterval, "animation frame interval")
	fs.Float64Var(&c.PhaseIncrement, "phase.increment", defaults.PhaseIncrement, "dash phase advance per frame")
	fs.StringVar(&c.OffsetMode, "offset.mode", offsetCategory, "arc lift: category (shared per event type) or edge (per relation)")
	fs.DurationVar(&c.FetchTimeout, "fetch.timeout", defaults.FetchTimeout, "timeout for a relation fetch")
	fs.IntVar(&c.CacheSize, "cache.size", defaults.CacheSize, "number of edge sets to memoise")
	fs.IntVar(&c.WebsocketFPS, "ws.fps", app.WebsocketFPS, "maximum view updates per second pushed to a websocket")
	fs.BoolVar(&c.LastArrivalWins, "relations.last-arrival-wins", false, "apply relation responses in arrival order rather than request order")
}

// parseAppConfig parses args. If -config names a TOML file its values
// replace the defaults, but flags given explicitly still win.
func parseAppConfig(fs *flag.FlagSet, args []string) (appConfig, error) {
	var (
		c          appConfig
		configFile string
	)
	c.registerFlags(fs)
	fs.StringVar(&configFile, "config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if configFile == "" {
		return c, nil
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	if _, err := toml.DecodeFile(configFile, &c); err != nil {
		return c, errors.Wrapf(err, "reading config %s", configFile)
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (c appConfig) viewConfig() (app.ViewConfig, error) {
	cfg := app.DefaultViewConfig()
	window := report.TimeWindow(c.Window)
	if !window.Valid() {
		return cfg, errors.Errorf("unknown time window %q", c.Window)
	}
	switch c.OffsetMode {
	case offsetCategory:
		cfg.Offset = render.CategoryOffset
	case offsetEdge:
		cfg.Offset = render.EdgeKeyOffset
	default:
		return cfg, errors.Errorf("unknown offset mode %q", c.OffsetMode)
	}
	if c.FrameInterval <= 0 {
		return cfg, errors.Errorf("frame interval must be positive, got %s", c.FrameInterval)
	}
	if c.WebsocketFPS <= 0 {
		return cfg, errors.Errorf("websocket rate must be positive, got %d", c.WebsocketFPS)
	}
	cfg.InitialWindow = window
	cfg.FrameInterval = c.FrameInterval
	cfg.PhaseIncrement = c.PhaseIncrement
	cfg.FetchTimeout = c.FetchTimeout
	cfg.CacheSize = c.CacheSize
	cfg.LastArrivalWins = c.LastArrivalWins
	return cfg, nil
}
