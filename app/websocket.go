package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
	"golang.org/x/time/rate"

	"github.com/geop/globe/common/xfer"
)

const websocketKeepalive = 5 * time.Second

// WebsocketFPS caps how many snapshots per second a websocket client is
// sent, unless it asks for fewer with ?fps=.
var WebsocketFPS = 30

// handleWebsocket streams a Snapshot every time the view changes, throttled
// to the client's frame rate. Messages from the client are decoded as
// PickEvents and fed to the view.
func handleWebsocket(v *View) CtxHandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondWith(w, http.StatusInternalServerError, err)
			return
		}
		fps := WebsocketFPS
		if s := r.Form.Get("fps"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				respondWith(w, http.StatusBadRequest, errors.Errorf("invalid fps %q", s))
				return
			}
			if n < fps {
				fps = n
			}
		}

		conn, err := xfer.Upgrade(w, r, nil)
		if err != nil {
			// log.Info("Upgrade:", err)
			return
		}
		defer conn.Close()

		websocketClients.Inc()
		defer websocketClients.Dec()

		quit := make(chan struct{})
		go func(c *websocket.Conn) {
			defer close(quit)
			for {
				_, msg, err := c.ReadMessage()
				if err != nil {
					if !xfer.IsExpectedWSCloseError(err) {
						log.Error("err:", err)
					}
					return
				}
				var ev PickEvent
				if err := codec.NewDecoderBytes(msg, &codec.JsonHandle{}).Decode(&ev); err != nil {
					log.Warnf("Discarding websocket message: %v", err)
					continue
				}
				v.Pick(ctx, ev)
			}
		}(conn)

		var (
			limiter = rate.NewLimiter(rate.Limit(fps), 1)
			tick    = time.NewTicker(websocketKeepalive)
			wait    = make(chan struct{}, 1)
		)
		defer tick.Stop()
		v.WaitOn(wait)
		defer v.UnWait(wait)

		for {
			if err := xfer.WriteJSONtoWS(conn, v.Snapshot(ctx)); err != nil {
				if !xfer.IsExpectedWSCloseError(err) {
					log.Errorf("cannot write snapshot: %s", err)
				}
				return
			}

			select {
			case <-wait:
			case <-tick.C:
			case <-quit:
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}
	}
}
