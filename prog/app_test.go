package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geop/globe/app"
	"github.com/geop/globe/report"
	"github.com/geop/globe/test/fixture"
)

func TestPathPrefix(t *testing.T) {
	var seen string
	record := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	})

	h := pathPrefix("/globe/").Wrap(record)
	for path, want := range map[string]string{
		"/globe/api/view": "/api/view",
		"/globe":          "/",
		"/globex/api":     "/globex/api",
		"/api":            "/api",
	} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
		assert.Equal(t, want, seen, path)
	}

	for _, prefix := range []string{"", "/"} {
		pathPrefix(prefix).Wrap(record).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))
		assert.Equal(t, "/api", seen)
	}
}

func TestHTTPHandler(t *testing.T) {
	relations := app.RelationSourceFunc(func(context.Context, string, bool) (report.Relations, error) {
		return fixture.Relations, nil
	})
	v := app.NewView(app.StaticStates(fixture.States), relations, app.DefaultViewConfig())
	defer v.Close()
	h := httpHandler(app.Router(v), "/globe", false)

	for _, tc := range []struct {
		method, path string
		code         int
	}{
		{"PUT", "/globe/api/filter/window/7D", http.StatusAccepted},
		{"GET", "/globe/api/states", http.StatusOK},
		{"GET", "/nowhere", http.StatusNotFound},
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.code, w.Code, tc.path)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	counts := map[string]uint64{}
	for _, family := range families {
		if family.GetName() != "globe_request_duration_seconds" {
			continue
		}
		// Label pairs come back sorted by name: method, route, status_code, ws.
		for _, m := range family.GetMetric() {
			var values []string
			for _, l := range m.GetLabel() {
				values = append(values, l.GetValue())
			}
			counts[strings.Join(values, " ")] = m.GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), counts["PUT api_filter_window 202 false"])
	assert.Equal(t, uint64(1), counts["GET api_states 200 false"])
	assert.Equal(t, uint64(1), counts["GET other 404 false"])
}
