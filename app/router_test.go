package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geop/globe/app"
	"github.com/geop/globe/common/xfer"
	"github.com/geop/globe/render"
	"github.com/geop/globe/render/detailed"
	"github.com/geop/globe/report"
	"github.com/geop/globe/test"
	"github.com/geop/globe/test/fixture"
)

func viewServer(t *testing.T) (*app.View, *httptest.Server) {
	v := loadedView(t)
	return v, httptest.NewServer(app.Router(v))
}

func TestAPIDetails(t *testing.T) {
	v, ts := viewServer(t)
	defer v.Close()
	defer ts.Close()

	var details xfer.Details
	getJSON(t, ts, "/api", &details)
	assert.Equal(t, app.Version, details.Version)
	assert.Equal(t, app.UniqueID, details.ID)

	is404(t, ts, "/api/foobar")
}

func TestAPIStatesAndEdges(t *testing.T) {
	v, ts := viewServer(t)
	defer v.Close()
	defer ts.Close()

	var states report.States
	getJSON(t, ts, "/api/states", &states)
	assert.Equal(t, fixture.States, states)

	var edges []struct {
		Source         string          `json:"source"`
		Target         string          `json:"target"`
		SourcePosition render.Position `json:"sourcePosition"`
	}
	getJSON(t, ts, "/api/edges", &edges)
	assert.Len(t, edges, fixture.ResolvableRelations)

	var legend []render.LegendEntry
	getJSON(t, ts, "/api/legend", &legend)
	assert.Len(t, legend, len(report.KnownEventTypes))
}

func TestAPIFilter(t *testing.T) {
	v, ts := viewServer(t)
	defer v.Close()
	defer ts.Close()

	var filter app.Filter
	getJSON(t, ts, "/api/filter", &filter)
	assert.Equal(t, report.Window30D, filter.Window)

	res, body := checkRequest(t, ts, "PUT", "/api/filter/window/7D", nil)
	require.Equal(t, http.StatusAccepted, res.StatusCode, string(body))
	decode(t, body, &filter)
	assert.Equal(t, report.Window7D, filter.Window)

	res, _ = checkRequest(t, ts, "PUT", "/api/filter/window/1Y", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = checkRequest(t, ts, "POST", "/api/filter/types/ATTACK", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	filter = app.Filter{}
	decode(t, body, &filter)
	assert.Equal(t, report.MakeEventTypeSet(report.Attack), filter.EventTypes)

	res, body = checkRequest(t, ts, "DELETE", "/api/filter/types", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	filter = app.Filter{}
	decode(t, body, &filter)
	assert.Empty(t, filter.EventTypes)
}

func TestAPIPickAndHover(t *testing.T) {
	v, ts := viewServer(t)
	defer v.Close()
	defer ts.Close()

	res, _ := checkGet(t, ts, "/api/hover")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body := checkRequest(t, ts, "POST", "/api/pick", []byte(`{"layer":"states","index":2,"x":3,"y":4}`))
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tooltip detailed.Tooltip
	decode(t, body, &tooltip)
	assert.Equal(t, fixture.UKR.Label(), tooltip.Title)

	getJSON(t, ts, "/api/hover", &tooltip)
	assert.Equal(t, fixture.UKR.Label(), tooltip.Title)

	res, _ = checkRequest(t, ts, "POST", "/api/pick", []byte(`{"layer":"states","x":3,"y":4}`))
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = checkRequest(t, ts, "POST", "/api/pick", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAPIView(t *testing.T) {
	v, ts := viewServer(t)
	defer v.Close()
	defer ts.Close()

	var snapshot struct {
		Filter app.Filter               `json:"filter"`
		Layers []map[string]interface{} `json:"layers"`
		Legend []render.LegendEntry     `json:"legend"`
		Hover  *detailed.Tooltip        `json:"hover"`
	}
	getJSON(t, ts, "/api/view", &snapshot)
	require.Len(t, snapshot.Layers, 3)
	assert.Equal(t, render.EarthLayerID, snapshot.Layers[0]["id"])
	assert.Equal(t, render.RelationsLayerID, snapshot.Layers[1]["id"])
	assert.Equal(t, render.StatesLayerID, snapshot.Layers[2]["id"])
	assert.Nil(t, snapshot.Hover)
}

func TestMetrics(t *testing.T) {
	v, ts := viewServer(t)
	defer v.Close()
	defer ts.Close()

	test.Poll(t, time.Second, func() bool {
		res, _ := checkGet(t, ts, "/metrics")
		return res.StatusCode == http.StatusOK
	}, "metrics not served")
}
