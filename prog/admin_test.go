package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestAdminMain(t *testing.T) {
	color.NoColor = true
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.RequestURI())
		switch r.URL.Path {
		case "/api/jobs/llm_processing":
			w.Write([]byte(`{"job_name":"llm_processing","status":"failed","error":"ollama unreachable"}`))
		case "/api/process":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"detail":"already running"}`))
		default:
			w.Write([]byte(`{"status":"completed","months_back":3}`))
		}
	}))
	defer ts.Close()

	var out bytes.Buffer
	assert.Equal(t, 0, adminMain([]string{"-backend.url", ts.URL, "reboot"}, &out))
	assert.Contains(t, out.String(), "reboot: completed")
	assert.Contains(t, out.String(), "months_back: 3")

	out.Reset()
	assert.Equal(t, 0, adminMain([]string{"-backend.url", ts.URL, "status"}, &out))
	assert.Contains(t, out.String(), "llm_processing: failed")
	assert.Contains(t, out.String(), "ollama unreachable")

	out.Reset()
	assert.Equal(t, 1, adminMain([]string{"-backend.url", ts.URL, "-limit", "10", "process"}, &out))
	assert.Contains(t, out.String(), "already running")

	out.Reset()
	assert.Equal(t, 0, adminMain([]string{"-backend.url", ts.URL, "fetch", "2024-01-01", "2024-01-31"}, &out))

	assert.Equal(t, 2, adminMain([]string{"-backend.url", ts.URL, "explode"}, &out))
	assert.Equal(t, 1, adminMain([]string{"-backend.url", ts.URL, "fetch", "2024-01-01"}, &out))

	assert.Equal(t, []string{
		"POST /api/reboot-full",
		"GET /api/jobs/llm_processing",
		"POST /api/process?limit=10&mode=missing_states",
		"POST /api/fetch-period",
	}, paths)
}
