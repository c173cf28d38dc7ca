package app_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geop/globe/app"
	"github.com/geop/globe/test/fixture"
)

func backend(t *testing.T, queries chan<- string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/relations", func(w http.ResponseWriter, r *http.Request) {
		if queries != nil {
			queries <- r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture.JSON(fixture.Relations))
	})
	mux.HandleFunc("/states.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture.JSON(fixture.States))
	})
	return httptest.NewServer(mux)
}

func TestRelationClient(t *testing.T) {
	queries := make(chan string, 2)
	ts := backend(t, queries)
	defer ts.Close()

	client := app.NewRelationClient(ts.URL + "/")
	relations, err := client.Relations(context.Background(), "2024-03-03", true)
	require.NoError(t, err)
	assert.Equal(t, fixture.Relations, relations)
	assert.Equal(t, "from=2024-03-03", <-queries)

	_, err = client.Relations(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, "", <-queries)
}

func TestRelationClientErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := app.NewRelationClient(ts.URL).Relations(context.Background(), "", false)
	assert.Error(t, err)

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer garbage.Close()
	_, err = app.NewRelationClient(garbage.URL).Relations(context.Background(), "", false)
	assert.Error(t, err)
}

func TestStateSource(t *testing.T) {
	ts := backend(t, nil)
	defer ts.Close()

	states, err := app.NewStateSource(ts.URL + "/states.json").States(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture.States, states)

	dir, err := ioutil.TempDir("", "globe")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "states.json")
	require.NoError(t, ioutil.WriteFile(path, fixture.JSON(fixture.States), 0644))

	states, err = app.NewStateSource(path).States(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture.States, states)

	_, err = app.NewStateSource(filepath.Join(dir, "missing.json")).States(context.Background())
	assert.Error(t, err)
}
