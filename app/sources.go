package app

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/weaveworks/common/instrument"

	"github.com/geop/globe/report"
)

// StateSource loads the state collection.
type StateSource interface {
	States(context.Context) (report.States, error)
}

// RelationSource fetches the relations since from, or all of them when
// bounded is false.
type RelationSource interface {
	Relations(ctx context.Context, from string, bounded bool) (report.Relations, error)
}

// StaticStates is a StateSource which always returns itself.
type StaticStates report.States

// States implements StateSource.
func (s StaticStates) States(context.Context) (report.States, error) { return report.States(s), nil }

// RelationSourceFunc adapts a function to a RelationSource.
type RelationSourceFunc func(ctx context.Context, from string, bounded bool) (report.Relations, error)

// Relations implements RelationSource.
func (f RelationSourceFunc) Relations(ctx context.Context, from string, bounded bool) (report.Relations, error) {
	return f(ctx, from, bounded)
}

type relationClient struct {
	client  *http.Client
	baseURL string
}

// NewRelationClient returns a RelationSource which queries
// GET {baseURL}/api/relations[?from=YYYY-MM-DD].
func NewRelationClient(baseURL string) RelationSource {
	return &relationClient{
		client:  cleanhttp.DefaultPooledClient(),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *relationClient) Relations(ctx context.Context, from string, bounded bool) (report.Relations, error) {
	u := c.baseURL + "/api/relations"
	if bounded {
		u += "?" + url.Values{"from": []string{from}}.Encode()
	}
	var relations report.Relations
	err := instrument.TimeRequestHistogram(ctx, "GET /api/relations", fetchDuration, func(ctx context.Context) error {
		body, err := get(ctx, c.client, u)
		if err != nil {
			return err
		}
		defer body.Close()
		relations, err = report.ReadRelations(body)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching relations from %s", u)
	}
	return relations, nil
}

type stateLoader struct {
	client   *http.Client
	location string
}

// NewStateSource returns a StateSource reading a JSON state collection from
// an http(s) URL or a local file.
func NewStateSource(location string) StateSource {
	return &stateLoader{
		client:   cleanhttp.DefaultClient(),
		location: location,
	}
}

func (l *stateLoader) States(ctx context.Context) (report.States, error) {
	var (
		body io.ReadCloser
		err  error
	)
	if strings.HasPrefix(l.location, "http://") || strings.HasPrefix(l.location, "https://") {
		err = instrument.TimeRequestHistogram(ctx, "GET states", fetchDuration, func(ctx context.Context) error {
			body, err = get(ctx, l.client, l.location)
			return err
		})
	} else {
		body, err = os.Open(l.location)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading states from %s", l.location)
	}
	defer body.Close()
	states, err := report.ReadStates(body)
	if err != nil {
		return nil, errors.Wrapf(err, "loading states from %s", l.location)
	}
	return states, nil
}

func get(ctx context.Context, client *http.Client, u string) (io.ReadCloser, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
