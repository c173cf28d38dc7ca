// Package admin talks to the backend's job control surface: data ingestion
// reboots and refreshes, and the LLM processing job. Nothing in the view
// depends on it.
package admin

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

const httpClientTimeout = 10 * time.Minute // ingestion runs synchronously on the backend

// ProcessMode selects which rows the LLM processing job works on.
type ProcessMode string

// Processing modes understood by the backend.
const (
	ProcessAll               ProcessMode = "all"
	ProcessLastN             ProcessMode = "last_n"
	ProcessMissingExtraction ProcessMode = "missing_extraction"
	ProcessMissingStates     ProcessMode = "missing_states"
)

// DefaultProcessLimit is how many rows a processing run takes by default.
const DefaultProcessLimit = 500

// LLMProcessingJob is the name of the backend's processing job.
const LLMProcessingJob = "llm_processing"

// Valid returns true for the modes the backend knows.
func (m ProcessMode) Valid() bool {
	switch m {
	case ProcessAll, ProcessLastN, ProcessMissingExtraction, ProcessMissingStates:
		return true
	}
	return false
}

// Job states.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// JobStatus is the backend's record of a job.
type JobStatus struct {
	JobName    string `json:"job_name"`
	Status     string `json:"status"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Running returns true while the job is in progress.
func (s JobStatus) Running() bool {
	return s.Status == StatusRunning
}

// Result is the free-form acknowledgement the backend returns for a job
// request, e.g. {"status": "completed", "months_back": 3}.
type Result map[string]interface{}

// Status returns the "status" field of the result.
func (r Result) Status() string {
	s, _ := r["status"].(string)
	return s
}

type periodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Client issues job requests to the backend.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient makes a Client for the backend at baseURL, e.g.
// http://127.0.0.1:8000.
func NewClient(baseURL string) *Client {
	client := cleanhttp.DefaultClient()
	client.Timeout = httpClientTimeout
	return &Client{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// RebootFull re-ingests the full history.
func (c *Client) RebootFull(ctx context.Context) (Result, error) {
	var result Result
	return result, c.do(ctx, "POST", "/api/reboot-full", nil, &result)
}

// RefreshIncremental ingests the recent past.
func (c *Client) RefreshIncremental(ctx context.Context) (Result, error) {
	var result Result
	return result, c.do(ctx, "POST", "/api/refresh-incremental", nil, &result)
}

// FetchPeriod ingests events between start and end, inclusive.
func (c *Client) FetchPeriod(ctx context.Context, start, end time.Time) (Result, error) {
	if end.Before(start) {
		return nil, errors.Errorf("period ends (%s) before it starts (%s)", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	var result Result
	req := periodRequest{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
	return result, c.do(ctx, "POST", "/api/fetch-period", req, &result)
}

// Process starts the LLM processing job. A limit of zero or less leaves it
// to the backend.
func (c *Client) Process(ctx context.Context, mode ProcessMode, limit int) (Result, error) {
	if !mode.Valid() {
		return nil, errors.Errorf("unknown processing mode %q", mode)
	}
	params := url.Values{"mode": []string{string(mode)}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var result Result
	return result, c.do(ctx, "POST", "/api/process?"+params.Encode(), nil, &result)
}

// ResetJob clears a stuck job record.
func (c *Client) ResetJob(ctx context.Context, name string) (Result, error) {
	var result Result
	return result, c.do(ctx, "POST", "/api/jobs/"+url.PathEscape(name)+"/reset", nil, &result)
}

// JobStatus fetches the status of the named job.
func (c *Client) JobStatus(ctx context.Context, name string) (JobStatus, error) {
	var status JobStatus
	err := c.do(ctx, "GET", "/api/jobs/"+url.PathEscape(name), nil, &status)
	return status, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := codec.NewEncoder(buf, &codec.JsonHandle{}).Encode(in); err != nil {
			return errors.Wrapf(err, "encoding %s %s", method, path)
		}
		body = buf
	}
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = codec.NewDecoder(resp.Body, &codec.JsonHandle{}).Decode(&detail)
		if detail.Detail != "" {
			return errors.Errorf("%s %s: %s: %s", method, path, resp.Status, detail.Detail)
		}
		return errors.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if err := codec.NewDecoder(resp.Body, &codec.JsonHandle{}).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}
