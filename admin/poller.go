package admin

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPollInterval matches the control panel's refresh rate.
const DefaultPollInterval = 3 * time.Second

// StatusSource is the part of Client a Poller needs.
type StatusSource interface {
	JobStatus(ctx context.Context, name string) (JobStatus, error)
}

// Poller fetches a job's status at a fixed interval while started, and
// hands every status it gets to a callback. Failed polls are logged and
// skipped; the last good status is kept.
type Poller struct {
	source   StatusSource
	job      string
	interval time.Duration
	onStatus func(JobStatus)

	mtx     sync.Mutex
	last    *JobStatus
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewPoller makes a stopped Poller. onStatus may be nil.
func NewPoller(source StatusSource, job string, interval time.Duration, onStatus func(JobStatus)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		job:      job,
		interval: interval,
		onStatus: onStatus,
	}
}

// Start begins polling. Starting a running poller does nothing.
func (p *Poller) Start() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(p.quit, p.done)
}

// Stop ends polling and waits for any in-flight poll to return.
func (p *Poller) Stop() {
	p.mtx.Lock()
	if !p.running {
		p.mtx.Unlock()
		return
	}
	p.running = false
	close(p.quit)
	done := p.done
	p.mtx.Unlock()
	<-done
}

// Last returns the most recent status, if any poll has succeeded.
func (p *Poller) Last() (JobStatus, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.last == nil {
		return JobStatus{}, false
	}
	return *p.last, true
}

func (p *Poller) loop(quit, done chan struct{}) {
	defer close(done)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-quit:
			cancel()
		case <-done:
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-quit:
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	status, err := p.source.JobStatus(ctx, p.job)
	if err != nil {
		if ctx.Err() == nil {
			log.Warnf("Error polling job %s: %v", p.job, err)
		}
		return
	}
	p.mtx.Lock()
	p.last = &status
	p.mtx.Unlock()
	if p.onStatus != nil {
		p.onStatus(status)
	}
}
