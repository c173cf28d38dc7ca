package app

import (
	"sync"
	"time"
)

// Clock drives the dash-flow animation. Once started it advances its phase
// by a fixed increment every frame and reports the new phase to onTick. The
// phase has no ceiling: consumers only care about it modulo the dash
// pattern length, and clamping would stall the animation.
type Clock struct {
	interval  time.Duration
	increment float64
	onTick    func(phase float64)

	mtx     sync.Mutex
	phase   float64
	running bool
	quit    chan struct{}
	wait    sync.WaitGroup
}

// NewClock makes a stopped clock.
func NewClock(interval time.Duration, increment float64, onTick func(phase float64)) *Clock {
	return &Clock{
		interval:  interval,
		increment: increment,
		onTick:    onTick,
	}
}

// Start begins ticking. Starting a running clock does nothing.
func (c *Clock) Start() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.quit = make(chan struct{})
	c.wait.Add(1)
	go c.loop(c.quit)
}

// Stop cancels the ticker and waits for the tick goroutine to exit. After
// Stop returns the phase no longer changes. Stop must not be called from
// onTick.
func (c *Clock) Stop() {
	c.mtx.Lock()
	if !c.running {
		c.mtx.Unlock()
		return
	}
	c.running = false
	close(c.quit)
	c.mtx.Unlock()
	c.wait.Wait()
}

// Phase returns the current phase.
func (c *Clock) Phase() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.phase
}

// Tick advances the clock by one frame and returns the new phase.
func (c *Clock) Tick() float64 {
	c.mtx.Lock()
	c.phase += c.increment
	phase := c.phase
	c.mtx.Unlock()

	if c.onTick != nil {
		c.onTick(phase)
	}
	return phase
}

func (c *Clock) loop(quit chan struct{}) {
	defer c.wait.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Tick()
		case <-quit:
			return
		}
	}
}
