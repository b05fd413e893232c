package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrEngineStopped = errors.New("scheduler: engine stopped")

// Tick marks a boundary crossing. At is the boundary itself, not the moment
// the timer fired.
type Tick struct {
	At time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithInterval changes the boundary spacing; the due check uses one minute.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// Engine fires on every interval boundary of the wall clock (the top of each
// minute by default) until stopped. Ticks go out on a buffered channel;
// a tick that finds the buffer full is dropped and counted.
type Engine struct {
	mu       sync.Mutex
	out      chan Tick
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	dropped  uint64
	now      func() time.Time
	interval time.Duration
}

func NewEngine(bufferSize int, opts ...Option) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	e := &Engine{
		out:      make(chan Tick, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		now:      time.Now,
		interval: time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) C() <-chan Tick {
	return e.out
}

func (e *Engine) Interval() time.Duration {
	return e.interval
}

func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrEngineStopped
	}
	if e.started {
		return nil
	}
	e.started = true
	go e.loop()
	return nil
}

// Stop ends the loop and waits for it to exit. The tick channel is closed.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
		return
	}
	close(e.out)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		wait := UntilNextBoundary(e.now(), e.interval)
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			tick := Tick{At: e.now().Truncate(e.interval)}
			select {
			case e.out <- tick:
			default:
				atomic.AddUint64(&e.dropped, 1)
			}
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

// UntilNextBoundary returns the wait from now to the next multiple of
// interval. A now that sits exactly on a boundary waits a full interval.
func UntilNextBoundary(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		interval = time.Minute
	}
	next := now.Truncate(interval).Add(interval)
	return next.Sub(now)
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
