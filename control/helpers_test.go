package control

import (
	"time"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

// scheduler runs AfterFunc callbacks on demand
type scheduler struct {
	timers []*fakeTimer
}

func (s *scheduler) after(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every pending timer
func (s *scheduler) fire() {
	timers := s.timers
	s.timers = nil
	for _, t := range timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

func (s *scheduler) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

type clock struct {
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

type capturer struct {
	handler  DragHandler
	captures int
	releases int
}

func (c *capturer) Capture(h DragHandler) func() {
	c.handler = h
	c.captures++
	return func() {
		c.handler = nil
		c.releases++
	}
}

// queue collects dispatched callbacks until run is called
type queue struct {
	fns chan func()
}

func newQueue() *queue {
	return &queue{fns: make(chan func(), 16)}
}

func (q *queue) dispatch(f func()) { q.fns <- f }

// next waits for one dispatched callback and runs it
func (q *queue) next() bool {
	select {
	case f := <-q.fns:
		f()
		return true
	case <-time.After(time.Second):
		return false
	}
}
