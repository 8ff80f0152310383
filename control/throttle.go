package control

import (
	"time"

	"github.com/yhkl-dev/naviplayer/player"
	"golang.org/x/time/rate"
)

// Throttle wraps fn so that once a call goes through, further calls within
// window are dropped. Nothing is replayed at the end of the window.
// now defaults to time.Now.
func Throttle[T any](fn func(T), window time.Duration, now func() time.Time) func(T) {
	if now == nil {
		now = time.Now
	}
	limit := rate.Inf
	if window > 0 {
		limit = rate.Every(window)
	}
	limiter := rate.NewLimiter(limit, 1)

	return func(arg T) {
		if limiter.AllowN(now(), 1) {
			fn(arg)
		}
	}
}

// Timer is the part of *time.Timer the controls need.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// DispatchedAfterFunc returns an AfterFunc backed by time.AfterFunc whose
// callbacks are handed to dispatch, so they run on the UI goroutine.
func DispatchedAfterFunc(dispatch player.Dispatcher) AfterFunc {
	if dispatch == nil {
		dispatch = player.Inline
	}
	return func(d time.Duration, f func()) Timer {
		return time.AfterFunc(d, func() { dispatch(f) })
	}
}

// animation is a flag that stays up for a fixed window after each trigger.
// A newer trigger restarts the window.
type animation struct {
	after  AfterFunc
	window time.Duration
	active bool
	timer  Timer
	gen    int
}

func (a *animation) start() {
	a.stop()
	a.active = true
	a.gen++
	gen := a.gen
	a.timer = a.after(a.window, func() {
		if gen == a.gen {
			a.active = false
		}
	})
}

func (a *animation) stop() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *animation) reset() {
	a.stop()
	a.gen++
	a.active = false
}
