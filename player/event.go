package player

import "sync"

type EventKind string

const (
	EventAbort          EventKind = "abort"
	EventCanPlay        EventKind = "canplay"
	EventCanPlayThrough EventKind = "canplaythrough"
	EventDurationChange EventKind = "durationchange"
	EventEmptied        EventKind = "emptied"
	EventEnded          EventKind = "ended"
	EventError          EventKind = "error"
	EventLoadedData     EventKind = "loadeddata"
	EventLoadedMetadata EventKind = "loadedmetadata"
	EventLoadStart      EventKind = "loadstart"
	EventPause          EventKind = "pause"
	EventPlay           EventKind = "play"
	EventPlaying        EventKind = "playing"
	EventProgress       EventKind = "progress"
	EventSeeked         EventKind = "seeked"
	EventSeeking        EventKind = "seeking"
	EventStalled        EventKind = "stalled"
	EventSuspend        EventKind = "suspend"
	EventTimeUpdate     EventKind = "timeupdate"
	EventVolumeChange   EventKind = "volumechange"
	EventWaiting        EventKind = "waiting"
)

// Event is delivered to subscribers, Target is the media that fired it
type Event struct {
	Kind   EventKind
	Target Media
}

type Handler func(Event)

// Dispatcher runs a function on the thread that owns the widget state.
// The TUI passes tview's QueueUpdateDraw, tests run the function inline.
type Dispatcher func(func())

// Inline is a Dispatcher that runs f on the calling goroutine
func Inline(f func()) { f() }

type subscription struct {
	id      int
	handler Handler
}

// Emitter keeps the subscriptions of a media backend
type Emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventKind][]subscription
}

// Subscribe registers handler for kind. The returned function removes it and may be called repeatedly.
func (e *Emitter) Subscribe(kind EventKind, handler Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[EventKind][]subscription)
	}
	e.nextID++
	id := e.nextID
	e.subs[kind] = append(e.subs[kind], subscription{id: id, handler: handler})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		list := e.subs[kind]
		for i, s := range list {
			if s.id == id {
				e.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit calls the handlers registered for evt.Kind in subscription order.
// Handlers may subscribe or unsubscribe while being called.
func (e *Emitter) Emit(evt Event) {
	e.mu.Lock()
	list := make([]subscription, len(e.subs[evt.Kind]))
	copy(list, e.subs[evt.Kind])
	e.mu.Unlock()

	for _, s := range list {
		s.handler(evt)
	}
}

// Count returns the number of handlers registered for kind
func (e *Emitter) Count(kind EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs[kind])
}
