package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitterOrderAndUnsubscribe(t *testing.T) {
	var e Emitter
	var calls []string

	first := e.Subscribe(EventTimeUpdate, func(Event) { calls = append(calls, "first") })
	e.Subscribe(EventTimeUpdate, func(Event) { calls = append(calls, "second") })
	e.Subscribe(EventPause, func(Event) { calls = append(calls, "pause") })

	e.Emit(Event{Kind: EventTimeUpdate})
	assert.Equal(t, []string{"first", "second"}, calls)

	first()
	first()
	calls = nil
	e.Emit(Event{Kind: EventTimeUpdate})
	assert.Equal(t, []string{"second"}, calls)
	assert.Equal(t, 1, e.Count(EventTimeUpdate))
	assert.Equal(t, 1, e.Count(EventPause))
}

func TestEmitterHandlerMayUnsubscribeItself(t *testing.T) {
	var e Emitter
	n := 0
	var release func()
	release = e.Subscribe(EventEnded, func(Event) {
		n++
		release()
	})

	e.Emit(Event{Kind: EventEnded})
	e.Emit(Event{Kind: EventEnded})
	assert.Equal(t, 1, n)
}

func TestDecoderFor(t *testing.T) {
	for _, path := range []string{"a.mp3", "b.WAV", "c.ogg", "d.flac"} {
		dec, err := decoderFor(path)
		assert.NoError(t, err, path)
		assert.NotNil(t, dec, path)
	}

	_, err := decoderFor("movie.mkv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
