package domain

import (
	"path/filepath"
	"strings"
	"sync"
)

// Track is a playable source with a display title
type Track struct {
	Src   string
	Title string
}

// NewTrack derives the title from the file name when none is given
func NewTrack(src string) Track {
	base := filepath.Base(src)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" || title == "." || title == "/" {
		title = src
	}
	return Track{Src: src, Title: title}
}

// Playlist holds the tracks reachable with the skip controls, safe for concurrent use
type Playlist struct {
	tracks  []Track
	current int
	mux     sync.RWMutex
}

// NewPlaylist creates a playlist positioned on its first track
func NewPlaylist(tracks ...Track) *Playlist {
	p := &Playlist{current: -1}
	p.Add(tracks...)
	return p
}

// Add appends tracks, the first added track becomes current
func (p *Playlist) Add(tracks ...Track) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.tracks = append(p.tracks, tracks...)
	if p.current < 0 && len(p.tracks) > 0 {
		p.current = 0
	}
}

// Tracks returns a copy of the playlist
func (p *Playlist) Tracks() []Track {
	p.mux.RLock()
	defer p.mux.RUnlock()
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

func (p *Playlist) Len() int {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return len(p.tracks)
}

// Current returns the current track and its index, ok is false when empty
func (p *Playlist) Current() (track Track, index int, ok bool) {
	p.mux.RLock()
	defer p.mux.RUnlock()
	if p.current < 0 {
		return Track{}, -1, false
	}
	return p.tracks[p.current], p.current, true
}

// Next moves forward, wrapping around at the end
func (p *Playlist) Next() (Track, bool) {
	return p.step(1)
}

// Previous moves backward, wrapping around at the start
func (p *Playlist) Previous() (Track, bool) {
	return p.step(-1)
}

// Select makes index current
func (p *Playlist) Select(index int) (Track, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if index < 0 || index >= len(p.tracks) {
		return Track{}, false
	}
	p.current = index
	return p.tracks[index], true
}

func (p *Playlist) step(delta int) (Track, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	n := len(p.tracks)
	if n == 0 {
		return Track{}, false
	}
	p.current = ((p.current+delta)%n + n) % n
	return p.tracks[p.current], true
}
