package control

// Rect is the on-screen extent of a bar along the pointer axis.
type Rect struct {
	Left  int
	Width int
}

// DragHandler receives the pointer events of an active drag, wherever the
// pointer is.
type DragHandler interface {
	PointerMove(x int)
	PointerUp(x int)
}

// PointerCapturer routes every pointer event to h until release is called.
type PointerCapturer interface {
	Capture(h DragHandler) (release func())
}

// DragSession is a scoped pointer capture. End is safe to call on every exit
// path, repeated calls are no-ops.
type DragSession struct {
	release func()
}

// StartDrag captures the pointer for h. A nil capturer yields a session that
// only tracks its own lifetime.
func StartDrag(c PointerCapturer, h DragHandler) *DragSession {
	s := &DragSession{release: func() {}}
	if c != nil {
		if release := c.Capture(h); release != nil {
			s.release = release
		}
	}
	return s
}

// Active reports whether the session still holds the pointer
func (s *DragSession) Active() bool {
	return s != nil && s.release != nil
}

func (s *DragSession) End() {
	if s == nil || s.release == nil {
		return
	}
	release := s.release
	s.release = nil
	release()
}

// relative clamps the pointer x into [0, r.Width] relative to r.Left
func (r Rect) relative(x int) int {
	pos := x - r.Left
	if pos < 0 {
		return 0
	}
	if pos > r.Width {
		return r.Width
	}
	return pos
}

// Accessibility mirrors the ARIA state of a bar.
type Accessibility struct {
	Role     string
	Label    string
	ValueMin float64
	ValueMax float64
	ValueNow float64
}
