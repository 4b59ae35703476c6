package gesture

import (
	"sync"
	"time"
)

// StrokeOption sets optional metadata on a new stroke.
type StrokeOption func(*Stroke)

// WithButton records the mouse button (0 left, 1 middle, 2 right) driving the stroke.
func WithButton(button uint8) StrokeOption {
	return func(s *Stroke) { s.Button = &button }
}

// WithFingers records the finger count for trackpad and touch strokes.
func WithFingers(fingers uint8) StrokeOption {
	return func(s *Stroke) { s.Fingers = &fingers }
}

// Recorder owns at most one in-flight stroke.
type Recorder struct {
	mu      sync.Mutex
	current *Stroke
	allow   func(Channel) bool
	now     func() time.Time
}

// NewRecorder creates a Recorder. allow is consulted on every Start; a nil
// allow accepts every channel.
func NewRecorder(allow func(Channel) bool) *Recorder {
	return &Recorder{
		allow: allow,
		now:   time.Now,
	}
}

// Start begins a new stroke at (x, y), replacing any stroke already in flight.
func (r *Recorder) Start(channel Channel, x, y float64, opts ...StrokeOption) error {
	if r.allow != nil && !r.allow(channel) {
		return ErrDisabled
	}

	ts := r.now().UnixMilli()
	s := &Stroke{
		Points:    []Point{{X: x, Y: y, Timestamp: ts}},
		Channel:   channel,
		StartTime: ts,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	return nil
}

// AddPoint appends a point to the stroke in flight.
func (r *Recorder) AddPoint(x, y float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return ErrNoActiveStroke
	}
	r.current.Points = append(r.current.Points, Point{X: x, Y: y, Timestamp: r.now().UnixMilli()})
	return nil
}

// Cancel discards the stroke in flight, if any.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

// Finish stamps the end time and hands the stroke to the caller. The
// recorder is idle afterwards.
func (r *Recorder) Finish() (Stroke, error) {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s == nil {
		return Stroke{}, ErrNoActiveStroke
	}
	end := r.now().UnixMilli()
	s.EndTime = &end
	return *s, nil
}

// Recording reports whether a stroke is in flight.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}
