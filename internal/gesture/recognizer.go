package gesture

import (
	"sort"
	"time"
)

// MatchThreshold is the confidence a candidate must exceed to be selected.
const MatchThreshold = 0.7

// Params are the settings consulted by a single recognition.
type Params struct {
	Sensitivity     float64
	MinStrokeLength float64
}

// Result is the outcome of recognizing one stroke.
type Result struct {
	Gesture            *Gesture    `json:"matched_gesture"`
	Confidence         float64     `json:"confidence"`
	DetectedDirections []Direction `json:"detected_directions"`
	StrokeInfo         StrokeInfo  `json:"stroke_info"`
}

// Matched reports whether a gesture was selected.
func (r Result) Matched() bool {
	return r.Gesture != nil
}

// Match is a scored candidate gesture.
type Match struct {
	Gesture    Gesture
	Confidence float64
}

// Observer receives one call per recognition attempt.
type Observer interface {
	Record(success bool, latencyMs float64)
}

// Recognizer matches finished strokes against a registry.
type Recognizer struct {
	registry *Registry
	observer Observer
}

// NewRecognizer creates a Recognizer over registry. observer may be nil.
func NewRecognizer(registry *Registry, observer Observer) *Recognizer {
	return &Recognizer{
		registry: registry,
		observer: observer,
	}
}

// Recognize classifies a stroke. No match is a normal outcome, reported as a
// nil Gesture with zero confidence.
func (r *Recognizer) Recognize(s *Stroke, p Params) Result {
	start := time.Now()
	result := r.recognize(s, p)
	if r.observer != nil {
		latency := float64(time.Since(start).Microseconds()) / 1000
		r.observer.Record(result.Matched(), latency)
	}
	return result
}

func (r *Recognizer) recognize(s *Stroke, p Params) Result {
	result := Result{
		DetectedDirections: []Direction{},
		StrokeInfo:         s.Info(),
	}

	// Short strokes skip segmentation altogether.
	if result.StrokeInfo.TotalDistance < p.MinStrokeLength {
		return result
	}

	sensitivity := p.Sensitivity
	if !(sensitivity > 0) {
		sensitivity = 0
	}
	result.DetectedDirections = DetectDirections(s, sensitivity)

	matches := r.Rank(s.Channel, result.StrokeInfo.DurationMs, result.DetectedDirections)
	if len(matches) == 0 || matches[0].Confidence <= MatchThreshold {
		return result
	}

	best := matches[0]
	matched, err := r.registry.RecordMatch(best.Gesture.ID)
	if err != nil {
		// Deleted between ranking and recording; report the ranked snapshot.
		matched = best.Gesture
	}
	result.Gesture = &matched
	result.Confidence = best.Confidence
	return result
}

// Rank scores every enabled gesture of the channel whose duration limit
// admits durationMs. Matches are sorted by confidence descending; equal
// confidences keep registration order, so the earliest-registered gesture wins.
func (r *Recognizer) Rank(channel Channel, durationMs int64, detected []Direction) []Match {
	var matches []Match
	for _, g := range r.registry.ListByChannel(channel) {
		if durationMs > g.Pattern.MaxDurationMs {
			continue
		}
		matches = append(matches, Match{
			Gesture:    g,
			Confidence: MatchConfidence(detected, g.Pattern.Directions),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// MatchConfidence is the fraction of index-wise equal directions. Sequences
// of different lengths never match.
func MatchConfidence(detected, pattern []Direction) float64 {
	if len(detected) != len(pattern) || len(pattern) == 0 {
		return 0
	}

	matched := 0
	for i := range pattern {
		if detected[i] == pattern[i] {
			matched++
		}
	}
	return float64(matched) / float64(len(pattern))
}
