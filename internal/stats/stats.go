// Package stats tracks recognition attempts and aggregates them into reports.
package stats

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/gestura/internal/gesture"
)

const (
	// latencyWindow bounds the rolling latency buffer.
	latencyWindow = 100
	// topN is the length of the most-used list.
	topN = 10
)

// Source supplies the gestures a report is computed from.
type Source interface {
	All() []gesture.Gesture
}

// Usage is a gesture name with its usage count. It encodes as a
// two-element JSON array.
type Usage struct {
	Name  string
	Count uint64
}

func (u Usage) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{u.Name, u.Count})
}

func (u *Usage) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("usage entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &u.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &u.Count)
}

// Report is a point-in-time view of the counters plus derived breakdowns.
type Report struct {
	TotalGestures          uint64            `json:"total_gestures"`
	SuccessfulRecognitions uint64            `json:"successful_recognitions"`
	FailedRecognitions     uint64            `json:"failed_recognitions"`
	MostUsedGestures       []Usage           `json:"most_used_gestures"`
	GesturesPerType        map[string]uint64 `json:"gestures_per_type"`
	AverageRecognitionTime float64           `json:"average_recognition_time"`
}

// Tracker implements gesture.Observer.
type Tracker struct {
	source Source

	mu        sync.RWMutex
	total     uint64
	success   uint64
	failure   uint64
	latencies []float64
	average   float64

	metrics *metrics
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithRegisterer exports the counters as Prometheus metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(t *Tracker) {
		t.metrics = newMetrics(reg)
	}
}

// NewTracker creates a Tracker whose reports read gestures from source.
func NewTracker(source Source, opts ...Option) *Tracker {
	t := &Tracker{
		source:    source,
		latencies: make([]float64, 0, latencyWindow),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record counts one recognition attempt and its latency.
func (t *Tracker) Record(success bool, latencyMs float64) {
	t.mu.Lock()
	t.total++
	if success {
		t.success++
	} else {
		t.failure++
	}

	if len(t.latencies) == latencyWindow {
		copy(t.latencies, t.latencies[1:])
		t.latencies = t.latencies[:latencyWindow-1]
	}
	t.latencies = append(t.latencies, latencyMs)

	var sum float64
	for _, l := range t.latencies {
		sum += l
	}
	t.average = sum / float64(len(t.latencies))
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.observe(success, latencyMs)
	}
}

// Snapshot returns the counters together with the top ten most-used gestures
// and the number of registered gestures per channel.
func (t *Tracker) Snapshot() Report {
	t.mu.RLock()
	report := Report{
		TotalGestures:          t.total,
		SuccessfulRecognitions: t.success,
		FailedRecognitions:     t.failure,
		AverageRecognitionTime: t.average,
	}
	t.mu.RUnlock()

	var gestures []gesture.Gesture
	if t.source != nil {
		gestures = t.source.All()
	}

	report.MostUsedGestures = make([]Usage, 0, len(gestures))
	report.GesturesPerType = make(map[string]uint64)
	for _, g := range gestures {
		report.MostUsedGestures = append(report.MostUsedGestures, Usage{Name: g.Name, Count: g.UsageCount})
		report.GesturesPerType[string(g.Channel)]++
	}

	sort.SliceStable(report.MostUsedGestures, func(i, j int) bool {
		a, b := report.MostUsedGestures[i], report.MostUsedGestures[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(report.MostUsedGestures) > topN {
		report.MostUsedGestures = report.MostUsedGestures[:topN]
	}
	return report
}

// Reset clears the counters and the latency buffer. Gesture usage counts
// live in the registry and are left alone.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total, t.success, t.failure = 0, 0, 0
	t.latencies = t.latencies[:0]
	t.average = 0
}
