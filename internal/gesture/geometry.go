package gesture

import (
	"math"
	"time"
)

// segmentBase is the segment length in pixels at sensitivity 1.0.
const segmentBase = 30.0

// Point is a timestamped pointer sample.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp"` // Unix milliseconds
}

// Stroke is one pointer trajectory from press to release.
type Stroke struct {
	Points    []Point `json:"points"`
	Channel   Channel `json:"gesture_type"`
	Button    *uint8  `json:"button,omitempty"`
	Fingers   *uint8  `json:"fingers,omitempty"`
	StartTime int64   `json:"start_time"`
	EndTime   *int64  `json:"end_time,omitempty"`
}

// StrokeInfo holds aggregate metrics for a stroke.
type StrokeInfo struct {
	TotalDistance float64 `json:"total_distance"`
	DurationMs    int64   `json:"duration_ms"`
	PointCount    int     `json:"point_count"`
	AverageSpeed  float64 `json:"average_speed"` // pixels per second
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// TotalDistance sums consecutive point-to-point distances.
func (s *Stroke) TotalDistance() float64 {
	var total float64
	for i := 1; i < len(s.Points); i++ {
		total += Distance(s.Points[i-1], s.Points[i])
	}
	return total
}

// Duration returns the stroke duration in milliseconds, measured up to now
// while the stroke is still open.
func (s *Stroke) Duration() int64 {
	end := time.Now().UnixMilli()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end < s.StartTime {
		return 0
	}
	return end - s.StartTime
}

// Info computes the aggregate metrics of the stroke.
func (s *Stroke) Info() StrokeInfo {
	info := StrokeInfo{
		TotalDistance: s.TotalDistance(),
		DurationMs:    s.Duration(),
		PointCount:    len(s.Points),
	}
	if info.DurationMs > 0 {
		info.AverageSpeed = info.TotalDistance / float64(info.DurationMs) * 1000
	}
	return info
}

// AngleToDirection buckets an angle in degrees into a compass direction.
// Screen coordinates are assumed, so positive angles point down. Each bucket
// is 45° wide, centred on its compass point and closed on the low side.
func AngleToDirection(angle float64) Direction {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}

	switch {
	case a >= 337.5 || a < 22.5:
		return Right
	case a < 67.5:
		return DownRight
	case a < 112.5:
		return Down
	case a < 157.5:
		return DownLeft
	case a < 202.5:
		return Left
	case a < 247.5:
		return UpLeft
	case a < 292.5:
		return Up
	default:
		return UpRight
	}
}

// DetectDirections segments a stroke into compass directions.
//
// A segment closes once a point lies at least 30*sensitivity pixels from the
// segment anchor; a bucket different from the open one starts a new segment
// anchored at that point. Consecutive segments in the same bucket collapse.
func DetectDirections(s *Stroke, sensitivity float64) []Direction {
	directions := []Direction{}
	points := s.Points
	if len(points) < 2 {
		return directions
	}

	threshold := segmentBase * sensitivity
	anchor := 0
	var current Direction

	for i := 1; i < len(points); i++ {
		dx := points[i].X - points[anchor].X
		dy := points[i].Y - points[anchor].Y
		if math.Hypot(dx, dy) < threshold {
			continue
		}

		dir := AngleToDirection(math.Atan2(dy, dx) * 180 / math.Pi)
		if dir != current {
			if current != "" {
				directions = append(directions, current)
			}
			current = dir
			anchor = i
		}
	}

	if current != "" {
		directions = append(directions, current)
	}
	return directions
}
