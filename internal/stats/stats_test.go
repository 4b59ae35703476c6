package stats

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gestura/internal/gesture"
)

type staticSource []gesture.Gesture

func (s staticSource) All() []gesture.Gesture { return s }

func usage(name string, ch gesture.Channel, count uint64) gesture.Gesture {
	g := gesture.NewGesture(name, ch, gesture.NewPattern(gesture.Up), gesture.Do(gesture.NewTab))
	g.UsageCount = count
	return g
}

func TestTracker_Record(t *testing.T) {
	tr := NewTracker(nil)

	tr.Record(true, 2)
	tr.Record(false, 4)
	tr.Record(true, 6)

	r := tr.Snapshot()
	assert.EqualValues(t, 3, r.TotalGestures)
	assert.EqualValues(t, 2, r.SuccessfulRecognitions)
	assert.EqualValues(t, 1, r.FailedRecognitions)
	assert.InDelta(t, 4.0, r.AverageRecognitionTime, 1e-9)
	assert.Empty(t, r.MostUsedGestures)
}

func TestTracker_LatencyWindow(t *testing.T) {
	tr := NewTracker(nil)

	// 100 samples of 1ms, then 100 of 3ms: the first batch rolls out.
	for i := 0; i < latencyWindow; i++ {
		tr.Record(true, 1)
	}
	assert.InDelta(t, 1.0, tr.Snapshot().AverageRecognitionTime, 1e-9)

	for i := 0; i < latencyWindow/2; i++ {
		tr.Record(true, 3)
	}
	assert.InDelta(t, 2.0, tr.Snapshot().AverageRecognitionTime, 1e-9)

	for i := 0; i < latencyWindow/2; i++ {
		tr.Record(true, 3)
	}
	assert.InDelta(t, 3.0, tr.Snapshot().AverageRecognitionTime, 1e-9)
	assert.Len(t, tr.latencies, latencyWindow)
	assert.EqualValues(t, 2*latencyWindow, tr.Snapshot().TotalGestures)
}

func TestTracker_SnapshotBreakdowns(t *testing.T) {
	var src staticSource
	for i := 0; i < 12; i++ {
		src = append(src, usage(fmt.Sprintf("g%02d", i), gesture.ChannelMouse, uint64(i)))
	}
	src = append(src,
		usage("b-tie", gesture.ChannelWheel, 11),
		usage("a-tie", gesture.ChannelWheel, 11),
	)

	r := NewTracker(src).Snapshot()

	require.Len(t, r.MostUsedGestures, topN)
	assert.Equal(t, Usage{Name: "a-tie", Count: 11}, r.MostUsedGestures[0])
	assert.Equal(t, Usage{Name: "b-tie", Count: 11}, r.MostUsedGestures[1])
	assert.Equal(t, Usage{Name: "g11", Count: 11}, r.MostUsedGestures[2])
	assert.Equal(t, Usage{Name: "g04", Count: 4}, r.MostUsedGestures[9])

	assert.Equal(t, map[string]uint64{"Mouse": 12, "Wheel": 2}, r.GesturesPerType)
}

func TestTracker_SnapshotFromRegistry(t *testing.T) {
	reg := gesture.NewRegistry()
	_, err := reg.RecordMatch("builtin_reload")
	require.NoError(t, err)

	r := NewTracker(reg).Snapshot()
	require.NotEmpty(t, r.MostUsedGestures)
	assert.Equal(t, Usage{Name: "Reload", Count: 1}, r.MostUsedGestures[0])

	var total uint64
	for _, n := range r.GesturesPerType {
		total += n
	}
	assert.EqualValues(t, reg.Len(), total)
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(staticSource{usage("kept", gesture.ChannelTouch, 5)})
	tr.Record(true, 10)
	tr.Record(false, 20)

	tr.Reset()

	r := tr.Snapshot()
	assert.Zero(t, r.TotalGestures)
	assert.Zero(t, r.SuccessfulRecognitions)
	assert.Zero(t, r.FailedRecognitions)
	assert.Zero(t, r.AverageRecognitionTime)
	require.Len(t, r.MostUsedGestures, 1)
	assert.EqualValues(t, 5, r.MostUsedGestures[0].Count)

	tr.Record(true, 8)
	assert.InDelta(t, 8.0, tr.Snapshot().AverageRecognitionTime, 1e-9)
}

func TestReport_JSON(t *testing.T) {
	r := NewTracker(staticSource{usage("Go Back", gesture.ChannelMouse, 3)}).Snapshot()

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_gestures": 0,
		"successful_recognitions": 0,
		"failed_recognitions": 0,
		"most_used_gestures": [["Go Back", 3]],
		"gestures_per_type": {"Mouse": 1},
		"average_recognition_time": 0
	}`, string(data))

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.MostUsedGestures, back.MostUsedGestures)
}

func TestTracker_Metrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	tr := NewTracker(nil, WithRegisterer(reg))

	tr.Record(true, 0.2)
	tr.Record(true, 0.3)
	tr.Record(false, 0.4)

	assert.Equal(t, 2.0, testutil.ToFloat64(tr.metrics.recognitions.WithLabelValues(outcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.metrics.recognitions.WithLabelValues(outcomeUnmatched)))

	n, err := testutil.GatherAndCount(reg, "gestura_recognition_latency_ms")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
