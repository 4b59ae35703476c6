package engine

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
	"github.com/ayusman/gestura/internal/store"
)

func newTestStore(t *testing.T, path string) *store.Store {
	t.Helper()
	s, err := store.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// drawLeft records a 60px leftward mouse stroke.
func drawLeft(t *testing.T, e *Engine) gesture.Result {
	t.Helper()
	require.NoError(t, e.StartStroke(gesture.ChannelMouse, 100, 100, gesture.WithButton(2)))
	require.NoError(t, e.AddPoint(70, 100))
	require.NoError(t, e.AddPoint(40, 101))
	result, err := e.FinishStroke()
	require.NoError(t, err)
	return result
}

func TestEngine_StrokeRecognition(t *testing.T) {
	e := New(Config{})

	var (
		mu      sync.Mutex
		matched []gesture.Result
	)
	e.OnMatch(func(r gesture.Result) {
		mu.Lock()
		defer mu.Unlock()
		matched = append(matched, r)
	})

	result := drawLeft(t, e)
	require.True(t, result.Matched())
	assert.Equal(t, "builtin_go_back", result.Gesture.ID)
	assert.Equal(t, 1.0, result.Confidence)
	assert.False(t, e.Recording())

	require.Len(t, matched, 1)
	assert.Equal(t, "builtin_go_back", matched[0].Gesture.ID)

	report := e.Stats()
	assert.EqualValues(t, 1, report.TotalGestures)
	assert.EqualValues(t, 1, report.SuccessfulRecognitions)
	assert.Equal(t, "Go Back", report.MostUsedGestures[0].Name)
}

func TestEngine_UnmatchedStrokeSkipsHooks(t *testing.T) {
	e := New(Config{})
	called := false
	e.OnMatch(func(gesture.Result) { called = true })

	require.NoError(t, e.StartStroke(gesture.ChannelTouch, 0, 0))
	require.NoError(t, e.AddPoint(5, 5))
	result, err := e.FinishStroke()
	require.NoError(t, err)

	assert.False(t, result.Matched())
	assert.False(t, called)
	assert.EqualValues(t, 1, e.Stats().FailedRecognitions)
}

func TestEngine_DisabledChannel(t *testing.T) {
	e := New(Config{})

	require.NoError(t, e.SetChannelEnabled(gesture.ChannelMouse, false))
	assert.ErrorIs(t, e.StartStroke(gesture.ChannelMouse, 0, 0), gesture.ErrDisabled)
	assert.NoError(t, e.StartStroke(gesture.ChannelTouch, 0, 0))
	e.CancelStroke()

	_, err := e.FinishStroke()
	assert.ErrorIs(t, err, gesture.ErrNoActiveStroke)

	assert.False(t, e.ToggleEnabled())
	assert.ErrorIs(t, e.StartStroke(gesture.ChannelTouch, 0, 0), gesture.ErrDisabled)

	_, err = e.Recognize(gesture.Stroke{Channel: gesture.ChannelTouch})
	assert.ErrorIs(t, err, gesture.ErrDisabled)
}

func TestEngine_Recognize(t *testing.T) {
	e := New(Config{})

	end := int64(100)
	result, err := e.Recognize(gesture.Stroke{
		Channel: gesture.ChannelTrackpad,
		Points: []gesture.Point{
			{X: 0, Y: 0, Timestamp: 0},
			{X: 0, Y: 80, Timestamp: 100},
		},
		EndTime: &end,
	})
	require.NoError(t, err)
	require.True(t, result.Matched())
	assert.Equal(t, "builtin_zoom_out", result.Gesture.ID)
}

func TestEngine_SettingsValidation(t *testing.T) {
	e := New(Config{})

	assert.ErrorIs(t, e.SetSensitivity(2), settings.ErrOutOfRange)
	assert.ErrorIs(t, e.SetGestureButton(5), settings.ErrOutOfRange)
	require.NoError(t, e.SetSensitivity(0.5))
	assert.Equal(t, 0.5, e.Settings().Sensitivity)

	got := e.ModifySettings(func(s *settings.Settings) { s.TrailColor = "#000000" })
	assert.Equal(t, "#000000", got.TrailColor)

	// Whole-record replace skips validation.
	s := e.Settings()
	s.Sensitivity = 7
	e.UpdateSettings(s)
	assert.Equal(t, 7.0, e.Settings().Sensitivity)
}

func TestEngine_GestureLifecycle(t *testing.T) {
	e := New(Config{})

	created, err := e.CreateGesture(gesture.NewGesture("Print", gesture.ChannelTouch,
		gesture.NewPattern(gesture.Down, gesture.Up), gesture.RunScriptAction("window.print()")))
	require.NoError(t, err)

	_, err = e.CreateGesture(gesture.NewGesture("Dup", gesture.ChannelTouch,
		gesture.NewPattern(gesture.Down, gesture.Up), gesture.Do(gesture.Stop)))
	assert.ErrorIs(t, err, gesture.ErrConflict)

	enabled, err := e.ToggleGesture(created.ID)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Empty(t, e.GesturesByChannel(gesture.ChannelTouch))

	assert.ErrorIs(t, e.DeleteGesture("builtin_go_back"), gesture.ErrCannotDeleteBuiltin)
	require.NoError(t, e.DeleteGesture(created.ID))
	_, err = e.Gesture(created.ID)
	assert.ErrorIs(t, err, gesture.ErrNotFound)
}

func TestEngine_PresetAndExport(t *testing.T) {
	e := New(Config{})

	loaded, err := e.LoadPreset("opera")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	data, err := e.ExportGestures(gesture.FormatJSON)
	require.NoError(t, err)

	other := New(Config{})
	imported, err := other.ImportGestures(data, gesture.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, imported, 2)
	assert.Len(t, other.Gestures(), len(gesture.Builtins())+2)

	_, err = e.LoadPreset("mosaic")
	assert.Error(t, err)
}

func TestEngine_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestura.db")

	first := New(Config{Store: newTestStore(t, path)})
	require.NoError(t, first.Load())

	custom, err := first.CreateGesture(gesture.NewGesture("Docs", gesture.ChannelTouch,
		gesture.NewPattern(gesture.Circle), gesture.OpenURLAction("https://go.dev")))
	require.NoError(t, err)
	_, err = first.ToggleGesture("builtin_reload")
	require.NoError(t, err)
	drawLeft(t, first)
	require.NoError(t, first.SetSensitivity(0.4))

	second := New(Config{Store: newTestStore(t, path)})
	require.NoError(t, second.Load())

	got, err := second.Gesture(custom.ID)
	require.NoError(t, err)
	assert.Equal(t, "Docs", got.Name)
	assert.Equal(t, gesture.OpenURLAction("https://go.dev"), got.Action)

	reload, err := second.Gesture("builtin_reload")
	require.NoError(t, err)
	assert.False(t, reload.Enabled)

	goBack, err := second.Gesture("builtin_go_back")
	require.NoError(t, err)
	assert.EqualValues(t, 1, goBack.UsageCount)
	assert.NotNil(t, goBack.LastUsed)

	assert.Equal(t, 0.4, second.Settings().Sensitivity)

	second.ResetGestures()
	third := New(Config{Store: newTestStore(t, path)})
	require.NoError(t, third.Load())
	reload, err = third.Gesture("builtin_reload")
	require.NoError(t, err)
	assert.True(t, reload.Enabled)
	_, err = third.Gesture(custom.ID)
	assert.NoError(t, err)
}

func TestEngine_LoadWithoutStore(t *testing.T) {
	e := New(Config{})
	assert.NoError(t, e.Load())
}

func TestEngine_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := New(Config{Registerer: reg})

	drawLeft(t, e)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "gestura_recognitions_total")
	assert.Contains(t, names, "gestura_recognition_latency_ms")
}

// touchLeft is a complete 60px leftward touch stroke.
func touchLeft() gesture.Stroke {
	end := int64(50)
	return gesture.Stroke{
		Channel: gesture.ChannelTouch,
		Points: []gesture.Point{
			{X: 100, Y: 100, Timestamp: 0},
			{X: 40, Y: 100, Timestamp: 50},
		},
		EndTime: &end,
	}
}

func TestEngine_PresetOverridesBuiltin(t *testing.T) {
	e := New(Config{})

	_, err := e.LoadPreset("opera")
	require.NoError(t, err)

	reopen, err := e.Gesture("builtin_reopen_closed_tab")
	require.NoError(t, err)
	assert.False(t, reopen.Enabled)

	end := int64(100)
	result, err := e.Recognize(gesture.Stroke{
		Channel: gesture.ChannelMouse,
		Points: []gesture.Point{
			{X: 100, Y: 100, Timestamp: 0},
			{X: 40, Y: 100, Timestamp: 50},
			{X: 40, Y: 40, Timestamp: 100},
		},
		EndTime: &end,
	})
	require.NoError(t, err)
	require.True(t, result.Matched())
	assert.Equal(t, "Home (Opera)", result.Gesture.Name)
}

func TestEngine_DeleteDuringRecognitionStaysDeleted(t *testing.T) {
	st := newTestStore(t, filepath.Join(t.TempDir(), "gestura.db"))
	e := New(Config{Store: st})
	require.NoError(t, e.Load())

	for i := 0; i < 200; i++ {
		created, err := e.CreateGesture(gesture.NewGesture("Swipe", gesture.ChannelTouch,
			gesture.NewPattern(gesture.Left), gesture.Do(gesture.GoBack)))
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.Recognize(touchLeft())
		}()
		go func() {
			defer wg.Done()
			_ = e.DeleteGesture(created.ID)
		}()
		wg.Wait()

		_, err = e.Gesture(created.ID)
		require.ErrorIs(t, err, gesture.ErrNotFound)
		_, err = st.Gestures().GetByID(created.ID)
		require.ErrorIs(t, err, store.ErrNotFound, "iteration %d: deleted gesture still stored", i)
	}
}

func TestEngine_ToggleDuringRecognitionMatchesStore(t *testing.T) {
	st := newTestStore(t, filepath.Join(t.TempDir(), "gestura.db"))
	e := New(Config{Store: st})
	require.NoError(t, e.Load())

	created, err := e.CreateGesture(gesture.NewGesture("Swipe", gesture.ChannelTouch,
		gesture.NewPattern(gesture.Left), gesture.Do(gesture.GoBack)))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.Recognize(touchLeft())
		}()
		go func() {
			defer wg.Done()
			_, _ = e.ToggleGesture(created.ID)
		}()
		wg.Wait()

		live, err := e.Gesture(created.ID)
		require.NoError(t, err)
		stored, err := st.Gestures().GetByID(created.ID)
		require.NoError(t, err)
		require.Equal(t, live.Enabled, stored.Enabled, "iteration %d", i)
		require.Equal(t, live.UsageCount, stored.UsageCount, "iteration %d", i)
	}
}

func TestEngine_PresentationSetters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestura.db")
	e := New(Config{Store: newTestStore(t, path)})
	require.NoError(t, e.Load())

	var seen []settings.Settings
	e.OnSettingsChange(func(s settings.Settings) { seen = append(seen, s) })

	e.SetMinStrokeLength(45)
	e.SetRecognitionTimeout(1500)
	e.SetTrail("#ff0000", 5, 0.5)
	e.ShowTrail(false)
	e.ShowActionPreview(false)
	e.SetEnabled(false)

	require.Len(t, seen, 6)
	assert.False(t, seen[5].Enabled)
	assert.Equal(t, "#ff0000", seen[5].TrailColor)

	reopened := New(Config{Store: newTestStore(t, path)})
	require.NoError(t, reopened.Load())
	got := reopened.Settings()
	assert.Equal(t, 45.0, got.MinStrokeLength)
	assert.EqualValues(t, 1500, got.RecognitionTimeoutMs)
	assert.Equal(t, "#ff0000", got.TrailColor)
	assert.Equal(t, 5.0, got.TrailWidth)
	assert.Equal(t, 0.5, got.TrailOpacity)
	assert.False(t, got.ShowGestureTrail)
	assert.False(t, got.ShowActionPreview)
	assert.False(t, got.Enabled)
}
