package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gestura/internal/gesture"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.True(t, s.Enabled)
	assert.EqualValues(t, 2, s.GestureButton)
	assert.Equal(t, 30.0, s.MinStrokeLength)
	assert.Equal(t, 0.7, s.Sensitivity)
	assert.EqualValues(t, 2000, s.RecognitionTimeoutMs)
	assert.Equal(t, "#3b82f6", s.TrailColor)
	for _, c := range gesture.Channels {
		assert.True(t, s.ChannelEnabled(c), "channel %s", c)
	}
}

func TestChannelEnabled_GlobalOverride(t *testing.T) {
	st := NewStore(Default())

	require.NoError(t, st.SetChannelEnabled(gesture.ChannelWheel, false))
	assert.False(t, st.ChannelEnabled(gesture.ChannelWheel))
	assert.True(t, st.ChannelEnabled(gesture.ChannelMouse))

	assert.False(t, st.ToggleEnabled())
	for _, c := range gesture.Channels {
		assert.False(t, st.ChannelEnabled(c), "channel %s", c)
	}

	assert.True(t, st.ToggleEnabled())
	assert.True(t, st.ChannelEnabled(gesture.ChannelMouse))
	assert.False(t, st.ChannelEnabled(gesture.ChannelWheel))

	assert.Error(t, st.SetChannelEnabled("Pen", true))
	assert.False(t, st.ChannelEnabled("Pen"))
}

func TestSetSensitivity(t *testing.T) {
	st := NewStore(Default())

	require.NoError(t, st.SetSensitivity(0))
	require.NoError(t, st.SetSensitivity(1))
	assert.Equal(t, 1.0, st.Get().Sensitivity)

	for _, v := range []float64{-0.1, 1.5} {
		err := st.SetSensitivity(v)
		assert.ErrorIs(t, err, ErrOutOfRange, "value %v", v)
	}
	assert.Equal(t, 1.0, st.Get().Sensitivity)
}

func TestSetGestureButton(t *testing.T) {
	st := NewStore(Default())

	require.NoError(t, st.SetGestureButton(0))
	assert.EqualValues(t, 0, st.Get().GestureButton)

	assert.ErrorIs(t, st.SetGestureButton(3), ErrOutOfRange)
	assert.EqualValues(t, 0, st.Get().GestureButton)
}

func TestStore_QuickSetters(t *testing.T) {
	st := NewStore(Default())

	st.SetMinStrokeLength(45)
	st.SetRecognitionTimeout(1500)
	st.SetTrail("#ff0000", 5, 0.5)
	st.ShowTrail(false)
	st.ShowActionPreview(false)

	got := st.Get()
	assert.Equal(t, 45.0, got.MinStrokeLength)
	assert.EqualValues(t, 1500, got.RecognitionTimeoutMs)
	assert.Equal(t, "#ff0000", got.TrailColor)
	assert.Equal(t, 5.0, got.TrailWidth)
	assert.Equal(t, 0.5, got.TrailOpacity)
	assert.False(t, got.ShowGestureTrail)
	assert.False(t, got.ShowActionPreview)

	assert.Equal(t, gesture.Params{Sensitivity: 0.7, MinStrokeLength: 45}, got.Params())
}

func TestStore_ReplaceAndGetAreCopies(t *testing.T) {
	st := NewStore(Default())

	s := st.Get()
	s.Sensitivity = 0.1
	assert.Equal(t, 0.7, st.Get().Sensitivity)

	st.Replace(s)
	assert.Equal(t, 0.1, st.Get().Sensitivity)
}
