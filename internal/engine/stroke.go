package engine

import (
	"log/slog"

	"github.com/ayusman/gestura/internal/gesture"
)

// StartStroke begins recording a stroke, replacing any stroke in progress.
// It fails with gesture.ErrDisabled when the channel is switched off.
func (e *Engine) StartStroke(channel gesture.Channel, x, y float64, opts ...gesture.StrokeOption) error {
	return e.recorder.Start(channel, x, y, opts...)
}

// AddPoint appends a point to the stroke in progress.
func (e *Engine) AddPoint(x, y float64) error {
	return e.recorder.AddPoint(x, y)
}

// CancelStroke discards the stroke in progress, if any.
func (e *Engine) CancelStroke() {
	e.recorder.Cancel()
}

// Recording reports whether a stroke is in progress.
func (e *Engine) Recording() bool {
	return e.recorder.Recording()
}

// FinishStroke ends the stroke in progress and recognizes it.
func (e *Engine) FinishStroke() (gesture.Result, error) {
	s, err := e.recorder.Finish()
	if err != nil {
		return gesture.Result{}, err
	}
	return e.recognize(&s), nil
}

// Recognize classifies a stroke captured elsewhere. The channel gate applies
// exactly as it does for StartStroke.
func (e *Engine) Recognize(s gesture.Stroke) (gesture.Result, error) {
	if !e.settings.ChannelEnabled(s.Channel) {
		return gesture.Result{}, gesture.ErrDisabled
	}
	return e.recognize(&s), nil
}

func (e *Engine) recognize(s *gesture.Stroke) gesture.Result {
	result := e.recognizer.Recognize(s, e.settings.Get().Params())

	if !result.Matched() {
		e.logger.Debug("No gesture matched",
			slog.String("channel", string(s.Channel)),
			slog.Any("directions", result.DetectedDirections))
		return result
	}

	e.logger.Debug("Gesture matched",
		slog.String("id", result.Gesture.ID),
		slog.String("name", result.Gesture.Name),
		slog.Float64("confidence", result.Confidence))

	e.syncGestures(result.Gesture.ID)
	e.notify(result)
	return result
}
