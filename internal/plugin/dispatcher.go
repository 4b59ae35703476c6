package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ayusman/gestura/internal/gesture"
)

// Dispatcher turns recognized gestures into plugin invocations.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Close cancels in-flight plugins.
func NewDispatcher(manager *Manager, executor *Executor, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NewRequest builds the plugin request for a recognition result.
func NewRequest(result gesture.Result) (*Request, error) {
	if !result.Matched() {
		return nil, errors.New("result has no matched gesture")
	}
	g := result.Gesture
	return &Request{
		Action:  string(g.Action.Kind),
		Payload: g.Action.Payload,
		Gesture: GestureRef{
			ID:      g.ID,
			Name:    g.Name,
			Channel: string(g.Channel),
		},
		Confidence: result.Confidence,
	}, nil
}

// Dispatch runs the plugin that handles the matched gesture's action and
// waits for its response. A plugin reporting failure is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, result gesture.Result) (*Response, error) {
	req, err := NewRequest(result)
	if err != nil {
		return nil, err
	}

	p, err := d.manager.ForAction(req.Action)
	if err != nil {
		return nil, err
	}

	resp, err := d.executor.Execute(ctx, p, req)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", p.Manifest.Name, err)
	}
	if !resp.Success {
		return resp, fmt.Errorf("plugin %s: %s", p.Manifest.Name, resp.Error)
	}
	return resp, nil
}

// Handle dispatches result in the background and logs the outcome. It has
// the signature of an engine match handler.
func (d *Dispatcher) Handle(result gesture.Result) {
	if !result.Matched() {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		_, err := d.Dispatch(d.ctx, result)
		switch {
		case err == nil:
			d.logger.Debug("Action dispatched",
				"gesture", result.Gesture.Name,
				"action", result.Gesture.Action.String())
		case errors.Is(err, ErrNoHandler):
			d.logger.Debug("No plugin for action", "action", result.Gesture.Action.String())
		default:
			d.logger.Warn("Action dispatch failed",
				"gesture", result.Gesture.Name,
				"error", err)
		}
	}()
}

// Close cancels running plugins and waits for them to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
