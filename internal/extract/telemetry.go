package extract

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Event is one extraction attempt outcome. Defaults distinguishes a
// defaulted success from a complete one in telemetry without ever blocking
// the caller's result.
type Event struct {
	AttemptID string
	Source    string // "url" or "image"
	Provider  string
	Defaults  []string
	Err       string
}

// Telemetry records events on background goroutines with their own error
// boundary. A panicking or slow sink can never affect the caller's result or
// control flow.
type Telemetry struct {
	log  zerolog.Logger
	sink func(ctx context.Context, ev Event)
	wg   sync.WaitGroup
}

// NewTelemetry creates a recorder that logs events. SetSink may add an
// external destination.
func NewTelemetry(log zerolog.Logger) *Telemetry {
	return &Telemetry{log: log}
}

// SetSink installs an optional external destination invoked per event.
// Must be called before the first Record.
func (t *Telemetry) SetSink(sink func(ctx context.Context, ev Event)) {
	t.sink = sink
}

// Record dispatches the event in the background and returns immediately.
func (t *Telemetry) Record(ctx context.Context, ev Event) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				t.log.Error().Interface("panic", r).Msg("telemetry sink panicked")
			}
		}()

		logEvent := t.log.Info()
		if ev.Err != "" {
			logEvent = t.log.Warn().Str("error", ev.Err)
		}
		logEvent.Str("attempt", ev.AttemptID).
			Str("source", ev.Source).
			Str("provider", ev.Provider).
			Strs("defaults", ev.Defaults).
			Msg("extraction attempt recorded")

		if t.sink != nil {
			t.sink(context.WithoutCancel(ctx), ev)
		}
	}()
}

// Drain blocks until all in-flight recordings finish. Intended for shutdown
// and tests.
func (t *Telemetry) Drain() {
	t.wg.Wait()
}
