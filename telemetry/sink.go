package telemetry

import (
	"context"
	"log/slog"
)

type Sink interface {
	Emit(evt Event)
}

type SinkFunc func(evt Event)

func (f SinkFunc) Emit(evt Event) { f(evt) }

// Nop discards everything.
type Nop struct{}

func (Nop) Emit(Event) {}

// LogSink writes each event as one structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger.With("subsystem", "telemetry")}
}

func (s *LogSink) Emit(evt Event) {
	level := slog.LevelInfo
	switch evt.Type {
	case EventSpawned, EventTelegraph, EventTargetHit:
		level = slog.LevelDebug
	}
	attrs := []any{"type", evt.Type, "time", evt.Time}
	if evt.Entity != 0 {
		attrs = append(attrs, "entity", evt.Entity)
	}
	if evt.Archetype != "" {
		attrs = append(attrs, "archetype", evt.Archetype)
	}
	if evt.Wave != 0 {
		attrs = append(attrs, "wave", evt.Wave)
	}
	if evt.Phase != "" {
		attrs = append(attrs, "phase", evt.Phase)
	}
	if evt.Attack != "" {
		attrs = append(attrs, "attack", evt.Attack)
	}
	if evt.Amount != 0 {
		attrs = append(attrs, "amount", evt.Amount)
	}
	s.logger.Log(context.Background(), level, "event", attrs...)
}

// Fanout emits to every non-nil sink in order.
type Fanout []Sink

func (f Fanout) Emit(evt Event) {
	for _, s := range f {
		if s != nil {
			s.Emit(evt)
		}
	}
}
