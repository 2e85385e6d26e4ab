package multiindex

import "log/slog"

type containerOptions[T any] struct {
	logger  *Logger
	metrics MetricsCollector
}

// Option configures a Container at construction time.
//
// Today options exist to plug in observability (logging, metrics) without
// exploding New's signature; more may be added as the container grows
// additional cross-cutting concerns.
type Option[T any] func(*containerOptions[T])

// WithLogger configures structured logging for container operations. Pass
// nil to disable logging (the default; see NoopLogger).
func WithLogger[T any](logger *Logger) Option[T] {
	return func(o *containerOptions[T]) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger at the given level and installs it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel[T any](level slog.Level) Option[T] {
	return func(o *containerOptions[T]) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetrics configures a metrics collector for monitoring container
// operations. Pass nil to disable metrics collection (the default; see
// NoopMetricsCollector).
func WithMetrics[T any](mc MetricsCollector) Option[T] {
	return func(o *containerOptions[T]) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func defaultOptions[T any]() *containerOptions[T] {
	return &containerOptions[T]{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
}
