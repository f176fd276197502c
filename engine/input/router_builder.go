package input

import "log/slog"

// RouterBuilderOption is a functional option for configuring a Router via NewRouter.
type RouterBuilderOption func(*router)

// WithCapturer sets the pointer capture provider, usually the host window.
//
// Parameters:
//   - c: the capturer
//
// Returns:
//   - RouterBuilderOption: a function that applies the capturer option to a router
func WithCapturer(c Capturer) RouterBuilderOption {
	return func(r *router) {
		if c != nil {
			r.capturer = c
		}
	}
}

// WithLogger sets the logger for routing diagnostics.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - RouterBuilderOption: a function that applies the logger option to a router
func WithLogger(logger *slog.Logger) RouterBuilderOption {
	return func(r *router) {
		if logger != nil {
			r.logger = logger
		}
	}
}
