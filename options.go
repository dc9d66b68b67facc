package exc

import "github.com/rs/zerolog"

// Option is a configuration function for a Runtime.
type Option func(*Runtime)

// WithName sets the runtime's name, which appears in log events,
// violations and terminate reports.
func WithName(name string) Option {
	return func(rt *Runtime) {
		rt.name = name
	}
}

// WithLogger sets the logger used by the runtime. The default logger
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithMatcher sets the identity matcher consulted when catch clauses are
// offered a thrown identifier. Passing nil keeps the default, match.Exact.
func WithMatcher(m Matcher) Option {
	return func(rt *Runtime) {
		rt.SetMatcher(m)
	}
}

// WithTerminateHandler sets the handler invoked when an exception reaches
// the bottom of the scope stack. See TerminateHandler for the contract.
func WithTerminateHandler(h TerminateHandler) Option {
	return func(rt *Runtime) {
		rt.SetTerminateHandler(h)
	}
}

// WithObserver sets an observer for construct lifecycle events. Observer
// methods are called synchronously during execution, so implementations
// should be fast.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}
