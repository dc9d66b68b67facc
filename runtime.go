package exc

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/exc/match"
)

// TerminateHandler receives an exception that reached the bottom of the
// scope stack, or nil when Rethrow was called with no active exception.
// A handler must not return: it should end the process, panic, or
// otherwise leave the runtime for good. A handler that returns anyway is
// itself a contract violation.
type TerminateHandler func(*Exception)

// Runtime owns one scope stack plus the pluggable policies that govern it:
// the identity matcher, the terminate handler, the logger and the
// observer.
//
// A Runtime is confined to one goroutine at a time. Distinct Runtimes are
// independent: a throw on one never disturbs a construct of another, even
// when their constructs nest on the same goroutine.
type Runtime struct {
	id        uuid.UUID
	name      string
	logger    zerolog.Logger
	observer  Observer
	matcher   Matcher
	terminate TerminateHandler

	head    *scope
	depth   int
	current *Exception
}

// New creates a Runtime with an empty scope stack, exact identifier
// matching and the default terminate handler.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		id:     uuid.Must(uuid.NewV4()),
		logger: zerolog.Nop(),
	}
	rt.matcher = match.Exact
	rt.terminate = rt.defaultTerminate
	for _, opt := range opts {
		opt(rt)
	}
	if rt.name == "" {
		rt.name = "exc-" + rt.id.String()[:8]
	}
	return rt
}

// ID returns the unique identity of this runtime.
func (rt *Runtime) ID() uuid.UUID { return rt.id }

// Name returns the runtime's name, which defaults to "exc-" plus a short
// form of its ID.
func (rt *Runtime) Name() string { return rt.name }

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() zerolog.Logger { return rt.logger }

// Depth returns the number of constructs currently on the scope stack.
func (rt *Runtime) Depth() int { return rt.depth }

// Current returns the exception most recently thrown on this runtime, or
// nil. The record stays readable inside catch and finally blocks and is
// cleared once no active construct is involved with it anymore.
func (rt *Runtime) Current() *Exception { return rt.current }

// Payload returns the payload of the current exception, or nil.
func (rt *Runtime) Payload() any {
	if rt.current == nil {
		return nil
	}
	return rt.current.Payload
}

// Matcher returns the matcher in effect.
func (rt *Runtime) Matcher() Matcher { return rt.matcher }

// SetMatcher installs m as the identity matcher and returns the matcher
// previously in effect. Passing nil restores the default, match.Exact.
func (rt *Runtime) SetMatcher(m Matcher) Matcher {
	prev := rt.matcher
	if m == nil {
		m = match.Exact
	}
	rt.matcher = m
	return prev
}

// TerminateHandler returns the terminate handler in effect.
func (rt *Runtime) TerminateHandler() TerminateHandler { return rt.terminate }

// SetTerminateHandler installs h and returns the handler previously in
// effect. Passing nil restores the default handler, which reports the
// exception to stderr and exits the process with status 1.
func (rt *Runtime) SetTerminateHandler(h TerminateHandler) TerminateHandler {
	prev := rt.terminate
	if h == nil {
		h = rt.defaultTerminate
	}
	rt.terminate = h
	return prev
}

// Terminate invokes the terminate handler with the current exception, nil
// if there is none. It never returns: if the handler comes back, that is
// a contract violation and Terminate panics.
func (rt *Runtime) Terminate() {
	rec := rt.current
	rt.observeTerminate(rec)
	rt.terminate(rec)
	panic(rt.violation(ViolationHandlerReturned, Origin{}, "terminate handler returned"))
}

func (rt *Runtime) defaultTerminate(e *Exception) {
	evt := rt.logger.Error().Str("runtime", rt.name)
	if e != nil {
		evt.Int("id", e.ID).Str("origin", e.Origin.String()).Msg("unhandled exception")
	} else {
		evt.Msg("rethrow with no active exception")
	}
	f := NewFormatter(!color.NoColor)
	fmt.Fprintln(os.Stderr, f.FormatException(e))
	os.Exit(1)
}

// resolve clears the current-exception record once no construct on the
// stack is still involved with it: none has an exception pending and none
// caught the record's identifier.
func (rt *Runtime) resolve() {
	if rt.current == nil {
		return
	}
	for s := rt.head; s != nil; s = s.parent {
		if s.pending != nil {
			return
		}
		if s.caughtID != 0 && s.caughtID == rt.current.ID {
			return
		}
	}
	rt.current = nil
}
