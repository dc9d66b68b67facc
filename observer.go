package exc

import "github.com/rs/zerolog"

// Outcome describes how a construct was left.
type Outcome uint8

const (
	// OutcomeResolved means the construct completed with nothing pending.
	OutcomeResolved Outcome = iota

	// OutcomePropagated means an unhandled exception moved on to the
	// enclosing construct after the finally block ran.
	OutcomePropagated

	// OutcomeCanceled means the construct was unlinked by Cancel.
	OutcomeCanceled

	// OutcomeUnwound means a panic the runtime does not own passed
	// through the construct.
	OutcomeUnwound

	// OutcomeTerminated means an unhandled exception left the bottom of
	// the stack and the terminate handler took over.
	OutcomeTerminated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomePropagated:
		return "propagated"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeUnwound:
		return "unwound"
	case OutcomeTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// EnterEvent is emitted when a construct's scope is pushed.
type EnterEvent struct {
	// Construct is the source position where the construct was built.
	Construct Origin

	// Depth is the stack depth including the new scope.
	Depth int
}

// ThrowEvent is emitted for every Throw, ThrowWith and Rethrow.
type ThrowEvent struct {
	// Exception is the record in flight.
	Exception *Exception

	// Rethrow is true when the record was propagated by Rethrow rather
	// than thrown fresh.
	Rethrow bool

	// Site is the position of the Throw or Rethrow call. For a fresh
	// throw it equals Exception.Origin; for a rethrow it points at the
	// rethrow site while Exception.Origin keeps the original throw.
	Site Origin

	// Depth is the stack depth at the throw site.
	Depth int
}

// OfferEvent is emitted each time a clause is offered a thrown identifier.
type OfferEvent struct {
	Construct Origin

	// ThrownID is the identifier in flight.
	ThrownID int

	// CandidateID is the clause's declared identifier; Wildcard for
	// CatchAny clauses.
	CandidateID int

	// Accepted reports whether the clause took the exception.
	Accepted bool

	Depth int
}

// CatchEvent is emitted just before an accepting clause's body runs.
type CatchEvent struct {
	Construct Origin

	// Exception is the record being handled.
	Exception *Exception

	// CandidateID is the identifier the accepting clause declared.
	CandidateID int

	Depth int
}

// FinallyEvent is emitted just before a construct's finally block runs.
type FinallyEvent struct {
	Construct Origin

	// PendingID is the identifier still propagating, 0 if none.
	PendingID int

	Depth int
}

// ExitEvent is emitted when a construct's scope is unlinked.
type ExitEvent struct {
	Construct Origin
	Outcome   Outcome

	// Depth is the stack depth after the scope was unlinked.
	Depth int
}

// TerminateEvent is emitted when the terminate handler is about to run.
type TerminateEvent struct {
	// Exception is the unhandled record, or nil for a rethrow with no
	// active exception.
	Exception *Exception
}

// Observer receives construct lifecycle events from a Runtime.
// Implementations can be used for tracing, debugging, metrics or audit
// logs without modifying the control flow.
//
// All methods are optional: embed NoOpObserver to pick out only the
// events you need. Methods are called synchronously while the runtime
// executes, so implementations should be fast and must not call back
// into the runtime.
type Observer interface {
	OnEnter(EnterEvent)
	OnThrow(ThrowEvent)
	OnOffer(OfferEvent)
	OnCatch(CatchEvent)
	OnFinally(FinallyEvent)
	OnExit(ExitEvent)
	OnTerminate(TerminateEvent)
}

// NoOpObserver is an Observer that ignores every event. Embed it to build
// observers that only care about some events.
type NoOpObserver struct{}

func (NoOpObserver) OnEnter(EnterEvent)         {}
func (NoOpObserver) OnThrow(ThrowEvent)         {}
func (NoOpObserver) OnOffer(OfferEvent)         {}
func (NoOpObserver) OnCatch(CatchEvent)         {}
func (NoOpObserver) OnFinally(FinallyEvent)     {}
func (NoOpObserver) OnExit(ExitEvent)           {}
func (NoOpObserver) OnTerminate(TerminateEvent) {}

var _ Observer = NoOpObserver{}

// LogObserver logs every event through a zerolog logger: lifecycle events
// at debug level, terminations at error level.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates a LogObserver that writes to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnEnter(e EnterEvent) {
	o.logger.Debug().
		Str("construct", e.Construct.String()).
		Int("depth", e.Depth).
		Msg("enter construct")
}

func (o *LogObserver) OnThrow(e ThrowEvent) {
	evt := o.logger.Debug().
		Int("id", e.Exception.ID).
		Str("origin", e.Exception.Origin.String()).
		Bool("rethrow", e.Rethrow).
		Int("depth", e.Depth)
	if e.Rethrow {
		evt = evt.Str("site", e.Site.String())
	}
	evt.Msg("throw")
}

func (o *LogObserver) OnOffer(e OfferEvent) {
	o.logger.Debug().
		Str("construct", e.Construct.String()).
		Int("thrown", e.ThrownID).
		Int("candidate", e.CandidateID).
		Bool("accepted", e.Accepted).
		Msg("offer")
}

func (o *LogObserver) OnCatch(e CatchEvent) {
	o.logger.Debug().
		Str("construct", e.Construct.String()).
		Int("id", e.Exception.ID).
		Int("candidate", e.CandidateID).
		Msg("catch")
}

func (o *LogObserver) OnFinally(e FinallyEvent) {
	o.logger.Debug().
		Str("construct", e.Construct.String()).
		Int("pending", e.PendingID).
		Msg("finally")
}

func (o *LogObserver) OnExit(e ExitEvent) {
	o.logger.Debug().
		Str("construct", e.Construct.String()).
		Str("outcome", e.Outcome.String()).
		Int("depth", e.Depth).
		Msg("exit construct")
}

func (o *LogObserver) OnTerminate(e TerminateEvent) {
	evt := o.logger.Error()
	if e.Exception != nil {
		evt.Int("id", e.Exception.ID).Str("origin", e.Exception.Origin.String())
	}
	evt.Msg("terminate")
}

var _ Observer = (*LogObserver)(nil)

func (rt *Runtime) observeEnter(s *scope) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnEnter(EnterEvent{Construct: s.origin, Depth: rt.depth})
}

func (rt *Runtime) observeThrow(rec *Exception, rethrow bool, site Origin) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnThrow(ThrowEvent{
		Exception: rec,
		Rethrow:   rethrow,
		Site:      site,
		Depth:     rt.depth,
	})
}

func (rt *Runtime) observeOffer(s *scope, candidate int, accepted bool) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnOffer(OfferEvent{
		Construct:   s.origin,
		ThrownID:    s.thrownID,
		CandidateID: candidate,
		Accepted:    accepted,
		Depth:       rt.depth,
	})
}

func (rt *Runtime) observeCatch(s *scope, candidate int) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnCatch(CatchEvent{
		Construct:   s.origin,
		Exception:   s.pending,
		CandidateID: candidate,
		Depth:       rt.depth,
	})
}

func (rt *Runtime) observeFinally(s *scope) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnFinally(FinallyEvent{
		Construct: s.origin,
		PendingID: s.thrownID,
		Depth:     rt.depth,
	})
}

func (rt *Runtime) observeExit(s *scope, outcome Outcome) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnExit(ExitEvent{Construct: s.origin, Outcome: outcome, Depth: rt.depth})
}

func (rt *Runtime) observeTerminate(rec *Exception) {
	if rt.observer == nil {
		return
	}
	rt.observer.OnTerminate(TerminateEvent{Exception: rec})
}
