package exc

// throwSignal is the panic payload that transfers control to the innermost
// active construct of a runtime. Constructs of other runtimes treat it as
// a foreign panic and let it pass through.
type throwSignal struct {
	rt *Runtime
}

// Throw raises id on the runtime. Control transfers to the innermost
// active construct and the calling code never resumes. With no construct
// on the stack the terminate handler is invoked instead.
//
// Throwing the reserved identifier zero is a contract violation.
func (rt *Runtime) Throw(id int) {
	rt.raise(id, nil, callerOrigin(1))
}

// ThrowWith raises id carrying a payload, typically an error. The payload
// rides on the exception record and is visible to catch clauses and to
// Payload.
func (rt *Runtime) ThrowWith(id int, payload any) {
	rt.raise(id, payload, callerOrigin(1))
}

func (rt *Runtime) raise(id int, payload any, origin Origin) {
	if id == Wildcard {
		panic(rt.violation(ViolationZeroThrow, origin, "throw of reserved identifier zero"))
	}
	rec := &Exception{ID: id, Payload: payload, Origin: origin}
	rt.current = rec
	rt.observeThrow(rec, false, origin)
	if rt.head == nil {
		rt.Terminate()
	}
	rt.deliver(rec)
}

// Rethrow propagates the current exception outward unchanged: same
// identifier, payload and origin. Inside a catch block this forwards the
// caught exception to the enclosing construct; the re-catch rule stops
// the construct's own clauses from accepting it again. With no active
// exception the terminate handler is invoked with a nil record.
func (rt *Runtime) Rethrow() {
	rec := rt.current
	if rec == nil {
		rt.Terminate()
	}
	rt.observeThrow(rec, true, callerOrigin(1))
	if rt.head == nil {
		rt.Terminate()
	}
	rt.deliver(rec)
}

// deliver parks rec on the innermost scope and unwinds to its recovery
// point. A pending record clobbered while its scope runs finally is
// attached to rec as suppressed rather than lost.
func (rt *Runtime) deliver(rec *Exception) {
	head := rt.head
	if head.state == stateFinally && head.pending != nil && head.pending != rec {
		rec.addSuppressed(head.pending)
	}
	head.thrownID = rec.ID
	head.pending = rec
	if head.state != stateFinally {
		head.state = stateThrown
	}
	panic(throwSignal{rt: rt})
}

// reraise propagates s's still-pending exception after s has been popped:
// to the parent scope if one exists, otherwise to the terminate handler.
func (rt *Runtime) reraise(s *scope) {
	rec := s.pending
	rt.current = rec
	if rt.head == nil {
		rt.observeExit(s, OutcomeTerminated)
		rt.Terminate()
	}
	rt.observeExit(s, OutcomePropagated)
	rt.deliver(rec)
}
