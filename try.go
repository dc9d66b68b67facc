package exc

// TryBlock is a try/catch/finally construct under assembly. Build it with
// Try, attach clauses with Catch, CatchAny and Finally, then execute it
// with Run. Clauses are offered in declaration order; the first to accept
// wins.
//
// A TryBlock may be Run any number of times; each Run is an independent
// activation with its own scope.
type TryBlock struct {
	rt        *Runtime
	origin    Origin
	body      func()
	catches   []catchClause
	finallyFn func()
	active    *scope
}

type catchClause struct {
	id int
	fn func(*Exception)
}

// Try starts a construct whose try block is body.
func (rt *Runtime) Try(body func()) *TryBlock {
	return &TryBlock{rt: rt, body: body, origin: callerOrigin(1)}
}

// Catch appends a clause that handles exceptions whose identifier matches
// id under the runtime's matcher. Declaring Wildcard is the same as
// CatchAny.
func (t *TryBlock) Catch(id int, fn func(*Exception)) *TryBlock {
	t.catches = append(t.catches, catchClause{id: id, fn: fn})
	return t
}

// CatchAny appends a clause that handles any exception. It is subject to
// the re-catch rule like every other clause.
func (t *TryBlock) CatchAny(fn func(*Exception)) *TryBlock {
	return t.Catch(Wildcard, fn)
}

// Finally sets the block that runs exactly once when the construct is
// left, whether the try block completed, a clause handled an exception,
// or an exception is propagating outward. Propagation to the enclosing
// construct happens after the finally block has run.
func (t *TryBlock) Finally(fn func()) *TryBlock {
	t.finallyFn = fn
	return t
}

// Run executes the construct to completion. It returns normally when the
// construct resolves or is canceled; it unwinds when an unhandled
// exception propagates to an enclosing construct.
func (t *TryBlock) Run() {
	rt := t.rt
	s := &scope{rt: rt, origin: t.origin}
	prev := t.active
	t.active = s
	defer t.cleanup(s, prev)
	for {
		switch rt.advance(s) {
		case stepTry:
			rt.observeEnter(s)
			t.runBlock(s, t.body)
			if s.canceled {
				rt.observeExit(s, OutcomeCanceled)
				return
			}
			if s.state == stateThrown {
				t.offer(s)
				if s.canceled {
					rt.observeExit(s, OutcomeCanceled)
					return
				}
			}
		case stepFinally:
			s.finallyRan = true
			if t.finallyFn != nil {
				rt.observeFinally(s)
				t.runBlock(s, t.finallyFn)
				if s.canceled {
					rt.observeExit(s, OutcomeCanceled)
					return
				}
			}
		case stepDone:
			rt.observeExit(s, OutcomeResolved)
			return
		}
	}
}

// offer walks the clauses in declaration order until one accepts the
// pending identifier, then runs its body. A clause body that throws a new
// identifier sends the walk around again, so the construct's own clauses
// get a chance at the new exception before it propagates.
func (t *TryBlock) offer(s *scope) {
	for s.state == stateThrown {
		c := t.selectClause(s)
		if c == nil {
			return
		}
		t.rt.observeCatch(s, c.id)
		t.runBlock(s, func() {
			if c.fn != nil {
				c.fn(s.pending)
			}
		})
		if s.canceled {
			return
		}
	}
}

// selectClause offers the pending identifier to each clause in turn and
// returns the first that accepts, or nil when every clause refuses.
func (t *TryBlock) selectClause(s *scope) *catchClause {
	for i := range t.catches {
		c := &t.catches[i]
		accepted := s.attemptCatch(c.id)
		t.rt.observeOffer(s, c.id, accepted)
		if accepted {
			return c
		}
	}
	return nil
}

// runBlock runs fn under the recovery point for this scope. A panic is
// consumed only when it is this runtime's transfer signal and this scope
// is the innermost active one; every other panic keeps unwinding.
func (t *TryBlock) runBlock(s *scope, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		sig, ok := r.(throwSignal)
		if !ok || sig.rt != t.rt || t.rt.head != s {
			panic(r)
		}
		// Transfer landed here; control returns to the drive loop.
	}()
	if fn != nil {
		fn()
	}
}

// Cancel unlinks the running construct from the scope stack without
// running its finally block and without touching any pending exception.
// The block that called Cancel must leave the construct immediately
// afterwards, typically by returning. Cancel on a construct that is not
// running is a no-op; Cancel on a construct that is running but is not
// the innermost active scope is a contract violation.
func (t *TryBlock) Cancel() {
	s := t.active
	if s == nil || !s.linked {
		return
	}
	rt := t.rt
	if rt.head != s {
		panic(rt.violation(ViolationCancelNotHead, s.origin,
			"cancel of a construct that is not the innermost active scope"))
	}
	rt.pop(s)
	s.canceled = true
}

// cleanup is the backstop for unwinds the construct does not own: foreign
// panics, contract violations, and transfer signals of other runtimes. It
// unlinks the scope and runs the finally block once, the way a deferred
// cleanup would, then lets the panic continue.
func (t *TryBlock) cleanup(s *scope, prev *scope) {
	t.active = prev
	if !s.linked {
		return
	}
	rt := t.rt
	rt.pop(s)
	if t.finallyFn != nil && !s.finallyRan {
		s.finallyRan = true
		rt.observeFinally(s)
		t.finallyFn()
	}
	rt.resolve()
	rt.observeExit(s, OutcomeUnwound)
}
