package exc

// scopeState tracks where a construct is in its lifecycle.
type scopeState uint8

const (
	stateInit scopeState = iota
	stateTry
	stateThrown
	stateCaught
	stateFinally
)

func (s scopeState) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateTry:
		return "TRY"
	case stateThrown:
		return "THROWN"
	case stateCaught:
		return "CAUGHT"
	case stateFinally:
		return "FINALLY"
	default:
		return "UNKNOWN"
	}
}

// step tells the drive loop which block of the construct to run next.
type step uint8

const (
	stepTry step = iota
	stepFinally
	stepDone
)

// maxDrives bounds advance calls per scope. A construct is driven exactly
// three times (enter, after the try/catch phase, after finally); anything
// past that means the scope was corrupted or reused.
const maxDrives = 4

// scope is the per-construct activation record: one node of a runtime's
// scope stack.
type scope struct {
	rt     *Runtime
	parent *scope

	state    scopeState
	thrownID int        // identifier in flight at this scope, 0 if none
	caughtID int        // identifier a clause of this construct accepted
	pending  *Exception // record travelling with thrownID

	origin Origin // construct site
	drives int

	linked     bool
	canceled   bool
	finallyRan bool
}

func (rt *Runtime) push(s *scope) {
	s.parent = rt.head
	rt.head = s
	rt.depth++
	s.linked = true
}

func (rt *Runtime) pop(s *scope) {
	if rt.head != s {
		panic(rt.violation(ViolationScopeCorrupt, s.origin, "scope unlinked out of order"))
	}
	rt.head = s.parent
	rt.depth--
	s.linked = false
}

// advance moves the scope one state forward and reports which block to run
// next. The walk is INIT -> TRY -> {TRY,THROWN,CAUGHT} -> FINALLY -> done.
// When an exception is still pending after finally, the done step is
// replaced by a re-raise against the parent and advance does not return.
func (rt *Runtime) advance(s *scope) step {
	s.drives++
	if s.drives > maxDrives {
		panic(rt.violation(ViolationScopeCorrupt, s.origin, "scope driven %d times", s.drives))
	}
	switch s.state {
	case stateInit:
		rt.push(s)
		s.state = stateTry
		return stepTry
	case stateTry, stateThrown:
		s.state = stateFinally
		return stepFinally
	case stateCaught:
		// The construct disposed of its exception: nothing is pending
		// unless the finally block throws anew.
		s.thrownID = 0
		s.pending = nil
		s.state = stateFinally
		return stepFinally
	case stateFinally:
		rt.pop(s)
		if s.pending != nil {
			rt.reraise(s) // does not return
		}
		rt.resolve()
		return stepDone
	default:
		panic(rt.violation(ViolationScopeCorrupt, s.origin, "invalid scope state %s", s.state))
	}
}

// attemptCatch offers the pending identifier to one clause. It enforces the
// re-catch rule: once a construct has accepted an identifier, no clause of
// that construct (wildcard included) may accept the same identifier again,
// which forces a rethrown exception outward instead of looping.
func (s *scope) attemptCatch(candidate int) bool {
	if s.state != stateThrown {
		return false
	}
	if s.caughtID != 0 && s.caughtID == s.thrownID {
		return false
	}
	if candidate != Wildcard && !s.rt.matcher(s.thrownID, candidate) {
		return false
	}
	s.caughtID = s.thrownID
	s.state = stateCaught
	return true
}
