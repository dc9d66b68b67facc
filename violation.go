package exc

import (
	"fmt"

	"github.com/pkg/errors"
)

// ViolationKind classifies fatal misuses of the runtime contract.
type ViolationKind int

const (
	// ViolationZeroThrow is a throw of the reserved identifier zero.
	ViolationZeroThrow ViolationKind = iota

	// ViolationCancelNotHead is a cancel of a construct that is still
	// linked but is not the innermost active scope.
	ViolationCancelNotHead

	// ViolationHandlerReturned is a terminate handler that returned
	// instead of ending execution.
	ViolationHandlerReturned

	// ViolationScopeCorrupt is an impossible scope-stack transition: a
	// scope driven past completion or unlinked out of order.
	ViolationScopeCorrupt
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationZeroThrow:
		return "zero-throw"
	case ViolationCancelNotHead:
		return "cancel-not-head"
	case ViolationHandlerReturned:
		return "handler-returned"
	case ViolationScopeCorrupt:
		return "scope-corrupt"
	default:
		return fmt.Sprintf("violation(%d)", int(k))
	}
}

// Violation reports a fatal misuse of the package contract. Violations are
// delivered by panicking: they are not exceptions, so catch clauses never
// see them and they unwind through every construct (finally bodies still
// run on the way out).
type Violation struct {
	// Kind classifies the misuse.
	Kind ViolationKind

	// Origin is the source position of the misuse, when known.
	Origin Origin

	// Runtime names the runtime whose contract was violated.
	Runtime string

	cause error
}

func (rt *Runtime) violation(kind ViolationKind, origin Origin, format string, args ...any) *Violation {
	return &Violation{
		Kind:    kind,
		Origin:  origin,
		Runtime: rt.name,
		cause:   errors.Errorf(format, args...),
	}
}

func (v *Violation) Error() string {
	msg := fmt.Sprintf("exc: %s (%s)", v.cause.Error(), v.Kind)
	if !v.Origin.IsZero() {
		msg += " at " + v.Origin.String()
	}
	if v.Runtime != "" {
		msg += " [runtime " + v.Runtime + "]"
	}
	return msg
}

// Unwrap returns the cause, which carries the capture stack of the misuse.
func (v *Violation) Unwrap() error { return v.cause }

// Format implements fmt.Formatter; %+v appends the capture stack.
func (v *Violation) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprint(s, v.Error())
		var tracer interface{ StackTrace() errors.StackTrace }
		if errors.As(v.cause, &tracer) {
			for _, f := range tracer.StackTrace() {
				fmt.Fprintf(s, "\n%+v", f)
			}
		}
		return
	}
	fmt.Fprint(s, v.Error())
}
