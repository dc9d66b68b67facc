package exc

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
)

// Origin is a source position: where an exception was thrown, or where a
// construct was opened.
type Origin struct {
	File string
	Line int
}

// IsZero reports whether the origin carries no position.
func (o Origin) IsZero() bool {
	return o.File == "" && o.Line == 0
}

// String returns the origin as "file:line", or "unknown" for a zero origin.
func (o Origin) String() string {
	if o.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// callerOrigin captures the position of the caller skip+1 frames up.
func callerOrigin(skip int) Origin {
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		return Origin{File: file, Line: line}
	}
	return Origin{}
}

// Exception is the record of one thrown exception: the identifier, the
// optional payload supplied at the throw site, and the origin of the
// original throw. Rethrow propagates the same record, so Origin always
// points at the site of the first throw.
//
// Exception implements error. When the payload is itself an error, Unwrap
// exposes it, so errors.Is and errors.As see through the exception to its
// cause.
type Exception struct {
	// ID is the thrown identifier. Never zero.
	ID int

	// Payload is the value supplied via ThrowWith, or nil.
	Payload any

	// Origin is the source position of the original throw.
	Origin Origin

	suppressed []error
}

func (e *Exception) Error() string {
	msg := fmt.Sprintf("exception %d (0x%X)", e.ID, uint(e.ID))
	if !e.Origin.IsZero() {
		msg += " at " + e.Origin.String()
	}
	if err, ok := e.Payload.(error); ok {
		msg += ": " + err.Error()
	}
	return msg
}

// Unwrap returns the payload when it is an error, and nil otherwise.
func (e *Exception) Unwrap() error {
	if err, ok := e.Payload.(error); ok {
		return err
	}
	return nil
}

// Suppressed returns the exceptions this one superseded: when a finally
// body throws while an earlier exception is still propagating, the earlier
// record is attached to the new one rather than lost. The returned slice
// is a copy.
func (e *Exception) Suppressed() []error {
	if len(e.suppressed) == 0 {
		return nil
	}
	out := make([]error, len(e.suppressed))
	copy(out, e.suppressed)
	return out
}

func (e *Exception) addSuppressed(err error) {
	e.suppressed = append(e.suppressed, err)
}

// Combined returns the exception merged with everything it suppressed as a
// single error. With nothing suppressed it returns e itself.
func (e *Exception) Combined() error {
	if len(e.suppressed) == 0 {
		return e
	}
	return multierror.Append(e, e.suppressed...)
}

// AsException returns the *Exception in err's chain, if there is one.
func AsException(err error) (*Exception, bool) {
	var e *Exception
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
