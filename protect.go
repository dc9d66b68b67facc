package exc

// Protect runs fn inside an implicit construct that catches any exception
// and returns it as an ordinary Go error. It returns nil when fn completes
// without throwing. The returned error is the *Exception record itself:
// errors.As recovers it, and when the payload is an error, errors.Is sees
// through to the payload.
//
// Only exceptions of this runtime are converted. Foreign panics and
// contract violations keep unwinding.
func (rt *Runtime) Protect(fn func()) error {
	var caught error
	rt.Try(fn).CatchAny(func(e *Exception) {
		caught = e
	}).Run()
	return caught
}
