// Package exc retrofits structured exception handling onto ordinary Go call
// flow. A Runtime owns a stack of try/catch/finally constructs; Throw
// transfers control to the innermost active construct, whose catch clauses
// are offered the thrown identifier in declaration order, and whose finally
// body runs exactly once no matter how the construct is left.
//
// Constructs are built fluently and driven by Run:
//
//	rt := exc.New()
//	rt.Try(func() {
//		rt.Throw(42)
//	}).Catch(42, func(e *exc.Exception) {
//		fmt.Println("caught", e.ID)
//	}).Finally(func() {
//		fmt.Println("cleanup")
//	}).Run()
//
// An exception that no clause accepts propagates to the enclosing construct
// after the finally body runs. An exception that reaches the bottom of the
// stack invokes the runtime's terminate handler, which by default reports
// the exception to stderr and exits the process.
//
// Identifiers are plain non-zero ints; zero is reserved as the wildcard used
// by CatchAny. How a thrown identifier is matched against a catch clause is
// pluggable via SetMatcher; the match subpackage provides ready-made
// predicates, including masked family matching.
//
// A Runtime is not safe for concurrent use: confine each Runtime to one
// goroutine at a time. Independent Runtimes are fully isolated, even when
// their constructs nest within one another on the same goroutine.
package exc

// Version is the current exc version.
const Version = "0.1.0"
