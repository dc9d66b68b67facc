package exc

// Wildcard is the reserved identifier that matches any thrown exception.
// Throwing it is a contract violation; CatchAny is shorthand for a catch
// clause declared with it.
const Wildcard = 0

// Matcher decides whether a thrown identifier is accepted by a catch
// clause declared with the given candidate identifier. The default is
// match.Exact. A Matcher must be pure: it may be consulted several times
// for one throw as clauses are offered in declaration order.
//
// Matchers are never consulted for Wildcard clauses, which accept
// unconditionally, nor when the re-catch rule blocks a clause from
// accepting the same identifier twice within one construct.
type Matcher func(thrown, candidate int) bool
