package exc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	idAlpha = 0x0101
	idBeta  = 0x0102
	idGamma = 0x0201
)

// bail lets test terminate handlers end execution without exiting the
// process.
type bail struct{}

func TestRunWithoutThrow(t *testing.T) {
	rt := New()
	var nTry, nCatch, nFinally int
	rt.Try(func() {
		nTry++
	}).CatchAny(func(e *Exception) {
		nCatch++
	}).Finally(func() {
		nFinally++
	}).Run()
	require.Equal(t, 1, nTry)
	require.Equal(t, 0, nCatch)
	require.Equal(t, 1, nFinally)
	require.Nil(t, rt.Current())
	require.Equal(t, 0, rt.Depth())
}

func TestCatchMatchingIdentifier(t *testing.T) {
	rt := New()
	var nWrong, nRight, nFinally int
	rt.Try(func() {
		rt.Throw(idAlpha)
		t.Error("code after throw must not run")
	}).Catch(idBeta, func(e *Exception) {
		nWrong++
	}).Catch(idAlpha, func(e *Exception) {
		nRight++
		require.Equal(t, idAlpha, e.ID)
		require.Same(t, e, rt.Current())
	}).Finally(func() {
		nFinally++
	}).Run()
	require.Equal(t, 0, nWrong)
	require.Equal(t, 1, nRight)
	require.Equal(t, 1, nFinally)
	require.Nil(t, rt.Current())
}

func TestCatchFirstDeclaredWins(t *testing.T) {
	rt := New()
	var order []string
	rt.Try(func() {
		rt.Throw(idAlpha)
	}).Catch(idAlpha, func(e *Exception) {
		order = append(order, "first")
	}).Catch(idAlpha, func(e *Exception) {
		order = append(order, "second")
	}).CatchAny(func(e *Exception) {
		order = append(order, "wildcard")
	}).Run()
	require.Equal(t, []string{"first"}, order)
}

func TestCatchAnyFallback(t *testing.T) {
	rt := New()
	var caught int
	rt.Try(func() {
		rt.Throw(idGamma)
	}).Catch(idAlpha, func(e *Exception) {
		t.Error("specific clause must not accept")
	}).CatchAny(func(e *Exception) {
		caught = e.ID
	}).Run()
	require.Equal(t, idGamma, caught)
}

func TestUncaughtPropagatesAfterFinally(t *testing.T) {
	rt := New()
	var order []string
	rt.Try(func() {
		rt.Try(func() {
			order = append(order, "inner-try")
			rt.Throw(idGamma)
		}).Catch(idAlpha, func(e *Exception) {
			order = append(order, "inner-catch")
		}).Finally(func() {
			order = append(order, "inner-finally")
		}).Run()
		order = append(order, "after-inner")
	}).Catch(idGamma, func(e *Exception) {
		order = append(order, "outer-catch")
	}).Finally(func() {
		order = append(order, "outer-finally")
	}).Run()
	require.Equal(t, []string{"inner-try", "inner-finally", "outer-catch", "outer-finally"}, order)
	require.Nil(t, rt.Current())
}

func TestNestedPropagationThroughMiddle(t *testing.T) {
	rt := New()
	var order []string
	rt.Try(func() {
		rt.Try(func() {
			rt.Try(func() {
				rt.Throw(idBeta)
			}).Finally(func() {
				order = append(order, "f3")
			}).Run()
		}).Catch(idAlpha, func(e *Exception) {
			order = append(order, "wrong")
		}).Finally(func() {
			order = append(order, "f2")
		}).Run()
	}).Catch(idBeta, func(e *Exception) {
		order = append(order, "catch1")
	}).Finally(func() {
		order = append(order, "f1")
	}).Run()
	require.Equal(t, []string{"f3", "f2", "catch1", "f1"}, order)
}

func TestCatchBodyThrowsNewIdentifier(t *testing.T) {
	rt := New()
	var nAlpha, nBeta, nFinally int
	rt.Try(func() {
		rt.Throw(idAlpha)
	}).Catch(idAlpha, func(e *Exception) {
		nAlpha++
		rt.Throw(idBeta)
	}).Catch(idBeta, func(e *Exception) {
		nBeta++
		require.Equal(t, idBeta, e.ID)
	}).Finally(func() {
		nFinally++
	}).Run()
	require.Equal(t, 1, nAlpha)
	require.Equal(t, 1, nBeta)
	require.Equal(t, 1, nFinally)
	require.Nil(t, rt.Current())
}

func TestRethrowPropagatesSameRecord(t *testing.T) {
	rt := New()
	var inner, outer *Exception
	rt.Try(func() {
		rt.Try(func() {
			rt.ThrowWith(idAlpha, "ctx")
		}).Catch(idAlpha, func(e *Exception) {
			inner = e
			rt.Rethrow()
			t.Error("code after rethrow must not run")
		}).Run()
	}).Catch(idAlpha, func(e *Exception) {
		outer = e
	}).Run()
	require.NotNil(t, inner)
	require.Same(t, inner, outer)
	require.Equal(t, "ctx", outer.Payload)
	require.True(t, strings.HasSuffix(outer.Origin.File, "try_test.go"))
}

func TestRethrowNotRecaughtBySameConstruct(t *testing.T) {
	rt := New()
	var order []string
	rt.Try(func() {
		rt.Try(func() {
			rt.Throw(idAlpha)
		}).Catch(idAlpha, func(e *Exception) {
			order = append(order, "inner-alpha")
			rt.Rethrow()
		}).Catch(idAlpha, func(e *Exception) {
			order = append(order, "inner-alpha-2")
		}).CatchAny(func(e *Exception) {
			order = append(order, "inner-any")
		}).Finally(func() {
			order = append(order, "inner-finally")
		}).Run()
	}).Catch(idAlpha, func(e *Exception) {
		order = append(order, "outer-alpha")
	}).Run()
	require.Equal(t, []string{"inner-alpha", "inner-finally", "outer-alpha"}, order)
}

func TestWildcardRecatchBlocked(t *testing.T) {
	rt := New()
	var nAny, nOuter int
	rt.Try(func() {
		rt.Try(func() {
			rt.Throw(idAlpha)
		}).CatchAny(func(e *Exception) {
			nAny++
			rt.Rethrow()
		}).Run()
	}).CatchAny(func(e *Exception) {
		nOuter++
	}).Run()
	require.Equal(t, 1, nAny)
	require.Equal(t, 1, nOuter)
}

func TestWildcardReacceptsNewIdentifier(t *testing.T) {
	rt := New()
	var seen []int
	rt.Try(func() {
		rt.Try(func() {
			rt.Throw(idAlpha)
		}).CatchAny(func(e *Exception) {
			seen = append(seen, e.ID)
			if e.ID == idAlpha {
				rt.Throw(idBeta)
			}
		}).Run()
	}).CatchAny(func(e *Exception) {
		seen = append(seen, -e.ID)
	}).Run()
	require.Equal(t, []int{idAlpha, idBeta}, seen)
}

func TestThrowDuringFinallySupersedes(t *testing.T) {
	rt := New()
	var caught *Exception
	rt.Try(func() {
		rt.Try(func() {
			rt.Throw(idAlpha)
		}).Finally(func() {
			rt.Throw(idBeta)
		}).Run()
	}).Catch(idBeta, func(e *Exception) {
		caught = e
	}).Run()
	require.NotNil(t, caught)
	require.Equal(t, idBeta, caught.ID)
	sup := caught.Suppressed()
	require.Len(t, sup, 1)
	supExc, ok := sup[0].(*Exception)
	require.True(t, ok)
	require.Equal(t, idAlpha, supExc.ID)
	combined := caught.Combined()
	require.Contains(t, combined.Error(), "0x101")
	require.Contains(t, combined.Error(), "0x102")
}

func TestCancelSkipsFinally(t *testing.T) {
	rt := New()
	var ran, caught, finallyRan bool
	var tb *TryBlock
	tb = rt.Try(func() {
		ran = true
		tb.Cancel()
	}).CatchAny(func(e *Exception) {
		caught = true
	}).Finally(func() {
		finallyRan = true
	})
	tb.Run()
	require.True(t, ran)
	require.False(t, caught)
	require.False(t, finallyRan)
	require.Equal(t, 0, rt.Depth())
}

func TestCancelIsIdempotent(t *testing.T) {
	rt := New()
	var tb *TryBlock
	tb = rt.Try(func() {
		tb.Cancel()
		tb.Cancel() // already unlinked: silent no-op
	})
	tb.Run()
	tb.Cancel() // not running anymore: silent no-op
	require.Equal(t, 0, rt.Depth())
}

func TestCancelInCatchBlock(t *testing.T) {
	rt := New()
	var finallyRan bool
	var tb *TryBlock
	tb = rt.Try(func() {
		rt.Throw(idAlpha)
	}).Catch(idAlpha, func(e *Exception) {
		tb.Cancel()
	}).Finally(func() {
		finallyRan = true
	})
	tb.Run()
	require.False(t, finallyRan)
	// Cancel abandons the construct without resolving the record.
	require.NotNil(t, rt.Current())
	require.Equal(t, idAlpha, rt.Current().ID)
	// The record clears once an unrelated construct resolves.
	rt.Try(func() {}).Run()
	require.Nil(t, rt.Current())
}

func TestThrowAfterCancelReachesEnclosing(t *testing.T) {
	rt := New()
	var innerCatch, innerFinally, outerCatch bool
	rt.Try(func() {
		var tb *TryBlock
		tb = rt.Try(func() {
			tb.Cancel()
			rt.Throw(idAlpha)
		}).CatchAny(func(e *Exception) {
			innerCatch = true
		}).Finally(func() {
			innerFinally = true
		})
		tb.Run()
		t.Error("code after the canceled construct's throw must not run")
	}).Catch(idAlpha, func(e *Exception) {
		outerCatch = true
	}).Run()
	require.False(t, innerCatch)
	require.False(t, innerFinally)
	require.True(t, outerCatch)
}

func TestForeignPanicRunsFinallyOnce(t *testing.T) {
	rt := New()
	var nCatch, nFinally int
	require.PanicsWithValue(t, "boom", func() {
		rt.Try(func() {
			panic("boom")
		}).CatchAny(func(e *Exception) {
			nCatch++
		}).Finally(func() {
			nFinally++
		}).Run()
	})
	require.Equal(t, 0, nCatch)
	require.Equal(t, 1, nFinally)
	require.Equal(t, 0, rt.Depth())
}

func TestIndependentRuntimes(t *testing.T) {
	outer := New()
	inner := New()
	var order []string
	outer.Try(func() {
		inner.Try(func() {
			outer.Throw(idAlpha)
		}).CatchAny(func(e *Exception) {
			order = append(order, "inner-catch")
		}).Finally(func() {
			order = append(order, "inner-finally")
		}).Run()
		order = append(order, "after-inner")
	}).Catch(idAlpha, func(e *Exception) {
		order = append(order, "outer-catch")
	}).Run()
	require.Equal(t, []string{"inner-finally", "outer-catch"}, order)
	require.Equal(t, 0, outer.Depth())
	require.Equal(t, 0, inner.Depth())
	require.Nil(t, outer.Current())
	require.Nil(t, inner.Current())
}

func TestTryBlockRerun(t *testing.T) {
	rt := New()
	var nTry, nCatch, nFinally int
	tb := rt.Try(func() {
		nTry++
		if nTry == 1 {
			rt.Throw(idAlpha)
		}
	}).Catch(idAlpha, func(e *Exception) {
		nCatch++
	}).Finally(func() {
		nFinally++
	})
	tb.Run()
	tb.Run()
	require.Equal(t, 2, nTry)
	require.Equal(t, 1, nCatch)
	require.Equal(t, 2, nFinally)
	require.Equal(t, 0, rt.Depth())
}
