//go:build unit

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeEndSuppressesPanic(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)
	scope := g.Scope()

	require.NotPanics(t, func() {
		defer scope.End()
		panic("inside the block")
	})

	records := scope.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "inside the block", records[0].Message)
	assert.Empty(t, records[0].Args)
}

func TestScopeEndWithoutPanic(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)
	scope := g.Scope()

	func() {
		defer scope.End()
	}()

	assert.Empty(t, scope.Records())
	assert.Empty(t, g.Records())
}

func TestScopeRepanicsWhenNotSuppressing(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t, WithSuppress(false))
	scope := g.Scope()

	require.PanicsWithValue(t, errBoom, func() {
		defer scope.End()
		panic(errBoom)
	})

	assert.Len(t, scope.Records(), 1)
}

func TestScopeNonMatchingPanicPropagates(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t, WithOnly(ErrorIs(errSentinel)))
	scope := g.Scope()

	require.PanicsWithValue(t, "no match", func() {
		defer scope.End()
		panic("no match")
	})

	assert.Empty(t, scope.Records())
	assert.Empty(t, g.Records())
}

func TestScopeRecordsAreSeparateFromGuardHistory(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)

	first := g.Scope()
	second := g.Scope()

	first.Do(func() { panic("first scope") })
	second.Do(func() { panic("second scope") })
	second.Do(func() { panic("second scope again") })

	assert.Len(t, first.Records(), 1)
	assert.Len(t, second.Records(), 2)

	// The guard's local history accumulates across its scopes.
	assert.Len(t, g.Records(), 3)
}

func TestScopeDoConfinesGuardedRegion(t *testing.T) {
	t.Parallel()

	g, registry := newTestGuard(t, WithTrackGlobally(true))
	scope := g.Scope()

	ran := false

	scope.Do(func() {
		panic("block failure")
	})
	scope.Do(func() {
		ran = true
	})

	assert.True(t, ran)
	require.Len(t, scope.Records(), 1)
	assert.Equal(t, 1, registry.Len())
}

func TestScopeContextNilDefaultsToBackground(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)

	//nolint:staticcheck // exercising the nil-context guard rail
	scope := g.ScopeContext(nil)

	require.NotPanics(t, func() {
		scope.Do(func() { panic("x") })
	})

	assert.Len(t, scope.Records(), 1)
}
