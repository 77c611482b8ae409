//go:build unit

package guard

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(message string) Record {
	return Record{
		Timestamp: time.Now(),
		Kind:      "string",
		Message:   message,
		Context:   "test",
	}
}

func TestRegistryAppendAndAll(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	assert.Empty(t, registry.All())

	registry.Record(testRecord("first"))
	registry.Record(testRecord("second"))
	registry.Record(testRecord("second")) // duplicates allowed

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "second", all[1].Message)
	assert.Equal(t, 3, registry.Len())
}

func TestRegistryClear(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Record(testRecord("gone"))

	registry.Clear()

	assert.Empty(t, registry.All())
	assert.Zero(t, registry.Len())
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Record(testRecord("first"))

	snapshot := registry.All()
	registry.Record(testRecord("second"))

	require.Len(t, snapshot, 1)

	// Mutating a snapshot never reaches the registry.
	snapshot[0].Message = "tampered"
	assert.Equal(t, "first", registry.All()[0].Message)

	// A snapshot survives Clear.
	registry.Clear()
	assert.Len(t, snapshot, 1)
}

func TestRegistryConcurrentAppends(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	const (
		goroutines = 8
		perRoutine = 50
	)

	var wg sync.WaitGroup

	for i := range goroutines {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			for j := range perRoutine {
				registry.Record(testRecord(fmt.Sprintf("%d-%d", id, j)))
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, goroutines*perRoutine, registry.Len())
}

func TestGlobalRegistryStartsEmptyAndIsShared(t *testing.T) {
	require.NotNil(t, Global)

	g := MustNew(WithTrackGlobally(true))

	before := Global.Len()

	fail := Wrap0(g, func() any { panic("global") })
	_ = fail()

	assert.Equal(t, before+1, Global.Len())

	Global.Clear()
	assert.Zero(t, Global.Len())
}
