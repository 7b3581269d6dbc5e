package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tracefiled.dev/tracefiled/internal/filestate"
	"tracefiled.dev/tracefiled/internal/registry"
	"tracefiled.dev/tracefiled/linux"
)

func noopDispose(*filestate.Record) {}

func TestProcessesCreateFindDestroy(t *testing.T) {
	r := registry.New()
	for i := uint64(0); i < 255; i++ {
		require.NotNil(t, r.ProcessCreate(i, i, 0))
	}

	for _, tid := range []uint64{0, 2, 254} {
		_, ok := r.FindProcess(tid)
		require.True(t, ok)
	}
	_, ok := r.FindProcess(255)
	require.False(t, ok)

	for i := uint64(0); i < 255; i++ {
		require.NoError(t, r.ProcessDestroy(i, noopDispose))
	}
	for _, tid := range []uint64{0, 2, 254} {
		_, ok := r.FindProcess(tid)
		require.False(t, ok)
	}
}

func TestFindProcessUnknown(t *testing.T) {
	r := registry.New()
	_, ok := r.FindProcess(99)
	require.False(t, ok)
}

func TestProcessDestroyUnknownReturnsError(t *testing.T) {
	r := registry.New()
	r.ProcessCreate(1, 1, 0)
	require.ErrorIs(t, r.ProcessDestroy(99, noopDispose), registry.ErrUnknownThread)
	_, ok := r.FindProcess(1)
	require.True(t, ok)
}

func TestThreadsShareFileTable(t *testing.T) {
	r := registry.New()
	g := r.ProcessCreate(1, 1, 0)
	s1 := r.ProcessCreate(1, 2, 0)
	s2 := r.ProcessCreate(1, 3, 0)

	require.Same(t, g.Files, s1.Files)
	require.Same(t, g.Files, s2.Files)
}

// every permutation of destroying three siblings must leave the by-pid
// index reachable after each step and empty after the last.
func TestDestroyPermutations(t *testing.T) {
	perms := [][3]uint64{
		{1, 2, 3}, {1, 3, 2}, {2, 1, 3},
		{2, 3, 1}, {3, 1, 2}, {3, 2, 1},
	}

	for _, order := range perms {
		r := registry.New()
		r.ProcessCreate(1, 1, 0)
		r.ProcessCreate(1, 2, 0)
		r.ProcessCreate(1, 3, 0)

		for i, tid := range order {
			require.NoError(t, r.ProcessDestroy(tid, noopDispose))
			if i < len(order)-1 {
				_, ok := r.FindProcessByPID(1)
				require.True(t, ok, "order=%v step=%d", order, i)
			}
		}
		_, ok := r.FindProcessByPID(1)
		require.False(t, ok, "order=%v", order)
	}
}

func TestFileTableDestroyedExactlyOnceOnLastThread(t *testing.T) {
	r := registry.New()
	r.ProcessCreate(1, 1, 0)
	r.ProcessCreate(1, 2, 0)
	r.ProcessCreate(1, 3, 0)

	disposedCount := 0
	dispose := func(*filestate.Record) { disposedCount++ }

	thread, _ := r.FindProcess(1)
	thread.Files.Observe("foo", linux.FileHeader{}, filestate.Test)

	require.NoError(t, r.ProcessDestroy(2, dispose))
	require.NoError(t, r.ProcessDestroy(3, dispose))
	require.NoError(t, r.ProcessDestroy(1, dispose))
	require.Equal(t, 1, disposedCount)
}
