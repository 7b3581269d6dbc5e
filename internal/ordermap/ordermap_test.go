package ordermap_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"tracefiled.dev/tracefiled/internal/ordermap"
)

func less(a, b int) bool { return a < b }

func TestInsertFindRoundTrip(t *testing.T) {
	keys := rand.New(rand.NewSource(1)).Perm(200)

	m := ordermap.New[int, string](less)
	for _, k := range keys {
		require.True(t, m.Insert(k, "v"))
	}
	for _, k := range keys {
		v, ok := m.Find(k)
		require.True(t, ok)
		require.Equal(t, "v", v)
	}
}

func TestInsertIfAbsent(t *testing.T) {
	m := ordermap.New[int, string](less)
	require.True(t, m.Insert(1, "first"))
	require.False(t, m.Insert(1, "second"))

	v, ok := m.Find(1)
	require.True(t, ok)
	require.Equal(t, "first", v)
}

func TestDeleteAnyOrderEmptiesMap(t *testing.T) {
	order := rand.New(rand.NewSource(2)).Perm(100)

	m := ordermap.New[int, string](less)
	for i := range 100 {
		m.Insert(i, "v")
	}
	for _, k := range order {
		require.True(t, m.Delete(k))
	}
	require.Equal(t, 0, m.Len())
	_, ok := m.Find(0)
	require.False(t, ok)
}

func TestFindAbsent(t *testing.T) {
	m := ordermap.New[int, string](less)
	_, ok := m.Find(42)
	require.False(t, ok)
	require.False(t, m.Delete(42))
}

func TestDestroyVisitsEveryEntryThenEmpties(t *testing.T) {
	m := ordermap.New[int, string](less)
	for i := range 10 {
		m.Insert(i, "v")
	}

	seen := map[int]bool{}
	m.Destroy(func(key int, value string) {
		seen[key] = true
	})
	require.Len(t, seen, 10)
	require.Equal(t, 0, m.Len())
}
