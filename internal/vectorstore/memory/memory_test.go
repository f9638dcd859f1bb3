package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIDs_Empty(t *testing.T) {
	store := NewStore()
	ids, err := store.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestInsertAndListIDs(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Insert(context.Background(), "a", "text a", []float32{1, 0}))
	require.NoError(t, store.Insert(context.Background(), "b", "text b", []float32{0, 1}))

	ids, err := store.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "a")
	assert.Contains(t, ids, "b")
}

func TestQuery_RanksBySimilarity(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Insert(context.Background(), "x", "east", []float32{1, 0}))
	require.NoError(t, store.Insert(context.Background(), "y", "north", []float32{0, 1}))

	results, err := store.Query(context.Background(), []float32{0.9, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "x", results[0].ID)
	assert.Equal(t, "east", results[0].Text)
	assert.Equal(t, "y", results[1].ID)
}

func TestQuery_FewerEntriesThanK(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Insert(context.Background(), "only", "text", []float32{1}))

	results, err := store.Query(context.Background(), []float32{1}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestQuery_ExactlyK(t *testing.T) {
	store := NewStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Insert(context.Background(), id, id, []float32{1, 0}))
	}

	results, err := store.Query(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuery_EmptyStore(t *testing.T) {
	store := NewStore()
	results, err := store.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 0}))
}
