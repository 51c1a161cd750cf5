package embedding

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEncoder records how many times Encode is invoked.
type countingEncoder struct {
	calls int
	fail  bool
}

func (e *countingEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.fail {
		return nil, fmt.Errorf("encoder offline")
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestStore_GetOrCompute_Memoizes(t *testing.T) {
	store := NewStore("")
	enc := &countingEncoder{}

	vec1, err := store.GetOrCompute(context.Background(), "k1", "some text", enc)
	require.NoError(t, err)
	vec2, err := store.GetOrCompute(context.Background(), "k1", "different text", enc)
	require.NoError(t, err)

	assert.Equal(t, vec1, vec2)
	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, 1, store.Len())
}

func TestStore_GetOrCompute_EncoderFailure(t *testing.T) {
	store := NewStore("")
	enc := &countingEncoder{fail: true}

	_, err := store.GetOrCompute(context.Background(), "k1", "text", enc)
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStore_GetOrCompute_NilEncoder(t *testing.T) {
	store := NewStore("")

	_, err := store.GetOrCompute(context.Background(), "k1", "text", nil)
	assert.Error(t, err)
}

func TestStore_GetAndSet(t *testing.T) {
	store := NewStore("")

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Set("k1", []float32{1, 2, 3})
	vec, ok := store.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestStore_PersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "embeddings.gob")

	store := NewStore(path)
	store.Set("cand-1", []float32{0.1, 0.2})
	store.Set("cand-2", []float32{0.3, 0.4})
	require.NoError(t, store.Persist())

	restored := NewStore(path)
	assert.Equal(t, 2, restored.Len())
	vec, ok := restored.Get("cand-1")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
}

func TestStore_RestoreMissingSnapshot(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.gob"))
	assert.Equal(t, 0, store.Len())
}

func TestStore_PersistWithoutPath(t *testing.T) {
	store := NewStore("")
	store.Set("k1", []float32{1})
	assert.NoError(t, store.Persist())
}
