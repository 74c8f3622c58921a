package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveRestore(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "main", []byte(`{"a":1}`)))

	data, ok, err := s.Restore(ctx, "main")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), data)
}

func TestStore_RestoreAbsent(t *testing.T) {
	s := New()

	data, ok, err := s.Restore(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestStore_Clear(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "main", []byte("x")))
	require.NoError(t, s.Clear(ctx, "main"))

	_, ok, err := s.Restore(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStore_ClearAbsentIsNoop(t *testing.T) {
	s := New()
	assert.NoError(t, s.Clear(context.Background(), "missing"))
}

func TestStore_CopiesOnSaveAndRestore(t *testing.T) {
	s := New()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, s.Save(ctx, "main", original))
	original[0] = 'x'

	data, ok, err := s.Restore(ctx, "main")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), data)

	data[0] = 'z'
	again, _, err := s.Restore(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
