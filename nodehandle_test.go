package multiindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeHandleEmptyByDefault(t *testing.T) {
	var nh NodeHandle[person]
	assert.True(t, nh.Empty())
	assert.Nil(t, nh.Value())

	v, err := nh.ValueErr()
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrEmptyHandle)
}

func TestNodeHandleValueErrOnLiveHandle(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})

	nh := byID.Extract(byID.Find(1))
	v, err := nh.ValueErr()
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.Name)
}

func TestNodeHandleDiscard(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})

	it := byID.Find(1)
	nh := byID.Extract(it)
	require.False(t, nh.Empty())

	nh.Discard()
	assert.True(t, nh.Empty())
	assert.Nil(t, nh.Value())

	// Discarding twice is a no-op, not a double-free.
	nh.Discard()
}

func TestNodeHandleReleasedOnSuccessfulReinsert(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})

	nh := byID.Extract(byID.Find(1))
	require.False(t, nh.Empty())

	_, ok := byID.InsertHandle(nh)
	require.True(t, ok)
	assert.True(t, nh.Empty())
}

func TestNodeHandleKeepsOwnershipOnConflict(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})
	_, _ = byID.Insert(person{ID: 2, Name: "Grace"})

	nh := byID.Extract(byID.Find(1))
	require.False(t, nh.Empty())

	// Mutate the detached value's ID so reinserting collides with ID 2.
	nh.Value().ID = 2

	_, ok := byID.InsertHandle(nh)
	assert.False(t, ok)
	assert.False(t, nh.Empty(), "handle must keep owning the node after a rejected reinsert")
	assert.Equal(t, "Ada", nh.Value().Name)
}
