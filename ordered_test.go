package multiindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID   int
	Name string
	Age  int
}

const (
	tagByID   = "by-id"
	tagByName = "by-name"
	tagByAge  = "by-age"
)

func lessInt(a, b int) bool       { return a < b }
func lessString(a, b string) bool { return a < b }

func newPersonByID() (*Container[person], *OrderedIndex[person, int]) {
	c := New[person](
		OrderedUnique[person, int](tagByID, func(p *person) int { return p.ID }, lessInt),
	)
	return c, Ordered[person, int](c, tagByID)
}

func TestOrderedUniqueInsertRejectsConflict(t *testing.T) {
	_, byID := newPersonByID()

	_, ok := byID.Insert(person{ID: 1, Name: "Ada"})
	require.True(t, ok)

	it, ok := byID.Insert(person{ID: 1, Name: "Grace"})
	require.False(t, ok)
	assert.Equal(t, "Ada", it.Value().Name)
	assert.Equal(t, 1, byID.Len())
}

func TestOrderedIterationIsKeyOrdered(t *testing.T) {
	_, byID := newPersonByID()
	for _, id := range []int{5, 1, 3, 4, 2} {
		_, ok := byID.Insert(person{ID: id})
		require.True(t, ok)
	}

	var got []int
	for it := byID.Begin(); it.Valid(); it = it.Next() {
		got = append(got, it.Value().ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestOrderedFindLowerUpperBound(t *testing.T) {
	_, byID := newPersonByID()
	for _, id := range []int{10, 20, 30, 40} {
		_, _ = byID.Insert(person{ID: id})
	}

	assert.True(t, byID.Find(20).Valid())
	assert.False(t, byID.Find(25).Valid())

	lb := byID.LowerBound(25)
	require.True(t, lb.Valid())
	assert.Equal(t, 30, lb.Value().ID)

	ub := byID.UpperBound(20)
	require.True(t, ub.Valid())
	assert.Equal(t, 30, ub.Value().ID)

	assert.False(t, byID.LowerBound(100).Valid())
}

func TestOrderedNonUniqueAllowsDuplicates(t *testing.T) {
	c := New[person](
		OrderedNonUnique[person, string](tagByName, func(p *person) string { return p.Name }, lessString),
	)
	byName := Ordered[person, string](c, tagByName)

	for _, name := range []string{"Bob", "Bob", "Ada"} {
		_, ok := byName.Insert(person{Name: name})
		require.True(t, ok)
	}
	assert.Equal(t, 2, byName.Count("Bob"))
	assert.Equal(t, 1, byName.Count("Ada"))
	assert.Equal(t, 3, byName.Len())
}

func TestOrderedEraseReturnsSuccessor(t *testing.T) {
	_, byID := newPersonByID()
	for _, id := range []int{1, 2, 3} {
		_, _ = byID.Insert(person{ID: id})
	}

	mid := byID.Find(2)
	require.True(t, mid.Valid())
	next := byID.Erase(mid)
	require.True(t, next.Valid())
	assert.Equal(t, 3, next.Value().ID)
	assert.Equal(t, 2, byID.Len())
	assert.False(t, byID.Find(2).Valid())
}

func TestOrderedModifyReindexesOnKeyChange(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})
	_, _ = byID.Insert(person{ID: 2, Name: "Bob"})

	it := byID.Find(1)
	require.True(t, it.Valid())
	ok := byID.Modify(it, func(p *person) { p.ID = 5 })
	require.True(t, ok)

	assert.False(t, byID.Find(1).Valid())
	found := byID.Find(5)
	require.True(t, found.Valid())
	assert.Equal(t, "Ada", found.Value().Name)
}

func TestOrderedModifyRejectsConflict(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})
	_, _ = byID.Insert(person{ID: 2, Name: "Bob"})

	it := byID.Find(1)
	require.True(t, it.Valid())
	ok := byID.Modify(it, func(p *person) { p.ID = 2 })
	assert.False(t, ok)
	assert.Equal(t, 1, byID.Len())
	assert.True(t, byID.Find(2).Valid())
}

func TestOrderedModifyNoKeyChangeKeepsPosition(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})

	it := byID.Find(1)
	ok := byID.Modify(it, func(p *person) { p.Name = "Ada Lovelace" })
	require.True(t, ok)
	found := byID.Find(1)
	require.True(t, found.Valid())
	assert.Equal(t, "Ada Lovelace", found.Value().Name)
}

func TestOrderedExtractAndReinsert(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})

	it := byID.Find(1)
	require.True(t, it.Valid())
	nh := byID.Extract(it)
	require.False(t, nh.Empty())
	assert.False(t, byID.Find(1).Valid())
	assert.Equal(t, 0, byID.Len())

	back, ok := byID.InsertHandle(nh)
	require.True(t, ok)
	assert.Equal(t, "Ada", back.Value().Name)
	assert.True(t, nh.Empty())
	assert.Equal(t, 1, byID.Len())
}

func TestOrderedHeterogeneousLookup(t *testing.T) {
	_, byID := newPersonByID()
	for _, id := range []int{10, 20, 30} {
		_, _ = byID.Insert(person{ID: id})
	}

	it := byID.FindBy(func(k int) int { return 20 - k })
	require.True(t, it.Valid())
	assert.Equal(t, 20, it.Value().ID)

	assert.Equal(t, 2, byID.CountBy(func(k int) int {
		if k <= 20 {
			return 0
		}
		return -1
	}))
}

func TestOrderedInsertErrReturnsKeyConflict(t *testing.T) {
	_, byID := newPersonByID()
	_, err := byID.InsertErr(person{ID: 1, Name: "Ada"})
	require.NoError(t, err)

	_, err = byID.InsertErr(person{ID: 1, Name: "Grace"})
	require.Error(t, err)
	var kc *ErrKeyConflict
	require.True(t, errors.As(err, &kc))
	assert.Equal(t, tagByID, kc.Tag)
}

func TestOrderedInsertHandleErrReportsEmptyAndConflict(t *testing.T) {
	_, byID := newPersonByID()
	_, _ = byID.Insert(person{ID: 1, Name: "Ada"})
	_, _ = byID.Insert(person{ID: 2, Name: "Bob"})

	var empty NodeHandle[person]
	_, err := byID.InsertHandleErr(&empty)
	assert.ErrorIs(t, err, ErrEmptyHandle)

	nh := byID.Extract(byID.Find(1))
	nh.Value().ID = 2
	_, err = byID.InsertHandleErr(nh)
	var kc *ErrKeyConflict
	require.True(t, errors.As(err, &kc))
	assert.False(t, nh.Empty())
}

func TestOrderedEraseKeyRemovesAllEquivalent(t *testing.T) {
	c := New[person](
		OrderedNonUnique[person, string](tagByName, func(p *person) string { return p.Name }, lessString),
	)
	byName := Ordered[person, string](c, tagByName)
	for _, name := range []string{"Bob", "Bob", "Ada", "Bob"} {
		_, _ = byName.Insert(person{Name: name})
	}

	n := byName.EraseKey("Bob")
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, byName.Len())
}
