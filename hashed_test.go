package multiindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eqString(a, b string) bool { return a == b }

func newPersonByEmail(initialBuckets ...int) (*Container[person], *HashedIndex[person, string]) {
	c := New[person](
		HashedUnique[person, string](tagByName, func(p *person) string { return p.Name }, FNV1a64, eqString, initialBuckets...),
	)
	return c, Hashed[person, string](c, tagByName)
}

func TestHashedUniqueInsertRejectsConflict(t *testing.T) {
	_, byName := newPersonByEmail()

	_, ok := byName.Insert(person{ID: 1, Name: "ada@example.com"})
	require.True(t, ok)

	it, ok := byName.Insert(person{ID: 2, Name: "ada@example.com"})
	require.False(t, ok)
	assert.Equal(t, 1, it.Value().ID)
	assert.Equal(t, 1, byName.Len())
}

func TestHashedFind(t *testing.T) {
	_, byName := newPersonByEmail()
	_, _ = byName.Insert(person{ID: 1, Name: "ada@example.com"})
	_, _ = byName.Insert(person{ID: 2, Name: "bob@example.com"})

	it := byName.Find("bob@example.com")
	require.True(t, it.Valid())
	assert.Equal(t, 2, it.Value().ID)

	assert.False(t, byName.Find("carol@example.com").Valid())
}

func TestHashedNonUniqueCount(t *testing.T) {
	c := New[person](
		HashedNonUnique[person, int](tagByAge, func(p *person) int { return p.Age }, func(age int) uint64 { return Int64Hash(int64(age)) }, func(a, b int) bool { return a == b }),
	)
	byAge := Hashed[person, int](c, tagByAge)

	for _, age := range []int{30, 30, 40, 30} {
		_, ok := byAge.Insert(person{Age: age})
		require.True(t, ok)
	}
	assert.Equal(t, 3, byAge.Count(30))
	assert.Equal(t, 1, byAge.Count(40))
	assert.Equal(t, 0, byAge.Count(50))
}

func TestHashedRehashGrowsAndPreservesMembership(t *testing.T) {
	_, byName := newPersonByEmail(4)

	const n = 200
	for i := 0; i < n; i++ {
		_, ok := byName.Insert(person{ID: i, Name: nameFor(i)})
		require.True(t, ok)
	}
	require.Equal(t, n, byName.Len())
	assert.Greater(t, byName.BucketCount(), 4)
	assert.LessOrEqual(t, byName.LoadFactor(), 0.8)

	for i := 0; i < n; i++ {
		it := byName.Find(nameFor(i))
		require.True(t, it.Valid(), "missing element %d after rehash", i)
		assert.Equal(t, i, it.Value().ID)
	}
}

func nameFor(i int) string {
	b := make([]byte, 0, 8)
	for i > 0 || len(b) == 0 {
		b = append(b, byte('a'+i%26))
		i /= 26
	}
	return string(b)
}

func TestHashedEraseAndExtract(t *testing.T) {
	_, byName := newPersonByEmail()
	_, _ = byName.Insert(person{ID: 1, Name: "ada@example.com"})
	_, _ = byName.Insert(person{ID: 2, Name: "bob@example.com"})

	it := byName.Find("ada@example.com")
	nh := byName.Extract(it)
	require.False(t, nh.Empty())
	assert.False(t, byName.Find("ada@example.com").Valid())
	assert.Equal(t, 1, byName.Len())

	back, ok := byName.InsertHandle(nh)
	require.True(t, ok)
	assert.Equal(t, 1, back.Value().ID)
	assert.Equal(t, 2, byName.Len())

	next := byName.Erase(byName.Find("bob@example.com"))
	_ = next
	assert.Equal(t, 1, byName.Len())
}

func TestHashedInsertErrReturnsKeyConflict(t *testing.T) {
	_, byName := newPersonByEmail()
	_, err := byName.InsertErr(person{ID: 1, Name: "ada@example.com"})
	require.NoError(t, err)

	_, err = byName.InsertErr(person{ID: 2, Name: "ada@example.com"})
	require.Error(t, err)
	var kc *ErrKeyConflict
	require.True(t, errors.As(err, &kc))
	assert.Equal(t, tagByName, kc.Tag)
}

func TestHashedInsertHandleErrReportsEmpty(t *testing.T) {
	_, byName := newPersonByEmail()
	var empty NodeHandle[person]
	_, err := byName.InsertHandleErr(&empty)
	assert.ErrorIs(t, err, ErrEmptyHandle)
}

func TestHashedModifyChangesBucket(t *testing.T) {
	_, byName := newPersonByEmail()
	_, _ = byName.Insert(person{ID: 1, Name: "ada@example.com"})

	it := byName.Find("ada@example.com")
	ok := byName.Modify(it, func(p *person) { p.Name = "ada.lovelace@example.com" })
	require.True(t, ok)

	assert.False(t, byName.Find("ada@example.com").Valid())
	found := byName.Find("ada.lovelace@example.com")
	require.True(t, found.Valid())
	assert.Equal(t, 1, found.Value().ID)
}
