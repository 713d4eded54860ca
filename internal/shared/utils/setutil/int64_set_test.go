package setutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64Set_AddAndHas(t *testing.T) {
	s := NewInt64Set()
	s.Add(555)
	s.Add(777)
	s.Add(555)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(555))
	assert.True(t, s.Has(777))
	assert.False(t, s.Has(1))
}

func TestInt64Set_IgnoresZero(t *testing.T) {
	s := NewInt64Set()
	s.Add(0)
	s.AddAll([]int64{0, 42})

	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Has(0))
}

func TestInt64Set_SortedIsDeterministic(t *testing.T) {
	a := NewInt64Set()
	a.AddAll([]int64{9, 3, 7, 1})

	b := NewInt64Set()
	b.AddAll([]int64{1, 7, 3, 9})

	assert.Equal(t, []int64{1, 3, 7, 9}, a.Sorted())
	assert.Equal(t, a.Sorted(), b.Sorted())
}
