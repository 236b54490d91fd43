package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitStateGetSetFlip(t *testing.T) {
	s := NewBitState(10)
	for i := 0; i < 10; i++ {
		assert.False(t, s.Get(i))
	}
	s.Set(3, true)
	assert.True(t, s.Get(3))
	s.Set(3, false)
	assert.False(t, s.Get(3))

	assert.True(t, s.Flip(5))
	assert.True(t, s.Get(5))
	assert.False(t, s.Flip(5))
}

func TestBitStateCloneIsIndependent(t *testing.T) {
	s := NewBitState(8)
	s.Set(0, true)
	clone := s.Clone()
	clone.Set(0, false)
	assert.True(t, s.Get(0))
	assert.False(t, clone.Get(0))
}

func TestBitStateFromBools(t *testing.T) {
	bits := []bool{true, false, true, true, false}
	s := NewBitStateFrom(bits)
	assert.Equal(t, bits, s.Bools())
}

func TestBitStateCopyFrom(t *testing.T) {
	a := NewBitState(12)
	b := NewBitState(12)
	a.Set(11, true)
	a.Set(0, true)
	b.CopyFrom(a)
	assert.Equal(t, a.Bools(), b.Bools())
}

func TestBitStateSpansByteBoundary(t *testing.T) {
	s := NewBitState(9)
	s.Set(8, true)
	assert.True(t, s.Get(8))
	for i := 0; i < 8; i++ {
		assert.False(t, s.Get(i))
	}
}
