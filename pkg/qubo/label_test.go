package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQubitLabeledVsAncilla(t *testing.T) {
	q := Labeled[Int](Int(3))
	label, ok := q.Label()
	require.True(t, ok)
	assert.Equal(t, Int(3), label)
	assert.False(t, q.IsAncilla())

	var b Builder[Int]
	a := b.Ancilla()
	_, ok = a.Label()
	assert.False(t, ok)
	assert.True(t, a.IsAncilla())
}

func TestBuilderAncillaMonotonic(t *testing.T) {
	var b Builder[Int]
	a0 := b.Ancilla()
	a1 := b.Ancilla()
	assert.NotEqual(t, a0, a1)
	assert.True(t, a0.Less(a1))
}

func TestQubitLessLabeledBeforeAncilla(t *testing.T) {
	labeled := Labeled[Int](Int(100))
	var b Builder[Int]
	ancilla := b.Ancilla()
	assert.True(t, labeled.Less(ancilla))
	assert.False(t, ancilla.Less(labeled))
}

func TestPlaceholderUserVsConstraint(t *testing.T) {
	up := UserPlaceholder[Str, Int](Str("alpha"))
	cp := ConstraintPlaceholder[Str, Int](Int(1))

	assert.False(t, up.IsConstraint())
	u, ok := up.User()
	require.True(t, ok)
	assert.Equal(t, Str("alpha"), u)

	assert.True(t, cp.IsConstraint())
	c, ok := cp.Constraint()
	require.True(t, ok)
	assert.Equal(t, Int(1), c)

	assert.True(t, up.Less(cp))
}

func TestIntAndStrLess(t *testing.T) {
	assert.True(t, Int(1).Less(Int(2)))
	assert.False(t, Int(2).Less(Int(1)))
	assert.True(t, Str("a").Less(Str("b")))
}
