package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSubsetsPairOrder(t *testing.T) {
	elems := []int{0, 1, 2, 3}
	var got [][]int
	getSubsets(elems, 2, 2, func(subset []int) {
		got = append(got, append([]int(nil), subset...))
	})
	want := [][]int{
		{2, 3}, {1, 3}, {1, 2}, {0, 3}, {0, 2}, {0, 1},
	}
	assert.Equal(t, want, got)
}

func TestGetSubsetsRespectsMinMax(t *testing.T) {
	elems := []int{0, 1, 2}
	var got [][]int
	getSubsets(elems, 0, 1, func(subset []int) {
		got = append(got, append([]int(nil), subset...))
	})
	for _, s := range got {
		assert.LessOrEqual(t, len(s), 1)
	}
	// one empty subset, three singletons.
	assert.Len(t, got, 4)
}

func TestGetSubsetsFullRangeCount(t *testing.T) {
	elems := []int{0, 1, 2, 3}
	count := 0
	getSubsets(elems, 0, -1, func(subset []int) {
		count++
	})
	assert.Equal(t, 16, count) // 2^4 subsets
}

func TestGetSubsetsCallbackSliceMustBeCopied(t *testing.T) {
	elems := []int{0, 1, 2}
	var captured [][]int
	getSubsets(elems, 1, 1, func(subset []int) {
		cp := append([]int(nil), subset...)
		captured = append(captured, cp)
	})
	assert.Equal(t, [][]int{{2}, {1}, {0}}, captured)
}
