package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadraticModelProdsOrder(t *testing.T) {
	m := NewQuadraticModel[float64](4)
	var order [][2]int
	m.Prods(func(w Weight[float64]) bool {
		order = append(order, [2]int{w.I, w.J})
		return true
	})
	want := [][2]int{
		{0, 0}, {1, 1}, {2, 2}, {3, 3},
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}
	assert.Equal(t, want, order)
}

func TestQuadraticModelAddWeightSymmetric(t *testing.T) {
	m := NewQuadraticModel[float64](3)
	m.AddWeight(0, 1, 2.5)
	assert.Equal(t, 2.5, m.GetWeight(0, 1))
	assert.Equal(t, 2.5, m.GetWeight(1, 0))

	m.AddWeight(1, 0, 1.5)
	assert.Equal(t, 4.0, m.GetWeight(0, 1))
}

func TestQuadraticModelProdsEarlyStop(t *testing.T) {
	m := NewQuadraticModel[float64](4)
	count := 0
	m.Prods(func(w Weight[float64]) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestQuadraticModelEnergy(t *testing.T) {
	m := NewQuadraticModel[int](3)
	m.AddWeight(0, 0, 1)
	m.AddWeight(1, 1, 2)
	m.AddWeight(0, 1, -3)
	assert.Equal(t, 0, m.Energy([]bool{true, true, false}))
	assert.Equal(t, 1, m.Energy([]bool{true, false, false}))
	assert.Equal(t, 2, m.Energy([]bool{false, true, false}))
}

func TestQuadraticModelNeighbors(t *testing.T) {
	m := NewQuadraticModel[float64](3)
	m.AddWeight(0, 1, 1)
	m.AddWeight(0, 2, 2)
	var got []int
	m.Neighbors(0, func(j int, w float64) bool {
		got = append(got, j)
		return true
	})
	assert.Equal(t, []int{1, 2}, got)
}
