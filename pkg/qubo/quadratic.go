package qubo

import "fmt"

// QuadraticModel is a dense, upper-triangular N x N weight matrix over
// qubit indices 0..N-1, evaluated as xᵀQx for x in {0,1}^N (spec.md §3,
// QuadraticModel). It holds no constant offset; GenerateQubo returns that
// separately. Diagonal entries are linear
// (single-qubit) coefficients; off-diagonal entries (i < j) are the
// coefficient of x_i*x_j. Storage is N(N+1)/2 weights, mirroring
// FixedSingleQuadricModel in original_source/annealers/src/model.rs.
type QuadraticModel[R Real] struct {
	n       int
	diag    []R
	offDiag []R
}

// NewQuadraticModel allocates a zero model over n qubits.
func NewQuadraticModel[R Real](n int) *QuadraticModel[R] {
	return &QuadraticModel[R]{
		n:       n,
		diag:    make([]R, n),
		offDiag: make([]R, offDiagSize(n)),
	}
}

func offDiagSize(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// offDiagIndex returns the storage position of (i, j) for i < j, matching
// the row-major order row i=0..n-2, column j=i+1..n-1.
func offDiagIndex(n, i, j int) int {
	start := i * (2*n - i - 1) / 2
	return start + (j - i - 1)
}

// Size returns the number of qubits the model covers.
func (m *QuadraticModel[R]) Size() int { return m.n }

// AddWeight accumulates w into the (i, j) entry (i == j for a linear
// term). Panics if i or j is out of range; this is a programmer-error
// guard, not a recoverable condition (callers control i, j internally).
func (m *QuadraticModel[R]) AddWeight(i, j int, w R) {
	if i > j {
		i, j = j, i
	}
	if i < 0 || j >= m.n {
		panic(fmt.Sprintf("qubo: weight index (%d,%d) out of range for model of size %d", i, j, m.n))
	}
	if i == j {
		m.diag[i] += w
		return
	}
	m.offDiag[offDiagIndex(m.n, i, j)] += w
}

// GetWeight returns the (i, j) entry (0 if never set).
func (m *QuadraticModel[R]) GetWeight(i, j int) R {
	if i > j {
		i, j = j, i
	}
	if i == j {
		return m.diag[i]
	}
	return m.offDiag[offDiagIndex(m.n, i, j)]
}

// Weight is one entry yielded by Prods/Neighbors: the row/column index
// pair and the stored weight.
type Weight[R Real] struct {
	I, J int
	W    R
}

// Prods enumerates every (i, j) pair with i <= j in the fixed order
// (0,0), (1,1), ..., (n-1,n-1), (0,1), (0,2), ..., (0,n-1), (1,2), ...,
// (n-2,n-1) -- diagonal first, then off-diagonal in row-major order.
// This exact order is pinned by original_source/annealers/src/model.rs's
// proditer_test and by spec.md scenario S3.
func (m *QuadraticModel[R]) Prods(yield func(Weight[R]) bool) {
	for i := 0; i < m.n; i++ {
		if !yield(Weight[R]{I: i, J: i, W: m.diag[i]}) {
			return
		}
	}
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			if !yield(Weight[R]{I: i, J: j, W: m.offDiag[offDiagIndex(m.n, i, j)]}) {
				return
			}
		}
	}
}

// Neighbors enumerates every j != i paired with qubit i, in ascending
// order of j, together with the weight of the (i, j) edge (the diagonal
// is never included). This is the per-qubit view the annealing engine
// uses to compute flip costs incrementally (spec.md §4.6).
func (m *QuadraticModel[R]) Neighbors(i int, yield func(j int, w R) bool) {
	for j := 0; j < m.n; j++ {
		if j == i {
			continue
		}
		if !yield(j, m.GetWeight(i, j)) {
			return
		}
	}
}

// Energy evaluates xᵀQx for the given boolean assignment (len(x) must
// equal m.Size()).
func (m *QuadraticModel[R]) Energy(x []bool) R {
	var e R
	for i := 0; i < m.n; i++ {
		if !x[i] {
			continue
		}
		e += m.diag[i]
		for j := i + 1; j < m.n; j++ {
			if x[j] {
				e += m.offDiag[offDiagIndex(m.n, i, j)]
			}
		}
	}
	return e
}
