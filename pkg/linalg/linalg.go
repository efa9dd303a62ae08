// Package linalg solves small dense linear systems by Gauss-Jordan
// elimination with partial pivoting. It is used as a black box by the
// solver and knows nothing about circuits, nodes, or stamps.
package linalg

import (
	"fmt"
	"math"

	"github.com/arlojacobsen/circuitlab/internal/consts"
)

// SingularMatrix is returned when no usable pivot can be found for a
// column: the matrix has no unique solution.
type SingularMatrix struct {
	Column int
}

func (e *SingularMatrix) Error() string {
	return fmt.Sprintf("linalg: matrix is singular at column %d (pivot magnitude below %g)", e.Column, consts.PivotFloor)
}

// Solve returns x such that a*x = z, destroying neither a nor z (both are
// copied internally). a must be square and match z's length.
func Solve(a [][]float64, z []float64) ([]float64, error) {
	n := len(a)
	if n == 0 {
		return nil, fmt.Errorf("linalg: empty system")
	}
	for i, row := range a {
		if len(row) != n {
			return nil, fmt.Errorf("linalg: matrix row %d has length %d, want %d", i, len(row), n)
		}
	}
	if len(z) != n {
		return nil, fmt.Errorf("linalg: rhs length %d, want %d", len(z), n)
	}

	// Work on an augmented copy: columns [0,n) are the matrix, column n is z.
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, n+1)
		copy(aug[i], a[i])
		aug[i][n] = z[i]
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		pivotMag := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if mag := math.Abs(aug[r][col]); mag > pivotMag {
				pivotMag = mag
				pivotRow = r
			}
		}
		if pivotMag < consts.PivotFloor {
			return nil, &SingularMatrix{Column: col}
		}
		if pivotRow != col {
			aug[col], aug[pivotRow] = aug[pivotRow], aug[col]
		}

		pivot := aug[col][col]
		for j := col; j <= n; j++ {
			aug[col][j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := col; j <= n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = aug[i][n]
	}
	return x, nil
}
