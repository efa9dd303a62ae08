// Package matrix assembles Modified Nodal Analysis systems from the
// stamps a component.Component emits. It knows nothing about device
// behavior — only how to translate a Conductance/VoltageSource/
// CurrentInjection stamp into matrix and right-hand-side contributions.
package matrix

import (
	"github.com/arlojacobsen/circuitlab/internal/consts"
	"github.com/arlojacobsen/circuitlab/pkg/component"
)

// System is an assembled dense MNA system: A*x = Z, where the first N
// rows/columns are non-ground node voltages (ordered per Nodes) and the
// remaining M are voltage-source branch currents (ordered per Branches).
type System struct {
	A        [][]float64
	Z        []float64
	Nodes    []string // size N, index -> node id
	Branches []string // size M, index -> stamp id

	// floating records, per node index, whether that node had no
	// coupling at all (diagonal included) before regularizeFloatingNodes
	// added its shunt. Captured once at Assemble time so FloatingNodes
	// reports the pre-shunt, pre-Tikhonov state regardless of when it is
	// called.
	floating []bool
}

// Assemble builds the dense system for one outer iteration. nodes is the
// stable, ordered list of non-ground nodes (from netlist.NodeList);
// stamps is the concatenation of every component's current Stamps().
//
// Voltage-source branch indices are assigned in the order their stamps
// are encountered.
func Assemble(nodes []string, stamps []component.Stamp) *System {
	n := len(nodes)

	var branches []string
	for _, s := range stamps {
		if s.Kind == component.VoltageSourceStamp {
			branches = append(branches, s.ID)
		}
	}
	m := len(branches)
	size := n + m

	sys := &System{
		A:        make([][]float64, size),
		Z:        make([]float64, size),
		Nodes:    nodes,
		Branches: branches,
	}
	for i := range sys.A {
		sys.A[i] = make([]float64, size)
	}

	branchIdx := make(map[string]int, m)
	nodeIdx := make(map[string]int, n)
	for i, node := range nodes {
		nodeIdx[node] = i
	}
	for i, id := range branches {
		branchIdx[id] = n + i
	}

	nodeRow := func(node string) (int, bool) {
		if node == "" || node == consts.GroundNode {
			return 0, false
		}
		idx, ok := nodeIdx[node]
		return idx, ok
	}

	for _, s := range stamps {
		switch s.Kind {
		case component.Conductance:
			i1, ok1 := nodeRow(s.N1)
			i2, ok2 := nodeRow(s.N2)
			if ok1 {
				sys.A[i1][i1] += s.G
				if ok2 {
					sys.A[i1][i2] -= s.G
				}
			}
			if ok2 {
				if ok1 {
					sys.A[i2][i1] -= s.G
				}
				sys.A[i2][i2] += s.G
			}

		case component.CurrentInjection:
			if i, ok := nodeRow(s.N); ok {
				sys.Z[i] -= s.I
			}

		case component.VoltageSourceStamp:
			k := branchIdx[s.ID]

			iPlus, okPlus := nodeRow(s.NPlus)
			iMinus, okMinus := nodeRow(s.NMinus)
			if okPlus {
				sys.A[iPlus][k] += 1
				sys.A[k][iPlus] += 1
			}
			if okMinus {
				sys.A[iMinus][k] -= 1
				sys.A[k][iMinus] -= 1
			}
			sys.Z[k] = s.V
		}
	}

	regularizeFloatingNodes(sys, n)

	return sys
}

// regularizeFloatingNodes adds a tiny shunt-to-ground conductance on the
// diagonal of any non-ground node row whose entire row and column (across
// both the node block and the VS coupling columns, diagonal included) is
// zero. The pre-shunt state is snapshotted into sys.floating first, so a
// node whose only coupling is a plain resistor to ground is never
// misclassified.
func regularizeFloatingNodes(sys *System, n int) {
	sys.floating = make([]bool, n)
	for i := 0; i < n; i++ {
		if isFloating(sys, i) {
			sys.floating[i] = true
			sys.A[i][i] += consts.FloatingNodeShunt
		}
	}
}

// isFloating reports whether node row/column i has no coupling to any
// other row/column, diagonal included — a node with a nonzero diagonal
// (even from a single resistor-to-ground conductance) is coupled, not
// floating.
func isFloating(sys *System, i int) bool {
	size := len(sys.A)
	for j := 0; j < size; j++ {
		if sys.A[i][j] != 0 || sys.A[j][i] != 0 {
			return false
		}
	}
	return true
}

// ApplyTikhonov adds epsilon to every non-ground node diagonal, and to any
// zero-diagonal voltage-source extension row, as the solver's fallback
// retry after a first singular solve.
func ApplyTikhonov(sys *System, n int, epsilon float64) {
	size := len(sys.A)
	for i := 0; i < n; i++ {
		sys.A[i][i] += epsilon
	}
	for i := n; i < size; i++ {
		if sys.A[i][i] == 0 {
			sys.A[i][i] += epsilon
		}
	}
}

// FloatingNodes returns the subset of nodes with no coupling at all,
// taken from the snapshot Assemble captured before regularization and
// any later Tikhonov mutation — used to build the Unsolvable diagnostic
// and the solver's trace hook.
func FloatingNodes(sys *System, n int) []string {
	var floating []string
	for i := 0; i < n && i < len(sys.floating); i++ {
		if sys.floating[i] {
			floating = append(floating, sys.Nodes[i])
		}
	}
	return floating
}
