// Package solver runs the outer DC fixed-point loop: assemble MNA,
// solve, update behavioral state, repeat until voltages stop moving or
// the iteration budget runs out.
package solver

import (
	"fmt"
	"math"

	"github.com/arlojacobsen/circuitlab/internal/consts"
	"github.com/arlojacobsen/circuitlab/pkg/component"
	"github.com/arlojacobsen/circuitlab/pkg/linalg"
	"github.com/arlojacobsen/circuitlab/pkg/matrix"
	"github.com/arlojacobsen/circuitlab/pkg/netlist"
)

// Result is the solver's output: node_voltages always includes "0" -> 0,
// vs_currents is keyed by each voltage-source stamp's id, iterations is
// the 1-based count of outer iterations actually run, and converged
// reports whether the loop met tol before exhausting maxIter.
type Result struct {
	NodeVoltages map[string]float64
	VSCurrents   map[string]float64
	Iterations   int
	Converged    bool
}

// Unsolvable is returned when the matrix is still singular after the
// Tikhonov retry. It carries the full node list, the nodes detected
// floating, and the voltage-source count.
type Unsolvable struct {
	Nodes         []string
	FloatingNodes []string
	VSCount       int
	Cause         error
}

func (e *Unsolvable) Error() string {
	return fmt.Sprintf(
		"solver: unsolvable after regularization (nodes=%v, floating=%v, voltage sources=%d): %v",
		e.Nodes, e.FloatingNodes, e.VSCount, e.Cause,
	)
}

func (e *Unsolvable) Unwrap() error { return e.Cause }

// Trace is the per-outer-iteration diagnostic a caller can observe
// through Solve's optional trace callback: the iteration's maxDiff, the
// nodes the floating-node shunt fired on (if any), and whether this
// iteration needed the Tikhonov retry to escape a singular first solve.
type Trace struct {
	Iteration       int
	MaxDiff         float64
	FloatingNodes   []string
	TikhonovApplied bool
}

// Solve runs the outer fixed-point loop over components, whose pins must
// already be bound to node ids (netlist.Build having run). maxIter <= 0
// and tol <= 0 fall back to the package defaults.
//
// onTrace, if given, is called once per outer iteration with that
// iteration's Trace.
func Solve(components []component.Component, maxIter int, tol float64, onTrace ...func(Trace)) (Result, error) {
	var trace func(Trace)
	if len(onTrace) > 0 {
		trace = onTrace[0]
	}

	if maxIter <= 0 {
		maxIter = consts.DefaultMaxIter
	}
	if tol <= 0 {
		tol = consts.DefaultTol
	}

	nodes := collectNodes(components)

	lastVoltages := map[string]float64{consts.GroundNode: 0}
	for _, n := range nodes {
		lastVoltages[n] = 0
	}

	// Seed behavioral state once from the zero vector before the first
	// assembly, so e.g. logic gates can commit an initial driven decision.
	for _, c := range components {
		c.UpdateState(lastVoltages)
	}

	for iter := 1; iter <= maxIter; iter++ {
		var stamps []component.Stamp
		for _, c := range components {
			stamps = append(stamps, c.Stamps()...)
		}

		sys := matrix.Assemble(nodes, stamps)
		floating := matrix.FloatingNodes(sys, len(nodes))

		tikhonovApplied := false
		x, err := linalg.Solve(sys.A, sys.Z)
		if err != nil {
			tikhonovApplied = true
			x, err = retryWithTikhonov(sys, len(nodes))
			if err != nil {
				return Result{}, &Unsolvable{
					Nodes:         nodes,
					FloatingNodes: matrix.FloatingNodes(sys, len(nodes)),
					VSCount:       len(sys.Branches),
					Cause:         err,
				}
			}
		}

		voltages := map[string]float64{consts.GroundNode: 0}
		for i, n := range nodes {
			voltages[n] = x[i]
		}

		for _, c := range components {
			c.UpdateState(voltages)
		}

		maxDiff := 0.0
		for _, n := range nodes {
			diff := math.Abs(voltages[n] - lastVoltages[n])
			if diff > maxDiff {
				maxDiff = diff
			}
		}
		lastVoltages = voltages

		if trace != nil {
			trace(Trace{
				Iteration:       iter,
				MaxDiff:         maxDiff,
				FloatingNodes:   floating,
				TikhonovApplied: tikhonovApplied,
			})
		}

		if maxDiff < tol {
			vsCurrents := make(map[string]float64, len(sys.Branches))
			for i, id := range sys.Branches {
				vsCurrents[id] = x[len(nodes)+i]
			}
			return Result{
				NodeVoltages: voltages,
				VSCurrents:   vsCurrents,
				Iterations:   iter,
				Converged:    true,
			}, nil
		}
	}

	return Result{
		NodeVoltages: lastVoltages,
		VSCurrents:   map[string]float64{},
		Iterations:   maxIter,
		Converged:    false,
	}, nil
}

// retryWithTikhonov adds the standard regularization and solves once more.
func retryWithTikhonov(sys *matrix.System, n int) ([]float64, error) {
	matrix.ApplyTikhonov(sys, n, consts.TikhonovEpsilon)
	return linalg.Solve(sys.A, sys.Z)
}

// collectNodes gathers the non-ground nodes referenced by any bound pin
// across components, in netlist.NodeList's stable "N1", "N2", ... order
// — the same ordering netlist.Build itself assigns, so matrix.Assemble
// sees one consistent node order regardless of which package produced
// the node list.
func collectNodes(components []component.Component) []string {
	var rawNodes []string
	for _, c := range components {
		for _, pin := range c.PinNames() {
			rawNodes = append(rawNodes, c.Node(pin))
		}
	}
	return netlist.NodeList(rawNodes)
}
