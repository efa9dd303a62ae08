// Package consts collects the fixed numeric thresholds the solver pipeline
// is specified against, so no magic number appears twice with a chance to
// drift apart.
package consts

const (
	// GroundNode is the reserved node id for the ground equivalence class.
	GroundNode = "0"

	// PivotFloor is the minimum admissible pivot magnitude in the dense
	// solver; below it a matrix is declared singular.
	PivotFloor = 1e-15

	// FloatingNodeShunt is the conductance (S) added to a node's diagonal
	// when it has no other coupling, to keep the MNA matrix invertible.
	FloatingNodeShunt = 1e-12

	// TikhonovEpsilon is the regularization added to every non-ground node
	// diagonal (and zero-diagonal VS extension row) on a retry after a
	// singular first solve.
	TikhonovEpsilon = 1e-9

	// DefaultMaxIter and DefaultTol are the outer fixed-point loop's
	// defaults when a caller does not specify them.
	DefaultMaxIter = 100
	DefaultTol     = 1e-3

	// LEDHysteresisMargin is the ±m band (V) around Vf used to decide
	// LED on/off without chattering across an MNA iteration boundary.
	LEDHysteresisMargin = 0.1

	// ComparatorMargin is the deadband (V) around equality used before an
	// LM339 declares itself active.
	ComparatorMargin = 1e-3

	// LogicLowFraction and LogicHighFraction are the VIL/VIH thresholds
	// expressed as a fraction of a logic gate's own VCC pin voltage.
	LogicLowFraction  = 0.3
	LogicHighFraction = 0.7
)
