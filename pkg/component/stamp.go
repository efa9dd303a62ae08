// Package component implements the closed family of device kinds the
// solver understands: Resistor, VoltageSource, Switch, LED, LM339, HC04,
// HC08, and the stamp-less Ground symbol. Every kind exposes the same two-operation contract — Stamps
// and UpdateState — so the MNA assembler and the outer solver loop never
// need to know which concrete kind they are driving.
package component

import "github.com/arlojacobsen/circuitlab/pkg/netlist"

// Stamp is a single MNA contribution. Exactly one of the three kinds is
// populated in any given value; callers switch on Kind.
type StampKind int

const (
	// Conductance adds G between N1 and N2 (either may be ground).
	Conductance StampKind = iota
	// VoltageSourceStamp imposes V(NPlus) - V(NMinus) = V and introduces
	// one extra MNA unknown, keyed by ID.
	VoltageSourceStamp
	// CurrentInjection injects I into node N (positive = into the node).
	CurrentInjection
)

type Stamp struct {
	Kind StampKind

	// Conductance fields.
	N1, N2 string
	G      float64

	// VoltageSourceStamp fields.
	NPlus, NMinus string
	V             float64
	ID            string // key under which the solved branch current is reported

	// CurrentInjection fields.
	N string
	I float64
}

// GStamp builds a Conductance stamp.
func GStamp(n1, n2 string, g float64) Stamp {
	return Stamp{Kind: Conductance, N1: n1, N2: n2, G: g}
}

// VSStamp builds a VoltageSourceStamp.
func VSStamp(nPlus, nMinus string, v float64, id string) Stamp {
	return Stamp{Kind: VoltageSourceStamp, NPlus: nPlus, NMinus: nMinus, V: v, ID: id}
}

// IStamp builds a CurrentInjection stamp.
func IStamp(n string, i float64) Stamp {
	return Stamp{Kind: CurrentInjection, N: n, I: i}
}

// valid reports whether a stamp should reach the assembler: stamps
// referencing an unbound pin ("") or forcing two identical nodes are
// dropped.
func (s Stamp) valid() bool {
	switch s.Kind {
	case Conductance:
		return s.N1 != "" && s.N2 != "" && s.N1 != s.N2
	case VoltageSourceStamp:
		return s.NPlus != "" && s.NMinus != "" && s.NPlus != s.NMinus
	case CurrentInjection:
		return s.N != ""
	default:
		return false
	}
}

// filterValid drops stamps that fail valid(), preserving order.
func filterValid(stamps []Stamp) []Stamp {
	out := make([]Stamp, 0, len(stamps))
	for _, s := range stamps {
		if s.valid() {
			out = append(out, s)
		}
	}
	return out
}

// Component is the contract every device kind implements.
type Component interface {
	ID() string
	ComponentID() string // satisfies netlist.PinSet
	PinNames() []string  // satisfies netlist.PinSet
	Kind() string

	// Node resolves a pin name to its bound node id, or "" if unbound.
	Node(pinName string) string
	// BindNode records that pinName is bound to node (called once per
	// solve, after netlist.Build).
	BindNode(pinName, node string)

	// Stamps computes this component's MNA contributions for its current
	// behavioral state.
	Stamps() []Stamp
	// UpdateState refines behavioral state from a freshly solved voltage
	// vector, keyed by node id ("0" must map to 0).
	UpdateState(voltages map[string]float64)
}

var _ netlist.PinSet = Component(nil)

// base holds the bookkeeping every component kind shares: id and the
// pin-name -> node-id bindings populated by netlist.Build. pinOrder is
// kept separate from nodes (a map) so PinNames stays deterministic.
type base struct {
	id       string
	pinOrder []string
	nodes    map[string]string
}

func newBase(id string, pinNames []string) base {
	nodes := make(map[string]string, len(pinNames))
	order := make([]string, len(pinNames))
	copy(order, pinNames)
	for _, p := range pinNames {
		nodes[p] = ""
	}
	return base{id: id, pinOrder: order, nodes: nodes}
}

func (b *base) ID() string          { return b.id }
func (b *base) ComponentID() string { return b.id }

func (b *base) Node(pinName string) string { return b.nodes[pinName] }

func (b *base) BindNode(pinName, node string) {
	if _, declared := b.nodes[pinName]; !declared {
		return
	}
	b.nodes[pinName] = node
}

func (b *base) PinNames() []string {
	names := make([]string, len(b.pinOrder))
	copy(names, b.pinOrder)
	return names
}
