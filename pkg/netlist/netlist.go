// Package netlist fuses pin identities into electrical nodes. It owns the
// disjoint-set union over component pins, the ground-aggregation rule, and
// the deterministic node-id assignment that the rest of the pipeline
// depends on for reproducible results.
package netlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arlojacobsen/circuitlab/internal/consts"
)

// Pin identifies one terminal of one component. It carries no electrical
// state of its own; Build binds it to a Node string.
type Pin struct {
	ComponentID string
	Name        string
}

func (p Pin) key() string { return p.ComponentID + ":" + p.Name }

func (p Pin) String() string { return p.ComponentID + ":" + p.Name }

// isGround reports whether a pin name denotes the ground net, matched
// case-insensitively.
func isGround(pinName string) bool {
	return strings.EqualFold(pinName, "GND")
}

// Wire is an undirected connection between two pins.
type Wire [2]Pin

// PinSet is anything that can report the pins it exposes, so Build can
// discover every pin a component declares without depending on the
// component package directly (avoiding an import cycle: component needs
// the node ids netlist assigns).
type PinSet interface {
	ComponentID() string
	PinNames() []string
}

// MalformedNetlist is returned when a wire names a pin that no component
// in the supplied set declares.
type MalformedNetlist struct {
	Pin Pin
}

func (e *MalformedNetlist) Error() string {
	return fmt.Sprintf("netlist: wire references undeclared pin %s", e.Pin)
}

// Binding is the result of Build: every declared pin mapped to its
// resolved node id.
type Binding map[Pin]string

// disjointSet is a classic union-find over pin keys with path compression
// and union by rank.
type disjointSet struct {
	parent map[string]string
	rank   map[string]int
	order  []string // first-encounter order, for deterministic iteration
}

func newDisjointSet() *disjointSet {
	return &disjointSet{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

func (d *disjointSet) add(key string) {
	if _, ok := d.parent[key]; ok {
		return
	}
	d.parent[key] = key
	d.rank[key] = 0
	d.order = append(d.order, key)
}

func (d *disjointSet) find(key string) string {
	root := key
	for d.parent[root] != root {
		root = d.parent[root]
	}
	// Path compression.
	for d.parent[key] != root {
		next := d.parent[key]
		d.parent[key] = root
		key = next
	}
	return root
}

func (d *disjointSet) union(a, b string) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.rank[ra] < d.rank[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	if d.rank[ra] == d.rank[rb] {
		d.rank[ra]++
	}
}

// Build unions every wired pin pair, auto-unions every pin named GND
// (case-insensitive), assigns the ground class id "0" when one exists, and
// assigns "N1", "N2", ... to the remaining classes in first-encounter
// order. It returns the pin→node bindings and the number of non-ground
// nodes.
func Build(components []PinSet, wires []Wire) (Binding, int, error) {
	ds := newDisjointSet()
	declared := make(map[string]Pin)

	for _, c := range components {
		for _, name := range c.PinNames() {
			p := Pin{ComponentID: c.ComponentID(), Name: name}
			ds.add(p.key())
			declared[p.key()] = p
		}
	}

	for _, w := range wires {
		for _, p := range w {
			if _, ok := declared[p.key()]; !ok {
				return nil, 0, &MalformedNetlist{Pin: p}
			}
		}
		ds.union(w[0].key(), w[1].key())
	}

	// Auto-union every GND-named pin, in declaration order for determinism.
	var groundKeys []string
	for _, key := range ds.order {
		if isGround(declared[key].Name) {
			groundKeys = append(groundKeys, key)
		}
	}
	for i := 1; i < len(groundKeys); i++ {
		ds.union(groundKeys[0], groundKeys[i])
	}

	var groundRoot string
	hasGround := len(groundKeys) > 0
	if hasGround {
		groundRoot = ds.find(groundKeys[0])
	}

	nodeID := make(map[string]string) // root -> assigned id
	if hasGround {
		nodeID[groundRoot] = consts.GroundNode
	}

	nextIdx := 1
	for _, key := range ds.order {
		root := ds.find(key)
		if _, ok := nodeID[root]; ok {
			continue
		}
		nodeID[root] = fmt.Sprintf("N%d", nextIdx)
		nextIdx++
	}

	binding := make(Binding, len(declared))
	for key, pin := range declared {
		binding[pin] = nodeID[ds.find(key)]
	}

	numNonGroundNodes := nextIdx - 1
	return binding, numNonGroundNodes, nil
}

// NodeList deduplicates rawNodes (the node ids bound to some set of pins,
// in any order, possibly with repeats, blanks for unbound pins, or the
// ground id mixed in) down to the distinct non-ground node ids, in a
// stable, deterministic order (numeric by node id suffix), which matches
// the "N1", "N2", ... numbering Build assigns.
func NodeList(rawNodes []string) []string {
	seen := make(map[string]bool)
	var nodes []string
	for _, node := range rawNodes {
		if node == "" || node == consts.GroundNode || seen[node] {
			continue
		}
		seen[node] = true
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return NodeOrdinal(nodes[i]) < NodeOrdinal(nodes[j])
	})
	return nodes
}

// NodeOrdinal extracts the numeric suffix of an "N<n>" node id, for
// callers that need the same sort order NodeList uses internally. An id
// not of that form yields 0.
func NodeOrdinal(node string) int {
	n := 0
	fmt.Sscanf(node, "N%d", &n)
	return n
}
