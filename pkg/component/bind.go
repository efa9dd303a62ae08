package component

import "github.com/arlojacobsen/circuitlab/pkg/netlist"

// Bind applies the pin->node assignments netlist.Build produced to every
// component, so each Component.Node(pinName) call afterwards resolves to
// a real node id (or "0" for ground).
func Bind(components []Component, binding netlist.Binding) {
	for _, c := range components {
		for _, pinName := range c.PinNames() {
			node, ok := binding[netlist.Pin{ComponentID: c.ComponentID(), Name: pinName}]
			if !ok {
				continue
			}
			c.BindNode(pinName, node)
		}
	}
}

// PinSets adapts a []Component to []netlist.PinSet for netlist.Build,
// which must not import component (component already imports netlist).
func PinSets(components []Component) []netlist.PinSet {
	sets := make([]netlist.PinSet, len(components))
	for i, c := range components {
		sets[i] = c
	}
	return sets
}
