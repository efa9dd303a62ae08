package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/arlojacobsen/circuitlab/pkg/component"
	"github.com/arlojacobsen/circuitlab/pkg/solver"
	"github.com/arlojacobsen/circuitlab/pkg/util"
)

// printResult writes a fixed, sorted report of a solved circuit: node
// voltages, voltage-source currents, then the behavioral state of any
// component that has one (LED on/off, LM339 active, logic gate driven
// state). Sections with nothing to report are omitted.
func printResult(w io.Writer, result solver.Result, components []component.Component) {
	fmt.Fprintln(w, "Node Voltages:")
	for _, node := range sortedKeys(result.NodeVoltages) {
		fmt.Fprintf(w, "  %s\n", util.FormatNamedValue(node, result.NodeVoltages[node], "V"))
	}

	if len(result.VSCurrents) > 0 {
		fmt.Fprintln(w, "Voltage-Source Currents:")
		for _, id := range sortedKeys(result.VSCurrents) {
			fmt.Fprintf(w, "  %s\n", util.FormatNamedValue(id, result.VSCurrents[id], "A"))
		}
	}

	if lines := behavioralLines(components); len(lines) > 0 {
		fmt.Fprintln(w, "Behavioral State:")
		for _, line := range lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintf(w, "Iterations: %d  Converged: %v\n", result.Iterations, result.Converged)
}

func behavioralLines(components []component.Component) []string {
	byID := make(map[string]string)
	for _, c := range components {
		switch dev := c.(type) {
		case *component.LED:
			byID[c.ComponentID()] = fmt.Sprintf("%-12s LED  on=%v", c.ComponentID(), dev.On)
		case *component.LM339:
			byID[c.ComponentID()] = fmt.Sprintf("%-12s LM339 active=%v", c.ComponentID(), dev.Active)
		case *component.HC04:
			byID[c.ComponentID()] = fmt.Sprintf("%-12s HC04 driven=%v out_high=%v", c.ComponentID(), dev.Driven, dev.OutHigh)
		case *component.HC08:
			byID[c.ComponentID()] = fmt.Sprintf("%-12s HC08 driven=%v out_high=%v", c.ComponentID(), dev.Driven, dev.OutHigh)
		}
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = byID[id]
	}
	return lines
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
