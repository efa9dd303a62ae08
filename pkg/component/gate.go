package component

import "github.com/arlojacobsen/circuitlab/internal/consts"

// logicLevel is the tri-state read of a digital input relative to the
// gate's own VCC pin voltage.
type logicLevel int

const (
	levelIndeterminate logicLevel = iota
	levelLow
	levelHigh
)

// classify reads voltages[node] against VIL/VIH = 0.3/0.7 * vcc.
func classify(voltages map[string]float64, node string, vcc float64) logicLevel {
	v, ok := voltages[node]
	if !ok || node == "" {
		return levelIndeterminate
	}
	switch {
	case v <= consts.LogicLowFraction*vcc:
		return levelLow
	case v >= consts.LogicHighFraction*vcc:
		return levelHigh
	default:
		return levelIndeterminate
	}
}

// gateOutputStamp clamps OUT to VCC when outHigh, or to GND otherwise,
// through a zero-volt source — the same ideal-short idiom used for
// switches and comparator pulls.
func gateOutputStamp(out, vcc, gnd, id string, outHigh bool) Stamp {
	if outHigh {
		return VSStamp(out, vcc, 0, id)
	}
	return VSStamp(out, gnd, 0, id)
}
