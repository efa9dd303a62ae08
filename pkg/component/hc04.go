package component

// HC04 is one inverter section of a 74HC04. VccNominal is carried for
// persistence fidelity only; the thresholds in UpdateState scale against
// the VCC pin's actual solved voltage, not this nominal value.
type HC04 struct {
	base
	VccNominal float64
	Driven     bool
	OutHigh    bool
}

func NewHC04(id string, vccNominal float64) *HC04 {
	return &HC04{base: newBase(id, []string{"VCC", "GND", "IN", "OUT"}), VccNominal: vccNominal}
}

func (g *HC04) Kind() string { return "HC04" }

func (g *HC04) Stamps() []Stamp {
	if !g.Driven {
		return nil
	}
	out, vcc, gnd := g.Node("OUT"), g.Node("VCC"), g.Node("GND")
	return filterValid([]Stamp{gateOutputStamp(out, vcc, gnd, g.id+"_vs", g.OutHigh)})
}

func (g *HC04) UpdateState(voltages map[string]float64) {
	vcc := voltages[g.Node("VCC")]
	in := classify(voltages, g.Node("IN"), vcc)

	switch in {
	case levelHigh:
		g.OutHigh = false
		g.Driven = true
	case levelLow:
		g.OutHigh = true
		g.Driven = true
	case levelIndeterminate:
		if g.Driven {
			// Retain previous OutHigh; driven stays true once set.
			return
		}
		// Never driven yet: stay undriven.
	}
}
