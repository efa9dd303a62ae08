package component

// Resistor stamps a single conductance between its two pins. It has no
// behavioral state: UpdateState is a no-op.
type Resistor struct {
	base
	R float64 // ohms, > 0
}

func NewResistor(id string, r float64) *Resistor {
	return &Resistor{base: newBase(id, []string{"A", "B"}), R: r}
}

func (r *Resistor) Kind() string { return "Resistor" }

func (r *Resistor) Stamps() []Stamp {
	a, b := r.Node("A"), r.Node("B")
	return filterValid([]Stamp{GStamp(a, b, 1.0/r.R)})
}

func (r *Resistor) UpdateState(voltages map[string]float64) {}
