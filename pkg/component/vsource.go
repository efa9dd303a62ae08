package component

// VoltageSource is an ideal DC source, optionally current-limited. A
// current-limited source also stamps an internal conductance Imax/V in
// parallel with the ideal branch — a linearized approximation of a
// current limit, not a true clamp (see design notes).
type VoltageSource struct {
	base
	V    float64
	Imax float64 // 0 means unlimited
}

func NewVoltageSource(id string, v float64) *VoltageSource {
	return &VoltageSource{base: newBase(id, []string{"PLUS", "MINUS"}), V: v}
}

func NewCurrentLimitedVoltageSource(id string, v, imax float64) *VoltageSource {
	return &VoltageSource{base: newBase(id, []string{"PLUS", "MINUS"}), V: v, Imax: imax}
}

func (v *VoltageSource) Kind() string { return "VoltageSource" }

func (v *VoltageSource) Stamps() []Stamp {
	plus, minus := v.Node("PLUS"), v.Node("MINUS")
	stamps := []Stamp{VSStamp(plus, minus, v.V, v.id)}
	if v.Imax > 0 && v.V != 0 {
		stamps = append(stamps, GStamp(plus, minus, v.Imax/v.V))
	}
	return filterValid(stamps)
}

func (v *VoltageSource) UpdateState(voltages map[string]float64) {}
