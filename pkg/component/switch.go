package component

// Switch is an ideal, user-controlled contact. Closed is a solver input;
// UpdateState never touches it. A closed switch stamps as a zero-volt
// source rather than a low resistance, since R=0 is singular.
type Switch struct {
	base
	Closed bool
}

func NewSwitch(id string, closed bool) *Switch {
	return &Switch{base: newBase(id, []string{"A", "B"}), Closed: closed}
}

func (s *Switch) Kind() string { return "Switch" }

func (s *Switch) Stamps() []Stamp {
	if !s.Closed {
		return nil
	}
	a, b := s.Node("A"), s.Node("B")
	return filterValid([]Stamp{VSStamp(a, b, 0, s.id)})
}

func (s *Switch) UpdateState(voltages map[string]float64) {}
