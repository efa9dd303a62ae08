package component

import "github.com/arlojacobsen/circuitlab/internal/consts"

// LED is a piecewise-linear diode with hysteretic on/off state. While on
// it stamps the usual forward-voltage-source-plus-series-resistance
// branch; while off it contributes nothing (open circuit).
type LED struct {
	base
	Vf float64 // forward voltage, > 0
	Rs float64 // series resistance, > 0
	On bool
}

func NewLED(id string, vf, rs float64) *LED {
	return &LED{base: newBase(id, []string{"AN", "K"}), Vf: vf, Rs: rs}
}

func (l *LED) Kind() string { return "LED" }

func (l *LED) Stamps() []Stamp {
	if !l.On {
		return nil
	}
	an, k := l.Node("AN"), l.Node("K")
	return filterValid([]Stamp{
		VSStamp(an, k, l.Vf, l.id+"_Vf"),
		GStamp(an, k, 1.0/l.Rs),
	})
}

func (l *LED) UpdateState(voltages map[string]float64) {
	an, k := l.Node("AN"), l.Node("K")
	if an == "" || k == "" {
		l.On = false
		return
	}
	vAN, okAN := voltages[an]
	vK, okK := voltages[k]
	if !okAN || !okK {
		l.On = false
		return
	}

	vd := vAN - vK
	m := consts.LEDHysteresisMargin
	if l.On {
		l.On = vd >= l.Vf-m
	} else {
		l.On = vd >= l.Vf+m
	}
}
