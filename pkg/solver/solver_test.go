package solver

import (
	"math"
	"testing"

	"github.com/arlojacobsen/circuitlab/pkg/component"
	"github.com/arlojacobsen/circuitlab/pkg/netlist"
)

func pin(id, name string) netlist.Pin { return netlist.Pin{ComponentID: id, Name: name} }

func wire(id1, pin1, id2, pin2 string) netlist.Wire {
	return netlist.Wire{pin(id1, pin1), pin(id2, pin2)}
}

// buildAndSolve wires components (plus any bare ground tags) together,
// binds nodes, and runs the DC solver with the package defaults.
func buildAndSolve(t *testing.T, comps []component.Component, wires []netlist.Wire, grounds ...string) Result {
	t.Helper()
	all := append([]component.Component{}, comps...)
	for _, g := range grounds {
		all = append(all, component.NewGround(g))
	}
	pinSets := component.PinSets(all)

	binding, _, err := netlist.Build(pinSets, wires)
	if err != nil {
		t.Fatalf("netlist.Build: %v", err)
	}
	component.Bind(all, binding)

	result, err := Solve(comps, 0, 0)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return result
}

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}

// Scenario 1: voltage divider. V1=10V (PLUS->Vcc, MINUS->GND),
// R1=3000 Vcc->Vout, R2=2000 Vout->GND.
func TestVoltageDividerScenario(t *testing.T) {
	v1 := component.NewVoltageSource("V1", 10)
	r1 := component.NewResistor("R1", 3000)
	r2 := component.NewResistor("R2", 2000)

	comps := []component.Component{v1, r1, r2}
	wires := []netlist.Wire{
		wire("V1", "PLUS", "R1", "A"),
		wire("R1", "B", "R2", "A"),
		wire("V1", "MINUS", "GND0", "GND"),
		wire("R2", "B", "GND0", "GND"),
	}

	result := buildAndSolve(t, comps, wires, "GND0")
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}

	vout := r1.Node("B")
	approx(t, "V(Vout)", result.NodeVoltages[vout], 4.0, 1e-3)
	approx(t, "I(V1)", result.VSCurrents["V1"], -2.0e-3, 1e-6)
}

// Scenario 2: LED with series resistor. V1=5V, R=330 in series with an
// LED (Vf=2.0, Rs=20).
func TestLEDScenario(t *testing.T) {
	v1 := component.NewVoltageSource("V1", 5)
	r1 := component.NewResistor("R1", 330)
	led := component.NewLED("D1", 2.0, 20)

	comps := []component.Component{v1, r1, led}
	wires := []netlist.Wire{
		wire("V1", "PLUS", "R1", "A"),
		wire("R1", "B", "D1", "AN"),
		wire("V1", "MINUS", "GND0", "GND"),
		wire("D1", "K", "GND0", "GND"),
	}

	result := buildAndSolve(t, comps, wires, "GND0")
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	if !led.On {
		t.Fatalf("expected LED on, state: %+v", led)
	}

	an, k := led.Node("AN"), led.Node("K")
	vd := result.NodeVoltages[an] - result.NodeVoltages[k]
	approx(t, "Vd", vd, led.Vf, 1e-3)

	// The LED's ideal Vf branch clamps AN-K exactly, so the reported V1
	// current reflects only the series resistor's drop: (5-2)/330.
	approx(t, "I(V1)", result.VSCurrents["V1"], -(5.0-2.0)/330.0, 1e-6)
}

// Scenario 3/4: LM339 open-collector with a pull-up, both polarities.
func lm339Circuit(t *testing.T, vPlus, vMinus float64) (Result, *component.LM339) {
	t.Helper()
	vcc := component.NewVoltageSource("VCC", 5)
	vip := component.NewVoltageSource("VIP", vPlus)
	vim := component.NewVoltageSource("VIM", vMinus)
	pullup := component.NewResistor("RPU", 10000)
	cmp := component.NewLM339("U1")

	comps := []component.Component{vcc, vip, vim, pullup, cmp}
	wires := []netlist.Wire{
		wire("VCC", "PLUS", "RPU", "A"),
		wire("RPU", "B", "U1", "OUT"),
		wire("VIP", "PLUS", "U1", "INPLUS"),
		wire("VIM", "PLUS", "U1", "INMINUS"),
		wire("VCC", "PLUS", "U1", "VCC"),
		wire("VCC", "MINUS", "U1", "GND"),
		wire("VIP", "MINUS", "U1", "GND"),
		wire("VIM", "MINUS", "U1", "GND"),
	}

	result := buildAndSolve(t, comps, wires)
	return result, cmp
}

func TestLM339Inactive(t *testing.T) {
	result, cmp := lm339Circuit(t, 2, 3)
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	if cmp.Active {
		t.Errorf("expected inactive when IN+ < IN-")
	}
	approx(t, "V(OUT)", result.NodeVoltages[cmp.Node("OUT")], 5.0, 1e-3)
}

func TestLM339Active(t *testing.T) {
	result, cmp := lm339Circuit(t, 3, 2)
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	if !cmp.Active {
		t.Errorf("expected active when IN+ > IN-")
	}
	approx(t, "V(OUT)", result.NodeVoltages[cmp.Node("OUT")], 0.0, 1e-3)
}

// Scenario 5: HC04 inverter at rails, then with IN flipped to GND.
func hc04Circuit(t *testing.T, inHigh bool) (Result, *component.HC04) {
	t.Helper()
	vcc := component.NewVoltageSource("VCC", 5)
	gate := component.NewHC04("U1", 5.0)

	comps := []component.Component{vcc, gate}
	wires := []netlist.Wire{
		wire("VCC", "PLUS", "U1", "VCC"),
		wire("VCC", "MINUS", "U1", "GND"),
	}
	if inHigh {
		wires = append(wires, wire("VCC", "PLUS", "U1", "IN"))
	} else {
		wires = append(wires, wire("VCC", "MINUS", "U1", "IN"))
	}

	result := buildAndSolve(t, comps, wires)
	return result, gate
}

func TestHC04AtRails(t *testing.T) {
	result, gate := hc04Circuit(t, true)
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	if gate.OutHigh {
		t.Errorf("expected OutHigh=false with IN tied to VCC")
	}
	approx(t, "V(OUT)", result.NodeVoltages[gate.Node("OUT")], 0.0, 1e-3)
}

func TestHC04Flipped(t *testing.T) {
	result, gate := hc04Circuit(t, false)
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	if !gate.OutHigh {
		t.Errorf("expected OutHigh=true with IN tied to GND")
	}
	approx(t, "V(OUT)", result.NodeVoltages[gate.Node("OUT")], 5.0, 1e-3)
}

// Scenario 6: two subcircuits, each with its own GND pin, that never
// wire to each other otherwise. The GND pins still union into the single
// global ground, but that shared 0V reference carries no information
// between the subgraphs.
func TestIndependentSubgraphs(t *testing.T) {
	vA := component.NewVoltageSource("VA", 9)
	rA := component.NewResistor("RA", 1000)
	vB := component.NewVoltageSource("VB", 3)
	rB := component.NewResistor("RB", 500)

	comps := []component.Component{vA, rA, vB, rB}
	wires := []netlist.Wire{
		wire("VA", "PLUS", "RA", "A"),
		wire("VA", "MINUS", "GNDA", "GND"),
		wire("RA", "B", "GNDA", "GND"),
		wire("VB", "PLUS", "RB", "A"),
		wire("VB", "MINUS", "GNDB", "GND"),
		wire("RB", "B", "GNDB", "GND"),
	}

	resultFirst := buildAndSolve(t, comps, wires, "GNDA", "GNDB")
	voltageABefore := resultFirst.NodeVoltages[vA.Node("PLUS")]

	vB2 := component.NewVoltageSource("VB", 30) // changed parameter in B
	rB2 := component.NewResistor("RB", 500)
	comps2 := []component.Component{vA, rA, vB2, rB2}
	resultSecond := buildAndSolve(t, comps2, wires, "GNDA", "GNDB")

	approx(t, "V(Vcc_A) unaffected by subgraph B change", resultSecond.NodeVoltages[vA.Node("PLUS")], voltageABefore, 1e-9)
}

// Open switch leaves two nodes electrically independent; closed switch
// forces them equal.
func TestSwitchOpenVsClosed(t *testing.T) {
	v1 := component.NewVoltageSource("V1", 5)
	r1 := component.NewResistor("R1", 1000)
	sw := component.NewSwitch("SW1", false)
	r2 := component.NewResistor("R2", 1000)

	comps := []component.Component{v1, r1, sw, r2}
	wires := []netlist.Wire{
		wire("V1", "PLUS", "R1", "A"),
		wire("R1", "B", "SW1", "A"),
		wire("SW1", "B", "R2", "A"),
		wire("V1", "MINUS", "GND0", "GND"),
		wire("R2", "B", "GND0", "GND"),
	}

	openResult := buildAndSolve(t, comps, wires, "GND0")
	if !openResult.Converged {
		t.Fatalf("open-switch circuit did not converge: %+v", openResult)
	}
	nodeA, nodeB := sw.Node("A"), sw.Node("B")
	// With the switch open, node A sits at V1's rail (no current path
	// through R1 since nothing else draws current) and node B is pulled
	// to exactly 0 by R2's own conductance to ground -- it is grounded
	// through a resistor, not floating, so no regularization shunt is
	// involved.
	approx(t, "V(A) with switch open", openResult.NodeVoltages[nodeA], 5.0, 1e-3)
	approx(t, "V(B) with switch open", openResult.NodeVoltages[nodeB], 0.0, 1e-3)

	sw.Closed = true
	closedResult := buildAndSolve(t, comps, wires, "GND0")
	if !closedResult.Converged {
		t.Fatalf("closed-switch circuit did not converge: %+v", closedResult)
	}
	approx(t, "V(A)-V(B) with switch closed", closedResult.NodeVoltages[nodeA]-closedResult.NodeVoltages[nodeB], 0.0, 1e-3)
}

// Boundary: no GND pin anywhere and no voltage source leaves every node
// at 0V.
func TestNoGroundNoSourceAllZero(t *testing.T) {
	r1 := component.NewResistor("R1", 100)
	comps := []component.Component{r1}

	result := buildAndSolve(t, comps, nil)
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	for node, v := range result.NodeVoltages {
		approx(t, "V("+node+")", v, 0.0, 1e-9)
	}
}

// Solve's optional trace callback fires once per outer iteration, in
// order, and reports a clean iteration (no floating nodes, no Tikhonov
// fallback) for an ordinary well-posed resistive circuit.
func TestSolveTraceCallback(t *testing.T) {
	v1 := component.NewVoltageSource("V1", 10)
	r1 := component.NewResistor("R1", 3000)
	r2 := component.NewResistor("R2", 2000)

	comps := []component.Component{v1, r1, r2}
	wires := []netlist.Wire{
		wire("V1", "PLUS", "R1", "A"),
		wire("R1", "B", "R2", "A"),
		wire("V1", "MINUS", "GND0", "GND"),
		wire("R2", "B", "GND0", "GND"),
	}
	ground := component.NewGround("GND0")
	pinSets := component.PinSets(append([]component.Component{}, comps...))
	pinSets = append(pinSets, ground)
	binding, _, err := netlist.Build(pinSets, wires)
	if err != nil {
		t.Fatalf("netlist.Build: %v", err)
	}
	component.Bind(comps, binding)
	component.Bind([]component.Component{ground}, binding)

	var traces []Trace
	result, err := Solve(comps, 0, 0, func(tr Trace) {
		traces = append(traces, tr)
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !result.Converged {
		t.Fatalf("did not converge: %+v", result)
	}
	if len(traces) != result.Iterations {
		t.Fatalf("got %d traces, want one per iteration (%d)", len(traces), result.Iterations)
	}
	last := traces[len(traces)-1]
	if last.Iteration != result.Iterations {
		t.Errorf("last trace iteration = %d, want %d", last.Iteration, result.Iterations)
	}
	if len(last.FloatingNodes) != 0 {
		t.Errorf("expected no floating nodes on a fully-coupled divider, got %v", last.FloatingNodes)
	}
	if last.TikhonovApplied {
		t.Errorf("expected no Tikhonov fallback on a well-posed divider")
	}
}

// Boundary: a single resistor between two otherwise-floating pins
// (no wires, no ground) regularizes to near-zero voltages instead of
// failing outright.
func TestFloatingResistorRegularizes(t *testing.T) {
	r1 := component.NewResistor("R1", 500)
	comps := []component.Component{r1}

	result := buildAndSolve(t, comps, nil)
	if !result.Converged {
		t.Fatalf("expected regularization to avoid Unsolvable, got: %+v", result)
	}
	for node, v := range result.NodeVoltages {
		approx(t, "V("+node+")", v, 0.0, 1e-6)
	}
}
