// Package persist implements the thin JSON adapter between the external
// editor's on-disk circuit format and the closed component-kind set the
// solver understands. It owns only the wire-format mapping, never
// simulation semantics.
package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arlojacobsen/circuitlab/pkg/component"
	"github.com/arlojacobsen/circuitlab/pkg/netlist"
)

// UnknownComponentKind is returned when a document names a type tag
// outside the closed component-kind set. The solver never sees it.
type UnknownComponentKind struct {
	Type string
	ID   string
}

func (e *UnknownComponentKind) Error() string {
	return fmt.Sprintf("persist: unknown component kind %q (id %q)", e.Type, e.ID)
}

const schemaVersion = "1.0"

// Canonical type tags. GENERATEUR is the current spelling; V_SOURCE is
// accepted on decode as a legacy synonym but never written back out.
const (
	tagResistor   = "Resistor"
	tagVoltage    = "GENERATEUR"
	tagVoltageOld = "V_SOURCE"
	tagSwitch     = "Switch"
	tagLED        = "LED"
	tagLM339      = "LM339"
	tagHC04       = "HC04"
	tagHC08       = "HC08"
	tagGround     = "Ground"
)

// Position is carried through opaquely: decoded and re-encoded as-is,
// never read or interpreted by the solver.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawComponent struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Position   *Position              `json:"position,omitempty"`
}

type document struct {
	Version    string         `json:"version"`
	Components []rawComponent `json:"components"`
	Wires      [][2]string    `json:"wires"`
}

// Circuit is a decoded document: the live components and wires ready for
// netlist.Build, plus the opaque per-component metadata (its original
// type tag and optional position) needed to round-trip Encode.
type Circuit struct {
	Components []component.Component
	Wires      []netlist.Wire

	tags      map[string]string
	positions map[string]*Position
}

// Decode parses the persisted JSON circuit format into a Circuit.
// Unknown type tags fail with *UnknownComponentKind; malformed pin ids
// fail with an error naming the offending pin id. Neither ever reaches
// the solver.
func Decode(data []byte) (*Circuit, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persist: decode: %w", err)
	}

	circuit := &Circuit{
		tags:      make(map[string]string, len(doc.Components)),
		positions: make(map[string]*Position, len(doc.Components)),
	}

	for _, rc := range doc.Components {
		c, err := buildComponent(rc)
		if err != nil {
			return nil, err
		}
		circuit.Components = append(circuit.Components, c)
		circuit.tags[rc.ID] = canonicalTag(rc.Type)
		if rc.Position != nil {
			circuit.positions[rc.ID] = rc.Position
		}
	}

	for _, w := range doc.Wires {
		p1, err := splitPinID(w[0])
		if err != nil {
			return nil, err
		}
		p2, err := splitPinID(w[1])
		if err != nil {
			return nil, err
		}
		circuit.Wires = append(circuit.Wires, netlist.Wire{p1, p2})
	}

	return circuit, nil
}

// Encode serializes a Circuit back to the persisted JSON format. It never
// invents a position field and always writes version "1.0".
func Encode(circuit *Circuit) ([]byte, error) {
	doc := document{Version: schemaVersion}

	for _, c := range circuit.Components {
		rc, err := rawFromComponent(c)
		if err != nil {
			return nil, err
		}
		if tag, ok := circuit.tags[c.ComponentID()]; ok {
			rc.Type = tag
		}
		if pos, ok := circuit.positions[c.ComponentID()]; ok {
			rc.Position = pos
		}
		doc.Components = append(doc.Components, rc)
	}

	for _, w := range circuit.Wires {
		doc.Wires = append(doc.Wires, [2]string{joinPinID(w[0]), joinPinID(w[1])})
	}

	return json.MarshalIndent(doc, "", "  ")
}

func canonicalTag(tag string) string {
	if strings.EqualFold(tag, tagVoltageOld) {
		return tagVoltage
	}
	return tag
}

func splitPinID(pinID string) (netlist.Pin, error) {
	idx := strings.LastIndex(pinID, ":")
	if idx < 0 {
		return netlist.Pin{}, fmt.Errorf("persist: malformed pin id %q: missing ':'", pinID)
	}
	return netlist.Pin{ComponentID: pinID[:idx], Name: pinID[idx+1:]}, nil
}

func joinPinID(p netlist.Pin) string {
	return p.ComponentID + ":" + p.Name
}

func floatProp(props map[string]interface{}, key string, fallback float64) float64 {
	v, ok := props[key]
	if !ok {
		return fallback
	}
	f, ok := v.(float64)
	if !ok {
		return fallback
	}
	return f
}

func boolProp(props map[string]interface{}, key string) bool {
	v, ok := props[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func buildComponent(rc rawComponent) (component.Component, error) {
	switch canonicalTag(rc.Type) {
	case tagResistor:
		return component.NewResistor(rc.ID, floatProp(rc.Properties, "R", 0)), nil
	case tagVoltage:
		v := floatProp(rc.Properties, "V", 0)
		imax := floatProp(rc.Properties, "Imax", 0)
		if imax > 0 {
			return component.NewCurrentLimitedVoltageSource(rc.ID, v, imax), nil
		}
		return component.NewVoltageSource(rc.ID, v), nil
	case tagSwitch:
		return component.NewSwitch(rc.ID, boolProp(rc.Properties, "closed")), nil
	case tagLED:
		return component.NewLED(rc.ID, floatProp(rc.Properties, "Vf", 0), floatProp(rc.Properties, "Rs", 0)), nil
	case tagLM339:
		return component.NewLM339(rc.ID), nil
	case tagHC04:
		return component.NewHC04(rc.ID, floatProp(rc.Properties, "Vcc", 5)), nil
	case tagHC08:
		return component.NewHC08(rc.ID, floatProp(rc.Properties, "Vcc", 5)), nil
	case tagGround:
		return component.NewGround(rc.ID), nil
	default:
		return nil, &UnknownComponentKind{Type: rc.Type, ID: rc.ID}
	}
}

func rawFromComponent(c component.Component) (rawComponent, error) {
	rc := rawComponent{ID: c.ComponentID(), Properties: map[string]interface{}{}}

	switch v := c.(type) {
	case *component.Resistor:
		rc.Type = tagResistor
		rc.Properties["R"] = v.R
	case *component.VoltageSource:
		rc.Type = tagVoltage
		rc.Properties["V"] = v.V
		if v.Imax > 0 {
			rc.Properties["Imax"] = v.Imax
		}
	case *component.Switch:
		rc.Type = tagSwitch
		rc.Properties["closed"] = v.Closed
	case *component.LED:
		rc.Type = tagLED
		rc.Properties["Vf"] = v.Vf
		rc.Properties["Rs"] = v.Rs
	case *component.LM339:
		rc.Type = tagLM339
	case *component.HC04:
		rc.Type = tagHC04
		rc.Properties["Vcc"] = v.VccNominal
	case *component.HC08:
		rc.Type = tagHC08
		rc.Properties["Vcc"] = v.VccNominal
	case *component.Ground:
		rc.Type = tagGround
	default:
		return rawComponent{}, fmt.Errorf("persist: encode: unhandled component kind %T", c)
	}

	return rc, nil
}
