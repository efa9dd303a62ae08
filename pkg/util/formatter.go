// Package util holds small formatting helpers for the command-line front
// end's result report: SI-prefix value scaling and the fixed
// "name  value" column layout every report section uses.
package util

import (
	"fmt"
	"math"
)

// FormatNamedValue renders name left-justified in a fixed-width column
// followed by value scaled to an SI prefix (m, u, n, p) matching its
// magnitude and suffixed with unit, falling back to scientific notation
// below 1 pico.
func FormatNamedValue(name string, value float64, unit string) string {
	absValue := math.Abs(value)
	var scaled string
	switch {
	case absValue >= 1:
		scaled = fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		scaled = fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		scaled = fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		scaled = fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		scaled = fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		scaled = fmt.Sprintf("%.3e %s", value, unit)
	}
	return fmt.Sprintf("%-12s %s", name, scaled)
}
