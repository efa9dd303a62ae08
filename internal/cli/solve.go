package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arlojacobsen/circuitlab/pkg/component"
	"github.com/arlojacobsen/circuitlab/pkg/netlist"
	"github.com/arlojacobsen/circuitlab/pkg/persist"
	"github.com/arlojacobsen/circuitlab/pkg/solver"
)

func (c *CLI) solveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "solve <netlist.json>",
		Short: "Decode a persisted netlist and run the DC solver",
		Long: `solve decodes a netlist in the persisted JSON circuit format, builds the
node topology, runs the fixed-point DC solver to convergence (or exhaustion
of the iteration budget), and prints node voltages, voltage-source currents,
and behavioral device state to stdout in a fixed, sorted column layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML file overriding max_iter/tol")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, path, configPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read netlist: %w", err)
	}

	circuit, err := persist.Decode(data)
	if err != nil {
		return fmt.Errorf("decode netlist: %w", err)
	}

	cfg := defaultSolverConfig()
	if configPath != "" {
		if err := loadSolverConfig(configPath, &cfg); err != nil {
			return err
		}
	}

	binding, nodeCount, err := netlist.Build(component.PinSets(circuit.Components), circuit.Wires)
	if err != nil {
		return fmt.Errorf("build netlist: %w", err)
	}
	component.Bind(circuit.Components, binding)

	c.Logger.Debugf(
		"solving: components=%d nodes=%d max_iter=%d tol=%g",
		len(circuit.Components), nodeCount, cfg.MaxIter, cfg.Tol,
	)

	result, err := solver.Solve(circuit.Components, cfg.MaxIter, cfg.Tol, c.traceSolve)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	c.Logger.Debugf("finished after %d iterations, converged=%v", result.Iterations, result.Converged)

	printResult(os.Stdout, result, circuit.Components)

	if !result.Converged {
		c.Logger.Warnf("solver did not converge within max_iter=%d", cfg.MaxIter)
	}

	return nil
}

// traceSolve is the --verbose hook into solver.Solve: it logs each outer
// iteration's maxDiff, and calls out floating-node regularization or a
// Tikhonov fallback by name when either fires on that iteration.
func (c *CLI) traceSolve(t solver.Trace) {
	c.Logger.Debugf("iteration %d: maxDiff=%g", t.Iteration, t.MaxDiff)
	if len(t.FloatingNodes) > 0 {
		c.Logger.Debugf("iteration %d: floating-node regularization on %v", t.Iteration, t.FloatingNodes)
	}
	if t.TikhonovApplied {
		c.Logger.Debugf("iteration %d: Tikhonov fallback applied after a singular first solve", t.Iteration)
	}
}
