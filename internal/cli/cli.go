// Package cli implements the circuitlab command-line front end: a thin
// Cobra wrapper around the persistence adapter and the DC solver. It owns
// no simulation semantics of its own.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Log levels exported for main.go.
const (
	LogInfo  = log.InfoLevel
	LogDebug = log.DebugLevel
)

// CLI holds state shared by every command: currently just the logger,
// since solve is the only subcommand and it owns no other session state.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI with a logger writing to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level in place.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "circuitlab",
		Short:        "circuitlab solves the DC steady state of small analog/mixed-signal netlists",
		Long:         `circuitlab loads a persisted circuit, runs the modified-nodal-analysis fixed-point solver, and reports node voltages, voltage-source currents, and behavioral device state.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.solveCommand())

	return root
}
