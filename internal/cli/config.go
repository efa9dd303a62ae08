package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/arlojacobsen/circuitlab/internal/consts"
)

// solverConfig mirrors the solver's own defaults so a missing --config
// flag behaves identically to calling solver.Solve with maxIter=0, tol=0.
type solverConfig struct {
	MaxIter int
	Tol     float64
}

func defaultSolverConfig() solverConfig {
	return solverConfig{MaxIter: consts.DefaultMaxIter, Tol: consts.DefaultTol}
}

// tomlOverride is the on-disk shape of --config: either key may be
// omitted, in which case the corresponding default is kept.
type tomlOverride struct {
	MaxIter int     `toml:"max_iter"`
	Tol     float64 `toml:"tol"`
}

// loadSolverConfig reads path and applies any max_iter/tol overrides on
// top of cfg.
func loadSolverConfig(path string, cfg *solverConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var override tomlOverride
	if err := toml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if override.MaxIter > 0 {
		cfg.MaxIter = override.MaxIter
	}
	if override.Tol > 0 {
		cfg.Tol = override.Tol
	}
	return nil
}
