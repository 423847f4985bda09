// Command analyze prints quick, human-readable heuristics about fleet
// configuration files in the project's configs directory: fleet area against
// grid area, how many placements the first ship has on an empty grid, and how
// often generation succeeds over a number of seeded runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
)

// Analysis holds the numbers printed for one config
type Analysis struct {
	Name       string
	Grid       engine.Size
	Ships      int
	FleetCells int
	FirstShip  string
	Placements int
	Runs       int
	Successes  int
}

// Density is the share of the grid covered by ships, in percent
func (a *Analysis) Density() float64 {
	return engine.Accuracy(a.FleetCells, a.Grid.Area())
}

// SuccessRate is the share of generation runs that produced a layout, in percent
func (a *Analysis) SuccessRate() float64 {
	return engine.Accuracy(a.Successes, a.Runs)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Print layout heuristics for fleet configs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "configs",
				Usage: "Directory containing fleet configurations",
			},
			&cli.IntFlag{
				Name:  "runs",
				Value: 100,
				Usage: "Generation attempts per config",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := filepath.Glob(filepath.Join(cmd.String("dir"), "*.json"))
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintf(cmd.Root().Writer, "\n=== Analyzing %s ===\n", filepath.Base(file))
				if _, err := analyzeConfig(cmd.Root().Writer, file, int(cmd.Int("runs"))); err != nil {
					fmt.Fprintf(cmd.Root().Writer, "Error: %v\n", err)
				}
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyzeConfig(w io.Writer, path string, runs int) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var config engine.FleetConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := engine.ValidateFleetConfig(&config); err != nil {
		return nil, err
	}

	a := analyze(&config, runs)

	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid: %d x %d (%d cells)\n", a.Grid.Width, a.Grid.Height, a.Grid.Area())
	fmt.Fprintf(w, "Fleet: %d ships, %d cells (%.1f%% of the grid)\n", a.Ships, a.FleetCells, a.Density())
	fmt.Fprintf(w, "Placements for %s on an empty grid: %d\n", a.FirstShip, a.Placements)
	fmt.Fprintf(w, "Generation: %d/%d runs succeeded (%.1f%%)\n", a.Successes, a.Runs, a.SuccessRate())

	switch {
	case a.Successes == 0:
		fmt.Fprintf(w, "⚠️  CRITICAL: no run produced a layout\n")
	case a.Successes < a.Runs:
		fmt.Fprintf(w, "⚠️  WARNING: %d runs exhausted their attempt budget\n", a.Runs-a.Successes)
	default:
		fmt.Fprintf(w, "✅ Every run produced a layout\n")
	}

	return a, nil
}

func analyze(config *engine.FleetConfig, runs int) *Analysis {
	blueprints := config.Blueprints(engine.NewCounter(0))

	a := &Analysis{
		Name:  config.Name,
		Grid:  config.Grid,
		Ships: len(blueprints),
		Runs:  runs,
	}
	for _, bp := range blueprints {
		a.FleetCells += bp.Size
	}
	if len(blueprints) > 0 {
		a.FirstShip = blueprints[0].Name
		a.Placements = countPlacements(engine.NewGeometry(config.Grid).AllValidPlacements(blueprints[0], nil))
	}

	for i := 0; i < runs; i++ {
		seed := uint64(i + 1)
		_, err := engine.NewBoard(config.Grid, blueprints,
			engine.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b9))))
		if err == nil {
			a.Successes++
		}
	}

	return a
}

// countPlacements counts distinct cell sets; a one-cell ship yields the same
// cell for both orientations
func countPlacements(placements []engine.Placement) int {
	seen := make(map[[2]engine.Position]struct{}, len(placements))
	for _, p := range placements {
		seen[[2]engine.Position{p[0], p[len(p)-1]}] = struct{}{}
	}
	return len(seen)
}
