// Command validate provides a small CLI that validates fleet configuration JSON
// files in a configs directory (../configs by default). It checks:
//   - JSON structure and required fields (via engine.ValidateFleetConfig)
//   - The packing bound: ships plus one separating cell each must fit the grid
//   - Feasibility: a few seeded generation runs must produce a layout
package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
)

// feasibilityProbes is the number of seeded generation runs per config
const feasibilityProbes = 5

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single fleet configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.FleetConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateFleetConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	need, have := packingBound(&config)
	if need > have {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Packing bound exceeded: fleet with separation needs %d cells of the extended grid, only %d available", need, have))
		return result
	}

	ok, failures := probeFeasibility(&config, feasibilityProbes)
	if ok == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Infeasible: %d/%d generation runs failed", failures, feasibilityProbes))
		return result
	}

	// Add informational data
	ships, cells := fleetTotals(&config)
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.Grid.Width, config.Grid.Height))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Ships: %d (%d cells)", ships, cells))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Packing: %d/%d", need, have))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Feasibility: %d/%d runs produced a layout", ok, feasibilityProbes))
	for _, missing := range missingMessages(&config) {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ messages.%s not set, default text is used", missing))
	}

	return result
}

// packingBound returns the cells a fleet needs and the cells available once
// every ship also claims the cell right of its last cell, on a grid extended
// by one column. That cell can belong to no other ship and to no other claim,
// so need > have proves the fleet cannot be placed.
func packingBound(config *engine.FleetConfig) (need, have int) {
	for _, ship := range config.Ships {
		need += max(ship.Count, 1) * (ship.Size + 1)
	}
	have = (config.Grid.Width + 1) * config.Grid.Height
	return need, have
}

// probeFeasibility runs seeded generation n times and counts the outcomes
func probeFeasibility(config *engine.FleetConfig, n int) (ok, failed int) {
	for i := 0; i < n; i++ {
		seed := uint64(i + 1)
		_, err := engine.NewBoardFromConfig(config,
			engine.WithRand(rand.New(rand.NewPCG(seed, seed))),
			engine.WithIDSource(engine.NewCounter(1)),
		)
		if err != nil {
			failed++
			continue
		}
		ok++
	}
	return ok, failed
}

func fleetTotals(config *engine.FleetConfig) (ships, cells int) {
	for _, ship := range config.Ships {
		n := max(ship.Count, 1)
		ships += n
		cells += n * ship.Size
	}
	return ships, cells
}

func missingMessages(config *engine.FleetConfig) []string {
	var missing []string
	optional := []struct {
		key, value string
	}{
		{"miss", config.Messages.Miss},
		{"hit", config.Messages.Hit},
		{"sunk", config.Messages.Sunk},
		{"repeat", config.Messages.Repeat},
	}
	for _, m := range optional {
		if m.value == "" {
			missing = append(missing, m.key)
		}
	}
	return missing
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
