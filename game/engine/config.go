package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FleetShip is one ship entry of a fleet configuration
type FleetShip struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Count int    `json:"count,omitempty"` // defaults to 1
}

// FleetMessages holds the player-facing message templates
type FleetMessages struct {
	Welcome string `json:"welcome"`
	Miss    string `json:"miss"`
	Hit     string `json:"hit"`
	Sunk    string `json:"sunk"`    // %s is the ship name
	Victory string `json:"victory"` // %d is the number of shots fired
	Repeat  string `json:"repeat"`
}

// FleetConfig represents the game configuration from JSON
type FleetConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Grid        Size          `json:"grid"`
	Ships       []FleetShip   `json:"ships"`
	Messages    FleetMessages `json:"messages"`
}

// ValidateFleetConfig validates a fleet configuration for correctness.
// A valid config can still be infeasible under the separation rule; only
// generation can tell.
func ValidateFleetConfig(config *FleetConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.Grid.Width < MinGridSize || config.Grid.Width > MaxGridSize {
		return fmt.Errorf("config validation: grid.width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Grid.Width)
	}
	if config.Grid.Height < MinGridSize || config.Grid.Height > MaxGridSize {
		return fmt.Errorf("config validation: grid.height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Grid.Height)
	}

	// Validate fleet
	if len(config.Ships) == 0 {
		return fmt.Errorf("config validation: at least one ship is required")
	}

	longest := max(config.Grid.Width, config.Grid.Height)
	totalShips, totalCells := 0, 0
	for i, ship := range config.Ships {
		if ship.Name == "" {
			return fmt.Errorf("config validation: ships[%d].name is required", i)
		}
		if ship.Size < 1 || ship.Size > longest {
			return fmt.Errorf("config validation: ships[%d] (%s) size must be between 1 and %d, got %d", i, ship.Name, longest, ship.Size)
		}
		if ship.Count < 0 {
			return fmt.Errorf("config validation: ships[%d] (%s) count cannot be negative, got %d", i, ship.Name, ship.Count)
		}
		n := max(ship.Count, 1)
		totalShips += n
		totalCells += n * ship.Size
	}

	if totalShips > MaxFleetShips {
		return fmt.Errorf("config validation: fleet has %d ships, at most %d allowed", totalShips, MaxFleetShips)
	}
	if totalCells > config.Grid.Area() {
		return fmt.Errorf("config validation: fleet needs %d cells but the grid only has %d", totalCells, config.Grid.Area())
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if verbs := templateVerbs(config.Messages.Victory); verbs != "d" {
		return fmt.Errorf("config validation: messages.victory must contain exactly one %%d for shot count, found verbs %q", verbs)
	}
	if verbs := templateVerbs(config.Messages.Sunk); config.Messages.Sunk != "" && verbs != "s" {
		return fmt.Errorf("config validation: messages.sunk must contain exactly one %%s for ship name, found verbs %q", verbs)
	}
	if verbs := templateVerbs(config.Messages.Repeat); verbs != "" && verbs != "s" {
		return fmt.Errorf("config validation: messages.repeat may only contain one %%s for the coordinate, found verbs %q", verbs)
	}
	for field, template := range map[string]string{"miss": config.Messages.Miss, "hit": config.Messages.Hit} {
		if verbs := templateVerbs(template); verbs != "" {
			return fmt.Errorf("config validation: messages.%s takes no verbs, found %q", field, verbs)
		}
	}

	return nil
}

// templateVerbs returns the fmt verbs of template in order, skipping %% and
// any flags, width or precision
func templateVerbs(template string) string {
	var verbs strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		i++
		for i < len(template) && strings.IndexByte("+-# 0123456789.", template[i]) >= 0 {
			i++
		}
		if i < len(template) && template[i] != '%' {
			verbs.WriteByte(template[i])
		}
	}
	return verbs.String()
}

// Blueprints expands the fleet into one blueprint per ship, minting ids from ids
func (c *FleetConfig) Blueprints(ids IDSource) []ShipBlueprint {
	var blueprints []ShipBlueprint
	for _, ship := range c.Ships {
		for i := 0; i < max(ship.Count, 1); i++ {
			blueprints = append(blueprints, NewBlueprint(ids, ship.Name, ship.Size))
		}
	}
	return blueprints
}

// NewBoardFromConfig validates config and builds a board for its fleet
func NewBoardFromConfig(config *FleetConfig, opts ...Option) (*Board, error) {
	if err := ValidateFleetConfig(config); err != nil {
		return nil, err
	}
	return NewBoard(config.Grid, config.Blueprints(DefaultIDs), opts...)
}

// LoadFleetConfig loads a fleet configuration from a JSON file
func LoadFleetConfig(filename string) (*FleetConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config FleetConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateFleetConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultFleetConfig returns the classic 10x10 fleet of one Destroyer and one Battleship
func DefaultFleetConfig() *FleetConfig {
	return &FleetConfig{
		Name:        "classic",
		Description: "Classic 10x10 waters with a Destroyer and a Battleship",
		Grid:        Size{Width: 10, Height: 10},
		Ships: []FleetShip{
			{Name: "Destroyer", Size: DestroyerSize},
			{Name: "Battleship", Size: BattleshipSize},
		},
		Messages: FleetMessages{
			Welcome: "Two ships hide in these waters. Fire away!",
			Miss:    "Splash. Nothing but water.",
			Hit:     "Hit!",
			Sunk:    "You sank the %s!",
			Victory: "All ships sunk in %d shots!",
			Repeat:  "You already fired there.",
		},
	}
}
