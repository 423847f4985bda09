// Package config provides fleet configuration management for Treacherous Waters.
//
// The config package handles:
//   - Loading fleet configurations from JSON files
//   - Validation through engine.ValidateFleetConfig
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Fleet configurations are stored as JSON files in the configs directory:
//
//	{
//	  "name": "Classic",
//	  "description": "Two ships on a 10x10 grid",
//	  "grid": {"width": 10, "height": 10},
//	  "ships": [{"name": "Destroyer", "size": 4}, {"name": "Battleship", "size": 5}],
//	  "messages": {"welcome": "...", "sunk": "You sank the %s!", "victory": "Done in %d shots"}
//	}
//
// The file name without its extension is the config ID used to create
// sessions. classic.json is the default when present; otherwise the first
// valid file is used, and an empty directory falls back to the built-in
// classic fleet.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fleet, err := manager.LoadConfig("small")
//	configs, err := manager.ListConfigs()
package config
