// Package engine provides the core game logic for Treacherous Waters.
//
// The engine package implements:
//   - Placement geometry: ship cells, the separation footprint, and enumeration
//     of every valid placement for a blueprint
//   - Random layout generation with a bounded number of whole-layout retries
//   - Shot tracking and hit, sunk and victory queries
//   - Fleet configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by Board. Geometry holds the pure placement helpers. FleetConfig
// describes a grid and its fleet and is loaded from JSON files.
//
// Usage:
//
//	board, err := engine.NewBoard(
//		engine.Size{Width: 10, Height: 10},
//		[]engine.ShipBlueprint{engine.NewDestroyerBlueprint(), engine.NewBattleshipBlueprint()},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board.Fire(engine.Position{X: 3, Y: 4})
//	won := board.HasAllShipsSunk()
//
// Game Rules:
//
// Ships lie horizontally or vertically and never overlap. No two ships may
// sit on orthogonally adjacent cells, though they may touch diagonally. A
// ship is sunk once every one of its cells has been shot, and the game is
// won when every ship is sunk.
//
// Boards are not safe for concurrent use.
package engine
