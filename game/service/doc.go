// Package service provides the business logic layer for Treacherous Waters.
//
// The service package implements:
//   - Multi-session game management
//   - Shot processing with miss, hit, sunk, victory and repeat outcomes
//   - The player's view of a board, with unsunk ships hidden
//   - Paginated shot history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages fleet configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own board. Boards are not safe for
// concurrent use, so the service serializes every call that touches one.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Fire(ctx, info.ID, engine.Position{X: 3, Y: 4})
package service
