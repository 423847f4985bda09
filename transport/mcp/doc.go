// Package mcp exposes Treacherous Waters to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a REST API
// request and the JSON response is rendered as text for the agent.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: Board map, ship list and statistics (optional reveal)
//   - fire: One shot by x/y or board notation
//   - bulk_fire: Several shots in order
//   - restart_game: Clear shots and hide a new fleet
//   - shot_history: Paginated shot history
//   - list_configs: Available fleet configurations
//   - describe_cell: One cell and its neighbours
//   - game_instructions: Rules and strategy notes
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	resp := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
