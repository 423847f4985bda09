// Package api provides HTTP REST API handlers for Treacherous Waters.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Player view (?reveal=true shows every ship)
//   - POST /api/sessions/{id}/fire - Fire one shot ({"x": 3, "y": 4} or {"coordinate": "D5"})
//   - POST /api/sessions/{id}/bulk-fire - Fire several shots ({"shots": [{"x":0,"y":0}, ...]})
//   - POST /api/sessions/{id}/restart - Clear shots and hide a new fleet
//   - GET /api/sessions/{id}/history - Shot history (page, limit, order)
//
// Configuration:
//   - GET /api/configs - List fleet configurations
//   - POST /api/configs - Save a fleet configuration
//   - GET /api/configs/{name} - Get one configuration
//
// Other:
//   - GET /health - Liveness check
//   - GET /ws?session={id} - WebSocket updates for a session
//
// Error Handling:
//
// Errors are returned as JSON with a status code derived from the error:
//
//	{"error": "session not found: abcd"}
//
// 404 for unknown sessions and configs, 400 for malformed requests, off-grid
// shots and invalid configs, 409 for shots after the game is won, and 422
// when no fleet layout can be generated.
package api
