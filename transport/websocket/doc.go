// Package websocket provides WebSocket transport for Treacherous Waters.
//
// A central Hub tracks the clients watching each session. Clients connect to
// /ws?session=<id> and receive a JSON Message whenever the session changes:
//
//	{"session_id": "1a2b3c4d", "event": "state_update", "game_state": {...}}
//
// Custom events (shot, restart, session_deleted) carry their payload in
// "data". Incoming client messages are read only to drive ping/pong keepalive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//
// Broadcasts never block the caller. If the hub falls behind, messages are
// dropped, and a client whose send buffer is full is disconnected.
package websocket
