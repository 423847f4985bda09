package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
	"github.com/wricardo/mcp-training/treacherouswaters/game/service"
	"github.com/wricardo/mcp-training/treacherouswaters/logger"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Treacherous Waters",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Treacherous Waters - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
A fleet is hidden on a rectangular grid. Fire at cells to find and sink every ship.
Ships never touch side by side; touching at a corner is allowed.

AVAILABLE TOOLS:
- create_session: Create a new game session (hides a fresh fleet)
- list_sessions / get_session: Inspect sessions
- game_state: Current board, ship list and statistics
- fire: Fire one shot (x/y or coordinate like "B4") - requires intent explanation
- bulk_fire: Fire several shots in order - requires intent explanation
- restart_game: Clear all shots and hide a new fleet
- shot_history: View past shots
- list_configs: List available fleet configurations
- describe_cell: Everything known about one cell and its neighbours
- game_instructions: Full rules and strategy notes

NOTE: The 'intent' parameter on fire/bulk_fire serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the fleet config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, ship list and statistics",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"reveal": map[string]interface{}{
					"type":        "boolean",
					"description": "Show every ship, including those still afloat (debugging only)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fire",
		Description: "Fire one shot at a cell. Give either x and y (0-based) or a coordinate such as \"B4\".",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0-based",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0-based",
				},
				"coordinate": map[string]interface{}{
					"type":        "string",
					"description": "Board notation: column letter then 1-based row, e.g. \"C7\"",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are firing here",
				},
			},
			Required: []string{"session_id", "intent"},
		},
	}, c.handleFire)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_fire",
		Description: fmt.Sprintf("Fire several shots in order (max %d). Stops early on victory or an off-grid shot.", engine.MaxBulkShots),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"coordinates": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Shots in board notation, e.g. [\"A1\", \"C3\", \"E5\"]",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "What this volley is meant to find out",
				},
			},
			Required: []string{"session_id", "coordinates", "intent"},
		},
	}, c.handleBulkFire)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Clear every shot and hide a brand new fleet",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "Get shot history with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Shots per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "desc shows the latest shots first (default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleShotHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available fleet configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game rules and strategy notes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one cell and its 8 neighbours, flagging unknown cells that share an edge with a sunk ship",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"coordinate": map[string]interface{}{
					"type":        "string",
					"description": "Board notation, e.g. \"D5\"",
				},
			},
			Required: []string{"session_id", "coordinate"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.Log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("mcp api call")

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "unknown"
		if s.GameState != nil {
			status = fmt.Sprintf("%s, %d/%d sunk", s.GameState.Status, s.GameState.ShipsSunk, s.GameState.ShipsTotal)
		}
		fmt.Fprintf(&result, "- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	reveal, _ := args["reveal"].(bool)

	path := sessionPath(sessionID, "/state")
	if reveal {
		path += "?reveal=true"
	}

	var state service.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleFire(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	coordinate, _ := args["coordinate"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = args["intent"]

	body := map[string]interface{}{}
	if coordinate != "" {
		body["coordinate"] = coordinate
	} else {
		x, okX := args["x"].(float64)
		y, okY := args["y"].(float64)
		if !okX || !okY {
			return mcp.NewToolResultError("provide either coordinate or both x and y"), nil
		}
		body["x"] = int(x)
		body["y"] = int(y)
	}

	var result service.FireResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/fire"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFireResult(&result)), nil
}

func (c *Client) handleBulkFire(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	raw, _ := args["coordinates"].([]interface{})

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = args["intent"]

	shots := make([]map[string]string, 0, len(raw))
	for _, v := range raw {
		if coord, ok := v.(string); ok && coord != "" {
			shots = append(shots, map[string]string{"coordinate": coord})
		}
	}
	if len(shots) == 0 {
		return mcp.NewToolResultError("coordinates must contain at least one shot"), nil
	}

	var result service.BulkFireResult
	body := map[string]interface{}{"shots": shots}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-fire"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkFireResult(sessionID, &result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string             `json:"message"`
		State   *service.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/restart"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Ships: %d, Fleet cells: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.Grid.Width, config.Grid.Height, config.ShipCount, config.FleetCells)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Treacherous Waters - Complete Instructions

GAME OBJECTIVE:
An enemy fleet is hidden on a rectangular grid. Sink every ship in as few shots as possible.

FLEET RULES:
• Every ship is a straight line of cells, horizontal or vertical
• Ships never overlap
• Ships never touch side by side: no two ships share an edge
• Touching at a corner IS allowed, so diagonal neighbours of a ship may hold another ship
• A new fleet is hidden at random for every session and every restart

COORDINATES:
• x is the column (0-based), y is the row (0-based)
• Board notation: column letter + 1-based row, so "A1" is x=0,y=0 and "C5" is x=2,y=4

BOARD LEGEND:
• .  Unknown water
• o  Miss
• x  Hit on a ship still afloat
• #  Part of a sunk ship
• S  Revealed ship cell (only with reveal, or after victory)

SHOT OUTCOMES:
• miss     - water
• hit      - part of a ship, ship still afloat
• sunk     - the last cell of a ship
• victory  - the last cell of the last ship
• repeat   - you already fired there; nothing changes

STRATEGY NOTES:
• Hunt with a checkerboard pattern: every ship of size 2 or more covers a cell where (x+y) is even
• After a hit, probe the 4 orthogonal neighbours until you know the orientation
• After a sink, the cells sharing an edge with the sunk ship are guaranteed water - skip them
• Cells only diagonal to a sunk ship can still hold another ship
• Use describe_cell to list the neighbours that can no longer hold a ship
• Use bulk_fire for hunting volleys; it stops on its own at victory

VICTORY CONDITIONS:
• The game is won when every cell of every ship has been hit
• Shots after victory are rejected; use restart_game for a new fleet

Good luck, captain!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	coordinate, _ := args["coordinate"].(string)

	pos, err := engine.ParseCoordinate(coordinate)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state service.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Status: %s | Shots: %d | Hits: %d | Accuracy: %.1f%% | Sunk: %d/%d\n\n",
		state.Status, state.ShotsFired, state.Hits, state.Accuracy, state.ShipsSunk, state.ShipsTotal)

	result.WriteString(formatBoard(state))
	result.WriteString("\n")

	result.WriteString("Ships:\n")
	for _, ship := range state.Ships {
		mark := " "
		if ship.Sunk {
			mark = "✓"
		}
		fmt.Fprintf(&result, "  [%s] %s (size %d, hits %d)", mark, ship.Name, ship.Size, ship.Hits)
		if len(ship.Placement) > 0 {
			fmt.Fprintf(&result, " at %s", formatPlacement(ship.Placement))
		}
		result.WriteString("\n")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s\n", state.Message)
	}

	if state.GameOver {
		result.WriteString("\n🎉 VICTORY! Every ship is sunk.\n")
	}

	return result.String()
}

// formatBoard renders the board map with column letters and 1-based row numbers
func formatBoard(state *service.GameState) string {
	if len(state.Board) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString("    ")
	for x := 0; x < state.Grid.Width; x++ {
		result.WriteString(columnLabel(x))
	}
	result.WriteString("\n")
	for y, row := range state.Board {
		fmt.Fprintf(&result, "%3d %s\n", y+1, row)
	}
	return result.String()
}

func columnLabel(x int) string {
	return string(rune('A' + x))
}

func formatPlacement(p engine.Placement) string {
	coords := make([]string, 0, len(p))
	for _, pos := range p {
		coords = append(coords, engine.FormatCoordinate(pos))
	}
	return strings.Join(coords, " ")
}

func formatFireResult(result *service.FireResult) string {
	var out strings.Builder

	switch result.Outcome {
	case service.OutcomeMiss:
		fmt.Fprintf(&out, "○ Miss at %s", result.Coordinate)
	case service.OutcomeHit:
		fmt.Fprintf(&out, "✹ Hit at %s", result.Coordinate)
	case service.OutcomeSunk:
		fmt.Fprintf(&out, "✹ Sunk at %s", result.Coordinate)
	case service.OutcomeVictory:
		fmt.Fprintf(&out, "🎉 Victory at %s", result.Coordinate)
	case service.OutcomeRepeat:
		fmt.Fprintf(&out, "↺ Already fired at %s", result.Coordinate)
	default:
		fmt.Fprintf(&out, "%s at %s", result.Outcome, result.Coordinate)
	}
	if result.Ship != nil {
		fmt.Fprintf(&out, " (%s, %d/%d hit)", result.Ship.Name, result.Ship.Hits, result.Ship.Size)
	}
	out.WriteString("\n")

	if result.Message != "" {
		fmt.Fprintf(&out, "%s\n", result.Message)
	}
	out.WriteString("\n")
	out.WriteString(formatGameState(result.GameState))

	return out.String()
}

func formatBulkFireResult(sessionID string, result *service.BulkFireResult) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Bulk fire on %s: %d/%d shots executed\n", sessionID, result.ShotsExecuted, result.RequestedShots)
	if result.Truncated {
		fmt.Fprintf(&out, "⚠ Request truncated to %d shots\n", result.Limit)
	}
	if result.StopReasonCode != "" {
		fmt.Fprintf(&out, "Stopped on shot %d: %s\n", result.StoppedOnShot, result.StoppedReason)
	}
	out.WriteString("\n")

	for _, shot := range result.Shots {
		line := fmt.Sprintf("%d. %s %s", shot.Idx+1, shot.Coordinate, shot.Outcome)
		if shot.Ship != "" {
			line += " (" + shot.Ship + ")"
		}
		out.WriteString(line + "\n")
	}

	if result.Message != "" {
		fmt.Fprintf(&out, "\n%s\n", result.Message)
	}
	out.WriteString("\n")
	out.WriteString(formatGameState(result.GameState))

	return out.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Shot History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalShots)

	for _, shot := range history.Shots {
		status := "miss"
		if shot.Hit {
			status = "hit " + shot.Ship
		}
		fmt.Fprintf(&out, "%d. %s %s\n", shot.Number, shot.Coordinate, status)
	}

	if history.HasNext {
		fmt.Fprintf(&out, "\nMore shots on page %d\n", history.Page+1)
	}

	return out.String()
}

// describeCell explains what the board shows at pos and around it
func describeCell(state *service.GameState, pos engine.Position) string {
	if !state.Grid.Contains(pos) {
		return fmt.Sprintf("%s is outside the %dx%d grid", engine.FormatCoordinate(pos), state.Grid.Width, state.Grid.Height)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Cell %s (x=%d, y=%d): %s\n\nNeighbours:\n",
		engine.FormatCoordinate(pos), pos.X, pos.Y, cellName(cellAt(state, pos)))

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := engine.Position{X: pos.X + dx, Y: pos.Y + dy}
			if !state.Grid.Contains(n) {
				continue
			}
			line := fmt.Sprintf("  %s: %s", engine.FormatCoordinate(n), cellName(cellAt(state, n)))
			if cellAt(state, n) == service.CellUnknown && touchesSunk(state, n) {
				line += " (water: next to a sunk ship)"
			}
			out.WriteString(line + "\n")
		}
	}

	return out.String()
}

func cellAt(state *service.GameState, pos engine.Position) rune {
	if pos.Y < 0 || pos.Y >= len(state.Board) {
		return service.CellUnknown
	}
	row := []rune(state.Board[pos.Y])
	if pos.X < 0 || pos.X >= len(row) {
		return service.CellUnknown
	}
	return row[pos.X]
}

// touchesSunk reports whether pos shares an edge with a sunk ship cell
func touchesSunk(state *service.GameState, pos engine.Position) bool {
	for _, d := range []engine.Position{{X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}} {
		n := engine.Position{X: pos.X + d.X, Y: pos.Y + d.Y}
		if state.Grid.Contains(n) && cellAt(state, n) == service.CellSunk {
			return true
		}
	}
	return false
}

func cellName(c rune) string {
	switch c {
	case service.CellMiss:
		return "miss"
	case service.CellHit:
		return "hit (ship afloat)"
	case service.CellSunk:
		return "sunk ship"
	case service.CellRevealed:
		return "ship (revealed)"
	default:
		return "unknown"
	}
}
