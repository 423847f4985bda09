package service

import (
	"time"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
)

// Outcome is the result of a single shot
type Outcome string

const (
	OutcomeMiss    Outcome = "miss"
	OutcomeHit     Outcome = "hit"
	OutcomeSunk    Outcome = "sunk"
	OutcomeVictory Outcome = "victory"
	OutcomeRepeat  Outcome = "repeat"
)

// Board map symbols
const (
	CellUnknown  = '.'
	CellMiss     = 'o'
	CellHit      = 'x'
	CellSunk     = '#'
	CellRevealed = 'S'
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *GameState          `json:"game_state"`
	FleetConfig    *engine.FleetConfig `json:"fleet_config"`
}

// GameState is the player's view of a board. Placements of ships that are
// still afloat are hidden unless the state was requested with reveal or the
// game is won.
type GameState struct {
	SessionID  string        `json:"session_id"`
	Status     engine.Status `json:"status"`
	Grid       engine.Size   `json:"grid"`
	Board      []string      `json:"board"` // one row per y, one rune per x
	Ships      []ShipState   `json:"ships"`
	ShipsTotal int           `json:"ships_total"`
	ShipsSunk  int           `json:"ships_sunk"`
	ShotsFired int           `json:"shots_fired"`
	Hits       int           `json:"hits"`
	Accuracy   float64       `json:"accuracy"`
	GameOver   bool          `json:"game_over"`
	Revealed   bool          `json:"revealed"`
	Message    string        `json:"message"`
}

// ShipState describes one ship as the player may see it
type ShipState struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Size      int              `json:"size"`
	Hits      int              `json:"hits"`
	Sunk      bool             `json:"sunk"`
	Placement engine.Placement `json:"placement,omitempty"`
}

// FireResult contains the result of a single shot
type FireResult struct {
	Outcome    Outcome         `json:"outcome"`
	Position   engine.Position `json:"position"`
	Coordinate string          `json:"coordinate"`
	Ship       *ShipState      `json:"ship,omitempty"` // set on hit, sunk and victory
	Message    string          `json:"message"`
	GameState  *GameState      `json:"game_state"`
}

// BulkFireResult contains the result of several shots fired in order
type BulkFireResult struct {
	ShotsExecuted  int          `json:"shots_executed"`
	RequestedShots int          `json:"requested_shots"`
	Shots          []ShotResult `json:"shots"`
	StoppedReason  string       `json:"stopped_reason,omitempty"`
	StopReasonCode string       `json:"stop_reason_code,omitempty"` // victory|out_of_bounds
	StoppedOnShot  int          `json:"stopped_on_shot,omitempty"`  // 1-based
	Truncated      bool         `json:"truncated,omitempty"`
	Limit          int          `json:"limit,omitempty"`
	Message        string       `json:"message"`
	GameState      *GameState   `json:"game_state"`
}

// ShotResult is a compact record of one shot of a bulk call
type ShotResult struct {
	Idx        int             `json:"idx"`
	Position   engine.Position `json:"position"`
	Coordinate string          `json:"coordinate"`
	Outcome    Outcome         `json:"outcome"`
	Ship       string          `json:"ship,omitempty"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// ShotEntry is one shot of the history
type ShotEntry struct {
	Number     int             `json:"number"` // 1-based firing order
	Position   engine.Position `json:"position"`
	Coordinate string          `json:"coordinate"`
	Hit        bool            `json:"hit"`
	Ship       string          `json:"ship,omitempty"`
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []ShotEntry `json:"shots"`
	TotalShots  int         `json:"total_shots"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	TotalPages  int         `json:"total_pages"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
}

// ConfigInfo provides information about a fleet configuration
type ConfigInfo struct {
	Filename    string      `json:"filename"`
	ConfigID    string      `json:"config_id"` // The identifier to use for session creation
	Name        string      `json:"name"`      // Display name
	Description string      `json:"description"`
	Grid        engine.Size `json:"grid"`
	ShipCount   int         `json:"ship_count"`
	FleetCells  int         `json:"fleet_cells"`
}
