package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrGameOver        = errors.New("game is over, restart to play again")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Fire(ctx context.Context, sessionID string, pos engine.Position) (*FireResult, error)
	BulkFire(ctx context.Context, sessionID string, shots []engine.Position) (*BulkFireResult, error)
	Restart(ctx context.Context, sessionID string) (*GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string, reveal bool) (*GameState, error)
	GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.FleetConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.FleetConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.FleetConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configID string, config *engine.FleetConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles fleet configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.FleetConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.FleetConfig
	SaveConfig(name string, config *engine.FleetConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Board          *engine.Board
	Config         *engine.FleetConfig
	ConfigID       string
	Message        string // last message shown to the player
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
