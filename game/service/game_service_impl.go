package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
	"github.com/wricardo/mcp-training/treacherouswaters/logger"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.FleetConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"session": sess.ID,
		"config":  configID,
	}).Info("session created")

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	logger.Log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// Fire fires one shot for a session
func (s *gameServiceImpl) Fire(ctx context.Context, sessionID string, pos engine.Position) (*FireResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := fire(sess, pos)
	if err != nil {
		return nil, err
	}
	result.GameState = buildGameState(sess, false)
	return result, nil
}

// BulkFire fires shots in order, stopping at victory or at the first
// off-grid position
func (s *gameServiceImpl) BulkFire(ctx context.Context, sessionID string, shots []engine.Position) (*BulkFireResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Board.Status() == engine.StatusWon {
		return nil, ErrGameOver
	}

	result := &BulkFireResult{
		RequestedShots: len(shots),
		Shots:          []ShotResult{},
	}
	if len(shots) > engine.MaxBulkShots {
		result.Truncated = true
		result.Limit = engine.MaxBulkShots
		shots = shots[:engine.MaxBulkShots]
	}

	for i, pos := range shots {
		fr, err := fire(sess, pos)
		if err != nil {
			result.StoppedReason = err.Error()
			result.StopReasonCode = "out_of_bounds"
			result.StoppedOnShot = i + 1
			break
		}

		shot := ShotResult{
			Idx:        i,
			Position:   pos,
			Coordinate: fr.Coordinate,
			Outcome:    fr.Outcome,
		}
		if fr.Ship != nil {
			shot.Ship = fr.Ship.Name
		}
		result.Shots = append(result.Shots, shot)
		result.ShotsExecuted++

		if fr.Outcome == OutcomeVictory {
			if i < len(shots)-1 {
				result.StoppedReason = "all ships sunk"
				result.StopReasonCode = "victory"
				result.StoppedOnShot = i + 1
			}
			break
		}
	}

	result.Message = sess.Message
	result.GameState = buildGameState(sess, false)
	return result, nil
}

// Restart clears the shots of a session and generates a new layout
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Board.Restart(); err != nil {
		return nil, fmt.Errorf("failed to restart session %s: %w", sessionID, err)
	}
	sess.Message = sess.Config.Messages.Welcome

	logger.Log.WithField("session", sess.ID).Info("game restarted")
	return buildGameState(sess, false), nil
}

// GetGameState returns the current game state for a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string, reveal bool) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return buildGameState(sess, reveal), nil
}

// GetShotHistory returns paginated shot history
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := shotEntries(sess.Board)
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	shots := []ShotEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			shots = append(shots, history[i])
		}
	} else if start < total {
		shots = append(shots, history[start:end]...)
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available fleet configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific fleet configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.FleetConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a fleet configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.FleetConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// getSession looks a session up and touches its access time. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      buildGameState(sess, false),
		FleetConfig:    sess.Config,
	}
}

// fire applies one shot to the session board and classifies it
func fire(sess *Session, pos engine.Position) (*FireResult, error) {
	board := sess.Board
	if board.Status() == engine.StatusWon {
		return nil, ErrGameOver
	}

	result := &FireResult{
		Position:   pos,
		Coordinate: engine.FormatCoordinate(pos),
	}

	if board.HasShot(pos) {
		result.Outcome = OutcomeRepeat
		result.Message = messageOr(sess.Config.Messages.Repeat, "You already fired at %s.", result.Coordinate)
		sess.Message = result.Message
		return result, nil
	}

	if err := board.Fire(pos); err != nil {
		return nil, err
	}

	ship, ok := board.GetShip(pos)
	switch {
	case !ok:
		result.Outcome = OutcomeMiss
		result.Message = messageOr(sess.Config.Messages.Miss, "Miss.")
	case board.HasAllShipsSunk():
		result.Outcome = OutcomeVictory
		result.Message = messageOr(sess.Config.Messages.Victory, "All ships sunk in %d shots!", len(board.Shots()))
	case board.IsShipSunk(ship):
		result.Outcome = OutcomeSunk
		result.Message = messageOr(sess.Config.Messages.Sunk, "You sank the %s!", ship.Blueprint.Name)
	default:
		result.Outcome = OutcomeHit
		result.Message = messageOr(sess.Config.Messages.Hit, "Hit!")
	}

	if ok {
		for _, view := range board.Ships() {
			if view.ID == ship.ID {
				st := shipState(view, view.IsSank)
				result.Ship = &st
				break
			}
		}
	}

	sess.Message = result.Message

	logger.Log.WithFields(logrus.Fields{
		"session": sess.ID,
		"x":       pos.X,
		"y":       pos.Y,
		"outcome": result.Outcome,
	}).Debug("shot fired")

	return result, nil
}

// messageOr formats template, or fallback when the template is empty.
// Templates without verbs are returned as is.
func messageOr(template, fallback string, args ...any) string {
	if template == "" {
		template = fallback
	}
	if len(args) == 0 || !strings.Contains(template, "%") {
		return template
	}
	return fmt.Sprintf(template, args...)
}

func shipState(view engine.ShipView, showPlacement bool) ShipState {
	st := ShipState{
		ID:   view.ID,
		Name: view.Blueprint.Name,
		Size: view.Blueprint.Size,
		Hits: len(view.Hits),
		Sunk: view.IsSank,
	}
	if showPlacement {
		st.Placement = append(engine.Placement(nil), view.Placement...)
	}
	return st
}

// buildGameState renders the player's view of the session board
func buildGameState(sess *Session, reveal bool) *GameState {
	board := sess.Board
	status := board.Status()
	reveal = reveal || status == engine.StatusWon

	views := board.Ships()
	ships := make([]ShipState, 0, len(views))
	for _, view := range views {
		ships = append(ships, shipState(view, reveal || view.IsSank))
	}

	shots := len(board.Shots())
	hits := engine.CountHits(views)

	return &GameState{
		SessionID:  sess.ID,
		Status:     status,
		Grid:       board.GridSize(),
		Board:      renderBoard(board, views, reveal),
		Ships:      ships,
		ShipsTotal: len(views),
		ShipsSunk:  engine.CountSunk(views),
		ShotsFired: shots,
		Hits:       hits,
		Accuracy:   engine.Accuracy(hits, shots),
		GameOver:   status == engine.StatusWon,
		Revealed:   reveal,
		Message:    sess.Message,
	}
}

// renderBoard returns one string per row
func renderBoard(board engine.Engine, views []engine.ShipView, reveal bool) []string {
	size := board.GridSize()
	rows := make([][]rune, size.Height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(CellUnknown), size.Width))
	}

	for _, pos := range board.Shots() {
		rows[pos.Y][pos.X] = CellMiss
	}
	for _, view := range views {
		for _, cell := range view.Placement {
			switch {
			case view.IsSank:
				rows[cell.Y][cell.X] = CellSunk
			case board.HasShot(cell):
				rows[cell.Y][cell.X] = CellHit
			case reveal:
				rows[cell.Y][cell.X] = CellRevealed
			}
		}
	}

	out := make([]string, size.Height)
	for y, row := range rows {
		out[y] = string(row)
	}
	return out
}

// shotEntries lists every shot in firing order with its hit flag
func shotEntries(board engine.Engine) []ShotEntry {
	shots := board.Shots()
	entries := make([]ShotEntry, 0, len(shots))
	for i, pos := range shots {
		entry := ShotEntry{
			Number:     i + 1,
			Position:   pos,
			Coordinate: engine.FormatCoordinate(pos),
		}
		if ship, ok := board.GetShip(pos); ok {
			entry.Hit = true
			entry.Ship = ship.Blueprint.Name
		}
		entries = append(entries, entry)
	}
	return entries
}
