package service_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
	"github.com/wricardo/mcp-training/treacherouswaters/game/service"
	"github.com/wricardo/mcp-training/treacherouswaters/logger"
)

func init() {
	logger.Discard()
}

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, configID string, config *engine.FleetConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	rng := rand.New(rand.NewPCG(7, uint64(len(m.sessions)+1)))
	board, err := engine.NewBoardFromConfig(config, engine.WithRand(rng))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Board:          board,
		Config:         config,
		ConfigID:       configID,
		Message:        config.Messages.Welcome,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, configID string, config *engine.FleetConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, configID, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.FleetConfig
	saved   map[string]*engine.FleetConfig
}

func testFleetConfig(name string) *engine.FleetConfig {
	return &engine.FleetConfig{
		Name:        name,
		Description: "Test configuration",
		Grid:        engine.Size{Width: 6, Height: 6},
		Ships: []engine.FleetShip{
			{Name: "Destroyer", Size: 3},
			{Name: "Patrol Boat", Size: 2},
		},
		Messages: engine.FleetMessages{
			Welcome: "Welcome!",
			Miss:    "Miss!",
			Hit:     "Hit!",
			Sunk:    "Sunk the %s!",
			Victory: "Victory in %d shots!",
			Repeat:  "Already fired there.",
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.FleetConfig{
			"default": testFleetConfig("default"),
			"test":    testFleetConfig("test"),
		},
		saved: make(map[string]*engine.FleetConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.FleetConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Grid:        config.Grid,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.FleetConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.FleetConfig) error {
	if err := engine.ValidateFleetConfig(config); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidConfig, err)
	}
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager, string) {
	t.Helper()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions, NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, sessions, info.ID
}

// waterCell returns a position with no ship on it
func waterCell(t *testing.T, board *engine.Board) engine.Position {
	t.Helper()
	for _, cell := range board.GridCells() {
		if cell.Ship == nil {
			return cell.Position
		}
	}
	t.Fatal("No water cell on board")
	return engine.Position{}
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	svc := service.NewGameService(sessions, configs)

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    error
	}{
		{
			name:       "create with default config",
			configName: "",
			wantConfig: "default",
		},
		{
			name:       "create with specific config",
			configName: "test",
			wantConfig: "test",
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    service.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %s, got %s", tt.wantConfig, session.ConfigName)
			}
			if session.GameState.Status != engine.StatusSetup {
				t.Errorf("Expected setup status, got %s", session.GameState.Status)
			}
			if session.GameState.Message != "Welcome!" {
				t.Errorf("Expected welcome message, got %q", session.GameState.Message)
			}
		})
	}

	t.Run("error lists available configs", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nonexistent")
		if err == nil || !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected available configs in error, got %v", err)
		}
	})
}

func TestGameService_Fire(t *testing.T) {
	ctx := context.Background()
	svc, sessions, id := newTestService(t)
	board := sessions.sessions[id].Board

	t.Run("miss", func(t *testing.T) {
		pos := waterCell(t, board)
		result, err := svc.Fire(ctx, id, pos)
		if err != nil {
			t.Fatalf("Fire failed: %v", err)
		}
		if result.Outcome != service.OutcomeMiss {
			t.Errorf("Expected miss, got %s", result.Outcome)
		}
		if result.Message != "Miss!" {
			t.Errorf("Expected 'Miss!', got %q", result.Message)
		}
		if result.Ship != nil {
			t.Error("Expected no ship on a miss")
		}
		if result.GameState.Board[pos.Y][pos.X] != service.CellMiss {
			t.Errorf("Expected miss marker, got %q", result.GameState.Board[pos.Y][pos.X])
		}
	})

	t.Run("repeat", func(t *testing.T) {
		pos := waterCell(t, board)
		before := len(board.Shots())
		result, err := svc.Fire(ctx, id, pos)
		if err != nil {
			t.Fatalf("Fire failed: %v", err)
		}
		if result.Outcome != service.OutcomeRepeat {
			t.Errorf("Expected repeat, got %s", result.Outcome)
		}
		if len(board.Shots()) != before {
			t.Errorf("Repeat shot changed shot count from %d to %d", before, len(board.Shots()))
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		_, err := svc.Fire(ctx, id, engine.Position{X: 6, Y: 0})
		if !errors.Is(err, engine.ErrPositionOutOfBounds) {
			t.Errorf("Expected ErrPositionOutOfBounds, got %v", err)
		}
	})

	t.Run("hit sunk and victory", func(t *testing.T) {
		ships := board.Ships()
		for si, view := range ships {
			for ci, cell := range view.Placement {
				result, err := svc.Fire(ctx, id, cell)
				if err != nil {
					t.Fatalf("Fire failed: %v", err)
				}

				lastCell := ci == len(view.Placement)-1
				lastShip := si == len(ships)-1
				var want service.Outcome
				switch {
				case lastCell && lastShip:
					want = service.OutcomeVictory
				case lastCell:
					want = service.OutcomeSunk
				default:
					want = service.OutcomeHit
				}
				if result.Outcome != want {
					t.Errorf("Ship %s cell %d: expected %s, got %s", view.Blueprint.Name, ci, want, result.Outcome)
				}
				if result.Ship == nil || result.Ship.ID != view.ID {
					t.Errorf("Expected ship %d in result, got %+v", view.ID, result.Ship)
				}
				if want == service.OutcomeSunk && result.Message != fmt.Sprintf("Sunk the %s!", view.Blueprint.Name) {
					t.Errorf("Unexpected sunk message %q", result.Message)
				}
				if want == service.OutcomeVictory {
					expected := fmt.Sprintf("Victory in %d shots!", len(board.Shots()))
					if result.Message != expected {
						t.Errorf("Expected %q, got %q", expected, result.Message)
					}
					if !result.GameState.GameOver || result.GameState.Status != engine.StatusWon {
						t.Error("Expected game over after victory")
					}
				}
			}
		}
	})

	t.Run("fire after victory", func(t *testing.T) {
		_, err := svc.Fire(ctx, id, engine.Position{X: 0, Y: 0})
		if !errors.Is(err, service.ErrGameOver) {
			t.Errorf("Expected ErrGameOver, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Fire(ctx, "nope", engine.Position{})
		if !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestGameService_GetGameState(t *testing.T) {
	ctx := context.Background()
	svc, sessions, id := newTestService(t)
	board := sessions.sessions[id].Board

	countRune := func(rows []string, r rune) int {
		n := 0
		for _, row := range rows {
			n += strings.Count(row, string(r))
		}
		return n
	}

	t.Run("hidden by default", func(t *testing.T) {
		state, err := svc.GetGameState(ctx, id, false)
		if err != nil {
			t.Fatalf("GetGameState failed: %v", err)
		}
		if len(state.Board) != 6 || len(state.Board[0]) != 6 {
			t.Fatalf("Expected 6x6 board map, got %v", state.Board)
		}
		if n := countRune(state.Board, service.CellRevealed); n != 0 {
			t.Errorf("Expected no revealed cells, got %d", n)
		}
		for _, ship := range state.Ships {
			if ship.Placement != nil {
				t.Errorf("Expected hidden placement for %s", ship.Name)
			}
		}
		if state.ShipsTotal != 2 || state.ShipsSunk != 0 {
			t.Errorf("Expected 2 ships, 0 sunk, got %d/%d", state.ShipsTotal, state.ShipsSunk)
		}
	})

	t.Run("revealed", func(t *testing.T) {
		state, err := svc.GetGameState(ctx, id, true)
		if err != nil {
			t.Fatalf("GetGameState failed: %v", err)
		}
		if n := countRune(state.Board, service.CellRevealed); n != 5 {
			t.Errorf("Expected 5 revealed cells, got %d", n)
		}
		if !state.Revealed {
			t.Error("Expected revealed flag")
		}
	})

	t.Run("hits and sunk ships", func(t *testing.T) {
		patrol := board.Ships()[1]
		first := board.Ships()[0].Placement[0]
		svc.Fire(ctx, id, first)
		for _, cell := range patrol.Placement {
			svc.Fire(ctx, id, cell)
		}

		state, err := svc.GetGameState(ctx, id, false)
		if err != nil {
			t.Fatalf("GetGameState failed: %v", err)
		}
		if state.Board[first.Y][first.X] != service.CellHit {
			t.Errorf("Expected hit marker at %+v, got %q", first, state.Board[first.Y][first.X])
		}
		if n := countRune(state.Board, service.CellSunk); n != 2 {
			t.Errorf("Expected 2 sunk cells, got %d", n)
		}
		if state.ShipsSunk != 1 || state.Hits != 3 || state.ShotsFired != 3 {
			t.Errorf("Unexpected counts: %+v", state)
		}
		if state.Accuracy != 100 {
			t.Errorf("Expected 100%% accuracy, got %v", state.Accuracy)
		}
		if state.Ships[1].Placement == nil {
			t.Error("Expected sunk ship placement to be visible")
		}
		if state.Ships[0].Placement != nil {
			t.Error("Expected afloat ship placement to stay hidden")
		}
	})
}

func TestGameService_BulkFire(t *testing.T) {
	ctx := context.Background()

	t.Run("stops at victory", func(t *testing.T) {
		svc, sessions, id := newTestService(t)
		board := sessions.sessions[id].Board

		var shots []engine.Position
		for _, view := range board.Ships() {
			shots = append(shots, view.Placement...)
		}
		shots = append(shots, waterCell(t, board))

		result, err := svc.BulkFire(ctx, id, shots)
		if err != nil {
			t.Fatalf("BulkFire failed: %v", err)
		}
		if result.ShotsExecuted != 5 {
			t.Errorf("Expected 5 shots executed, got %d", result.ShotsExecuted)
		}
		if result.RequestedShots != 6 {
			t.Errorf("Expected 6 requested, got %d", result.RequestedShots)
		}
		if result.StopReasonCode != "victory" || result.StoppedOnShot != 5 {
			t.Errorf("Expected victory stop on shot 5, got %q on %d", result.StopReasonCode, result.StoppedOnShot)
		}
		if !result.GameState.GameOver {
			t.Error("Expected game over")
		}

		if _, err := svc.BulkFire(ctx, id, shots); !errors.Is(err, service.ErrGameOver) {
			t.Errorf("Expected ErrGameOver after victory, got %v", err)
		}
	})

	t.Run("stops at out of bounds", func(t *testing.T) {
		svc, sessions, id := newTestService(t)
		board := sessions.sessions[id].Board

		shots := []engine.Position{waterCell(t, board), {X: -1, Y: 0}, {X: 0, Y: 0}}
		result, err := svc.BulkFire(ctx, id, shots)
		if err != nil {
			t.Fatalf("BulkFire failed: %v", err)
		}
		if result.ShotsExecuted != 1 {
			t.Errorf("Expected 1 shot executed, got %d", result.ShotsExecuted)
		}
		if result.StopReasonCode != "out_of_bounds" || result.StoppedOnShot != 2 {
			t.Errorf("Expected out_of_bounds stop on shot 2, got %q on %d", result.StopReasonCode, result.StoppedOnShot)
		}
		if len(board.Shots()) != 1 {
			t.Errorf("Expected 1 recorded shot, got %d", len(board.Shots()))
		}
	})

	t.Run("truncated", func(t *testing.T) {
		svc, sessions, id := newTestService(t)
		pos := waterCell(t, sessions.sessions[id].Board)

		shots := make([]engine.Position, engine.MaxBulkShots+50)
		for i := range shots {
			shots[i] = pos
		}
		result, err := svc.BulkFire(ctx, id, shots)
		if err != nil {
			t.Fatalf("BulkFire failed: %v", err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkShots {
			t.Errorf("Expected truncation at %d, got %v/%d", engine.MaxBulkShots, result.Truncated, result.Limit)
		}
		if result.ShotsExecuted != engine.MaxBulkShots {
			t.Errorf("Expected %d executed, got %d", engine.MaxBulkShots, result.ShotsExecuted)
		}
		if result.Shots[1].Outcome != service.OutcomeRepeat {
			t.Errorf("Expected repeats after the first shot, got %s", result.Shots[1].Outcome)
		}
	})
}

func TestGameService_GetShotHistory(t *testing.T) {
	ctx := context.Background()
	svc, sessions, id := newTestService(t)
	board := sessions.sessions[id].Board

	// eleven misses then one hit
	var fired []engine.Position
	for _, cell := range board.GridCells() {
		if cell.Ship == nil && len(fired) < 11 {
			fired = append(fired, cell.Position)
		}
	}
	fired = append(fired, board.Ships()[0].Placement[0])
	for _, pos := range fired {
		if _, err := svc.Fire(ctx, id, pos); err != nil {
			t.Fatalf("Fire failed: %v", err)
		}
	}
	total := len(board.Shots())

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantCount int
		wantFirst engine.Position
		wantNext  bool
	}{
		{
			name:      "ascending first page",
			opts:      service.HistoryOptions{Page: 1, Limit: 5, Order: "asc"},
			wantCount: 5,
			wantFirst: fired[0],
			wantNext:  total > 5,
		},
		{
			name:      "descending default order",
			opts:      service.HistoryOptions{Page: 1, Limit: 5},
			wantCount: 5,
			wantFirst: fired[total-1],
			wantNext:  total > 5,
		},
		{
			name:      "page past the end",
			opts:      service.HistoryOptions{Page: 10, Limit: 5, Order: "asc"},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetShotHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetShotHistory failed: %v", err)
			}
			if len(history.Shots) != tt.wantCount {
				t.Fatalf("Expected %d shots, got %d", tt.wantCount, len(history.Shots))
			}
			if history.TotalShots != total {
				t.Errorf("Expected total %d, got %d", total, history.TotalShots)
			}
			if tt.wantCount > 0 && history.Shots[0].Position != tt.wantFirst {
				t.Errorf("Expected first shot %+v, got %+v", tt.wantFirst, history.Shots[0].Position)
			}
			if tt.wantCount > 0 && history.HasNext != tt.wantNext {
				t.Errorf("Expected HasNext=%v, got %v", tt.wantNext, history.HasNext)
			}
		})
	}

	t.Run("hit flags", func(t *testing.T) {
		history, _ := svc.GetShotHistory(ctx, id, service.HistoryOptions{Limit: 100, Order: "asc"})
		for _, entry := range history.Shots {
			_, onShip := board.GetShip(entry.Position)
			if entry.Hit != onShip {
				t.Errorf("Shot %d at %+v: expected hit=%v", entry.Number, entry.Position, onShip)
			}
		}
	})
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions, NewMockConfigManager())

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, "test"); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(list))
	}
}

func TestGameService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _, id := newTestService(t)

	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.DeleteSession(ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestGameService_Restart(t *testing.T) {
	ctx := context.Background()
	svc, sessions, id := newTestService(t)
	board := sessions.sessions[id].Board

	before := board.Ships()
	svc.Fire(ctx, id, before[0].Placement[0])

	state, err := svc.Restart(ctx, id)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if state.ShotsFired != 0 || state.Status != engine.StatusSetup {
		t.Errorf("Expected fresh board, got %d shots, status %s", state.ShotsFired, state.Status)
	}
	if state.Message != "Welcome!" {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	after := board.Ships()
	if after[0].ID == before[0].ID {
		t.Error("Expected new ship ids after restart")
	}
}

func TestGameService_SaveConfig(t *testing.T) {
	ctx := context.Background()
	configs := NewMockConfigManager()
	svc := service.NewGameService(NewMockSessionManager(), configs)

	if err := svc.SaveConfig(ctx, "mine", testFleetConfig("mine")); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, ok := configs.saved["mine"]; !ok {
		t.Error("Expected config to reach the config manager")
	}

	bad := testFleetConfig("bad")
	bad.Ships = nil
	if err := svc.SaveConfig(ctx, "bad", bad); !errors.Is(err, service.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
