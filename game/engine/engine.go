package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrPositionOutOfBounds = errors.New("position out of grid bounds")
	ErrInvalidBoard        = errors.New("invalid board")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Shots
	Fire(pos Position) error
	HasShot(pos Position) bool
	Shots() []Position

	// Ships
	GetShip(pos Position) (Ship, bool)
	IsShipSunk(ship Ship) bool
	HasAllShipsSunk() bool
	Ships() []ShipView

	// Grid
	GridSize() Size
	GridCells() []GridCell
	Blueprints() []ShipBlueprint
	Status() Status

	Restart() error
}

// Option configures a Board
type Option func(*Board)

// WithRand sets the random source used to pick placements
func WithRand(rng *rand.Rand) Option {
	return func(b *Board) {
		if rng != nil {
			b.gen.rng = rng
		}
	}
}

// WithIDSource sets the source ship ids are minted from
func WithIDSource(ids IDSource) Option {
	return func(b *Board) {
		if ids != nil {
			b.gen.ids = ids
		}
	}
}

// WithMaxAttempts bounds how many whole layouts are tried before giving up
func WithMaxAttempts(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.gen.maxAttempts = n
		}
	}
}

// Board implements the Engine interface.
// It is not safe for concurrent use; callers serialize access.
type Board struct {
	size       Size
	blueprints []ShipBlueprint
	ships      []Ship
	shots      []Position
	shotSet    map[Position]struct{}
	gen        *generator
}

var _ Engine = (*Board)(nil)

// NewBoard creates a board and generates its first layout
func NewBoard(size Size, blueprints []ShipBlueprint, opts ...Option) (*Board, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: grid size must be positive, got %dx%d", ErrInvalidBoard, size.Width, size.Height)
	}
	if len(blueprints) == 0 {
		return nil, fmt.Errorf("%w: at least one ship blueprint is required", ErrInvalidBoard)
	}
	for _, bp := range blueprints {
		if bp.Size <= 0 {
			return nil, fmt.Errorf("%w: ship %q has non-positive size %d", ErrInvalidBoard, bp.Name, bp.Size)
		}
	}

	b := &Board{
		size:       size,
		blueprints: append([]ShipBlueprint(nil), blueprints...),
		gen: &generator{
			geometry:    NewGeometry(size),
			rng:         newRand(),
			ids:         DefaultIDs,
			maxAttempts: DefaultMaxAttempts,
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.Restart(); err != nil {
		return nil, err
	}
	return b, nil
}

// Fire records a shot. Repeated shots are ignored.
func (b *Board) Fire(pos Position) error {
	if !b.size.Contains(pos) {
		return fmt.Errorf("%w: (%d,%d) on a %dx%d grid", ErrPositionOutOfBounds, pos.X, pos.Y, b.size.Width, b.size.Height)
	}
	if b.HasShot(pos) {
		return nil
	}

	b.shots = append(b.shots, pos)
	b.shotSet[pos] = struct{}{}
	return nil
}

// HasShot reports whether pos has been fired at
func (b *Board) HasShot(pos Position) bool {
	_, ok := b.shotSet[pos]
	return ok
}

// Shots returns the fired positions in the order they were fired
func (b *Board) Shots() []Position {
	return append([]Position(nil), b.shots...)
}

// GetShip returns the ship occupying pos
func (b *Board) GetShip(pos Position) (Ship, bool) {
	for _, ship := range b.ships {
		if ship.Placement.Contains(pos) {
			return ship.clone(), true
		}
	}
	return Ship{}, false
}

// IsShipSunk reports whether every cell of ship has been shot
func (b *Board) IsShipSunk(ship Ship) bool {
	for _, cell := range ship.Placement {
		if !b.HasShot(cell) {
			return false
		}
	}
	return true
}

// HasAllShipsSunk reports the win condition
func (b *Board) HasAllShipsSunk() bool {
	for _, ship := range b.ships {
		if !b.IsShipSunk(ship) {
			return false
		}
	}
	return true
}

// Ships returns every ship with its sunk flag and the shots that hit it
func (b *Board) Ships() []ShipView {
	views := make([]ShipView, 0, len(b.ships))
	for _, ship := range b.ships {
		hits := []Position{}
		for _, shot := range b.shots {
			if ship.Placement.Contains(shot) {
				hits = append(hits, shot)
			}
		}
		views = append(views, ShipView{
			Ship:   ship.clone(),
			IsSank: len(hits) == len(ship.Placement),
			Hits:   hits,
		})
	}
	return views
}

// GridSize returns the grid dimensions
func (b *Board) GridSize() Size {
	return b.size
}

// GridCells returns one cell per grid position in WalkGrid order
func (b *Board) GridCells() []GridCell {
	owner := make(map[Position]int)
	for i, ship := range b.ships {
		for _, cell := range ship.Placement {
			owner[cell] = i
		}
	}

	cells := make([]GridCell, 0, b.size.Area())
	b.gen.geometry.WalkGrid(func(pos Position) {
		cell := GridCell{Position: pos, HasShot: b.HasShot(pos)}
		if i, ok := owner[pos]; ok {
			ship := b.ships[i].clone()
			cell.Ship = &ship
			cell.HasHit = cell.HasShot
		}
		cells = append(cells, cell)
	})
	return cells
}

// clone copies the placement so callers cannot edit the board's layout
func (s Ship) clone() Ship {
	s.Placement = append(Placement(nil), s.Placement...)
	return s
}

// Blueprints returns the configured fleet
func (b *Board) Blueprints() []ShipBlueprint {
	return append([]ShipBlueprint(nil), b.blueprints...)
}

// Status derives the board phase from shots and ships
func (b *Board) Status() Status {
	switch {
	case len(b.shots) == 0:
		return StatusSetup
	case b.HasAllShipsSunk():
		return StatusWon
	default:
		return StatusInProgress
	}
}

// Restart clears the shots and generates a new layout.
// On failure the shots stay cleared and the previous layout is kept.
func (b *Board) Restart() error {
	b.shots = nil
	b.shotSet = make(map[Position]struct{})

	ships, err := b.gen.generate(b.blueprints)
	if err != nil {
		return err
	}
	b.ships = ships
	return nil
}
