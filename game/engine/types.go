package engine

// Orientation is the axis a ship extends along from its anchor cell
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Status is the phase of a board, derived from its shots and ships
type Status string

const (
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
)

const (
	BattleshipSize = 5
	DestroyerSize  = 4

	// Validation constants
	MinGridSize         = 3
	MaxGridSize         = 26
	MaxFleetShips       = 20
	DefaultMaxAttempts  = 1000
	MaxBulkShots        = 100
	WebSocketBufferSize = 256
)

// Size holds the grid dimensions
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies inside the grid
func (s Size) Contains(p Position) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Area returns the number of cells in the grid
func (s Size) Area() int {
	return s.Width * s.Height
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Placement is the ordered list of cells a ship occupies
type Placement []Position

// Contains reports whether pos is one of the placement cells
func (p Placement) Contains(pos Position) bool {
	for _, cell := range p {
		if cell == pos {
			return true
		}
	}
	return false
}

// ShipBlueprint describes a ship that has not been placed yet
type ShipBlueprint struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Ship is a blueprint committed to a placement on the grid
type Ship struct {
	ID        int           `json:"id"`
	Blueprint ShipBlueprint `json:"blueprint"`
	Placement Placement     `json:"placement"`
}

// ShipView is a ship together with its damage, computed from the shot list
type ShipView struct {
	Ship
	IsSank bool       `json:"is_sank"`
	Hits   []Position `json:"hits"`
}

// GridCell is the derived view of one grid position
type GridCell struct {
	Position Position `json:"position"`
	Ship     *Ship    `json:"ship,omitempty"`
	HasShot  bool     `json:"has_shot"`
	HasHit   bool     `json:"has_hit"`
}
