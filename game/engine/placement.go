package engine

// footprintOffsets are the cells a ship cell keeps clear: itself and its four
// orthogonal neighbours. Diagonals are deliberately absent.
var footprintOffsets = []Position{
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
}

// Geometry computes ship placements on a grid of a fixed size.
// It holds no state besides the size.
type Geometry struct {
	Size Size
}

// NewGeometry creates the placement geometry for a grid
func NewGeometry(size Size) Geometry {
	return Geometry{Size: size}
}

// WalkGrid calls fn for every position, x in the outer loop and y in the inner loop
func (g Geometry) WalkGrid(fn func(Position)) {
	for x := 0; x < g.Size.Width; x++ {
		for y := 0; y < g.Size.Height; y++ {
			fn(Position{X: x, Y: y})
		}
	}
}

// ShipCells returns the cells a blueprint would occupy when anchored at anchor.
// The ship extends towards +x when horizontal and +y when vertical.
// It returns false when any cell would fall outside the grid; collisions are not checked.
func (g Geometry) ShipCells(blueprint ShipBlueprint, anchor Position, orientation Orientation) (Placement, bool) {
	if blueprint.Size <= 0 || !g.Size.Contains(anchor) {
		return nil, false
	}

	dx, dy := 0, 0
	switch orientation {
	case Horizontal:
		if anchor.X+blueprint.Size > g.Size.Width {
			return nil, false
		}
		dx = 1
	case Vertical:
		if anchor.Y+blueprint.Size > g.Size.Height {
			return nil, false
		}
		dy = 1
	default:
		return nil, false
	}

	cells := make(Placement, blueprint.Size)
	for i := range cells {
		cells[i] = Position{X: anchor.X + i*dx, Y: anchor.Y + i*dy}
	}
	return cells, true
}

// IsAvailable reports whether a ship cell may go at pos without overlapping or
// orthogonally touching any of ships
func (g Geometry) IsAvailable(pos Position, ships []Ship) bool {
	return g.isAvailable(pos, occupiedCells(ships))
}

// AllValidPlacements enumerates every placement of blueprint whose cells are all
// available against ships. Anchors are walked in WalkGrid order and each anchor
// yields its horizontal candidate before its vertical one.
func (g Geometry) AllValidPlacements(blueprint ShipBlueprint, ships []Ship) []Placement {
	occupied := occupiedCells(ships)
	var placements []Placement

	g.WalkGrid(func(anchor Position) {
		for _, orientation := range []Orientation{Horizontal, Vertical} {
			cells, ok := g.ShipCells(blueprint, anchor, orientation)
			if !ok {
				continue
			}
			if g.allAvailable(cells, occupied) {
				placements = append(placements, cells)
			}
		}
	})

	return placements
}

func (g Geometry) allAvailable(cells Placement, occupied map[Position]struct{}) bool {
	for _, cell := range cells {
		if !g.isAvailable(cell, occupied) {
			return false
		}
	}
	return true
}

func (g Geometry) isAvailable(pos Position, occupied map[Position]struct{}) bool {
	for _, offset := range footprintOffsets {
		neighbour := Position{X: pos.X + offset.X, Y: pos.Y + offset.Y}
		if !g.Size.Contains(neighbour) {
			continue
		}
		if _, taken := occupied[neighbour]; taken {
			return false
		}
	}
	return true
}

// occupiedCells flattens the placements of ships into a lookup set
func occupiedCells(ships []Ship) map[Position]struct{} {
	occupied := make(map[Position]struct{})
	for _, ship := range ships {
		for _, cell := range ship.Placement {
			occupied[cell] = struct{}{}
		}
	}
	return occupied
}
