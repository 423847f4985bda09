package engine

import "testing"

func TestGeometry_ShipCells(t *testing.T) {
	g := NewGeometry(Size{Width: 10, Height: 8})
	bp := ShipBlueprint{ID: 1, Name: "Destroyer", Size: 4}

	tests := []struct {
		name        string
		anchor      Position
		orientation Orientation
		want        Placement
		ok          bool
	}{
		{"horizontal from origin", Position{X: 0, Y: 0}, Horizontal,
			Placement{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}, true},
		{"vertical from origin", Position{X: 0, Y: 0}, Vertical,
			Placement{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3}}, true},
		{"horizontal touching right edge", Position{X: 6, Y: 7}, Horizontal,
			Placement{{X: 6, Y: 7}, {X: 7, Y: 7}, {X: 8, Y: 7}, {X: 9, Y: 7}}, true},
		{"horizontal past right edge", Position{X: 7, Y: 0}, Horizontal, nil, false},
		{"vertical touching bottom edge", Position{X: 9, Y: 4}, Vertical,
			Placement{{X: 9, Y: 4}, {X: 9, Y: 5}, {X: 9, Y: 6}, {X: 9, Y: 7}}, true},
		{"vertical past bottom edge", Position{X: 0, Y: 5}, Vertical, nil, false},
		{"anchor off grid", Position{X: -1, Y: 0}, Horizontal, nil, false},
		{"unknown orientation", Position{X: 0, Y: 0}, Orientation("diagonal"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.ShipCells(bp, tt.anchor, tt.orientation)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d cells, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Cell %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestGeometry_IsAvailable(t *testing.T) {
	g := NewGeometry(Size{Width: 5, Height: 5})
	ships := []Ship{{
		ID:        1,
		Blueprint: ShipBlueprint{ID: 1, Name: "Patrol", Size: 2},
		Placement: Placement{{X: 1, Y: 1}, {X: 2, Y: 1}},
	}}

	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"occupied cell", Position{X: 1, Y: 1}, false},
		{"left neighbour", Position{X: 0, Y: 1}, false},
		{"right neighbour", Position{X: 3, Y: 1}, false},
		{"above", Position{X: 2, Y: 0}, false},
		{"below", Position{X: 1, Y: 2}, false},
		{"diagonal", Position{X: 3, Y: 2}, true},
		{"diagonal at corner", Position{X: 0, Y: 0}, true},
		{"far away", Position{X: 4, Y: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsAvailable(tt.pos, ships); got != tt.want {
				t.Errorf("IsAvailable(%+v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}

	t.Run("empty waters", func(t *testing.T) {
		if !g.IsAvailable(Position{X: 0, Y: 0}, nil) {
			t.Error("Expected every cell to be available with no ships")
		}
	})
}

func TestGeometry_AllValidPlacements(t *testing.T) {
	g := NewGeometry(Size{Width: 3, Height: 3})
	bp := ShipBlueprint{ID: 1, Name: "Cruiser", Size: 3}

	t.Run("empty grid enumeration order", func(t *testing.T) {
		placements := g.AllValidPlacements(bp, nil)
		if len(placements) != 6 {
			t.Fatalf("Expected 6 placements, got %d", len(placements))
		}

		expectedAnchors := []struct {
			anchor      Position
			orientation Orientation
		}{
			{Position{X: 0, Y: 0}, Horizontal},
			{Position{X: 0, Y: 0}, Vertical},
			{Position{X: 0, Y: 1}, Horizontal},
			{Position{X: 0, Y: 2}, Horizontal},
			{Position{X: 1, Y: 0}, Vertical},
			{Position{X: 2, Y: 0}, Vertical},
		}
		for i, exp := range expectedAnchors {
			want, _ := g.ShipCells(bp, exp.anchor, exp.orientation)
			for j := range want {
				if placements[i][j] != want[j] {
					t.Errorf("Placement %d: expected %v, got %v", i, want, placements[i])
					break
				}
			}
		}
	})

	t.Run("existing ship excludes neighbours", func(t *testing.T) {
		top := Ship{ID: 2, Blueprint: bp, Placement: Placement{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}}
		placements := g.AllValidPlacements(bp, []Ship{top})
		if len(placements) != 1 {
			t.Fatalf("Expected 1 placement, got %d: %v", len(placements), placements)
		}
		for _, cell := range placements[0] {
			if cell.Y != 2 {
				t.Errorf("Expected the bottom row, got %+v", cell)
			}
		}
	})

	t.Run("no room left", func(t *testing.T) {
		ships := []Ship{
			{ID: 2, Blueprint: bp, Placement: Placement{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}},
			{ID: 3, Blueprint: bp, Placement: Placement{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}},
		}
		if placements := g.AllValidPlacements(bp, ships); len(placements) != 0 {
			t.Errorf("Expected no placements, got %d", len(placements))
		}
	})

	t.Run("blueprint longer than grid", func(t *testing.T) {
		long := ShipBlueprint{ID: 4, Name: "Battleship", Size: 5}
		if placements := g.AllValidPlacements(long, nil); len(placements) != 0 {
			t.Errorf("Expected no placements, got %d", len(placements))
		}
	})
}

func TestGeometry_WalkGrid(t *testing.T) {
	g := NewGeometry(Size{Width: 2, Height: 3})
	var visited []Position
	g.WalkGrid(func(p Position) {
		visited = append(visited, p)
	})

	want := []Position{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}}
	if len(visited) != len(want) {
		t.Fatalf("Expected %d positions, got %d", len(want), len(visited))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Position %d: expected %+v, got %+v", i, want[i], visited[i])
		}
	}
}
