package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidationConstants(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"BattleshipSize", BattleshipSize, 5},
		{"DestroyerSize", DestroyerSize, 4},
		{"MinGridSize", MinGridSize, 3},
		{"MaxGridSize", MaxGridSize, 26},
		{"MaxBulkShots", MaxBulkShots, 100},
		{"WebSocketBufferSize", WebSocketBufferSize, 256},
	}

	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, test.actual)
		}
	}
}

func TestSize(t *testing.T) {
	s := Size{Width: 4, Height: 3}

	if s.Area() != 12 {
		t.Errorf("Expected area 12, got %d", s.Area())
	}

	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{X: 0, Y: 0}, true},
		{Position{X: 3, Y: 2}, true},
		{Position{X: 4, Y: 0}, false},
		{Position{X: 0, Y: 3}, false},
		{Position{X: -1, Y: 1}, false},
		{Position{X: 1, Y: -1}, false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestPlacement_Contains(t *testing.T) {
	p := Placement{{X: 2, Y: 2}, {X: 2, Y: 3}}
	if !p.Contains(Position{X: 2, Y: 3}) {
		t.Error("Expected placement to contain (2,3)")
	}
	if p.Contains(Position{X: 3, Y: 2}) {
		t.Error("Expected placement not to contain (3,2)")
	}
}

func TestShipViewJSON(t *testing.T) {
	view := ShipView{
		Ship: Ship{
			ID:        7,
			Blueprint: ShipBlueprint{ID: 3, Name: "Destroyer", Size: 2},
			Placement: Placement{{X: 0, Y: 0}, {X: 1, Y: 0}},
		},
		IsSank: true,
		Hits:   []Position{{X: 1, Y: 0}, {X: 0, Y: 0}},
	}

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("Failed to marshal ship view: %v", err)
	}

	// embedded ship fields are flattened
	for _, key := range []string{`"id":7`, `"blueprint"`, `"placement"`, `"is_sank":true`, `"hits"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}

func TestCoordinates(t *testing.T) {
	tests := []struct {
		text string
		pos  Position
	}{
		{"A1", Position{X: 0, Y: 0}},
		{"B4", Position{X: 1, Y: 3}},
		{"J10", Position{X: 9, Y: 9}},
		{"Z26", Position{X: 25, Y: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := FormatCoordinate(tt.pos); got != tt.text {
				t.Errorf("FormatCoordinate(%+v) = %s, want %s", tt.pos, got, tt.text)
			}
			got, err := ParseCoordinate(tt.text)
			if err != nil {
				t.Fatalf("ParseCoordinate(%s) failed: %v", tt.text, err)
			}
			if got != tt.pos {
				t.Errorf("ParseCoordinate(%s) = %+v, want %+v", tt.text, got, tt.pos)
			}
		})
	}

	t.Run("lower case and spaces", func(t *testing.T) {
		got, err := ParseCoordinate(" c7 ")
		if err != nil || got != (Position{X: 2, Y: 6}) {
			t.Errorf("Expected (2,6), got %+v (err %v)", got, err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "A", "1A", "A0", "A-3", "AB"} {
			if _, err := ParseCoordinate(s); err == nil {
				t.Errorf("Expected error for %q", s)
			}
		}
	})

	t.Run("off board formatting", func(t *testing.T) {
		if got := FormatCoordinate(Position{X: -1, Y: 2}); got != "(-1,2)" {
			t.Errorf("Expected (-1,2), got %s", got)
		}
	})
}

func TestShipStats(t *testing.T) {
	views := []ShipView{
		{IsSank: true, Hits: []Position{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		{IsSank: false, Hits: []Position{{X: 5, Y: 5}}},
		{IsSank: false, Hits: []Position{}},
	}

	if got := CountSunk(views); got != 1 {
		t.Errorf("Expected 1 sunk, got %d", got)
	}
	if got := CountHits(views); got != 3 {
		t.Errorf("Expected 3 hits, got %d", got)
	}
	if got := Accuracy(3, 4); got != 75 {
		t.Errorf("Expected 75%% accuracy, got %v", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Errorf("Expected 0 accuracy with no shots, got %v", got)
	}
}
