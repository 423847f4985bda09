package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCoordinate renders p in board notation: column letter then 1-based row ("B4" is x=1, y=3)
func FormatCoordinate(p Position) string {
	if p.X < 0 || p.X >= MaxGridSize || p.Y < 0 {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("%c%d", 'A'+rune(p.X), p.Y+1)
}

// ParseCoordinate parses board notation such as "B4" or "j10". It does not
// check the position against any grid.
func ParseCoordinate(s string) (Position, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Position{}, fmt.Errorf("invalid coordinate %q", s)
	}

	col := s[0]
	if col < 'A' || col > 'Z' {
		return Position{}, fmt.Errorf("invalid coordinate %q: column must be a letter", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 {
		return Position{}, fmt.Errorf("invalid coordinate %q: row must be a positive number", s)
	}

	return Position{X: int(col - 'A'), Y: row - 1}, nil
}

// CountSunk counts the sunk ships in views
func CountSunk(views []ShipView) int {
	count := 0
	for _, v := range views {
		if v.IsSank {
			count++
		}
	}
	return count
}

// CountHits counts the shots that landed on a ship
func CountHits(views []ShipView) int {
	count := 0
	for _, v := range views {
		count += len(v.Hits)
	}
	return count
}

// Accuracy returns hits/shots as a percentage, 0 when nothing was fired
func Accuracy(hits, shots int) float64 {
	if shots == 0 {
		return 0
	}
	return float64(hits) * 100 / float64(shots)
}
