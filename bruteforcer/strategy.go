package main

import (
	"math/rand/v2"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
	"github.com/wricardo/mcp-training/treacherouswaters/game/service"
)

// HuntStrategy picks the next shot from the public board map.
//
// Ships never share an edge, so every open hit cluster belongs to one ship and
// every cell touching a sunk ship is water. With open hits it finishes that
// ship (target mode); otherwise it fires at the cell crossed by the most
// placements of the ships still afloat (hunt mode).
type HuntStrategy struct {
	rng *rand.Rand // tie breaks; nil picks the first best cell
}

func NewHuntStrategy(rng *rand.Rand) *HuntStrategy {
	return &HuntStrategy{rng: rng}
}

var orthogonal = []engine.Position{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// chart is the strategy's read of one board map
type chart struct {
	size  engine.Size
	board []string
	water map[engine.Position]bool
}

func newChart(state *service.GameState) *chart {
	c := &chart{
		size:  state.Grid,
		board: state.Board,
		water: make(map[engine.Position]bool),
	}
	c.each(func(p engine.Position) {
		if c.at(p) != service.CellSunk {
			return
		}
		for _, n := range c.neighbours(p) {
			if c.at(n) == service.CellUnknown {
				c.water[n] = true
			}
		}
	})
	return c
}

func (c *chart) each(fn func(engine.Position)) {
	for y := 0; y < c.size.Height; y++ {
		for x := 0; x < c.size.Width; x++ {
			fn(engine.Position{X: x, Y: y})
		}
	}
}

func (c *chart) at(p engine.Position) rune {
	if !c.size.Contains(p) || p.Y >= len(c.board) || p.X >= len(c.board[p.Y]) {
		return service.CellMiss
	}
	return rune(c.board[p.Y][p.X])
}

func (c *chart) neighbours(p engine.Position) []engine.Position {
	out := make([]engine.Position, 0, len(orthogonal))
	for _, d := range orthogonal {
		n := engine.Position{X: p.X + d.X, Y: p.Y + d.Y}
		if c.size.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// open reports whether p could still hold an unseen ship cell
func (c *chart) open(p engine.Position) bool {
	return c.at(p) == service.CellUnknown && !c.water[p]
}

// clusters groups open hits that share an edge
func (c *chart) clusters() [][]engine.Position {
	seen := make(map[engine.Position]bool)
	var out [][]engine.Position
	c.each(func(start engine.Position) {
		if seen[start] || c.at(start) != service.CellHit {
			return
		}
		seen[start] = true
		cluster := []engine.Position{start}
		for i := 0; i < len(cluster); i++ {
			for _, n := range c.neighbours(cluster[i]) {
				if !seen[n] && c.at(n) == service.CellHit {
					seen[n] = true
					cluster = append(cluster, n)
				}
			}
		}
		out = append(out, cluster)
	})
	return out
}

// targets returns the open cells that could extend a hit cluster
func (c *chart) targets(cluster []engine.Position) []engine.Position {
	var out []engine.Position
	if len(cluster) == 1 {
		for _, n := range c.neighbours(cluster[0]) {
			if c.open(n) {
				out = append(out, n)
			}
		}
		return out
	}

	lo, hi := cluster[0], cluster[0]
	for _, p := range cluster[1:] {
		if p.X < lo.X || p.Y < lo.Y {
			lo = p
		}
		if p.X > hi.X || p.Y > hi.Y {
			hi = p
		}
	}
	var ends [2]engine.Position
	if lo.Y == hi.Y {
		ends = [2]engine.Position{{X: lo.X - 1, Y: lo.Y}, {X: hi.X + 1, Y: hi.Y}}
	} else {
		ends = [2]engine.Position{{X: lo.X, Y: lo.Y - 1}, {X: hi.X, Y: hi.Y + 1}}
	}
	for _, p := range ends {
		if c.size.Contains(p) && c.open(p) {
			out = append(out, p)
		}
	}
	return out
}

// density counts, for every open cell, the placements of the given sizes
// that cross it through open cells only
func (c *chart) density(sizes []int) map[engine.Position]int {
	scores := make(map[engine.Position]int)
	for _, size := range sizes {
		c.each(func(anchor engine.Position) {
			for _, dir := range []engine.Position{{X: 1, Y: 0}, {X: 0, Y: 1}} {
				cells := make([]engine.Position, 0, size)
				for i := 0; i < size; i++ {
					p := engine.Position{X: anchor.X + dir.X*i, Y: anchor.Y + dir.Y*i}
					if !c.size.Contains(p) || !c.open(p) {
						break
					}
					cells = append(cells, p)
				}
				if len(cells) != size {
					continue
				}
				for _, p := range cells {
					scores[p]++
				}
				if size == 1 {
					break
				}
			}
		})
	}
	return scores
}

// Next returns the cell to fire at, or false when no unknown cell remains
func (s *HuntStrategy) Next(state *service.GameState) (engine.Position, bool) {
	if state == nil || state.GameOver {
		return engine.Position{}, false
	}
	c := newChart(state)

	for _, cluster := range c.clusters() {
		if targets := c.targets(cluster); len(targets) > 0 {
			return s.pick(targets), true
		}
	}

	var sizes []int
	for _, ship := range state.Ships {
		if !ship.Sunk {
			sizes = append(sizes, ship.Size)
		}
	}
	scores := c.density(sizes)

	var best []engine.Position
	top := 0
	c.each(func(p engine.Position) {
		score := scores[p]
		switch {
		case score == 0:
		case score > top:
			top = score
			best = append(best[:0], p)
		case score == top:
			best = append(best, p)
		}
	})
	if len(best) > 0 {
		return s.pick(best), true
	}

	// nothing scores; fall back to any cell not yet fired at
	var unknown []engine.Position
	c.each(func(p engine.Position) {
		if c.at(p) == service.CellUnknown {
			unknown = append(unknown, p)
		}
	})
	if len(unknown) == 0 {
		return engine.Position{}, false
	}
	return s.pick(unknown), true
}

func (s *HuntStrategy) pick(cells []engine.Position) engine.Position {
	if s.rng == nil || len(cells) == 1 {
		return cells[0]
	}
	return cells[s.rng.IntN(len(cells))]
}
