package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInfeasibleLayout is returned when no layout could be generated for a fleet
	ErrInfeasibleLayout = errors.New("no valid ship layout found")

	errNoPlacement = errors.New("no possible placement")
)

// generator produces random layouts by greedy placement with whole-layout retries
type generator struct {
	geometry    Geometry
	rng         *rand.Rand
	ids         IDSource
	maxAttempts int
}

// generate places every blueprint in order, restarting from scratch whenever a
// blueprint has nowhere left to go. It gives up after maxAttempts layouts.
func (g *generator) generate(blueprints []ShipBlueprint) ([]Ship, error) {
	for _, bp := range blueprints {
		if !g.fits(bp) {
			return nil, fmt.Errorf("%w: %s (size %d) does not fit a %dx%d grid",
				ErrInfeasibleLayout, bp.Name, bp.Size, g.geometry.Size.Width, g.geometry.Size.Height)
		}
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		ships, err := g.attempt(blueprints)
		if err == nil {
			return ships, nil
		}
		if !errors.Is(err, errNoPlacement) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: gave up after %d attempts", ErrInfeasibleLayout, g.maxAttempts)
}

// attempt runs one greedy pass over the fleet
func (g *generator) attempt(blueprints []ShipBlueprint) ([]Ship, error) {
	ships := make([]Ship, 0, len(blueprints))

	for _, bp := range blueprints {
		placements := g.geometry.AllValidPlacements(bp, ships)
		if len(placements) == 0 {
			return nil, errNoPlacement
		}

		placement := placements[g.rng.IntN(len(placements))]
		ships = append(ships, Ship{
			ID:        g.ids.NextID(),
			Blueprint: bp,
			Placement: placement,
		})
	}

	return ships, nil
}

// fits reports whether a blueprint could be placed on an empty grid at all
func (g *generator) fits(bp ShipBlueprint) bool {
	size := g.geometry.Size
	return bp.Size > 0 && (bp.Size <= size.Width || bp.Size <= size.Height)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
