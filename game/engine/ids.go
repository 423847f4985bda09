package engine

import "sync/atomic"

// IDSource mints identifiers for blueprints and ships.
// Identifiers are unique per source and increase monotonically; gaps are allowed.
type IDSource interface {
	NextID() int
}

// Counter is an IDSource backed by an atomic counter
type Counter struct {
	last atomic.Int64
}

// NewCounter creates a counter whose first NextID returns start+1
func NewCounter(start int) *Counter {
	c := &Counter{}
	c.last.Store(int64(start))
	return c
}

// NextID returns the next identifier
func (c *Counter) NextID() int {
	return int(c.last.Add(1))
}

// DefaultIDs is the process-wide source used when no IDSource is injected
var DefaultIDs IDSource = NewCounter(0)

// NewBlueprint creates a blueprint with a fresh id from ids
func NewBlueprint(ids IDSource, name string, size int) ShipBlueprint {
	if ids == nil {
		ids = DefaultIDs
	}
	return ShipBlueprint{
		ID:   ids.NextID(),
		Name: name,
		Size: size,
	}
}

// NewBattleshipBlueprint creates a size 5 Battleship blueprint.
// Every call mints a new id.
func NewBattleshipBlueprint() ShipBlueprint {
	return NewBlueprint(DefaultIDs, "Battleship", BattleshipSize)
}

// NewDestroyerBlueprint creates a size 4 Destroyer blueprint.
// Every call mints a new id.
func NewDestroyerBlueprint() ShipBlueprint {
	return NewBlueprint(DefaultIDs, "Destroyer", DestroyerSize)
}
