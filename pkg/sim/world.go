package sim

import "math/rand"

// World is the per-session context for one simulation: it owns the monotonic
// entity id counter and the seeded RNG stream, so sessions are replayable and
// never share state. A World holds exactly one containment tree and assumes a
// single writer.
type World struct {
	Root  *Entity // tree root (the room in single-room games)
	Agent *Entity // the acting agent; holds the inventory

	rng    *rand.Rand
	nextID int
}

// NewWorld creates an empty world with a deterministic RNG stream.
func NewWorld(seed int64) *World {
	return &World{rng: rand.New(rand.NewSource(seed))}
}

// Rand returns the world's RNG stream. Game definitions draw from it during
// world construction so a seed fully determines the session.
func (w *World) Rand() *rand.Rand { return w.rng }

// MaxID returns the highest entity id issued so far.
func (w *World) MaxID() int { return w.nextID }

// NewEntity allocates an entity with the next id and the two critical
// properties every entity carries.
func (w *World) NewEntity(typeTag, name string) *Entity {
	e := &Entity{
		ID:   w.nextID,
		Type: typeTag,
		Name: name,
		Props: Properties{
			"isContainer": false,
			"isMoveable":  true,
		},
	}
	w.nextID++
	return e
}

// Destroy detaches an entity from the tree and discards it. There is no
// tombstone; a later snapshot diff records the removal by id.
func (w *World) Destroy(e *Entity) {
	e.Detach()
}
